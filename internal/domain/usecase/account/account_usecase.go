package account

import (
	"context"
	"errors"

	errs "github.com/digiclever/dispenser/internal/domain/error"
	coreport "github.com/digiclever/dispenser/internal/domain/port/core"
	"github.com/digiclever/dispenser/internal/domain/port/persistence"
)

// AccountUseCase handles enrollment, device linking and account queries
type AccountUseCase struct {
	users        persistence.UserRepository
	transactions persistence.TransactionRepository
	timeProvider coreport.TimeProvider
	events       coreport.EventSink
	logger       coreport.Logger
}

// NewAccountUseCase creates a new AccountUseCase
func NewAccountUseCase(
	users persistence.UserRepository,
	transactions persistence.TransactionRepository,
	timeProvider coreport.TimeProvider,
	events coreport.EventSink,
	logger coreport.Logger,
) *AccountUseCase {
	return &AccountUseCase{
		users:        users,
		transactions: transactions,
		timeProvider: timeProvider,
		events:       events,
		logger:       logger,
	}
}

// BalanceByDevice returns the balance of the account owning the device uid
func (u *AccountUseCase) BalanceByDevice(ctx context.Context, deviceUID string) (int64, error) {
	user, err := u.users.GetByDeviceUID(ctx, deviceUID)
	if err != nil {
		return 0, err
	}
	return user.Balance(), nil
}

// UsernameExists checks if a user with the given username exists
func (u *AccountUseCase) UsernameExists(ctx context.Context, username string) (bool, error) {
	_, err := u.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, errs.ErrUsernameNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
