package persistence

import (
	"context"

	"github.com/digiclever/dispenser/internal/domain/entity"
)

// UserRepository defines the ledger store operations on user accounts and
// their linked devices
type UserRepository interface {
	// GetByUsername retrieves a user (with devices) by username
	//
	// Possible errors:
	// - ErrUsernameNotFound: if no user has the given username
	// - ErrStoreUnavailable: if the store cannot be reached
	GetByUsername(ctx context.Context, username string) (*entity.User, error)

	// GetByDeviceUID retrieves the user (with devices) whose device list
	// contains the given uid. Device uids are globally unique, so at most
	// one user can match.
	//
	// Possible errors:
	// - ErrUnknownDevice: if no account references this uid
	// - ErrStoreUnavailable: if the store cannot be reached
	GetByDeviceUID(ctx context.Context, uid string) (*entity.User, error)

	// Create inserts a new user
	//
	// Possible errors:
	// - ErrUsernameTaken: if the username already exists
	// - ErrStoreUnavailable: if the store cannot be reached
	Create(ctx context.Context, user *entity.User) error

	// ReplaceDevices overwrites the user's device list. The store enforces
	// global uid uniqueness; linking a uid already owned by another user
	// fails with ErrDeviceAlreadyLinked.
	//
	// Possible errors:
	// - ErrUserNotFound: if the user doesn't exist
	// - ErrDeviceAlreadyLinked: if a uid is owned by another user
	// - ErrStoreUnavailable: if the store cannot be reached
	ReplaceDevices(ctx context.Context, userID string, devices []entity.Device) error

	// AdjustBalanceAndLog applies the transaction's signed delta to the
	// user's balance and appends the transaction record as one atomic unit.
	// The non-negativity check is re-validated against the locked row at
	// commit time, so two concurrent withdrawals can never both pass a stale
	// check. Returns the user as committed, carrying the post-mutation
	// balance.
	//
	// Possible errors:
	// - ErrUserNotFound: if the user doesn't exist
	// - ErrInsufficientFunds: if the delta would make the balance negative
	// - ErrStoreUnavailable: if the store cannot be reached; no partial
	//   mutation has occurred
	AdjustBalanceAndLog(ctx context.Context, userID string, txn *entity.Transaction) (*entity.User, error)
}
