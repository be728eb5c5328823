package persistence

import (
	"context"

	"github.com/digiclever/dispenser/internal/domain/entity"
)

// TransactionRepository defines read access to the append-only transaction log.
// Writes happen only through UserRepository.AdjustBalanceAndLog, which couples
// them to the balance mutation.
type TransactionRepository interface {
	// ListRecent returns the user's most recent transactions, newest first,
	// capped at limit
	//
	// Possible errors:
	// - ErrStoreUnavailable: if the store cannot be reached
	ListRecent(ctx context.Context, userID string, limit int) ([]entity.Transaction, error)
}
