package entity

import (
	"fmt"
	"time"

	errs "github.com/digiclever/dispenser/internal/domain/error"
	coreport "github.com/digiclever/dispenser/internal/domain/port/core"
)

// TransactionKind represents the direction of a transaction
type TransactionKind string

// Transaction kinds
const (
	KindRecharge   TransactionKind = "recharge"
	KindWithdrawal TransactionKind = "withdrawal"
)

// IsValid reports whether the kind is one of the known values
func (k TransactionKind) IsValid() bool {
	return k == KindRecharge || k == KindWithdrawal
}

// Transaction is an immutable record of a single balance mutation.
// It is created together with the balance change as one atomic unit and is
// never updated or deleted afterwards.
type Transaction struct {
	ID          string          // Unique identifier for the transaction
	UserID      string          // Account the transaction belongs to
	DeviceUID   string          // Device that triggered the transaction
	DispenserID string          // Kiosk unit that created the transaction
	Kind        TransactionKind // Recharge or withdrawal
	Amount      int64           // Always strictly positive
	CreatedAt   time.Time       // When the transaction was created
}

// NewTransaction creates a transaction record after validating its fields
func NewTransaction(
	id string,
	userID string,
	deviceUID string,
	dispenserID string,
	kind TransactionKind,
	amount int64,
	timeProvider coreport.TimeProvider,
) (*Transaction, error) {
	if userID == "" {
		return nil, errs.ErrInvalidUserID
	}
	if !kind.IsValid() {
		return nil, fmt.Errorf("%w: %s", errs.ErrInvalidTransactionKind, kind)
	}
	if amount <= 0 {
		return nil, errs.ErrInvalidAmount
	}

	return &Transaction{
		ID:          id,
		UserID:      userID,
		DeviceUID:   deviceUID,
		DispenserID: dispenserID,
		Kind:        kind,
		Amount:      amount,
		CreatedAt:   timeProvider.Now(),
	}, nil
}

// SignedAmount returns the balance delta this transaction applies:
// positive for a recharge, negative for a withdrawal
func (t *Transaction) SignedAmount() int64 {
	if t.Kind == KindWithdrawal {
		return -t.Amount
	}
	return t.Amount
}

// DisplayAmount renders the amount with its sign for transaction listings
func (t *Transaction) DisplayAmount() string {
	if t.Kind == KindWithdrawal {
		return fmt.Sprintf("-%d", t.Amount)
	}
	return fmt.Sprintf("+%d", t.Amount)
}
