package account

import (
	"context"

	"github.com/digiclever/dispenser/internal/domain/entity"
	coreport "github.com/digiclever/dispenser/internal/domain/port/core"
)

// recentTransactionLimit caps the audit listing shown on the kiosk
const recentTransactionLimit = 10

// LastTransactions loads the most recent transactions of the account owning
// the device uid, newest first, capped at 10, and publishes them for display.
func (u *AccountUseCase) LastTransactions(ctx context.Context, deviceUID string) ([]entity.Transaction, error) {
	user, err := u.users.GetByDeviceUID(ctx, deviceUID)
	if err != nil {
		return nil, err
	}

	txns, err := u.transactions.ListRecent(ctx, user.ID, recentTransactionLimit)
	if err != nil {
		u.logger.Error("Failed to load recent transactions", map[string]any{
			"user_id": user.ID,
			"error":   err.Error(),
		})
		return nil, err
	}

	views := make([]coreport.TransactionView, 0, len(txns))
	for i := range txns {
		views = append(views, coreport.TransactionView{
			When:    txns[i].CreatedAt,
			Display: txns[i].DisplayAmount(),
		})
	}
	u.events.Publish(coreport.TransactionsLoaded(u.timeProvider.Now(), views))

	return txns, nil
}
