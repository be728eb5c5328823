package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/digiclever/dispenser/internal/domain/entity"
	errs "github.com/digiclever/dispenser/internal/domain/error"
	coreport "github.com/digiclever/dispenser/internal/domain/port/core"
	"github.com/digiclever/dispenser/internal/infrastructure/adapter/model"
)

// TransactionRepository implements the TransactionRepository port using GORM.
// It only reads; the log rows are written inside AdjustBalanceAndLog.
type TransactionRepository struct {
	db     *gorm.DB
	logger coreport.Logger
}

// NewTransactionRepository creates a new TransactionRepository instance
func NewTransactionRepository(db *gorm.DB, logger coreport.Logger) *TransactionRepository {
	return &TransactionRepository{
		db:     db,
		logger: logger,
	}
}

// ListRecent returns the newest transactions of a user, newest first
func (r *TransactionRepository) ListRecent(ctx context.Context, userID string, limit int) ([]entity.Transaction, error) {
	var txnModels []model.Transaction
	result := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&txnModels)

	if result.Error != nil {
		r.logger.Error("Database error when listing transactions", map[string]any{
			"user_id": userID,
			"error":   result.Error.Error(),
		})
		return nil, fmt.Errorf("%w: %s", errs.ErrStoreUnavailable, result.Error.Error())
	}

	txns := make([]entity.Transaction, 0, len(txnModels))
	for i := range txnModels {
		txns = append(txns, entity.Transaction{
			ID:          txnModels[i].ID,
			UserID:      txnModels[i].UserID,
			DeviceUID:   txnModels[i].DeviceUID,
			DispenserID: txnModels[i].DispenserID,
			Kind:        entity.TransactionKind(txnModels[i].Kind),
			Amount:      txnModels[i].Amount,
			CreatedAt:   txnModels[i].CreatedAt,
		})
	}

	return txns, nil
}
