package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	errs "github.com/digiclever/dispenser/internal/domain/error"
	"github.com/digiclever/dispenser/mocks/port/core"
)

func TestNewTransaction(t *testing.T) {
	fixedTime := time.Date(2023, 1, 1, 12, 0, 0, 0, time.UTC)

	t.Run("should create a valid withdrawal", func(t *testing.T) {
		mockTimeProvider := new(core.MockTimeProvider)
		mockTimeProvider.On("Now").Return(fixedTime)

		txn, err := NewTransaction("tx-1", "user-1", "uid-1", "dispenser-1", KindWithdrawal, 5, mockTimeProvider)

		assert.NoError(t, err)
		assert.Equal(t, KindWithdrawal, txn.Kind)
		assert.Equal(t, int64(5), txn.Amount)
		assert.Equal(t, fixedTime, txn.CreatedAt)
	})

	t.Run("should reject empty user id", func(t *testing.T) {
		mockTimeProvider := new(core.MockTimeProvider)

		txn, err := NewTransaction("tx-1", "", "uid-1", "dispenser-1", KindRecharge, 5, mockTimeProvider)

		assert.Nil(t, txn)
		assert.ErrorIs(t, err, errs.ErrInvalidUserID)
	})

	t.Run("should reject unknown kind", func(t *testing.T) {
		mockTimeProvider := new(core.MockTimeProvider)

		txn, err := NewTransaction("tx-1", "user-1", "uid-1", "dispenser-1", TransactionKind("refund"), 5, mockTimeProvider)

		assert.Nil(t, txn)
		assert.ErrorIs(t, err, errs.ErrInvalidTransactionKind)
	})

	t.Run("should reject non-positive amounts", func(t *testing.T) {
		mockTimeProvider := new(core.MockTimeProvider)

		for _, amount := range []int64{0, -1, -100} {
			txn, err := NewTransaction("tx-1", "user-1", "uid-1", "dispenser-1", KindRecharge, amount, mockTimeProvider)
			assert.Nil(t, txn)
			assert.ErrorIs(t, err, errs.ErrInvalidAmount)
		}
	})
}

func TestTransaction_SignedAmount(t *testing.T) {
	withdrawal := Transaction{Kind: KindWithdrawal, Amount: 5}
	recharge := Transaction{Kind: KindRecharge, Amount: 20}

	assert.Equal(t, int64(-5), withdrawal.SignedAmount())
	assert.Equal(t, int64(20), recharge.SignedAmount())
}

func TestTransaction_DisplayAmount(t *testing.T) {
	withdrawal := Transaction{Kind: KindWithdrawal, Amount: 5}
	recharge := Transaction{Kind: KindRecharge, Amount: 20}

	assert.Equal(t, "-5", withdrawal.DisplayAmount())
	assert.Equal(t, "+20", recharge.DisplayAmount())
}
