package error

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"unknown device", ErrUnknownDevice, CodeUnknownDevice},
		{"account inactive", ErrAccountInactive, CodeAccountInactive},
		{"account deleted", ErrAccountDeleted, CodeAccountDeleted},
		{"device lost", ErrDeviceLost, CodeDeviceLost},
		{"device stolen", ErrDeviceStolen, CodeDeviceStolen},
		{"insufficient funds", ErrInsufficientFunds, CodeInsufficientFunds},
		{"username taken", ErrUsernameTaken, CodeUsernameTaken},
		{"username not found", ErrUsernameNotFound, CodeUsernameNotFound},
		{"device already linked", ErrDeviceAlreadyLinked, CodeDeviceAlreadyLinked},
		{"store unavailable", ErrStoreUnavailable, CodeStoreUnavailable},
		{"unexpected error", errors.New("boom"), CodeInternalServer},
		{"wrapped store error", fmt.Errorf("%w: dial tcp refused", ErrStoreUnavailable), CodeStoreUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, ErrorCode(tt.err))
		})
	}
}

func TestInsufficientFundsError(t *testing.T) {
	err := NewInsufficientFundsError("user-1", 50, 20)

	t.Run("should match the sentinel", func(t *testing.T) {
		assert.ErrorIs(t, err, ErrInsufficientFunds)
		assert.True(t, IsInsufficientFundsError(err))
	})

	t.Run("should carry details in the message", func(t *testing.T) {
		assert.Contains(t, err.Error(), "user-1")
		assert.Contains(t, err.Error(), "50")
		assert.Contains(t, err.Error(), "20")
	})

	t.Run("should expose structured log fields", func(t *testing.T) {
		var detailed *InsufficientFundsError
		assert.True(t, errors.As(err, &detailed))

		fields := detailed.LogFields()
		assert.Equal(t, "user-1", fields["user_id"])
		assert.Equal(t, int64(50), fields["requested"])
		assert.Equal(t, int64(20), fields["balance"])
	})
}

func TestDeviceConflictError(t *testing.T) {
	err := NewDeviceConflictError("uid-1", "alice")

	t.Run("should match the sentinel", func(t *testing.T) {
		assert.ErrorIs(t, err, ErrDeviceAlreadyLinked)
	})

	t.Run("should expose structured log fields", func(t *testing.T) {
		var detailed *DeviceConflictError
		assert.True(t, errors.As(err, &detailed))

		fields := detailed.LogFields()
		assert.Equal(t, "uid-1", fields["device_uid"])
		assert.Equal(t, "alice", fields["owner"])
	})
}

func TestIsNotFoundError(t *testing.T) {
	assert.True(t, IsNotFoundError(ErrUserNotFound))
	assert.True(t, IsNotFoundError(ErrUsernameNotFound))
	assert.True(t, IsNotFoundError(ErrUnknownDevice))
	assert.False(t, IsNotFoundError(ErrInsufficientFunds))
}

func TestIsReaderTimeout(t *testing.T) {
	assert.True(t, IsReaderTimeout(ErrReaderTimeout))
	assert.True(t, IsReaderTimeout(fmt.Errorf("handshake: %w", ErrReaderTimeout)))
	assert.False(t, IsReaderTimeout(errors.New("boom")))
}
