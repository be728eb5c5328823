package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	errs "github.com/digiclever/dispenser/internal/domain/error"
	"github.com/digiclever/dispenser/mocks/port/core"
)

func TestNewUser(t *testing.T) {
	fixedTime := time.Date(2023, 1, 1, 12, 0, 0, 0, time.UTC)

	t.Run("should create active user with zero balance and no devices", func(t *testing.T) {
		mockTimeProvider := new(core.MockTimeProvider)
		mockTimeProvider.On("Now").Return(fixedTime)

		user, err := NewUser("user-1", "alice", "Alice", "Smith", mockTimeProvider)

		assert.NoError(t, err)
		assert.Equal(t, "user-1", user.ID)
		assert.Equal(t, "alice", user.Username)
		assert.Equal(t, int64(0), user.Balance())
		assert.Equal(t, UserActive, user.Status)
		assert.Empty(t, user.Devices)
		assert.Equal(t, fixedTime, user.RegistrationDate)
	})

	t.Run("should reject blank username", func(t *testing.T) {
		mockTimeProvider := new(core.MockTimeProvider)

		user, err := NewUser("user-1", "", "Alice", "Smith", mockTimeProvider)

		assert.Nil(t, user)
		assert.ErrorIs(t, err, errs.ErrMissingUsername)
	})
}

func TestUser_CanWithdraw(t *testing.T) {
	fixedTime := time.Date(2023, 1, 1, 12, 0, 0, 0, time.UTC)
	mockTimeProvider := new(core.MockTimeProvider)
	mockTimeProvider.On("Now").Return(fixedTime)

	user, err := NewUser("user-1", "alice", "", "", mockTimeProvider)
	assert.NoError(t, err)
	user.SetBalance(20, mockTimeProvider)

	assert.True(t, user.CanWithdraw(20))
	assert.True(t, user.CanWithdraw(5))
	assert.False(t, user.CanWithdraw(21))
}

func TestUser_LinkDevice(t *testing.T) {
	fixedTime := time.Date(2023, 1, 1, 12, 0, 0, 0, time.UTC)

	newDevice := func(uid string) Device {
		return Device{
			UID:            uid,
			Status:         DeviceActive,
			ActivationDate: fixedTime,
			Category:       CategorySmartcard,
		}
	}

	t.Run("should append device and find it by uid", func(t *testing.T) {
		mockTimeProvider := new(core.MockTimeProvider)
		mockTimeProvider.On("Now").Return(fixedTime)

		user, err := NewUser("user-1", "alice", "", "", mockTimeProvider)
		assert.NoError(t, err)

		err = user.LinkDevice(newDevice("uid-1"), mockTimeProvider)
		assert.NoError(t, err)
		assert.True(t, user.HasDevice("uid-1"))
		assert.NotNil(t, user.DeviceByUID("uid-1"))
		assert.Nil(t, user.DeviceByUID("uid-2"))
	})

	t.Run("should reject duplicate uid on the same user", func(t *testing.T) {
		mockTimeProvider := new(core.MockTimeProvider)
		mockTimeProvider.On("Now").Return(fixedTime)

		user, err := NewUser("user-1", "alice", "", "", mockTimeProvider)
		assert.NoError(t, err)

		assert.NoError(t, user.LinkDevice(newDevice("uid-1"), mockTimeProvider))
		err = user.LinkDevice(newDevice("uid-1"), mockTimeProvider)
		assert.ErrorIs(t, err, errs.ErrDeviceAlreadyLinked)
		assert.Len(t, user.Devices, 1)
	})
}

func TestUser_DisplayName(t *testing.T) {
	fixedTime := time.Date(2023, 1, 1, 12, 0, 0, 0, time.UTC)
	mockTimeProvider := new(core.MockTimeProvider)
	mockTimeProvider.On("Now").Return(fixedTime)

	t.Run("should use name and surname when both set", func(t *testing.T) {
		user, _ := NewUser("user-1", "alice", "Alice", "Smith", mockTimeProvider)
		assert.Equal(t, "Alice Smith", user.DisplayName())
	})

	t.Run("should fall back to name alone", func(t *testing.T) {
		user, _ := NewUser("user-1", "alice", "Alice", "", mockTimeProvider)
		assert.Equal(t, "Alice", user.DisplayName())
	})

	t.Run("should fall back to username", func(t *testing.T) {
		user, _ := NewUser("user-1", "alice", "", "", mockTimeProvider)
		assert.Equal(t, "alice", user.DisplayName())
	})
}
