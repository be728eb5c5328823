package account

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/digiclever/dispenser/internal/domain/entity"
	errs "github.com/digiclever/dispenser/internal/domain/error"
	coreport "github.com/digiclever/dispenser/internal/domain/port/core"
	"github.com/digiclever/dispenser/mocks/port/persistence"
)

func TestAccountUseCase_LinkDevice(t *testing.T) {
	ctx := context.Background()
	identity := coreport.DeviceIdentity{UID: "uid-1", HardwareSignature: "3b8f8001"}

	t.Run("should link a free device to an existing user", func(t *testing.T) {
		user := &entity.User{
			ID:       "user-1",
			Username: "alice",
			Name:     "Alice",
			Surname:  "Smith",
			Status:   entity.UserActive,
			Devices:  []entity.Device{},
		}

		mockUserRepo := new(persistence.MockUserRepository)
		mockUserRepo.On("GetByDeviceUID", ctx, "uid-1").Return(nil, errs.ErrUnknownDevice)
		mockUserRepo.On("GetByUsername", ctx, "alice").Return(user, nil)
		mockUserRepo.On("ReplaceDevices", ctx, "user-1", mock.MatchedBy(func(devices []entity.Device) bool {
			return len(devices) == 1 &&
				devices[0].UID == "uid-1" &&
				devices[0].Status == entity.DeviceActive &&
				devices[0].Category == entity.CategorySmartcard
		})).Return(nil)

		sink := &recordingSink{}
		uc := newUseCase(mockUserRepo, new(persistence.MockTransactionRepository), sink)

		linked, err := uc.LinkDevice(ctx, "alice", identity)

		assert.NoError(t, err)
		assert.True(t, linked.HasDevice("uid-1"))
		assert.Contains(t, sink.messages(), "Device added to the user Alice Smith.")
		mockUserRepo.AssertExpectations(t)
	})

	t.Run("should reject a missing identity", func(t *testing.T) {
		mockUserRepo := new(persistence.MockUserRepository)
		sink := &recordingSink{}
		uc := newUseCase(mockUserRepo, new(persistence.MockTransactionRepository), sink)

		linked, err := uc.LinkDevice(ctx, "alice", coreport.DeviceIdentity{})

		assert.Nil(t, linked)
		assert.ErrorIs(t, err, errs.ErrDeviceIdentityMissing)
		assert.Contains(t, sink.messages(), "Please place a card in front of the reader.")
		mockUserRepo.AssertNotCalled(t, "GetByDeviceUID", mock.Anything, mock.Anything)
	})

	t.Run("should reject a blank username", func(t *testing.T) {
		mockUserRepo := new(persistence.MockUserRepository)
		sink := &recordingSink{}
		uc := newUseCase(mockUserRepo, new(persistence.MockTransactionRepository), sink)

		linked, err := uc.LinkDevice(ctx, "", identity)

		assert.Nil(t, linked)
		assert.ErrorIs(t, err, errs.ErrMissingUsername)
		assert.Contains(t, sink.messages(), "Please enter a username.")
	})

	t.Run("should reject a device owned by someone else", func(t *testing.T) {
		owner := &entity.User{ID: "user-2", Username: "bob", Status: entity.UserActive}

		mockUserRepo := new(persistence.MockUserRepository)
		mockUserRepo.On("GetByDeviceUID", ctx, "uid-1").Return(owner, nil)

		sink := &recordingSink{}
		uc := newUseCase(mockUserRepo, new(persistence.MockTransactionRepository), sink)

		linked, err := uc.LinkDevice(ctx, "alice", identity)

		assert.Nil(t, linked)
		assert.ErrorIs(t, err, errs.ErrDeviceAlreadyLinked)
		assert.Contains(t, sink.messages(), "This device already belongs to someone.")
		mockUserRepo.AssertNotCalled(t, "GetByUsername", mock.Anything, mock.Anything)
	})

	t.Run("should reject an unknown username", func(t *testing.T) {
		mockUserRepo := new(persistence.MockUserRepository)
		mockUserRepo.On("GetByDeviceUID", ctx, "uid-1").Return(nil, errs.ErrUnknownDevice)
		mockUserRepo.On("GetByUsername", ctx, "nobody").Return(nil, errs.ErrUsernameNotFound)

		sink := &recordingSink{}
		uc := newUseCase(mockUserRepo, new(persistence.MockTransactionRepository), sink)

		linked, err := uc.LinkDevice(ctx, "nobody", identity)

		assert.Nil(t, linked)
		assert.ErrorIs(t, err, errs.ErrUsernameNotFound)
		assert.Contains(t, sink.messages(), "This username doesn't exist.")
	})
}
