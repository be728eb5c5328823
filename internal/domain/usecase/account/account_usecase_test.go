package account

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/digiclever/dispenser/internal/domain/entity"
	errs "github.com/digiclever/dispenser/internal/domain/error"
	coreport "github.com/digiclever/dispenser/internal/domain/port/core"
	"github.com/digiclever/dispenser/mocks/port/core"
	"github.com/digiclever/dispenser/mocks/port/persistence"
)

var fixedTime = time.Date(2023, 1, 1, 12, 0, 0, 0, time.UTC)

// recordingSink captures published events for assertions
type recordingSink struct {
	mu     sync.Mutex
	events []coreport.Event
}

func (s *recordingSink) Publish(event coreport.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
}

func (s *recordingSink) messages() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.events))
	for _, e := range s.events {
		out = append(out, e.Message)
	}
	return out
}

func relaxedLogger() *core.MockLogger {
	logger := new(core.MockLogger)
	logger.On("Debug", mock.Anything, mock.Anything).Maybe()
	logger.On("Info", mock.Anything, mock.Anything).Maybe()
	logger.On("Warn", mock.Anything, mock.Anything).Maybe()
	logger.On("Error", mock.Anything, mock.Anything).Maybe()
	return logger
}

func fixedTimeProvider() *core.MockTimeProvider {
	tp := new(core.MockTimeProvider)
	tp.On("Now").Return(fixedTime)
	return tp
}

func newUseCase(users *persistence.MockUserRepository, txns *persistence.MockTransactionRepository, sink *recordingSink) *AccountUseCase {
	return NewAccountUseCase(users, txns, fixedTimeProvider(), sink, relaxedLogger())
}

func TestAccountUseCase_BalanceByDevice(t *testing.T) {
	ctx := context.Background()

	t.Run("should return the owner's balance", func(t *testing.T) {
		user := &entity.User{ID: "user-1", Username: "alice", Status: entity.UserActive}
		user.SetBalance(42, fixedTimeProvider())

		mockUserRepo := new(persistence.MockUserRepository)
		mockUserRepo.On("GetByDeviceUID", ctx, "uid-1").Return(user, nil)

		uc := newUseCase(mockUserRepo, new(persistence.MockTransactionRepository), &recordingSink{})

		balance, err := uc.BalanceByDevice(ctx, "uid-1")

		assert.NoError(t, err)
		assert.Equal(t, int64(42), balance)
	})

	t.Run("should propagate an unknown device", func(t *testing.T) {
		mockUserRepo := new(persistence.MockUserRepository)
		mockUserRepo.On("GetByDeviceUID", ctx, "uid-9").Return(nil, errs.ErrUnknownDevice)

		uc := newUseCase(mockUserRepo, new(persistence.MockTransactionRepository), &recordingSink{})

		_, err := uc.BalanceByDevice(ctx, "uid-9")

		assert.ErrorIs(t, err, errs.ErrUnknownDevice)
	})
}

func TestAccountUseCase_UsernameExists(t *testing.T) {
	ctx := context.Background()

	t.Run("should report true for an existing username", func(t *testing.T) {
		mockUserRepo := new(persistence.MockUserRepository)
		mockUserRepo.On("GetByUsername", ctx, "alice").
			Return(&entity.User{ID: "user-1", Username: "alice"}, nil)

		uc := newUseCase(mockUserRepo, new(persistence.MockTransactionRepository), &recordingSink{})

		exists, err := uc.UsernameExists(ctx, "alice")

		assert.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("should report false when the username is free", func(t *testing.T) {
		mockUserRepo := new(persistence.MockUserRepository)
		mockUserRepo.On("GetByUsername", ctx, "bob").Return(nil, errs.ErrUsernameNotFound)

		uc := newUseCase(mockUserRepo, new(persistence.MockTransactionRepository), &recordingSink{})

		exists, err := uc.UsernameExists(ctx, "bob")

		assert.NoError(t, err)
		assert.False(t, exists)
	})
}
