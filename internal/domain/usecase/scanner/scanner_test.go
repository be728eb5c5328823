package scanner

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
	"github.com/digiclever/dispenser/internal/domain/usecase/processor"
	"github.com/digiclever/dispenser/internal/domain/usecase/resolver"
	"github.com/digiclever/dispenser/mocks/port/core"
	"github.com/digiclever/dispenser/mocks/port/persistence"
)

// fakeClock is a settable time source; waits resolve almost immediately so
// the tests never sleep for real
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2023, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Since(t time.Time) coreport.Duration {
	return coreport.Duration(c.Now().Sub(t))
}

func (c *fakeClock) Sleep(coreport.Duration) {}

func (c *fakeClock) WithTimeout(ctx context.Context, _ coreport.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, time.Millisecond)
}

func (c *fakeClock) advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

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

func (s *recordingSink) kinds() []coreport.EventKind {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]coreport.EventKind, 0, len(s.events))
	for _, e := range s.events {
		out = append(out, e.Kind)
	}
	return out
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

func relaxedFeedback() *core.MockFeedbackActuator {
	feedback := new(core.MockFeedbackActuator)
	feedback.On("SignalApproved").Maybe()
	feedback.On("SignalDenied").Maybe()
	return feedback
}

func eligibleVerdict(clock coreport.TimeProvider, balance int64) resolver.Verdict {
	user := &entity.User{
		ID:       "user-1",
		Username: "alice",
		Status:   entity.UserActive,
		Devices: []entity.Device{
			{UID: "uid-1", Status: entity.DeviceActive, Category: entity.CategorySmartcard},
		},
	}
	user.SetBalance(balance, clock)
	return resolver.Verdict{User: user, Device: &user.Devices[0], Reason: resolver.ReasonNone}
}

func newTestScanner(
	clock *fakeClock,
	reader coreport.CardReader,
	users *persistence.MockUserRepository,
	sink *recordingSink,
) *Scanner {
	logger := relaxedLogger()
	res := resolver.NewResolver(users, logger)
	proc := processor.NewProcessor(users, "dispenser-1", clock, relaxedFeedback(), sink, logger)
	return NewScanner(reader, res, proc, clock, sink, logger, DefaultConfig())
}

func TestScanner_Transactions(t *testing.T) {
	ctx := context.Background()

	t.Run("should refuse a withdrawal without a claimed device", func(t *testing.T) {
		clock := newFakeClock()
		sink := &recordingSink{}
		scan := newTestScanner(clock, new(core.MockCardReader), new(persistence.MockUserRepository), sink)

		_, err := scan.Withdraw(ctx, 5)

		assert.ErrorIs(t, err, errs.ErrNotEligible)
		assert.Contains(t, sink.messages(), "Please place a card in front of the reader.")
	})

	t.Run("should consume the session on a withdrawal", func(t *testing.T) {
		clock := newFakeClock()
		sink := &recordingSink{}
		mockUserRepo := new(persistence.MockUserRepository)

		committed := eligibleVerdict(clock, 15).User
		mockUserRepo.On("AdjustBalanceAndLog", ctx, "user-1", mock.AnythingOfType("*entity.Transaction")).
			Return(committed, nil)

		scan := newTestScanner(clock, new(core.MockCardReader), mockUserRepo, sink)
		scan.claim(eligibleVerdict(clock, 20))

		_, active := scan.Session()
		assert.True(t, active)

		outcome, err := scan.Withdraw(ctx, 5)

		assert.NoError(t, err)
		assert.True(t, outcome.Approved)
		assert.Equal(t, int64(15), outcome.NewBalance)

		_, active = scan.Session()
		assert.False(t, active, "session is consumed whatever the outcome")
	})

	t.Run("should release the session after the hold window", func(t *testing.T) {
		clock := newFakeClock()
		scan := newTestScanner(clock, new(core.MockCardReader), new(persistence.MockUserRepository), &recordingSink{})
		scan.claim(eligibleVerdict(clock, 20))

		clock.advance(11 * time.Second)

		_, active := scan.Session()
		assert.False(t, active)
	})

	t.Run("should use the fixed shortcut amounts", func(t *testing.T) {
		clock := newFakeClock()
		mockUserRepo := new(persistence.MockUserRepository)

		committed := eligibleVerdict(clock, 13).User
		mockUserRepo.On("AdjustBalanceAndLog", ctx, "user-1", mock.MatchedBy(func(txn *entity.Transaction) bool {
			return txn.Amount == SmallPurchaseAmount && txn.Kind == entity.KindWithdrawal
		})).Return(committed, nil).Once()
		mockUserRepo.On("AdjustBalanceAndLog", ctx, "user-1", mock.MatchedBy(func(txn *entity.Transaction) bool {
			return txn.Amount == LargePurchaseAmount && txn.Kind == entity.KindWithdrawal
		})).Return(committed, nil).Once()

		scan := newTestScanner(clock, new(core.MockCardReader), mockUserRepo, &recordingSink{})

		scan.claim(eligibleVerdict(clock, 20))
		_, err := scan.PurchaseSmall(ctx)
		assert.NoError(t, err)

		scan.claim(eligibleVerdict(clock, 18))
		_, err = scan.PurchaseLarge(ctx)
		assert.NoError(t, err)

		mockUserRepo.AssertExpectations(t)
	})
}

func TestScanner_PollOnce(t *testing.T) {
	ctx := context.Background()

	t.Run("should tick while no device is present", func(t *testing.T) {
		clock := newFakeClock()
		sink := &recordingSink{}
		mockReader := new(core.MockCardReader)
		mockReader.On("ReadIdentity", mock.Anything, mock.Anything).
			Return(coreport.DeviceIdentity{}, errs.ErrReaderTimeout)

		scan := newTestScanner(clock, mockReader, new(persistence.MockUserRepository), sink)
		scan.pollOnce(ctx)

		assert.Contains(t, sink.kinds(), coreport.EventDeviceWaiting)
		_, active := scan.Session()
		assert.False(t, active)
	})

	t.Run("should warn on a non-eligible device and stay unclaimed", func(t *testing.T) {
		clock := newFakeClock()
		sink := &recordingSink{}
		mockReader := new(core.MockCardReader)
		mockReader.On("ReadIdentity", mock.Anything, mock.Anything).
			Return(coreport.DeviceIdentity{UID: "uid-1"}, nil)

		lost := eligibleVerdict(clock, 20).User
		lost.Devices[0].Status = entity.DeviceLost
		mockUserRepo := new(persistence.MockUserRepository)
		mockUserRepo.On("GetByDeviceUID", mock.Anything, "uid-1").Return(lost, nil)

		scan := newTestScanner(clock, mockReader, mockUserRepo, sink)
		scan.pollOnce(ctx)

		assert.Contains(t, sink.kinds(), coreport.EventWarning)
		_, active := scan.Session()
		assert.False(t, active)
	})

	t.Run("should claim an eligible device and announce its balance", func(t *testing.T) {
		clock := newFakeClock()
		sink := &recordingSink{}
		mockReader := new(core.MockCardReader)
		mockReader.On("ReadIdentity", mock.Anything, mock.Anything).
			Return(coreport.DeviceIdentity{UID: "uid-1"}, nil)

		mockUserRepo := new(persistence.MockUserRepository)
		mockUserRepo.On("GetByDeviceUID", mock.Anything, "uid-1").
			Return(eligibleVerdict(clock, 42).User, nil)

		scan := newTestScanner(clock, mockReader, mockUserRepo, sink)
		scan.pollOnce(ctx)

		verdict, active := scan.Session()
		assert.True(t, active)
		assert.Equal(t, int64(42), verdict.User.Balance())

		var detected bool
		for _, e := range sink.events {
			if e.Kind == coreport.EventDeviceDetected {
				detected = true
				assert.Equal(t, int64(42), e.Balance)
			}
		}
		assert.True(t, detected)
	})

	t.Run("should keep scanning through store trouble", func(t *testing.T) {
		clock := newFakeClock()
		sink := &recordingSink{}
		mockReader := new(core.MockCardReader)
		mockReader.On("ReadIdentity", mock.Anything, mock.Anything).
			Return(coreport.DeviceIdentity{UID: "uid-1"}, nil)

		mockUserRepo := new(persistence.MockUserRepository)
		mockUserRepo.On("GetByDeviceUID", mock.Anything, "uid-1").
			Return(nil, errs.ErrStoreUnavailable)

		scan := newTestScanner(clock, mockReader, mockUserRepo, sink)
		scan.pollOnce(ctx)

		_, active := scan.Session()
		assert.False(t, active)
	})
}

func TestScanner_Run(t *testing.T) {
	t.Run("should stop when the context is cancelled", func(t *testing.T) {
		clock := newFakeClock()
		mockReader := new(core.MockCardReader)
		mockReader.On("ReadIdentity", mock.Anything, mock.Anything).
			Return(coreport.DeviceIdentity{}, errs.ErrReaderTimeout).Maybe()

		scan := newTestScanner(clock, mockReader, new(persistence.MockUserRepository), &recordingSink{})

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() { done <- scan.Run(ctx) }()

		cancel()

		select {
		case err := <-done:
			assert.ErrorIs(t, err, context.Canceled)
		case <-time.After(2 * time.Second):
			t.Fatal("scan loop did not stop")
		}
	})
}
