package scanner

import (
	"context"
	"sync"
	"time"

	"github.com/digiclever/dispenser/internal/domain/entity"
	errs "github.com/digiclever/dispenser/internal/domain/error"
	coreport "github.com/digiclever/dispenser/internal/domain/port/core"
	"github.com/digiclever/dispenser/internal/domain/usecase/processor"
	"github.com/digiclever/dispenser/internal/domain/usecase/resolver"
)

// Purchase shortcut amounts offered on the kiosk front panel
const (
	SmallPurchaseAmount int64 = 2
	LargePurchaseAmount int64 = 5
)

// Config controls the scan loop timing
type Config struct {
	// PollInterval is the cadence of detection attempts while idle
	PollInterval coreport.Duration
	// ReadTimeout bounds a single reader handshake
	ReadTimeout coreport.Duration
	// ReleaseAfter is how long a detected device stays claimed before the
	// kiosk asks for it again
	ReleaseAfter coreport.Duration
	// WarningHold is how long a denial warning stays on screen before
	// scanning resumes
	WarningHold coreport.Duration
}

// DefaultConfig returns the stock kiosk timing
func DefaultConfig() Config {
	return Config{
		PollInterval: 500 * coreport.Millisecond,
		ReadTimeout:  400 * coreport.Millisecond,
		ReleaseAfter: 10 * coreport.Second,
		WarningHold:  5 * coreport.Second,
	}
}

// session is one claimed device: the verdict that admitted it plus the
// deadline after which the claim is released
type session struct {
	verdict  resolver.Verdict
	deadline time.Time
}

// Scanner owns the detection loop. It polls the reader while idle, resolves
// whatever it finds, and holds an eligible device as the active session until
// a transaction completes or the release deadline passes. Transactions arrive
// concurrently from the UI; the session is guarded accordingly.
type Scanner struct {
	reader       coreport.CardReader
	resolver     *resolver.Resolver
	processor    *processor.Processor
	timeProvider coreport.TimeProvider
	events       coreport.EventSink
	logger       coreport.Logger
	cfg          Config

	mu      sync.Mutex
	current *session
}

// NewScanner creates a new Scanner
func NewScanner(
	reader coreport.CardReader,
	res *resolver.Resolver,
	proc *processor.Processor,
	timeProvider coreport.TimeProvider,
	events coreport.EventSink,
	logger coreport.Logger,
	cfg Config,
) *Scanner {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultConfig().PollInterval
	}
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = DefaultConfig().ReadTimeout
	}
	if cfg.ReleaseAfter <= 0 {
		cfg.ReleaseAfter = DefaultConfig().ReleaseAfter
	}
	if cfg.WarningHold <= 0 {
		cfg.WarningHold = DefaultConfig().WarningHold
	}
	return &Scanner{
		reader:       reader,
		resolver:     res,
		processor:    proc,
		timeProvider: timeProvider,
		events:       events,
		logger:       logger,
		cfg:          cfg,
	}
}

// Run drives the detection loop until the context is cancelled. It never
// returns early on reader or store trouble; failed polls are logged and the
// next tick retries.
func (s *Scanner) Run(ctx context.Context) error {
	s.logger.Info("Scan loop started", map[string]any{
		"poll_interval_ms": s.cfg.PollInterval.Std().Milliseconds(),
		"release_after_ms": s.cfg.ReleaseAfter.Std().Milliseconds(),
	})
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Scan loop stopped", nil)
			return ctx.Err()
		default:
		}

		if s.sessionActive() {
			// A claimed device suspends detection until release
			s.wait(ctx, s.cfg.PollInterval)
			continue
		}

		s.pollOnce(ctx)
		s.wait(ctx, s.cfg.PollInterval)
	}
}

// pollOnce performs one detection attempt and, if it finds an eligible
// device, claims it as the active session
func (s *Scanner) pollOnce(ctx context.Context) {
	identity, err := s.reader.ReadIdentity(ctx, s.cfg.ReadTimeout)
	if err != nil {
		if !errs.IsReaderTimeout(err) {
			s.logger.Warn("Reader handshake failed", map[string]any{
				"error": err.Error(),
			})
		}
		s.events.Publish(coreport.DeviceWaitingTick(s.timeProvider.Now()))
		return
	}

	verdict, err := s.resolver.Resolve(ctx, identity)
	if err != nil {
		// Store trouble: keep scanning, the next poll may succeed
		s.logger.Error("Verdict resolution failed", map[string]any{
			"device_uid": identity.UID,
			"error":      err.Error(),
		})
		return
	}

	if !verdict.Eligible() {
		s.events.Publish(coreport.Warning(s.timeProvider.Now(), verdict.Reason.Label()))
		s.wait(ctx, s.cfg.WarningHold)
		return
	}

	s.claim(verdict)
}

// claim installs the verdict as the active session
func (s *Scanner) claim(verdict resolver.Verdict) {
	now := s.timeProvider.Now()
	s.mu.Lock()
	s.current = &session{
		verdict:  verdict,
		deadline: now.Add(s.cfg.ReleaseAfter.Std()),
	}
	s.mu.Unlock()

	s.logger.Info("Device claimed", map[string]any{
		"device_uid": verdict.Device.UID,
		"user_id":    verdict.User.ID,
		"balance":    verdict.User.Balance(),
	})
	s.events.Publish(coreport.DeviceDetected(now, verdict.User.Balance()))
}

// sessionActive reports whether a claimed device is still within its release
// window, clearing the session when the deadline has passed
func (s *Scanner) sessionActive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return false
	}
	if s.timeProvider.Now().After(s.current.deadline) {
		s.logger.Info("Session released, device held too long", map[string]any{
			"device_uid": s.current.verdict.Device.UID,
		})
		s.current = nil
		s.events.Publish(coreport.DeviceWaitingTick(s.timeProvider.Now()))
		return false
	}
	return true
}

// Session returns the verdict of the currently claimed device, if any
func (s *Scanner) Session() (resolver.Verdict, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil || s.timeProvider.Now().After(s.current.deadline) {
		return resolver.Verdict{}, false
	}
	return s.current.verdict, true
}

// Withdraw charges the claimed device's account. The session is consumed
// whatever the outcome, so a fresh detection is required for the next
// transaction.
func (s *Scanner) Withdraw(ctx context.Context, amount int64) (processor.Outcome, error) {
	return s.transact(ctx, entity.KindWithdrawal, amount)
}

// Recharge tops up the claimed device's account
func (s *Scanner) Recharge(ctx context.Context, amount int64) (processor.Outcome, error) {
	return s.transact(ctx, entity.KindRecharge, amount)
}

// PurchaseSmall is the 2 unit front-panel shortcut
func (s *Scanner) PurchaseSmall(ctx context.Context) (processor.Outcome, error) {
	return s.Withdraw(ctx, SmallPurchaseAmount)
}

// PurchaseLarge is the 5 unit front-panel shortcut
func (s *Scanner) PurchaseLarge(ctx context.Context) (processor.Outcome, error) {
	return s.Withdraw(ctx, LargePurchaseAmount)
}

func (s *Scanner) transact(ctx context.Context, kind entity.TransactionKind, amount int64) (processor.Outcome, error) {
	verdict, ok := s.takeSession()
	if !ok {
		s.events.Publish(coreport.StatusMessage(s.timeProvider.Now(),
			"Please place a card in front of the reader."))
		return processor.Outcome{}, errs.ErrNotEligible
	}

	outcome, err := s.processor.Process(ctx, verdict, kind, amount)
	if err != nil {
		return processor.Outcome{}, err
	}
	return outcome, nil
}

// takeSession atomically consumes the active session
func (s *Scanner) takeSession() (resolver.Verdict, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil || s.timeProvider.Now().After(s.current.deadline) {
		s.current = nil
		return resolver.Verdict{}, false
	}
	verdict := s.current.verdict
	s.current = nil
	return verdict, true
}

// wait sleeps for d but returns early when the context is cancelled
func (s *Scanner) wait(ctx context.Context, d coreport.Duration) {
	waitCtx, cancel := s.timeProvider.WithTimeout(ctx, d)
	defer cancel()
	<-waitCtx.Done()
}
