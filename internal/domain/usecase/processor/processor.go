package processor

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/digiclever/dispenser/internal/domain/entity"
	errs "github.com/digiclever/dispenser/internal/domain/error"
	coreport "github.com/digiclever/dispenser/internal/domain/port/core"
	"github.com/digiclever/dispenser/internal/domain/port/persistence"
	"github.com/digiclever/dispenser/internal/domain/usecase/resolver"
)

// Currency is the unit label used in outcome messages
const Currency = "CHF"

// Outcome is the result of a processed purchase or top-up attempt
type Outcome struct {
	Approved   bool
	NewBalance int64           // balance confirmed by the store after commit
	Reason     resolver.Reason // set when denied
	Message    string          // human-readable status line
}

// Processor decides approve/deny for a verdict plus requested operation and
// performs the balance mutation and transaction append as one atomic unit
// against the ledger store. Feedback signals and status events are emitted
// here so every decision path drives the indicator exactly once.
type Processor struct {
	users        persistence.UserRepository
	dispenserID  string
	timeProvider coreport.TimeProvider
	feedback     coreport.FeedbackActuator
	events       coreport.EventSink
	logger       coreport.Logger
}

// NewProcessor creates a new Processor for the given dispenser unit
func NewProcessor(
	users persistence.UserRepository,
	dispenserID string,
	timeProvider coreport.TimeProvider,
	feedback coreport.FeedbackActuator,
	events coreport.EventSink,
	logger coreport.Logger,
) *Processor {
	return &Processor{
		users:        users,
		dispenserID:  dispenserID,
		timeProvider: timeProvider,
		feedback:     feedback,
		events:       events,
		logger:       logger,
	}
}

// Process validates the verdict and amount, then applies the mutation.
//
// A non-eligible verdict is rejected with the verdict's own reason and no
// store call is made; the processor never second-guesses the resolver. Store
// connectivity failures propagate as errors with no partial mutation; every
// other rejection is returned as a denied Outcome with a nil error.
func (p *Processor) Process(
	ctx context.Context,
	verdict resolver.Verdict,
	kind entity.TransactionKind,
	amount int64,
) (Outcome, error) {
	if !verdict.Eligible() {
		reason := verdict.Reason
		if reason == resolver.ReasonNone {
			reason = resolver.ReasonUnknownDevice
		}
		return p.deny(reason, denialMessage(kind, reason)), nil
	}

	if amount <= 0 {
		p.logger.Warn("Rejected non-positive amount", map[string]any{
			"user_id": verdict.User.ID,
			"kind":    string(kind),
			"amount":  amount,
		})
		return p.deny(resolver.ReasonInvalidAmount, "The amount must be greater than 0."), nil
	}

	txn, err := entity.NewTransaction(
		uuid.NewString(),
		verdict.User.ID,
		verdict.Device.UID,
		p.dispenserID,
		kind,
		amount,
		p.timeProvider,
	)
	if err != nil {
		return Outcome{}, err
	}

	user, err := p.users.AdjustBalanceAndLog(ctx, verdict.User.ID, txn)
	if err != nil {
		if errors.Is(err, errs.ErrInsufficientFunds) {
			p.logger.Info("Withdrawal rejected, insufficient funds", map[string]any{
				"user_id": verdict.User.ID,
				"amount":  amount,
			})
			return p.deny(resolver.ReasonInsufficientFunds,
				"Please recharge your account, you don't have enough money in it."), nil
		}
		p.logger.Error("Ledger store mutation failed", map[string]any{
			"user_id":        verdict.User.ID,
			"transaction_id": txn.ID,
			"kind":           string(kind),
			"amount":         amount,
			"error":          err.Error(),
		})
		return Outcome{}, err
	}

	// The message reports the balance the store confirmed at commit time,
	// never a value computed from the pre-mutation snapshot
	message := approvalMessage(kind, amount, user.Balance())

	p.logger.Info("Transaction approved", map[string]any{
		"user_id":        user.ID,
		"device_uid":     txn.DeviceUID,
		"dispenser_id":   p.dispenserID,
		"transaction_id": txn.ID,
		"kind":           string(kind),
		"amount":         amount,
		"new_balance":    user.Balance(),
	})

	p.events.Publish(coreport.StatusMessage(p.timeProvider.Now(), message))
	p.feedback.SignalApproved()

	return Outcome{
		Approved:   true,
		NewBalance: user.Balance(),
		Message:    message,
	}, nil
}

// deny emits the denial event and feedback signal and builds the outcome
func (p *Processor) deny(reason resolver.Reason, message string) Outcome {
	p.events.Publish(coreport.StatusMessage(p.timeProvider.Now(), message))
	p.feedback.SignalDenied()
	return Outcome{
		Approved: false,
		Reason:   reason,
		Message:  message,
	}
}

// approvalMessage builds the confirmation line from the committed balance
func approvalMessage(kind entity.TransactionKind, amount, newBalance int64) string {
	if kind == entity.KindWithdrawal {
		return fmt.Sprintf("You withdraw %d %s. You have now %d %s on your account.",
			amount, Currency, newBalance, Currency)
	}
	return fmt.Sprintf("Recharge of %d %s. You have now %d %s on your account.",
		amount, Currency, newBalance, Currency)
}

// denialMessage builds the rejection line for a non-eligible verdict
func denialMessage(kind entity.TransactionKind, reason resolver.Reason) string {
	operation := "transaction"
	if kind == entity.KindRecharge {
		operation = "recharge"
	}
	return fmt.Sprintf("Impossible %s : %s.", operation, reason.Label())
}
