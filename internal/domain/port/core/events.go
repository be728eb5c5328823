package core

import "time"

// EventKind identifies the notification types the core emits towards the UI
// collaborator. The core owns no rendering; events are notifications only.
type EventKind string

// Event kinds
const (
	// EventStatusMessage carries a human-readable outcome or status line
	EventStatusMessage EventKind = "status_message"
	// EventWarning carries a denial reason for display
	EventWarning EventKind = "warning"
	// EventDeviceWaiting is the periodic "still waiting" tick while no device is present
	EventDeviceWaiting EventKind = "device_waiting"
	// EventDeviceDetected signals an eligible device with its account balance
	EventDeviceDetected EventKind = "device_detected"
	// EventTransactionsLoaded carries the last transactions for display
	EventTransactionsLoaded EventKind = "transactions_loaded"
)

// TransactionView is the display form of one transaction row
type TransactionView struct {
	When    time.Time `json:"when"`
	Display string    `json:"display"` // signed amount, e.g. "+20" or "-5"
}

// Event is a single notification emitted by the core
type Event struct {
	Kind         EventKind         `json:"kind"`
	Message      string            `json:"message,omitempty"`
	Reason       string            `json:"reason,omitempty"`
	Balance      int64             `json:"balance,omitempty"`
	Transactions []TransactionView `json:"transactions,omitempty"`
	At           time.Time         `json:"at"`
}

// EventSink receives core events. Publish must be non-blocking from the
// caller's perspective; sinks that do I/O dispatch on their own goroutine.
type EventSink interface {
	Publish(event Event)
}

// StatusMessage builds a status message event
func StatusMessage(now time.Time, text string) Event {
	return Event{Kind: EventStatusMessage, Message: text, At: now}
}

// Warning builds a warning event for a denial reason
func Warning(now time.Time, reason string) Event {
	return Event{Kind: EventWarning, Reason: reason, At: now}
}

// DeviceWaitingTick builds the periodic waiting notification
func DeviceWaitingTick(now time.Time) Event {
	return Event{Kind: EventDeviceWaiting, At: now}
}

// DeviceDetected builds the detection notification with the account balance
func DeviceDetected(now time.Time, balance int64) Event {
	return Event{Kind: EventDeviceDetected, Balance: balance, At: now}
}

// TransactionsLoaded builds the transaction listing notification
func TransactionsLoaded(now time.Time, views []TransactionView) Event {
	return Event{Kind: EventTransactionsLoaded, Transactions: views, At: now}
}
