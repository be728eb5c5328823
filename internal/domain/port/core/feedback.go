package core

// FeedbackActuator drives the physical approve/deny indicator.
//
// Both calls are fire-and-forget: implementations run their animation on
// their own goroutine and must never block the scan loop's cadence.
type FeedbackActuator interface {
	// SignalApproved plays the approval animation
	SignalApproved()
	// SignalDenied plays the denial animation
	SignalDenied()
}
