package feedback

import (
	"context"
	"sync"

	coreport "github.com/digiclever/dispenser/internal/domain/port/core"
)

// Choreography timing
const (
	stepDuration  = 200 * coreport.Millisecond
	pauseDuration = 700 * coreport.Millisecond
	blinkCount    = 3
)

// IndicatorDriver is the raw lamp control underneath the actuator
type IndicatorDriver interface {
	Green(on bool)
	Red(on bool)
}

// LEDActuator plays the approve and deny light patterns. Signal calls return
// immediately; the pattern runs on its own goroutine and a new signal cancels
// whatever is still playing.
type LEDActuator struct {
	driver       IndicatorDriver
	timeProvider coreport.TimeProvider
	logger       coreport.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
}

// NewLEDActuator creates a new LEDActuator
func NewLEDActuator(driver IndicatorDriver, timeProvider coreport.TimeProvider, logger coreport.Logger) *LEDActuator {
	return &LEDActuator{
		driver:       driver,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// SignalApproved plays the green blink pattern
func (a *LEDActuator) SignalApproved() {
	a.play(a.driver.Green)
}

// SignalDenied plays the red blink pattern
func (a *LEDActuator) SignalDenied() {
	a.play(a.driver.Red)
}

// play cancels any running pattern and starts blinking the given lamp
func (a *LEDActuator) play(lamp func(bool)) {
	a.mu.Lock()
	if a.cancel != nil {
		a.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel
	a.mu.Unlock()

	go func() {
		defer lamp(false)
		for i := 0; i < blinkCount; i++ {
			lamp(true)
			if !a.wait(ctx, stepDuration) {
				return
			}
			lamp(false)
			if !a.wait(ctx, stepDuration) {
				return
			}
		}
		a.wait(ctx, pauseDuration)
	}()
}

// wait sleeps for d, reporting false when the pattern was cancelled
func (a *LEDActuator) wait(ctx context.Context, d coreport.Duration) bool {
	waitCtx, cancel := a.timeProvider.WithTimeout(ctx, d)
	defer cancel()
	<-waitCtx.Done()
	return ctx.Err() == nil
}

// Stop cancels any running pattern and turns both lamps off
func (a *LEDActuator) Stop() {
	a.mu.Lock()
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	a.mu.Unlock()
	a.driver.Green(false)
	a.driver.Red(false)
}
