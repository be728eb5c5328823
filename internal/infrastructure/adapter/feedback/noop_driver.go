package feedback

import coreport "github.com/digiclever/dispenser/internal/domain/port/core"

// NoopDriver logs lamp changes instead of driving hardware; used when the
// kiosk runs without an indicator attached
type NoopDriver struct {
	logger coreport.Logger
}

// NewNoopDriver creates a driver that only logs
func NewNoopDriver(logger coreport.Logger) *NoopDriver {
	return &NoopDriver{logger: logger}
}

// Green logs the green lamp state
func (d *NoopDriver) Green(on bool) {
	d.logger.Debug("Green lamp", map[string]any{"on": on})
}

// Red logs the red lamp state
func (d *NoopDriver) Red(on bool) {
	d.logger.Debug("Red lamp", map[string]any{"on": on})
}
