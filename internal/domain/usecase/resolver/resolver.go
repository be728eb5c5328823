package resolver

import (
	"context"
	"errors"

	"github.com/digiclever/dispenser/internal/domain/entity"
	errs "github.com/digiclever/dispenser/internal/domain/error"
	coreport "github.com/digiclever/dispenser/internal/domain/port/core"
	"github.com/digiclever/dispenser/internal/domain/port/persistence"
)

// Resolver maps a device identity to an account and evaluates the composite
// eligibility verdict. It is a pure read plus classification; it never
// mutates the store.
type Resolver struct {
	users  persistence.UserRepository
	logger coreport.Logger
}

// NewResolver creates a new Resolver
func NewResolver(users persistence.UserRepository, logger coreport.Logger) *Resolver {
	return &Resolver{
		users:  users,
		logger: logger,
	}
}

// Resolve classifies the device identity. The account status is evaluated
// first and short-circuits before the device status is even considered, so a
// lost device on a deleted account reports the deleted account. The returned
// error is non-nil only for store failures, which are never recovered here.
func (r *Resolver) Resolve(ctx context.Context, identity coreport.DeviceIdentity) (Verdict, error) {
	user, err := r.users.GetByDeviceUID(ctx, identity.UID)
	if err != nil {
		if errors.Is(err, errs.ErrUnknownDevice) {
			r.logger.Debug("No account references device", map[string]any{
				"device_uid": identity.UID,
			})
			return Verdict{Reason: ReasonUnknownDevice}, nil
		}
		r.logger.Error("Failed to look up device owner", map[string]any{
			"device_uid": identity.UID,
			"error":      err.Error(),
		})
		return Verdict{}, err
	}

	device := user.DeviceByUID(identity.UID)
	if device == nil {
		// The store answered the uid lookup but the device list disagrees;
		// treat it like an unknown device rather than guessing
		r.logger.Warn("Device uid resolved to user without matching device entry", map[string]any{
			"device_uid": identity.UID,
			"user_id":    user.ID,
		})
		return Verdict{Reason: ReasonUnknownDevice}, nil
	}

	if reason := classify(user, device); reason != ReasonNone {
		r.logger.Info("Device not eligible", map[string]any{
			"device_uid": identity.UID,
			"user_id":    user.ID,
			"reason":     string(reason),
		})
		return Verdict{User: user, Device: device, Reason: reason}, nil
	}

	return Verdict{User: user, Device: device, Reason: ReasonNone}, nil
}

// classify applies the fixed decision precedence: account status dominates,
// then the device status of the matching device
func classify(user *entity.User, device *entity.Device) Reason {
	switch user.Status {
	case entity.UserActive:
		// fall through to the device checks
	case entity.UserInactive:
		return ReasonAccountInactive
	case entity.UserDeleted:
		return ReasonAccountDeleted
	default:
		return ReasonAccountStatusUnknown
	}

	switch device.Status {
	case entity.DeviceActive:
		return ReasonNone
	case entity.DeviceLost:
		return ReasonDeviceLost
	case entity.DeviceStolen:
		return ReasonDeviceStolen
	case entity.DeviceDeleted:
		return ReasonDeviceDeleted
	default:
		return ReasonDeviceStatusUnknown
	}
}
