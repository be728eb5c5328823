package account

import (
	"context"
	"errors"
	"fmt"

	"github.com/digiclever/dispenser/internal/domain/entity"
	errs "github.com/digiclever/dispenser/internal/domain/error"
	coreport "github.com/digiclever/dispenser/internal/domain/port/core"
)

// LinkDevice links a captured device identity to the user with the given
// username. Global uid uniqueness is checked first: a uid already linked to
// any user is rejected before the username is even resolved.
func (u *AccountUseCase) LinkDevice(ctx context.Context, username string, identity coreport.DeviceIdentity) (*entity.User, error) {
	if identity.IsZero() {
		u.events.Publish(coreport.StatusMessage(u.timeProvider.Now(),
			"Please place a card in front of the reader."))
		return nil, errs.ErrDeviceIdentityMissing
	}
	if username == "" {
		u.events.Publish(coreport.StatusMessage(u.timeProvider.Now(),
			"Please enter a username."))
		return nil, errs.ErrMissingUsername
	}

	owner, err := u.users.GetByDeviceUID(ctx, identity.UID)
	switch {
	case err == nil:
		u.events.Publish(coreport.StatusMessage(u.timeProvider.Now(),
			"This device already belongs to someone."))
		return nil, errs.NewDeviceConflictError(identity.UID, owner.Username)
	case !errors.Is(err, errs.ErrUnknownDevice):
		return nil, err
	}

	user, err := u.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, errs.ErrUsernameNotFound) {
			u.events.Publish(coreport.StatusMessage(u.timeProvider.Now(),
				"This username doesn't exist."))
		}
		return nil, err
	}

	device := entity.Device{
		UID:               identity.UID,
		HardwareSignature: identity.HardwareSignature,
		Status:            entity.DeviceActive,
		ActivationDate:    u.timeProvider.Now(),
		Category:          entity.CategorySmartcard,
	}
	if err := user.LinkDevice(device, u.timeProvider); err != nil {
		return nil, err
	}

	if err := u.users.ReplaceDevices(ctx, user.ID, user.Devices); err != nil {
		u.logger.Error("Failed to persist device link", map[string]any{
			"user_id":    user.ID,
			"device_uid": identity.UID,
			"error":      err.Error(),
		})
		return nil, err
	}

	u.logger.Info("Device linked", map[string]any{
		"user_id":    user.ID,
		"username":   username,
		"device_uid": identity.UID,
	})
	u.events.Publish(coreport.StatusMessage(u.timeProvider.Now(),
		fmt.Sprintf("Device added to the user %s.", user.DisplayName())))

	return user, nil
}
