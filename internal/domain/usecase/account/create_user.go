package account

import (
	"context"

	"github.com/google/uuid"

	"github.com/digiclever/dispenser/internal/domain/entity"
	errs "github.com/digiclever/dispenser/internal/domain/error"
	coreport "github.com/digiclever/dispenser/internal/domain/port/core"
)

// CreateUser enrolls a new user: active status, zero balance, empty device
// list. Name and surname are optional; a blank username is rejected before
// the store is touched.
func (u *AccountUseCase) CreateUser(ctx context.Context, username, name, surname string) (*entity.User, error) {
	if username == "" {
		u.events.Publish(coreport.StatusMessage(u.timeProvider.Now(),
			"Please enter at least a username."))
		return nil, errs.ErrMissingUsername
	}

	exists, err := u.UsernameExists(ctx, username)
	if err != nil {
		return nil, err
	}
	if exists {
		u.events.Publish(coreport.StatusMessage(u.timeProvider.Now(),
			"User already registered."))
		return nil, errs.ErrUsernameTaken
	}

	user, err := entity.NewUser(uuid.NewString(), username, name, surname, u.timeProvider)
	if err != nil {
		return nil, err
	}

	if err := u.users.Create(ctx, user); err != nil {
		u.logger.Error("Failed to create user", map[string]any{
			"username": username,
			"error":    err.Error(),
		})
		return nil, err
	}

	u.logger.Info("User created", map[string]any{
		"user_id":  user.ID,
		"username": username,
	})
	u.events.Publish(coreport.StatusMessage(u.timeProvider.Now(),
		"User successfully added to the database."))

	return user, nil
}
