package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/digiclever/dispenser/internal/domain/entity"
	errs "github.com/digiclever/dispenser/internal/domain/error"
	coreport "github.com/digiclever/dispenser/internal/domain/port/core"
	"github.com/digiclever/dispenser/internal/infrastructure/adapter/model"
)

// UserRepository implements the UserRepository port using GORM
type UserRepository struct {
	db              *gorm.DB
	timeProvider    coreport.TimeProvider
	logger          coreport.Logger
	errorClassifier *ErrorClassifier
}

// NewUserRepository creates a new UserRepository instance
func NewUserRepository(db *gorm.DB, timeProvider coreport.TimeProvider, logger coreport.Logger) *UserRepository {
	return &UserRepository{
		db:              db,
		timeProvider:    timeProvider,
		logger:          logger,
		errorClassifier: NewErrorClassifier(),
	}
}

// modelToEntity converts a user model plus its device rows to an entity
func (r *UserRepository) modelToEntity(userModel *model.User) (*entity.User, error) {
	user, err := entity.NewUser(userModel.ID, userModel.Username, userModel.Name, userModel.Surname, r.timeProvider)
	if err != nil {
		r.logger.Error("Failed to create user entity", map[string]any{
			"user_id": userModel.ID,
			"error":   err.Error(),
		})
		return nil, fmt.Errorf("%w: failed to create user entity: %s", errs.ErrInternalServer, err.Error())
	}

	user.SetBalance(userModel.Balance, r.timeProvider)
	user.Status = entity.UserStatus(userModel.Status)
	user.Devices = make([]entity.Device, 0, len(userModel.Devices))
	for i := range userModel.Devices {
		user.Devices = append(user.Devices, deviceModelToEntity(&userModel.Devices[i]))
	}
	user.RegistrationDate = userModel.RegistrationDate
	user.UpdatedAt = userModel.UpdatedAt

	return user, nil
}

func deviceModelToEntity(deviceModel *model.Device) entity.Device {
	return entity.Device{
		UID:               deviceModel.UID,
		HardwareSignature: deviceModel.HardwareSignature,
		Status:            entity.DeviceStatus(deviceModel.Status),
		ActivationDate:    deviceModel.ActivationDate,
		Category:          deviceModel.Category,
	}
}

func deviceEntityToModel(userID string, device *entity.Device) model.Device {
	return model.Device{
		UID:               device.UID,
		UserID:            userID,
		HardwareSignature: device.HardwareSignature,
		Status:            string(device.Status),
		ActivationDate:    device.ActivationDate,
		Category:          device.Category,
	}
}

// handleDatabaseError standardizes database error handling
func (r *UserRepository) handleDatabaseError(operation string, err error, notFound error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound
	}

	r.logger.Error(fmt.Sprintf("Database error when %s", operation), map[string]any{
		"error": err.Error(),
	})

	if r.errorClassifier.IsDuplicateKeyError(err) {
		return err
	}
	return fmt.Errorf("%w: %s", errs.ErrStoreUnavailable, err.Error())
}

// GetByUsername retrieves a user and its devices by username
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	var userModel model.User
	result := r.db.WithContext(ctx).Preload("Devices").
		Where("username = ?", username).First(&userModel)

	if result.Error != nil {
		return nil, r.handleDatabaseError("getting user by username", result.Error, errs.ErrUsernameNotFound)
	}

	return r.modelToEntity(&userModel)
}

// GetByDeviceUID retrieves the user owning the device uid, devices included
func (r *UserRepository) GetByDeviceUID(ctx context.Context, uid string) (*entity.User, error) {
	var deviceModel model.Device
	result := r.db.WithContext(ctx).Where("uid = ?", uid).First(&deviceModel)
	if result.Error != nil {
		return nil, r.handleDatabaseError("getting device by uid", result.Error, errs.ErrUnknownDevice)
	}

	var userModel model.User
	result = r.db.WithContext(ctx).Preload("Devices").
		Where("id = ?", deviceModel.UserID).First(&userModel)
	if result.Error != nil {
		return nil, r.handleDatabaseError("getting device owner", result.Error, errs.ErrUserNotFound)
	}

	return r.modelToEntity(&userModel)
}

// Create persists a new user
func (r *UserRepository) Create(ctx context.Context, user *entity.User) error {
	userModel := model.User{
		ID:               user.ID,
		Username:         user.Username,
		Name:             user.Name,
		Surname:          user.Surname,
		Balance:          user.Balance(),
		Status:           string(user.Status),
		RegistrationDate: user.RegistrationDate,
		UpdatedAt:        user.UpdatedAt,
	}

	result := r.db.WithContext(ctx).Create(&userModel)
	if result.Error != nil {
		if r.errorClassifier.IsDuplicateKeyError(result.Error) {
			r.logger.Warn("Duplicate username on create", map[string]any{
				"username": user.Username,
			})
			return errs.ErrUsernameTaken
		}
		return r.handleDatabaseError("creating user", result.Error, errs.ErrUserNotFound)
	}

	r.logger.Info("User created successfully", map[string]any{
		"user_id":  user.ID,
		"username": user.Username,
	})
	return nil
}

// ReplaceDevices rewrites the device list of a user in one transaction. The
// uid primary key on the devices table rejects a uid owned by another user.
func (r *UserRepository) ReplaceDevices(ctx context.Context, userID string, devices []entity.Device) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&model.Device{}).Error; err != nil {
			return err
		}

		for i := range devices {
			deviceModel := deviceEntityToModel(userID, &devices[i])
			if err := tx.Create(&deviceModel).Error; err != nil {
				return err
			}
		}

		return tx.Model(&model.User{}).Where("id = ?", userID).
			Update("updated_at", r.timeProvider.Now()).Error
	})

	if err != nil {
		if r.errorClassifier.IsDuplicateKeyError(err) {
			r.logger.Warn("Device uid already owned", map[string]any{
				"user_id": userID,
			})
			return errs.ErrDeviceAlreadyLinked
		}
		return r.handleDatabaseError("replacing devices", err, errs.ErrUserNotFound)
	}

	return nil
}

// lockUserRow scopes the query to the user row under a SELECT ... FOR UPDATE
// lock so concurrent adjustments against the same account serialize at the
// store
func lockUserRow(tx *gorm.DB, userID string) *gorm.DB {
	return tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", userID)
}

// AdjustBalanceAndLog applies the balance change and appends the transaction
// log row as one atomic store operation. The user row is locked, the balance
// rule is re-validated against the locked value, and both writes commit or
// neither does. The returned entity carries the balance the store confirmed.
func (r *UserRepository) AdjustBalanceAndLog(ctx context.Context, userID string, txn *entity.Transaction) (*entity.User, error) {
	var user *entity.User

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var userModel model.User
		result := lockUserRow(tx, userID).First(&userModel)

		if result.Error != nil {
			if errors.Is(result.Error, gorm.ErrRecordNotFound) {
				return errs.ErrUserNotFound
			}
			return result.Error
		}

		// Re-validate against the locked balance, never a stale snapshot
		newBalance := userModel.Balance + txn.SignedAmount()
		if newBalance < 0 {
			return errs.NewInsufficientFundsError(userID, txn.Amount, userModel.Balance)
		}

		userModel.Balance = newBalance
		userModel.UpdatedAt = r.timeProvider.Now()

		result = tx.Model(&userModel).Updates(map[string]interface{}{
			"balance":    userModel.Balance,
			"updated_at": userModel.UpdatedAt,
		})
		if result.Error != nil {
			return result.Error
		}

		txnModel := model.Transaction{
			ID:          txn.ID,
			UserID:      txn.UserID,
			DeviceUID:   txn.DeviceUID,
			DispenserID: txn.DispenserID,
			Kind:        string(txn.Kind),
			Amount:      txn.Amount,
			CreatedAt:   txn.CreatedAt,
		}
		if err := tx.Create(&txnModel).Error; err != nil {
			return err
		}

		if err := tx.Where("user_id = ?", userID).Find(&userModel.Devices).Error; err != nil {
			return err
		}

		var convErr error
		user, convErr = r.modelToEntity(&userModel)
		return convErr
	})

	if err != nil {
		if errors.Is(err, errs.ErrUserNotFound) || errors.Is(err, errs.ErrInsufficientFunds) {
			return nil, err
		}
		r.logger.Error("Database error during balance adjustment", map[string]any{
			"user_id":        userID,
			"transaction_id": txn.ID,
			"error":          err.Error(),
		})
		return nil, fmt.Errorf("%w: %s", errs.ErrStoreUnavailable, err.Error())
	}

	r.logger.Info("Balance adjusted and transaction logged", map[string]any{
		"user_id":        userID,
		"transaction_id": txn.ID,
		"kind":           string(txn.Kind),
		"amount":         txn.Amount,
		"new_balance":    user.Balance(),
	})

	return user, nil
}
