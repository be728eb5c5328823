package error

import (
	"errors"
	"fmt"
)

// Error codes for standardized responses and structured logs
const (
	// 4xxx - Rejections decided by the kiosk
	CodeUnknownDevice         = 4001
	CodeAccountInactive       = 4002
	CodeAccountDeleted        = 4003
	CodeAccountStatusUnknown  = 4004
	CodeDeviceLost            = 4005
	CodeDeviceStolen          = 4006
	CodeDeviceDeleted         = 4007
	CodeDeviceStatusUnknown   = 4008
	CodeInvalidAmount         = 4009
	CodeInsufficientFunds     = 4010
	CodeUsernameTaken         = 4011
	CodeUsernameNotFound      = 4040
	CodeMissingUsername       = 4012
	CodeDeviceAlreadyLinked   = 4013
	CodeDeviceIdentityMissing = 4014

	// 5xxx - Infrastructure failures
	CodeStoreUnavailable = 5001
	CodeInternalServer   = 5000
)

// Base error types
var (
	// ErrUnknownDevice is returned when no account references the presented device uid
	ErrUnknownDevice = errors.New("no account references this device")

	// ErrAccountInactive is returned when the resolved account is inactive
	ErrAccountInactive = errors.New("account is inactive")

	// ErrAccountDeleted is returned when the resolved account is deleted
	ErrAccountDeleted = errors.New("account is deleted")

	// ErrAccountStatusUnknown is returned when the account carries an unrecognized status value
	ErrAccountStatusUnknown = errors.New("account status unknown")

	// ErrDeviceLost is returned when the presented device is flagged lost
	ErrDeviceLost = errors.New("device is flagged lost")

	// ErrDeviceStolen is returned when the presented device is flagged stolen
	ErrDeviceStolen = errors.New("device is flagged stolen")

	// ErrDeviceDeleted is returned when the presented device is deleted
	ErrDeviceDeleted = errors.New("device is deleted")

	// ErrDeviceStatusUnknown is returned when the device carries an unrecognized status value
	ErrDeviceStatusUnknown = errors.New("device status unknown")

	// ErrInvalidAmount is returned when a transaction amount is not strictly positive
	ErrInvalidAmount = errors.New("amount must be greater than zero")

	// ErrInsufficientFunds is returned when a withdrawal would make the balance negative
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrUsernameTaken is returned when enrolling with a username that already exists
	ErrUsernameTaken = errors.New("username already registered")

	// ErrUsernameNotFound is returned when no user has the given username
	ErrUsernameNotFound = errors.New("username not found")

	// ErrMissingUsername is returned when enrollment is attempted without a username
	ErrMissingUsername = errors.New("username is required")

	// ErrDeviceAlreadyLinked is returned when the device uid is already linked to an account
	ErrDeviceAlreadyLinked = errors.New("device already linked to an account")

	// ErrDeviceIdentityMissing is returned when linking is attempted without a captured device identity
	ErrDeviceIdentityMissing = errors.New("no device identity captured")

	// ErrInvalidUserID is returned when a user id is empty or malformed
	ErrInvalidUserID = errors.New("invalid user id")

	// ErrInvalidTransactionKind is returned when the transaction kind is not recharge or withdrawal
	ErrInvalidTransactionKind = errors.New("invalid transaction kind")

	// ErrUserNotFound is returned when the requested user doesn't exist
	ErrUserNotFound = errors.New("user not found")

	// ErrStoreUnavailable is returned when the ledger store cannot be reached;
	// it is never recovered locally and no partial mutation may have occurred
	ErrStoreUnavailable = errors.New("ledger store unavailable")

	// ErrReaderTimeout is returned by the reader when no device identity could be
	// extracted within the poll budget; it is swallowed by the scan loop and retried
	ErrReaderTimeout = errors.New("no device detected")

	// ErrNotEligible is returned when an operation is attempted against a non-eligible verdict
	ErrNotEligible = errors.New("verdict is not eligible")

	// ErrInternalServer is returned for unexpected failures
	ErrInternalServer = errors.New("internal server error")
)

// ErrorCode returns standardized error codes for known errors
func ErrorCode(err error) int {
	switch {
	case errors.Is(err, ErrUnknownDevice):
		return CodeUnknownDevice
	case errors.Is(err, ErrAccountInactive):
		return CodeAccountInactive
	case errors.Is(err, ErrAccountDeleted):
		return CodeAccountDeleted
	case errors.Is(err, ErrAccountStatusUnknown):
		return CodeAccountStatusUnknown
	case errors.Is(err, ErrDeviceLost):
		return CodeDeviceLost
	case errors.Is(err, ErrDeviceStolen):
		return CodeDeviceStolen
	case errors.Is(err, ErrDeviceDeleted):
		return CodeDeviceDeleted
	case errors.Is(err, ErrDeviceStatusUnknown):
		return CodeDeviceStatusUnknown
	case errors.Is(err, ErrInvalidAmount):
		return CodeInvalidAmount
	case errors.Is(err, ErrInsufficientFunds):
		return CodeInsufficientFunds
	case errors.Is(err, ErrUsernameTaken):
		return CodeUsernameTaken
	case errors.Is(err, ErrUsernameNotFound):
		return CodeUsernameNotFound
	case errors.Is(err, ErrMissingUsername):
		return CodeMissingUsername
	case errors.Is(err, ErrDeviceAlreadyLinked):
		return CodeDeviceAlreadyLinked
	case errors.Is(err, ErrDeviceIdentityMissing):
		return CodeDeviceIdentityMissing
	case errors.Is(err, ErrStoreUnavailable):
		return CodeStoreUnavailable
	default:
		return CodeInternalServer
	}
}

// InsufficientFundsError provides detailed error information for a rejected withdrawal
type InsufficientFundsError struct {
	UserID    string
	Requested int64
	Balance   int64
}

// Error implements the error interface
func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds for user %s: requested %d, available %d",
		e.UserID, e.Requested, e.Balance)
}

// Is checks if the target error is an ErrInsufficientFunds
func (e *InsufficientFundsError) Is(target error) bool {
	return target == ErrInsufficientFunds
}

// LogFields returns a map of fields for structured logging
func (e *InsufficientFundsError) LogFields() map[string]any {
	return map[string]any{
		"error_type": "insufficient_funds",
		"user_id":    e.UserID,
		"requested":  e.Requested,
		"balance":    e.Balance,
		"error_code": CodeInsufficientFunds,
	}
}

// NewInsufficientFundsError creates a new detailed insufficient funds error
func NewInsufficientFundsError(userID string, requested, balance int64) error {
	return &InsufficientFundsError{
		UserID:    userID,
		Requested: requested,
		Balance:   balance,
	}
}

// DeviceConflictError provides detailed information about a linking attempt
// against a device uid that already belongs to another account
type DeviceConflictError struct {
	DeviceUID     string
	OwnerUsername string
}

// Error implements the error interface
func (e *DeviceConflictError) Error() string {
	return fmt.Sprintf("device %s already linked to user %s", e.DeviceUID, e.OwnerUsername)
}

// Is checks if the target error is an ErrDeviceAlreadyLinked
func (e *DeviceConflictError) Is(target error) bool {
	return target == ErrDeviceAlreadyLinked
}

// LogFields returns a map of fields for structured logging
func (e *DeviceConflictError) LogFields() map[string]any {
	return map[string]any{
		"error_type": "device_conflict",
		"device_uid": e.DeviceUID,
		"owner":      e.OwnerUsername,
		"error_code": CodeDeviceAlreadyLinked,
	}
}

// NewDeviceConflictError creates a new detailed device conflict error
func NewDeviceConflictError(deviceUID, ownerUsername string) error {
	return &DeviceConflictError{
		DeviceUID:     deviceUID,
		OwnerUsername: ownerUsername,
	}
}

// IsInsufficientFundsError checks if the error is related to insufficient funds
func IsInsufficientFundsError(err error) bool {
	return errors.Is(err, ErrInsufficientFunds)
}

// IsStoreUnavailableError checks if the error is a ledger store connectivity failure
func IsStoreUnavailableError(err error) bool {
	return errors.Is(err, ErrStoreUnavailable)
}

// IsReaderTimeout checks if the error means no device was detected within the poll budget
func IsReaderTimeout(err error) bool {
	return errors.Is(err, ErrReaderTimeout)
}

// IsNotFoundError checks if the error is any "not found" type of error
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrUsernameNotFound) ||
		errors.Is(err, ErrUnknownDevice)
}
