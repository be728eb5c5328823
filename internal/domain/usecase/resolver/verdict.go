package resolver

import (
	"github.com/digiclever/dispenser/internal/domain/entity"
	errs "github.com/digiclever/dispenser/internal/domain/error"
)

// Reason classifies why a transaction attempt was denied: either the device
// identity is not eligible, or the operation itself was rejected
type Reason string

// Eligibility denial reasons, in the order the resolver evaluates them
const (
	// ReasonNone means the verdict is eligible
	ReasonNone Reason = ""
	// ReasonUnknownDevice means no account references the device uid
	ReasonUnknownDevice Reason = "unknown_device"
	// ReasonAccountInactive means the account status is inactive
	ReasonAccountInactive Reason = "account_inactive"
	// ReasonAccountDeleted means the account status is deleted
	ReasonAccountDeleted Reason = "account_deleted"
	// ReasonAccountStatusUnknown means the account carries an unrecognized status
	ReasonAccountStatusUnknown Reason = "account_status_unknown"
	// ReasonDeviceLost means the device is flagged lost
	ReasonDeviceLost Reason = "device_lost"
	// ReasonDeviceStolen means the device is flagged stolen
	ReasonDeviceStolen Reason = "device_stolen"
	// ReasonDeviceDeleted means the device is deleted
	ReasonDeviceDeleted Reason = "device_deleted"
	// ReasonDeviceStatusUnknown means the device carries an unrecognized status
	ReasonDeviceStatusUnknown Reason = "device_status_unknown"
)

// Operation denial reasons, reported on otherwise eligible verdicts
const (
	// ReasonInvalidAmount means the requested amount was not positive
	ReasonInvalidAmount Reason = "invalid_amount"
	// ReasonInsufficientFunds means the store rejected the withdrawal at commit time
	ReasonInsufficientFunds Reason = "insufficient_funds"
)

// Err maps the reason to its sentinel error
func (r Reason) Err() error {
	switch r {
	case ReasonUnknownDevice:
		return errs.ErrUnknownDevice
	case ReasonAccountInactive:
		return errs.ErrAccountInactive
	case ReasonAccountDeleted:
		return errs.ErrAccountDeleted
	case ReasonAccountStatusUnknown:
		return errs.ErrAccountStatusUnknown
	case ReasonDeviceLost:
		return errs.ErrDeviceLost
	case ReasonDeviceStolen:
		return errs.ErrDeviceStolen
	case ReasonDeviceDeleted:
		return errs.ErrDeviceDeleted
	case ReasonDeviceStatusUnknown:
		return errs.ErrDeviceStatusUnknown
	case ReasonInvalidAmount:
		return errs.ErrInvalidAmount
	case ReasonInsufficientFunds:
		return errs.ErrInsufficientFunds
	default:
		return nil
	}
}

// Label renders the reason for the denial status messages, matching the
// wording shown on the kiosk ("Impossible transaction : Lost device.")
func (r Reason) Label() string {
	switch r {
	case ReasonUnknownDevice:
		return "Unknown device"
	case ReasonAccountInactive:
		return "Inactive account"
	case ReasonAccountDeleted:
		return "Deleted account"
	case ReasonAccountStatusUnknown:
		return "Account status unknown"
	case ReasonDeviceLost:
		return "Lost device"
	case ReasonDeviceStolen:
		return "Stolen device"
	case ReasonDeviceDeleted:
		return "Deleted device"
	case ReasonDeviceStatusUnknown:
		return "Device status unknown"
	case ReasonInvalidAmount:
		return "Invalid amount"
	case ReasonInsufficientFunds:
		return "Insufficient funds"
	default:
		return ""
	}
}

// Verdict is the resolver's classification of a presented device identity.
// User and Device are nil for an unknown device; Reason is ReasonNone when
// the identity is eligible for transactions.
type Verdict struct {
	User   *entity.User
	Device *entity.Device
	Reason Reason
}

// Eligible reports whether transactions may proceed on this verdict
func (v Verdict) Eligible() bool {
	return v.Reason == ReasonNone && v.User != nil && v.Device != nil
}

// Unknown reports whether no account references the presented device
func (v Verdict) Unknown() bool {
	return v.Reason == ReasonUnknownDevice
}
