package entity

import (
	"time"

	errs "github.com/digiclever/dispenser/internal/domain/error"
	coreport "github.com/digiclever/dispenser/internal/domain/port/core"
)

// UserStatus represents the lifecycle state of a user account
type UserStatus string

// User statuses
const (
	UserActive   UserStatus = "active"
	UserInactive UserStatus = "inactive"
	UserDeleted  UserStatus = "deleted"
)

// User represents an account holding a balance and the devices linked to it
type User struct {
	ID               string     // Unique identifier for the user
	Username         string     // Unique username chosen at enrollment
	Name             string     // Display name, optional
	Surname          string     // Surname, optional
	balance          int64      // Balance in whole currency units, never negative (private)
	Status           UserStatus // Lifecycle state of the account
	Devices          []Device   // Devices linked to this account, in linking order
	RegistrationDate time.Time  // When the user enrolled
	UpdatedAt        time.Time  // When the user was last updated
}

// NewUser creates a new active user with a zero balance and no devices
func NewUser(id, username, name, surname string, timeProvider coreport.TimeProvider) (*User, error) {
	if username == "" {
		return nil, errs.ErrMissingUsername
	}

	now := timeProvider.Now()
	return &User{
		ID:               id,
		Username:         username,
		Name:             name,
		Surname:          surname,
		balance:          0,
		Status:           UserActive,
		Devices:          []Device{},
		RegistrationDate: now,
		UpdatedAt:        now,
	}, nil
}

// Balance returns the current balance in whole currency units
func (u *User) Balance() int64 {
	return u.balance
}

// SetBalance updates the balance directly (for internal use, like repositories)
func (u *User) SetBalance(balance int64, timeProvider coreport.TimeProvider) {
	u.balance = balance
	u.UpdatedAt = timeProvider.Now()
}

// CanWithdraw checks if the user has enough balance for a withdrawal
func (u *User) CanWithdraw(amount int64) bool {
	return u.balance >= amount
}

// DeviceByUID returns the linked device with the given uid, or nil
func (u *User) DeviceByUID(uid string) *Device {
	for i := range u.Devices {
		if u.Devices[i].UID == uid {
			return &u.Devices[i]
		}
	}
	return nil
}

// HasDevice reports whether a device with the given uid is linked to this user
func (u *User) HasDevice(uid string) bool {
	return u.DeviceByUID(uid) != nil
}

// LinkDevice appends a device to the user's device list
// Returns ErrDeviceAlreadyLinked if the uid is already present on this user
func (u *User) LinkDevice(device Device, timeProvider coreport.TimeProvider) error {
	if u.HasDevice(device.UID) {
		return errs.ErrDeviceAlreadyLinked
	}
	u.Devices = append(u.Devices, device)
	u.UpdatedAt = timeProvider.Now()
	return nil
}

// DisplayName returns the best human-readable name for the user
func (u *User) DisplayName() string {
	switch {
	case u.Name != "" && u.Surname != "":
		return u.Name + " " + u.Surname
	case u.Name != "":
		return u.Name
	default:
		return u.Username
	}
}
