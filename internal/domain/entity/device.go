package entity

import "time"

// DeviceStatus represents the lifecycle state of a proximity device
type DeviceStatus string

// Device statuses
const (
	DeviceActive  DeviceStatus = "active"
	DeviceLost    DeviceStatus = "lost"
	DeviceStolen  DeviceStatus = "stolen"
	DeviceDeleted DeviceStatus = "deleted"
)

// CategorySmartcard is the device category assigned at linking time
const CategorySmartcard = "smartcard"

// Device represents a smartcard or phone linked to a user account
type Device struct {
	UID               string       // Opaque hardware identifier, globally unique across all users
	HardwareSignature string       // Opaque signature captured at linking time
	Status            DeviceStatus // Lifecycle state of the device
	ActivationDate    time.Time    // When the device was linked
	Category          string       // Device category, e.g. "smartcard"
}
