package model

import (
	"time"
)

// Device represents the database model for linked devices. The uid is the
// primary key, which enforces the one-owner rule at the store level.
type Device struct {
	UID               string    `gorm:"primaryKey;size:64"`
	UserID            string    `gorm:"not null;index;size:36"`
	HardwareSignature string    `gorm:"size:255"`
	Status            string    `gorm:"not null;size:20"`
	ActivationDate    time.Time `gorm:"not null"`
	Category          string    `gorm:"not null;size:50"`
}

// TableName specifies the table name for Device
func (Device) TableName() string {
	return "devices"
}
