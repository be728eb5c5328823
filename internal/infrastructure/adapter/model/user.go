package model

import (
	"time"
)

// User represents the database model for users
type User struct {
	ID               string    `gorm:"primaryKey;size:36"`
	Username         string    `gorm:"uniqueIndex;not null;size:255"`
	Name             string    `gorm:"size:255"`
	Surname          string    `gorm:"size:255"`
	Balance          int64     `gorm:"not null"`
	Status           string    `gorm:"not null;size:20"`
	RegistrationDate time.Time `gorm:"not null"`
	UpdatedAt        time.Time `gorm:"not null"`

	// Define relationships
	Devices []Device `gorm:"foreignKey:UserID;references:ID"`
}

// TableName specifies the table name for User
func (User) TableName() string {
	return "users"
}
