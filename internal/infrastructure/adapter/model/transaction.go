package model

import (
	"time"
)

// Transaction represents the database model for the append-only transaction log
type Transaction struct {
	ID          string    `gorm:"primaryKey;size:36"`
	UserID      string    `gorm:"not null;index;size:36"`
	DeviceUID   string    `gorm:"not null;size:64"`
	DispenserID string    `gorm:"size:64"`
	Kind        string    `gorm:"not null;size:20"`
	Amount      int64     `gorm:"not null"`
	CreatedAt   time.Time `gorm:"not null;index"`

	// Define relationships
	User User `gorm:"foreignKey:UserID;references:ID"`
}

// TableName specifies the table name for Transaction
func (Transaction) TableName() string {
	return "transactions"
}
