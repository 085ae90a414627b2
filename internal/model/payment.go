package model

import "time"

type Payment struct {
	ID          uint64    `gorm:"primaryKey"`
	PaymentID   string    `gorm:"uniqueIndex;size:36;not null"`
	Charge      float64   `gorm:"type:decimal(10,2);not null"`
	Type        string    `gorm:"size:32;not null"`
	Description string    `gorm:"size:255"`
	Recurring   bool      `gorm:"not null;default:false"`
	DueDate     time.Time `gorm:"not null"`
	AdminID     string    `gorm:"size:36;not null;index"`
	MemberID    string    `gorm:"size:36;not null;index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
