package model

import "time"

type User struct {
	ID                uint64 `gorm:"primaryKey"`
	UserID            string `gorm:"uniqueIndex;size:36;not null"`
	Name              string `gorm:"size:64;not null"`
	Email             string `gorm:"uniqueIndex;size:128;not null"`
	EncryptedPassword string `gorm:"size:255;not null"`
	EmailConfirmed    bool   `gorm:"not null;default:false"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
