package model

import "time"

type SecurityTokenType string

const (
	TokenTypeEmailConfirm SecurityTokenType = "EMAIL_CONFIRM"
	TokenTypeReset        SecurityTokenType = "RESET"
)

type SecurityToken struct {
	ID           uint64            `gorm:"primaryKey"`
	TokenType    SecurityTokenType `gorm:"size:16;not null"`
	Token        string            `gorm:"uniqueIndex;size:36;not null"`
	CreationDate time.Time         `gorm:"not null"`
	ExpiryDate   time.Time         `gorm:"not null;index"`
	Used         bool              `gorm:"not null;default:false"`
	TokenOwnerID string            `gorm:"size:36;not null;index"`
}

func (t *SecurityToken) Expired(now time.Time) bool {
	return !now.Before(t.ExpiryDate)
}
