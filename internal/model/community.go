package model

import "time"

type Community struct {
	ID          uint64 `gorm:"primaryKey"`
	CommunityID string `gorm:"uniqueIndex;size:36;not null"`
	Name        string `gorm:"size:64;not null"`
	District    string `gorm:"size:64;not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CommunityAdmin links a user to a community they administer.
type CommunityAdmin struct {
	ID          uint64 `gorm:"primaryKey"`
	CommunityID string `gorm:"size:36;not null;index;uniqueIndex:uk_community_admin"`
	UserID      string `gorm:"size:36;not null;index;uniqueIndex:uk_community_admin"`
	CreatedAt   time.Time
}

func (CommunityAdmin) TableName() string { return "community_admins" }
