package model

import "time"

type CommunityHouse struct {
	ID          uint64 `gorm:"primaryKey"`
	HouseID     string `gorm:"uniqueIndex;size:36;not null"`
	Name        string `gorm:"size:64;not null"`
	CommunityID string `gorm:"size:36;not null;index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// HouseMember is a resident of a house. CommunityHouseID is empty once the
// house has been removed from its community.
type HouseMember struct {
	ID               uint64 `gorm:"primaryKey"`
	MemberID         string `gorm:"uniqueIndex;size:36;not null"`
	Name             string `gorm:"size:64;not null"`
	CommunityHouseID string `gorm:"size:36;index"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type HouseMemberDocument struct {
	ID               uint64 `gorm:"primaryKey"`
	MemberID         string `gorm:"uniqueIndex;size:36;not null"`
	DocumentFilename string `gorm:"uniqueIndex;size:128;not null"`
	DocumentContent  []byte `gorm:"type:longblob;not null"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
