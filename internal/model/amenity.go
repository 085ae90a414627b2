package model

import "time"

type Amenity struct {
	ID               uint64  `gorm:"primaryKey"`
	AmenityID        string  `gorm:"uniqueIndex;size:36;not null"`
	Name             string  `gorm:"size:64;not null"`
	Description      string  `gorm:"type:text"`
	Price            float64 `gorm:"type:decimal(10,2);not null;default:0"`
	CommunityID      string  `gorm:"size:36;not null;index"`
	CommunityHouseID string  `gorm:"size:36;index"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (Amenity) TableName() string { return "amenities" }

type AmenityBookingItem struct {
	ID                   uint64    `gorm:"primaryKey"`
	AmenityBookingItemID string    `gorm:"uniqueIndex;size:36;not null"`
	AmenityID            string    `gorm:"size:36;not null;index:idx_amenity_start,priority:1"`
	BookingStartDate     time.Time `gorm:"not null;index:idx_amenity_start,priority:2"`
	BookingEndDate       time.Time `gorm:"not null"`
	BookedBy             string    `gorm:"size:36;not null;index"`
	PaymentID            string    `gorm:"size:36"`
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// Overlaps reports whether the half-open ranges [start, end) intersect.
func (b *AmenityBookingItem) Overlaps(start, end time.Time) bool {
	return b.BookingStartDate.Before(end) && b.BookingEndDate.After(start)
}
