package mysql

import (
	"context"

	"MyHome/internal/model"
	"MyHome/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BookingRepository struct {
	DB *gorm.DB
}

// Create 锁住设施行后检查时间段冲突，区间按 [start, end) 计算
func (r *BookingRepository) Create(ctx context.Context, b *model.AmenityBookingItem) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var amenity model.Amenity
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("amenity_id = ?", b.AmenityID).
			First(&amenity).Error; err != nil {
			return err
		}

		var overlapping int64
		if err := tx.Model(&model.AmenityBookingItem{}).
			Where("amenity_id = ? AND booking_start_date < ? AND booking_end_date > ?",
				b.AmenityID, b.BookingEndDate, b.BookingStartDate).
			Count(&overlapping).Error; err != nil {
			return err
		}
		if overlapping > 0 {
			return repository.ErrBookingOverlap
		}

		if err := tx.Create(b).Error; err != nil {
			return err
		}
		return insertOutbox(tx, model.EventBookingCreated, b.AmenityBookingItemID, map[string]any{
			"amenity_id": b.AmenityID,
			"booked_by":  b.BookedBy,
			"start":      b.BookingStartDate,
			"end":        b.BookingEndDate,
		})
	})
}

func (r *BookingRepository) FindByBookingID(ctx context.Context, amenityID, bookingID string) (*model.AmenityBookingItem, error) {
	var b model.AmenityBookingItem
	err := r.DB.WithContext(ctx).
		Where("amenity_id = ? AND amenity_booking_item_id = ?", amenityID, bookingID).
		First(&b).Error
	return &b, err
}

func (r *BookingRepository) ListByAmenity(ctx context.Context, amenityID string, offset, limit int) ([]model.AmenityBookingItem, error) {
	var list []model.AmenityBookingItem
	err := r.DB.WithContext(ctx).
		Where("amenity_id = ?", amenityID).
		Order("booking_start_date ASC").
		Offset(offset).
		Limit(limit).
		Find(&list).Error
	return list, err
}

func (r *BookingRepository) Delete(ctx context.Context, amenityID, bookingID string) error {
	res := r.DB.WithContext(ctx).
		Where("amenity_id = ? AND amenity_booking_item_id = ?", amenityID, bookingID).
		Delete(&model.AmenityBookingItem{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
