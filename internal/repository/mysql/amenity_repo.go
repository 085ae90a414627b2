package mysql

import (
	"context"

	"MyHome/internal/model"

	"gorm.io/gorm"
)

type AmenityRepository struct {
	DB *gorm.DB
}

func (r *AmenityRepository) CreateAll(ctx context.Context, amenities []*model.Amenity) error {
	if len(amenities) == 0 {
		return nil
	}
	return r.DB.WithContext(ctx).Create(amenities).Error
}

func (r *AmenityRepository) FindByAmenityID(ctx context.Context, amenityID string) (*model.Amenity, error) {
	var amenity model.Amenity
	err := r.DB.WithContext(ctx).Where("amenity_id = ?", amenityID).First(&amenity).Error
	return &amenity, err
}

func (r *AmenityRepository) ListByCommunity(ctx context.Context, communityID string) ([]model.Amenity, error) {
	var list []model.Amenity
	err := r.DB.WithContext(ctx).Where("community_id = ?", communityID).Order("id ASC").Find(&list).Error
	return list, err
}

// Update 只更新名称、描述和价格
func (r *AmenityRepository) Update(ctx context.Context, amenity *model.Amenity) error {
	return r.DB.WithContext(ctx).Model(&model.Amenity{}).
		Where("amenity_id = ?", amenity.AmenityID).
		Updates(map[string]any{
			"name":        amenity.Name,
			"description": amenity.Description,
			"price":       amenity.Price,
		}).Error
}

// Delete 删除设施及其预约
func (r *AmenityRepository) Delete(ctx context.Context, amenityID string) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("amenity_id = ?", amenityID).Delete(&model.Amenity{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Where("amenity_id = ?", amenityID).Delete(&model.AmenityBookingItem{}).Error
	})
}
