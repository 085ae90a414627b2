package mysql

import (
	"context"

	"MyHome/internal/model"

	"gorm.io/gorm"
)

type HouseRepository struct {
	DB *gorm.DB
}

func (r *HouseRepository) CreateHouses(ctx context.Context, houses []*model.CommunityHouse) error {
	if len(houses) == 0 {
		return nil
	}
	return r.DB.WithContext(ctx).Create(houses).Error
}

func (r *HouseRepository) FindByHouseID(ctx context.Context, houseID string) (*model.CommunityHouse, error) {
	var house model.CommunityHouse
	err := r.DB.WithContext(ctx).Where("house_id = ?", houseID).First(&house).Error
	return &house, err
}

func (r *HouseRepository) List(ctx context.Context, offset, limit int) ([]model.CommunityHouse, error) {
	var list []model.CommunityHouse
	err := r.DB.WithContext(ctx).Order("id ASC").Offset(offset).Limit(limit).Find(&list).Error
	return list, err
}

func (r *HouseRepository) ListByCommunity(ctx context.Context, communityID string, offset, limit int) ([]model.CommunityHouse, error) {
	var list []model.CommunityHouse
	err := r.DB.WithContext(ctx).
		Where("community_id = ?", communityID).
		Order("id ASC").
		Offset(offset).
		Limit(limit).
		Find(&list).Error
	return list, err
}

// ListByAdmin 用户所管理的全部社区下的房屋
func (r *HouseRepository) ListByAdmin(ctx context.Context, userID string, offset, limit int) ([]model.CommunityHouse, error) {
	var list []model.CommunityHouse
	err := r.DB.WithContext(ctx).
		Joins("JOIN community_admins ca ON ca.community_id = community_houses.community_id").
		Where("ca.user_id = ?", userID).
		Order("community_houses.id ASC").
		Offset(offset).
		Limit(limit).
		Find(&list).Error
	return list, err
}

// DeleteFromCommunity 删除房屋，住户和设施保留但解除与房屋的关联
func (r *HouseRepository) DeleteFromCommunity(ctx context.Context, communityID, houseID string) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("community_id = ? AND house_id = ?", communityID, houseID).Delete(&model.CommunityHouse{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		if err := tx.Model(&model.HouseMember{}).Where("community_house_id = ?", houseID).
			Update("community_house_id", "").Error; err != nil {
			return err
		}
		return tx.Model(&model.Amenity{}).Where("community_house_id = ?", houseID).
			Update("community_house_id", "").Error
	})
}
