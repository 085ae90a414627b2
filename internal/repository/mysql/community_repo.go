package mysql

import (
	"context"

	"MyHome/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CommunityRepository struct {
	DB *gorm.DB
}

// Create 创建社区，创建者同时成为第一个管理员
func (r *CommunityRepository) Create(ctx context.Context, c *model.Community, creatorID string) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(c).Error; err != nil {
			return err
		}
		return joinAdmins(tx, c.CommunityID, []string{creatorID})
	})
}

// 幂等插入：(community_id, user_id) 已存在则跳过
func joinAdmins(tx *gorm.DB, communityID string, userIDs []string) error {
	if len(userIDs) == 0 {
		return nil
	}
	links := make([]model.CommunityAdmin, 0, len(userIDs))
	for _, id := range userIDs {
		links = append(links, model.CommunityAdmin{CommunityID: communityID, UserID: id})
	}
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "community_id"}, {Name: "user_id"}},
		DoNothing: true,
	}).Create(&links).Error
}

func (r *CommunityRepository) FindByCommunityID(ctx context.Context, communityID string) (*model.Community, error) {
	var community model.Community
	err := r.DB.WithContext(ctx).Where("community_id = ?", communityID).First(&community).Error
	return &community, err
}

func (r *CommunityRepository) List(ctx context.Context, offset, limit int) ([]model.Community, error) {
	var list []model.Community
	err := r.DB.WithContext(ctx).Order("id ASC").Offset(offset).Limit(limit).Find(&list).Error
	return list, err
}

// ListAdmins 分页查询社区管理员
func (r *CommunityRepository) ListAdmins(ctx context.Context, communityID string, offset, limit int) ([]model.User, error) {
	var list []model.User
	err := r.DB.WithContext(ctx).
		Joins("JOIN community_admins ca ON ca.user_id = users.user_id").
		Where("ca.community_id = ?", communityID).
		Order("ca.id ASC").
		Offset(offset).
		Limit(limit).
		Find(&list).Error
	return list, err
}

func (r *CommunityRepository) AdminIDs(ctx context.Context, communityID string) ([]string, error) {
	var ids []string
	err := r.DB.WithContext(ctx).Model(&model.CommunityAdmin{}).
		Where("community_id = ?", communityID).
		Order("id ASC").
		Pluck("user_id", &ids).Error
	return ids, err
}

// AddAdmins 只关联已存在的用户，未知的 id 直接忽略
func (r *CommunityRepository) AddAdmins(ctx context.Context, communityID string, userIDs []string) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing []string
		if len(userIDs) > 0 {
			if err := tx.Model(&model.User{}).Where("user_id IN ?", userIDs).Pluck("user_id", &existing).Error; err != nil {
				return err
			}
		}
		return joinAdmins(tx, communityID, existing)
	})
}

// RemoveAdmin 返回是否真的删除了关联
func (r *CommunityRepository) RemoveAdmin(ctx context.Context, communityID, userID string) (bool, error) {
	tx := r.DB.WithContext(ctx).
		Where("community_id = ? AND user_id = ?", communityID, userID).
		Delete(&model.CommunityAdmin{})
	return tx.RowsAffected > 0, tx.Error
}

func (r *CommunityRepository) IsAdmin(ctx context.Context, communityID, userID string) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.CommunityAdmin{}).
		Where("community_id = ? AND user_id = ?", communityID, userID).
		Count(&count).Error
	return count > 0, err
}

func (r *CommunityRepository) CommunityIDsOfAdmin(ctx context.Context, userID string) ([]string, error) {
	var ids []string
	err := r.DB.WithContext(ctx).Model(&model.CommunityAdmin{}).
		Where("user_id = ?", userID).
		Order("id ASC").
		Pluck("community_id", &ids).Error
	return ids, err
}

// Delete 硬删除社区及其房屋、住户、证件、设施、预约和管理员关联
func (r *CommunityRepository) Delete(ctx context.Context, communityID string) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("community_id = ?", communityID).Delete(&model.Community{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		houses := tx.Model(&model.CommunityHouse{}).Select("house_id").Where("community_id = ?", communityID)
		members := tx.Model(&model.HouseMember{}).Select("member_id").Where("community_house_id IN (?)", houses)
		amenities := tx.Model(&model.Amenity{}).Select("amenity_id").Where("community_id = ?", communityID)

		steps := []func() error{
			func() error { return tx.Where("member_id IN (?)", members).Delete(&model.HouseMemberDocument{}).Error },
			func() error { return tx.Where("community_house_id IN (?)", houses).Delete(&model.HouseMember{}).Error },
			func() error { return tx.Where("amenity_id IN (?)", amenities).Delete(&model.AmenityBookingItem{}).Error },
			func() error { return tx.Where("community_id = ?", communityID).Delete(&model.Amenity{}).Error },
			func() error { return tx.Where("community_id = ?", communityID).Delete(&model.CommunityHouse{}).Error },
			func() error { return tx.Where("community_id = ?", communityID).Delete(&model.CommunityAdmin{}).Error },
		}
		for _, step := range steps {
			if err := step(); err != nil {
				return err
			}
		}
		return nil
	})
}
