package mysql

import (
	"context"

	"MyHome/internal/model"

	"gorm.io/gorm"
)

type MemberRepository struct {
	DB *gorm.DB
}

func (r *MemberRepository) CreateMembers(ctx context.Context, members []*model.HouseMember) error {
	if len(members) == 0 {
		return nil
	}
	return r.DB.WithContext(ctx).Create(members).Error
}

func (r *MemberRepository) FindByMemberID(ctx context.Context, memberID string) (*model.HouseMember, error) {
	var member model.HouseMember
	err := r.DB.WithContext(ctx).Where("member_id = ?", memberID).First(&member).Error
	return &member, err
}

func (r *MemberRepository) ListByHouse(ctx context.Context, houseID string, offset, limit int) ([]model.HouseMember, error) {
	var list []model.HouseMember
	err := r.DB.WithContext(ctx).
		Where("community_house_id = ?", houseID).
		Order("id ASC").
		Offset(offset).
		Limit(limit).
		Find(&list).Error
	return list, err
}

// ListByAdmin 用户所管理社区中所有房屋的住户
func (r *MemberRepository) ListByAdmin(ctx context.Context, userID string, offset, limit int) ([]model.HouseMember, error) {
	var list []model.HouseMember
	err := r.DB.WithContext(ctx).
		Joins("JOIN community_houses h ON h.house_id = house_members.community_house_id").
		Joins("JOIN community_admins ca ON ca.community_id = h.community_id").
		Where("ca.user_id = ?", userID).
		Order("house_members.id ASC").
		Offset(offset).
		Limit(limit).
		Find(&list).Error
	return list, err
}

// DeleteFromHouse 删除住户及其证件
func (r *MemberRepository) DeleteFromHouse(ctx context.Context, houseID, memberID string) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("community_house_id = ? AND member_id = ?", houseID, memberID).Delete(&model.HouseMember{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Where("member_id = ?", memberID).Delete(&model.HouseMemberDocument{}).Error
	})
}
