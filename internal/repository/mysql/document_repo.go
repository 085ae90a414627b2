package mysql

import (
	"context"

	"MyHome/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DocumentRepository struct {
	DB *gorm.DB
}

func (r *DocumentRepository) FindByMemberID(ctx context.Context, memberID string) (*model.HouseMemberDocument, error) {
	var doc model.HouseMemberDocument
	err := r.DB.WithContext(ctx).Where("member_id = ?", memberID).First(&doc).Error
	return &doc, err
}

// Create 每个住户只能有一份证件，重复插入返回 gorm.ErrDuplicatedKey
func (r *DocumentRepository) Create(ctx context.Context, doc *model.HouseMemberDocument) error {
	return r.DB.WithContext(ctx).Create(doc).Error
}

// Upsert 按 member_id 覆盖证件内容
func (r *DocumentRepository) Upsert(ctx context.Context, doc *model.HouseMemberDocument) error {
	return r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "member_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"document_filename", "document_content", "updated_at"}),
	}).Create(doc).Error
}

func (r *DocumentRepository) DeleteByMemberID(ctx context.Context, memberID string) error {
	res := r.DB.WithContext(ctx).Where("member_id = ?", memberID).Delete(&model.HouseMemberDocument{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
