package mysql

import (
	"context"
	"time"

	"MyHome/internal/model"

	"gorm.io/gorm"
)

type SecurityTokenRepository struct {
	DB *gorm.DB
}

func (r *SecurityTokenRepository) Create(ctx context.Context, t *model.SecurityToken) error {
	return r.DB.WithContext(ctx).Create(t).Error
}

func (r *SecurityTokenRepository) FindByToken(ctx context.Context, token string) (*model.SecurityToken, error) {
	var t model.SecurityToken
	err := r.DB.WithContext(ctx).Where("token = ?", token).First(&t).Error
	return &t, err
}

// MarkUsed 只更新未使用的令牌，已使用的返回 gorm.ErrRecordNotFound
func (r *SecurityTokenRepository) MarkUsed(ctx context.Context, token string) error {
	return updateOne(r.DB.WithContext(ctx).Model(&model.SecurityToken{}).
		Where("token = ? AND used = ?", token, false).
		Update("used", true))
}

// DeleteStale 清理过期或已使用的令牌
func (r *SecurityTokenRepository) DeleteStale(ctx context.Context, now time.Time) (int64, error) {
	res := r.DB.WithContext(ctx).
		Where("used = ? OR expiry_date <= ?", true, now).
		Delete(&model.SecurityToken{})
	return res.RowsAffected, res.Error
}
