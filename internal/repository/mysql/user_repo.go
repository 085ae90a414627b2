package mysql

import (
	"context"

	"MyHome/internal/model"

	"gorm.io/gorm"
)

type UserRepository struct {
	DB *gorm.DB
}

// Create 创建用户并在同一事务写 user.created 事件
func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		return insertOutbox(tx, model.EventUserCreated, user.UserID, map[string]any{
			"user_id": user.UserID,
			"name":    user.Name,
			"email":   user.Email,
		})
	})
}

func (r *UserRepository) FindByUserID(ctx context.Context, userID string) (*model.User, error) {
	var user model.User
	err := r.DB.WithContext(ctx).Where("user_id = ?", userID).First(&user).Error
	return &user, err
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := r.DB.WithContext(ctx).Where("email = ?", email).First(&user).Error
	return &user, err
}

func (r *UserRepository) List(ctx context.Context, offset, limit int) ([]model.User, error) {
	var list []model.User
	err := r.DB.WithContext(ctx).Order("id ASC").Offset(offset).Limit(limit).Find(&list).Error
	return list, err
}

func (r *UserRepository) UpdatePassword(ctx context.Context, userID, encryptedPassword string) error {
	return updateOne(r.DB.WithContext(ctx).Model(&model.User{}).Where("user_id = ?", userID).
		Update("encrypted_password", encryptedPassword))
}

func (r *UserRepository) ConfirmEmail(ctx context.Context, userID string) error {
	return updateOne(r.DB.WithContext(ctx).Model(&model.User{}).Where("user_id = ?", userID).
		Update("email_confirmed", true))
}

// updateOne 没有命中任何行时返回 gorm.ErrRecordNotFound
func updateOne(tx *gorm.DB) error {
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
