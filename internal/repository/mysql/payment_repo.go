package mysql

import (
	"context"

	"MyHome/internal/model"

	"gorm.io/gorm"
)

type PaymentRepository struct {
	DB *gorm.DB
}

// Create 写入账单和 payment.scheduled 事件
func (r *PaymentRepository) Create(ctx context.Context, p *model.Payment) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(p).Error; err != nil {
			return err
		}
		return insertOutbox(tx, model.EventPaymentScheduled, p.PaymentID, map[string]any{
			"member_id": p.MemberID,
			"admin_id":  p.AdminID,
			"charge":    p.Charge,
			"due_date":  p.DueDate,
		})
	})
}

func (r *PaymentRepository) FindByPaymentID(ctx context.Context, paymentID string) (*model.Payment, error) {
	var p model.Payment
	err := r.DB.WithContext(ctx).Where("payment_id = ?", paymentID).First(&p).Error
	return &p, err
}

func (r *PaymentRepository) ListByMember(ctx context.Context, memberID string, offset, limit int) ([]model.Payment, error) {
	var list []model.Payment
	err := r.DB.WithContext(ctx).
		Where("member_id = ?", memberID).
		Order("due_date ASC, id ASC").
		Offset(offset).
		Limit(limit).
		Find(&list).Error
	return list, err
}

// ListByCommunity 住户所在房屋属于该社区的账单
func (r *PaymentRepository) ListByCommunity(ctx context.Context, communityID string, offset, limit int) ([]model.Payment, error) {
	var list []model.Payment
	err := r.communityScope(ctx, communityID).
		Order("payments.due_date ASC, payments.id ASC").
		Offset(offset).
		Limit(limit).
		Find(&list).Error
	return list, err
}

// ListByAdmin 某管理员在该社区开出的账单
func (r *PaymentRepository) ListByAdmin(ctx context.Context, communityID, adminID string, offset, limit int) ([]model.Payment, error) {
	var list []model.Payment
	err := r.communityScope(ctx, communityID).
		Where("payments.admin_id = ?", adminID).
		Order("payments.due_date ASC, payments.id ASC").
		Offset(offset).
		Limit(limit).
		Find(&list).Error
	return list, err
}

func (r *PaymentRepository) communityScope(ctx context.Context, communityID string) *gorm.DB {
	return r.DB.WithContext(ctx).Model(&model.Payment{}).
		Joins("JOIN house_members m ON m.member_id = payments.member_id").
		Joins("JOIN community_houses h ON h.house_id = m.community_house_id").
		Where("h.community_id = ?", communityID)
}
