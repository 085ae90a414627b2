package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"MyHome/internal/model"
	"MyHome/internal/pkg"

	"github.com/google/uuid"
)

// PaymentInput 管理员给住户开账单的参数
type PaymentInput struct {
	MemberID    string
	AdminID     string
	Charge      float64
	Type        string
	Description string
	Recurring   bool
	DueDate     time.Time
}

type PaymentService struct {
	payments    PaymentStore
	members     MemberStore
	houses      HouseStore
	users       UserStore
	communities CommunityStore
}

func NewPaymentService(st Stores) *PaymentService {
	return &PaymentService{
		payments:    st.Payments,
		members:     st.Members,
		houses:      st.Houses,
		users:       st.Users,
		communities: st.Communities,
	}
}

// SchedulePayment 只能以自己的身份开账单，且必须是住户所在社区的管理员
func (s *PaymentService) SchedulePayment(ctx context.Context, actorID string, in PaymentInput) (*model.Payment, error) {
	if in.AdminID != actorID {
		return nil, fmt.Errorf("%w: payments can only be scheduled as yourself", ErrForbidden)
	}
	if in.Charge <= 0 {
		return nil, badRequest("charge must be positive")
	}
	if strings.TrimSpace(in.Type) == "" || in.DueDate.IsZero() {
		return nil, badRequest("type and due date are required")
	}

	member, err := s.members.FindByMemberID(ctx, in.MemberID)
	if err != nil {
		return nil, storeErr(err, "member")
	}
	if _, err := s.users.FindByUserID(ctx, in.AdminID); err != nil {
		return nil, storeErr(err, "admin")
	}
	if member.CommunityHouseID == "" {
		return nil, badRequest("member does not belong to a house")
	}
	house, err := s.houses.FindByHouseID(ctx, member.CommunityHouseID)
	if err != nil {
		return nil, storeErr(err, "house")
	}
	ok, err := s.communities.IsAdmin(ctx, house.CommunityID, in.AdminID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, badRequest("admin does not manage the member's community")
	}

	p := &model.Payment{
		PaymentID:   uuid.NewString(),
		Charge:      in.Charge,
		Type:        strings.TrimSpace(in.Type),
		Description: in.Description,
		Recurring:   in.Recurring,
		DueDate:     in.DueDate.UTC(),
		AdminID:     in.AdminID,
		MemberID:    in.MemberID,
	}
	if err := s.payments.Create(ctx, p); err != nil {
		return nil, storeErr(err, "payment")
	}
	return p, nil
}

func (s *PaymentService) GetPaymentDetails(ctx context.Context, paymentID string) (*model.Payment, error) {
	p, err := s.payments.FindByPaymentID(ctx, paymentID)
	if err != nil {
		return nil, storeErr(err, "payment")
	}
	return p, nil
}

func (s *PaymentService) ListMemberPayments(ctx context.Context, memberID string, page pkg.Page) ([]model.Payment, error) {
	if _, err := s.members.FindByMemberID(ctx, memberID); err != nil {
		return nil, storeErr(err, "member")
	}
	return s.payments.ListByMember(ctx, memberID, page.Offset(), page.Limit())
}

// ListAdminPayments adminId 必须是该社区的管理员，否则 404
func (s *PaymentService) ListAdminPayments(ctx context.Context, communityID, adminID string, page pkg.Page) ([]model.Payment, error) {
	if _, err := s.communities.FindByCommunityID(ctx, communityID); err != nil {
		return nil, storeErr(err, "community")
	}
	ok, err := s.communities.IsAdmin(ctx, communityID, adminID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("admin %w", ErrNotFound)
	}
	return s.payments.ListByAdmin(ctx, communityID, adminID, page.Offset(), page.Limit())
}

func (s *PaymentService) ListCommunityPayments(ctx context.Context, communityID string, page pkg.Page) ([]model.Payment, error) {
	if _, err := s.communities.FindByCommunityID(ctx, communityID); err != nil {
		return nil, storeErr(err, "community")
	}
	return s.payments.ListByCommunity(ctx, communityID, page.Offset(), page.Limit())
}
