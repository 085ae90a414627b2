package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"MyHome/internal/model"
	"MyHome/internal/pkg"
	"MyHome/internal/repository"

	"github.com/google/uuid"
)

// AmenityInput 创建或修改设施的参数
type AmenityInput struct {
	Name        string
	Description string
	Price       float64
}

func (in AmenityInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return badRequest("amenity name is required")
	}
	if in.Price < 0 {
		return badRequest("amenity price must not be negative")
	}
	return nil
}

type AmenityService struct {
	amenities   AmenityStore
	communities CommunityStore
}

func NewAmenityService(st Stores) *AmenityService {
	return &AmenityService{amenities: st.Amenities, communities: st.Communities}
}

func (s *AmenityService) CreateAmenities(ctx context.Context, actorID, communityID string, inputs []AmenityInput) ([]model.Amenity, error) {
	if err := requireAdmin(ctx, s.communities, communityID, actorID); err != nil {
		return nil, err
	}
	if len(inputs) == 0 {
		return nil, badRequest("amenities are required")
	}
	list := make([]*model.Amenity, 0, len(inputs))
	for _, in := range inputs {
		if err := in.validate(); err != nil {
			return nil, err
		}
		list = append(list, &model.Amenity{
			AmenityID:   uuid.NewString(),
			Name:        strings.TrimSpace(in.Name),
			Description: in.Description,
			Price:       in.Price,
			CommunityID: communityID,
		})
	}
	if err := s.amenities.CreateAll(ctx, list); err != nil {
		return nil, storeErr(err, "amenity")
	}
	out := make([]model.Amenity, 0, len(list))
	for _, a := range list {
		out = append(out, *a)
	}
	return out, nil
}

func (s *AmenityService) ListAllAmenities(ctx context.Context, communityID string) ([]model.Amenity, error) {
	if _, err := s.communities.FindByCommunityID(ctx, communityID); err != nil {
		return nil, storeErr(err, "community")
	}
	return s.amenities.ListByCommunity(ctx, communityID)
}

func (s *AmenityService) GetAmenityDetails(ctx context.Context, amenityID string) (*model.Amenity, error) {
	a, err := s.amenities.FindByAmenityID(ctx, amenityID)
	if err != nil {
		return nil, storeErr(err, "amenity")
	}
	return a, nil
}

func (s *AmenityService) UpdateAmenity(ctx context.Context, actorID, amenityID string, in AmenityInput) (*model.Amenity, error) {
	a, err := s.amenities.FindByAmenityID(ctx, amenityID)
	if err != nil {
		return nil, storeErr(err, "amenity")
	}
	if err := requireAdmin(ctx, s.communities, a.CommunityID, actorID); err != nil {
		return nil, err
	}
	if err := in.validate(); err != nil {
		return nil, err
	}
	a.Name = strings.TrimSpace(in.Name)
	a.Description = in.Description
	a.Price = in.Price
	if err := s.amenities.Update(ctx, a); err != nil {
		return nil, storeErr(err, "amenity")
	}
	return a, nil
}

// DeleteAmenity 预约一并删除
func (s *AmenityService) DeleteAmenity(ctx context.Context, actorID, amenityID string) error {
	a, err := s.amenities.FindByAmenityID(ctx, amenityID)
	if err != nil {
		return storeErr(err, "amenity")
	}
	if err := requireAdmin(ctx, s.communities, a.CommunityID, actorID); err != nil {
		return err
	}
	return storeErr(s.amenities.Delete(ctx, amenityID), "amenity")
}

type BookingService struct {
	bookings    BookingStore
	amenities   AmenityStore
	communities CommunityStore
}

func NewBookingService(st Stores) *BookingService {
	return &BookingService{bookings: st.Bookings, amenities: st.Amenities, communities: st.Communities}
}

// BookAmenity 时间段按 [start, end) 计算，与已有预约重叠返回 409
func (s *BookingService) BookAmenity(ctx context.Context, amenityID, userID string, start, end time.Time) (*model.AmenityBookingItem, error) {
	if start.IsZero() || end.IsZero() || !start.Before(end) {
		return nil, badRequest("booking start must be before end")
	}
	if _, err := s.amenities.FindByAmenityID(ctx, amenityID); err != nil {
		return nil, storeErr(err, "amenity")
	}
	b := &model.AmenityBookingItem{
		AmenityBookingItemID: uuid.NewString(),
		AmenityID:            amenityID,
		BookingStartDate:     start.UTC(),
		BookingEndDate:       end.UTC(),
		BookedBy:             userID,
	}
	if err := s.bookings.Create(ctx, b); err != nil {
		if errors.Is(err, repository.ErrBookingOverlap) {
			return nil, fmt.Errorf("%w: %v", ErrConflict, err)
		}
		return nil, storeErr(err, "amenity")
	}
	return b, nil
}

func (s *BookingService) ListAmenityBookings(ctx context.Context, amenityID string, page pkg.Page) ([]model.AmenityBookingItem, error) {
	if _, err := s.amenities.FindByAmenityID(ctx, amenityID); err != nil {
		return nil, storeErr(err, "amenity")
	}
	return s.bookings.ListByAmenity(ctx, amenityID, page.Offset(), page.Limit())
}

// DeleteBooking 预约人或社区管理员可以取消
func (s *BookingService) DeleteBooking(ctx context.Context, actorID, amenityID, bookingID string) error {
	a, err := s.amenities.FindByAmenityID(ctx, amenityID)
	if err != nil {
		return storeErr(err, "amenity")
	}
	booking, err := s.bookings.FindByBookingID(ctx, amenityID, bookingID)
	if err != nil {
		return storeErr(err, "booking")
	}
	if booking.BookedBy != actorID {
		if err := requireAdmin(ctx, s.communities, a.CommunityID, actorID); err != nil {
			return err
		}
	}
	return storeErr(s.bookings.Delete(ctx, amenityID, bookingID), "booking")
}
