package memory

import (
	"cmp"
	"context"
	"slices"

	"MyHome/internal/model"
	"MyHome/internal/repository"

	"gorm.io/gorm"
)

type AmenityRepository struct{ s *Store }

func (r *AmenityRepository) CreateAll(_ context.Context, amenities []*model.Amenity) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range amenities {
		if _, dup := find(s.amenities, func(x *model.Amenity) bool { return x.AmenityID == a.AmenityID }); dup {
			return gorm.ErrDuplicatedKey
		}
	}
	for _, a := range amenities {
		a.ID = s.nextID()
		a.CreatedAt = s.now()
		a.UpdatedAt = a.CreatedAt
		row := *a
		s.amenities = append(s.amenities, &row)
	}
	return nil
}

func (r *AmenityRepository) FindByAmenityID(_ context.Context, amenityID string) (*model.Amenity, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	a, ok := find(r.s.amenities, func(a *model.Amenity) bool { return a.AmenityID == amenityID })
	if !ok {
		return &model.Amenity{}, gorm.ErrRecordNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *AmenityRepository) ListByCommunity(_ context.Context, communityID string) ([]model.Amenity, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return collect(r.s.amenities, func(a *model.Amenity) bool { return a.CommunityID == communityID }), nil
}

func (r *AmenityRepository) Update(_ context.Context, amenity *model.Amenity) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := find(s.amenities, func(a *model.Amenity) bool { return a.AmenityID == amenity.AmenityID })
	if !ok {
		return gorm.ErrRecordNotFound
	}
	a.Name = amenity.Name
	a.Description = amenity.Description
	a.Price = amenity.Price
	a.UpdatedAt = s.now()
	return nil
}

func (r *AmenityRepository) Delete(_ context.Context, amenityID string) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int
	s.amenities, n = remove(s.amenities, func(a *model.Amenity) bool { return a.AmenityID == amenityID })
	if n == 0 {
		return gorm.ErrRecordNotFound
	}
	s.bookings, _ = remove(s.bookings, func(b *model.AmenityBookingItem) bool { return b.AmenityID == amenityID })
	return nil
}

type BookingRepository struct{ s *Store }

func (r *BookingRepository) Create(_ context.Context, b *model.AmenityBookingItem) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := find(s.amenities, func(a *model.Amenity) bool { return a.AmenityID == b.AmenityID }); !ok {
		return gorm.ErrRecordNotFound
	}
	if _, clash := find(s.bookings, func(x *model.AmenityBookingItem) bool {
		return x.AmenityID == b.AmenityID && x.Overlaps(b.BookingStartDate, b.BookingEndDate)
	}); clash {
		return repository.ErrBookingOverlap
	}
	if _, dup := find(s.bookings, func(x *model.AmenityBookingItem) bool {
		return x.AmenityBookingItemID == b.AmenityBookingItemID
	}); dup {
		return gorm.ErrDuplicatedKey
	}

	b.ID = s.nextID()
	b.CreatedAt = s.now()
	b.UpdatedAt = b.CreatedAt
	row := *b
	s.bookings = append(s.bookings, &row)
	return s.addEvent(model.EventBookingCreated, b.AmenityBookingItemID, map[string]any{
		"amenity_id": b.AmenityID,
		"booked_by":  b.BookedBy,
		"start":      b.BookingStartDate,
		"end":        b.BookingEndDate,
	})
}

func (r *BookingRepository) FindByBookingID(_ context.Context, amenityID, bookingID string) (*model.AmenityBookingItem, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	b, ok := find(r.s.bookings, func(b *model.AmenityBookingItem) bool {
		return b.AmenityID == amenityID && b.AmenityBookingItemID == bookingID
	})
	if !ok {
		return &model.AmenityBookingItem{}, gorm.ErrRecordNotFound
	}
	cp := *b
	return &cp, nil
}

func (r *BookingRepository) ListByAmenity(_ context.Context, amenityID string, offset, limit int) ([]model.AmenityBookingItem, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	list := collect(r.s.bookings, func(b *model.AmenityBookingItem) bool { return b.AmenityID == amenityID })
	slices.SortStableFunc(list, func(a, b model.AmenityBookingItem) int {
		return a.BookingStartDate.Compare(b.BookingStartDate)
	})
	return window(list, offset, limit), nil
}

func (r *BookingRepository) Delete(_ context.Context, amenityID, bookingID string) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int
	s.bookings, n = remove(s.bookings, func(b *model.AmenityBookingItem) bool {
		return b.AmenityID == amenityID && b.AmenityBookingItemID == bookingID
	})
	if n == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

type PaymentRepository struct{ s *Store }

func (r *PaymentRepository) Create(_ context.Context, p *model.Payment) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, dup := find(s.payments, func(x *model.Payment) bool { return x.PaymentID == p.PaymentID }); dup {
		return gorm.ErrDuplicatedKey
	}
	p.ID = s.nextID()
	p.CreatedAt = s.now()
	p.UpdatedAt = p.CreatedAt
	row := *p
	s.payments = append(s.payments, &row)
	return s.addEvent(model.EventPaymentScheduled, p.PaymentID, map[string]any{
		"member_id": p.MemberID,
		"admin_id":  p.AdminID,
		"charge":    p.Charge,
		"due_date":  p.DueDate,
	})
}

func (r *PaymentRepository) FindByPaymentID(_ context.Context, paymentID string) (*model.Payment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := find(r.s.payments, func(p *model.Payment) bool { return p.PaymentID == paymentID })
	if !ok {
		return &model.Payment{}, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *PaymentRepository) ListByMember(_ context.Context, memberID string, offset, limit int) ([]model.Payment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.sorted(func(p *model.Payment) bool { return p.MemberID == memberID }, offset, limit), nil
}

func (r *PaymentRepository) ListByCommunity(_ context.Context, communityID string, offset, limit int) ([]model.Payment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.sorted(func(p *model.Payment) bool { return r.inCommunity(p, communityID) }, offset, limit), nil
}

func (r *PaymentRepository) ListByAdmin(_ context.Context, communityID, adminID string, offset, limit int) ([]model.Payment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.sorted(func(p *model.Payment) bool {
		return p.AdminID == adminID && r.inCommunity(p, communityID)
	}, offset, limit), nil
}

// inCommunity must be called with mu held.
func (r *PaymentRepository) inCommunity(p *model.Payment, communityID string) bool {
	m, ok := find(r.s.members, func(m *model.HouseMember) bool { return m.MemberID == p.MemberID })
	if !ok || m.CommunityHouseID == "" {
		return false
	}
	h, ok := find(r.s.houses, func(h *model.CommunityHouse) bool { return h.HouseID == m.CommunityHouseID })
	return ok && h.CommunityID == communityID
}

func (r *PaymentRepository) sorted(keep func(*model.Payment) bool, offset, limit int) []model.Payment {
	list := collect(r.s.payments, keep)
	slices.SortStableFunc(list, func(a, b model.Payment) int {
		if c := a.DueDate.Compare(b.DueDate); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return window(list, offset, limit)
}
