package memory

import (
	"context"
	"slices"

	"MyHome/internal/model"

	"gorm.io/gorm"
)

type CommunityRepository struct{ s *Store }

func (r *CommunityRepository) Create(_ context.Context, c *model.Community, creatorID string) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, dup := find(s.communities, func(x *model.Community) bool { return x.CommunityID == c.CommunityID }); dup {
		return gorm.ErrDuplicatedKey
	}
	c.ID = s.nextID()
	c.CreatedAt = s.now()
	c.UpdatedAt = c.CreatedAt
	row := *c
	s.communities = append(s.communities, &row)
	s.joinAdmins(c.CommunityID, []string{creatorID})
	return nil
}

// joinAdmins must be called with mu held.
func (s *Store) joinAdmins(communityID string, userIDs []string) {
	for _, id := range userIDs {
		if s.isAdmin(communityID, id) {
			continue
		}
		s.admins = append(s.admins, &model.CommunityAdmin{
			ID:          s.nextID(),
			CommunityID: communityID,
			UserID:      id,
			CreatedAt:   s.now(),
		})
	}
}

func (s *Store) isAdmin(communityID, userID string) bool {
	_, ok := find(s.admins, func(a *model.CommunityAdmin) bool {
		return a.CommunityID == communityID && a.UserID == userID
	})
	return ok
}

func (r *CommunityRepository) FindByCommunityID(_ context.Context, communityID string) (*model.Community, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := find(r.s.communities, func(c *model.Community) bool { return c.CommunityID == communityID })
	if !ok {
		return &model.Community{}, gorm.ErrRecordNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *CommunityRepository) List(_ context.Context, offset, limit int) ([]model.Community, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return window(collect(r.s.communities, nil), offset, limit), nil
}

func (r *CommunityRepository) ListAdmins(_ context.Context, communityID string, offset, limit int) ([]model.User, error) {
	s := r.s
	s.mu.RLock()
	defer s.mu.RUnlock()
	var list []model.User
	for _, a := range s.admins {
		if a.CommunityID != communityID {
			continue
		}
		if u, ok := find(s.users, func(u *model.User) bool { return u.UserID == a.UserID }); ok {
			list = append(list, *u)
		}
	}
	return window(list, offset, limit), nil
}

func (r *CommunityRepository) AdminIDs(_ context.Context, communityID string) ([]string, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	ids := make([]string, 0)
	for _, a := range r.s.admins {
		if a.CommunityID == communityID {
			ids = append(ids, a.UserID)
		}
	}
	return ids, nil
}

func (r *CommunityRepository) AddAdmins(_ context.Context, communityID string, userIDs []string) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	existing := make([]string, 0, len(userIDs))
	for _, id := range userIDs {
		if _, ok := find(s.users, func(u *model.User) bool { return u.UserID == id }); ok {
			existing = append(existing, id)
		}
	}
	s.joinAdmins(communityID, existing)
	return nil
}

func (r *CommunityRepository) RemoveAdmin(_ context.Context, communityID, userID string) (bool, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int
	s.admins, n = remove(s.admins, func(a *model.CommunityAdmin) bool {
		return a.CommunityID == communityID && a.UserID == userID
	})
	return n > 0, nil
}

func (r *CommunityRepository) IsAdmin(_ context.Context, communityID, userID string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.isAdmin(communityID, userID), nil
}

func (r *CommunityRepository) CommunityIDsOfAdmin(_ context.Context, userID string) ([]string, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	ids := make([]string, 0)
	for _, a := range r.s.admins {
		if a.UserID == userID {
			ids = append(ids, a.CommunityID)
		}
	}
	return ids, nil
}

func (r *CommunityRepository) Delete(_ context.Context, communityID string) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int
	s.communities, n = remove(s.communities, func(c *model.Community) bool { return c.CommunityID == communityID })
	if n == 0 {
		return gorm.ErrRecordNotFound
	}

	var houseIDs, memberIDs, amenityIDs []string
	for _, h := range s.houses {
		if h.CommunityID == communityID {
			houseIDs = append(houseIDs, h.HouseID)
		}
	}
	for _, m := range s.members {
		if m.CommunityHouseID != "" && slices.Contains(houseIDs, m.CommunityHouseID) {
			memberIDs = append(memberIDs, m.MemberID)
		}
	}
	for _, a := range s.amenities {
		if a.CommunityID == communityID {
			amenityIDs = append(amenityIDs, a.AmenityID)
		}
	}

	s.documents, _ = remove(s.documents, func(d *model.HouseMemberDocument) bool { return slices.Contains(memberIDs, d.MemberID) })
	s.members, _ = remove(s.members, func(m *model.HouseMember) bool { return slices.Contains(memberIDs, m.MemberID) })
	s.bookings, _ = remove(s.bookings, func(b *model.AmenityBookingItem) bool { return slices.Contains(amenityIDs, b.AmenityID) })
	s.amenities, _ = remove(s.amenities, func(a *model.Amenity) bool { return a.CommunityID == communityID })
	s.houses, _ = remove(s.houses, func(h *model.CommunityHouse) bool { return h.CommunityID == communityID })
	s.admins, _ = remove(s.admins, func(a *model.CommunityAdmin) bool { return a.CommunityID == communityID })
	return nil
}

type HouseRepository struct{ s *Store }

func (r *HouseRepository) CreateHouses(_ context.Context, houses []*model.CommunityHouse) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, h := range houses {
		if _, dup := find(s.houses, func(x *model.CommunityHouse) bool { return x.HouseID == h.HouseID }); dup {
			return gorm.ErrDuplicatedKey
		}
	}
	for _, h := range houses {
		h.ID = s.nextID()
		h.CreatedAt = s.now()
		h.UpdatedAt = h.CreatedAt
		row := *h
		s.houses = append(s.houses, &row)
	}
	return nil
}

func (r *HouseRepository) FindByHouseID(_ context.Context, houseID string) (*model.CommunityHouse, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	h, ok := find(r.s.houses, func(h *model.CommunityHouse) bool { return h.HouseID == houseID })
	if !ok {
		return &model.CommunityHouse{}, gorm.ErrRecordNotFound
	}
	cp := *h
	return &cp, nil
}

func (r *HouseRepository) List(_ context.Context, offset, limit int) ([]model.CommunityHouse, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return window(collect(r.s.houses, nil), offset, limit), nil
}

func (r *HouseRepository) ListByCommunity(_ context.Context, communityID string, offset, limit int) ([]model.CommunityHouse, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	list := collect(r.s.houses, func(h *model.CommunityHouse) bool { return h.CommunityID == communityID })
	return window(list, offset, limit), nil
}

func (r *HouseRepository) ListByAdmin(_ context.Context, userID string, offset, limit int) ([]model.CommunityHouse, error) {
	s := r.s
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := collect(s.houses, func(h *model.CommunityHouse) bool { return s.isAdmin(h.CommunityID, userID) })
	return window(list, offset, limit), nil
}

func (r *HouseRepository) DeleteFromCommunity(_ context.Context, communityID, houseID string) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int
	s.houses, n = remove(s.houses, func(h *model.CommunityHouse) bool {
		return h.CommunityID == communityID && h.HouseID == houseID
	})
	if n == 0 {
		return gorm.ErrRecordNotFound
	}
	for _, m := range s.members {
		if m.CommunityHouseID == houseID {
			m.CommunityHouseID = ""
		}
	}
	for _, a := range s.amenities {
		if a.CommunityHouseID == houseID {
			a.CommunityHouseID = ""
		}
	}
	return nil
}

type MemberRepository struct{ s *Store }

func (r *MemberRepository) CreateMembers(_ context.Context, members []*model.HouseMember) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range members {
		if _, dup := find(s.members, func(x *model.HouseMember) bool { return x.MemberID == m.MemberID }); dup {
			return gorm.ErrDuplicatedKey
		}
	}
	for _, m := range members {
		m.ID = s.nextID()
		m.CreatedAt = s.now()
		m.UpdatedAt = m.CreatedAt
		row := *m
		s.members = append(s.members, &row)
	}
	return nil
}

func (r *MemberRepository) FindByMemberID(_ context.Context, memberID string) (*model.HouseMember, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	m, ok := find(r.s.members, func(m *model.HouseMember) bool { return m.MemberID == memberID })
	if !ok {
		return &model.HouseMember{}, gorm.ErrRecordNotFound
	}
	cp := *m
	return &cp, nil
}

func (r *MemberRepository) ListByHouse(_ context.Context, houseID string, offset, limit int) ([]model.HouseMember, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	list := collect(r.s.members, func(m *model.HouseMember) bool { return m.CommunityHouseID == houseID })
	return window(list, offset, limit), nil
}

func (r *MemberRepository) ListByAdmin(_ context.Context, userID string, offset, limit int) ([]model.HouseMember, error) {
	s := r.s
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := collect(s.members, func(m *model.HouseMember) bool {
		h, ok := find(s.houses, func(h *model.CommunityHouse) bool { return h.HouseID == m.CommunityHouseID })
		return ok && s.isAdmin(h.CommunityID, userID)
	})
	return window(list, offset, limit), nil
}

func (r *MemberRepository) DeleteFromHouse(_ context.Context, houseID, memberID string) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int
	s.members, n = remove(s.members, func(m *model.HouseMember) bool {
		return m.CommunityHouseID == houseID && m.MemberID == memberID
	})
	if n == 0 {
		return gorm.ErrRecordNotFound
	}
	s.documents, _ = remove(s.documents, func(d *model.HouseMemberDocument) bool { return d.MemberID == memberID })
	return nil
}

type DocumentRepository struct{ s *Store }

func (r *DocumentRepository) FindByMemberID(_ context.Context, memberID string) (*model.HouseMemberDocument, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	d, ok := find(r.s.documents, func(d *model.HouseMemberDocument) bool { return d.MemberID == memberID })
	if !ok {
		return &model.HouseMemberDocument{}, gorm.ErrRecordNotFound
	}
	cp := *d
	return &cp, nil
}

func (r *DocumentRepository) Create(_ context.Context, doc *model.HouseMemberDocument) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.insert(doc)
}

func (r *DocumentRepository) Upsert(_ context.Context, doc *model.HouseMemberDocument) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if d, ok := find(s.documents, func(d *model.HouseMemberDocument) bool { return d.MemberID == doc.MemberID }); ok {
		d.DocumentFilename = doc.DocumentFilename
		d.DocumentContent = doc.DocumentContent
		d.UpdatedAt = s.now()
		return nil
	}
	return r.insert(doc)
}

// insert must be called with mu held.
func (r *DocumentRepository) insert(doc *model.HouseMemberDocument) error {
	s := r.s
	if _, dup := find(s.documents, func(d *model.HouseMemberDocument) bool {
		return d.MemberID == doc.MemberID || d.DocumentFilename == doc.DocumentFilename
	}); dup {
		return gorm.ErrDuplicatedKey
	}
	doc.ID = s.nextID()
	doc.CreatedAt = s.now()
	doc.UpdatedAt = doc.CreatedAt
	row := *doc
	s.documents = append(s.documents, &row)
	return nil
}

func (r *DocumentRepository) DeleteByMemberID(_ context.Context, memberID string) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int
	s.documents, n = remove(s.documents, func(d *model.HouseMemberDocument) bool { return d.MemberID == memberID })
	if n == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
