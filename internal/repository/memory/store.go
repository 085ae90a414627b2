// Package memory keeps every MyHome table in process. It mirrors the error
// behaviour of the mysql repositories (gorm.ErrRecordNotFound,
// gorm.ErrDuplicatedKey, repository.ErrBookingOverlap) and is used for local
// runs and tests.
package memory

import (
	"sync"
	"time"

	"MyHome/internal/model"
)

type session struct {
	token   string
	expires time.Time
}

// Store holds all rows behind one lock. Rows are kept in insertion order,
// which matches ordering by auto-increment id in MySQL.
type Store struct {
	mu  sync.RWMutex
	seq uint64
	now func() time.Time

	users       []*model.User
	communities []*model.Community
	admins      []*model.CommunityAdmin
	houses      []*model.CommunityHouse
	members     []*model.HouseMember
	documents   []*model.HouseMemberDocument
	amenities   []*model.Amenity
	bookings    []*model.AmenityBookingItem
	payments    []*model.Payment
	tokens      []*model.SecurityToken
	outbox      []*model.EventOutbox
	sessions    map[string]session
}

func New() *Store {
	return &Store{
		now:      time.Now,
		sessions: make(map[string]session),
	}
}

// SetClock replaces the time source used for timestamps and session expiry.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

func (s *Store) Users() *UserRepository                   { return &UserRepository{s} }
func (s *Store) Communities() *CommunityRepository         { return &CommunityRepository{s} }
func (s *Store) Houses() *HouseRepository                 { return &HouseRepository{s} }
func (s *Store) Members() *MemberRepository               { return &MemberRepository{s} }
func (s *Store) Documents() *DocumentRepository           { return &DocumentRepository{s} }
func (s *Store) Amenities() *AmenityRepository            { return &AmenityRepository{s} }
func (s *Store) Bookings() *BookingRepository             { return &BookingRepository{s} }
func (s *Store) Payments() *PaymentRepository             { return &PaymentRepository{s} }
func (s *Store) SecurityTokens() *SecurityTokenRepository { return &SecurityTokenRepository{s} }
func (s *Store) Sessions() *SessionRepository             { return &SessionRepository{s} }
func (s *Store) Outbox() *OutboxRepository                { return &OutboxRepository{s} }

// nextID must be called with mu held.
func (s *Store) nextID() uint64 {
	s.seq++
	return s.seq
}

// addEvent must be called with mu held.
func (s *Store) addEvent(eventType, aggregateID string, data map[string]any) error {
	ev, err := model.NewEvent(eventType, aggregateID, data)
	if err != nil {
		return err
	}
	ev.ID = s.nextID()
	ev.CreatedAt = s.now()
	ev.UpdatedAt = ev.CreatedAt
	s.outbox = append(s.outbox, ev)
	return nil
}

// collect copies the rows accepted by keep.
func collect[T any](rows []*T, keep func(*T) bool) []T {
	out := make([]T, 0)
	for _, r := range rows {
		if keep == nil || keep(r) {
			out = append(out, *r)
		}
	}
	return out
}

// window applies offset/limit the way SQL does.
func window[T any](list []T, offset, limit int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(list) {
		return []T{}
	}
	list = list[offset:]
	if limit >= 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}

// find returns the first row accepted by match.
func find[T any](rows []*T, match func(*T) bool) (*T, bool) {
	for _, r := range rows {
		if match(r) {
			return r, true
		}
	}
	return nil, false
}

// remove drops the rows accepted by match and reports how many were removed.
func remove[T any](rows []*T, match func(*T) bool) ([]*T, int) {
	kept := rows[:0]
	n := 0
	for _, r := range rows {
		if match(r) {
			n++
			continue
		}
		kept = append(kept, r)
	}
	for i := len(kept); i < len(rows); i++ {
		rows[i] = nil
	}
	return kept, n
}
