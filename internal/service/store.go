package service

import (
	"context"
	"time"

	"MyHome/internal/model"
)

// 仓储接口，mysql 和 memory 两套实现

type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	FindByUserID(ctx context.Context, userID string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	List(ctx context.Context, offset, limit int) ([]model.User, error)
	UpdatePassword(ctx context.Context, userID, encryptedPassword string) error
	ConfirmEmail(ctx context.Context, userID string) error
}

type CommunityStore interface {
	Create(ctx context.Context, c *model.Community, creatorID string) error
	FindByCommunityID(ctx context.Context, communityID string) (*model.Community, error)
	List(ctx context.Context, offset, limit int) ([]model.Community, error)
	ListAdmins(ctx context.Context, communityID string, offset, limit int) ([]model.User, error)
	AdminIDs(ctx context.Context, communityID string) ([]string, error)
	AddAdmins(ctx context.Context, communityID string, userIDs []string) error
	RemoveAdmin(ctx context.Context, communityID, userID string) (bool, error)
	IsAdmin(ctx context.Context, communityID, userID string) (bool, error)
	CommunityIDsOfAdmin(ctx context.Context, userID string) ([]string, error)
	Delete(ctx context.Context, communityID string) error
}

type HouseStore interface {
	CreateHouses(ctx context.Context, houses []*model.CommunityHouse) error
	FindByHouseID(ctx context.Context, houseID string) (*model.CommunityHouse, error)
	List(ctx context.Context, offset, limit int) ([]model.CommunityHouse, error)
	ListByCommunity(ctx context.Context, communityID string, offset, limit int) ([]model.CommunityHouse, error)
	ListByAdmin(ctx context.Context, userID string, offset, limit int) ([]model.CommunityHouse, error)
	DeleteFromCommunity(ctx context.Context, communityID, houseID string) error
}

type MemberStore interface {
	CreateMembers(ctx context.Context, members []*model.HouseMember) error
	FindByMemberID(ctx context.Context, memberID string) (*model.HouseMember, error)
	ListByHouse(ctx context.Context, houseID string, offset, limit int) ([]model.HouseMember, error)
	ListByAdmin(ctx context.Context, userID string, offset, limit int) ([]model.HouseMember, error)
	DeleteFromHouse(ctx context.Context, houseID, memberID string) error
}

type DocumentStore interface {
	FindByMemberID(ctx context.Context, memberID string) (*model.HouseMemberDocument, error)
	Create(ctx context.Context, doc *model.HouseMemberDocument) error
	Upsert(ctx context.Context, doc *model.HouseMemberDocument) error
	DeleteByMemberID(ctx context.Context, memberID string) error
}

type AmenityStore interface {
	CreateAll(ctx context.Context, amenities []*model.Amenity) error
	FindByAmenityID(ctx context.Context, amenityID string) (*model.Amenity, error)
	ListByCommunity(ctx context.Context, communityID string) ([]model.Amenity, error)
	Update(ctx context.Context, amenity *model.Amenity) error
	Delete(ctx context.Context, amenityID string) error
}

type BookingStore interface {
	Create(ctx context.Context, b *model.AmenityBookingItem) error
	FindByBookingID(ctx context.Context, amenityID, bookingID string) (*model.AmenityBookingItem, error)
	ListByAmenity(ctx context.Context, amenityID string, offset, limit int) ([]model.AmenityBookingItem, error)
	Delete(ctx context.Context, amenityID, bookingID string) error
}

type PaymentStore interface {
	Create(ctx context.Context, p *model.Payment) error
	FindByPaymentID(ctx context.Context, paymentID string) (*model.Payment, error)
	ListByMember(ctx context.Context, memberID string, offset, limit int) ([]model.Payment, error)
	ListByCommunity(ctx context.Context, communityID string, offset, limit int) ([]model.Payment, error)
	ListByAdmin(ctx context.Context, communityID, adminID string, offset, limit int) ([]model.Payment, error)
}

type TokenStore interface {
	Create(ctx context.Context, t *model.SecurityToken) error
	FindByToken(ctx context.Context, token string) (*model.SecurityToken, error)
	MarkUsed(ctx context.Context, token string) error
	DeleteStale(ctx context.Context, now time.Time) (int64, error)
}

// SessionStore 每个用户当前有效的访问令牌
type SessionStore interface {
	Save(ctx context.Context, userID, token string, ttl time.Duration) error
	Get(ctx context.Context, userID string) (string, error)
	Delete(ctx context.Context, userID string) error
}

type OutboxStore interface {
	List(ctx context.Context, batchSize int) ([]model.EventOutbox, error)
	RetryUpdate(ctx context.Context, id uint64) error
	MarkFailed(ctx context.Context, id uint64) error
	SuccessUpdate(ctx context.Context, id uint64) error
}

// Stores 汇总所有仓储，由 main 按配置组装
type Stores struct {
	Users       UserStore
	Communities CommunityStore
	Houses      HouseStore
	Members     MemberStore
	Documents   DocumentStore
	Amenities   AmenityStore
	Bookings    BookingStore
	Payments    PaymentStore
	Tokens      TokenStore
	Sessions    SessionStore
	Outbox      OutboxStore
}
