package handler

import (
	"time"

	"MyHome/internal/model"
)

type UserDto struct {
	UserID         string   `json:"userId"`
	Name           string   `json:"name"`
	Email          string   `json:"email"`
	EmailConfirmed bool     `json:"emailConfirmed"`
	CommunityIDs   []string `json:"communityIds,omitempty"`
}

type CommunityDto struct {
	CommunityID string   `json:"communityId"`
	Name        string   `json:"name"`
	District    string   `json:"district"`
	Admins      []string `json:"admins,omitempty"`
}

type HouseDto struct {
	HouseID     string `json:"houseId"`
	Name        string `json:"name"`
	CommunityID string `json:"communityId"`
}

type MemberDto struct {
	MemberID string `json:"memberId"`
	Name     string `json:"name"`
	HouseID  string `json:"houseId,omitempty"`
}

type AmenityDto struct {
	AmenityID   string  `json:"amenityId"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	CommunityID string  `json:"communityId"`
}

type BookingDto struct {
	BookingID        string    `json:"amenityBookingItemId"`
	AmenityID        string    `json:"amenityId"`
	BookingStartDate time.Time `json:"bookingStartDate"`
	BookingEndDate   time.Time `json:"bookingEndDate"`
	BookedBy         string    `json:"bookedBy"`
}

type PaymentDto struct {
	PaymentID   string    `json:"paymentId"`
	Charge      float64   `json:"charge"`
	Type        string    `json:"type"`
	Description string    `json:"description"`
	Recurring   bool      `json:"recurring"`
	DueDate     time.Time `json:"dueDate"`
	AdminID     string    `json:"adminId"`
	MemberID    string    `json:"memberId"`
}

func toUserDto(u *model.User) UserDto {
	return UserDto{UserID: u.UserID, Name: u.Name, Email: u.Email, EmailConfirmed: u.EmailConfirmed}
}

func toCommunityDto(c *model.Community, admins []string) CommunityDto {
	return CommunityDto{CommunityID: c.CommunityID, Name: c.Name, District: c.District, Admins: admins}
}

func toHouseDto(h *model.CommunityHouse) HouseDto {
	return HouseDto{HouseID: h.HouseID, Name: h.Name, CommunityID: h.CommunityID}
}

func toMemberDto(m *model.HouseMember) MemberDto {
	return MemberDto{MemberID: m.MemberID, Name: m.Name, HouseID: m.CommunityHouseID}
}

func toAmenityDto(a *model.Amenity) AmenityDto {
	return AmenityDto{AmenityID: a.AmenityID, Name: a.Name, Description: a.Description, Price: a.Price, CommunityID: a.CommunityID}
}

func toBookingDto(b *model.AmenityBookingItem) BookingDto {
	return BookingDto{
		BookingID:        b.AmenityBookingItemID,
		AmenityID:        b.AmenityID,
		BookingStartDate: b.BookingStartDate,
		BookingEndDate:   b.BookingEndDate,
		BookedBy:         b.BookedBy,
	}
}

func toPaymentDto(p *model.Payment) PaymentDto {
	return PaymentDto{
		PaymentID:   p.PaymentID,
		Charge:      p.Charge,
		Type:        p.Type,
		Description: p.Description,
		Recurring:   p.Recurring,
		DueDate:     p.DueDate,
		AdminID:     p.AdminID,
		MemberID:    p.MemberID,
	}
}

// mapAll 对切片中每个元素取地址后转换
func mapAll[T, D any](list []T, f func(*T) D) []D {
	out := make([]D, 0, len(list))
	for i := range list {
		out = append(out, f(&list[i]))
	}
	return out
}
