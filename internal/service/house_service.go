package service

import (
	"context"
	"strings"

	"MyHome/internal/model"
	"MyHome/internal/pkg"

	"github.com/google/uuid"
)

type HouseService struct {
	houses      HouseStore
	members     MemberStore
	users       UserStore
	communities CommunityStore
}

func NewHouseService(st Stores) *HouseService {
	return &HouseService{houses: st.Houses, members: st.Members, users: st.Users, communities: st.Communities}
}

func (s *HouseService) ListAllHouses(ctx context.Context, page pkg.Page) ([]model.CommunityHouse, error) {
	return s.houses.List(ctx, page.Offset(), page.Limit())
}

func (s *HouseService) GetHouseDetailsById(ctx context.Context, houseID string) (*model.CommunityHouse, error) {
	h, err := s.houses.FindByHouseID(ctx, houseID)
	if err != nil {
		return nil, storeErr(err, "house")
	}
	return h, nil
}

func (s *HouseService) GetHouseMembers(ctx context.Context, houseID string, page pkg.Page) ([]model.HouseMember, error) {
	if _, err := s.houses.FindByHouseID(ctx, houseID); err != nil {
		return nil, storeErr(err, "house")
	}
	return s.members.ListByHouse(ctx, houseID, page.Offset(), page.Limit())
}

// AddHouseMembers 只有房屋所在社区的管理员可以添加住户
func (s *HouseService) AddHouseMembers(ctx context.Context, actorID, houseID string, names []string) ([]model.HouseMember, error) {
	h, err := s.houses.FindByHouseID(ctx, houseID)
	if err != nil {
		return nil, storeErr(err, "house")
	}
	if err := requireAdmin(ctx, s.communities, h.CommunityID, actorID); err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return nil, badRequest("members are required")
	}

	members := make([]*model.HouseMember, 0, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			return nil, badRequest("member name is required")
		}
		members = append(members, &model.HouseMember{MemberID: uuid.NewString(), Name: n, CommunityHouseID: houseID})
	}
	if err := s.members.CreateMembers(ctx, members); err != nil {
		return nil, storeErr(err, "member")
	}
	out := make([]model.HouseMember, 0, len(members))
	for _, m := range members {
		out = append(out, *m)
	}
	return out, nil
}

func (s *HouseService) DeleteMemberFromHouse(ctx context.Context, actorID, houseID, memberID string) error {
	h, err := s.houses.FindByHouseID(ctx, houseID)
	if err != nil {
		return storeErr(err, "house")
	}
	if err := requireAdmin(ctx, s.communities, h.CommunityID, actorID); err != nil {
		return err
	}
	return storeErr(s.members.DeleteFromHouse(ctx, houseID, memberID), "member")
}

// ListUserHouses 用户所管理社区的全部房屋
func (s *HouseService) ListUserHouses(ctx context.Context, userID string, page pkg.Page) ([]model.CommunityHouse, error) {
	if _, err := s.users.FindByUserID(ctx, userID); err != nil {
		return nil, storeErr(err, "user")
	}
	return s.houses.ListByAdmin(ctx, userID, page.Offset(), page.Limit())
}

func (s *HouseService) ListHouseMembersForHousesOfUser(ctx context.Context, userID string, page pkg.Page) ([]model.HouseMember, error) {
	if _, err := s.users.FindByUserID(ctx, userID); err != nil {
		return nil, storeErr(err, "user")
	}
	return s.members.ListByAdmin(ctx, userID, page.Offset(), page.Limit())
}
