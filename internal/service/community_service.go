package service

import (
	"context"
	"fmt"
	"strings"

	"MyHome/internal/model"
	"MyHome/internal/pkg"

	"github.com/google/uuid"
)

type CommunityService struct {
	communities CommunityStore
	houses      HouseStore
}

func NewCommunityService(st Stores) *CommunityService {
	return &CommunityService{communities: st.Communities, houses: st.Houses}
}

// CommunityDetails 社区及其管理员 id
type CommunityDetails struct {
	Community *model.Community
	AdminIDs  []string
}

// requireAdmin 社区不存在返回 404，不是管理员返回 403
func requireAdmin(ctx context.Context, communities CommunityStore, communityID, userID string) error {
	if _, err := communities.FindByCommunityID(ctx, communityID); err != nil {
		return storeErr(err, "community")
	}
	ok, err := communities.IsAdmin(ctx, communityID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: not an admin of community %s", ErrForbidden, communityID)
	}
	return nil
}

// CreateCommunity 创建者成为第一个管理员
func (s *CommunityService) CreateCommunity(ctx context.Context, creatorID, name, district string) (*CommunityDetails, error) {
	name, district = strings.TrimSpace(name), strings.TrimSpace(district)
	if name == "" || district == "" {
		return nil, badRequest("name and district are required")
	}
	c := &model.Community{
		CommunityID: uuid.NewString(),
		Name:        name,
		District:    district,
	}
	if err := s.communities.Create(ctx, c, creatorID); err != nil {
		return nil, storeErr(err, "community")
	}
	return &CommunityDetails{Community: c, AdminIDs: []string{creatorID}}, nil
}

func (s *CommunityService) ListAll(ctx context.Context, page pkg.Page) ([]model.Community, error) {
	return s.communities.List(ctx, page.Offset(), page.Limit())
}

func (s *CommunityService) GetCommunityDetails(ctx context.Context, communityID string) (*CommunityDetails, error) {
	c, err := s.communities.FindByCommunityID(ctx, communityID)
	if err != nil {
		return nil, storeErr(err, "community")
	}
	ids, err := s.communities.AdminIDs(ctx, communityID)
	if err != nil {
		return nil, err
	}
	return &CommunityDetails{Community: c, AdminIDs: ids}, nil
}

// IsAdmin 供管理员过滤器使用
func (s *CommunityService) IsAdmin(ctx context.Context, communityID, userID string) (bool, error) {
	return s.communities.IsAdmin(ctx, communityID, userID)
}

func (s *CommunityService) ListCommunityAdmins(ctx context.Context, communityID string, page pkg.Page) ([]model.User, error) {
	if _, err := s.communities.FindByCommunityID(ctx, communityID); err != nil {
		return nil, storeErr(err, "community")
	}
	return s.communities.ListAdmins(ctx, communityID, page.Offset(), page.Limit())
}

// AddAdminsToCommunity 返回社区当前全部管理员 id，未知用户忽略
func (s *CommunityService) AddAdminsToCommunity(ctx context.Context, communityID string, adminIDs []string) ([]string, error) {
	if len(adminIDs) == 0 {
		return nil, badRequest("admins are required")
	}
	if _, err := s.communities.FindByCommunityID(ctx, communityID); err != nil {
		return nil, storeErr(err, "community")
	}
	if err := s.communities.AddAdmins(ctx, communityID, adminIDs); err != nil {
		return nil, err
	}
	return s.communities.AdminIDs(ctx, communityID)
}

func (s *CommunityService) RemoveAdminFromCommunity(ctx context.Context, communityID, adminID string) error {
	if _, err := s.communities.FindByCommunityID(ctx, communityID); err != nil {
		return storeErr(err, "community")
	}
	removed, err := s.communities.RemoveAdmin(ctx, communityID, adminID)
	if err != nil {
		return err
	}
	if !removed {
		return fmt.Errorf("admin %w", ErrNotFound)
	}
	return nil
}

func (s *CommunityService) ListCommunityHouses(ctx context.Context, communityID string, page pkg.Page) ([]model.CommunityHouse, error) {
	if _, err := s.communities.FindByCommunityID(ctx, communityID); err != nil {
		return nil, storeErr(err, "community")
	}
	return s.houses.ListByCommunity(ctx, communityID, page.Offset(), page.Limit())
}

// AddHousesToCommunity 只有社区管理员可以添加房屋
func (s *CommunityService) AddHousesToCommunity(ctx context.Context, actorID, communityID string, names []string) ([]model.CommunityHouse, error) {
	if err := requireAdmin(ctx, s.communities, communityID, actorID); err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return nil, badRequest("houses are required")
	}
	houses := make([]*model.CommunityHouse, 0, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			return nil, badRequest("house name is required")
		}
		houses = append(houses, &model.CommunityHouse{HouseID: uuid.NewString(), Name: n, CommunityID: communityID})
	}
	if err := s.houses.CreateHouses(ctx, houses); err != nil {
		return nil, storeErr(err, "house")
	}
	out := make([]model.CommunityHouse, 0, len(houses))
	for _, h := range houses {
		out = append(out, *h)
	}
	return out, nil
}

// RemoveHouseFromCommunityByHouseId 房屋删除后住户解除关联
func (s *CommunityService) RemoveHouseFromCommunityByHouseId(ctx context.Context, actorID, communityID, houseID string) error {
	if err := requireAdmin(ctx, s.communities, communityID, actorID); err != nil {
		return err
	}
	return storeErr(s.houses.DeleteFromCommunity(ctx, communityID, houseID), "house")
}

func (s *CommunityService) DeleteCommunity(ctx context.Context, actorID, communityID string) error {
	if err := requireAdmin(ctx, s.communities, communityID, actorID); err != nil {
		return err
	}
	return storeErr(s.communities.Delete(ctx, communityID), "community")
}
