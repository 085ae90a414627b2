package handler

import (
	"net/http"

	"MyHome/internal/service"

	"github.com/gin-gonic/gin"
)

type CommunityHandler struct {
	svc *service.CommunityService
}

type CommunityCreateReq struct {
	Name     string `json:"name" binding:"required"`
	District string `json:"district" binding:"required"`
}

type AddAdminsReq struct {
	Admins []string `json:"admins" binding:"required,min=1"`
}

type NamedReq struct {
	Name string `json:"name" binding:"required"`
}

type AddHousesReq struct {
	Houses []NamedReq `json:"houses" binding:"required,min=1,dive"`
}

func NewCommunityHandler(svc *service.CommunityService) *CommunityHandler {
	return &CommunityHandler{svc: svc}
}

func (h *CommunityHandler) Create(c *gin.Context) {
	var req CommunityCreateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidParams(c)
		return
	}

	d, err := h.svc.CreateCommunity(c.Request.Context(), currentUserID(c), req.Name, req.District)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toCommunityDto(d.Community, d.AdminIDs))
}

func (h *CommunityHandler) List(c *gin.Context) {
	page, ok := bindPage(c)
	if !ok {
		return
	}
	list, err := h.svc.ListAll(c.Request.Context(), page)
	if err != nil {
		writeError(c, err)
		return
	}
	out := make([]CommunityDto, 0, len(list))
	for i := range list {
		out = append(out, toCommunityDto(&list[i], nil))
	}
	c.JSON(http.StatusOK, gin.H{"communities": out})
}

func (h *CommunityHandler) Details(c *gin.Context) {
	d, err := h.svc.GetCommunityDetails(c.Request.Context(), c.Param("communityId"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCommunityDto(d.Community, d.AdminIDs))
}

func (h *CommunityHandler) Delete(c *gin.Context) {
	if err := h.svc.DeleteCommunity(c.Request.Context(), currentUserID(c), c.Param("communityId")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CommunityHandler) ListAdmins(c *gin.Context) {
	page, ok := bindPage(c)
	if !ok {
		return
	}
	admins, err := h.svc.ListCommunityAdmins(c.Request.Context(), c.Param("communityId"), page)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"admins": mapAll(admins, toUserDto)})
}

func (h *CommunityHandler) AddAdmins(c *gin.Context) {
	var req AddAdminsReq
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidParams(c)
		return
	}
	ids, err := h.svc.AddAdminsToCommunity(c.Request.Context(), c.Param("communityId"), req.Admins)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"admins": ids})
}

func (h *CommunityHandler) RemoveAdmin(c *gin.Context) {
	if err := h.svc.RemoveAdminFromCommunity(c.Request.Context(), c.Param("communityId"), c.Param("adminId")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CommunityHandler) ListHouses(c *gin.Context) {
	page, ok := bindPage(c)
	if !ok {
		return
	}
	houses, err := h.svc.ListCommunityHouses(c.Request.Context(), c.Param("communityId"), page)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"houses": mapAll(houses, toHouseDto)})
}

// AddHouses 返回新建房屋的 id
func (h *CommunityHandler) AddHouses(c *gin.Context) {
	var req AddHousesReq
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidParams(c)
		return
	}
	names := make([]string, 0, len(req.Houses))
	for _, r := range req.Houses {
		names = append(names, r.Name)
	}

	houses, err := h.svc.AddHousesToCommunity(c.Request.Context(), currentUserID(c), c.Param("communityId"), names)
	if err != nil {
		writeError(c, err)
		return
	}
	ids := make([]string, 0, len(houses))
	for _, house := range houses {
		ids = append(ids, house.HouseID)
	}
	c.JSON(http.StatusCreated, gin.H{"houses": ids})
}

func (h *CommunityHandler) RemoveHouse(c *gin.Context) {
	err := h.svc.RemoveHouseFromCommunityByHouseId(c.Request.Context(), currentUserID(c), c.Param("communityId"), c.Param("houseId"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
