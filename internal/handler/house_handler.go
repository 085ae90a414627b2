package handler

import (
	"net/http"

	"MyHome/internal/service"

	"github.com/gin-gonic/gin"
)

type HouseHandler struct {
	svc *service.HouseService
}

type AddMembersReq struct {
	Members []NamedReq `json:"members" binding:"required,min=1,dive"`
}

func NewHouseHandler(svc *service.HouseService) *HouseHandler {
	return &HouseHandler{svc: svc}
}

func (h *HouseHandler) List(c *gin.Context) {
	page, ok := bindPage(c)
	if !ok {
		return
	}
	houses, err := h.svc.ListAllHouses(c.Request.Context(), page)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"houses": mapAll(houses, toHouseDto)})
}

func (h *HouseHandler) Details(c *gin.Context) {
	house, err := h.svc.GetHouseDetailsById(c.Request.Context(), c.Param("houseId"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toHouseDto(house))
}

func (h *HouseHandler) ListMembers(c *gin.Context) {
	page, ok := bindPage(c)
	if !ok {
		return
	}
	members, err := h.svc.GetHouseMembers(c.Request.Context(), c.Param("houseId"), page)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"members": mapAll(members, toMemberDto)})
}

func (h *HouseHandler) AddMembers(c *gin.Context) {
	var req AddMembersReq
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidParams(c)
		return
	}
	names := make([]string, 0, len(req.Members))
	for _, m := range req.Members {
		names = append(names, m.Name)
	}

	members, err := h.svc.AddHouseMembers(c.Request.Context(), currentUserID(c), c.Param("houseId"), names)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"members": mapAll(members, toMemberDto)})
}

func (h *HouseHandler) DeleteMember(c *gin.Context) {
	err := h.svc.DeleteMemberFromHouse(c.Request.Context(), currentUserID(c), c.Param("houseId"), c.Param("memberId"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
