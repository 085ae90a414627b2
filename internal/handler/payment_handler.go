package handler

import (
	"net/http"
	"time"

	"MyHome/internal/service"

	"github.com/gin-gonic/gin"
)

type PaymentHandler struct {
	svc *service.PaymentService
}

type SchedulePaymentReq struct {
	MemberID    string    `json:"memberId" binding:"required"`
	AdminID     string    `json:"adminId" binding:"required"`
	Charge      float64   `json:"charge"`
	Type        string    `json:"type" binding:"required"`
	Description string    `json:"description"`
	Recurring   bool      `json:"recurring"`
	DueDate     time.Time `json:"dueDate" binding:"required"`
}

func NewPaymentHandler(svc *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{svc: svc}
}

func (h *PaymentHandler) Schedule(c *gin.Context) {
	var req SchedulePaymentReq
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidParams(c)
		return
	}

	p, err := h.svc.SchedulePayment(c.Request.Context(), currentUserID(c), service.PaymentInput{
		MemberID:    req.MemberID,
		AdminID:     req.AdminID,
		Charge:      req.Charge,
		Type:        req.Type,
		Description: req.Description,
		Recurring:   req.Recurring,
		DueDate:     req.DueDate,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toPaymentDto(p))
}

func (h *PaymentHandler) Details(c *gin.Context) {
	p, err := h.svc.GetPaymentDetails(c.Request.Context(), c.Param("paymentId"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toPaymentDto(p))
}

func (h *PaymentHandler) ListByMember(c *gin.Context) {
	page, ok := bindPage(c)
	if !ok {
		return
	}
	list, err := h.svc.ListMemberPayments(c.Request.Context(), c.Param("memberId"), page)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payments": mapAll(list, toPaymentDto)})
}

func (h *PaymentHandler) ListByAdmin(c *gin.Context) {
	page, ok := bindPage(c)
	if !ok {
		return
	}
	list, err := h.svc.ListAdminPayments(c.Request.Context(), c.Param("communityId"), c.Param("adminId"), page)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payments": mapAll(list, toPaymentDto)})
}

func (h *PaymentHandler) ListByCommunity(c *gin.Context) {
	page, ok := bindPage(c)
	if !ok {
		return
	}
	list, err := h.svc.ListCommunityPayments(c.Request.Context(), c.Param("communityId"), page)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payments": mapAll(list, toPaymentDto)})
}
