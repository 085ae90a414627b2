package handler

import (
	"net/http"
	"time"

	"MyHome/internal/service"

	"github.com/gin-gonic/gin"
)

type AmenityHandler struct {
	amenities *service.AmenityService
	bookings  *service.BookingService
}

type AmenityReq struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
}

func (r AmenityReq) input() service.AmenityInput {
	return service.AmenityInput{Name: r.Name, Description: r.Description, Price: r.Price}
}

type CreateAmenitiesReq struct {
	Amenities []AmenityReq `json:"amenities" binding:"required,min=1,dive"`
}

type BookingReq struct {
	BookingStartDate time.Time `json:"bookingStartDate" binding:"required"`
	BookingEndDate   time.Time `json:"bookingEndDate" binding:"required"`
}

func NewAmenityHandler(amenities *service.AmenityService, bookings *service.BookingService) *AmenityHandler {
	return &AmenityHandler{amenities: amenities, bookings: bookings}
}

func (h *AmenityHandler) ListByCommunity(c *gin.Context) {
	list, err := h.amenities.ListAllAmenities(c.Request.Context(), c.Param("communityId"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"amenities": mapAll(list, toAmenityDto)})
}

func (h *AmenityHandler) Create(c *gin.Context) {
	var req CreateAmenitiesReq
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidParams(c)
		return
	}
	inputs := make([]service.AmenityInput, 0, len(req.Amenities))
	for _, a := range req.Amenities {
		inputs = append(inputs, a.input())
	}

	list, err := h.amenities.CreateAmenities(c.Request.Context(), currentUserID(c), c.Param("communityId"), inputs)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"amenities": mapAll(list, toAmenityDto)})
}

func (h *AmenityHandler) Details(c *gin.Context) {
	a, err := h.amenities.GetAmenityDetails(c.Request.Context(), c.Param("amenityId"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toAmenityDto(a))
}

func (h *AmenityHandler) Update(c *gin.Context) {
	var req AmenityReq
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidParams(c)
		return
	}
	a, err := h.amenities.UpdateAmenity(c.Request.Context(), currentUserID(c), c.Param("amenityId"), req.input())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toAmenityDto(a))
}

func (h *AmenityHandler) Delete(c *gin.Context) {
	if err := h.amenities.DeleteAmenity(c.Request.Context(), currentUserID(c), c.Param("amenityId")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Book 预约人为当前登录用户
func (h *AmenityHandler) Book(c *gin.Context) {
	var req BookingReq
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidParams(c)
		return
	}
	b, err := h.bookings.BookAmenity(c.Request.Context(), c.Param("amenityId"), currentUserID(c), req.BookingStartDate, req.BookingEndDate)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toBookingDto(b))
}

func (h *AmenityHandler) ListBookings(c *gin.Context) {
	page, ok := bindPage(c)
	if !ok {
		return
	}
	list, err := h.bookings.ListAmenityBookings(c.Request.Context(), c.Param("amenityId"), page)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": mapAll(list, toBookingDto)})
}

func (h *AmenityHandler) DeleteBooking(c *gin.Context) {
	err := h.bookings.DeleteBooking(c.Request.Context(), currentUserID(c), c.Param("amenityId"), c.Param("bookingId"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
