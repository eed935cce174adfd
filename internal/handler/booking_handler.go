package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/omegaopinmthechat/highwaydelite/internal/model"
	"github.com/omegaopinmthechat/highwaydelite/internal/service"
	apperrors "github.com/omegaopinmthechat/highwaydelite/pkg/app_errors"
	"github.com/omegaopinmthechat/highwaydelite/pkg/logger"
	"go.uber.org/zap"
)

type BookingHandler struct {
	service service.BookingService
}

func NewBookingHandler(service service.BookingService) *BookingHandler {
	return &BookingHandler{service: service}
}

func (h *BookingHandler) RegisterRoutes(r *gin.Engine) {
	router := r.Group("/api/v1")
	{
		router.GET("bookings", h.GetBookings)
		router.GET("bookings/:uuid", h.GetBooking)
		router.POST("bookings", h.CreateBooking)
		router.PUT("bookings/:uuid/cancel", h.CancelBooking)
		router.PUT("bookings/:uuid/complete", h.CompleteBooking)
	}
}

func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var bookingReq model.CreateBookingRequest

	if err := BindJson(c, &bookingReq); err != nil {
		return
	}

	created, err := h.service.CreateBooking(c, bookingReq)
	if err != nil {
		h.handleBookingError(c, err, "CreateBooking")
		return
	}

	c.JSON(http.StatusCreated, created)
}

func (h *BookingHandler) GetBooking(c *gin.Context) {
	bookingID, err := uuid.Parse(c.Param("uuid"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid booking uuid"})
		return
	}
	booking, err := h.service.GetBookingByID(c, bookingID)
	if err != nil {
		h.handleBookingError(c, err, "GetBooking")
		return
	}

	c.JSON(http.StatusOK, booking)
}

func (h *BookingHandler) GetBookings(c *gin.Context) {
	bookings, err := h.service.ListBookings(c)
	if err != nil {
		h.handleBookingError(c, err, "GetBookings")
		return
	}

	c.JSON(http.StatusOK, bookings)
}

func (h *BookingHandler) CancelBooking(c *gin.Context) {
	bookingID, err := uuid.Parse(c.Param("uuid"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid booking uuid"})
		return
	}
	booking, err := h.service.CancelBooking(c, bookingID)
	if err != nil {
		h.handleBookingError(c, err, "CancelBooking")
		return
	}

	c.JSON(http.StatusOK, booking)
}

func (h *BookingHandler) CompleteBooking(c *gin.Context) {
	bookingID, err := uuid.Parse(c.Param("uuid"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid booking uuid"})
		return
	}
	booking, err := h.service.CompleteBooking(c, bookingID)
	if err != nil {
		h.handleBookingError(c, err, "CompleteBooking")
		return
	}

	c.JSON(http.StatusOK, booking)
}

func (h *BookingHandler) handleBookingError(c *gin.Context, err error, operation string) {
	log := logger.WithComponent("handler").With(zap.String("operation", operation), zap.Error(err))
	switch {
	case errors.Is(err, apperrors.ErrInsufficientAvailability):
		log.Warn("Insufficient availability")
		c.JSON(http.StatusConflict, gin.H{
			"error": "Not enough availability for this time slot",
		})
	case errors.Is(err, apperrors.ErrExperienceNotFound):
		log.Warn("Experience not found")
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Experience not found",
		})
	case errors.Is(err, apperrors.ErrTimeSlotNotFound):
		log.Warn("Time slot not found")
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Time slot not found",
		})
	case errors.Is(err, apperrors.ErrBookingNotFound):
		log.Warn("Booking not found")
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Booking not found",
		})
	case errors.Is(err, apperrors.ErrInvalidStatusTransition):
		log.Warn("Invalid status transition")
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid status transition",
		})
	default:
		log.Error("Unexpected error")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
	}
}
