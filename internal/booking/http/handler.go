package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/padelpoint/booking-backend/internal/auth"
	"github.com/padelpoint/booking-backend/internal/booking"
	"github.com/padelpoint/booking-backend/internal/pkg/response"
)

type Handler struct {
	service booking.Service
	logger  zerolog.Logger
}

func NewHandler(service booking.Service, logger zerolog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// ListSlots returns the full slot catalog for a court and date, each slot
// annotated available or not.
func (h *Handler) ListSlots(c *gin.Context) {
	courtID := c.Query("courtId")
	date := c.Query("date")

	slots, err := h.service.Availability(c.Request.Context(), courtID, date)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, slots)
}

func (h *Handler) Create(c *gin.Context) {
	var body CreateBookingBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	b, err := h.service.Create(c.Request.Context(), body.toRequest())
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewBookingResponse(b))
}

// Get looks up a single booking by id or a customer's history by email,
// newest first.
func (h *Handler) Get(c *gin.Context) {
	if id := c.Query("id"); id != "" {
		if _, err := uuid.Parse(id); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking id"})
			return
		}

		b, err := h.service.GetByID(c.Request.Context(), id)
		if err != nil {
			response.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, NewBookingResponse(b))
		return
	}

	if email := c.Query("email"); email != "" {
		bookings, err := h.service.ListByEmail(c.Request.Context(), email)
		if err != nil {
			response.Error(c, err)
			return
		}

		items := make([]BookingResponse, len(bookings))
		for i, b := range bookings {
			items[i] = NewBookingResponse(b)
		}
		c.JSON(http.StatusOK, items)
		return
	}

	response.Error(c, booking.ErrMissingIDOrEmail)
}

// AdminList returns all bookings, newest first, paginated.
func (h *Handler) AdminList(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", strconv.Itoa(booking.DefaultPageSize)))

	bookings, total, err := h.service.List(c.Request.Context(), page, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]BookingResponse, len(bookings))
	for i, b := range bookings {
		items[i] = NewBookingResponse(b)
	}
	c.JSON(http.StatusOK, response.NewPageResponse(items, page, pageSize, total))
}

// AdminDelete hard-deletes a booking, freeing its slots immediately.
func (h *Handler) AdminDelete(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking id"})
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	h.logger.Info().
		Str("booking_id", id).
		Str("admin", auth.GetAdminEmail(c)).
		Msg("booking cancelled by admin")

	c.Status(http.StatusNoContent)
}
