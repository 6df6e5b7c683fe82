package http

import (
	"time"

	"github.com/padelpoint/booking-backend/internal/booking"
)

// CreateBookingBody is the booking submission payload. Field names mirror
// what the web client sends.
type CreateBookingBody struct {
	CourtID       string   `json:"courtId" binding:"required"`
	CourtName     string   `json:"courtName" binding:"required"`
	CourtType     string   `json:"courtType" binding:"required"`
	Date          string   `json:"date" binding:"required"`
	SlotIDs       []string `json:"slotIds" binding:"required,min=1"`
	Times         []string `json:"times" binding:"required"`
	Price         *int     `json:"price" binding:"required"`
	Name          string   `json:"name" binding:"required"`
	Email         string   `json:"email" binding:"omitempty,email"`
	Phone         string   `json:"phone" binding:"required"`
	PaymentMethod string   `json:"paymentMethod" binding:"required,oneof=card cash"`
}

func (b *CreateBookingBody) toRequest() booking.CreateRequest {
	return booking.CreateRequest{
		CourtID:       b.CourtID,
		CourtName:     b.CourtName,
		CourtType:     b.CourtType,
		Date:          b.Date,
		SlotIDs:       b.SlotIDs,
		Times:         b.Times,
		Price:         *b.Price,
		Name:          b.Name,
		Email:         b.Email,
		Phone:         b.Phone,
		PaymentMethod: b.PaymentMethod,
	}
}

type BookingResponse struct {
	ID            string    `json:"id"`
	CourtID       string    `json:"courtId"`
	CourtName     string    `json:"courtName"`
	CourtType     string    `json:"courtType"`
	Date          string    `json:"date"`
	SlotIDs       []string  `json:"slotIds"`
	Times         []string  `json:"times"`
	Price         int       `json:"price"`
	Name          string    `json:"name"`
	Email         string    `json:"email,omitempty"`
	Phone         string    `json:"phone"`
	PaymentMethod string    `json:"paymentMethod"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func NewBookingResponse(b *booking.Booking) BookingResponse {
	return BookingResponse{
		ID:            b.ID,
		CourtID:       b.CourtID,
		CourtName:     b.CourtName,
		CourtType:     b.CourtType,
		Date:          b.Date,
		SlotIDs:       b.SlotIDs,
		Times:         b.Times,
		Price:         b.Price,
		Name:          b.CustomerName,
		Email:         b.Email,
		Phone:         b.Phone,
		PaymentMethod: string(b.PaymentMethod),
		Status:        b.Status,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}
