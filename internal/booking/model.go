package booking

import (
	"net/http"
	"time"

	"github.com/padelpoint/booking-backend/internal/pkg/apperror"
)

var (
	ErrNotFound       = apperror.New(http.StatusNotFound, "booking not found")
	ErrSlotTaken      = apperror.New(http.StatusConflict, "some slot is already booked")
	ErrCourtNotFound  = apperror.New(http.StatusBadRequest, "unknown court")
	ErrUnknownSlot    = apperror.New(http.StatusBadRequest, "unknown slot id")
	ErrTimesMismatch  = apperror.New(http.StatusBadRequest, "times must match slot ids")
	ErrInvalidPayment = apperror.New(http.StatusBadRequest, "payment method must be card or cash")
	ErrInvalidInput   = apperror.New(http.StatusBadRequest, "invalid input parameters")

	ErrMissingCourtOrDate = apperror.New(http.StatusBadRequest, "court id and date are required")
	ErrMissingIDOrEmail   = apperror.New(http.StatusBadRequest, "booking id or email is required")
)

// PaymentMethod is the closed set of accepted payment methods.
type PaymentMethod string

const (
	PaymentCard PaymentMethod = "card"
	PaymentCash PaymentMethod = "cash"
)

// StatusConfirmed is the only booking status: bookings are confirmed on
// creation and hard-deleted on cancellation, there is no lifecycle between.
const StatusConfirmed = "confirmed"

// Booking is the persisted ledger entry. SlotIDs and Times are parallel
// arrays: Times[i] is the display range for SlotIDs[i].
type Booking struct {
	ID            string
	CourtID       string
	CourtName     string
	CourtType     string
	Date          string // opaque YYYY-MM-DD string, compared for equality only
	SlotIDs       []string
	Times         []string
	Price         int
	CustomerName  string
	Email         string
	Phone         string
	PaymentMethod PaymentMethod
	Status        string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
