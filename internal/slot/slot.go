package slot

import (
	"fmt"
	"net/http"

	"github.com/padelpoint/booking-backend/internal/pkg/apperror"
)

var ErrInvalidWindow = apperror.New(http.StatusInternalServerError, "invalid operating window")

// Window is the daily operating window shared by every court.
// OpenHour is inclusive, CloseHour is exclusive: 6..23 yields 17 hourly slots.
type Window struct {
	OpenHour  int
	CloseHour int
}

// DefaultWindow matches the business hours used in production (06:00-23:00).
var DefaultWindow = Window{OpenHour: 6, CloseHour: 23}

func (w Window) Validate() error {
	if w.OpenHour < 0 || w.CloseHour > 24 || w.OpenHour >= w.CloseHour {
		return ErrInvalidWindow
	}
	return nil
}

// Slot is one bookable hourly window. Slots are derived values: they are
// regenerated on every query and never persisted, only their IDs are.
type Slot struct {
	ID        string `json:"id"`
	Label     string `json:"time"`
	Available bool   `json:"available"`
}

// ID returns the deterministic identifier of the Nth hour after opening.
// The same hour always maps to the same ID across all courts and dates,
// which is what makes stored slot IDs comparable for clash checks.
func (w Window) ID(hour int) string {
	return fmt.Sprintf("slot-%d", hour-w.OpenHour+1)
}

// Label returns the display range for an hour, e.g. "06:00 - 07:00".
func (w Window) Label(hour int) string {
	return fmt.Sprintf("%02d:00 - %02d:00", hour, hour+1)
}

// Generate produces the ordered slot catalog for one business day.
// Every slot starts out available; the availability resolver flips the flag.
func Generate(w Window) []Slot {
	slots := make([]Slot, 0, w.CloseHour-w.OpenHour)
	for hour := w.OpenHour; hour < w.CloseHour; hour++ {
		slots = append(slots, Slot{
			ID:        w.ID(hour),
			Label:     w.Label(hour),
			Available: true,
		})
	}
	return slots
}

// Contains reports whether id belongs to the window's catalog.
func (w Window) Contains(id string) bool {
	for hour := w.OpenHour; hour < w.CloseHour; hour++ {
		if w.ID(hour) == id {
			return true
		}
	}
	return false
}
