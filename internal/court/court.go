package court

import (
	"net/http"

	"github.com/padelpoint/booking-backend/internal/pkg/apperror"
)

var ErrNotFound = apperror.New(http.StatusNotFound, "court not found")

// Type is the closed set of court kinds on offer.
type Type string

const (
	TypeSingles Type = "Singles"
	TypeDoubles Type = "Doubles"
)

// Court is static reference data: courts are defined at startup and never
// written by user input, so there is no repository behind this package.
type Court struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Type  Type   `json:"type"`
	Price int    `json:"price"` // hourly price
	Image string `json:"image"`
}

// DefaultCourts is the venue's catalog.
var DefaultCourts = []Court{
	{ID: "court-1", Name: "Singles Court", Type: TypeSingles, Price: 1200, Image: "/paddle3.jpg"},
	{ID: "court-2", Name: "Doubles Court", Type: TypeDoubles, Price: 1600, Image: "/paddle4.jpg"},
}

// Catalog answers court lookups over a fixed set of courts.
type Catalog struct {
	courts []Court
}

func NewCatalog(courts []Court) *Catalog {
	return &Catalog{courts: courts}
}

// List returns every court in catalog order.
func (c *Catalog) List() []Court {
	out := make([]Court, len(c.courts))
	copy(out, c.courts)
	return out
}

// Get returns the court with the given ID or ErrNotFound.
func (c *Catalog) Get(id string) (*Court, error) {
	for i := range c.courts {
		if c.courts[i].ID == id {
			court := c.courts[i]
			return &court, nil
		}
	}
	return nil, ErrNotFound
}
