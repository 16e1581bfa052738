package domain

import (
	"time"

	"github.com/google/uuid"
)

// Hotel is a physical pickup/delivery location. Latitude and Longitude may be
// nil; the proximity orderer degrades to score-only ordering for such hotels.
type Hotel struct {
	ID        uuid.UUID
	Name      string
	Zone      Zone
	Latitude  *float64
	Longitude *float64
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasCoordinates reports whether the hotel carries a usable position.
func (h Hotel) HasCoordinates() bool {
	return h.Latitude != nil && h.Longitude != nil
}
