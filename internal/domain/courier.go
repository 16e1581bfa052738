package domain

import (
	"time"

	"github.com/google/uuid"
)

// Courier is an actor who executes route stops. A courier is eligible for a
// zone's route generation only when Active and assigned to that zone.
type Courier struct {
	ID        uuid.UUID
	Name      string
	Zone      Zone
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
