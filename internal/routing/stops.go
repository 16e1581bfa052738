package routing

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/lavaexpress/dispatch/backend/internal/domain"
)

const (
	// routeStartHour is the fixed local hour at which every route begins.
	routeStartHour = 8
	// interHotelTravelMinutes is the flat travel estimate between hotel visits.
	interHotelTravelMinutes = 10
)

// PlannedStop is a stop before persistence: no IDs yet, just position,
// target, schedule, and human-readable notes.
type PlannedStop struct {
	HotelID     uuid.UUID
	ServiceID   *uuid.UUID
	StopOrder   int
	ScheduledAt time.Time
	Notes       string
}

// Plan is the full read-only output of the stop builder: the ordered stop
// sequence plus everything the assignment transaction needs to claim services
// and describe the route.
type Plan struct {
	Stops           []PlannedStop
	PickupClaims    []uuid.UUID
	DeliveryClaims  []uuid.UUID
	TotalPickups    int
	TotalDeliveries int
	TotalBags       int
	TotalHotels     int
	TotalDistanceKm float64
}

// Empty reports whether the plan produced no stops at all.
func (p Plan) Empty() bool { return len(p.Stops) == 0 }

// BuildPlan walks the ordered hotel groups in two phases and materializes the
// stop sequence for a route of the given type on the given date.
//
// Phase 1 emits one stop per HIGH priority service (deliveries before pickups
// at each hotel). Phase 2 emits at most one grouped stop per hotel per kind,
// referencing the first service of the group; the remaining grouped services
// are still claimed but surface only through the stop notes.
//
// The schedule starts at 08:00 on the target date. Each hotel visit adds its
// estimated duration to the running clock, plus a flat travel allowance for
// every visit after the first. A hotel that emits stops in both phases is two
// visits on that timeline.
func BuildPlan(ordered []HotelGroup, routeType domain.RouteType, date time.Time) Plan {
	b := &planBuilder{
		clock: time.Date(date.Year(), date.Month(), date.Day(), routeStartHour, 0, 0, 0, date.Location()),
	}

	// Phase 1: individual stops for high-priority services.
	for _, g := range ordered {
		emitted := false

		if routeType.AllowsDeliveries() {
			for _, svc := range g.HighPriorityDeliveries {
				b.emitIndividual(g, svc, domain.KindDelivery)
				emitted = true
			}
		}
		if routeType.AllowsPickups() {
			for _, svc := range g.HighPriorityPickups {
				b.emitIndividual(g, svc, domain.KindPickup)
				emitted = true
			}
		}

		if emitted {
			b.closeVisit(g)
		}
	}

	// Phase 2: grouped stops for normal-priority services.
	for _, g := range ordered {
		emitted := false

		if routeType.AllowsDeliveries() && len(g.NormalDeliveries) > 0 {
			b.emitGrouped(g, g.NormalDeliveries, domain.KindDelivery)
			emitted = true
		}
		if routeType.AllowsPickups() && len(g.NormalPickups) > 0 {
			b.emitGrouped(g, g.NormalPickups, domain.KindPickup)
			emitted = true
		}

		if emitted {
			b.closeVisit(g)
		}
	}

	b.plan.TotalHotels = len(b.hotelsSeen)
	return b.plan
}

// planBuilder accumulates the plan while tracking the visit timeline.
type planBuilder struct {
	plan       Plan
	clock      time.Time
	visits     int
	hotelsSeen map[uuid.UUID]struct{}

	// last located hotel, for the running distance total
	lastLat, lastLon float64
	hasLast          bool
}

// scheduledAt returns the arrival time of the current visit: the running
// clock plus the flat travel allowance for every visit after the first.
func (b *planBuilder) scheduledAt() time.Time {
	return b.clock.Add(time.Duration(b.visits*interHotelTravelMinutes) * time.Minute)
}

func (b *planBuilder) emitIndividual(g HotelGroup, svc domain.Service, kind domain.ServiceKind) {
	id := svc.ID
	b.appendStop(g, PlannedStop{
		HotelID:     g.Hotel.ID,
		ServiceID:   &id,
		ScheduledAt: b.scheduledAt(),
		Notes: fmt.Sprintf("%s - Huésped: %s, Hab: %s - HIGH PRIORITY",
			kindLabel(kind), svc.GuestName, svc.RoomNumber),
	})
	b.claim(svc, kind)
}

func (b *planBuilder) emitGrouped(g HotelGroup, bucket []domain.Service, kind domain.ServiceKind) {
	bags := 0
	for _, svc := range bucket {
		bags += svc.BagCount
	}

	// Grouped stops reference only the first service; the rest are claimed
	// below but represented solely through the note.
	first := bucket[0].ID
	b.appendStop(g, PlannedStop{
		HotelID:     g.Hotel.ID,
		ServiceID:   &first,
		ScheduledAt: b.scheduledAt(),
		Notes: fmt.Sprintf("%s agrupada: %d servicio(s), %d bulto(s)",
			kindLabel(kind), len(bucket), bags),
	})
	for _, svc := range bucket {
		b.claim(svc, kind)
	}
}

func (b *planBuilder) appendStop(g HotelGroup, stop PlannedStop) {
	stop.StopOrder = len(b.plan.Stops) + 1
	b.plan.Stops = append(b.plan.Stops, stop)

	if b.hotelsSeen == nil {
		b.hotelsSeen = make(map[uuid.UUID]struct{})
	}
	b.hotelsSeen[g.Hotel.ID] = struct{}{}
}

func (b *planBuilder) claim(svc domain.Service, kind domain.ServiceKind) {
	if kind == domain.KindPickup {
		b.plan.PickupClaims = append(b.plan.PickupClaims, svc.ID)
		b.plan.TotalPickups++
	} else {
		b.plan.DeliveryClaims = append(b.plan.DeliveryClaims, svc.ID)
		b.plan.TotalDeliveries++
	}
	b.plan.TotalBags += svc.BagCount
}

// closeVisit advances the timeline past the current hotel visit and extends
// the running route distance when both legs have coordinates.
func (b *planBuilder) closeVisit(g HotelGroup) {
	b.clock = b.clock.Add(time.Duration(g.DurationMinutes()) * time.Minute)
	b.visits++

	if g.Hotel.HasCoordinates() {
		if b.hasLast {
			b.plan.TotalDistanceKm += HaversineKm(b.lastLat, b.lastLon, *g.Hotel.Latitude, *g.Hotel.Longitude)
		}
		b.lastLat, b.lastLon = *g.Hotel.Latitude, *g.Hotel.Longitude
		b.hasLast = true
	}
}

func kindLabel(kind domain.ServiceKind) string {
	if kind == domain.KindPickup {
		return "Recogida"
	}
	return "Entrega"
}
