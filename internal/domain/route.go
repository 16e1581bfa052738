package domain

import (
	"time"

	"github.com/google/uuid"
)

// RouteStatus is the lifecycle state of a route. The engine only ever creates
// PLANNED routes; start/complete transitions belong to the courier workflows.
type RouteStatus string

const (
	RoutePlanned    RouteStatus = "PLANNED"
	RouteInProgress RouteStatus = "IN_PROGRESS"
	RouteCompleted  RouteStatus = "COMPLETED"
	RouteCancelled  RouteStatus = "CANCELLED"
)

// RouteType filters which service kinds a generated route may include.
type RouteType string

const (
	RoutePickup   RouteType = "pickup"
	RouteDelivery RouteType = "delivery"
	RouteMixed    RouteType = "mixed"
)

// Valid reports whether t is a known route type.
func (t RouteType) Valid() bool {
	return t == RoutePickup || t == RouteDelivery || t == RouteMixed
}

// AllowsPickups reports whether the route type admits pickup services.
func (t RouteType) AllowsPickups() bool { return t == RoutePickup || t == RouteMixed }

// AllowsDeliveries reports whether the route type admits delivery services.
func (t RouteType) AllowsDeliveries() bool { return t == RouteDelivery || t == RouteMixed }

// Route is a single courier's ordered worklist for one date.
// Date is normalized to noon UTC so the calendar day survives timezone
// conversions on either side of UTC.
type Route struct {
	ID              uuid.UUID   `json:"id"`
	Name            string      `json:"name"`
	Date            time.Time   `json:"date"`
	CourierID       uuid.UUID   `json:"courier_id"`
	Status          RouteStatus `json:"status"`
	Notes           string      `json:"notes,omitempty"`
	TotalDistanceKm float64     `json:"total_distance_km"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

// RouteStop is one ordered waypoint on a route. An individual stop references
// its single high-priority service; a grouped stop references the first
// service of its hotel-level group and carries the group's composition in
// Notes. ServiceID stays nullable in storage for stops created by other
// subsystems.
type RouteStop struct {
	ID          uuid.UUID  `json:"id"`
	RouteID     uuid.UUID  `json:"route_id"`
	HotelID     uuid.UUID  `json:"hotel_id"`
	ServiceID   *uuid.UUID `json:"service_id,omitempty"`
	StopOrder   int        `json:"stop_order"`
	ScheduledAt time.Time  `json:"scheduled_at"`
	Notes       string     `json:"notes,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// NormalizeRouteDate pins a date to 12:00 UTC on its calendar day.
func NormalizeRouteDate(d time.Time) time.Time {
	y, m, day := d.UTC().Date()
	return time.Date(y, m, day, 12, 0, 0, 0, time.UTC)
}
