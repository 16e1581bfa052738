package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/lavaexpress/dispatch/backend/internal/domain"
	"github.com/lavaexpress/dispatch/backend/internal/repo"
)

// RouteGenerator is the slice of Generator the dispatcher depends on.
// Defined here, on the consumer side, so dispatcher tests can inject a stub
// without a database.
type RouteGenerator interface {
	GenerateRoute(ctx context.Context, req GenerateRequest) (*RouteResult, error)
}

// ZoneOutcome is the explicit per-zone result of a dispatch run. Failures are
// data, not control flow: a conflict or missing courier in one zone never
// touches the routes committed for its siblings.
type ZoneOutcome struct {
	Zone       domain.Zone  `json:"zone"`
	Route      *RouteResult `json:"route,omitempty"`
	Error      string       `json:"error,omitempty"` // "conflict" or "no_courier"
	Services   int          `json:"services"`
	Pickups    int          `json:"pickups"`
	Deliveries int          `json:"deliveries"`
	Bags       int          `json:"bags"`
}

// Zone outcome error codes.
const (
	zoneErrConflict  = "conflict"
	zoneErrNoCourier = "no_courier"
)

// DispatchReport aggregates a full generation run across zones.
type DispatchReport struct {
	CreatedRoutes []RouteResult `json:"created_routes"`
	UnservedZones []domain.Zone `json:"unserved_zones"`
	Zones         []ZoneOutcome `json:"zones"`
	Summary       string        `json:"summary"`
}

// Dispatcher walks the requested zones, matches each to a courier, and runs
// one assignment transaction per zone.
type Dispatcher struct {
	stores repo.Stores
	gen    RouteGenerator
}

// NewDispatcher constructs a Dispatcher over pool-bound stores and a route
// generator.
func NewDispatcher(stores repo.Stores, gen RouteGenerator) *Dispatcher {
	return &Dispatcher{stores: stores, gen: gen}
}

// GenerateRoutes generates at most one route per zone for the given date and
// type. A nil or empty zone list means all known zones.
//
// Zones without eligible services are skipped. Zones without an active
// courier are recorded as unserved. A conflict abort marks only its own zone
// as failed; storage errors propagate and end the run, but routes already
// committed for earlier zones stay committed.
func (d *Dispatcher) GenerateRoutes(ctx context.Context, date time.Time, zones []domain.Zone, routeType domain.RouteType) (DispatchReport, error) {
	if date.IsZero() {
		return DispatchReport{}, fmt.Errorf("%w: date is required", domain.ErrValidation)
	}
	if !routeType.Valid() {
		return DispatchReport{}, fmt.Errorf("%w: unknown route type %q", domain.ErrValidation, routeType)
	}
	if len(zones) == 0 {
		zones = domain.AllZones()
	}
	for _, z := range zones {
		if !z.Valid() {
			return DispatchReport{}, fmt.Errorf("%w: unknown zone %q", domain.ErrValidation, z)
		}
	}

	report := DispatchReport{
		CreatedRoutes: []RouteResult{},
		UnservedZones: []domain.Zone{},
		Zones:         []ZoneOutcome{},
	}

	for _, zone := range zones {
		eligible, err := d.stores.Services.FindEligible(ctx, date, zone, routeType)
		if err != nil {
			return DispatchReport{}, fmt.Errorf("service.Dispatcher.GenerateRoutes: zone %s: %w", zone, err)
		}
		if len(eligible) == 0 {
			continue
		}

		outcome := ZoneOutcome{Zone: zone, Services: len(eligible)}
		for _, svc := range eligible {
			if svc.Kind() == domain.KindPickup {
				outcome.Pickups++
			} else {
				outcome.Deliveries++
			}
			outcome.Bags += svc.BagCount
		}

		couriers, err := d.stores.Couriers.FindActiveByZone(ctx, zone)
		if err != nil {
			return DispatchReport{}, fmt.Errorf("service.Dispatcher.GenerateRoutes: zone %s: %w", zone, err)
		}
		if len(couriers) == 0 {
			outcome.Error = zoneErrNoCourier
			report.UnservedZones = append(report.UnservedZones, zone)
			report.Zones = append(report.Zones, outcome)
			continue
		}

		result, err := d.gen.GenerateRoute(ctx, GenerateRequest{
			CourierID: couriers[0].ID,
			Date:      date,
			Zone:      zone,
			Type:      routeType,
			Services:  eligible,
		})
		switch {
		case errors.Is(err, domain.ErrConflict):
			outcome.Error = zoneErrConflict
		case err != nil:
			return DispatchReport{}, fmt.Errorf("service.Dispatcher.GenerateRoutes: zone %s: %w", zone, err)
		case result != nil:
			outcome.Route = result
			report.CreatedRoutes = append(report.CreatedRoutes, *result)
		}
		report.Zones = append(report.Zones, outcome)
	}

	report.Summary = summarize(report)
	return report, nil
}

// GenerateRouteForCourier is the manually targeted variant: one courier, one
// zone (defaulting to the courier's own), same transaction semantics.
// Returns (nil, nil) when the zone has nothing eligible.
func (d *Dispatcher) GenerateRouteForCourier(ctx context.Context, courierID uuid.UUID, date time.Time, zone *domain.Zone, routeType domain.RouteType) (*RouteResult, error) {
	courier, err := d.stores.Couriers.GetByID(ctx, courierID)
	if err != nil {
		return nil, fmt.Errorf("service.Dispatcher.GenerateRouteForCourier: %w", err)
	}
	if !courier.Active {
		return nil, fmt.Errorf("%w: courier %s is not active", domain.ErrValidation, courierID)
	}

	target := courier.Zone
	if zone != nil {
		target = *zone
	}

	eligible, err := d.stores.Services.FindEligible(ctx, date, target, routeType)
	if err != nil {
		return nil, fmt.Errorf("service.Dispatcher.GenerateRouteForCourier: %w", err)
	}
	if len(eligible) == 0 {
		return nil, nil
	}

	return d.gen.GenerateRoute(ctx, GenerateRequest{
		CourierID: courierID,
		Date:      date,
		Zone:      target,
		Type:      routeType,
		Services:  eligible,
	})
}

func summarize(r DispatchReport) string {
	if len(r.Zones) == 0 {
		return "sin servicios elegibles para la fecha"
	}
	return fmt.Sprintf("%d ruta(s) generada(s), %d zona(s) sin repartidor", len(r.CreatedRoutes), len(r.UnservedZones))
}
