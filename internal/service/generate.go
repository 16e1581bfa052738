// Package service contains the business logic of the dispatch engine.
// Services validate inputs, run the pure routing pipeline, and orchestrate
// repo calls. No SQL lives here — services depend on repo interfaces.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/lavaexpress/dispatch/backend/internal/domain"
	"github.com/lavaexpress/dispatch/backend/internal/repo"
	"github.com/lavaexpress/dispatch/backend/internal/routing"
)

// GenerateRequest is one zone/date/type unit of route generation. Services
// carries the eligibility snapshot the caller already read; every service in
// it is re-validated inside the transaction before anything is written.
type GenerateRequest struct {
	CourierID uuid.UUID
	Date      time.Time
	Zone      domain.Zone
	Type      domain.RouteType
	Services  []domain.Service
}

// RouteResult is the committed output of one assignment transaction.
type RouteResult struct {
	Route      domain.Route       `json:"route"`
	Stops      []domain.RouteStop `json:"stops"`
	Pickups    int                `json:"pickups"`
	Deliveries int                `json:"deliveries"`
	Bags       int                `json:"bags"`
	Hotels     int                `json:"hotels"`
}

// Generator runs the assignment transaction: it turns one zone's eligible
// services into a committed route with stops and claimed services, or into
// nothing at all.
type Generator struct {
	stores repo.Stores
	tx     repo.TxManager
}

// NewGenerator constructs a Generator over pool-bound stores and a
// transaction manager.
func NewGenerator(stores repo.Stores, tx repo.TxManager) *Generator {
	return &Generator{stores: stores, tx: tx}
}

// GenerateRoute builds and commits one route for req.
//
// The pure pipeline (group → order → build) runs first, read-only. Then a
// single transaction creates the route row, every stop in order, and claims
// every touched service with a conditional update. A service claimed by a
// concurrent run fails its conditional update, which aborts and rolls back
// the whole transaction with domain.ErrConflict — no partial route is ever
// observable.
//
// Returns (nil, nil) when the request contains nothing the route type admits.
func (g *Generator) GenerateRoute(ctx context.Context, req GenerateRequest) (*RouteResult, error) {
	if err := validateGenerateRequest(req); err != nil {
		return nil, err
	}

	hotels, err := g.hotelIndex(ctx, req.Zone)
	if err != nil {
		return nil, fmt.Errorf("service.Generator.GenerateRoute: %w", err)
	}

	groups := routing.GroupByHotel(req.Services, hotels)
	ordered := routing.OrderGroups(groups)
	plan := routing.BuildPlan(ordered, req.Type, req.Date)
	if plan.Empty() {
		return nil, nil
	}

	date := domain.NormalizeRouteDate(req.Date)
	route := domain.Route{
		Name:      fmt.Sprintf("Ruta %s - %s (%s)", req.Zone, date.Format("2006-01-02"), req.Type),
		Date:      date,
		CourierID: req.CourierID,
		Status:    domain.RoutePlanned,
		Notes: fmt.Sprintf("%d recogida(s), %d entrega(s), %d bulto(s), %d hotel(es)",
			plan.TotalPickups, plan.TotalDeliveries, plan.TotalBags, plan.TotalHotels),
		TotalDistanceKm: plan.TotalDistanceKm,
	}

	var result RouteResult
	err = g.tx.WithinTx(ctx, func(s repo.Stores) error {
		created, err := s.Routes.Create(ctx, route)
		if err != nil {
			return err
		}

		stops := make([]domain.RouteStop, 0, len(plan.Stops))
		for _, planned := range plan.Stops {
			stop, err := s.Routes.AddStop(ctx, domain.RouteStop{
				RouteID:     created.ID,
				HotelID:     planned.HotelID,
				ServiceID:   planned.ServiceID,
				StopOrder:   planned.StopOrder,
				ScheduledAt: planned.ScheduledAt,
				Notes:       planned.Notes,
			})
			if err != nil {
				return err
			}
			stops = append(stops, stop)
		}

		for _, id := range plan.PickupClaims {
			if err := s.Services.ClaimPickup(ctx, id, req.CourierID); err != nil {
				return err
			}
		}
		for _, id := range plan.DeliveryClaims {
			if err := s.Services.ClaimDelivery(ctx, id, req.CourierID); err != nil {
				return err
			}
		}

		result = RouteResult{
			Route:      created,
			Stops:      stops,
			Pickups:    plan.TotalPickups,
			Deliveries: plan.TotalDeliveries,
			Bags:       plan.TotalBags,
			Hotels:     plan.TotalHotels,
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("service.Generator.GenerateRoute: zone %s: %w", req.Zone, err)
	}

	return &result, nil
}

// hotelIndex loads the zone's hotels keyed by ID for the grouper.
func (g *Generator) hotelIndex(ctx context.Context, zone domain.Zone) (map[uuid.UUID]domain.Hotel, error) {
	hotels, err := g.stores.Hotels.ListByZone(ctx, zone)
	if err != nil {
		return nil, err
	}
	index := make(map[uuid.UUID]domain.Hotel, len(hotels))
	for _, h := range hotels {
		index[h.ID] = h
	}
	return index, nil
}

func validateGenerateRequest(req GenerateRequest) error {
	if req.CourierID == uuid.Nil {
		return fmt.Errorf("%w: courier id is required", domain.ErrValidation)
	}
	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", domain.ErrValidation)
	}
	if !req.Zone.Valid() {
		return fmt.Errorf("%w: unknown zone %q", domain.ErrValidation, req.Zone)
	}
	if !req.Type.Valid() {
		return fmt.Errorf("%w: unknown route type %q", domain.ErrValidation, req.Type)
	}
	return nil
}
