package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/lavaexpress/dispatch/backend/internal/domain"
)

// RouteRepo defines the persistence operations for Routes and their stops.
// A route exclusively owns its stops; deleting a route cascades to them.
type RouteRepo interface {
	// Create inserts a new route and returns the persisted record (with
	// DB-generated id, created_at, and updated_at populated).
	Create(ctx context.Context, route domain.Route) (domain.Route, error)

	// AddStop inserts one stop under a route and returns the persisted record.
	AddStop(ctx context.Context, stop domain.RouteStop) (domain.RouteStop, error)

	// GetByID retrieves a single route by its UUID.
	// Returns domain.ErrNotFound if no route with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Route, error)

	// ListStops returns a route's stops ordered by stop_order ascending.
	ListStops(ctx context.Context, routeID uuid.UUID) ([]domain.RouteStop, error)

	// ListByDate returns all routes whose date falls on the given calendar
	// day (UTC), ordered by name.
	ListByDate(ctx context.Context, date time.Time) ([]domain.Route, error)
}

type pgRouteRepo struct {
	db db
}

// NewRouteRepo constructs a RouteRepo backed by the provided db connection.
func NewRouteRepo(db db) RouteRepo {
	return &pgRouteRepo{db: db}
}

const routeColumns = `id, name, route_date, courier_id, status, notes, total_distance_km, created_at, updated_at`

func (r *pgRouteRepo) Create(ctx context.Context, route domain.Route) (domain.Route, error) {
	const q = `
		INSERT INTO routes (name, route_date, courier_id, status, notes, total_distance_km)
		VALUES (@name, @route_date, @courier_id, @status, @notes, @total_distance_km)
		RETURNING ` + routeColumns

	args := pgx.NamedArgs{
		"name":              route.Name,
		"route_date":        route.Date,
		"courier_id":        route.CourierID,
		"status":            route.Status,
		"notes":             route.Notes,
		"total_distance_km": route.TotalDistanceKm,
	}

	row := r.db.QueryRow(ctx, q, args)
	created, err := scanRoute(row)
	if err != nil {
		return domain.Route{}, fmt.Errorf("repo.RouteRepo.Create: %w", err)
	}
	return created, nil
}

func (r *pgRouteRepo) AddStop(ctx context.Context, stop domain.RouteStop) (domain.RouteStop, error) {
	const q = `
		INSERT INTO route_stops (route_id, hotel_id, service_id, stop_order, scheduled_at, notes)
		VALUES (@route_id, @hotel_id, @service_id, @stop_order, @scheduled_at, @notes)
		RETURNING id, route_id, hotel_id, service_id, stop_order, scheduled_at, notes, created_at`

	args := pgx.NamedArgs{
		"route_id":     stop.RouteID,
		"hotel_id":     stop.HotelID,
		"service_id":   stop.ServiceID, // nil becomes NULL
		"stop_order":   stop.StopOrder,
		"scheduled_at": stop.ScheduledAt,
		"notes":        stop.Notes,
	}

	row := r.db.QueryRow(ctx, q, args)
	created, err := scanStop(row)
	if err != nil {
		return domain.RouteStop{}, fmt.Errorf("repo.RouteRepo.AddStop: %w", err)
	}
	return created, nil
}

func (r *pgRouteRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Route, error) {
	q := `SELECT ` + routeColumns + ` FROM routes WHERE id = @id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id})
	route, err := scanRoute(row)
	if err != nil {
		return domain.Route{}, fmt.Errorf("repo.RouteRepo.GetByID: %w", err)
	}
	return route, nil
}

func (r *pgRouteRepo) ListStops(ctx context.Context, routeID uuid.UUID) ([]domain.RouteStop, error) {
	const q = `
		SELECT id, route_id, hotel_id, service_id, stop_order, scheduled_at, notes, created_at
		FROM route_stops
		WHERE route_id = @route_id
		ORDER BY stop_order`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"route_id": routeID})
	if err != nil {
		return nil, fmt.Errorf("repo.RouteRepo.ListStops: %w", err)
	}
	defer rows.Close()

	var stops []domain.RouteStop
	for rows.Next() {
		st, err := scanStop(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.RouteRepo.ListStops: scan: %w", err)
		}
		stops = append(stops, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.RouteRepo.ListStops: rows: %w", err)
	}

	return stops, nil
}

func (r *pgRouteRepo) ListByDate(ctx context.Context, date time.Time) ([]domain.Route, error) {
	y, m, d := date.UTC().Date()
	dayStart := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)

	q := `SELECT ` + routeColumns + `
		FROM routes
		WHERE route_date >= @day_start AND route_date < @day_end
		ORDER BY name`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{
		"day_start": dayStart,
		"day_end":   dayStart.Add(24 * time.Hour),
	})
	if err != nil {
		return nil, fmt.Errorf("repo.RouteRepo.ListByDate: %w", err)
	}
	defer rows.Close()

	var routes []domain.Route
	for rows.Next() {
		route, err := scanRoute(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.RouteRepo.ListByDate: scan: %w", err)
		}
		routes = append(routes, route)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.RouteRepo.ListByDate: rows: %w", err)
	}

	return routes, nil
}

func scanRoute(s scanner) (domain.Route, error) {
	var (
		route         domain.Route
		id, courierID pgtype.UUID
	)

	err := s.Scan(&id, &route.Name, &route.Date, &courierID, &route.Status,
		&route.Notes, &route.TotalDistanceKm, &route.CreatedAt, &route.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Route{}, domain.ErrNotFound
		}
		return domain.Route{}, err
	}

	route.ID = uuid.UUID(id.Bytes)
	route.CourierID = uuid.UUID(courierID.Bytes)
	return route, nil
}

func scanStop(s scanner) (domain.RouteStop, error) {
	var (
		stop               domain.RouteStop
		id, routeID, hotel pgtype.UUID
		serviceID          pgtype.UUID
	)

	err := s.Scan(&id, &routeID, &hotel, &serviceID, &stop.StopOrder,
		&stop.ScheduledAt, &stop.Notes, &stop.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.RouteStop{}, domain.ErrNotFound
		}
		return domain.RouteStop{}, err
	}

	stop.ID = uuid.UUID(id.Bytes)
	stop.RouteID = uuid.UUID(routeID.Bytes)
	stop.HotelID = uuid.UUID(hotel.Bytes)
	if serviceID.Valid {
		v := uuid.UUID(serviceID.Bytes)
		stop.ServiceID = &v
	}

	return stop, nil
}
