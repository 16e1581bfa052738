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

// ServiceRepo defines the persistence operations the engine needs on
// Services. Services are owned by the intake subsystem; this repo only reads
// eligibility and writes the two claim transitions.
type ServiceRepo interface {
	// GetByID retrieves a single service by its UUID.
	// Returns domain.ErrNotFound if no service with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Service, error)

	// FindEligible returns the services a route of the given type may claim
	// in the given zone on the given date: PENDING_PICKUP services with no
	// pickup courier and an estimated pickup inside the day (when the type
	// allows pickups), unioned with IN_PROCESS services with no delivery
	// courier and an estimated delivery inside the day (when the type allows
	// deliveries). Ordered by creation time for stable grouping input.
	FindEligible(ctx context.Context, date time.Time, zone domain.Zone, routeType domain.RouteType) ([]domain.Service, error)

	// ClaimPickup conditionally transitions a service from PENDING_PICKUP to
	// ASSIGNED_TO_ROUTE and sets its pickup courier. Returns
	// domain.ErrConflict if the service no longer satisfies the eligibility
	// predicate (claimed concurrently, state moved on).
	ClaimPickup(ctx context.Context, serviceID, courierID uuid.UUID) error

	// ClaimDelivery conditionally transitions a service from IN_PROCESS to
	// READY_FOR_DELIVERY and sets its delivery courier. Returns
	// domain.ErrConflict on a lost race, like ClaimPickup.
	ClaimDelivery(ctx context.Context, serviceID, courierID uuid.UUID) error
}

type pgServiceRepo struct {
	db db
}

// NewServiceRepo constructs a ServiceRepo backed by the provided db connection.
func NewServiceRepo(db db) ServiceRepo {
	return &pgServiceRepo{db: db}
}

const serviceColumns = `s.id, s.hotel_id, s.guest_name, s.room_number, s.bag_count,
	s.priority, s.status, s.pickup_courier_id, s.delivery_courier_id,
	s.estimated_pickup_at, s.estimated_delivery_at, s.created_at, s.updated_at`

func (r *pgServiceRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Service, error) {
	q := `SELECT ` + serviceColumns + ` FROM services s WHERE s.id = @id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id})
	svc, err := scanService(row)
	if err != nil {
		return domain.Service{}, fmt.Errorf("repo.ServiceRepo.GetByID: %w", err)
	}
	return svc, nil
}

// FindEligible is the only read the assignment transaction trusts. The day
// window is computed in UTC from the target date; the claim statements
// re-apply the same predicates row by row, so a stale result here can only
// cause a conflict abort, never a double claim.
func (r *pgServiceRepo) FindEligible(ctx context.Context, date time.Time, zone domain.Zone, routeType domain.RouteType) ([]domain.Service, error) {
	y, m, d := date.UTC().Date()
	dayStart := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.Add(24 * time.Hour)

	q := `
		SELECT ` + serviceColumns + `
		FROM services s
		JOIN hotels h ON h.id = s.hotel_id
		WHERE h.zone = @zone
		  AND (
		        (@allow_pickups
		         AND s.status = 'PENDING_PICKUP'
		         AND s.pickup_courier_id IS NULL
		         AND s.estimated_pickup_at >= @day_start
		         AND s.estimated_pickup_at <  @day_end)
		     OR (@allow_deliveries
		         AND s.status = 'IN_PROCESS'
		         AND s.delivery_courier_id IS NULL
		         AND s.estimated_delivery_at >= @day_start
		         AND s.estimated_delivery_at <  @day_end)
		  )
		ORDER BY s.created_at, s.id`

	args := pgx.NamedArgs{
		"zone":             zone,
		"allow_pickups":    routeType.AllowsPickups(),
		"allow_deliveries": routeType.AllowsDeliveries(),
		"day_start":        dayStart,
		"day_end":          dayEnd,
	}

	rows, err := r.db.Query(ctx, q, args)
	if err != nil {
		return nil, fmt.Errorf("repo.ServiceRepo.FindEligible: %w", err)
	}
	defer rows.Close()

	var services []domain.Service
	for rows.Next() {
		svc, err := scanService(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.ServiceRepo.FindEligible: scan: %w", err)
		}
		services = append(services, svc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.ServiceRepo.FindEligible: rows: %w", err)
	}

	return services, nil
}

// ClaimPickup is a conditional update: the WHERE clause re-validates the
// eligibility predicate so a concurrent claim surfaces as zero rows affected
// rather than a silently overwritten courier reference.
func (r *pgServiceRepo) ClaimPickup(ctx context.Context, serviceID, courierID uuid.UUID) error {
	const q = `
		UPDATE services
		SET status            = 'ASSIGNED_TO_ROUTE',
		    pickup_courier_id = @courier_id,
		    updated_at        = now()
		WHERE id = @id
		  AND status = 'PENDING_PICKUP'
		  AND pickup_courier_id IS NULL`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": serviceID, "courier_id": courierID})
	if err != nil {
		return fmt.Errorf("repo.ServiceRepo.ClaimPickup: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.ServiceRepo.ClaimPickup: service %s: %w", serviceID, domain.ErrConflict)
	}
	return nil
}

// ClaimDelivery mirrors ClaimPickup for the delivery slot.
func (r *pgServiceRepo) ClaimDelivery(ctx context.Context, serviceID, courierID uuid.UUID) error {
	const q = `
		UPDATE services
		SET status              = 'READY_FOR_DELIVERY',
		    delivery_courier_id = @courier_id,
		    updated_at          = now()
		WHERE id = @id
		  AND status = 'IN_PROCESS'
		  AND delivery_courier_id IS NULL`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": serviceID, "courier_id": courierID})
	if err != nil {
		return fmt.Errorf("repo.ServiceRepo.ClaimDelivery: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.ServiceRepo.ClaimDelivery: service %s: %w", serviceID, domain.ErrConflict)
	}
	return nil
}

// scanService maps a database row into a domain.Service, converting the
// nullable courier reference columns.
func scanService(s scanner) (domain.Service, error) {
	var (
		svc                domain.Service
		id, hotelID        pgtype.UUID
		pickupC, deliveryC pgtype.UUID
	)

	err := s.Scan(&id, &hotelID, &svc.GuestName, &svc.RoomNumber, &svc.BagCount,
		&svc.Priority, &svc.Status, &pickupC, &deliveryC,
		&svc.EstimatedPickupAt, &svc.EstimatedDeliveryAt, &svc.CreatedAt, &svc.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Service{}, domain.ErrNotFound
		}
		return domain.Service{}, err
	}

	svc.ID = uuid.UUID(id.Bytes)
	svc.HotelID = uuid.UUID(hotelID.Bytes)
	if pickupC.Valid {
		v := uuid.UUID(pickupC.Bytes)
		svc.PickupCourierID = &v
	}
	if deliveryC.Valid {
		v := uuid.UUID(deliveryC.Bytes)
		svc.DeliveryCourierID = &v
	}

	return svc, nil
}
