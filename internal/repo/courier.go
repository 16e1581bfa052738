package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/lavaexpress/dispatch/backend/internal/domain"
)

// CourierRepo defines the persistence operations for Couriers.
type CourierRepo interface {
	// GetByID retrieves a single courier by its UUID.
	// Returns domain.ErrNotFound if no courier with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Courier, error)

	// FindActiveByZone returns all active couriers assigned to a zone,
	// ordered by name so that "first found" selection is deterministic.
	FindActiveByZone(ctx context.Context, zone domain.Zone) ([]domain.Courier, error)
}

type pgCourierRepo struct {
	db db
}

// NewCourierRepo constructs a CourierRepo backed by the provided db connection.
func NewCourierRepo(db db) CourierRepo {
	return &pgCourierRepo{db: db}
}

const courierColumns = `id, name, zone, active, created_at, updated_at`

func (r *pgCourierRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Courier, error) {
	q := `SELECT ` + courierColumns + ` FROM couriers WHERE id = @id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id})
	c, err := scanCourier(row)
	if err != nil {
		return domain.Courier{}, fmt.Errorf("repo.CourierRepo.GetByID: %w", err)
	}
	return c, nil
}

func (r *pgCourierRepo) FindActiveByZone(ctx context.Context, zone domain.Zone) ([]domain.Courier, error) {
	q := `SELECT ` + courierColumns + ` FROM couriers WHERE zone = @zone AND active ORDER BY name`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"zone": zone})
	if err != nil {
		return nil, fmt.Errorf("repo.CourierRepo.FindActiveByZone: %w", err)
	}
	defer rows.Close()

	var couriers []domain.Courier
	for rows.Next() {
		c, err := scanCourier(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.CourierRepo.FindActiveByZone: scan: %w", err)
		}
		couriers = append(couriers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.CourierRepo.FindActiveByZone: rows: %w", err)
	}

	return couriers, nil
}

func scanCourier(s scanner) (domain.Courier, error) {
	var (
		c  domain.Courier
		id pgtype.UUID
	)

	err := s.Scan(&id, &c.Name, &c.Zone, &c.Active, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Courier{}, domain.ErrNotFound
		}
		return domain.Courier{}, err
	}

	c.ID = uuid.UUID(id.Bytes)
	return c, nil
}
