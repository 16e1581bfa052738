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

// HotelRepo defines the persistence operations for Hotels. The engine only
// ever reads hotels; hotel CRUD belongs to the inventory subsystem.
type HotelRepo interface {
	// GetByID retrieves a single hotel by its UUID.
	// Returns domain.ErrNotFound if no hotel with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Hotel, error)

	// ListByZone returns all hotels in a zone ordered by name.
	ListByZone(ctx context.Context, zone domain.Zone) ([]domain.Hotel, error)
}

type pgHotelRepo struct {
	db db
}

// NewHotelRepo constructs a HotelRepo backed by the provided db connection.
func NewHotelRepo(db db) HotelRepo {
	return &pgHotelRepo{db: db}
}

const hotelColumns = `id, name, zone, latitude, longitude, address, created_at, updated_at`

func (r *pgHotelRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Hotel, error) {
	q := `SELECT ` + hotelColumns + ` FROM hotels WHERE id = @id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id})
	h, err := scanHotel(row)
	if err != nil {
		return domain.Hotel{}, fmt.Errorf("repo.HotelRepo.GetByID: %w", err)
	}
	return h, nil
}

func (r *pgHotelRepo) ListByZone(ctx context.Context, zone domain.Zone) ([]domain.Hotel, error) {
	q := `SELECT ` + hotelColumns + ` FROM hotels WHERE zone = @zone ORDER BY name`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"zone": zone})
	if err != nil {
		return nil, fmt.Errorf("repo.HotelRepo.ListByZone: %w", err)
	}
	defer rows.Close()

	var hotels []domain.Hotel
	for rows.Next() {
		h, err := scanHotel(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.HotelRepo.ListByZone: scan: %w", err)
		}
		hotels = append(hotels, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.HotelRepo.ListByZone: rows: %w", err)
	}

	return hotels, nil
}

// scanHotel maps a database row into a domain.Hotel, converting the nullable
// coordinate columns.
func scanHotel(s scanner) (domain.Hotel, error) {
	var (
		h        domain.Hotel
		id       pgtype.UUID
		lat, lon pgtype.Float8
	)

	err := s.Scan(&id, &h.Name, &h.Zone, &lat, &lon, &h.Address, &h.CreatedAt, &h.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Hotel{}, domain.ErrNotFound
		}
		return domain.Hotel{}, err
	}

	h.ID = uuid.UUID(id.Bytes)
	if lat.Valid {
		v := lat.Float64
		h.Latitude = &v
	}
	if lon.Valid {
		v := lon.Float64
		h.Longitude = &v
	}

	return h, nil
}
