package service_test

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/lavaexpress/dispatch/backend/internal/domain"
	"github.com/lavaexpress/dispatch/backend/internal/repo"
	"github.com/lavaexpress/dispatch/backend/internal/service"
)

// Hand-written test doubles for the repo interfaces. Each method is a
// function field — tests set only the ones they need.

type mockServiceRepo struct {
	getByID       func(ctx context.Context, id uuid.UUID) (domain.Service, error)
	findEligible  func(ctx context.Context, date time.Time, zone domain.Zone, routeType domain.RouteType) ([]domain.Service, error)
	claimPickup   func(ctx context.Context, serviceID, courierID uuid.UUID) error
	claimDelivery func(ctx context.Context, serviceID, courierID uuid.UUID) error
}

func (m *mockServiceRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Service, error) {
	return m.getByID(ctx, id)
}
func (m *mockServiceRepo) FindEligible(ctx context.Context, date time.Time, zone domain.Zone, routeType domain.RouteType) ([]domain.Service, error) {
	return m.findEligible(ctx, date, zone, routeType)
}
func (m *mockServiceRepo) ClaimPickup(ctx context.Context, serviceID, courierID uuid.UUID) error {
	return m.claimPickup(ctx, serviceID, courierID)
}
func (m *mockServiceRepo) ClaimDelivery(ctx context.Context, serviceID, courierID uuid.UUID) error {
	return m.claimDelivery(ctx, serviceID, courierID)
}

type mockHotelRepo struct {
	getByID    func(ctx context.Context, id uuid.UUID) (domain.Hotel, error)
	listByZone func(ctx context.Context, zone domain.Zone) ([]domain.Hotel, error)
}

func (m *mockHotelRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Hotel, error) {
	return m.getByID(ctx, id)
}
func (m *mockHotelRepo) ListByZone(ctx context.Context, zone domain.Zone) ([]domain.Hotel, error) {
	return m.listByZone(ctx, zone)
}

type mockCourierRepo struct {
	getByID          func(ctx context.Context, id uuid.UUID) (domain.Courier, error)
	findActiveByZone func(ctx context.Context, zone domain.Zone) ([]domain.Courier, error)
}

func (m *mockCourierRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Courier, error) {
	return m.getByID(ctx, id)
}
func (m *mockCourierRepo) FindActiveByZone(ctx context.Context, zone domain.Zone) ([]domain.Courier, error) {
	return m.findActiveByZone(ctx, zone)
}

type mockRouteRepo struct {
	create     func(ctx context.Context, route domain.Route) (domain.Route, error)
	addStop    func(ctx context.Context, stop domain.RouteStop) (domain.RouteStop, error)
	getByID    func(ctx context.Context, id uuid.UUID) (domain.Route, error)
	listStops  func(ctx context.Context, routeID uuid.UUID) ([]domain.RouteStop, error)
	listByDate func(ctx context.Context, date time.Time) ([]domain.Route, error)
}

func (m *mockRouteRepo) Create(ctx context.Context, route domain.Route) (domain.Route, error) {
	return m.create(ctx, route)
}
func (m *mockRouteRepo) AddStop(ctx context.Context, stop domain.RouteStop) (domain.RouteStop, error) {
	return m.addStop(ctx, stop)
}
func (m *mockRouteRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Route, error) {
	return m.getByID(ctx, id)
}
func (m *mockRouteRepo) ListStops(ctx context.Context, routeID uuid.UUID) ([]domain.RouteStop, error) {
	return m.listStops(ctx, routeID)
}
func (m *mockRouteRepo) ListByDate(ctx context.Context, date time.Time) ([]domain.Route, error) {
	return m.listByDate(ctx, date)
}

// compile-time checks: the mocks must satisfy the repo interfaces.
var (
	_ repo.ServiceRepo = (*mockServiceRepo)(nil)
	_ repo.HotelRepo   = (*mockHotelRepo)(nil)
	_ repo.CourierRepo = (*mockCourierRepo)(nil)
	_ repo.RouteRepo   = (*mockRouteRepo)(nil)
)

// mockTxManager runs the callback against the configured stores and counts
// commits (callback returned nil) and rollbacks (callback returned an error).
type mockTxManager struct {
	stores    repo.Stores
	commits   int
	rollbacks int
}

func (m *mockTxManager) WithinTx(_ context.Context, fn func(s repo.Stores) error) error {
	if err := fn(m.stores); err != nil {
		m.rollbacks++
		return err
	}
	m.commits++
	return nil
}

var _ repo.TxManager = (*mockTxManager)(nil)

// stubGenerator satisfies service.RouteGenerator for dispatcher tests.
type stubGenerator struct {
	generate func(ctx context.Context, req service.GenerateRequest) (*service.RouteResult, error)
}

func (s *stubGenerator) GenerateRoute(ctx context.Context, req service.GenerateRequest) (*service.RouteResult, error) {
	return s.generate(ctx, req)
}

var _ service.RouteGenerator = (*stubGenerator)(nil)
