package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lavaexpress/dispatch/backend/internal/domain"
	"github.com/lavaexpress/dispatch/backend/internal/repo"
	"github.com/lavaexpress/dispatch/backend/internal/service"
)

var dispatchDate = time.Date(2025, 6, 6, 0, 0, 0, 0, time.UTC)

func activeCourier(zone domain.Zone) domain.Courier {
	return domain.Courier{ID: uuid.New(), Name: "Pedro Lima", Zone: zone, Active: true}
}

func eligibleIn(byZone map[domain.Zone][]domain.Service) *mockServiceRepo {
	return &mockServiceRepo{
		findEligible: func(_ context.Context, _ time.Time, zone domain.Zone, _ domain.RouteType) ([]domain.Service, error) {
			return byZone[zone], nil
		},
	}
}

func couriersIn(byZone map[domain.Zone][]domain.Courier) *mockCourierRepo {
	return &mockCourierRepo{
		findActiveByZone: func(_ context.Context, zone domain.Zone) ([]domain.Courier, error) {
			return byZone[zone], nil
		},
	}
}

func TestDispatcher_GenerateRoutes_NoEligibleServices(t *testing.T) {
	stores := repo.Stores{
		Services: eligibleIn(nil),
		Couriers: couriersIn(nil),
	}
	d := service.NewDispatcher(stores, &stubGenerator{
		generate: func(_ context.Context, _ service.GenerateRequest) (*service.RouteResult, error) {
			t.Fatal("generator must not be called without eligible services")
			return nil, nil
		},
	})

	report, err := d.GenerateRoutes(context.Background(), dispatchDate, nil, domain.RouteMixed)

	require.NoError(t, err)
	assert.Empty(t, report.CreatedRoutes)
	assert.Empty(t, report.UnservedZones)
	assert.Empty(t, report.Zones)
	assert.Equal(t, "sin servicios elegibles para la fecha", report.Summary)
}

func TestDispatcher_GenerateRoutes_SkipsZoneWithoutCourier(t *testing.T) {
	hotel := centroHotel()
	stores := repo.Stores{
		Services: eligibleIn(map[domain.Zone][]domain.Service{
			domain.ZoneCentro: {pendingPickup(hotel.ID, 2), pendingPickup(hotel.ID, 1)},
		}),
		Couriers: couriersIn(nil), // nobody active anywhere
	}
	d := service.NewDispatcher(stores, &stubGenerator{
		generate: func(_ context.Context, _ service.GenerateRequest) (*service.RouteResult, error) {
			t.Fatal("generator must not be called for an unserved zone")
			return nil, nil
		},
	})

	report, err := d.GenerateRoutes(context.Background(), dispatchDate, nil, domain.RouteMixed)

	require.NoError(t, err)
	assert.Empty(t, report.CreatedRoutes)
	assert.Equal(t, []domain.Zone{domain.ZoneCentro}, report.UnservedZones)

	require.Len(t, report.Zones, 1)
	outcome := report.Zones[0]
	assert.Equal(t, domain.ZoneCentro, outcome.Zone)
	assert.Equal(t, "no_courier", outcome.Error)
	assert.Equal(t, 2, outcome.Services)
	assert.Equal(t, 2, outcome.Pickups)
	assert.Equal(t, 3, outcome.Bags)
}

func TestDispatcher_GenerateRoutes_ConflictInOneZoneDoesNotTouchOthers(t *testing.T) {
	centro := centroHotel()
	norteHotel := domain.Hotel{ID: uuid.New(), Name: "Hotel Norte", Zone: domain.ZoneNorte}

	stores := repo.Stores{
		Services: eligibleIn(map[domain.Zone][]domain.Service{
			domain.ZoneCentro: {pendingPickup(centro.ID, 1)},
			domain.ZoneNorte:  {pendingPickup(norteHotel.ID, 2)},
		}),
		Couriers: couriersIn(map[domain.Zone][]domain.Courier{
			domain.ZoneCentro: {activeCourier(domain.ZoneCentro)},
			domain.ZoneNorte:  {activeCourier(domain.ZoneNorte)},
		}),
	}

	norteRoute := service.RouteResult{Route: domain.Route{ID: uuid.New(), Name: "Ruta NORTE - 2025-06-06 (mixed)"}}
	d := service.NewDispatcher(stores, &stubGenerator{
		generate: func(_ context.Context, req service.GenerateRequest) (*service.RouteResult, error) {
			if req.Zone == domain.ZoneCentro {
				return nil, domain.ErrConflict
			}
			return &norteRoute, nil
		},
	})

	report, err := d.GenerateRoutes(context.Background(), dispatchDate,
		[]domain.Zone{domain.ZoneCentro, domain.ZoneNorte}, domain.RouteMixed)

	require.NoError(t, err)
	require.Len(t, report.CreatedRoutes, 1)
	assert.Equal(t, norteRoute.Route.ID, report.CreatedRoutes[0].Route.ID)

	require.Len(t, report.Zones, 2)
	assert.Equal(t, "conflict", report.Zones[0].Error)
	assert.Nil(t, report.Zones[0].Route)
	assert.Empty(t, report.Zones[1].Error)
	require.NotNil(t, report.Zones[1].Route)
	assert.Empty(t, report.UnservedZones, "a conflict is not an unserved zone")
}

func TestDispatcher_GenerateRoutes_ValidatesInput(t *testing.T) {
	d := service.NewDispatcher(repo.Stores{}, &stubGenerator{})

	_, err := d.GenerateRoutes(context.Background(), time.Time{}, nil, domain.RouteMixed)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = d.GenerateRoutes(context.Background(), dispatchDate, nil, "express")
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = d.GenerateRoutes(context.Background(), dispatchDate, []domain.Zone{"LUNA"}, domain.RouteMixed)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestDispatcher_GenerateRouteForCourier_DefaultsToCourierZone(t *testing.T) {
	courier := activeCourier(domain.ZoneSur)
	hotel := domain.Hotel{ID: uuid.New(), Name: "Hotel Sur", Zone: domain.ZoneSur}

	var queriedZone domain.Zone
	stores := repo.Stores{
		Services: &mockServiceRepo{
			findEligible: func(_ context.Context, _ time.Time, zone domain.Zone, _ domain.RouteType) ([]domain.Service, error) {
				queriedZone = zone
				return []domain.Service{pendingPickup(hotel.ID, 1)}, nil
			},
		},
		Couriers: &mockCourierRepo{
			getByID: func(_ context.Context, _ uuid.UUID) (domain.Courier, error) {
				return courier, nil
			},
		},
	}

	want := service.RouteResult{Route: domain.Route{ID: uuid.New()}}
	d := service.NewDispatcher(stores, &stubGenerator{
		generate: func(_ context.Context, req service.GenerateRequest) (*service.RouteResult, error) {
			assert.Equal(t, courier.ID, req.CourierID)
			assert.Equal(t, domain.ZoneSur, req.Zone)
			return &want, nil
		},
	})

	result, err := d.GenerateRouteForCourier(context.Background(), courier.ID, dispatchDate, nil, domain.RoutePickup)

	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, want.Route.ID, result.Route.ID)
	assert.Equal(t, domain.ZoneSur, queriedZone)
}

func TestDispatcher_GenerateRouteForCourier_ExplicitZoneOverrides(t *testing.T) {
	courier := activeCourier(domain.ZoneSur)
	stores := repo.Stores{
		Services: eligibleIn(nil),
		Couriers: &mockCourierRepo{
			getByID: func(_ context.Context, _ uuid.UUID) (domain.Courier, error) {
				return courier, nil
			},
		},
	}
	d := service.NewDispatcher(stores, &stubGenerator{})

	zone := domain.ZoneEste
	result, err := d.GenerateRouteForCourier(context.Background(), courier.ID, dispatchDate, &zone, domain.RouteMixed)

	// Nothing eligible in the override zone: null route, no error.
	require.NoError(t, err)
	assert.Nil(t, result)
}

func TestDispatcher_GenerateRouteForCourier_UnknownCourier(t *testing.T) {
	stores := repo.Stores{
		Couriers: &mockCourierRepo{
			getByID: func(_ context.Context, _ uuid.UUID) (domain.Courier, error) {
				return domain.Courier{}, domain.ErrNotFound
			},
		},
	}
	d := service.NewDispatcher(stores, &stubGenerator{})

	_, err := d.GenerateRouteForCourier(context.Background(), uuid.New(), dispatchDate, nil, domain.RouteMixed)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDispatcher_GenerateRouteForCourier_InactiveCourier(t *testing.T) {
	courier := activeCourier(domain.ZoneSur)
	courier.Active = false

	stores := repo.Stores{
		Couriers: &mockCourierRepo{
			getByID: func(_ context.Context, _ uuid.UUID) (domain.Courier, error) {
				return courier, nil
			},
		},
	}
	d := service.NewDispatcher(stores, &stubGenerator{})

	_, err := d.GenerateRouteForCourier(context.Background(), courier.ID, dispatchDate, nil, domain.RouteMixed)
	assert.ErrorIs(t, err, domain.ErrValidation)
}
