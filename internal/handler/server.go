// Package handler implements the HTTP surface of the dispatch engine.
// Handlers decode requests, call the service layer, and map sentinel errors
// to HTTP status codes. Methods are split into files by resource but all
// share the Server struct.
package handler

import (
	"context"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/lavaexpress/dispatch/backend/internal/domain"
	"github.com/lavaexpress/dispatch/backend/internal/repo"
	"github.com/lavaexpress/dispatch/backend/internal/service"
)

// Dispatching defines the generation operations the handlers depend on.
// Declared on the consumer side so handler tests can inject a stub without
// touching the service or repo layers.
type Dispatching interface {
	GenerateRoutes(ctx context.Context, date time.Time, zones []domain.Zone, routeType domain.RouteType) (service.DispatchReport, error)
	GenerateRouteForCourier(ctx context.Context, courierID uuid.UUID, date time.Time, zone *domain.Zone, routeType domain.RouteType) (*service.RouteResult, error)
}

// Server holds the handler dependencies for all API endpoints.
type Server struct {
	dispatch Dispatching
	routes   repo.RouteRepo
}

// NewServer constructs the Server with all its dependencies.
func NewServer(dispatch Dispatching, routes repo.RouteRepo) *Server {
	return &Server{dispatch: dispatch, routes: routes}
}

// Router returns a chi router with every API endpoint registered.
// Middleware is the caller's concern (wired in main).
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()

	r.Get("/healthz", s.GetHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/routes/generate", s.GenerateRoutes)
		r.Get("/routes", s.ListRoutes)
		r.Get("/routes/{routeID}", s.GetRoute)
		r.Post("/couriers/{courierID}/route", s.GenerateCourierRoute)
	})

	return r
}
