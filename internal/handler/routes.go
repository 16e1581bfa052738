package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/lavaexpress/dispatch/backend/internal/domain"
	"github.com/lavaexpress/dispatch/backend/internal/service"
)

// generateRoutesRequest is the body of POST /api/v1/routes/generate.
// Zones is optional; empty means every known zone.
type generateRoutesRequest struct {
	Date  string   `json:"date"`
	Zones []string `json:"zones,omitempty"`
	Type  string   `json:"type"`
}

// courierRouteRequest is the body of POST /api/v1/couriers/{courierID}/route.
// Zone is optional; empty means the courier's own zone.
type courierRouteRequest struct {
	Date string `json:"date"`
	Zone string `json:"zone,omitempty"`
	Type string `json:"type"`
}

// courierRouteResponse wraps the nullable result of a targeted generation.
type courierRouteResponse struct {
	Route *service.RouteResult `json:"route"`
}

// routeWithStops is the body of GET /api/v1/routes/{routeID}.
type routeWithStops struct {
	Route domain.Route       `json:"route"`
	Stops []domain.RouteStop `json:"stops"`
}

// GenerateRoutes handles POST /api/v1/routes/generate.
// It runs one assignment transaction per zone and returns the full dispatch
// report; per-zone failures are part of the report, not HTTP errors.
func (s *Server) GenerateRoutes(w http.ResponseWriter, r *http.Request) {
	var req generateRoutesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid request body")
		return
	}

	date, err := parseDate(req.Date)
	if err != nil {
		badRequest(w, "date must be formatted YYYY-MM-DD")
		return
	}

	zones := make([]domain.Zone, 0, len(req.Zones))
	for _, z := range req.Zones {
		zones = append(zones, domain.Zone(z))
	}

	report, err := s.dispatch.GenerateRoutes(r.Context(), date, zones, domain.RouteType(req.Type))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, report)
}

// GenerateCourierRoute handles POST /api/v1/couriers/{courierID}/route.
// Returns 200 with a null route when the zone has nothing eligible, 404 for
// an unknown courier, and 409 when the transaction lost a claim race.
func (s *Server) GenerateCourierRoute(w http.ResponseWriter, r *http.Request) {
	courierID, err := uuid.Parse(chi.URLParam(r, "courierID"))
	if err != nil {
		badRequest(w, "invalid courier id")
		return
	}

	var req courierRouteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid request body")
		return
	}

	date, err := parseDate(req.Date)
	if err != nil {
		badRequest(w, "date must be formatted YYYY-MM-DD")
		return
	}

	var zone *domain.Zone
	if req.Zone != "" {
		z := domain.Zone(req.Zone)
		if !z.Valid() {
			badRequest(w, "unknown zone")
			return
		}
		zone = &z
	}

	result, err := s.dispatch.GenerateRouteForCourier(r.Context(), courierID, date, zone, domain.RouteType(req.Type))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, courierRouteResponse{Route: result})
}

// GetRoute handles GET /api/v1/routes/{routeID}.
func (s *Server) GetRoute(w http.ResponseWriter, r *http.Request) {
	routeID, err := uuid.Parse(chi.URLParam(r, "routeID"))
	if err != nil {
		badRequest(w, "invalid route id")
		return
	}

	route, err := s.routes.GetByID(r.Context(), routeID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, ErrorResponse{
				Error: ErrorDetail{Code: "not_found", Message: "route not found"},
			})
			return
		}
		writeError(w, err)
		return
	}

	stops, err := s.routes.ListStops(r.Context(), routeID)
	if err != nil {
		writeError(w, err)
		return
	}
	if stops == nil {
		stops = []domain.RouteStop{}
	}

	writeJSON(w, http.StatusOK, routeWithStops{Route: route, Stops: stops})
}

// ListRoutes handles GET /api/v1/routes?date=YYYY-MM-DD.
func (s *Server) ListRoutes(w http.ResponseWriter, r *http.Request) {
	date, err := parseDate(r.URL.Query().Get("date"))
	if err != nil {
		badRequest(w, "date query parameter must be formatted YYYY-MM-DD")
		return
	}

	routes, err := s.routes.ListByDate(r.Context(), date)
	if err != nil {
		writeError(w, err)
		return
	}
	if routes == nil {
		routes = []domain.Route{}
	}

	writeJSON(w, http.StatusOK, routes)
}

// parseDate parses a YYYY-MM-DD date into a UTC time.
func parseDate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}
