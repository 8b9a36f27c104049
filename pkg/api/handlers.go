package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"math"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/twpayne/go-polyline"

	"campus_router/pkg/campus"
	"campus_router/pkg/routing"
)

// readier is implemented by routers that can be empty while data loads.
type readier interface {
	Ready() bool
}

// Handlers holds the HTTP handlers and their dependencies.
type Handlers struct {
	router  routing.Router
	metrics *Metrics
	logger  *slog.Logger
}

// NewHandlers creates handlers with the given router. metrics and logger may
// be nil.
func NewHandlers(router routing.Router, metrics *Metrics, logger *slog.Logger) *Handlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handlers{
		router:  router,
		metrics: metrics,
		logger:  logger,
	}
}

// HandleRoute handles POST /api/v1/route.
func (h *Handlers) HandleRoute(w http.ResponseWriter, r *http.Request) {
	// Enforce Content-Type.
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "application/json" {
		writeError(w, http.StatusBadRequest, "invalid_request", "")
		return
	}

	// Parse request.
	var req RouteRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 4096)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "")
		return
	}
	req.From = strings.TrimSpace(req.From)
	req.To = strings.TrimSpace(req.To)

	// Route.
	result, err := h.router.Route(r.Context(), req.From, req.To)
	if err != nil {
		h.writeRouteError(w, r, req, err)
		return
	}
	h.metrics.observeRoute(result.DistanceMeters)

	coords := make([][]float64, len(result.Coordinates))
	for i, p := range result.Coordinates {
		coords[i] = []float64{p.Lat(), p.Lon()}
	}

	writeJSON(w, http.StatusOK, RouteResponse{
		From:           result.From,
		To:             result.To,
		DistanceMeters: result.DistanceMeters,
		Geometry:       result.Feature(),
		Polyline:       string(polyline.EncodeCoords(coords)),
	})
}

func (h *Handlers) writeRouteError(w http.ResponseWriter, r *http.Request, req RouteRequest, err error) {
	switch {
	case errors.Is(err, routing.ErrMissingEndpoint):
		field := "from"
		if req.From != "" {
			field = "to"
		}
		writeError(w, http.StatusBadRequest, "missing_endpoint", field)
	case errors.Is(err, routing.ErrSameEndpoint):
		writeError(w, http.StatusBadRequest, "same_endpoint", "to")
	case errors.Is(err, routing.ErrUnknownLocation):
		writeError(w, http.StatusNotFound, "unknown_location", "")
	case errors.Is(err, routing.ErrNoPath):
		writeError(w, http.StatusNotFound, "no_route_found", "")
	case errors.Is(err, routing.ErrNoCentroid):
		writeError(w, http.StatusUnprocessableEntity, "no_centroid", "")
	case errors.Is(err, routing.ErrNoNearestNode):
		writeError(w, http.StatusUnprocessableEntity, "no_nearest_node", "")
	case errors.Is(err, routing.ErrNoGraph):
		w.Header().Set("Retry-After", "1")
		writeError(w, http.StatusServiceUnavailable, "no_graph", "")
	case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusServiceUnavailable, "request_timeout", "")
	default:
		h.logger.Error("Route failed",
			"from", req.From,
			"to", req.To,
			"request_id", requestID(r.Context()),
			"error", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "")
	}
}

// HandleLocations handles GET /api/v1/locations.
func (h *Handlers) HandleLocations(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toLocationsResponse(h.router.Locations()))
}

// HandleLocate handles GET /api/v1/locate?lat=&lng=.
func (h *Handlers) HandleLocate(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	lat, err := strconv.ParseFloat(q.Get("lat"), 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_coordinates", "lat")
		return
	}
	lng, err := strconv.ParseFloat(q.Get("lng"), 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_coordinates", "lng")
		return
	}
	if err := validateCoord(LatLngJSON{Lat: lat, Lng: lng}); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_coordinates", "")
		return
	}

	writeJSON(w, http.StatusOK, toLocationsResponse(h.router.Locate(orb.Point{lng, lat})))
}

// HandleHealth handles GET /api/v1/health.
func (h *Handlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if rd, ok := h.router.(readier); ok && !rd.Ready() {
		writeJSON(w, http.StatusServiceUnavailable, HealthResponse{Status: "loading"})
		return
	}
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// HandleStats handles GET /api/v1/stats.
func (h *Handlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	s := h.router.Stats()
	writeJSON(w, http.StatusOK, StatsResponse{
		Features:         s.Features,
		PathFeatures:     s.PathFeatures,
		Locations:        s.Locations,
		Nodes:            s.Nodes,
		Edges:            s.Edges,
		Components:       s.Components,
		LargestComponent: s.LargestComponent,
	})
}

func toLocationsResponse(locs []campus.Location) LocationsResponse {
	resp := LocationsResponse{Locations: make([]LocationJSON, 0, len(locs))}
	for _, loc := range locs {
		lj := LocationJSON{
			ID:                loc.ID,
			Name:              loc.Name,
			Kind:              loc.Kind,
			Levels:            loc.Levels,
			UndergroundLevels: loc.UndergroundLevels,
		}
		if loc.HasCentroid {
			lj.Centroid = &LatLngJSON{Lat: loc.Centroid.Lat(), Lng: loc.Centroid.Lon()}
		}
		resp.Locations = append(resp.Locations, lj)
	}
	return resp
}

func validateCoord(ll LatLngJSON) error {
	if math.IsNaN(ll.Lat) || math.IsNaN(ll.Lng) || math.IsInf(ll.Lat, 0) || math.IsInf(ll.Lng, 0) {
		return errors.New("coordinates must be finite numbers")
	}
	if ll.Lat < -90 || ll.Lat > 90 || ll.Lng < -180 || ll.Lng > 180 {
		return errors.New("coordinates out of range")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, field string) {
	writeJSON(w, status, ErrorResponse{Error: code, Field: field})
}
