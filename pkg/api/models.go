package api

import "github.com/paulmach/orb/geojson"

// RouteRequest is the JSON body for POST /api/v1/route.
type RouteRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// LatLngJSON represents a lat/lng pair in JSON.
type LatLngJSON struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// RouteResponse is the JSON response for a successful route query.
// Geometry carries the full route; Polyline is the same coordinates in
// encoded polyline form (precision 5).
type RouteResponse struct {
	From           string           `json:"from"`
	To             string           `json:"to"`
	DistanceMeters float64          `json:"distance_meters"`
	Geometry       *geojson.Feature `json:"geometry"`
	Polyline       string           `json:"polyline"`
}

// LocationJSON is a selectable campus location.
type LocationJSON struct {
	ID                string      `json:"id"`
	Name              string      `json:"name"`
	Kind              string      `json:"kind"`
	Levels            int         `json:"levels,omitempty"`
	UndergroundLevels int         `json:"underground_levels,omitempty"`
	Centroid          *LatLngJSON `json:"centroid,omitempty"`
}

// LocationsResponse is the JSON response for GET /api/v1/locations and
// GET /api/v1/locate.
type LocationsResponse struct {
	Locations []LocationJSON `json:"locations"`
}

// ErrorResponse is the JSON response for errors.
type ErrorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// StatsResponse is the JSON response for GET /api/v1/stats.
type StatsResponse struct {
	Features         int `json:"features"`
	PathFeatures     int `json:"path_features"`
	Locations        int `json:"locations"`
	Nodes            int `json:"nodes"`
	Edges            int `json:"edges"`
	Components       int `json:"components"`
	LargestComponent int `json:"largest_component"`
}

// HealthResponse is the JSON response for GET /api/v1/health.
type HealthResponse struct {
	Status string `json:"status"`
}
