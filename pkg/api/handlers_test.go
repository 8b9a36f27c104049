package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campus_router/pkg/campus"
	"campus_router/pkg/routing"
)

// mockRouter implements routing.Router for testing.
type mockRouter struct {
	result    *routing.RouteResult
	err       error
	locations []campus.Location
	located   []campus.Location
	stats     routing.Stats

	gotFrom, gotTo string
	gotPoint       orb.Point
}

func (m *mockRouter) Route(ctx context.Context, fromID, toID string) (*routing.RouteResult, error) {
	m.gotFrom, m.gotTo = fromID, toID
	return m.result, m.err
}

func (m *mockRouter) Locations() []campus.Location { return m.locations }

func (m *mockRouter) Locate(p orb.Point) []campus.Location {
	m.gotPoint = p
	return m.located
}

func (m *mockRouter) Stats() routing.Stats { return m.stats }

func postRoute(h *Handlers, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", "/api/v1/route", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.HandleRoute(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), "body %s", w.Body.String())
	return resp
}

func TestHandleRoute_Success(t *testing.T) {
	mock := &mockRouter{
		result: &routing.RouteResult{
			From:           "Library",
			To:             "Cafeteria",
			Coordinates:    orb.LineString{{-120.2, 38.5}, {-120.95, 40.7}, {-126.453, 43.252}},
			DistanceMeters: 1234.5,
		},
	}
	h := NewHandlers(mock, nil, nil)

	w := postRoute(h, `{"from":" way/1 ","to":"way/2"}`)

	require.Equal(t, http.StatusOK, w.Code, "body: %s", w.Body.String())
	assert.Equal(t, "way/1", mock.gotFrom)
	assert.Equal(t, "way/2", mock.gotTo)

	var resp RouteResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1234.5, resp.DistanceMeters)
	assert.Equal(t, "Library", resp.From)
	assert.Equal(t, "Cafeteria", resp.To)

	require.NotNil(t, resp.Geometry)
	ls, ok := resp.Geometry.Geometry.(orb.LineString)
	require.True(t, ok, "geometry = %#v", resp.Geometry.Geometry)
	assert.Len(t, ls, 3)
	// Reference encoding of these three points.
	assert.Equal(t, "_p~iF~ps|U_ulLnnqC_mqNvxq`@", resp.Polyline)
}

func TestHandleRoute_InvalidJSON(t *testing.T) {
	h := NewHandlers(&mockRouter{}, nil, nil)

	w := postRoute(h, "not json")

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleRoute_MissingContentType(t *testing.T) {
	h := NewHandlers(&mockRouter{}, nil, nil)

	req := httptest.NewRequest("POST", "/api/v1/route", strings.NewReader(`{"from":"a","to":"b"}`))
	w := httptest.NewRecorder()

	h.HandleRoute(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleRoute_Errors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		err        error
		wantStatus int
		wantCode   string
		wantField  string
	}{
		{"missing from", `{"to":"b"}`, routing.ErrMissingEndpoint, http.StatusBadRequest, "missing_endpoint", "from"},
		{"missing to", `{"from":"a"}`, routing.ErrMissingEndpoint, http.StatusBadRequest, "missing_endpoint", "to"},
		{"same endpoint", `{"from":"a","to":"a"}`, routing.ErrSameEndpoint, http.StatusBadRequest, "same_endpoint", "to"},
		{"unknown", `{"from":"a","to":"b"}`, fmt.Errorf("%w: b", routing.ErrUnknownLocation), http.StatusNotFound, "unknown_location", ""},
		{"no path", `{"from":"a","to":"b"}`, fmt.Errorf("%w: x to y", routing.ErrNoPath), http.StatusNotFound, "no_route_found", ""},
		{"no centroid", `{"from":"a","to":"b"}`, routing.ErrNoCentroid, http.StatusUnprocessableEntity, "no_centroid", ""},
		{"empty graph", `{"from":"a","to":"b"}`, fmt.Errorf("%w: start: %w", routing.ErrNoNearestNode, routing.ErrEmptyGraph), http.StatusUnprocessableEntity, "no_nearest_node", ""},
		{"not loaded", `{"from":"a","to":"b"}`, routing.ErrNoGraph, http.StatusServiceUnavailable, "no_graph", ""},
		{"timeout", `{"from":"a","to":"b"}`, context.DeadlineExceeded, http.StatusServiceUnavailable, "request_timeout", ""},
		{"unexpected", `{"from":"a","to":"b"}`, fmt.Errorf("boom"), http.StatusInternalServerError, "internal_error", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandlers(&mockRouter{err: tt.err}, nil, nil)

			w := postRoute(h, tt.body)

			assert.Equal(t, tt.wantStatus, w.Code)
			resp := decodeError(t, w)
			assert.Equal(t, tt.wantCode, resp.Error)
			assert.Equal(t, tt.wantField, resp.Field)
		})
	}
}

func TestHandleLocations(t *testing.T) {
	mock := &mockRouter{locations: []campus.Location{
		{ID: "way/1", Name: "Library", Kind: "building", Levels: 3, Centroid: orb.Point{74.3, 31.5}, HasCentroid: true},
		{ID: "node/2", Name: "Bench", Kind: "poi"},
	}}
	h := NewHandlers(mock, nil, nil)

	req := httptest.NewRequest("GET", "/api/v1/locations", nil)
	w := httptest.NewRecorder()
	h.HandleLocations(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp LocationsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Locations, 2)

	lib := resp.Locations[0]
	assert.Equal(t, "way/1", lib.ID)
	assert.Equal(t, 3, lib.Levels)
	require.NotNil(t, lib.Centroid)
	assert.Equal(t, 31.5, lib.Centroid.Lat)
	assert.Equal(t, 74.3, lib.Centroid.Lng)
	assert.Nil(t, resp.Locations[1].Centroid, "point location has no centroid")
}

func TestHandleLocationsEmpty(t *testing.T) {
	h := NewHandlers(&mockRouter{}, nil, nil)

	req := httptest.NewRequest("GET", "/api/v1/locations", nil)
	w := httptest.NewRecorder()
	h.HandleLocations(w, req)

	assert.JSONEq(t, `{"locations":[]}`, w.Body.String())
}

func TestHandleLocate(t *testing.T) {
	mock := &mockRouter{located: []campus.Location{{ID: "way/3", Name: "Room 101", Kind: "poi"}}}
	h := NewHandlers(mock, nil, nil)

	req := httptest.NewRequest("GET", "/api/v1/locate?lat=31.47&lng=74.41", nil)
	w := httptest.NewRecorder()
	h.HandleLocate(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, orb.Point{74.41, 31.47}, mock.gotPoint, "lon/lat order")
}

func TestHandleLocate_Invalid(t *testing.T) {
	h := NewHandlers(&mockRouter{}, nil, nil)

	for _, q := range []string{"", "lat=abc&lng=1", "lat=1", "lat=91&lng=0", "lat=0&lng=-181", "lat=NaN&lng=0"} {
		req := httptest.NewRequest("GET", "/api/v1/locate?"+q, nil)
		w := httptest.NewRecorder()
		h.HandleLocate(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code, "query %q", q)
	}
}

func TestHandleHealth(t *testing.T) {
	h := NewHandlers(&mockRouter{}, nil, nil)

	req := httptest.NewRequest("GET", "/api/v1/health", nil)
	w := httptest.NewRecorder()

	h.HandleHealth(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
}

func TestHandleHealth_Loading(t *testing.T) {
	h := NewHandlers(routing.NewLive(nil), nil, nil)

	req := httptest.NewRequest("GET", "/api/v1/health", nil)
	w := httptest.NewRecorder()

	h.HandleHealth(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestHandleStats(t *testing.T) {
	stats := routing.Stats{Features: 40, Nodes: 500, Edges: 620, Components: 2, LargestComponent: 480}
	h := NewHandlers(&mockRouter{stats: stats}, nil, nil)

	req := httptest.NewRequest("GET", "/api/v1/stats", nil)
	w := httptest.NewRecorder()

	h.HandleStats(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp StatsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 500, resp.Nodes)
	assert.Equal(t, 620, resp.Edges)
	assert.Equal(t, 480, resp.LargestComponent)
}
