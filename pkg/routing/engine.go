package routing

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"campus_router/pkg/campus"
	"campus_router/pkg/graph"
	"campus_router/pkg/spatial"
)

// Router is the interface for route and location queries.
type Router interface {
	Route(ctx context.Context, fromID, toID string) (*RouteResult, error)
	Locations() []campus.Location
	Locate(p orb.Point) []campus.Location
	Stats() Stats
}

// Stats describes a loaded campus map.
type Stats struct {
	Features         int
	PathFeatures     int
	Locations        int
	Nodes            int
	Edges            int
	Components       int
	LargestComponent int
}

// Engine implements Router over one immutable campus feature collection.
type Engine struct {
	g         *graph.Graph
	byID      map[string]*geojson.Feature
	locations []campus.Location
	areas     *spatial.Index
	stats     Stats
}

// NewEngine builds the path graph and lookup tables for fc. The collection
// must not be modified afterwards.
func NewEngine(fc *geojson.FeatureCollection) *Engine {
	if fc == nil {
		fc = geojson.NewFeatureCollection()
	}

	e := &Engine{
		g:         graph.Build(fc.Features),
		byID:      make(map[string]*geojson.Feature),
		locations: campus.Locations(fc),
		areas:     spatial.NewIndex(fc.Features),
	}

	for _, f := range fc.Features {
		if graph.IsPath(f) {
			e.stats.PathFeatures++
		}
		id := campus.FeatureID(f)
		if id == "" {
			continue
		}
		// First feature wins on duplicate ids.
		if _, dup := e.byID[id]; !dup {
			e.byID[id] = f
		}
	}

	comps := graph.Components(e.g)
	e.stats.Features = len(fc.Features)
	e.stats.Locations = len(e.locations)
	e.stats.Nodes = e.g.NumNodes()
	e.stats.Edges = e.g.NumEdges()
	e.stats.Components = len(comps)
	e.stats.LargestComponent = len(graph.LargestComponent(e.g))
	return e
}

// Route finds the walking route between the features fromID and toID.
func (e *Engine) Route(ctx context.Context, fromID, toID string) (*RouteResult, error) {
	if fromID == "" || toID == "" {
		return nil, ErrMissingEndpoint
	}
	if fromID == toID {
		return nil, ErrSameEndpoint
	}

	from := e.byID[fromID]
	if from == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownLocation, fromID)
	}
	to := e.byID[toID]
	if to == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownLocation, toID)
	}

	return findRoute(ctx, from, to, e.g)
}

// Locations returns the selectable features sorted by name.
func (e *Engine) Locations() []campus.Location { return e.locations }

// Locate returns the selectable areas containing p, innermost first.
func (e *Engine) Locate(p orb.Point) []campus.Location {
	var out []campus.Location
	for _, f := range e.areas.At(p) {
		if campus.IsSelectable(f) {
			out = append(out, campus.NewLocation(f))
		}
	}
	return out
}

// Stats returns counts computed when the engine was built.
func (e *Engine) Stats() Stats { return e.stats }

// Live is a Router whose engine can be replaced while requests are served.
// Each call uses the engine that was current when it started.
type Live struct {
	current atomic.Pointer[Engine]
}

// NewLive returns a Live serving e, which may be nil.
func NewLive(e *Engine) *Live {
	l := &Live{}
	if e != nil {
		l.Store(e)
	}
	return l
}

// Store makes e the engine for subsequent calls.
func (l *Live) Store(e *Engine) { l.current.Store(e) }

// Engine returns the current engine, or nil before the first Store.
func (l *Live) Engine() *Engine { return l.current.Load() }

// Ready reports whether an engine has been stored.
func (l *Live) Ready() bool { return l.Engine() != nil }

// Route implements Router.
func (l *Live) Route(ctx context.Context, fromID, toID string) (*RouteResult, error) {
	e := l.Engine()
	if e == nil {
		return nil, ErrNoGraph
	}
	return e.Route(ctx, fromID, toID)
}

// Locations implements Router.
func (l *Live) Locations() []campus.Location {
	if e := l.Engine(); e != nil {
		return e.Locations()
	}
	return nil
}

// Locate implements Router.
func (l *Live) Locate(p orb.Point) []campus.Location {
	if e := l.Engine(); e != nil {
		return e.Locate(p)
	}
	return nil
}

// Stats implements Router.
func (l *Live) Stats() Stats {
	if e := l.Engine(); e != nil {
		return e.Stats()
	}
	return Stats{}
}
