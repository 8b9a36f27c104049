package routing

import (
	"context"
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"campus_router/pkg/campus"
	"campus_router/pkg/geo"
	"campus_router/pkg/graph"
)

// Fallback names for endpoints without a display name.
const (
	DefaultFromName = "Start"
	DefaultToName   = "End"
)

// RouteResult is a walking route between two campus features.
// Coordinates begin at the origin centroid and end at the destination
// centroid; the points in between are graph nodes.
type RouteResult struct {
	From           string
	To             string
	Coordinates    orb.LineString
	DistanceMeters float64
}

// Feature renders the route as a GeoJSON LineString feature.
func (r *RouteResult) Feature() *geojson.Feature {
	f := geojson.NewFeature(r.Coordinates)
	f.Properties["from"] = r.From
	f.Properties["to"] = r.To
	f.Properties["distance_meters"] = r.DistanceMeters
	return f
}

// FindRoute computes the walking route between the centroids of two area
// features over g.
func FindRoute(start, end *geojson.Feature, g *graph.Graph) (*RouteResult, error) {
	return findRoute(context.Background(), start, end, g)
}

func findRoute(ctx context.Context, start, end *geojson.Feature, g *graph.Graph) (*RouteResult, error) {
	startCentroid, err := centroid(start, "start")
	if err != nil {
		return nil, err
	}
	endCentroid, err := centroid(end, "destination")
	if err != nil {
		return nil, err
	}

	startNode, err := NearestNode(startCentroid, g)
	if err != nil {
		return nil, fmt.Errorf("%w: start: %w", ErrNoNearestNode, err)
	}
	endNode, err := NearestNode(endCentroid, g)
	if err != nil {
		return nil, fmt.Errorf("%w: destination: %w", ErrNoNearestNode, err)
	}

	path, err := AStarContext(ctx, g, startNode, endNode)
	if err != nil {
		return nil, err
	}

	coords := make(orb.LineString, 0, len(path)+2)
	coords = append(coords, startCentroid)
	coords = append(coords, path...)
	coords = append(coords, endCentroid)

	return &RouteResult{
		From:           nameOr(start, DefaultFromName),
		To:             nameOr(end, DefaultToName),
		Coordinates:    coords,
		DistanceMeters: geo.Length(coords),
	}, nil
}

func centroid(f *geojson.Feature, which string) (orb.Point, error) {
	if f == nil {
		return orb.Point{}, fmt.Errorf("%w: %s feature missing", ErrNoCentroid, which)
	}
	c, ok := geo.Centroid(f.Geometry)
	if !ok {
		return orb.Point{}, fmt.Errorf("%w: %s %q has no area geometry", ErrNoCentroid, which, campus.FeatureID(f))
	}
	return c, nil
}

func nameOr(f *geojson.Feature, fallback string) string {
	if name := campus.DisplayName(f); name != "" {
		return name
	}
	return fallback
}
