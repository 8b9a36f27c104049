package graph

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"campus_router/pkg/geo"
)

// Build creates a Graph from the LineString features of a collection.
// Each consecutive coordinate pair becomes an undirected edge weighted by its
// great-circle length, measured on the raw (unrounded) coordinates. Every
// other geometry type is skipped. The features are not modified.
func Build(features []*geojson.Feature) *Graph {
	g := newGraph()

	for _, f := range features {
		if f == nil {
			continue
		}
		line, ok := f.Geometry.(orb.LineString)
		if !ok || len(line) < 2 {
			continue
		}

		for i := 0; i < len(line)-1; i++ {
			p1, p2 := line[i], line[i+1]
			k1 := g.addNode(p1)
			k2 := g.addNode(p2)
			g.addEdge(k1, k2, geo.Distance(p1, p2))
		}
	}

	return g
}

// IsPath reports whether f contributes edges to the graph.
func IsPath(f *geojson.Feature) bool {
	if f == nil {
		return false
	}
	line, ok := f.Geometry.(orb.LineString)
	return ok && len(line) >= 2
}
