package routing

import (
	"github.com/paulmach/orb"

	"campus_router/pkg/geo"
	"campus_router/pkg/graph"
)

// NearestNode returns the graph node closest to p by great-circle distance.
// It scans every node in build order and keeps the first one on ties, so the
// answer is stable for a given graph. Cost is O(nodes) per call.
func NearestNode(p orb.Point, g *graph.Graph) (graph.NodeKey, error) {
	nodes := g.Nodes()
	if len(nodes) == 0 {
		return "", ErrEmptyGraph
	}

	best := nodes[0]
	q, _ := g.Point(best)
	bestDist := geo.Distance(p, q)

	for _, k := range nodes[1:] {
		q, _ := g.Point(k)
		if d := geo.Distance(p, q); d < bestDist {
			best, bestDist = k, d
		}
	}
	return best, nil
}
