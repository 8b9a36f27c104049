package routing

import (
	"context"
	"fmt"

	"github.com/paulmach/orb"

	"campus_router/pkg/geo"
	"campus_router/pkg/graph"
)

// ctxCheckInterval is how many frontier pops happen between context checks.
const ctxCheckInterval = 100

// AStar returns the coordinates of the shortest path from start to end,
// start first. Both keys must be nodes of g.
func AStar(g *graph.Graph, start, end graph.NodeKey) ([]orb.Point, error) {
	return AStarContext(context.Background(), g, start, end)
}

// AStarContext is AStar with cancellation checked during the search.
func AStarContext(ctx context.Context, g *graph.Graph, start, end graph.NodeKey) ([]orb.Point, error) {
	nodes, err := Search(ctx, g, start, end)
	if err != nil {
		return nil, err
	}
	return Points(g, nodes), nil
}

// Search runs A* from start to end and returns the node sequence of the
// cheapest path. The heuristic is the great-circle distance to end, which
// never exceeds the walking distance along edges.
//
// A node is pushed again every time a cheaper route to it is found; entries
// made obsolete by a later improvement are skipped when popped. There is no
// closed set, so an improved node is always re-expanded.
func Search(ctx context.Context, g *graph.Graph, start, end graph.NodeKey) ([]graph.NodeKey, error) {
	if !g.Has(start) {
		return nil, fmt.Errorf("%w: start %s", ErrNodeNotFound, start)
	}
	endPt, ok := g.Point(end)
	if !ok {
		return nil, fmt.Errorf("%w: end %s", ErrNodeNotFound, end)
	}

	heuristic := func(k graph.NodeKey) float64 {
		p, _ := g.Point(k)
		return geo.Distance(p, endPt)
	}

	gScore := map[graph.NodeKey]float64{start: 0}
	fScore := map[graph.NodeKey]float64{start: heuristic(start)}
	cameFrom := make(map[graph.NodeKey]graph.NodeKey)

	var open MinHeap
	open.Push(start, fScore[start])

	iterations := 0
	for open.Len() > 0 {
		iterations++
		if iterations%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		item := open.Pop()
		current := item.Node
		if item.Priority > fScore[current] {
			continue // stale entry
		}

		if current == end {
			return reconstructPath(cameFrom, start, end), nil
		}

		gCurrent := gScore[current]
		for _, e := range g.Neighbors(current) {
			tentative := gCurrent + e.Cost
			if old, seen := gScore[e.To]; seen && tentative >= old {
				continue
			}
			cameFrom[e.To] = current
			gScore[e.To] = tentative
			f := tentative + heuristic(e.To)
			fScore[e.To] = f
			open.Push(e.To, f)
		}
	}

	return nil, fmt.Errorf("%w: %s to %s", ErrNoPath, start, end)
}

// reconstructPath follows cameFrom links from end back to start.
func reconstructPath(cameFrom map[graph.NodeKey]graph.NodeKey, start, end graph.NodeKey) []graph.NodeKey {
	path := []graph.NodeKey{end}
	for node := end; node != start; {
		node = cameFrom[node]
		path = append(path, node)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// Points converts a node path into coordinates.
func Points(g *graph.Graph, nodes []graph.NodeKey) []orb.Point {
	pts := make([]orb.Point, 0, len(nodes))
	for _, k := range nodes {
		p, _ := g.Point(k)
		pts = append(pts, p)
	}
	return pts
}

// PathCost sums the cheapest edge weight between consecutive nodes. It
// returns false if some consecutive pair is not joined by an edge.
func PathCost(g *graph.Graph, nodes []graph.NodeKey) (float64, bool) {
	var total float64
	for i := 1; i < len(nodes); i++ {
		c, ok := g.Cost(nodes[i-1], nodes[i])
		if !ok {
			return 0, false
		}
		total += c
	}
	return total, true
}
