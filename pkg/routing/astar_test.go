package routing

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campus_router/pkg/graph"
)

func line(pts ...orb.Point) *geojson.Feature {
	return geojson.NewFeature(orb.LineString(pts))
}

// latticePoint returns a point on a 0.0001 degree lattice. Dividing integers
// keeps the coordinate identical to its quantized form.
func latticePoint(x, y int) orb.Point {
	return orb.Point{float64(744000+x) / 1e4, float64(314700+y) / 1e4}
}

// randomLattice keeps each lattice edge, and some diagonals, with
// probability keep.
func randomLattice(rng *rand.Rand, w, h int, keep float64) *graph.Graph {
	var features []*geojson.Feature
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			if x+1 < w && rng.Float64() < keep {
				features = append(features, line(latticePoint(x, y), latticePoint(x+1, y)))
			}
			if y+1 < h && rng.Float64() < keep {
				features = append(features, line(latticePoint(x, y), latticePoint(x, y+1)))
			}
			if x+1 < w && y+1 < h && rng.Float64() < keep/3 {
				features = append(features, line(latticePoint(x, y), latticePoint(x+1, y+1)))
			}
		}
	}
	return graph.Build(features)
}

// plainDijkstra returns the cheapest distance from source to every reachable
// node, scanning for the minimum instead of using a heap.
func plainDijkstra(g *graph.Graph, source graph.NodeKey) map[graph.NodeKey]float64 {
	dist := map[graph.NodeKey]float64{source: 0}
	done := make(map[graph.NodeKey]bool)

	for {
		var cur graph.NodeKey
		best := math.Inf(1)
		for k, d := range dist {
			if !done[k] && d < best {
				cur, best = k, d
			}
		}
		if math.IsInf(best, 1) {
			return dist
		}
		done[cur] = true

		for _, e := range g.Neighbors(cur) {
			nd := best + e.Cost
			if old, ok := dist[e.To]; !ok || nd < old {
				dist[e.To] = nd
			}
		}
	}
}

func TestSearchMatchesDijkstra(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for round := 0; round < 5; round++ {
		g := randomLattice(rng, 8, 8, 0.7)
		nodes := g.Nodes()
		require.NotEmpty(t, nodes)

		for i := 0; i < 20; i++ {
			start := nodes[rng.Intn(len(nodes))]
			end := nodes[rng.Intn(len(nodes))]
			want, reachable := plainDijkstra(g, start)[end]

			path, err := Search(context.Background(), g, start, end)
			if !reachable {
				assert.ErrorIs(t, err, ErrNoPath, "%s -> %s", start, end)
				continue
			}
			require.NoError(t, err, "%s -> %s", start, end)

			assert.Equal(t, start, path[0])
			assert.Equal(t, end, path[len(path)-1])

			cost, ok := PathCost(g, path)
			require.True(t, ok, "path %v uses a missing edge", path)
			assert.InDelta(t, want, cost, 1e-6, "%s -> %s", start, end)
		}
	}
}

func TestSearchPrefersCheaperLongerPath(t *testing.T) {
	// The direct segment is a detour through a far vertex; the three-hop
	// path along the lattice is shorter.
	a, b, c, d := latticePoint(0, 0), latticePoint(1, 0), latticePoint(2, 0), latticePoint(3, 0)
	far := latticePoint(1, 50)
	g := graph.Build([]*geojson.Feature{
		line(a, far, d),
		line(a, b, c, d),
	})

	path, err := AStar(g, graph.Quantize(a), graph.Quantize(d))
	require.NoError(t, err)
	assert.Equal(t, []orb.Point{a, b, c, d}, path)
}

func TestSearchSameNode(t *testing.T) {
	g := graph.Build([]*geojson.Feature{line(orb.Point{0, 0}, orb.Point{0, 1})})
	k := graph.Quantize(orb.Point{0, 0})

	path, err := Search(context.Background(), g, k, k)
	require.NoError(t, err)
	assert.Equal(t, []graph.NodeKey{k}, path)
}

func TestSearchDisconnected(t *testing.T) {
	g := graph.Build([]*geojson.Feature{
		line(orb.Point{0, 0}, orb.Point{0, 1}),
		line(orb.Point{5, 5}, orb.Point{5, 6}),
	})

	_, err := AStar(g, graph.Quantize(orb.Point{0, 0}), graph.Quantize(orb.Point{5, 6}))
	assert.ErrorIs(t, err, ErrNoPath)
}

func TestSearchNodeNotFound(t *testing.T) {
	g := graph.Build([]*geojson.Feature{line(orb.Point{0, 0}, orb.Point{0, 1})})
	in := graph.Quantize(orb.Point{0, 0})
	out := graph.Quantize(orb.Point{9, 9})

	_, err := AStar(g, out, in)
	assert.ErrorIs(t, err, ErrNodeNotFound)

	_, err = AStar(g, in, out)
	assert.ErrorIs(t, err, ErrNodeNotFound)

	_, err = AStar(graph.Build(nil), in, in)
	assert.ErrorIs(t, err, ErrNodeNotFound)
}

func TestSearchTieBreakFollowsBuildOrder(t *testing.T) {
	start, end := orb.Point{0, 0}, orb.Point{0, 2}
	east, west := orb.Point{1, 1}, orb.Point{-1, 1}

	// Both detours are mirror images with identical cost; the one whose
	// feature appears first wins.
	g := graph.Build([]*geojson.Feature{line(start, east, end), line(start, west, end)})
	path, err := AStar(g, graph.Quantize(start), graph.Quantize(end))
	require.NoError(t, err)
	assert.Equal(t, []orb.Point{start, east, end}, path)

	g = graph.Build([]*geojson.Feature{line(start, west, end), line(start, east, end)})
	path, err = AStar(g, graph.Quantize(start), graph.Quantize(end))
	require.NoError(t, err)
	assert.Equal(t, []orb.Point{start, west, end}, path)
}

func TestSearchDeterministic(t *testing.T) {
	g := randomLattice(rand.New(rand.NewSource(3)), 10, 10, 0.9)
	nodes := g.Nodes()
	start, end := nodes[0], nodes[len(nodes)-1]

	first, err := Search(context.Background(), g, start, end)
	if errors.Is(err, ErrNoPath) {
		t.Skip("lattice corners not connected")
	}
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		again, err := Search(context.Background(), g, start, end)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestSearchCancelled(t *testing.T) {
	pts := make([]orb.Point, 300)
	for i := range pts {
		pts[i] = latticePoint(i, 0)
	}
	g := graph.Build([]*geojson.Feature{line(pts...)})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Search(ctx, g, graph.Quantize(pts[0]), graph.Quantize(pts[len(pts)-1]))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNearestNode(t *testing.T) {
	g := graph.Build([]*geojson.Feature{
		line(orb.Point{0, 0}, orb.Point{0, 1}, orb.Point{1, 1}),
	})

	tests := []struct {
		name string
		p    orb.Point
		want orb.Point
	}{
		{"exact", orb.Point{0, 1}, orb.Point{0, 1}},
		{"closest", orb.Point{0.9, 1.2}, orb.Point{1, 1}},
		{"below", orb.Point{0.1, -3}, orb.Point{0, 0}},
		{"tie keeps first", orb.Point{0, 0.5}, orb.Point{0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			k, err := NearestNode(tt.p, g)
			require.NoError(t, err)
			assert.Equal(t, graph.Quantize(tt.want), k)
		})
	}
}

func TestNearestNodeEmptyGraph(t *testing.T) {
	_, err := NearestNode(orb.Point{0, 0}, graph.Build(nil))
	assert.ErrorIs(t, err, ErrEmptyGraph)
}

func BenchmarkSearch(b *testing.B) {
	g := randomLattice(rand.New(rand.NewSource(1)), 40, 40, 1)
	start := graph.Quantize(latticePoint(0, 0))
	end := graph.Quantize(latticePoint(39, 39))
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = Search(ctx, g, start, end)
	}
}
