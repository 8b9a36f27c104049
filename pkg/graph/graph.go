package graph

import (
	"strconv"
	"strings"

	"github.com/paulmach/orb"
)

// Precision is the number of decimal places a coordinate is rounded to when
// deriving its node identity. 7 places is roughly 1.1 cm at the equator, so
// path vertices authored independently but meant to coincide share a node.
const Precision = 7

// NodeKey identifies a graph node: "lon,lat" with exactly Precision decimals.
type NodeKey string

// Quantize returns the node identity for p.
func Quantize(p orb.Point) NodeKey {
	return NodeKey(formatCoord(p[0]) + "," + formatCoord(p[1]))
}

func formatCoord(v float64) string {
	s := strconv.FormatFloat(v, 'f', Precision, 64)
	// Values that round to zero from below format as "-0.0000000".
	if strings.Trim(s, "-0.") == "" {
		return strings.TrimPrefix(s, "-")
	}
	return s
}

// Point parses the key back into its quantized coordinate.
func (k NodeKey) Point() (orb.Point, bool) {
	lonStr, latStr, ok := strings.Cut(string(k), ",")
	if !ok {
		return orb.Point{}, false
	}
	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil {
		return orb.Point{}, false
	}
	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return orb.Point{}, false
	}
	return orb.Point{lon, lat}, true
}

// Edge is one direction of an undirected path segment.
type Edge struct {
	To   NodeKey
	Cost float64 // meters
}

// Graph is an undirected weighted graph keyed by quantized coordinates.
// A built Graph is never modified and may be shared between goroutines.
type Graph struct {
	adj      map[NodeKey][]Edge
	coords   map[NodeKey]orb.Point
	order    []NodeKey // first-seen order
	numEdges int       // undirected segments
}

func newGraph() *Graph {
	return &Graph{
		adj:    make(map[NodeKey][]Edge),
		coords: make(map[NodeKey]orb.Point),
	}
}

// NumNodes returns the number of distinct nodes.
func (g *Graph) NumNodes() int { return len(g.order) }

// NumEdges returns the number of undirected segments, duplicates included.
func (g *Graph) NumEdges() int { return g.numEdges }

// Nodes returns node keys in the order they were first seen during the build.
// The returned slice must not be modified.
func (g *Graph) Nodes() []NodeKey { return g.order }

// Has reports whether k is a node of g.
func (g *Graph) Has(k NodeKey) bool {
	_, ok := g.coords[k]
	return ok
}

// Point returns the quantized coordinate of node k.
func (g *Graph) Point(k NodeKey) (orb.Point, bool) {
	p, ok := g.coords[k]
	return p, ok
}

// Neighbors returns the adjacency list of k. The returned slice must not be
// modified.
func (g *Graph) Neighbors(k NodeKey) []Edge { return g.adj[k] }

// Cost returns the cheapest edge weight between a and b.
func (g *Graph) Cost(a, b NodeKey) (float64, bool) {
	best, found := 0.0, false
	for _, e := range g.adj[a] {
		if e.To == b && (!found || e.Cost < best) {
			best, found = e.Cost, true
		}
	}
	return best, found
}

func (g *Graph) addNode(p orb.Point) NodeKey {
	k := Quantize(p)
	if _, ok := g.coords[k]; ok {
		return k
	}
	// Store the rounded coordinate so the graph geometry matches its keys.
	q, _ := k.Point()
	g.coords[k] = q
	g.adj[k] = nil
	g.order = append(g.order, k)
	return k
}

func (g *Graph) addEdge(a, b NodeKey, cost float64) {
	g.adj[a] = append(g.adj[a], Edge{To: b, Cost: cost})
	g.adj[b] = append(g.adj[b], Edge{To: a, Cost: cost})
	g.numEdges++
}
