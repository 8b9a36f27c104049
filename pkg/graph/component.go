package graph

// UnionFind implements a disjoint-set data structure with path compression
// and union by rank.
type UnionFind struct {
	parent []int
	rank   []byte
	size   []int
}

// NewUnionFind creates a UnionFind for n elements.
func NewUnionFind(n int) *UnionFind {
	parent := make([]int, n)
	size := make([]int, n)
	for i := range n {
		parent[i] = i
		size[i] = 1
	}
	return &UnionFind{
		parent: parent,
		rank:   make([]byte, n),
		size:   size,
	}
}

// Find returns the representative of the set containing x, with path halving.
func (uf *UnionFind) Find(x int) int {
	for uf.parent[x] != x {
		uf.parent[x] = uf.parent[uf.parent[x]]
		x = uf.parent[x]
	}
	return x
}

// Union merges the sets containing x and y. Returns false if already same set.
func (uf *UnionFind) Union(x, y int) bool {
	rx := uf.Find(x)
	ry := uf.Find(y)
	if rx == ry {
		return false
	}

	if uf.rank[rx] < uf.rank[ry] {
		rx, ry = ry, rx
	}
	uf.parent[ry] = rx
	uf.size[rx] += uf.size[ry]
	if uf.rank[rx] == uf.rank[ry] {
		uf.rank[rx]++
	}
	return true
}

// Components groups the nodes of g into connected components. Components are
// ordered by their first node in build order, and nodes within a component
// keep build order.
func Components(g *Graph) [][]NodeKey {
	n := g.NumNodes()
	if n == 0 {
		return nil
	}

	index := make(map[NodeKey]int, n)
	for i, k := range g.order {
		index[k] = i
	}

	uf := NewUnionFind(n)
	for i, k := range g.order {
		for _, e := range g.adj[k] {
			uf.Union(i, index[e.To])
		}
	}

	slot := make(map[int]int)
	var comps [][]NodeKey
	for i, k := range g.order {
		root := uf.Find(i)
		c, ok := slot[root]
		if !ok {
			c = len(comps)
			slot[root] = c
			comps = append(comps, nil)
		}
		comps[c] = append(comps[c], k)
	}
	return comps
}

// LargestComponent returns the nodes of the biggest connected component.
// Ties go to the component seen first.
func LargestComponent(g *Graph) []NodeKey {
	var best []NodeKey
	for _, c := range Components(g) {
		if len(c) > len(best) {
			best = c
		}
	}
	return best
}
