package routing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campus_router/pkg/graph"
)

func TestMinHeap(t *testing.T) {
	var h MinHeap

	h.Push("a", 30)
	h.Push("b", 10)
	h.Push("c", 20)

	want := []struct {
		node     graph.NodeKey
		priority float64
	}{{"b", 10}, {"c", 20}, {"a", 30}}

	for _, w := range want {
		item := h.Pop()
		assert.Equal(t, w.node, item.Node)
		assert.Equal(t, w.priority, item.Priority)
	}

	assert.Zero(t, h.Len())
}

func TestMinHeapTiesPopInInsertionOrder(t *testing.T) {
	var h MinHeap
	for _, n := range []graph.NodeKey{"x", "y", "z", "w"} {
		h.Push(n, 5)
	}
	h.Push("first", 1)

	for _, want := range []graph.NodeKey{"first", "x", "y", "z", "w"} {
		require.Equal(t, want, h.Pop().Node)
	}
}

func TestMinHeapInterleaved(t *testing.T) {
	var h MinHeap
	h.Push("a", 3)
	h.Push("b", 1)
	require.Equal(t, graph.NodeKey("b"), h.Pop().Node)

	h.Push("c", 2)
	h.Push("d", 0.5)
	for _, want := range []graph.NodeKey{"d", "c", "a"} {
		require.Equal(t, want, h.Pop().Node)
	}
}
