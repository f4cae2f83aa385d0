package journey

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/trackpath/visit-analytics-service/internal/domain"
)

// assertAcyclic verifies the graph via Kahn's topological sort: it succeeds
// on all nodes iff the graph has no cycles.
func assertAcyclic(t *testing.T, graph *domain.JourneyGraph) {
	t.Helper()

	inDegree := make(map[string]int, len(graph.Nodes))
	adjacency := make(map[string][]string)
	for _, node := range graph.Nodes {
		inDegree[node] = 0
	}
	for _, edge := range graph.Edges {
		adjacency[edge.Source] = append(adjacency[edge.Source], edge.Target)
		inDegree[edge.Target]++
	}

	var queue []string
	for node, degree := range inDegree {
		if degree == 0 {
			queue = append(queue, node)
		}
	}

	sorted := 0
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		sorted++
		for _, next := range adjacency[node] {
			inDegree[next]--
			if inDegree[next] == 0 {
				queue = append(queue, next)
			}
		}
	}

	assert.Equal(t, len(graph.Nodes), sorted, "graph contains a cycle")
}

func TestReduceToAcyclic_BidirectionalTieKeepsForward(t *testing.T) {
	// A->B->A->C: the equal-weight pair resolves to the
	// forward-lexicographic direction.
	graph := Build([][]*domain.PageView{
		sequence("/a", "/b", "/a", "/c"),
	})

	assert.Equal(t, map[string]int{
		"/a->/b": 1,
		"/b->/a": 1,
		"/a->/c": 1,
	}, edgeWeights(graph))

	reduced := ReduceToAcyclic(graph)

	assert.Equal(t, map[string]int{
		"/a->/b": 1,
		"/a->/c": 1,
	}, edgeWeights(reduced))
	assertAcyclic(t, reduced)
}

func TestReduceToAcyclic_BidirectionalKeepsHigherWeight(t *testing.T) {
	graph := &domain.JourneyGraph{
		Nodes: []string{"/a", "/b"},
		Edges: []domain.TransitionEdge{
			{Source: "/a", Target: "/b", Weight: 1},
			{Source: "/b", Target: "/a", Weight: 5},
		},
	}

	reduced := ReduceToAcyclic(graph)

	assert.Equal(t, map[string]int{"/b->/a": 5}, edgeWeights(reduced))
}

func TestReduceToAcyclic_BreaksResidualCycleAtWeakestEdge(t *testing.T) {
	// Three-node cycle with no bidirectional pairs; the lowest-weight edge
	// goes.
	graph := &domain.JourneyGraph{
		Nodes: []string{"/a", "/b", "/c"},
		Edges: []domain.TransitionEdge{
			{Source: "/a", Target: "/b", Weight: 5},
			{Source: "/b", Target: "/c", Weight: 3},
			{Source: "/c", Target: "/a", Weight: 7},
		},
	}

	reduced := ReduceToAcyclic(graph)

	assert.Equal(t, map[string]int{
		"/a->/b": 5,
		"/c->/a": 7,
	}, edgeWeights(reduced))
	assertAcyclic(t, reduced)
}

func TestReduceToAcyclic_MultipleCycles(t *testing.T) {
	graph := &domain.JourneyGraph{
		Nodes: []string{"/a", "/b", "/c", "/d"},
		Edges: []domain.TransitionEdge{
			{Source: "/a", Target: "/b", Weight: 4},
			{Source: "/b", Target: "/c", Weight: 2},
			{Source: "/c", Target: "/a", Weight: 6},
			{Source: "/c", Target: "/d", Weight: 3},
			{Source: "/d", Target: "/b", Weight: 1},
		},
	}

	reduced := ReduceToAcyclic(graph)

	assertAcyclic(t, reduced)
	// Every surviving edge kept its original weight.
	original := edgeWeights(graph)
	for key, weight := range edgeWeights(reduced) {
		assert.Equal(t, original[key], weight)
	}
}

func TestReduceToAcyclic_AcyclicInputUnchanged(t *testing.T) {
	graph := Build([][]*domain.PageView{
		sequence("/a", "/b", "/c"),
		sequence("/a", "/c"),
	})

	reduced := ReduceToAcyclic(graph)

	assert.Equal(t, graph, reduced)
}

func TestReduceToAcyclic_Deterministic(t *testing.T) {
	build := func() *domain.JourneyGraph {
		return Build([][]*domain.PageView{
			sequence("/a", "/b", "/c", "/a", "/d", "/b"),
			sequence("/c", "/d", "/a"),
			sequence("/b", "/a", "/c"),
		})
	}

	first := ReduceToAcyclic(build())
	second := ReduceToAcyclic(build())

	assert.Equal(t, first, second)
	assertAcyclic(t, first)
}
