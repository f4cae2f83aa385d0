// Package journey builds directed page-to-page transition graphs from
// session page sequences and reduces them to acyclic graphs for layered
// flow rendering.
package journey

import (
	"sort"

	"github.com/trackpath/visit-analytics-service/internal/activity"
	"github.com/trackpath/visit-analytics-service/internal/domain"
)

// edgeKey identifies a directed edge.
type edgeKey struct {
	source string
	target string
}

// Build converts per-session page view sequences into a transition graph.
// Page views within each session must be sorted by timestamp ascending.
// URLs are normalized to paths; consecutive duplicates (refreshes,
// self-transitions) are dropped. Nodes are every distinct normalized path
// observed, including paths from single-page sessions that produce no
// edges. The result may contain cycles.
func Build(sessions [][]*domain.PageView) *domain.JourneyGraph {
	nodeSet := make(map[string]struct{})
	weights := make(map[edgeKey]int)

	for _, pageViews := range sessions {
		var previous string
		for i, pv := range pageViews {
			path := activity.NormalizePath(pv.URL)
			nodeSet[path] = struct{}{}

			if i > 0 && path != previous {
				weights[edgeKey{source: previous, target: path}]++
			}
			previous = path
		}
	}

	return assemble(nodeSet, weights)
}

// assemble produces a graph with sorted nodes and edges so discovery order
// downstream is stable.
func assemble(nodeSet map[string]struct{}, weights map[edgeKey]int) *domain.JourneyGraph {
	graph := &domain.JourneyGraph{
		Nodes: make([]string, 0, len(nodeSet)),
		Edges: make([]domain.TransitionEdge, 0, len(weights)),
	}

	for node := range nodeSet {
		graph.Nodes = append(graph.Nodes, node)
	}
	sort.Strings(graph.Nodes)

	for key, weight := range weights {
		graph.Edges = append(graph.Edges, domain.TransitionEdge{
			Source: key.source,
			Target: key.target,
			Weight: weight,
		})
	}
	sort.Slice(graph.Edges, func(i, j int) bool {
		if graph.Edges[i].Source != graph.Edges[j].Source {
			return graph.Edges[i].Source < graph.Edges[j].Source
		}
		return graph.Edges[i].Target < graph.Edges[j].Target
	})

	return graph
}
