package journey

import (
	"sort"

	"github.com/trackpath/visit-analytics-service/internal/domain"
)

// ReduceToAcyclic eliminates cycles from a transition graph so an acyclic
// flow renderer (a Sankey diagram cannot represent cycles) can consume it.
//
// Two phases:
//
//  1. Bidirectional resolution: where both A→B and B→A exist, only the
//     higher-weight direction survives; on equal weights the
//     forward-lexicographic direction (source < target) is kept.
//  2. Residual cycle breaking: depth-first search over sorted nodes and
//     sorted adjacency finds remaining cycles one at a time; each cycle
//     loses its single lowest-weight edge, evaluated against the edges
//     remaining when that cycle is found.
//
// Every detected cycle loses its weakest link and removal cannot introduce
// a new cycle, so the result is acyclic. Node and edge ordering are fixed
// (lexicographic), making the reduction deterministic for a given input.
func ReduceToAcyclic(graph *domain.JourneyGraph) *domain.JourneyGraph {
	weights := make(map[edgeKey]int, len(graph.Edges))
	for _, edge := range graph.Edges {
		weights[edgeKey{source: edge.Source, target: edge.Target}] = edge.Weight
	}

	resolveBidirectional(weights)

	for {
		cycle := findCycle(graph.Nodes, weights)
		if cycle == nil {
			break
		}
		delete(weights, weakestEdge(cycle, weights))
	}

	nodeSet := make(map[string]struct{}, len(graph.Nodes))
	for _, node := range graph.Nodes {
		nodeSet[node] = struct{}{}
	}

	return assemble(nodeSet, weights)
}

// resolveBidirectional keeps only the heavier direction of every two-node
// loop. Each unordered pair is considered once via its lexicographically
// forward edge.
func resolveBidirectional(weights map[edgeKey]int) {
	forward := make([]edgeKey, 0, len(weights))
	for key := range weights {
		if key.source < key.target {
			forward = append(forward, key)
		}
	}

	for _, fwd := range forward {
		rev := edgeKey{source: fwd.target, target: fwd.source}
		revWeight, ok := weights[rev]
		if !ok {
			continue
		}

		// Ties keep the forward direction.
		if revWeight > weights[fwd] {
			delete(weights, fwd)
		} else {
			delete(weights, rev)
		}
	}
}

// findCycle returns the edges of the first cycle reachable in a DFS over
// lexicographically sorted nodes, or nil when the graph is acyclic. The
// cycle is the path segment between the revisited node and itself.
func findCycle(nodes []string, weights map[edgeKey]int) []edgeKey {
	adjacency := make(map[string][]string)
	for key := range weights {
		adjacency[key.source] = append(adjacency[key.source], key.target)
	}
	for source := range adjacency {
		sort.Strings(adjacency[source])
	}

	const (
		unvisited = 0
		onStack   = 1
		done      = 2
	)

	state := make(map[string]int, len(nodes))
	var stack []string
	var cycle []edgeKey

	var visit func(node string) bool
	visit = func(node string) bool {
		state[node] = onStack
		stack = append(stack, node)

		for _, next := range adjacency[node] {
			switch state[next] {
			case onStack:
				start := 0
				for i, n := range stack {
					if n == next {
						start = i
						break
					}
				}
				for i := start; i < len(stack)-1; i++ {
					cycle = append(cycle, edgeKey{source: stack[i], target: stack[i+1]})
				}
				cycle = append(cycle, edgeKey{source: node, target: next})
				return true
			case unvisited:
				if visit(next) {
					return true
				}
			}
		}

		state[node] = done
		stack = stack[:len(stack)-1]
		return false
	}

	sorted := append([]string(nil), nodes...)
	sort.Strings(sorted)

	for _, node := range sorted {
		if state[node] == unvisited {
			if visit(node) {
				return cycle
			}
		}
	}

	return nil
}

// weakestEdge returns the lowest-weight edge along a cycle; ties pick the
// earliest edge on the cycle path.
func weakestEdge(cycle []edgeKey, weights map[edgeKey]int) edgeKey {
	weakest := cycle[0]
	for _, key := range cycle[1:] {
		if weights[key] < weights[weakest] {
			weakest = key
		}
	}
	return weakest
}
