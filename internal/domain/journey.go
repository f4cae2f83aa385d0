package domain

// TransitionEdge is one weighted page-to-page transition.
type TransitionEdge struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Weight int    `json:"weight"`
}

// JourneyGraph is a directed graph of page-to-page transitions. Nodes are
// normalized paths. A freshly built graph may contain cycles; consumers that
// render layered flow diagrams require the reduced, acyclic form.
type JourneyGraph struct {
	Nodes []string         `json:"nodes"`
	Edges []TransitionEdge `json:"edges"`
}
