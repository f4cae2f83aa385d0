package journey

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/trackpath/visit-analytics-service/internal/domain"
)

var testBase = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func sequence(paths ...string) []*domain.PageView {
	pageViews := make([]*domain.PageView, 0, len(paths))
	for i, path := range paths {
		pageViews = append(pageViews, &domain.PageView{
			URL:       path,
			Timestamp: testBase.Add(time.Duration(i) * time.Second),
		})
	}
	return pageViews
}

func edgeWeights(graph *domain.JourneyGraph) map[string]int {
	weights := make(map[string]int, len(graph.Edges))
	for _, edge := range graph.Edges {
		weights[edge.Source+"->"+edge.Target] = edge.Weight
	}
	return weights
}

func TestBuild_TransitionCounts(t *testing.T) {
	graph := Build([][]*domain.PageView{
		sequence("/a", "/b", "/c"),
		sequence("/a", "/b"),
	})

	assert.ElementsMatch(t, []string{"/a", "/b", "/c"}, graph.Nodes)
	assert.Equal(t, map[string]int{
		"/a->/b": 2,
		"/b->/c": 1,
	}, edgeWeights(graph))
}

func TestBuild_DropsSelfTransitions(t *testing.T) {
	graph := Build([][]*domain.PageView{
		sequence("/a", "/a", "/b"),
	})

	assert.Equal(t, map[string]int{"/a->/b": 1}, edgeWeights(graph))
}

func TestBuild_SinglePageSessionContributesNode(t *testing.T) {
	graph := Build([][]*domain.PageView{
		sequence("/lonely"),
	})

	assert.Equal(t, []string{"/lonely"}, graph.Nodes)
	assert.Empty(t, graph.Edges)
}

func TestBuild_NormalizesURLs(t *testing.T) {
	graph := Build([][]*domain.PageView{
		sequence("https://example.com/a?ref=x", "https://example.com/b#top"),
	})

	assert.Equal(t, []string{"/a", "/b"}, graph.Nodes)
	assert.Equal(t, map[string]int{"/a->/b": 1}, edgeWeights(graph))
}

func TestBuild_Empty(t *testing.T) {
	graph := Build(nil)

	assert.Empty(t, graph.Nodes)
	assert.Empty(t, graph.Edges)
}

func TestBuild_SortedDeterministicOutput(t *testing.T) {
	first := Build([][]*domain.PageView{
		sequence("/b", "/a"),
		sequence("/c", "/a"),
	})
	second := Build([][]*domain.PageView{
		sequence("/c", "/a"),
		sequence("/b", "/a"),
	})

	assert.Equal(t, first, second)
	assert.Equal(t, []string{"/a", "/b", "/c"}, first.Nodes)
}
