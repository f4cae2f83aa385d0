package funnel

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/trackpath/visit-analytics-service/internal/activity"
	"github.com/trackpath/visit-analytics-service/internal/domain"
)

func sessionOn(id string, startedAt time.Time, items ...activity.Item) SessionActivity {
	return SessionActivity{
		Session: &domain.SessionSnapshot{SessionID: id, StartedAt: startedAt},
		Items:   items,
	}
}

func testFunnel() *domain.FunnelDefinition {
	return &domain.FunnelDefinition{
		ID:        "fun1",
		ProjectID: "proj1",
		Steps:     signupFunnel(),
	}
}

func TestAggregator_Stats(t *testing.T) {
	aggregator := NewAggregator(zap.NewNop())

	sessions := []SessionActivity{
		// Converts fully.
		sessionOn("sess1", testBase,
			pageView("/pricing", 0), event("signup_click", 5), pageView("/welcome", 10)),
		// Drops off after step 2.
		sessionOn("sess2", testBase,
			pageView("/pricing", 0), event("signup_click", 5)),
		// Drops off after step 1.
		sessionOn("sess3", testBase,
			pageView("/pricing", 0)),
		// Never enters the funnel.
		sessionOn("sess4", testBase,
			pageView("/docs", 0)),
	}

	stats := aggregator.Stats(testFunnel(), sessions)

	assert.Len(t, stats.StepStats, 3)

	assert.Equal(t, 3, stats.StepStats[0].Conversions)
	assert.Equal(t, 0, stats.StepStats[0].DropOffs)
	assert.InDelta(t, 100.0, stats.StepStats[0].ConversionRate, 0.001)

	assert.Equal(t, 2, stats.StepStats[1].Conversions)
	assert.Equal(t, 1, stats.StepStats[1].DropOffs)
	assert.InDelta(t, 66.666, stats.StepStats[1].ConversionRate, 0.01)

	assert.Equal(t, 1, stats.StepStats[2].Conversions)
	assert.Equal(t, 1, stats.StepStats[2].DropOffs)
	assert.InDelta(t, 50.0, stats.StepStats[2].ConversionRate, 0.001)

	assert.Equal(t, 1, stats.TotalConversions)
	assert.Equal(t, 2, stats.TotalDropOffs)
	assert.InDelta(t, 33.333, stats.OverallConversionRate, 0.01)
	assert.Zero(t, stats.SkippedSessions)

	// Conversions never increase after the first step.
	for i := 1; i < len(stats.StepStats); i++ {
		assert.LessOrEqual(t, stats.StepStats[i].Conversions, stats.StepStats[i-1].Conversions)
	}
}

func TestAggregator_Stats_EmptyPopulation(t *testing.T) {
	aggregator := NewAggregator(zap.NewNop())

	stats := aggregator.Stats(testFunnel(), nil)

	assert.Len(t, stats.StepStats, 3)
	assert.Equal(t, 0, stats.StepStats[0].Conversions)
	assert.Zero(t, stats.StepStats[0].ConversionRate)
	assert.Zero(t, stats.StepStats[1].ConversionRate)
	assert.Zero(t, stats.TotalConversions)
	assert.Zero(t, stats.OverallConversionRate)
	assert.Empty(t, stats.TimeSeries)
}

func TestAggregator_Stats_ZeroStepsDegenerate(t *testing.T) {
	aggregator := NewAggregator(zap.NewNop())

	funnel := &domain.FunnelDefinition{ID: "fun1", ProjectID: "proj1"}
	stats := aggregator.Stats(funnel, []SessionActivity{
		sessionOn("sess1", testBase, pageView("/pricing", 0)),
	})

	assert.Empty(t, stats.StepStats)
	assert.Zero(t, stats.TotalConversions)
	assert.Zero(t, stats.OverallConversionRate)
}

func TestAggregator_Stats_SkipsUnsortedSessions(t *testing.T) {
	aggregator := NewAggregator(zap.NewNop())

	sessions := []SessionActivity{
		sessionOn("sess1", testBase,
			pageView("/pricing", 0), event("signup_click", 5), pageView("/welcome", 10)),
		// Activity out of order: skipped, not fatal.
		sessionOn("sess2", testBase,
			pageView("/pricing", 10), pageView("/welcome", 0)),
	}

	stats := aggregator.Stats(testFunnel(), sessions)

	assert.Equal(t, 1, stats.SkippedSessions)
	assert.Equal(t, 1, stats.StepStats[0].Conversions)
}

func TestAggregator_Stats_TimeSeries(t *testing.T) {
	aggregator := NewAggregator(zap.NewNop())

	day1 := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	day2 := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)

	sessions := []SessionActivity{
		sessionOn("sess1", day1,
			pageView("/pricing", 0), event("signup_click", 5), pageView("/welcome", 10)),
		sessionOn("sess2", day1,
			pageView("/pricing", 0)),
		sessionOn("sess3", day2,
			pageView("/pricing", 0)),
		// Never entered: not counted on any day.
		sessionOn("sess4", day2,
			pageView("/docs", 0)),
	}

	stats := aggregator.Stats(testFunnel(), sessions)

	assert.Equal(t, []DailyPoint{
		{Date: "2025-06-01", Sessions: 2, Conversions: 1},
		{Date: "2025-06-02", Sessions: 1, Conversions: 0},
	}, stats.TimeSeries)
}
