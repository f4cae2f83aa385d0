package funnel

import (
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/trackpath/visit-analytics-service/internal/activity"
	"github.com/trackpath/visit-analytics-service/internal/domain"
)

// SessionActivity pairs a session's current state with its merged
// chronological activity.
type SessionActivity struct {
	Session *domain.SessionSnapshot
	Items   []activity.Item
}

// StepStats holds per-step conversion counts.
//
// For the first step, ConversionRate is 100 when any session entered the
// funnel and 0 otherwise; it is not a rate relative to a prior step. For
// later steps it is conversions(i)/conversions(i-1)*100, 0 when the
// denominator is 0.
type StepStats struct {
	StepID         string  `json:"step_id"`
	StepOrder      int     `json:"step_order"`
	Conversions    int     `json:"conversions"`
	DropOffs       int     `json:"drop_offs"`
	ConversionRate float64 `json:"conversion_rate"`
}

// DailyPoint is one day of the funnel time series. Sessions counts sessions
// that matched the first step that day; Conversions counts the subset that
// also matched the last step.
type DailyPoint struct {
	Date        string `json:"date"`
	Sessions    int    `json:"sessions"`
	Conversions int    `json:"conversions"`
}

// Stats is the aggregate result of matching a funnel across a session
// population. SkippedSessions counts sessions excluded because their
// activity could not be matched cleanly.
type Stats struct {
	StepStats             []StepStats  `json:"step_stats"`
	TotalConversions      int          `json:"total_conversions"`
	TotalDropOffs         int          `json:"total_drop_offs"`
	OverallConversionRate float64      `json:"overall_conversion_rate"`
	TimeSeries            []DailyPoint `json:"time_series"`
	SkippedSessions       int          `json:"skipped_sessions"`
}

// Aggregator runs the matcher across session populations
type Aggregator struct {
	log *zap.Logger
}

// NewAggregator creates a new funnel aggregator
func NewAggregator(log *zap.Logger) *Aggregator {
	return &Aggregator{log: log}
}

// Stats matches every session against the funnel and aggregates per-step
// conversions, drop-offs and a daily time series. A zero-step funnel is a
// degenerate input and yields empty stats, not an error; the service layer
// rejects it earlier via FunnelDefinition.Validate. A session whose
// matching fails is skipped and counted, not fatal.
func (a *Aggregator) Stats(funnel *domain.FunnelDefinition, sessions []SessionActivity) *Stats {
	stats := &Stats{StepStats: make([]StepStats, 0, len(funnel.Steps))}
	if len(funnel.Steps) == 0 {
		stats.TimeSeries = []DailyPoint{}
		return stats
	}

	conversions := make([]int, len(funnel.Steps))
	daily := make(map[string]*DailyPoint)

	for _, sa := range sessions {
		completions, err := Match(sa.Items, funnel.Steps)
		if err != nil {
			stats.SkippedSessions++
			a.log.Warn("Skipping session with unmatchable activity",
				zap.String("session_id", sa.Session.SessionID),
				zap.Error(err))
			continue
		}

		// Completions are a prefix of the step list by construction.
		for i := range completions {
			conversions[i]++
		}

		if len(completions) == 0 {
			continue
		}

		date := dayOf(sa.Session.StartedAt)
		point, ok := daily[date]
		if !ok {
			point = &DailyPoint{Date: date}
			daily[date] = point
		}
		point.Sessions++
		if len(completions) == len(funnel.Steps) {
			point.Conversions++
		}
	}

	for i, step := range funnel.Steps {
		stepStats := StepStats{
			StepID:      step.ID,
			StepOrder:   step.StepOrder,
			Conversions: conversions[i],
		}

		if i == 0 {
			if conversions[0] > 0 {
				stepStats.ConversionRate = 100
			}
		} else {
			stepStats.DropOffs = conversions[i-1] - conversions[i]
			if conversions[i-1] > 0 {
				stepStats.ConversionRate = float64(conversions[i]) / float64(conversions[i-1]) * 100
			}
		}

		stats.StepStats = append(stats.StepStats, stepStats)
		stats.TotalDropOffs += stepStats.DropOffs
	}

	first := conversions[0]
	last := conversions[len(conversions)-1]
	stats.TotalConversions = last
	if first > 0 {
		stats.OverallConversionRate = float64(last) / float64(first) * 100
	}

	stats.TimeSeries = make([]DailyPoint, 0, len(daily))
	for _, point := range daily {
		stats.TimeSeries = append(stats.TimeSeries, *point)
	}
	sort.Slice(stats.TimeSeries, func(i, j int) bool {
		return stats.TimeSeries[i].Date < stats.TimeSeries[j].Date
	})

	return stats
}

func dayOf(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}
