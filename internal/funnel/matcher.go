// Package funnel matches chronological session activity against ordered
// funnel definitions and aggregates the results across session populations.
package funnel

import (
	"fmt"

	"github.com/trackpath/visit-analytics-service/internal/activity"
	"github.com/trackpath/visit-analytics-service/internal/domain"
)

// Match computes which funnel steps a session completed and when.
//
// Matching is first-match, strictly ordered and single-pass: one cursor
// walks the steps, each activity item is tested only against the current
// step, and the cursor advances on a match. A session can never complete
// step 3 before step 2, and once a step is matched the matcher never
// reconsiders whether an earlier item would also have matched it.
//
// Activity must be sorted by timestamp ascending; unsorted input fails with
// domain.ErrInconsistentOrdering. Paths in a pageview step and in pageview
// items are expected pre-normalized (activity.NormalizePath); comparison is
// exact string equality, no wildcard or prefix matching.
func Match(items []activity.Item, steps []domain.FunnelStep) ([]domain.StepCompletion, error) {
	for i := 1; i < len(items); i++ {
		if items[i].Timestamp.Before(items[i-1].Timestamp) {
			return nil, fmt.Errorf("activity item %d: %w", i, domain.ErrInconsistentOrdering)
		}
	}

	var completions []domain.StepCompletion
	currentStepIndex := 0

	for _, item := range items {
		if currentStepIndex >= len(steps) {
			break
		}

		if !matches(item, steps[currentStepIndex]) {
			continue
		}

		completions = append(completions, domain.StepCompletion{
			StepID:      steps[currentStepIndex].ID,
			StepOrder:   steps[currentStepIndex].StepOrder,
			CompletedAt: item.Timestamp,
		})
		currentStepIndex++
	}

	return completions, nil
}

func matches(item activity.Item, step domain.FunnelStep) bool {
	switch step.Type {
	case domain.StepTypePageView:
		return item.Kind == activity.KindPageView &&
			item.Path == activity.NormalizePath(step.TargetPath)
	case domain.StepTypeEvent:
		return item.Kind == activity.KindEvent &&
			item.TrackingID == step.EventTrackingID
	default:
		return false
	}
}
