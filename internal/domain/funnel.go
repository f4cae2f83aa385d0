package domain

import (
	"fmt"
	"time"
)

// StepType discriminates what a funnel step matches against.
type StepType string

const (
	StepTypePageView StepType = "pageview"
	StepTypeEvent    StepType = "event"
)

// FunnelStep is one ordered checkpoint in a conversion sequence. A pageview
// step carries TargetPath; an event step carries EventTrackingID.
type FunnelStep struct {
	ID              string
	StepOrder       int
	Type            StepType
	TargetPath      string
	EventTrackingID string
}

// FunnelDefinition is an ordered funnel, immutable for the duration of a
// stats computation. Steps are ordered by StepOrder ascending.
type FunnelDefinition struct {
	ID        string
	ProjectID string
	Steps     []FunnelStep
	EndDate   *time.Time
}

// Validate checks that the funnel has at least one step and that every step
// carries the matcher field its type requires.
func (f *FunnelDefinition) Validate() error {
	if len(f.Steps) == 0 {
		return fmt.Errorf("funnel %s has no steps: %w", f.ID, ErrInvalidDefinition)
	}

	for _, step := range f.Steps {
		switch step.Type {
		case StepTypePageView:
			if step.TargetPath == "" {
				return fmt.Errorf("pageview step %s has no target path: %w", step.ID, ErrInvalidDefinition)
			}
		case StepTypeEvent:
			if step.EventTrackingID == "" {
				return fmt.Errorf("event step %s has no tracking id: %w", step.ID, ErrInvalidDefinition)
			}
		default:
			return fmt.Errorf("step %s has unknown type %q: %w", step.ID, step.Type, ErrInvalidDefinition)
		}
	}

	return nil
}

// StepCompletion records that a session completed one funnel step. Derived,
// never persisted.
type StepCompletion struct {
	StepID      string
	StepOrder   int
	CompletedAt time.Time
}
