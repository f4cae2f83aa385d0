// Package activity merges a session's page views and tracked events into one
// chronologically ordered activity list, the shared input of the funnel
// matcher and the journey graph builder.
package activity

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/trackpath/visit-analytics-service/internal/domain"
)

// Kind discriminates the two activity item variants.
type Kind string

const (
	KindPageView Kind = "pageview"
	KindEvent    Kind = "event"
)

// Item is one element of a session's merged activity. A pageview item
// carries Path; an event item carries TrackingID.
type Item struct {
	Kind       Kind
	Timestamp  time.Time
	Path       string
	TrackingID string
}

// TrackingIDResolver maps an event definition ID to its tracking identifier.
// The second return value reports whether the definition is known.
type TrackingIDResolver func(eventDefinitionID string) (string, bool)

// NormalizePath reduces a URL to its comparable path: scheme, host, query
// and fragment are stripped, and an empty path collapses to "/".
// Comparison everywhere in this core is exact equality on the result.
func NormalizePath(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		// Unparseable input is kept as an opaque label rather than dropped,
		// so malformed URLs still group consistently.
		if raw == "" {
			return "/"
		}
		return raw
	}

	path := u.Path
	if path == "" {
		return "/"
	}
	return path
}

// Merge combines a session's page views and tracked events, both pre-sorted
// by timestamp ascending, into one chronological list. Page view URLs are
// normalized once here; event definition IDs are resolved to tracking IDs
// via resolve. An unresolvable definition or out-of-order input fails the
// merge, which callers treat as grounds to skip the session.
func Merge(pageViews []*domain.PageView, events []*domain.TrackedEvent, resolve TrackingIDResolver) ([]Item, error) {
	if err := verifyPageViewOrder(pageViews); err != nil {
		return nil, err
	}
	if err := verifyEventOrder(events); err != nil {
		return nil, err
	}

	merged := make([]Item, 0, len(pageViews)+len(events))

	i, j := 0, 0
	for i < len(pageViews) || j < len(events) {
		takePageView := j >= len(events) ||
			(i < len(pageViews) && !pageViews[i].Timestamp.After(events[j].Timestamp))

		if takePageView {
			merged = append(merged, Item{
				Kind:      KindPageView,
				Timestamp: pageViews[i].Timestamp,
				Path:      NormalizePath(pageViews[i].URL),
			})
			i++
			continue
		}

		trackingID, ok := resolve(events[j].EventDefinitionID)
		if !ok {
			return nil, fmt.Errorf("event %s references unknown definition %s", events[j].ID, events[j].EventDefinitionID)
		}
		merged = append(merged, Item{
			Kind:       KindEvent,
			Timestamp:  events[j].Timestamp,
			TrackingID: trackingID,
		})
		j++
	}

	return merged, nil
}

func verifyPageViewOrder(pageViews []*domain.PageView) error {
	for i := 1; i < len(pageViews); i++ {
		if pageViews[i].Timestamp.Before(pageViews[i-1].Timestamp) {
			return fmt.Errorf("page view %s: %w", pageViews[i].ID, domain.ErrInconsistentOrdering)
		}
	}
	return nil
}

func verifyEventOrder(events []*domain.TrackedEvent) error {
	for i := 1; i < len(events); i++ {
		if events[i].Timestamp.Before(events[i-1].Timestamp) {
			return fmt.Errorf("tracked event %s: %w", events[i].ID, domain.ErrInconsistentOrdering)
		}
	}
	return nil
}
