// Package session resolves the current logical state of a visit session
// from its append-only snapshot history and closes sessions that went stale.
package session

import "github.com/trackpath/visit-analytics-service/internal/domain"

// Latest reduces a snapshot history to the current state: the row with the
// maximum UpdatedAt, ties broken by latest insertion (later slice position).
// Returns nil for an empty history. The reduction is kept separate from
// storage so it is testable against in-memory fixtures.
func Latest(history []*domain.SessionSnapshot) *domain.SessionSnapshot {
	var current *domain.SessionSnapshot
	for _, snapshot := range history {
		if current == nil || !snapshot.UpdatedAt.Before(current.UpdatedAt) {
			current = snapshot
		}
	}
	return current
}
