package repository

import (
	"context"
	"time"

	"github.com/trackpath/visit-analytics-service/internal/domain"
)

// Window bounds a query by time, inclusive on both ends.
type Window struct {
	From time.Time
	To   time.Time
}

// Contains reports whether t falls inside the window.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.From) && !t.After(w.To)
}

// ClipTo returns the window with its upper bound lowered to end if end is
// earlier. Used to clip a stats window by a funnel's own end date.
func (w Window) ClipTo(end time.Time) Window {
	if end.Before(w.To) {
		w.To = end
	}
	return w
}

// PageCount is one row of a top-pages report.
type PageCount struct {
	Path     string
	Views    uint64
	Sessions uint64
}

// EventStore defines typed access to the page view, tracked event, and
// session snapshot streams. Query results are ordered ascending by
// timestamp (startedAt for sessions), which the matcher and the journey
// builder rely on.
type EventStore interface {
	// QueryPageViews returns all page views for a project within the window.
	QueryPageViews(ctx context.Context, projectID string, window Window) ([]*domain.PageView, error)

	// QueryTrackedEvents returns all tracked events for a project within the window.
	QueryTrackedEvents(ctx context.Context, projectID string, window Window) ([]*domain.TrackedEvent, error)

	// QuerySessions returns sessions started within the window, already
	// reduced to current state (one row per session, latest updatedAt wins).
	QuerySessions(ctx context.Context, projectID string, window Window) ([]*domain.SessionSnapshot, error)

	// SessionHistory returns every snapshot row ever written for a session,
	// ordered by updatedAt then insertion. Empty result means the session
	// does not exist.
	SessionHistory(ctx context.Context, sessionID string) ([]*domain.SessionSnapshot, error)

	// StaleSessions returns current-state sessions that have not ended and
	// started before the cutoff.
	StaleSessions(ctx context.Context, projectID string, cutoff time.Time) ([]*domain.SessionSnapshot, error)

	// InsertSnapshots appends snapshot rows. Append-only: existing rows are
	// never touched.
	InsertSnapshots(ctx context.Context, snapshots []*domain.SessionSnapshot) (int, error)

	// CountActiveSessions counts distinct sessions with page view activity
	// at or after since.
	CountActiveSessions(ctx context.Context, projectID string, since time.Time) (uint64, error)

	// TopPages returns the most viewed normalized paths within the window.
	TopPages(ctx context.Context, projectID string, window Window, limit int) ([]PageCount, error)

	// InitSchema initializes the database schema (creates tables if they don't exist)
	InitSchema(ctx context.Context) error

	// Ping checks if the database connection is alive
	Ping(ctx context.Context) error

	// Close closes the store and releases resources
	Close() error
}
