package domain

import "time"

// PageView represents a single page view stored in ClickHouse.
// Rows are immutable once written; uniqueness of ID is enforced by the writer.
type PageView struct {
	ID          string    `ch:"id"`
	URL         string    `ch:"url"`
	Timestamp   time.Time `ch:"timestamp"`
	SessionID   string    `ch:"session_id"`
	ProjectID   string    `ch:"project_id"`
	DeviceClass string    `ch:"device_class"`
	CountryCode string    `ch:"country_code"`
	Region      string    `ch:"region"`
	City        string    `ch:"city"`
}

// TrackedEvent represents a custom tracked event stored in ClickHouse.
// EventDefinitionID references an event definition in the metadata store.
type TrackedEvent struct {
	ID                string    `ch:"id"`
	Timestamp         time.Time `ch:"timestamp"`
	SessionID         string    `ch:"session_id"`
	ProjectID         string    `ch:"project_id"`
	EventDefinitionID string    `ch:"event_definition_id"`
	Metadata          string    `ch:"metadata"`
}

// SessionSnapshot is one row of a session's append-only snapshot history.
// The backing store never updates in place: each logical mutation inserts a
// new row for the same SessionID carrying forward all unchanged fields. The
// current state of a session is the row with the maximum UpdatedAt, ties
// broken by latest insertion.
type SessionSnapshot struct {
	RowID     string     `ch:"row_id"`
	SessionID string     `ch:"session_id"`
	StartedAt time.Time  `ch:"started_at"`
	EndedAt   *time.Time `ch:"ended_at"`
	Duration  *uint32    `ch:"duration"`
	DidBounce bool       `ch:"did_bounce"`
	EntryPage string     `ch:"entry_page"`
	ExitPage  *string    `ch:"exit_page"`
	ProjectID string     `ch:"project_id"`
	UpdatedAt time.Time  `ch:"updated_at"`
}

// SnapshotPatch is a partial update to a session's state. Nil fields are
// carried forward unchanged from the current snapshot.
type SnapshotPatch struct {
	EndedAt   *time.Time
	Duration  *uint32
	DidBounce *bool
	ExitPage  *string
}
