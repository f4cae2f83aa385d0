package clickhouse

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"go.uber.org/zap"

	"github.com/trackpath/visit-analytics-service/internal/domain"
	"github.com/trackpath/visit-analytics-service/internal/repository"
)

// Repository implements EventStore for ClickHouse
type Repository struct {
	client *Client
	log    *zap.Logger
}

// NewRepository creates a new ClickHouse repository
func NewRepository(client *Client, log *zap.Logger) *Repository {
	return &Repository{
		client: client,
		log:    log,
	}
}

// storeErr tags a transient ClickHouse failure so callers can classify it
// with errors.Is(err, domain.ErrStoreUnavailable).
func storeErr(msg string, err error) error {
	return fmt.Errorf("%s: %w", msg, errors.Join(domain.ErrStoreUnavailable, err))
}

// InitSchema initializes the ClickHouse schema. All three tables are
// MergeTree: insert-heavy, scan-oriented, no in-place mutation.
func (r *Repository) InitSchema(ctx context.Context) error {
	queries := []string{
		`
	CREATE TABLE IF NOT EXISTS page_views (
		id String,
		url String,
		timestamp DateTime64(3),
		session_id String,
		project_id String,
		device_class LowCardinality(String),
		country_code LowCardinality(String),
		region String,
		city String
	) ENGINE = MergeTree()
	ORDER BY (project_id, timestamp, session_id)
	PARTITION BY toYYYYMM(timestamp)
	SETTINGS index_granularity = 8192
	`,
		`
	CREATE TABLE IF NOT EXISTS tracked_events (
		id String,
		timestamp DateTime64(3),
		session_id String,
		project_id String,
		event_definition_id String,
		metadata String
	) ENGINE = MergeTree()
	ORDER BY (project_id, timestamp, session_id)
	PARTITION BY toYYYYMM(timestamp)
	SETTINGS index_granularity = 8192
	`,
		`
	CREATE TABLE IF NOT EXISTS session_snapshots (
		row_id String,
		session_id String,
		started_at DateTime64(3),
		ended_at Nullable(DateTime64(3)),
		duration Nullable(UInt32),
		did_bounce Bool,
		entry_page String,
		exit_page Nullable(String),
		project_id String,
		updated_at DateTime64(3)
	) ENGINE = MergeTree()
	ORDER BY (session_id, updated_at)
	PARTITION BY toYYYYMM(started_at)
	SETTINGS index_granularity = 8192
	`,
	}

	for _, query := range queries {
		if err := r.client.Conn().Exec(ctx, query); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}

	r.log.Info("ClickHouse schema initialized successfully")
	return nil
}

// QueryPageViews returns a project's page views within the window, ordered
// by timestamp ascending.
func (r *Repository) QueryPageViews(ctx context.Context, projectID string, window repository.Window) ([]*domain.PageView, error) {
	query := `
		SELECT id, url, timestamp, session_id, project_id, device_class, country_code, region, city
		FROM page_views
		WHERE project_id = ? AND timestamp >= ? AND timestamp <= ?
		ORDER BY timestamp ASC, id ASC
	`

	rows, err := r.client.Conn().Query(ctx, query, projectID, window.From, window.To)
	if err != nil {
		return nil, storeErr("failed to query page views", err)
	}
	defer r.closeRows(rows, "page views")

	var pageViews []*domain.PageView
	for rows.Next() {
		var pv domain.PageView
		if err := rows.Scan(&pv.ID, &pv.URL, &pv.Timestamp, &pv.SessionID, &pv.ProjectID,
			&pv.DeviceClass, &pv.CountryCode, &pv.Region, &pv.City); err != nil {
			return nil, fmt.Errorf("failed to scan page view row: %w", err)
		}
		pageViews = append(pageViews, &pv)
	}

	if err := rows.Err(); err != nil {
		return nil, storeErr("error iterating page view rows", err)
	}

	return pageViews, nil
}

// QueryTrackedEvents returns a project's tracked events within the window,
// ordered by timestamp ascending.
func (r *Repository) QueryTrackedEvents(ctx context.Context, projectID string, window repository.Window) ([]*domain.TrackedEvent, error) {
	query := `
		SELECT id, timestamp, session_id, project_id, event_definition_id, metadata
		FROM tracked_events
		WHERE project_id = ? AND timestamp >= ? AND timestamp <= ?
		ORDER BY timestamp ASC, id ASC
	`

	rows, err := r.client.Conn().Query(ctx, query, projectID, window.From, window.To)
	if err != nil {
		return nil, storeErr("failed to query tracked events", err)
	}
	defer r.closeRows(rows, "tracked events")

	var events []*domain.TrackedEvent
	for rows.Next() {
		var ev domain.TrackedEvent
		if err := rows.Scan(&ev.ID, &ev.Timestamp, &ev.SessionID, &ev.ProjectID,
			&ev.EventDefinitionID, &ev.Metadata); err != nil {
			return nil, fmt.Errorf("failed to scan tracked event row: %w", err)
		}
		events = append(events, &ev)
	}

	if err := rows.Err(); err != nil {
		return nil, storeErr("error iterating tracked event rows", err)
	}

	return events, nil
}

// currentStateSubquery reduces the append-only snapshot history to one row
// per session: the row with the maximum updated_at, ties broken by row_id
// for a stable result.
const currentStateSubquery = `
		SELECT row_id, session_id, started_at, ended_at, duration, did_bounce,
		       entry_page, exit_page, project_id, updated_at
		FROM session_snapshots
		WHERE project_id = ?
		ORDER BY updated_at DESC, row_id DESC
		LIMIT 1 BY session_id
`

// QuerySessions returns current-state sessions started within the window,
// ordered by started_at ascending.
func (r *Repository) QuerySessions(ctx context.Context, projectID string, window repository.Window) ([]*domain.SessionSnapshot, error) {
	query := fmt.Sprintf(`
		SELECT * FROM (%s)
		WHERE started_at >= ? AND started_at <= ?
		ORDER BY started_at ASC, session_id ASC
	`, currentStateSubquery)

	rows, err := r.client.Conn().Query(ctx, query, projectID, window.From, window.To)
	if err != nil {
		return nil, storeErr("failed to query sessions", err)
	}
	defer r.closeRows(rows, "sessions")

	return r.scanSnapshots(rows)
}

// SessionHistory returns every snapshot row for a session, ordered by
// updated_at ascending so the last element is the latest write.
func (r *Repository) SessionHistory(ctx context.Context, sessionID string) ([]*domain.SessionSnapshot, error) {
	query := `
		SELECT row_id, session_id, started_at, ended_at, duration, did_bounce,
		       entry_page, exit_page, project_id, updated_at
		FROM session_snapshots
		WHERE session_id = ?
		ORDER BY updated_at ASC, row_id ASC
	`

	rows, err := r.client.Conn().Query(ctx, query, sessionID)
	if err != nil {
		return nil, storeErr("failed to query session history", err)
	}
	defer r.closeRows(rows, "session history")

	return r.scanSnapshots(rows)
}

// StaleSessions returns current-state sessions that have not ended and
// started before the cutoff. The ended_at IS NULL predicate is what makes
// the staleness sweep idempotent.
func (r *Repository) StaleSessions(ctx context.Context, projectID string, cutoff time.Time) ([]*domain.SessionSnapshot, error) {
	query := fmt.Sprintf(`
		SELECT * FROM (%s)
		WHERE ended_at IS NULL AND started_at < ?
		ORDER BY started_at ASC, session_id ASC
	`, currentStateSubquery)

	rows, err := r.client.Conn().Query(ctx, query, projectID, cutoff)
	if err != nil {
		return nil, storeErr("failed to query stale sessions", err)
	}
	defer r.closeRows(rows, "stale sessions")

	return r.scanSnapshots(rows)
}

// InsertSnapshots appends snapshot rows in one batch.
func (r *Repository) InsertSnapshots(ctx context.Context, snapshots []*domain.SessionSnapshot) (int, error) {
	if len(snapshots) == 0 {
		return 0, nil
	}

	batch, err := r.client.Conn().PrepareBatch(ctx, "INSERT INTO session_snapshots")
	if err != nil {
		return 0, storeErr("failed to prepare snapshot batch", err)
	}

	insertedCount := 0
	for _, snapshot := range snapshots {
		err := batch.Append(
			snapshot.RowID,
			snapshot.SessionID,
			snapshot.StartedAt,
			snapshot.EndedAt,
			snapshot.Duration,
			snapshot.DidBounce,
			snapshot.EntryPage,
			snapshot.ExitPage,
			snapshot.ProjectID,
			snapshot.UpdatedAt,
		)
		if err != nil {
			return 0, fmt.Errorf("failed to append snapshot to batch: %w", err)
		}
		insertedCount++
	}

	if err := batch.Send(); err != nil {
		return 0, storeErr("failed to send snapshot batch", err)
	}

	return insertedCount, nil
}

// CountActiveSessions counts distinct sessions with page view activity at
// or after since. This is the live-visitor number.
func (r *Repository) CountActiveSessions(ctx context.Context, projectID string, since time.Time) (uint64, error) {
	query := `
		SELECT uniqExact(session_id)
		FROM page_views
		WHERE project_id = ? AND timestamp >= ?
	`

	var count uint64
	row := r.client.Conn().QueryRow(ctx, query, projectID, since)
	if err := row.Scan(&count); err != nil {
		return 0, storeErr("failed to count active sessions", err)
	}

	return count, nil
}

// TopPages returns the most viewed normalized paths within the window.
// Normalization happens in-database: path() strips scheme, host, query and
// fragment, and an empty path collapses to "/".
func (r *Repository) TopPages(ctx context.Context, projectID string, window repository.Window, limit int) ([]repository.PageCount, error) {
	query := `
		SELECT
			if(path(url) = '', '/', path(url)) AS page,
			count() AS views,
			uniqExact(session_id) AS sessions
		FROM page_views
		WHERE project_id = ? AND timestamp >= ? AND timestamp <= ?
		GROUP BY page
		ORDER BY views DESC, page ASC
		LIMIT ?
	`

	rows, err := r.client.Conn().Query(ctx, query, projectID, window.From, window.To, limit)
	if err != nil {
		return nil, storeErr("failed to query top pages", err)
	}
	defer r.closeRows(rows, "top pages")

	var pages []repository.PageCount
	for rows.Next() {
		var pc repository.PageCount
		if err := rows.Scan(&pc.Path, &pc.Views, &pc.Sessions); err != nil {
			return nil, fmt.Errorf("failed to scan top pages row: %w", err)
		}
		pages = append(pages, pc)
	}

	if err := rows.Err(); err != nil {
		return nil, storeErr("error iterating top pages rows", err)
	}

	return pages, nil
}

// Ping checks if the ClickHouse connection is alive
func (r *Repository) Ping(ctx context.Context) error {
	return r.client.Conn().Ping(ctx)
}

// Close closes the ClickHouse connection
func (r *Repository) Close() error {
	return r.client.Close()
}

func (r *Repository) scanSnapshots(rows driver.Rows) ([]*domain.SessionSnapshot, error) {
	var snapshots []*domain.SessionSnapshot
	for rows.Next() {
		var s domain.SessionSnapshot
		if err := rows.Scan(&s.RowID, &s.SessionID, &s.StartedAt, &s.EndedAt, &s.Duration,
			&s.DidBounce, &s.EntryPage, &s.ExitPage, &s.ProjectID, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot row: %w", err)
		}
		snapshots = append(snapshots, &s)
	}

	if err := rows.Err(); err != nil {
		return nil, storeErr("error iterating snapshot rows", err)
	}

	return snapshots, nil
}

func (r *Repository) closeRows(rows driver.Rows, what string) {
	if err := rows.Close(); err != nil {
		r.log.Error("Failed to close rows", zap.String("query", what), zap.Error(err))
	}
}
