package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/trackpath/visit-analytics-service/internal/config"
	"github.com/trackpath/visit-analytics-service/internal/domain"
)

// Store implements metadata.FunnelStore against Postgres
type Store struct {
	db  *sql.DB
	log *zap.Logger
}

// NewStore opens a Postgres connection and verifies it
func NewStore(ctx context.Context, cfg *config.Postgres, log *zap.Logger) (*Store, error) {
	db, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres connection: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	log.Info("Postgres connection established successfully")

	return &Store{db: db, log: log}, nil
}

// GetFunnel returns a funnel definition with its steps ordered by step_order
// ascending.
func (s *Store) GetFunnel(ctx context.Context, funnelID string) (*domain.FunnelDefinition, error) {
	funnel := &domain.FunnelDefinition{ID: funnelID}

	row := s.db.QueryRowContext(ctx, `
		SELECT project_id, end_date
		FROM funnels
		WHERE id = $1
	`, funnelID)

	if err := row.Scan(&funnel.ProjectID, &funnel.EndDate); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("funnel %s: %w", funnelID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to query funnel %s: %w", funnelID, err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, step_order, step_type, COALESCE(target_path, ''), COALESCE(event_tracking_id, '')
		FROM funnel_steps
		WHERE funnel_id = $1
		ORDER BY step_order ASC
	`, funnelID)
	if err != nil {
		return nil, fmt.Errorf("failed to query funnel steps: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			s.log.Error("Failed to close funnel step rows", zap.Error(err))
		}
	}()

	for rows.Next() {
		var step domain.FunnelStep
		var stepType string
		if err := rows.Scan(&step.ID, &step.StepOrder, &stepType, &step.TargetPath, &step.EventTrackingID); err != nil {
			return nil, fmt.Errorf("failed to scan funnel step row: %w", err)
		}
		step.Type = domain.StepType(stepType)
		funnel.Steps = append(funnel.Steps, step)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating funnel step rows: %w", err)
	}

	return funnel, nil
}

// EventTrackingIDs returns the event-definition-id to tracking-id mapping
// for a project.
func (s *Store) EventTrackingIDs(ctx context.Context, projectID string) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, tracking_id
		FROM event_definitions
		WHERE project_id = $1
	`, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to query event definitions: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			s.log.Error("Failed to close event definition rows", zap.Error(err))
		}
	}()

	trackingIDs := make(map[string]string)
	for rows.Next() {
		var id, trackingID string
		if err := rows.Scan(&id, &trackingID); err != nil {
			return nil, fmt.Errorf("failed to scan event definition row: %w", err)
		}
		trackingIDs[id] = trackingID
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating event definition rows: %w", err)
	}

	return trackingIDs, nil
}

// Ping checks if the Postgres connection is alive
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the Postgres connection
func (s *Store) Close() error {
	return s.db.Close()
}
