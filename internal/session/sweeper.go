package session

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/trackpath/visit-analytics-service/internal/domain"
	"github.com/trackpath/visit-analytics-service/internal/repository"
)

// StaleAfter is the inactivity bound after which an open session is
// force-closed.
const StaleAfter = 30 * time.Minute

// staleDuration is the duration recorded on a force-closed session, in
// seconds.
const staleDuration uint32 = 1800

// SweeperConfig configures the periodic staleness sweep
type SweeperConfig struct {
	Interval   time.Duration
	ProjectIDs []string
}

// Sweeper force-closes sessions with no activity for StaleAfter. The sweep
// is a read-modify-append with no cross-process lock: it is idempotent
// because stale-session selection filters on endedAt IS NULL, so overlapping
// sweeps at most write a redundant closing row.
type Sweeper struct {
	store  repository.EventStore
	config SweeperConfig
	log    *zap.Logger
	now    func() time.Time
}

// NewSweeper creates a new staleness sweeper
func NewSweeper(store repository.EventStore, config SweeperConfig, log *zap.Logger) *Sweeper {
	return &Sweeper{
		store:  store,
		config: config,
		log:    log,
		now:    time.Now,
	}
}

// CloseStale appends a closing snapshot for every open session in the
// project with no activity for StaleAfter, and returns how many sessions
// were closed.
func (s *Sweeper) CloseStale(ctx context.Context, projectID string) (int, error) {
	now := s.now()
	cutoff := now.Add(-StaleAfter)

	stale, err := s.store.StaleSessions(ctx, projectID, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to select stale sessions: %w", err)
	}

	if len(stale) == 0 {
		return 0, nil
	}

	closing := make([]*domain.SessionSnapshot, 0, len(stale))
	for _, current := range stale {
		next := *current
		next.RowID = uuid.NewString()
		next.UpdatedAt = now

		endedAt := now
		duration := staleDuration
		next.EndedAt = &endedAt
		next.Duration = &duration
		next.DidBounce = false

		closing = append(closing, &next)
	}

	closedCount, err := s.store.InsertSnapshots(ctx, closing)
	if err != nil {
		return 0, fmt.Errorf("failed to append closing snapshots: %w", err)
	}

	s.log.Info("Closed stale sessions",
		zap.String("project_id", projectID),
		zap.Int("count", closedCount))

	return closedCount, nil
}

// Run sweeps all configured projects on a ticker until the context is
// cancelled.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	s.log.Info("Sweeper starting",
		zap.Duration("interval", s.config.Interval),
		zap.Int("project_count", len(s.config.ProjectIDs)))

	for {
		select {
		case <-ctx.Done():
			s.log.Info("Sweeper shutting down")
			return

		case <-ticker.C:
			s.sweepAll(ctx)
		}
	}
}

func (s *Sweeper) sweepAll(ctx context.Context) {
	for _, projectID := range s.config.ProjectIDs {
		if ctx.Err() != nil {
			return
		}

		if _, err := s.CloseStale(ctx, projectID); err != nil {
			s.log.Error("Sweep failed",
				zap.String("project_id", projectID),
				zap.Error(err))
		}
	}
}
