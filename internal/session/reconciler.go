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

// Reconciler answers "what is this session's state now" over the append-only
// snapshot stream and applies partial updates by inserting new rows.
type Reconciler struct {
	store repository.EventStore
	log   *zap.Logger
	now   func() time.Time
}

// NewReconciler creates a new session reconciler
func NewReconciler(store repository.EventStore, log *zap.Logger) *Reconciler {
	return &Reconciler{
		store: store,
		log:   log,
		now:   time.Now,
	}
}

// CurrentState returns the snapshot row with the maximum updatedAt for the
// session, or domain.ErrNotFound if no rows exist.
func (r *Reconciler) CurrentState(ctx context.Context, sessionID string) (*domain.SessionSnapshot, error) {
	history, err := r.store.SessionHistory(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load session history: %w", err)
	}

	current := Latest(history)
	if current == nil {
		return nil, fmt.Errorf("session %s: %w", sessionID, domain.ErrNotFound)
	}

	return current, nil
}

// ApplyPartialUpdate reads the current state, merges the patch over it
// (present fields override, absent fields carry forward), and appends a new
// row with a fresh updatedAt. Concurrent writers never conflict
// destructively since each write is an independent insert; on near-equal
// timestamps the last write by timestamp wins and the earlier writer's
// unique contribution may be lost. That race is accepted and documented,
// not resolved here.
func (r *Reconciler) ApplyPartialUpdate(ctx context.Context, sessionID string, patch domain.SnapshotPatch) error {
	current, err := r.CurrentState(ctx, sessionID)
	if err != nil {
		return err
	}

	next := *current
	next.RowID = uuid.NewString()
	next.UpdatedAt = r.now()

	if patch.EndedAt != nil {
		next.EndedAt = patch.EndedAt
	}
	if patch.Duration != nil {
		next.Duration = patch.Duration
	}
	if patch.DidBounce != nil {
		next.DidBounce = *patch.DidBounce
	}
	if patch.ExitPage != nil {
		next.ExitPage = patch.ExitPage
	}

	if _, err := r.store.InsertSnapshots(ctx, []*domain.SessionSnapshot{&next}); err != nil {
		return fmt.Errorf("failed to append session snapshot: %w", err)
	}

	r.log.Debug("Session snapshot appended",
		zap.String("session_id", sessionID),
		zap.String("row_id", next.RowID))

	return nil
}
