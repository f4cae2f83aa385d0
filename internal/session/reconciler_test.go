package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/trackpath/visit-analytics-service/internal/domain"
	"github.com/trackpath/visit-analytics-service/internal/repository"
)

// MockEventStore is a mock implementation of repository.EventStore
type MockEventStore struct {
	mock.Mock
}

func (m *MockEventStore) QueryPageViews(ctx context.Context, projectID string, window repository.Window) ([]*domain.PageView, error) {
	args := m.Called(ctx, projectID, window)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.PageView), args.Error(1)
}

func (m *MockEventStore) QueryTrackedEvents(ctx context.Context, projectID string, window repository.Window) ([]*domain.TrackedEvent, error) {
	args := m.Called(ctx, projectID, window)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.TrackedEvent), args.Error(1)
}

func (m *MockEventStore) QuerySessions(ctx context.Context, projectID string, window repository.Window) ([]*domain.SessionSnapshot, error) {
	args := m.Called(ctx, projectID, window)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.SessionSnapshot), args.Error(1)
}

func (m *MockEventStore) SessionHistory(ctx context.Context, sessionID string) ([]*domain.SessionSnapshot, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.SessionSnapshot), args.Error(1)
}

func (m *MockEventStore) StaleSessions(ctx context.Context, projectID string, cutoff time.Time) ([]*domain.SessionSnapshot, error) {
	args := m.Called(ctx, projectID, cutoff)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.SessionSnapshot), args.Error(1)
}

func (m *MockEventStore) InsertSnapshots(ctx context.Context, snapshots []*domain.SessionSnapshot) (int, error) {
	args := m.Called(ctx, snapshots)
	return args.Int(0), args.Error(1)
}

func (m *MockEventStore) CountActiveSessions(ctx context.Context, projectID string, since time.Time) (uint64, error) {
	args := m.Called(ctx, projectID, since)
	return args.Get(0).(uint64), args.Error(1)
}

func (m *MockEventStore) TopPages(ctx context.Context, projectID string, window repository.Window, limit int) ([]repository.PageCount, error) {
	args := m.Called(ctx, projectID, window, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.PageCount), args.Error(1)
}

func (m *MockEventStore) InitSchema(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockEventStore) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockEventStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

// memoryStore is an append-only in-memory EventStore used for reconciler
// property tests. Only the snapshot methods are exercised.
type memoryStore struct {
	MockEventStore
	rows []*domain.SessionSnapshot
}

func (s *memoryStore) SessionHistory(_ context.Context, sessionID string) ([]*domain.SessionSnapshot, error) {
	var history []*domain.SessionSnapshot
	for _, row := range s.rows {
		if row.SessionID == sessionID {
			history = append(history, row)
		}
	}
	return history, nil
}

func (s *memoryStore) InsertSnapshots(_ context.Context, snapshots []*domain.SessionSnapshot) (int, error) {
	s.rows = append(s.rows, snapshots...)
	return len(snapshots), nil
}

func TestReconciler_CurrentState_NotFound(t *testing.T) {
	mockStore := new(MockEventStore)
	log := zap.NewNop()

	mockStore.On("SessionHistory", mock.Anything, "missing").Return([]*domain.SessionSnapshot{}, nil)

	reconciler := NewReconciler(mockStore, log)

	state, err := reconciler.CurrentState(context.Background(), "missing")

	assert.Nil(t, state)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReconciler_CurrentState_StoreError(t *testing.T) {
	mockStore := new(MockEventStore)
	log := zap.NewNop()

	mockStore.On("SessionHistory", mock.Anything, "sess1").Return(nil, errors.New("connection refused"))

	reconciler := NewReconciler(mockStore, log)

	_, err := reconciler.CurrentState(context.Background(), "sess1")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestReconciler_CurrentState_LatestRowWins(t *testing.T) {
	mockStore := new(MockEventStore)
	log := zap.NewNop()

	exitPage := "/goodbye"
	history := []*domain.SessionSnapshot{
		{RowID: "r1", SessionID: "sess1", EntryPage: "/home", UpdatedAt: testBase},
		{RowID: "r2", SessionID: "sess1", EntryPage: "/home", ExitPage: &exitPage, UpdatedAt: testBase.Add(time.Minute)},
	}
	mockStore.On("SessionHistory", mock.Anything, "sess1").Return(history, nil)

	reconciler := NewReconciler(mockStore, log)

	state, err := reconciler.CurrentState(context.Background(), "sess1")

	assert.NoError(t, err)
	assert.Equal(t, "r2", state.RowID)
	assert.Equal(t, "/goodbye", *state.ExitPage)
}

func TestReconciler_ApplyPartialUpdate_MergesOverCurrent(t *testing.T) {
	store := &memoryStore{}
	log := zap.NewNop()

	store.rows = append(store.rows, &domain.SessionSnapshot{
		RowID:     "r1",
		SessionID: "sess1",
		ProjectID: "proj1",
		StartedAt: testBase,
		EntryPage: "/home",
		DidBounce: true,
		UpdatedAt: testBase,
	})

	reconciler := NewReconciler(store, log)
	clock := testBase
	reconciler.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}

	// First update sets the exit page, second ends the session. Fields
	// from earlier snapshots must carry forward through both.
	exitPage := "/pricing"
	err := reconciler.ApplyPartialUpdate(context.Background(), "sess1", domain.SnapshotPatch{
		ExitPage: &exitPage,
	})
	assert.NoError(t, err)

	endedAt := testBase.Add(10 * time.Minute)
	duration := uint32(600)
	bounced := false
	err = reconciler.ApplyPartialUpdate(context.Background(), "sess1", domain.SnapshotPatch{
		EndedAt:   &endedAt,
		Duration:  &duration,
		DidBounce: &bounced,
	})
	assert.NoError(t, err)

	state, err := reconciler.CurrentState(context.Background(), "sess1")
	assert.NoError(t, err)

	// Latest call's fields, merged over everything set earlier.
	assert.Equal(t, "/home", state.EntryPage)
	assert.Equal(t, "/pricing", *state.ExitPage)
	assert.Equal(t, endedAt, *state.EndedAt)
	assert.Equal(t, uint32(600), *state.Duration)
	assert.False(t, state.DidBounce)

	// Every update appended a row; nothing was mutated in place.
	assert.Len(t, store.rows, 3)
	assert.Equal(t, "r1", store.rows[0].RowID)
	assert.NotEqual(t, store.rows[1].RowID, store.rows[2].RowID)
}

func TestReconciler_ApplyPartialUpdate_SessionMissing(t *testing.T) {
	mockStore := new(MockEventStore)
	log := zap.NewNop()

	mockStore.On("SessionHistory", mock.Anything, "missing").Return([]*domain.SessionSnapshot{}, nil)

	reconciler := NewReconciler(mockStore, log)

	err := reconciler.ApplyPartialUpdate(context.Background(), "missing", domain.SnapshotPatch{})

	assert.ErrorIs(t, err, domain.ErrNotFound)
	mockStore.AssertNotCalled(t, "InsertSnapshots")
}
