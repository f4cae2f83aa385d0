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
)

func TestSweeper_CloseStale_ClosesIdleSessions(t *testing.T) {
	mockStore := new(MockEventStore)
	log := zap.NewNop()

	now := testBase.Add(31 * time.Minute)
	stale := []*domain.SessionSnapshot{
		{
			RowID:     "r1",
			SessionID: "sess1",
			ProjectID: "proj1",
			StartedAt: testBase,
			EntryPage: "/landing",
			DidBounce: true,
			UpdatedAt: testBase,
		},
	}

	mockStore.On("StaleSessions", mock.Anything, "proj1", now.Add(-StaleAfter)).Return(stale, nil)
	mockStore.On("InsertSnapshots", mock.Anything, mock.AnythingOfType("[]*domain.SessionSnapshot")).Return(1, nil)

	sweeper := NewSweeper(mockStore, SweeperConfig{Interval: time.Minute}, log)
	sweeper.now = func() time.Time { return now }

	closed, err := sweeper.CloseStale(context.Background(), "proj1")

	assert.NoError(t, err)
	assert.Equal(t, 1, closed)

	inserted := mockStore.Calls[1].Arguments.Get(1).([]*domain.SessionSnapshot)
	assert.Len(t, inserted, 1)
	closing := inserted[0]

	assert.Equal(t, "sess1", closing.SessionID)
	assert.Equal(t, now, *closing.EndedAt)
	assert.Equal(t, uint32(1800), *closing.Duration)
	assert.False(t, closing.DidBounce)
	assert.Equal(t, "/landing", closing.EntryPage)
	assert.NotEqual(t, "r1", closing.RowID)
	assert.Equal(t, now, closing.UpdatedAt)
}

func TestSweeper_CloseStale_NoStaleSessions(t *testing.T) {
	mockStore := new(MockEventStore)
	log := zap.NewNop()

	mockStore.On("StaleSessions", mock.Anything, "proj1", mock.AnythingOfType("time.Time")).Return([]*domain.SessionSnapshot{}, nil)

	sweeper := NewSweeper(mockStore, SweeperConfig{Interval: time.Minute}, log)

	// A session already closed by a previous sweep is filtered out by the
	// endedAt IS NULL predicate, so re-running writes nothing.
	closed, err := sweeper.CloseStale(context.Background(), "proj1")

	assert.NoError(t, err)
	assert.Equal(t, 0, closed)
	mockStore.AssertNotCalled(t, "InsertSnapshots")
}

func TestSweeper_CloseStale_StoreError(t *testing.T) {
	mockStore := new(MockEventStore)
	log := zap.NewNop()

	mockStore.On("StaleSessions", mock.Anything, "proj1", mock.AnythingOfType("time.Time")).Return(nil, errors.New("connection refused"))

	sweeper := NewSweeper(mockStore, SweeperConfig{Interval: time.Minute}, log)

	closed, err := sweeper.CloseStale(context.Background(), "proj1")

	assert.Error(t, err)
	assert.Zero(t, closed)
}
