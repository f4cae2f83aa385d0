package service

import (
	"context"

	"github.com/trackpath/visit-analytics-service/internal/domain"
	"github.com/trackpath/visit-analytics-service/internal/funnel"
	"github.com/trackpath/visit-analytics-service/internal/repository"
)

// AnalyticsServicer defines the interface for analytics query operations
type AnalyticsServicer interface {
	GetFunnelStats(ctx context.Context, funnelID string, window repository.Window) (*funnel.Stats, error)
	GetJourneyGraph(ctx context.Context, projectID string, window repository.Window) (*domain.JourneyGraph, error)
	GetSessionCurrentState(ctx context.Context, sessionID string) (*domain.SessionSnapshot, error)
	CloseStaleSessions(ctx context.Context, projectID string) (int, error)
	GetTopPages(ctx context.Context, projectID string, window repository.Window, limit int) ([]repository.PageCount, error)
	GetLiveVisitorCount(ctx context.Context, projectID string) (uint64, error)
}
