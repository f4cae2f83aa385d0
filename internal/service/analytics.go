package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/trackpath/visit-analytics-service/internal/activity"
	"github.com/trackpath/visit-analytics-service/internal/cache"
	"github.com/trackpath/visit-analytics-service/internal/domain"
	"github.com/trackpath/visit-analytics-service/internal/funnel"
	"github.com/trackpath/visit-analytics-service/internal/journey"
	"github.com/trackpath/visit-analytics-service/internal/metadata"
	"github.com/trackpath/visit-analytics-service/internal/repository"
	"github.com/trackpath/visit-analytics-service/internal/session"
)

// liveWindow bounds how far back page view activity still counts a visitor
// as live.
const liveWindow = 5 * time.Minute

// CacheTTLs holds the per-query-type TTLs for the result cache
type CacheTTLs struct {
	FunnelStats  time.Duration
	JourneyGraph time.Duration
	TopPages     time.Duration
	LiveVisitors time.Duration
}

// AnalyticsService answers dashboard queries over the event store. All
// computation is stateless and read-oriented except CloseStaleSessions,
// which performs batched append writes. Requests share no in-process
// mutable state and may run fully in parallel.
type AnalyticsService struct {
	eventStore  repository.EventStore
	funnelStore metadata.FunnelStore
	reconciler  *session.Reconciler
	sweeper     *session.Sweeper
	aggregator  *funnel.Aggregator
	cache       cache.Cache
	ttls        CacheTTLs
	log         *zap.Logger
	now         func() time.Time
}

// NewAnalyticsService creates a new analytics service
func NewAnalyticsService(
	eventStore repository.EventStore,
	funnelStore metadata.FunnelStore,
	reconciler *session.Reconciler,
	sweeper *session.Sweeper,
	resultCache cache.Cache,
	ttls CacheTTLs,
	log *zap.Logger,
) *AnalyticsService {
	return &AnalyticsService{
		eventStore:  eventStore,
		funnelStore: funnelStore,
		reconciler:  reconciler,
		sweeper:     sweeper,
		aggregator:  funnel.NewAggregator(log),
		cache:       resultCache,
		ttls:        ttls,
		log:         log,
		now:         time.Now,
	}
}

// GetFunnelStats computes step-by-step conversion and drop-off for a funnel
// over sessions started within the window. The window is clipped by the
// funnel's own end date when one is set.
func (s *AnalyticsService) GetFunnelStats(ctx context.Context, funnelID string, window repository.Window) (*funnel.Stats, error) {
	funnelDef, err := s.funnelStore.GetFunnel(ctx, funnelID)
	if err != nil {
		return nil, fmt.Errorf("failed to load funnel: %w", err)
	}

	if err := funnelDef.Validate(); err != nil {
		return nil, err
	}

	if funnelDef.EndDate != nil {
		window = window.ClipTo(*funnelDef.EndDate)
	}

	cacheKey := fmt.Sprintf("funnel_stats:%s:%d:%d", funnelID, window.From.Unix(), window.To.Unix())
	if cached, ok := s.cache.Get(cacheKey); ok {
		return cached.(*funnel.Stats), nil
	}

	population, skipped, err := s.loadSessionActivity(ctx, funnelDef.ProjectID, window)
	if err != nil {
		return nil, err
	}

	stats := s.aggregator.Stats(funnelDef, population)
	stats.SkippedSessions += skipped

	s.log.Info("Funnel stats computed",
		zap.String("funnel_id", funnelID),
		zap.Int("sessions", len(population)),
		zap.Int("skipped", stats.SkippedSessions),
		zap.Int("total_conversions", stats.TotalConversions))

	s.cache.Set(cacheKey, stats, s.ttls.FunnelStats)
	return stats, nil
}

// loadSessionActivity fetches sessions, page views and tracked events for
// the window concurrently, then merges each session's activity
// chronologically. Sessions whose activity fails to merge (malformed or
// unresolvable events, unordered rows) are skipped and counted rather than
// failing the whole aggregation.
func (s *AnalyticsService) loadSessionActivity(ctx context.Context, projectID string, window repository.Window) ([]funnel.SessionActivity, int, error) {
	var (
		sessions    []*domain.SessionSnapshot
		pageViews   []*domain.PageView
		events      []*domain.TrackedEvent
		trackingIDs map[string]string
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		sessions, err = s.eventStore.QuerySessions(gctx, projectID, window)
		return err
	})
	g.Go(func() error {
		var err error
		pageViews, err = s.eventStore.QueryPageViews(gctx, projectID, window)
		return err
	})
	g.Go(func() error {
		var err error
		events, err = s.eventStore.QueryTrackedEvents(gctx, projectID, window)
		return err
	})
	g.Go(func() error {
		var err error
		trackingIDs, err = s.funnelStore.EventTrackingIDs(gctx, projectID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, 0, fmt.Errorf("failed to load session activity: %w", err)
	}

	viewsBySession := make(map[string][]*domain.PageView)
	for _, pv := range pageViews {
		viewsBySession[pv.SessionID] = append(viewsBySession[pv.SessionID], pv)
	}
	eventsBySession := make(map[string][]*domain.TrackedEvent)
	for _, ev := range events {
		eventsBySession[ev.SessionID] = append(eventsBySession[ev.SessionID], ev)
	}

	resolve := func(definitionID string) (string, bool) {
		trackingID, ok := trackingIDs[definitionID]
		return trackingID, ok
	}

	population := make([]funnel.SessionActivity, 0, len(sessions))
	skipped := 0
	for _, snap := range sessions {
		items, err := activity.Merge(viewsBySession[snap.SessionID], eventsBySession[snap.SessionID], resolve)
		if err != nil {
			skipped++
			s.log.Warn("Skipping session with unmergeable activity",
				zap.String("session_id", snap.SessionID),
				zap.Error(err))
			continue
		}
		population = append(population, funnel.SessionActivity{Session: snap, Items: items})
	}

	return population, skipped, nil
}

// GetJourneyGraph builds the acyclic page-to-page transition graph for a
// project over the window.
func (s *AnalyticsService) GetJourneyGraph(ctx context.Context, projectID string, window repository.Window) (*domain.JourneyGraph, error) {
	cacheKey := fmt.Sprintf("journey_graph:%s:%d:%d", projectID, window.From.Unix(), window.To.Unix())
	if cached, ok := s.cache.Get(cacheKey); ok {
		return cached.(*domain.JourneyGraph), nil
	}

	pageViews, err := s.eventStore.QueryPageViews(ctx, projectID, window)
	if err != nil {
		return nil, fmt.Errorf("failed to load page views: %w", err)
	}

	// Page views arrive ordered by timestamp, so per-session sequences
	// stay chronological after grouping.
	bySession := make(map[string][]*domain.PageView)
	var sessionOrder []string
	for _, pv := range pageViews {
		if _, seen := bySession[pv.SessionID]; !seen {
			sessionOrder = append(sessionOrder, pv.SessionID)
		}
		bySession[pv.SessionID] = append(bySession[pv.SessionID], pv)
	}

	sequences := make([][]*domain.PageView, 0, len(sessionOrder))
	for _, sessionID := range sessionOrder {
		sequences = append(sequences, bySession[sessionID])
	}

	graph := journey.ReduceToAcyclic(journey.Build(sequences))

	s.log.Info("Journey graph built",
		zap.String("project_id", projectID),
		zap.Int("sessions", len(sequences)),
		zap.Int("nodes", len(graph.Nodes)),
		zap.Int("edges", len(graph.Edges)))

	s.cache.Set(cacheKey, graph, s.ttls.JourneyGraph)
	return graph, nil
}

// GetSessionCurrentState resolves a session's current state from its
// append-only snapshot history.
func (s *AnalyticsService) GetSessionCurrentState(ctx context.Context, sessionID string) (*domain.SessionSnapshot, error) {
	return s.reconciler.CurrentState(ctx, sessionID)
}

// CloseStaleSessions force-closes sessions idle past the staleness bound
// and returns how many were closed.
func (s *AnalyticsService) CloseStaleSessions(ctx context.Context, projectID string) (int, error) {
	return s.sweeper.CloseStale(ctx, projectID)
}

// GetTopPages returns the most viewed pages for a project within the window.
func (s *AnalyticsService) GetTopPages(ctx context.Context, projectID string, window repository.Window, limit int) ([]repository.PageCount, error) {
	cacheKey := fmt.Sprintf("top_pages:%s:%d:%d:%d", projectID, window.From.Unix(), window.To.Unix(), limit)
	if cached, ok := s.cache.Get(cacheKey); ok {
		return cached.([]repository.PageCount), nil
	}

	pages, err := s.eventStore.TopPages(ctx, projectID, window, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load top pages: %w", err)
	}

	s.cache.Set(cacheKey, pages, s.ttls.TopPages)
	return pages, nil
}

// GetLiveVisitorCount counts sessions with page view activity within the
// last five minutes.
func (s *AnalyticsService) GetLiveVisitorCount(ctx context.Context, projectID string) (uint64, error) {
	cacheKey := fmt.Sprintf("live_visitors:%s", projectID)
	if cached, ok := s.cache.Get(cacheKey); ok {
		return cached.(uint64), nil
	}

	count, err := s.eventStore.CountActiveSessions(ctx, projectID, s.now().Add(-liveWindow))
	if err != nil {
		return 0, fmt.Errorf("failed to count live visitors: %w", err)
	}

	s.cache.Set(cacheKey, count, s.ttls.LiveVisitors)
	return count, nil
}
