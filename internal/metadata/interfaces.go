package metadata

import (
	"context"

	"github.com/trackpath/visit-analytics-service/internal/domain"
)

// FunnelStore defines read access to funnel and event-definition metadata.
type FunnelStore interface {
	// GetFunnel returns a funnel definition with its steps ordered by
	// stepOrder ascending, or domain.ErrNotFound.
	GetFunnel(ctx context.Context, funnelID string) (*domain.FunnelDefinition, error)

	// EventTrackingIDs returns the event-definition-id to tracking-id
	// mapping for a project.
	EventTrackingIDs(ctx context.Context, projectID string) (map[string]string, error)

	// Ping checks if the database connection is alive
	Ping(ctx context.Context) error

	// Close closes the store and releases resources
	Close() error
}
