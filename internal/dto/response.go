package dto

import (
	"time"

	"github.com/trackpath/visit-analytics-service/internal/domain"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error" example:"validation_error"`
	Message string `json:"message,omitempty" example:"from must be before to"`
}

// SessionResponse represents a session's current state
type SessionResponse struct {
	SessionID string     `json:"session_id" example:"sess_1a2b3c"`
	ProjectID string     `json:"project_id" example:"proj_42"`
	StartedAt time.Time  `json:"started_at"`
	EndedAt   *time.Time `json:"ended_at,omitempty"`
	Duration  *uint32    `json:"duration,omitempty" example:"1800"`
	DidBounce bool       `json:"did_bounce" example:"false"`
	EntryPage string     `json:"entry_page" example:"/pricing"`
	ExitPage  *string    `json:"exit_page,omitempty" example:"/welcome"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// NewSessionResponse converts a session snapshot into its API shape
func NewSessionResponse(snapshot *domain.SessionSnapshot) SessionResponse {
	return SessionResponse{
		SessionID: snapshot.SessionID,
		ProjectID: snapshot.ProjectID,
		StartedAt: snapshot.StartedAt,
		EndedAt:   snapshot.EndedAt,
		Duration:  snapshot.Duration,
		DidBounce: snapshot.DidBounce,
		EntryPage: snapshot.EntryPage,
		ExitPage:  snapshot.ExitPage,
		UpdatedAt: snapshot.UpdatedAt,
	}
}

// CloseStaleSessionsResponse reports a staleness sweep result
type CloseStaleSessionsResponse struct {
	ProjectID   string `json:"project_id" example:"proj_42"`
	ClosedCount int    `json:"closed_count" example:"7"`
}

// PageCountData is one row of a top pages response
type PageCountData struct {
	Path     string `json:"path" example:"/pricing"`
	Views    uint64 `json:"views" example:"1500"`
	Sessions uint64 `json:"sessions" example:"900"`
}

// TopPagesResponse represents a top pages query response
type TopPagesResponse struct {
	ProjectID string          `json:"project_id" example:"proj_42"`
	From      int64           `json:"from" example:"1723475612"`
	To        int64           `json:"to" example:"1723562012"`
	Pages     []PageCountData `json:"pages"`
}

// LiveVisitorsResponse represents a live visitor count response
type LiveVisitorsResponse struct {
	ProjectID string `json:"project_id" example:"proj_42"`
	Count     uint64 `json:"count" example:"23"`
}
