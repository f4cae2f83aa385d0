package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/trackpath/visit-analytics-service/docs"
	"github.com/trackpath/visit-analytics-service/internal/domain"
	"github.com/trackpath/visit-analytics-service/internal/dto"
	"github.com/trackpath/visit-analytics-service/internal/repository"
	"github.com/trackpath/visit-analytics-service/internal/service"
)

type Handler struct {
	analyticsService service.AnalyticsServicer
	router           *gin.Engine
	log              *zap.Logger
}

func NewHandler(analyticsService service.AnalyticsServicer, log *zap.Logger) *Handler {
	h := &Handler{
		analyticsService: analyticsService,
		router:           gin.Default(),
		log:              log,
	}

	h.registerRoutes()

	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *Handler) registerRoutes() {
	h.router.GET("/health", h.healthCheck)
	h.router.GET("/funnels/:funnelId/stats", h.getFunnelStats)
	h.router.GET("/projects/:projectId/journey", h.getJourneyGraph)
	h.router.GET("/projects/:projectId/pages/top", h.getTopPages)
	h.router.GET("/projects/:projectId/visitors/live", h.getLiveVisitors)
	h.router.POST("/projects/:projectId/sessions/close-stale", h.closeStaleSessions)
	h.router.GET("/sessions/:sessionId", h.getSessionState)
	h.router.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}

// respondError maps domain errors onto HTTP statuses
func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, dto.ErrorResponse{
			Error:   "not_found",
			Message: err.Error(),
		})
	case errors.Is(err, domain.ErrInvalidDefinition):
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "invalid_definition",
			Message: err.Error(),
		})
	case errors.Is(err, domain.ErrInconsistentOrdering):
		c.JSON(http.StatusUnprocessableEntity, dto.ErrorResponse{
			Error:   "inconsistent_ordering",
			Message: err.Error(),
		})
	case errors.Is(err, domain.ErrStoreUnavailable):
		c.JSON(http.StatusServiceUnavailable, dto.ErrorResponse{
			Error:   "store_unavailable",
			Message: err.Error(),
		})
	default:
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error:   "internal_error",
			Message: err.Error(),
		})
	}
}

func windowOf(from, to int64) repository.Window {
	return repository.Window{
		From: time.Unix(from, 0).UTC(),
		To:   time.Unix(to, 0).UTC(),
	}
}

// healthCheck handles health check requests
// @Summary Health check
// @Description Check if the service is running
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// getFunnelStats handles GET /funnels/:funnelId/stats
// @Summary Get funnel conversion stats
// @Description Compute per-step conversions, drop-offs and a daily time series for a funnel
// @Tags funnels
// @Produce json
// @Param funnelId path string true "Funnel ID"
// @Param from query int true "Start timestamp (Unix epoch)" example:"1723475612"
// @Param to query int true "End timestamp (Unix epoch)" example:"1723562012"
// @Success 200 {object} funnel.Stats
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /funnels/{funnelId}/stats [get]
func (h *Handler) getFunnelStats(c *gin.Context) {
	var req dto.GetFunnelStatsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.log.Warn("Invalid funnel stats request", zap.Error(err))
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	if req.From > req.To {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "validation_error",
			Message: "from must be less than or equal to to",
		})
		return
	}

	funnelID := c.Param("funnelId")
	stats, err := h.analyticsService.GetFunnelStats(c.Request.Context(), funnelID, windowOf(req.From, req.To))
	if err != nil {
		h.log.Error("Failed to get funnel stats",
			zap.Error(err),
			zap.String("funnel_id", funnelID))
		h.respondError(c, err)
		return
	}

	h.log.Info("Funnel stats retrieved",
		zap.String("funnel_id", funnelID),
		zap.Int("total_conversions", stats.TotalConversions))

	c.JSON(http.StatusOK, stats)
}

// getJourneyGraph handles GET /projects/:projectId/journey
// @Summary Get journey graph
// @Description Build the acyclic page-to-page transition graph for a project
// @Tags journeys
// @Produce json
// @Param projectId path string true "Project ID"
// @Param from query int true "Start timestamp (Unix epoch)" example:"1723475612"
// @Param to query int true "End timestamp (Unix epoch)" example:"1723562012"
// @Success 200 {object} domain.JourneyGraph
// @Failure 400 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /projects/{projectId}/journey [get]
func (h *Handler) getJourneyGraph(c *gin.Context) {
	var req dto.GetJourneyGraphRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.log.Warn("Invalid journey graph request", zap.Error(err))
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	if req.From > req.To {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "validation_error",
			Message: "from must be less than or equal to to",
		})
		return
	}

	projectID := c.Param("projectId")
	graph, err := h.analyticsService.GetJourneyGraph(c.Request.Context(), projectID, windowOf(req.From, req.To))
	if err != nil {
		h.log.Error("Failed to get journey graph",
			zap.Error(err),
			zap.String("project_id", projectID))
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, graph)
}

// getTopPages handles GET /projects/:projectId/pages/top
// @Summary Get top pages
// @Description Return the most viewed normalized paths for a project
// @Tags pages
// @Produce json
// @Param projectId path string true "Project ID"
// @Param from query int true "Start timestamp (Unix epoch)" example:"1723475612"
// @Param to query int true "End timestamp (Unix epoch)" example:"1723562012"
// @Param limit query int false "Maximum rows" example:"10"
// @Success 200 {object} dto.TopPagesResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /projects/{projectId}/pages/top [get]
func (h *Handler) getTopPages(c *gin.Context) {
	var req dto.GetTopPagesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.log.Warn("Invalid top pages request", zap.Error(err))
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	projectID := c.Param("projectId")
	pages, err := h.analyticsService.GetTopPages(c.Request.Context(), projectID, windowOf(req.From, req.To), req.Limit)
	if err != nil {
		h.log.Error("Failed to get top pages",
			zap.Error(err),
			zap.String("project_id", projectID))
		h.respondError(c, err)
		return
	}

	response := dto.TopPagesResponse{
		ProjectID: projectID,
		From:      req.From,
		To:        req.To,
		Pages:     make([]dto.PageCountData, 0, len(pages)),
	}
	for _, page := range pages {
		response.Pages = append(response.Pages, dto.PageCountData{
			Path:     page.Path,
			Views:    page.Views,
			Sessions: page.Sessions,
		})
	}

	c.JSON(http.StatusOK, response)
}

// getLiveVisitors handles GET /projects/:projectId/visitors/live
// @Summary Get live visitor count
// @Description Count sessions with page view activity in the last five minutes
// @Tags visitors
// @Produce json
// @Param projectId path string true "Project ID"
// @Success 200 {object} dto.LiveVisitorsResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /projects/{projectId}/visitors/live [get]
func (h *Handler) getLiveVisitors(c *gin.Context) {
	projectID := c.Param("projectId")

	count, err := h.analyticsService.GetLiveVisitorCount(c.Request.Context(), projectID)
	if err != nil {
		h.log.Error("Failed to get live visitor count",
			zap.Error(err),
			zap.String("project_id", projectID))
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.LiveVisitorsResponse{
		ProjectID: projectID,
		Count:     count,
	})
}

// closeStaleSessions handles POST /projects/:projectId/sessions/close-stale
// @Summary Close stale sessions
// @Description Force-close sessions with no activity for 30 minutes
// @Tags sessions
// @Produce json
// @Param projectId path string true "Project ID"
// @Success 200 {object} dto.CloseStaleSessionsResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /projects/{projectId}/sessions/close-stale [post]
func (h *Handler) closeStaleSessions(c *gin.Context) {
	projectID := c.Param("projectId")

	closedCount, err := h.analyticsService.CloseStaleSessions(c.Request.Context(), projectID)
	if err != nil {
		h.log.Error("Failed to close stale sessions",
			zap.Error(err),
			zap.String("project_id", projectID))
		h.respondError(c, err)
		return
	}

	h.log.Info("Stale sessions closed",
		zap.String("project_id", projectID),
		zap.Int("closed_count", closedCount))

	c.JSON(http.StatusOK, dto.CloseStaleSessionsResponse{
		ProjectID:   projectID,
		ClosedCount: closedCount,
	})
}

// getSessionState handles GET /sessions/:sessionId
// @Summary Get session current state
// @Description Resolve a session's current state from its snapshot history
// @Tags sessions
// @Produce json
// @Param sessionId path string true "Session ID"
// @Success 200 {object} dto.SessionResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /sessions/{sessionId} [get]
func (h *Handler) getSessionState(c *gin.Context) {
	sessionID := c.Param("sessionId")

	snapshot, err := h.analyticsService.GetSessionCurrentState(c.Request.Context(), sessionID)
	if err != nil {
		h.log.Warn("Failed to get session state",
			zap.Error(err),
			zap.String("session_id", sessionID))
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSessionResponse(snapshot))
}
