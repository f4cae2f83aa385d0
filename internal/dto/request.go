package dto

// GetFunnelStatsRequest represents a funnel stats query request
type GetFunnelStatsRequest struct {
	From int64 `form:"from" binding:"required" example:"1723475612"`
	To   int64 `form:"to" binding:"required" example:"1723562012"`
}

// GetJourneyGraphRequest represents a journey graph query request
type GetJourneyGraphRequest struct {
	From int64 `form:"from" binding:"required" example:"1723475612"`
	To   int64 `form:"to" binding:"required" example:"1723562012"`
}

// GetTopPagesRequest represents a top pages query request
type GetTopPagesRequest struct {
	From  int64 `form:"from" binding:"required" example:"1723475612"`
	To    int64 `form:"to" binding:"required" example:"1723562012"`
	Limit int   `form:"limit,default=10" binding:"min=1,max=100" example:"10"`
}
