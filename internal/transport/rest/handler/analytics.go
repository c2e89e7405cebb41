package handler

import (
	"net/http"

	"github.com/SuryanshuBanerjee/tempmitra/internal/service"
)

// AnalyticsHandler handles admin analytics endpoints
type AnalyticsHandler struct {
	analyticsSvc *service.AnalyticsService
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(analyticsSvc *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsSvc: analyticsSvc}
}

// Overview handles GET /v1/admin/analytics
func (h *AnalyticsHandler) Overview(w http.ResponseWriter, r *http.Request) {
	overview, err := h.analyticsSvc.Overview(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, overview)
}

// Recompute handles POST /v1/admin/analytics/recompute
func (h *AnalyticsHandler) Recompute(w http.ResponseWriter, r *http.Request) {
	recount, err := h.analyticsSvc.RecomputeTopics(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, recount)
}
