package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/SuryanshuBanerjee/tempmitra/internal/model"
	"github.com/SuryanshuBanerjee/tempmitra/internal/service"
	"github.com/SuryanshuBanerjee/tempmitra/internal/transport/rest/middleware"
)

// ScreeningHandler handles screening endpoints
type ScreeningHandler struct {
	screeningSvc *service.ScreeningService
}

// NewScreeningHandler creates a new screening handler
func NewScreeningHandler(screeningSvc *service.ScreeningService) *ScreeningHandler {
	return &ScreeningHandler{screeningSvc: screeningSvc}
}

// Submit handles POST /v1/screenings/{instrument}
func (h *ScreeningHandler) Submit(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req model.SubmitScreeningRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.screeningSvc.Submit(r.Context(), userID, mux.Vars(r)["instrument"], req.Responses)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}

// History handles GET /v1/screenings/history
func (h *ScreeningHandler) History(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	history, err := h.screeningSvc.History(r.Context(), userID, queryLimit(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, history)
}

// RiskProfile handles GET /v1/users/{id}/risk-profile
func (h *ScreeningHandler) RiskProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.screeningSvc.Profile(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, profile)
}
