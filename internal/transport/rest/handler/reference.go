package handler

import (
	"net/http"

	"github.com/SuryanshuBanerjee/tempmitra/internal/triage"
)

// ReferenceHandler serves the static triage tables
type ReferenceHandler struct {
	lexicon *triage.Lexicon
}

// NewReferenceHandler creates a new reference handler
func NewReferenceHandler(classifier *triage.Classifier) *ReferenceHandler {
	return &ReferenceHandler{lexicon: classifier.Lexicon()}
}

// Lexicon handles GET /v1/reference/lexicon
func (h *ReferenceHandler) Lexicon(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.lexicon.Snapshot())
}

// Cutoffs handles GET /v1/reference/cutoffs
func (h *ReferenceHandler) Cutoffs(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, triage.Cutoffs())
}

// Hotlines handles GET /v1/reference/hotlines
func (h *ReferenceHandler) Hotlines(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, triage.Hotlines())
}
