package api

import (
	"net/http"
)

// WellnessHandler ingests daily wellness questionnaires.
type WellnessHandler struct {
	deps Dependencies
}

// NewWellnessHandler creates a new wellness handler.
func NewWellnessHandler(deps Dependencies) *WellnessHandler {
	return &WellnessHandler{deps: deps}
}

// HandlePostWellness handles POST /wellness. A second report for the same
// athlete and day replaces the first.
func (h *WellnessHandler) HandlePostWellness(w http.ResponseWriter, r *http.Request) {
	var req wellnessRequest
	if err := decode(w, r, &req); err != nil {
		writeFailure(w, err)
		return
	}
	if err := h.deps.SubmitWellness(r.Context(), req.report()); err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, createdResponse{Status: "stored"})
}
