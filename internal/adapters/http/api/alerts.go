package api

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/okian/readiness/internal/domain/model"
)

// AlertsHandler serves readiness assessments.
type AlertsHandler struct {
	deps Dependencies
}

// NewAlertsHandler creates a new alerts handler.
func NewAlertsHandler(deps Dependencies) *AlertsHandler {
	return &AlertsHandler{deps: deps}
}

type triageResponse struct {
	Date    model.Date          `json:"date"`
	Count   int                 `json:"count"`
	Results []model.AlertResult `json:"results"`
}

// HandleTriage handles GET /alerts?date=YYYY-MM-DD and returns the squad
// ranked by severity, then z ascending.
func (h *AlertsHandler) HandleTriage(w http.ResponseWriter, r *http.Request) {
	day, err := dateParam(r, "date", h.deps.Today())
	if err != nil {
		writeFailure(w, err)
		return
	}
	results, err := h.deps.Triage(r.Context(), day)
	if err != nil {
		writeFailure(w, err)
		return
	}
	if results == nil {
		results = []model.AlertResult{}
	}
	writeJSON(w, http.StatusOK, triageResponse{Date: day, Count: len(results), Results: results})
}

// HandleAlert handles GET /alerts/{athleteId}?date=YYYY-MM-DD.
func (h *AlertsHandler) HandleAlert(w http.ResponseWriter, r *http.Request) {
	athleteID := strings.TrimSpace(mux.Vars(r)["athleteId"])
	if athleteID == "" {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	day, err := dateParam(r, "date", h.deps.Today())
	if err != nil {
		writeFailure(w, err)
		return
	}
	res, err := h.deps.Alert(r.Context(), athleteID, day)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
