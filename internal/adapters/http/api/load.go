package api

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/okian/readiness/internal/domain/load"
	"github.com/okian/readiness/internal/domain/model"
)

// Default query windows.
const (
	weeklyDays = 7
	trendDays  = 42
)

// LoadHandler ingests session loads and serves load analytics.
type LoadHandler struct {
	deps Dependencies
}

// NewLoadHandler creates a new load handler.
func NewLoadHandler(deps Dependencies) *LoadHandler {
	return &LoadHandler{deps: deps}
}

// HandlePostLoad handles POST /load and answers with the stored entry's id.
func (h *LoadHandler) HandlePostLoad(w http.ResponseWriter, r *http.Request) {
	var req loadRequest
	if err := decode(w, r, &req); err != nil {
		writeFailure(w, err)
		return
	}
	if err := req.check(); err != nil {
		writeFailure(w, err)
		return
	}
	stored, err := h.deps.SubmitLoad(r.Context(), req.entry())
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, createdResponse{Status: "stored", ID: stored.ID})
}

// HandleWeekly handles GET /load/{athleteId}/weekly?from=&to=. Without from
// it covers the week ending today; without to it covers seven days from from.
func (h *LoadHandler) HandleWeekly(w http.ResponseWriter, r *http.Request) {
	athleteID, ok := athleteVar(w, r)
	if !ok {
		return
	}
	from, to, err := rangeParams(r, h.deps.Today(), weeklyDays)
	if err != nil {
		writeFailure(w, err)
		return
	}
	summary, err := h.deps.WeeklyLoad(r.Context(), athleteID, from, to)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// HandleWorkload handles GET /load/{athleteId}/workload?asOf=.
func (h *LoadHandler) HandleWorkload(w http.ResponseWriter, r *http.Request) {
	athleteID, ok := athleteVar(w, r)
	if !ok {
		return
	}
	asOf, err := dateParam(r, "asOf", h.deps.Today())
	if err != nil {
		writeFailure(w, err)
		return
	}
	wl, err := h.deps.Workload(r.Context(), athleteID, asOf)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, wl)
}

type trendResponse struct {
	AthleteID string            `json:"athleteId"`
	From      model.Date        `json:"from"`
	To        model.Date        `json:"to"`
	Points    []load.TrendPoint `json:"points"`
}

// HandleTrend handles GET /load/{athleteId}/trend?from=&to=, six weeks
// ending today by default.
func (h *LoadHandler) HandleTrend(w http.ResponseWriter, r *http.Request) {
	athleteID, ok := athleteVar(w, r)
	if !ok {
		return
	}
	from, to, err := rangeParams(r, h.deps.Today(), trendDays)
	if err != nil {
		writeFailure(w, err)
		return
	}
	points, err := h.deps.Trend(r.Context(), athleteID, from, to)
	if err != nil {
		writeFailure(w, err)
		return
	}
	if points == nil {
		points = []load.TrendPoint{}
	}
	writeJSON(w, http.StatusOK, trendResponse{AthleteID: athleteID, From: from, To: to, Points: points})
}

type acwrResponse struct {
	Acute   float64 `json:"acute"`
	Chronic float64 `json:"chronic"`
	ACWR    float64 `json:"acwr"`
	Zone    string  `json:"zone"`
}

// HandleACWR handles GET /acwr?acute=&chronic= on caller-supplied figures.
// A zero chronic load yields the 0 sentinel and the unknown zone.
func (h *LoadHandler) HandleACWR(w http.ResponseWriter, r *http.Request) {
	acute, err := floatParam(r, "acute")
	if err != nil {
		writeFailure(w, err)
		return
	}
	chronic, err := floatParam(r, "chronic")
	if err != nil {
		writeFailure(w, err)
		return
	}
	ratio := load.ComputeACWR(acute, chronic)
	writeJSON(w, http.StatusOK, acwrResponse{
		Acute:   acute,
		Chronic: chronic,
		ACWR:    ratio,
		Zone:    load.RiskZone(ratio),
	})
}

func athleteVar(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := strings.TrimSpace(mux.Vars(r)["athleteId"])
	if id == "" {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: missing athleteId", ErrBadRequest))
		return "", false
	}
	return id, true
}

// rangeParams reads the half-open [from, to) query range. With neither
// bound it is the span days ending today inclusive.
func rangeParams(r *http.Request, today model.Date, span int) (model.Date, model.Date, error) {
	from, err := dateParam(r, "from", today.AddDays(1-span))
	if err != nil {
		return model.Date{}, model.Date{}, err
	}
	to, err := dateParam(r, "to", from.AddDays(span))
	if err != nil {
		return model.Date{}, model.Date{}, err
	}
	return from, to, nil
}

func floatParam(r *http.Request, name string) (float64, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return 0, fmt.Errorf("%w: missing %s", ErrBadRequest, name)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0, fmt.Errorf("%w: invalid %s; must be a non-negative number", ErrBadRequest, name)
	}
	return v, nil
}
