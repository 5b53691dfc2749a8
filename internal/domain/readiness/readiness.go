// Package readiness composes the scoring pieces into the per-athlete daily
// assessment: composite score, personal baseline, deviation and color, and
// the severity cascade.
package readiness

import (
	"github.com/okian/readiness/internal/domain/anomaly"
	"github.com/okian/readiness/internal/domain/model"
	"github.com/okian/readiness/internal/domain/severity"
	"github.com/okian/readiness/internal/domain/wellness"
)

// Input is everything needed to assess one athlete on one day.
type Input struct {
	AthleteID string
	Date      model.Date
	Today     *model.WellnessReport  // nil when the athlete did not report
	Yesterday *model.WellnessReport  // nil when there is no report for Date-1
	Window    []model.WellnessReport // reports dated in [Date-window, Date)
	PrevLoad  int                    // rounded sRPE of Date-1
}

// Engine assesses readiness. It holds no mutable state and is safe for
// concurrent use.
type Engine struct {
	estimator *wellness.Estimator
}

// NewEngine builds an Engine; options tune the baseline window.
func NewEngine(opts ...wellness.Option) *Engine {
	return &Engine{estimator: wellness.NewEstimator(opts...)}
}

// WindowDays returns the baseline window length.
func (e *Engine) WindowDays() int { return e.estimator.WindowDays() }

// Assess computes the AlertResult for in.
func (e *Engine) Assess(in Input) model.AlertResult {
	baseline := e.estimator.Estimate(in.AthleteID, in.Date, in.Window)

	var today model.WellnessReport
	if in.Today != nil {
		today = *in.Today
	}
	cls := anomaly.Classify(today, baseline)

	var prev *model.Color
	if in.Yesterday != nil && wellness.Composite(*in.Yesterday) != 0 {
		c := anomaly.Classify(*in.Yesterday, baseline).Color
		prev = &c
	}

	out := severity.Evaluate(severity.Input{
		SDW:            cls.SDW,
		BaselineMean:   baseline.MeanPtr(),
		Z:              cls.Z,
		Color:          cls.Color,
		SleepHours:     today.SleepHours,
		MuscleSoreness: today.MuscleSoreness,
		Stress:         today.Stress,
		PrevLoad:       in.PrevLoad,
		PrevColor:      prev,
	})

	return model.AlertResult{
		UserID:       in.AthleteID,
		Date:         in.Date,
		SDW:          cls.SDW,
		BaselineMean: baseline.MeanPtr(),
		Z:            cls.Z,
		Color:        cls.Color,
		Severity:     out.Severity,
		Reasons:      out.Reasons,
		Suggestions:  out.Suggestions,
		SRPEPrev:     in.PrevLoad,
	}
}

// Split sorts an athlete's reports dated in [day-window, day] into today's
// report, yesterday's report and the baseline window.
func Split(day model.Date, reports []model.WellnessReport) (today, yesterday *model.WellnessReport, window []model.WellnessReport) {
	prevDay := day.AddDays(-1)
	window = make([]model.WellnessReport, 0, len(reports))
	for i := range reports {
		r := reports[i]
		switch {
		case r.Date == day:
			today = &r
		case r.Date.After(day):
			continue
		default:
			if r.Date == prevDay {
				yesterday = &r
			}
			window = append(window, r)
		}
	}
	return today, yesterday, window
}
