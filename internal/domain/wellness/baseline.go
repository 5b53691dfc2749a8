package wellness

import (
	"math"

	"github.com/okian/readiness/internal/domain/model"
)

// Default baseline parameters.
const (
	DefaultWindowDays = 21
	DefaultMinSamples = 7
)

// Baseline is an athlete's rolling reference distribution of SDW.
type Baseline struct {
	Mean float64 `json:"mean"`
	SD   float64 `json:"sd"` // sample standard deviation (n-1)
	N    int     `json:"n"`  // non-zero SDW values in the window

	minSamples int
}

// Present reports whether enough samples back the baseline.
func (b Baseline) Present() bool {
	need := b.minSamples
	if need <= 0 {
		need = DefaultMinSamples
	}
	return b.N >= need
}

// MeanPtr returns the mean when the baseline is present, nil otherwise.
func (b Baseline) MeanPtr() *float64 {
	if !b.Present() {
		return nil
	}
	m := b.Mean
	return &m
}

// Estimator computes baselines over a trailing window.
type Estimator struct {
	windowDays int
	minSamples int
}

// Option configures an Estimator.
type Option func(*Estimator)

// WithWindowDays sets the trailing window length.
func WithWindowDays(days int) Option {
	return func(e *Estimator) {
		if days > 0 {
			e.windowDays = days
		}
	}
}

// WithMinSamples sets the sample count needed for a present baseline.
func WithMinSamples(n int) Option {
	return func(e *Estimator) {
		if n > 0 {
			e.minSamples = n
		}
	}
}

// NewEstimator returns an Estimator with the 21-day / 7-sample defaults.
func NewEstimator(opts ...Option) *Estimator {
	e := &Estimator{
		windowDays: DefaultWindowDays,
		minSamples: DefaultMinSamples,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// WindowDays returns the configured window length.
func (e *Estimator) WindowDays() int { return e.windowDays }

// WindowStart returns the first day of the window that scores day.
func (e *Estimator) WindowStart(day model.Date) model.Date {
	return day.AddDays(-e.windowDays)
}

// Estimate computes the baseline of athleteID for scoring day, using the
// reports dated in [day-window, day). Reports of other athletes and reports
// outside the window are ignored, as are reports with SDW 0.
func (e *Estimator) Estimate(athleteID string, day model.Date, reports []model.WellnessReport) Baseline {
	from := e.WindowStart(day)
	values := make([]float64, 0, len(reports))
	for i := range reports {
		r := &reports[i]
		if athleteID != "" && r.AthleteID != athleteID {
			continue
		}
		if r.Date.Before(from) || !r.Date.Before(day) {
			continue
		}
		if sdw := Composite(*r); sdw != 0 {
			values = append(values, sdw)
		}
	}
	b := SampleStats(values)
	b.minSamples = e.minSamples
	return b
}

// SampleStats returns mean and Bessel-corrected standard deviation of
// values. SD is 0 when fewer than two values are given.
func SampleStats(values []float64) Baseline {
	n := len(values)
	if n == 0 {
		return Baseline{}
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(n)
	if n < 2 {
		return Baseline{Mean: mean, N: n}
	}
	var sq float64
	for _, v := range values {
		d := v - mean
		sq += d * d
	}
	return Baseline{Mean: mean, SD: math.Sqrt(sq / float64(n-1)), N: n}
}
