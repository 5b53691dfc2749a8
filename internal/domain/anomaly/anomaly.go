// Package anomaly turns a composite score and a personal baseline into a
// normalized deviation and a traffic-light color.
package anomaly

import (
	"math"

	"github.com/okian/readiness/internal/domain/model"
	"github.com/okian/readiness/internal/domain/wellness"
)

// Deviation thresholds.
const (
	YellowBelow = -0.5 // z below this is at least yellow
	RedBelow    = -1.0 // z below this is red
)

// Override thresholds on raw answers.
const (
	ShortSleepHours = 4.0
	SorenessLimit   = 2.0
	StressLimit     = 2.0
)

// Result is the classification of one report.
type Result struct {
	SDW   float64
	Z     *float64
	Base  model.Color // color from the deviation alone
	Color model.Color // color after overrides
}

// Deviation returns the z-score of sdw against b. It is nil when sdw is 0
// (nothing reported), the baseline is absent or its sd is not positive.
func Deviation(sdw float64, b wellness.Baseline) *float64 {
	if sdw == 0 || !b.Present() || !(b.SD > 0) {
		return nil
	}
	z := (sdw - b.Mean) / b.SD
	if math.IsNaN(z) || math.IsInf(z, 0) {
		return nil
	}
	return &z
}

// BaseColor maps a deviation to a color. A missing deviation is yellow:
// insufficient history means caution, not confidence.
func BaseColor(z *float64) model.Color {
	switch {
	case z == nil:
		return model.Yellow
	case *z >= YellowBelow:
		return model.Green
	case *z >= RedBelow:
		return model.Yellow
	default:
		return model.Red
	}
}

// override adjusts a color from raw answers. It may only hold or worsen.
type override func(model.Color, model.WellnessReport) model.Color

// overrides run in this order; later ones see the output of earlier ones.
var overrides = []override{
	func(c model.Color, r model.WellnessReport) model.Color {
		if c == model.Green && r.SleepHours.Below(ShortSleepHours) {
			return model.Yellow
		}
		return c
	},
	func(c model.Color, r model.WellnessReport) model.Color {
		if r.MuscleSoreness.AtMost(SorenessLimit) {
			return model.Red
		}
		return c
	},
	func(c model.Color, r model.WellnessReport) model.Color {
		if c == model.Green && r.Stress.AtMost(StressLimit) {
			return model.Yellow
		}
		return c
	},
}

// ApplyOverrides runs the raw-answer rules over c.
func ApplyOverrides(c model.Color, r model.WellnessReport) model.Color {
	for _, o := range overrides {
		next := o(c, r)
		if c.Worse(next) {
			continue
		}
		c = next
	}
	return c
}

// Classify computes SDW, deviation and color of r against b.
func Classify(r model.WellnessReport, b wellness.Baseline) Result {
	sdw := wellness.Composite(r)
	z := Deviation(sdw, b)
	base := BaseColor(z)
	return Result{
		SDW:   sdw,
		Z:     z,
		Base:  base,
		Color: ApplyOverrides(base, r),
	}
}
