// Package load computes session training load (sRPE) and the period
// statistics built on it: weekly totals, monotony, strain and the
// acute:chronic workload ratio.
package load

import (
	"math"

	"github.com/okian/readiness/internal/domain/model"
)

// Band thresholds on a day's total sRPE, in AU.
const (
	moderateFrom = 400
	highFrom     = 700
	veryHighFrom = 1000
)

// Band names.
const (
	BandLight    = "Ligera"
	BandModerate = "Moderada"
	BandHigh     = "Alta"
	BandVeryHigh = "Muy alta"
)

// SRPE returns rpe × duration for an entry. Negative or non-finite inputs
// count as 0.
func SRPE(e model.LoadEntry) float64 {
	return finite(e.RPE) * finite(e.DurationMinutes)
}

// EntryLoad returns the explicit load figure of an entry when it carries one,
// otherwise its sRPE.
func EntryLoad(e model.LoadEntry) float64 {
	if e.Load != nil {
		if v := finite(*e.Load); v > 0 {
			return v
		}
	}
	return SRPE(e)
}

// AlertLoad returns the rounded load of a day's entries, as consumed by the
// severity cascade. No entries yields 0.
func AlertLoad(entries []model.LoadEntry) int {
	var total float64
	for i := range entries {
		total += EntryLoad(entries[i])
	}
	return int(math.Round(total))
}

// Band classifies a day's total load for display.
func Band(total float64) string {
	switch {
	case total >= veryHighFrom:
		return BandVeryHigh
	case total >= highFrom:
		return BandHigh
	case total >= moderateFrom:
		return BandModerate
	default:
		return BandLight
	}
}

// ComputeACWR returns acute / chronic. It returns 0 when chronic is 0 (or
// not a usable number); 0 is a sentinel, never a valid ratio.
func ComputeACWR(acute, chronic float64) float64 {
	if chronic == 0 || math.IsNaN(chronic) || math.IsInf(chronic, 0) || math.IsNaN(acute) {
		return 0
	}
	r := acute / chronic
	if math.IsInf(r, 0) || math.IsNaN(r) {
		return 0
	}
	return r
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}
