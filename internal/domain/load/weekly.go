package load

import (
	"math"

	"github.com/okian/readiness/internal/domain/model"
)

// sdEpsilon is the population sd below which monotony is undefined.
const sdEpsilon = 1e-9

// DailyTotals sums the exact sRPE of entries per calendar day. An entry with
// no rpe × duration product contributes its explicit load figure instead.
func DailyTotals(entries []model.LoadEntry) map[model.Date]float64 {
	byDay := make(map[model.Date]float64)
	for i := range entries {
		e := entries[i]
		v := SRPE(e)
		if v == 0 {
			v = EntryLoad(e)
		}
		byDay[e.Date] += v
	}
	return byDay
}

// WeeklyTotals summarizes the days that have at least one entry. SD is the
// population standard deviation of the daily totals: the period is a fixed,
// realized week, not a sample. When SD is ~0 monotony and strain are 0.
func WeeklyTotals(entries []model.LoadEntry) model.WeeklyLoadSummary {
	byDay := DailyTotals(entries)
	s := model.WeeklyLoadSummary{ByDay: byDay}
	n := len(byDay)
	if n == 0 {
		return s
	}
	for _, v := range byDay {
		s.Total += v
	}
	s.Mean = s.Total / float64(n)
	var sq float64
	for _, v := range byDay {
		d := v - s.Mean
		sq += d * d
	}
	s.SD = math.Sqrt(sq / float64(n))
	if s.SD >= sdEpsilon {
		s.Monotony = s.Mean / s.SD
	}
	s.Strain = s.Total * s.Monotony
	return s
}
