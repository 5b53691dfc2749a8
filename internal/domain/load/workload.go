package load

import (
	"sort"

	"github.com/okian/readiness/internal/domain/model"
)

// Rolling windows, in days.
const (
	AcuteDays   = 7
	ChronicDays = 28
)

// Risk zones of the acute:chronic ratio.
const (
	ZoneUnknown = "unknown"
	ZoneUnder   = "under"
	ZoneOptimal = "optimal"
	ZoneCaution = "caution"
	ZoneDanger  = "danger"
)

// RiskZone classifies an ACWR value. The 0 sentinel maps to ZoneUnknown.
func RiskZone(acwr float64) string {
	switch {
	case acwr <= 0:
		return ZoneUnknown
	case acwr < 0.8:
		return ZoneUnder
	case acwr <= 1.3:
		return ZoneOptimal
	case acwr <= 1.5:
		return ZoneCaution
	default:
		return ZoneDanger
	}
}

// Workload derives acute and chronic figures from raw entries: acute is the
// total load of the 7 days ending asOf, chronic the mean weekly load of the
// 28 days ending asOf.
func Workload(athleteID string, entries []model.LoadEntry, asOf model.Date) model.Workload {
	daily := DailyTotals(entries)
	var acute, chronic float64
	for day, v := range daily {
		age := asOf.DaysSince(day)
		if age < 0 {
			continue
		}
		if age < AcuteDays {
			acute += v
		}
		if age < ChronicDays {
			chronic += v
		}
	}
	chronic /= float64(ChronicDays / AcuteDays)
	ratio := ComputeACWR(acute, chronic)
	return model.Workload{
		AthleteID: athleteID,
		AsOf:      asOf,
		Acute:     acute,
		Chronic:   chronic,
		ACWR:      ratio,
		Zone:      RiskZone(ratio),
	}
}

// TrendPoint is one day of the exponentially weighted load trend.
type TrendPoint struct {
	Date    model.Date `json:"date"`
	Load    float64    `json:"load"`
	Acute   float64    `json:"acute"`
	Chronic float64    `json:"chronic"`
	Ratio   float64    `json:"ratio"`
}

// FitnessTrend computes exponentially weighted acute (7-day) and chronic
// (28-day) loads for every day from the first to the last entry. Days
// without entries count as rest days.
func FitnessTrend(entries []model.LoadEntry) []TrendPoint {
	daily := DailyTotals(entries)
	if len(daily) == 0 {
		return nil
	}
	days := make([]model.Date, 0, len(daily))
	for d := range daily {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	acuteDecay := 2.0 / (AcuteDays + 1.0)
	chronicDecay := 2.0 / (ChronicDays + 1.0)

	var acute, chronic float64
	first, last := days[0], days[len(days)-1]
	points := make([]TrendPoint, 0, last.DaysSince(first)+1)
	for d := first; !d.After(last); d = d.AddDays(1) {
		v := daily[d]
		acute += acuteDecay * (v - acute)
		chronic += chronicDecay * (v - chronic)
		points = append(points, TrendPoint{
			Date:    d,
			Load:    v,
			Acute:   acute,
			Chronic: chronic,
			Ratio:   ComputeACWR(acute, chronic),
		})
	}
	return points
}
