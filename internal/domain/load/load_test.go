package load_test

import (
	"math"
	"testing"
	"time"

	"github.com/okian/readiness/internal/domain/load"
	"github.com/okian/readiness/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

var monday = model.NewDate(2025, time.May, 5)

func entry(day model.Date, rpe, minutes float64) model.LoadEntry {
	return model.LoadEntry{AthleteID: "a", Date: day, RPE: rpe, DurationMinutes: minutes}
}

func TestSRPE(t *testing.T) {
	Convey("Given load entries", t, func() {
		Convey("Then sRPE is rpe times duration, kept exact", func() {
			So(load.SRPE(entry(monday, 6.5, 75)), ShouldEqual, 487.5)
		})

		Convey("Then unusable inputs count as 0", func() {
			So(load.SRPE(entry(monday, -1, 60)), ShouldEqual, 0)
			So(load.SRPE(entry(monday, math.NaN(), 60)), ShouldEqual, 0)
		})

		Convey("Then an explicit load figure wins for the alert path", func() {
			e := entry(monday, 5, 60)
			v := 420.0
			e.Load = &v
			So(load.EntryLoad(e), ShouldEqual, 420)
		})
	})
}

func TestAlertLoad(t *testing.T) {
	Convey("Given yesterday's entries", t, func() {
		Convey("Then the total is rounded to the nearest integer", func() {
			So(load.AlertLoad([]model.LoadEntry{entry(monday, 6.5, 75)}), ShouldEqual, 488)
			So(load.AlertLoad([]model.LoadEntry{entry(monday, 7, 60), entry(monday, 3, 30)}), ShouldEqual, 510)
		})

		Convey("Then no entries means 0", func() {
			So(load.AlertLoad(nil), ShouldEqual, 0)
		})
	})
}

func TestBand(t *testing.T) {
	Convey("Given daily totals on the band edges", t, func() {
		So(load.Band(0), ShouldEqual, load.BandLight)
		So(load.Band(399.9), ShouldEqual, load.BandLight)
		So(load.Band(400), ShouldEqual, load.BandModerate)
		So(load.Band(699), ShouldEqual, load.BandModerate)
		So(load.Band(700), ShouldEqual, load.BandHigh)
		So(load.Band(999), ShouldEqual, load.BandHigh)
		So(load.Band(1000), ShouldEqual, load.BandVeryHigh)
	})
}

func TestWeeklyTotals(t *testing.T) {
	Convey("Given a week of sessions", t, func() {
		entries := []model.LoadEntry{
			entry(monday, 5, 60),            // 300
			entry(monday, 4, 25),            // 100 -> monday 400
			entry(monday.AddDays(2), 8, 75), // 600
			entry(monday.AddDays(4), 4, 50), // 200
		}
		s := load.WeeklyTotals(entries)

		Convey("Then days are summed and counted once", func() {
			So(s.ByDay, ShouldHaveLength, 3)
			So(s.ByDay[monday], ShouldEqual, 400)
			So(s.Total, ShouldEqual, 1200)
			So(s.Mean, ShouldEqual, 400)
		})

		Convey("Then sd uses the population divisor", func() {
			So(s.SD, ShouldAlmostEqual, math.Sqrt(80000.0/3.0), 1e-9)
		})

		Convey("Then monotony and strain follow from mean and sd", func() {
			So(s.Monotony, ShouldAlmostEqual, s.Mean/s.SD, 1e-12)
			So(s.Strain, ShouldEqual, s.Total*s.Monotony)
		})

		Convey("Then the per-day values add up to the total", func() {
			var sum float64
			for _, v := range s.ByDay {
				sum += v
			}
			So(sum, ShouldEqual, s.Total)
		})
	})

	Convey("Given identical daily loads", t, func() {
		s := load.WeeklyTotals([]model.LoadEntry{entry(monday, 5, 60), entry(monday.AddDays(1), 5, 60)})

		Convey("Then monotony falls back to the 0 sentinel", func() {
			So(s.SD, ShouldEqual, 0)
			So(s.Monotony, ShouldEqual, 0)
			So(s.Strain, ShouldEqual, 0)
		})
	})

	Convey("Given no entries", t, func() {
		s := load.WeeklyTotals(nil)

		Convey("Then every figure is zero", func() {
			So(s.ByDay, ShouldBeEmpty)
			So(s.Total, ShouldEqual, 0)
			So(s.Monotony, ShouldEqual, 0)
		})
	})
}

func TestComputeACWR(t *testing.T) {
	Convey("Given acute and chronic figures", t, func() {
		So(load.ComputeACWR(1300, 1000), ShouldAlmostEqual, 1.3, 1e-12)
		So(load.ComputeACWR(0, 1000), ShouldEqual, 0)
		So(load.ComputeACWR(500, 0), ShouldEqual, 0)
		So(load.ComputeACWR(0, 0), ShouldEqual, 0)
		So(load.ComputeACWR(math.NaN(), 10), ShouldEqual, 0)
	})
}

func TestWorkload(t *testing.T) {
	Convey("Given four weeks of steady load and a spike week", t, func() {
		asOf := monday.AddDays(27)
		var entries []model.LoadEntry
		for i := 0; i < 21; i++ {
			entries = append(entries, entry(monday.AddDays(i), 5, 60)) // 300/day
		}
		for i := 21; i < 28; i++ {
			entries = append(entries, entry(monday.AddDays(i), 8, 75)) // 600/day
		}
		entries = append(entries, entry(asOf.AddDays(1), 10, 200)) // after asOf, ignored

		w := load.Workload("a", entries, asOf)

		Convey("Then acute is the last 7 days and chronic the weekly mean of 28", func() {
			So(w.Acute, ShouldEqual, 4200)
			So(w.Chronic, ShouldEqual, (21*300.0+7*600.0)/4)
			So(w.ACWR, ShouldAlmostEqual, 4200/((21*300.0+7*600.0)/4), 1e-12)
			So(w.Zone, ShouldEqual, load.ZoneDanger)
		})
	})

	Convey("Given no history", t, func() {
		w := load.Workload("a", nil, monday)

		Convey("Then the ratio is the sentinel", func() {
			So(w.ACWR, ShouldEqual, 0)
			So(w.Zone, ShouldEqual, load.ZoneUnknown)
		})
	})
}

func TestRiskZone(t *testing.T) {
	Convey("Given ratios across the zones", t, func() {
		So(load.RiskZone(0.5), ShouldEqual, load.ZoneUnder)
		So(load.RiskZone(0.8), ShouldEqual, load.ZoneOptimal)
		So(load.RiskZone(1.3), ShouldEqual, load.ZoneOptimal)
		So(load.RiskZone(1.4), ShouldEqual, load.ZoneCaution)
		So(load.RiskZone(1.8), ShouldEqual, load.ZoneDanger)
	})
}

func TestFitnessTrend(t *testing.T) {
	Convey("Given sessions with a rest gap", t, func() {
		trend := load.FitnessTrend([]model.LoadEntry{
			entry(monday, 5, 80),
			entry(monday.AddDays(3), 5, 80),
		})

		Convey("Then every calendar day is present", func() {
			So(trend, ShouldHaveLength, 4)
			So(trend[1].Load, ShouldEqual, 0)
		})

		Convey("Then the acute average reacts faster than the chronic one", func() {
			So(trend[0].Acute, ShouldBeGreaterThan, trend[0].Chronic)
			So(trend[2].Acute, ShouldBeLessThan, trend[1].Acute)
		})
	})

	Convey("Given no entries", t, func() {
		So(load.FitnessTrend(nil), ShouldBeNil)
	})
}
