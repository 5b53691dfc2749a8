package readiness_test

import (
	"testing"
	"time"

	"github.com/okian/readiness/internal/domain/model"
	"github.com/okian/readiness/internal/domain/readiness"
	"github.com/okian/readiness/internal/domain/severity"
	. "github.com/smartystreets/goconvey/convey"
)

var today = model.NewDate(2025, time.June, 2)

func uniform(day model.Date, v float64) model.WellnessReport {
	s := model.Score(v)
	return model.WellnessReport{
		AthleteID: "ath-1", Date: day,
		SleepQuality: s, Fatigue: s, MuscleSoreness: s, Stress: s, Mood: s,
	}
}

// history returns 21 days averaging 4.0 with sample sd 0.5.
func history() []model.WellnessReport {
	var out []model.WellnessReport
	for i := 1; i <= 21; i++ {
		v := 4.0
		switch {
		case i <= 10:
			v = 3.5
		case i <= 20:
			v = 4.5
		}
		out = append(out, uniform(today.AddDays(-i), v))
	}
	return out
}

func soreToday() *model.WellnessReport {
	return &model.WellnessReport{
		AthleteID:      "ath-1",
		Date:           today,
		SleepQuality:   model.Score(3),
		Fatigue:        model.Score(3),
		MuscleSoreness: model.Score(1),
		Stress:         model.Score(3),
		Mood:           model.Score(3),
	}
}

func TestAssess(t *testing.T) {
	engine := readiness.NewEngine()

	Convey("Given an athlete with a solid 21-day history", t, func() {
		window := history()

		Convey("When today's report shows soreness of 1", func() {
			res := engine.Assess(readiness.Input{
				AthleteID: "ath-1",
				Date:      today,
				Today:     soreToday(),
				Window:    window,
			})

			Convey("Then the assessment is CRITICAL and red", func() {
				So(res.UserID, ShouldEqual, "ath-1")
				So(res.Date, ShouldEqual, today)
				So(res.SDW, ShouldAlmostEqual, 2.6, 1e-9)
				So(*res.BaselineMean, ShouldAlmostEqual, 4.0, 1e-9)
				So(*res.Z, ShouldAlmostEqual, -2.8, 1e-9)
				So(res.Color, ShouldEqual, model.Red)
				So(res.Severity, ShouldEqual, model.Critical)
			})

			Convey("And the soreness reason and physio suggestion are present", func() {
				So(res.Reasons, ShouldContain, severity.ReasonSoreness)
				So(res.Suggestions, ShouldResemble, []string{severity.SuggestPhysio})
			})
		})

		Convey("When today is fine after a red yesterday", func() {
			yesterday := uniform(today.AddDays(-1), 1.5)
			res := engine.Assess(readiness.Input{
				AthleteID: "ath-1",
				Date:      today,
				Today:     func() *model.WellnessReport { r := uniform(today, 4); return &r }(),
				Yesterday: &yesterday,
				Window:    window,
				PrevLoad:  950,
			})

			Convey("Then the streak rule does not fire", func() {
				So(res.Color, ShouldEqual, model.Green)
				So(res.Severity, ShouldEqual, model.OK)
				So(res.SRPEPrev, ShouldEqual, 950)
			})
		})

		Convey("When both yesterday and today are red", func() {
			yesterday := uniform(today.AddDays(-1), 3.4)
			todayReport := uniform(today, 3.4)
			res := engine.Assess(readiness.Input{
				AthleteID: "ath-1",
				Date:      today,
				Today:     &todayReport,
				Yesterday: &yesterday,
				Window:    window,
			})

			Convey("Then the consecutive red reason is reported", func() {
				So(res.Color, ShouldEqual, model.Red)
				So(res.Severity, ShouldEqual, model.Critical)
				So(res.Reasons, ShouldResemble, []string{severity.ReasonRedStreak})
			})
		})
	})

	Convey("Given an athlete with only three days of history", t, func() {
		window := history()[:3]

		Convey("When today's answers are excellent", func() {
			r := uniform(today, 5)
			res := engine.Assess(readiness.Input{AthleteID: "ath-1", Date: today, Today: &r, Window: window})

			Convey("Then z is null and the color is yellow", func() {
				So(res.Z, ShouldBeNil)
				So(res.BaselineMean, ShouldBeNil)
				So(res.Color, ShouldEqual, model.Yellow)
				So(res.Severity, ShouldEqual, model.OK)
			})
		})

		Convey("When soreness is low", func() {
			res := engine.Assess(readiness.Input{AthleteID: "ath-1", Date: today, Today: soreToday(), Window: window})

			Convey("Then the soreness override still applies", func() {
				So(res.Color, ShouldEqual, model.Red)
				So(res.Severity, ShouldEqual, model.Critical)
			})
		})
	})

	Convey("Given an athlete who did not report today", t, func() {
		res := engine.Assess(readiness.Input{AthleteID: "ath-1", Date: today, Window: history()})

		Convey("Then the missing report is not mistaken for a collapse", func() {
			So(res.SDW, ShouldEqual, 0)
			So(res.Z, ShouldBeNil)
			So(res.Color, ShouldEqual, model.Yellow)
			So(res.Severity, ShouldEqual, model.OK)
		})
	})
}

func TestSplit(t *testing.T) {
	Convey("Given reports around the scoring day", t, func() {
		reports := []model.WellnessReport{
			uniform(today.AddDays(-2), 4),
			uniform(today.AddDays(-1), 3),
			uniform(today, 5),
			uniform(today.AddDays(1), 1),
		}
		td, yd, window := readiness.Split(today, reports)

		Convey("Then each report lands in its slot", func() {
			So(td, ShouldNotBeNil)
			So(td.Date, ShouldEqual, today)
			So(yd, ShouldNotBeNil)
			So(yd.Date, ShouldEqual, today.AddDays(-1))
			So(window, ShouldHaveLength, 2)
		})
	})
}
