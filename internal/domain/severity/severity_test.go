package severity_test

import (
	"testing"

	"github.com/okian/readiness/internal/domain/model"
	"github.com/okian/readiness/internal/domain/severity"
	. "github.com/smartystreets/goconvey/convey"
)

func fp(v float64) *float64 { return &v }

func cp(c model.Color) *model.Color { return &c }

// calm is an input that triggers no rule.
func calm() severity.Input {
	return severity.Input{
		SDW:            4,
		BaselineMean:   fp(4),
		Z:              fp(0),
		Color:          model.Green,
		SleepHours:     model.HoursOf(8),
		MuscleSoreness: model.Score(4),
		Stress:         model.Score(4),
	}
}

func TestEvaluateCritical(t *testing.T) {
	Convey("Given inputs that hit the CRITICAL tier", t, func() {
		Convey("When red with a 20% fall from baseline", func() {
			in := calm()
			in.Color = model.Red
			in.SDW = 3.0
			in.Z = fp(-2)
			out := severity.Evaluate(in)

			Convey("Then severity is CRITICAL with the drop reason", func() {
				So(out.Severity, ShouldEqual, model.Critical)
				So(out.Reasons, ShouldResemble, []string{severity.ReasonRelativeDrop})
				So(out.Suggestions, ShouldResemble, []string{severity.SuggestGeneric})
			})
		})

		Convey("When the fall is smaller than 20%", func() {
			in := calm()
			in.Color = model.Red
			in.SDW = 3.5
			in.Z = fp(-0.7)
			out := severity.Evaluate(in)

			Convey("Then the drop rule does not fire and WARN applies", func() {
				So(out.Severity, ShouldEqual, model.Warn)
				So(out.Reasons, ShouldResemble, []string{severity.ReasonModerateDrop})
			})
		})

		Convey("When the baseline is absent", func() {
			in := calm()
			in.Color = model.Red
			in.SDW = 1
			in.BaselineMean = nil
			in.Z = nil
			out := severity.Evaluate(in)

			Convey("Then the relative drop cannot fire", func() {
				So(out.Severity, ShouldEqual, model.OK)
			})
		})

		Convey("When soreness is 2", func() {
			in := calm()
			in.MuscleSoreness = model.Score(2)
			out := severity.Evaluate(in)

			Convey("Then CRITICAL with the physio suggestion", func() {
				So(out.Severity, ShouldEqual, model.Critical)
				So(out.Reasons, ShouldContain, severity.ReasonSoreness)
				So(out.Suggestions, ShouldResemble, []string{severity.SuggestPhysio})
			})
		})

		Convey("When sleep is short after a heavy day", func() {
			in := calm()
			in.SleepHours = model.HoursOf(3.5)
			in.PrevLoad = 901
			out := severity.Evaluate(in)

			Convey("Then CRITICAL with the sleep suggestion", func() {
				So(out.Severity, ShouldEqual, model.Critical)
				So(out.Reasons, ShouldResemble, []string{severity.ReasonSleepAndLoad})
				So(out.Suggestions, ShouldResemble, []string{severity.SuggestSleep})
			})

			Convey("And exactly 900 AU is not heavy", func() {
				in.PrevLoad = 900
				So(severity.Evaluate(in).Severity, ShouldEqual, model.OK)
			})
		})

		Convey("When two consecutive days are red", func() {
			in := calm()
			in.Color = model.Red
			in.Z = fp(-1.5)
			in.SDW = 3.6
			in.PrevColor = cp(model.Red)
			out := severity.Evaluate(in)

			Convey("Then the streak reason fires", func() {
				So(out.Severity, ShouldEqual, model.Critical)
				So(out.Reasons, ShouldResemble, []string{severity.ReasonRedStreak})
			})
		})

		Convey("When several CRITICAL rules and WARN rules match", func() {
			in := calm()
			in.Color = model.Red
			in.SDW = 2.6
			in.Z = fp(-2.8)
			in.MuscleSoreness = model.Score(1)
			in.SleepHours = model.HoursOf(3)
			in.PrevLoad = 1200
			in.PrevColor = cp(model.Red)
			in.Stress = model.Score(2)
			out := severity.Evaluate(in)

			Convey("Then every CRITICAL reason is reported in rule order", func() {
				So(out.Reasons, ShouldResemble, []string{
					severity.ReasonRelativeDrop,
					severity.ReasonSoreness,
					severity.ReasonSleepAndLoad,
					severity.ReasonRedStreak,
				})
			})

			Convey("And no WARN reason leaks in", func() {
				So(out.Reasons, ShouldNotContain, severity.ReasonStress)
				So(out.Reasons, ShouldNotContain, severity.ReasonShortSleep)
			})

			Convey("And only one suggestion is produced", func() {
				So(out.Suggestions, ShouldResemble, []string{severity.SuggestPhysio})
			})
		})
	})
}

func TestEvaluateWarn(t *testing.T) {
	Convey("Given inputs that only hit the WARN tier", t, func() {
		Convey("When z is moderately negative", func() {
			in := calm()
			in.Z = fp(-1.0)
			in.Color = model.Yellow

			Convey("Then the lower bound is inclusive", func() {
				So(severity.Evaluate(in).Severity, ShouldEqual, model.Warn)
			})

			Convey("And -0.5 itself is not moderate", func() {
				in.Z = fp(-0.5)
				So(severity.Evaluate(in).Severity, ShouldEqual, model.OK)
			})
		})

		Convey("When sleep is between 4 and 5 hours", func() {
			in := calm()
			in.SleepHours = model.HoursOf(4)
			out := severity.Evaluate(in)

			Convey("Then WARN with the sleep suggestion", func() {
				So(out.Severity, ShouldEqual, model.Warn)
				So(out.Reasons, ShouldResemble, []string{severity.ReasonShortSleep})
				So(out.Suggestions, ShouldResemble, []string{severity.SuggestSleep})
			})

			Convey("And 5 hours is fine", func() {
				in.SleepHours = model.HoursOf(5)
				So(severity.Evaluate(in).Severity, ShouldEqual, model.OK)
			})
		})

		Convey("When stress is 2 or 3", func() {
			in := calm()
			in.Stress = model.Score(2)
			out := severity.Evaluate(in)

			Convey("Then WARN with the stress suggestion", func() {
				So(out.Severity, ShouldEqual, model.Warn)
				So(out.Suggestions, ShouldResemble, []string{severity.SuggestStressed})
			})

			Convey("And stress 3 uses the generic suggestion", func() {
				in.Stress = model.Score(3)
				out := severity.Evaluate(in)
				So(out.Severity, ShouldEqual, model.Warn)
				So(out.Suggestions, ShouldResemble, []string{severity.SuggestGeneric})
			})
		})

		Convey("When all WARN rules match", func() {
			in := calm()
			in.Z = fp(-0.8)
			in.SleepHours = model.HoursOf(4.5)
			in.Stress = model.Score(3)
			out := severity.Evaluate(in)

			Convey("Then all reasons are collected", func() {
				So(out.Reasons, ShouldHaveLength, 3)
				So(out.Suggestions, ShouldHaveLength, 1)
			})
		})
	})
}

func TestEvaluateOK(t *testing.T) {
	Convey("Given a calm input", t, func() {
		out := severity.Evaluate(calm())

		Convey("Then severity is OK with no reasons and no suggestion", func() {
			So(out.Severity, ShouldEqual, model.OK)
			So(out.Reasons, ShouldBeEmpty)
			So(out.Suggestions, ShouldBeEmpty)
			So(out.Reasons, ShouldNotBeNil)
		})
	})

	Convey("Given stress of 1 with nothing else", t, func() {
		in := calm()
		in.Stress = model.Score(1)

		Convey("Then the WARN stress range does not match", func() {
			So(severity.Evaluate(in).Severity, ShouldEqual, model.OK)
		})
	})
}
