package anomaly_test

import (
	"testing"

	"github.com/okian/readiness/internal/domain/anomaly"
	"github.com/okian/readiness/internal/domain/model"
	"github.com/okian/readiness/internal/domain/wellness"
	. "github.com/smartystreets/goconvey/convey"
)

func zp(v float64) *float64 { return &v }

func allScores(v float64) model.WellnessReport {
	s := model.Score(v)
	return model.WellnessReport{SleepQuality: s, Fatigue: s, MuscleSoreness: s, Stress: s, Mood: s}
}

func TestDeviation(t *testing.T) {
	present := wellness.Baseline{Mean: 4, SD: 0.5, N: 21}

	Convey("Given baselines of varying quality", t, func() {
		Convey("When the baseline is present", func() {
			z := anomaly.Deviation(2.6, present)

			Convey("Then z is the normalized distance", func() {
				So(z, ShouldNotBeNil)
				So(*z, ShouldAlmostEqual, -2.8, 1e-9)
			})
		})

		Convey("When fewer than 7 samples back it", func() {
			Convey("Then z is null", func() {
				So(anomaly.Deviation(3, wellness.Baseline{Mean: 4, SD: 0.5, N: 3}), ShouldBeNil)
				So(anomaly.Deviation(3, wellness.Baseline{Mean: 4, SD: 0, N: 1}), ShouldBeNil)
			})
		})

		Convey("When sd is 0", func() {
			Convey("Then z is null", func() {
				So(anomaly.Deviation(3, wellness.Baseline{Mean: 4, SD: 0, N: 10}), ShouldBeNil)
			})
		})

		Convey("When today has no usable answers", func() {
			Convey("Then z is null", func() {
				So(anomaly.Deviation(0, present), ShouldBeNil)
			})
		})
	})
}

func TestBaseColor(t *testing.T) {
	Convey("Given deviations on the thresholds", t, func() {
		So(anomaly.BaseColor(nil), ShouldEqual, model.Yellow)
		So(anomaly.BaseColor(zp(0.7)), ShouldEqual, model.Green)
		So(anomaly.BaseColor(zp(-0.5)), ShouldEqual, model.Green)
		So(anomaly.BaseColor(zp(-0.51)), ShouldEqual, model.Yellow)
		So(anomaly.BaseColor(zp(-1.0)), ShouldEqual, model.Yellow)
		So(anomaly.BaseColor(zp(-1.01)), ShouldEqual, model.Red)
	})
}

func TestApplyOverrides(t *testing.T) {
	Convey("Given raw answers that trigger overrides", t, func() {
		Convey("When sleep is under 4 hours", func() {
			r := allScores(4)
			r.SleepHours = model.HoursOf(3.5)

			Convey("Then green becomes yellow and worse colors hold", func() {
				So(anomaly.ApplyOverrides(model.Green, r), ShouldEqual, model.Yellow)
				So(anomaly.ApplyOverrides(model.Yellow, r), ShouldEqual, model.Yellow)
				So(anomaly.ApplyOverrides(model.Red, r), ShouldEqual, model.Red)
			})
		})

		Convey("When sleep hours are unknown", func() {
			r := allScores(4)

			Convey("Then the sleep rule does not fire", func() {
				So(anomaly.ApplyOverrides(model.Green, r), ShouldEqual, model.Green)
			})
		})

		Convey("When muscle soreness is 2 or lower", func() {
			r := allScores(4)
			r.MuscleSoreness = model.Score(2)
			r.SleepHours = model.HoursOf(3)

			Convey("Then color is forced to red, even after the sleep rule", func() {
				So(anomaly.ApplyOverrides(model.Green, r), ShouldEqual, model.Red)
				So(anomaly.ApplyOverrides(model.Yellow, r), ShouldEqual, model.Red)
			})
		})

		Convey("When soreness is a literal zero", func() {
			r := allScores(4)
			r.MuscleSoreness = model.Score(0)

			Convey("Then it is not treated as a low score", func() {
				So(anomaly.ApplyOverrides(model.Green, r), ShouldEqual, model.Green)
			})
		})

		Convey("When stress is 2 or lower", func() {
			r := allScores(4)
			r.Stress = model.Score(1)

			Convey("Then only green is raised", func() {
				So(anomaly.ApplyOverrides(model.Green, r), ShouldEqual, model.Yellow)
				So(anomaly.ApplyOverrides(model.Red, r), ShouldEqual, model.Red)
			})
		})

		Convey("When every override fires on every starting color", func() {
			r := allScores(1)
			r.SleepHours = model.HoursOf(2)

			Convey("Then no color ever improves", func() {
				for _, c := range []model.Color{model.Green, model.Yellow, model.Red} {
					out := anomaly.ApplyOverrides(c, r)
					So(c.Worse(out), ShouldBeFalse)
				}
			})
		})
	})
}

func TestClassify(t *testing.T) {
	Convey("Given a report and a baseline", t, func() {
		r := model.WellnessReport{
			SleepQuality:   model.Score(3),
			Fatigue:        model.Score(3),
			MuscleSoreness: model.Score(1),
			Stress:         model.Score(3),
			Mood:           model.Score(3),
		}

		Convey("When history is sufficient", func() {
			res := anomaly.Classify(r, wellness.Baseline{Mean: 4, SD: 0.5, N: 21})

			Convey("Then the base color is red and stays red", func() {
				So(res.SDW, ShouldAlmostEqual, 2.6, 1e-9)
				So(*res.Z, ShouldAlmostEqual, -2.8, 1e-9)
				So(res.Base, ShouldEqual, model.Red)
				So(res.Color, ShouldEqual, model.Red)
			})
		})

		Convey("When history is too short", func() {
			ok := allScores(5)
			res := anomaly.Classify(ok, wellness.Baseline{Mean: 4, SD: 0.3, N: 3})

			Convey("Then the color is yellow regardless of answers", func() {
				So(res.Z, ShouldBeNil)
				So(res.Color, ShouldEqual, model.Yellow)
			})

			Convey("And overrides still apply", func() {
				res := anomaly.Classify(r, wellness.Baseline{N: 3})
				So(res.Base, ShouldEqual, model.Yellow)
				So(res.Color, ShouldEqual, model.Red)
			})
		})
	})
}
