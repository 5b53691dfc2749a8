package triage_test

import (
	"testing"

	"github.com/okian/readiness/internal/domain/model"
	"github.com/okian/readiness/internal/domain/triage"
	. "github.com/smartystreets/goconvey/convey"
)

func alert(id string, sev model.Severity, z *float64) model.AlertResult {
	return model.AlertResult{UserID: id, Severity: sev, Z: z}
}

func zp(v float64) *float64 { return &v }

func ids(rs []model.AlertResult) []string {
	out := make([]string, len(rs))
	for i := range rs {
		out[i] = rs[i].UserID
	}
	return out
}

func TestRank(t *testing.T) {
	Convey("Given a day's assessments in arrival order", t, func() {
		in := []model.AlertResult{
			alert("ok-low", model.OK, zp(-0.2)),
			alert("warn-null", model.Warn, nil),
			alert("crit-mild", model.Critical, zp(-0.3)),
			alert("warn-deep", model.Warn, zp(-0.9)),
			alert("crit-deep", model.Critical, zp(-2.8)),
			alert("warn-zero", model.Warn, zp(0)),
			alert("ok-high", model.OK, zp(1.2)),
		}

		out := triage.Rank(in)

		Convey("Then severity comes first and deviation ascending second", func() {
			So(ids(out), ShouldResemble, []string{
				"crit-deep", "crit-mild",
				"warn-deep", "warn-null", "warn-zero",
				"ok-low", "ok-high",
			})
		})

		Convey("And null deviation ties with 0 keep arrival order", func() {
			swapped := []model.AlertResult{in[5], in[1]}
			So(ids(triage.Rank(swapped)), ShouldResemble, []string{"warn-zero", "warn-null"})
		})

		Convey("And the input slice is left untouched", func() {
			So(in[0].UserID, ShouldEqual, "ok-low")
		})

		Convey("And adjacent pairs respect the ordering", func() {
			for i := 1; i < len(out); i++ {
				a, b := out[i-1], out[i]
				So(a.Severity.Rank(), ShouldBeLessThanOrEqualTo, b.Severity.Rank())
				if a.Severity == b.Severity {
					So(a.ZOrZero(), ShouldBeLessThanOrEqualTo, b.ZOrZero())
				}
			}
		})
	})

	Convey("Given no assessments", t, func() {
		Convey("Then ranking yields an empty list", func() {
			So(triage.Rank(nil), ShouldBeEmpty)
		})
	})
}

func TestCounts(t *testing.T) {
	Convey("Given ranked results", t, func() {
		counts := triage.Counts([]model.AlertResult{
			alert("a", model.Critical, nil),
			alert("b", model.Warn, nil),
			alert("c", model.Warn, nil),
		})

		Convey("Then every severity is tallied", func() {
			So(counts[model.Critical], ShouldEqual, 1)
			So(counts[model.Warn], ShouldEqual, 2)
			So(counts[model.OK], ShouldEqual, 0)
		})
	})
}
