// Package triage orders a day's assessments for review.
package triage

import (
	"sort"

	"github.com/okian/readiness/internal/domain/model"
)

// Rank returns a copy of results ordered by severity (CRITICAL, WARN, OK)
// and then by deviation ascending, a null deviation counting as 0. Equal
// keys keep their input order.
func Rank(results []model.AlertResult) []model.AlertResult {
	out := make([]model.AlertResult, len(results))
	copy(out, results)
	sort.SliceStable(out, func(i, j int) bool {
		return less(&out[i], &out[j])
	})
	return out
}

// less reports whether a should be reviewed before b.
func less(a, b *model.AlertResult) bool {
	if ra, rb := a.Severity.Rank(), b.Severity.Rank(); ra != rb {
		return ra < rb
	}
	return a.ZOrZero() < b.ZOrZero()
}

// Counts tallies results by severity.
func Counts(results []model.AlertResult) map[model.Severity]int {
	counts := map[model.Severity]int{
		model.Critical: 0,
		model.Warn:     0,
		model.OK:       0,
	}
	for i := range results {
		counts[results[i].Severity]++
	}
	return counts
}
