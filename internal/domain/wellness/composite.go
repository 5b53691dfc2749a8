// Package wellness reduces daily questionnaires to a composite score and
// estimates each athlete's personal baseline of that score.
package wellness

import "github.com/okian/readiness/internal/domain/model"

// Composite returns the subjective daily wellness (SDW) of a report: the
// mean of the reported sub-scores. It returns 0 when nothing usable was
// reported; callers must treat 0 as "no data", not as a low score.
func Composite(r model.WellnessReport) float64 {
	var sum float64
	var n int
	for _, s := range r.SubScores() {
		if v, ok := s.Value(); ok {
			sum += v
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}
