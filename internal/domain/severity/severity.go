// Package severity assigns a triage severity to a readiness assessment
// through a two-tier rule cascade, collecting the reasons that fired and
// picking a single suggested intervention.
package severity

import "github.com/okian/readiness/internal/domain/model"

// Rule thresholds.
const (
	RelativeDropLimit = -0.20 // (sdw-mean)/mean at or below this is a >=20% fall
	SorenessLimit     = 2.0
	CriticalSleep     = 4.0
	HeavyPrevLoad     = 900 // AU, strictly above
	ModerateZLow      = -1.0
	ModerateZHigh     = -0.5
	ShortSleepLow     = 4.0
	ShortSleepHigh    = 5.0
	StressLow         = 2.0
	StressHigh        = 3.0
	SuggestStress     = 2.0
)

// Reason texts.
const (
	ReasonRelativeDrop = "Caída ≥20% vs. línea base con color rojo"
	ReasonSoreness     = "Dolor muscular ≤2"
	ReasonSleepAndLoad = "Sueño <4h con carga previa >900 AU"
	ReasonRedStreak    = "Dos días consecutivos en rojo"
	ReasonModerateDrop = "Descenso moderado vs. línea base (z entre -1.0 y -0.5)"
	ReasonShortSleep   = "Sueño entre 4 y 5 h"
	ReasonStress       = "Estrés entre 2 y 3"
)

// Suggestion texts, in priority order.
const (
	SuggestPhysio   = "Screening de fisioterapia; reducir trabajo excéntrico y de alta velocidad"
	SuggestSleep    = "Reducir volumen 20–30% y añadir tiempo de recuperación"
	SuggestStressed = "Microajuste de volumen y educación en recuperación"
	SuggestGeneric  = "Reducir la carga de hoy y monitorizar"
)

// Input gathers everything the cascade looks at.
type Input struct {
	SDW            float64
	BaselineMean   *float64
	Z              *float64
	Color          model.Color
	SleepHours     model.Hours
	MuscleSoreness model.SubScore
	Stress         model.SubScore
	PrevLoad       int          // yesterday's sRPE, AU
	PrevColor      *model.Color // nil when yesterday has no usable report
}

// Outcome is the cascade verdict.
type Outcome struct {
	Severity    model.Severity
	Reasons     []string
	Suggestions []string
}

type rule struct {
	reason string
	match  func(Input) bool
}

var criticalRules = []rule{
	{ReasonRelativeDrop, func(in Input) bool {
		if in.Color != model.Red || in.BaselineMean == nil || *in.BaselineMean <= 0 {
			return false
		}
		return (in.SDW-*in.BaselineMean)/(*in.BaselineMean) <= RelativeDropLimit
	}},
	{ReasonSoreness, func(in Input) bool {
		return in.MuscleSoreness.AtMost(SorenessLimit)
	}},
	{ReasonSleepAndLoad, func(in Input) bool {
		return in.SleepHours.Below(CriticalSleep) && in.PrevLoad > HeavyPrevLoad
	}},
	{ReasonRedStreak, func(in Input) bool {
		return in.PrevColor != nil && *in.PrevColor == model.Red && in.Color == model.Red
	}},
}

var warnRules = []rule{
	{ReasonModerateDrop, func(in Input) bool {
		return in.Z != nil && *in.Z >= ModerateZLow && *in.Z < ModerateZHigh
	}},
	{ReasonShortSleep, func(in Input) bool {
		return in.SleepHours.InRange(ShortSleepLow, ShortSleepHigh)
	}},
	{ReasonStress, func(in Input) bool {
		return in.Stress.Within(StressLow, StressHigh)
	}},
}

// tiers are scanned in order; the first tier with any hit decides.
var tiers = []struct {
	severity model.Severity
	rules    []rule
}{
	{model.Critical, criticalRules},
	{model.Warn, warnRules},
}

// Evaluate runs the cascade. All reasons of the winning tier are reported;
// exactly one suggestion is produced unless the severity is OK.
func Evaluate(in Input) Outcome {
	for _, tier := range tiers {
		var reasons []string
		for _, r := range tier.rules {
			if r.match(in) {
				reasons = append(reasons, r.reason)
			}
		}
		if len(reasons) > 0 {
			return Outcome{
				Severity:    tier.severity,
				Reasons:     reasons,
				Suggestions: []string{suggest(in)},
			}
		}
	}
	return Outcome{Severity: model.OK, Reasons: []string{}, Suggestions: []string{}}
}

func suggest(in Input) string {
	switch {
	case in.MuscleSoreness.AtMost(SorenessLimit):
		return SuggestPhysio
	case in.SleepHours.Below(ShortSleepHigh):
		return SuggestSleep
	case in.Stress.AtMost(SuggestStress):
		return SuggestStressed
	default:
		return SuggestGeneric
	}
}
