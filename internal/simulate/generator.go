package simulate

import (
	"math"
	"math/rand/v2"

	"github.com/google/uuid"
	"github.com/okian/readiness/internal/domain/model"
)

// Profile shapes an athlete's data on the scoring day.
type Profile string

// Generated profiles.
const (
	ProfileSteady    Profile = "steady"
	ProfileFatigued  Profile = "fatigued"
	ProfileSore      Profile = "sore"
	ProfileSleepless Profile = "sleepless"
)

var profiles = []Profile{ProfileSteady, ProfileFatigued, ProfileSore, ProfileSleepless}

// Athlete is one generated squad member.
type Athlete struct {
	ID      string
	Profile Profile
}

// Squad is the full generated data set.
type Squad struct {
	Today    model.Date
	Athletes []Athlete
	Wellness []model.WellnessReport
	Loads    []model.LoadEntry
}

// Session bounds of ordinary training days.
const (
	minRPE        = 4
	maxRPE        = 7
	minDuration   = 45
	maxDuration   = 90
	heavyRPE      = 9.0
	heavyDuration = 110.0
	shortSleep    = 3.5
)

// Generate builds cfg.Athletes athletes cycling through the profiles, each
// with cfg.Days days of history before cfg.Today and a report on cfg.Today.
func Generate(cfg Config) Squad {
	cfg.normalize()
	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15))

	squad := Squad{Today: cfg.Today}
	for i := 0; i < cfg.Athletes; i++ {
		a := Athlete{ID: uuid.NewString(), Profile: profiles[i%len(profiles)]}
		squad.Athletes = append(squad.Athletes, a)

		for d := cfg.Days; d >= 1; d-- {
			day := cfg.Today.AddDays(-d)
			squad.Wellness = append(squad.Wellness, baselineDay(rng, a.ID, day))

			rpe := float64(minRPE + rng.IntN(maxRPE-minRPE+1))
			minutes := float64(minDuration + 5*rng.IntN((maxDuration-minDuration)/5+1))
			if d == 1 && a.Profile == ProfileSleepless {
				rpe, minutes = heavyRPE, heavyDuration
			}
			squad.Loads = append(squad.Loads, model.LoadEntry{
				AthleteID:       a.ID,
				Date:            day,
				RPE:             rpe,
				DurationMinutes: minutes,
			})
		}
		squad.Wellness = append(squad.Wellness, todayReport(rng, a, cfg.Today))
	}
	return squad
}

// baselineDay answers mostly 4s with the occasional 3 or 5.
func baselineDay(rng *rand.Rand, athleteID string, day model.Date) model.WellnessReport {
	answer := func() model.SubScore {
		return model.Score(math.Min(5, 3+float64(rng.IntN(3))+0.5*float64(rng.IntN(2))))
	}
	return model.WellnessReport{
		AthleteID:      athleteID,
		Date:           day,
		SleepQuality:   answer(),
		Fatigue:        answer(),
		MuscleSoreness: answer(),
		Stress:         answer(),
		Mood:           answer(),
		SleepHours:     model.HoursOf(7 + rng.Float64()*1.5),
	}
}

func todayReport(rng *rand.Rand, a Athlete, today model.Date) model.WellnessReport {
	r := baselineDay(rng, a.ID, today)
	switch a.Profile {
	case ProfileFatigued:
		s := model.Score(2)
		r.SleepQuality, r.Fatigue, r.Stress, r.Mood = s, s, s, s
		r.MuscleSoreness = model.Score(3)
	case ProfileSore:
		r.MuscleSoreness = model.Score(1)
	case ProfileSleepless:
		r.SleepHours = model.HoursOf(shortSleep)
	}
	return r
}
