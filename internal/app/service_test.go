package service_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/okian/readiness/internal/adapters/repository"
	service "github.com/okian/readiness/internal/app"
	"github.com/okian/readiness/internal/domain/load"
	"github.com/okian/readiness/internal/domain/model"
	"github.com/okian/readiness/internal/domain/severity"
	"github.com/okian/readiness/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	err := logger.Init()
	if err != nil {
		panic(err)
	}
}

var today = model.NewDate(2025, time.June, 2)

func fixedClock() time.Time { return today.Time().Add(7 * time.Hour) }

func uniform(athlete string, day model.Date, v float64) model.WellnessReport {
	s := model.Score(v)
	return model.WellnessReport{
		AthleteID: athlete, Date: day,
		SleepQuality: s, Fatigue: s, MuscleSoreness: s, Stress: s, Mood: s,
	}
}

// seedHistory writes 21 days averaging 4.0 with sample sd 0.5.
func seedHistory(ctx context.Context, svc *service.Service, athlete string) {
	for i := 1; i <= 21; i++ {
		v := 4.0
		switch {
		case i <= 10:
			v = 3.5
		case i <= 20:
			v = 4.5
		}
		So(svc.SubmitWellness(ctx, uniform(athlete, today.AddDays(-i), v)), ShouldBeNil)
	}
}

func startedService(opts ...service.Option) *service.Service {
	opts = append([]service.Option{
		service.WithWorkerCount(4),
		service.WithQueueSize(100),
		service.WithClock(fixedClock),
	}, opts...)
	svc := service.New(opts...)
	So(svc.Start(context.Background()), ShouldBeNil)
	return svc
}

func TestService_New(t *testing.T) {
	Convey("Given a new service with custom options", t, func() {
		svc := service.New(
			service.WithWorkerCount(8),
			service.WithQueueSize(50),
			service.WithBaseline(28, 10),
			service.WithMaxBatchSize(20),
			service.WithCacheTTL(time.Minute),
		)

		Convey("Then stats reflect the configuration before start", func() {
			stats := svc.GetStats()
			So(stats["started"], ShouldEqual, false)
			So(stats["workerCount"], ShouldEqual, 8)
			So(stats["baselineWindowDays"], ShouldEqual, 28)
			So(stats["baselineMinSamples"], ShouldEqual, 10)
			So(stats["cacheTTL"], ShouldEqual, "1m0s")
		})

		Convey("Then Triage refuses to run", func() {
			_, err := svc.Triage(context.Background(), today)
			So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
		})
	})
}

func TestService_Triage(t *testing.T) {
	Convey("Given a started service with a squad", t, func() {
		ctx := context.Background()
		svc := startedService()
		defer svc.Stop()

		for _, id := range []string{"sore", "warn", "fine", "silent"} {
			seedHistory(ctx, svc, id)
		}
		sore := uniform("sore", today, 3)
		sore.MuscleSoreness = model.Score(1)
		So(svc.SubmitWellness(ctx, sore), ShouldBeNil)
		So(svc.SubmitWellness(ctx, uniform("warn", today, 3.6)), ShouldBeNil)
		So(svc.SubmitWellness(ctx, uniform("fine", today, 4.5)), ShouldBeNil)
		_, err := svc.SubmitLoad(ctx, model.LoadEntry{AthleteID: "sore", Date: today.AddDays(-1), RPE: 8, DurationMinutes: 60})
		So(err, ShouldBeNil)

		Convey("When today's triage is computed", func() {
			ranked, err := svc.Triage(ctx, svc.Today())
			So(err, ShouldBeNil)

			Convey("Then athletes are ordered by severity, then deviation", func() {
				So(ranked, ShouldHaveLength, 4)
				ids := make([]string, len(ranked))
				for i, r := range ranked {
					ids[i] = r.UserID
				}
				So(ids, ShouldResemble, []string{"sore", "warn", "silent", "fine"})
			})

			Convey("Then each result carries the expected assessment", func() {
				So(ranked[0].Severity, ShouldEqual, model.Critical)
				So(*ranked[0].Z, ShouldAlmostEqual, -2.8, 1e-9)
				So(ranked[0].SRPEPrev, ShouldEqual, 480)
				So(ranked[0].Reasons, ShouldContain, severity.ReasonSoreness)
				So(ranked[1].Severity, ShouldEqual, model.Warn)
				So(ranked[1].Color, ShouldEqual, model.Yellow)
				So(ranked[2].SDW, ShouldEqual, 0)
				So(ranked[2].Z, ShouldBeNil)
				So(ranked[3].Color, ShouldEqual, model.Green)
			})

			Convey("And it is asked for again", func() {
				again, err := svc.Triage(ctx, today)

				Convey("Then the same list is returned", func() {
					So(err, ShouldBeNil)
					So(again, ShouldResemble, ranked)
				})
			})

			Convey("And a new report changes an athlete's day", func() {
				hurt := uniform("fine", today, 3)
				hurt.MuscleSoreness = model.Score(2)
				So(svc.SubmitWellness(ctx, hurt), ShouldBeNil)
				again, err := svc.Triage(ctx, today)

				Convey("Then the cached list is not served", func() {
					So(err, ShouldBeNil)
					So(again[0].Severity, ShouldEqual, model.Critical)
					So(again[1].Severity, ShouldEqual, model.Critical)
				})
			})
		})

		Convey("When a single athlete is assessed", func() {
			res, err := svc.Alert(ctx, "warn", today)

			Convey("Then it matches the batch result", func() {
				So(err, ShouldBeNil)
				So(res.Severity, ShouldEqual, model.Warn)
				So(res.Reasons, ShouldResemble, []string{severity.ReasonModerateDrop})
			})
		})

		Convey("When an unknown athlete is assessed", func() {
			res, err := svc.Alert(ctx, "nobody", today)

			Convey("Then a neutral result is returned", func() {
				So(err, ShouldBeNil)
				So(res.Color, ShouldEqual, model.Yellow)
				So(res.Severity, ShouldEqual, model.OK)
				So(res.Z, ShouldBeNil)
			})
		})

		Convey("When the squad exceeds the batch limit", func() {
			small := startedService(service.WithMaxBatchSize(2))
			defer small.Stop()
			for _, id := range []string{"a", "b", "c"} {
				So(small.SubmitWellness(ctx, uniform(id, today, 4)), ShouldBeNil)
			}
			_, err := small.Triage(ctx, today)

			Convey("Then ErrBatchTooLarge is returned", func() {
				So(errors.Is(err, service.ErrBatchTooLarge), ShouldBeTrue)
			})
		})

		Convey("When stats are requested", func() {
			stats := svc.GetStats()

			Convey("Then store counts are included", func() {
				So(stats["started"], ShouldEqual, true)
				So(stats["athletes"], ShouldEqual, 4)
				So(stats["loadEntries"], ShouldEqual, 1)
			})
		})
	})
}

// gatedStore parks the first Loads call after arm until release is closed.
type gatedStore struct {
	repository.Store
	armed   atomic.Bool
	once    sync.Once
	entered chan struct{}
	release chan struct{}
}

func newGatedStore() *gatedStore {
	return &gatedStore{
		Store:   repository.NewMemoryStore(),
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
}

func (g *gatedStore) Loads(ctx context.Context, athleteID string, from, to model.Date) ([]model.LoadEntry, error) {
	if g.armed.Load() {
		g.once.Do(func() {
			close(g.entered)
			<-g.release
		})
	}
	return g.Store.Loads(ctx, athleteID, from, to)
}

func TestService_TriageCacheRace(t *testing.T) {
	Convey("Given a triage batch that is mid-flight", t, func() {
		ctx := context.Background()
		store := newGatedStore()
		svc := startedService(service.WithStore(store))
		defer svc.Stop()

		seedHistory(ctx, svc, "ath-1")
		So(svc.SubmitWellness(ctx, uniform("ath-1", today, 4)), ShouldBeNil)
		store.armed.Store(true)

		type outcome struct {
			ranked []model.AlertResult
			err    error
		}
		done := make(chan outcome, 1)
		go func() {
			ranked, err := svc.Triage(ctx, today)
			done <- outcome{ranked, err}
		}()
		<-store.entered

		Convey("When a sore report for the same day lands before the batch finishes", func() {
			sore := uniform("ath-1", today, 3)
			sore.MuscleSoreness = model.Score(1)
			So(svc.SubmitWellness(ctx, sore), ShouldBeNil)
			close(store.release)
			first := <-done
			So(first.err, ShouldBeNil)

			Convey("Then the next triage reflects the new report", func() {
				again, err := svc.Triage(ctx, today)
				So(err, ShouldBeNil)
				So(again, ShouldHaveLength, 1)
				So(again[0].Severity, ShouldEqual, model.Critical)

				direct, err := svc.Alert(ctx, "ath-1", today)
				So(err, ShouldBeNil)
				So(again[0].Severity, ShouldEqual, direct.Severity)
			})
		})
	})
}

func TestService_Load(t *testing.T) {
	Convey("Given a started service with four weeks of sessions", t, func() {
		ctx := context.Background()
		svc := startedService()
		defer svc.Stop()

		monday := model.NewDate(2025, time.May, 5)
		for i := 0; i < 28; i++ {
			rpe := 5.0
			if i >= 21 {
				rpe = 8
			}
			_, err := svc.SubmitLoad(ctx, model.LoadEntry{AthleteID: "a", Date: monday.AddDays(i), RPE: rpe, DurationMinutes: 60})
			So(err, ShouldBeNil)
		}

		Convey("When the last week is summarised", func() {
			week, err := svc.WeeklyLoad(ctx, "a", monday.AddDays(21), monday.AddDays(28))

			Convey("Then totals and bands are computed per day", func() {
				So(err, ShouldBeNil)
				So(week.Total, ShouldEqual, 7*480)
				So(week.ByDay, ShouldHaveLength, 7)
				So(week.Bands[monday.AddDays(21)], ShouldEqual, load.BandModerate)
				So(week.Monotony, ShouldEqual, 0)
			})
		})

		Convey("When the range is inverted", func() {
			_, err := svc.WeeklyLoad(ctx, "a", monday, monday)

			Convey("Then ErrInvalidRange is returned", func() {
				So(errors.Is(err, service.ErrInvalidRange), ShouldBeTrue)
			})
		})

		Convey("When the workload is requested at the end of the block", func() {
			w, err := svc.Workload(ctx, "a", monday.AddDays(27))

			Convey("Then acute and chronic cover 7 and 28 days", func() {
				So(err, ShouldBeNil)
				So(w.Acute, ShouldEqual, 7*480)
				So(w.Chronic, ShouldEqual, (21*300.0+7*480.0)/4)
				So(w.Zone, ShouldEqual, load.ZoneCaution)
			})
		})

		Convey("When the fitness trend is requested", func() {
			trend, err := svc.Trend(ctx, "a", monday, monday.AddDays(28))

			Convey("Then there is one point per day", func() {
				So(err, ShouldBeNil)
				So(trend, ShouldHaveLength, 28)
			})
		})
	})
}
