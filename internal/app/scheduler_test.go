package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	service "github.com/okian/readiness/internal/app"
	"github.com/okian/readiness/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

type fakeTriager struct {
	err  error
	days []model.Date
}

func (f *fakeTriager) Today() model.Date { return today }

func (f *fakeTriager) Triage(_ context.Context, day model.Date) ([]model.AlertResult, error) {
	f.days = append(f.days, day)
	if f.err != nil {
		return nil, f.err
	}
	return []model.AlertResult{{UserID: "a", Date: day, Severity: model.Critical, Color: model.Red}}, nil
}

func TestScheduler(t *testing.T) {
	Convey("Given a scheduler", t, func() {
		fake := &fakeTriager{}
		sched, err := service.NewScheduler(fake, "0 6 * * *", time.UTC)
		So(err, ShouldBeNil)

		Convey("When it runs once", func() {
			err := sched.RunOnce(context.Background())

			Convey("Then today's triage is computed", func() {
				So(err, ShouldBeNil)
				So(fake.days, ShouldResemble, []model.Date{today})
			})
		})

		Convey("When the triage fails", func() {
			fake.err = errors.New("store down")

			Convey("Then the error is returned", func() {
				So(sched.RunOnce(context.Background()), ShouldEqual, fake.err)
			})
		})

		Convey("When it is started and stopped", func() {
			So(func() {
				sched.Start()
				sched.Stop()
			}, ShouldNotPanic)
		})
	})

	Convey("Given an invalid cron spec", t, func() {
		_, err := service.NewScheduler(&fakeTriager{}, "every morning", nil)

		Convey("Then construction fails", func() {
			So(err, ShouldNotBeNil)
		})
	})

	Convey("Given the real service behind the scheduler", t, func() {
		svc := startedService()
		defer svc.Stop()
		sched, err := service.NewScheduler(svc, "@daily", time.UTC)
		So(err, ShouldBeNil)

		Convey("Then a run over an empty squad succeeds", func() {
			So(sched.RunOnce(context.Background()), ShouldBeNil)
		})
	})
}
