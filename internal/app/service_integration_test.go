package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	service "github.com/okian/carbonview/internal/app"
	"github.com/okian/carbonview/internal/domain/metric"
	"github.com/okian/carbonview/internal/domain/model"
	"github.com/okian/carbonview/internal/domain/views"
	"github.com/okian/carbonview/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func startService(t *testing.T, opts ...service.Option) *service.Service {
	t.Helper()
	base := []service.Option{
		service.WithSources(fixtureSources(t)...),
		service.WithDefaultParams(defaultParams()),
		service.WithMajorEntities([]string{"United States", "China", "India"}),
		service.WithMajorMinYear(2000),
		service.WithLogger(logger.Nop()),
	}
	svc := service.New(append(base, opts...)...)
	if err := svc.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	return svc
}

func waitForSeq(ctx context.Context, svc *service.Service, seq uint64) (uint64, error) {
	for {
		p, err := svc.Latest(ctx)
		if err == nil && p.Seq >= seq {
			return p.Seq, nil
		}
		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestServiceIntegration(t *testing.T) {
	Convey("Given a started service over fixture datasets", t, func() {
		svc := startService(t)
		defer svc.Stop()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		Convey("Then the default view set is published under seq 0", func() {
			p, err := svc.Latest(ctx)
			So(err, ShouldBeNil)
			So(p.Seq, ShouldEqual, 0)
			So(p.Set.Params, ShouldResemble, defaultParams())
			So(p.Set.Country.Table.Len(), ShouldEqual, 3)
		})

		Convey("Then options list the loaded values", func() {
			opts, err := svc.Options(ctx)
			So(err, ShouldBeNil)
			So(opts.Countries, ShouldResemble, []string{"China", "India", "United States"})
			So(opts.Years, ShouldResemble, []int{2016, 2017, 2018})
			So(opts.Metrics, ShouldHaveLength, 5)
			So(opts.Defaults, ShouldResemble, defaultParams())
		})

		Convey("Then aggregate and unparsable rows were not loaded", func() {
			_, err := svc.Recompute(ctx, model.Params{
				Metric: model.CO2, Country: "World",
				Years: model.YearRange{Min: 2016, Max: 2018}, FocusYear: 2018,
			})
			So(errors.Is(err, views.ErrUnknownEntity), ShouldBeTrue)
		})

		Convey("Then the observatory series skips gaps and bad dates", func() {
			obs, err := svc.Observatory(ctx)
			So(err, ShouldBeNil)
			So(obs, ShouldHaveLength, 2)
			So(obs[0].PPM, ShouldEqual, 408.12)
			So(obs[1].Date.Day(), ShouldEqual, 3)
		})

		Convey("Then incomplete energy-mix rows are dropped", func() {
			set, err := svc.Recompute(ctx, model.Params{
				Metric: model.CO2, Country: "India",
				Years: model.YearRange{Min: 2016, Max: 2018}, FocusYear: 2018,
			})
			So(err, ShouldBeNil)
			So(set.Mix.Table.Len(), ShouldEqual, 0)
			So(set.Country.Table.Len(), ShouldEqual, 1)
		})

		Convey("When submitting parameter changes", func() {
			first := defaultParams()
			first.Country = "China"
			second := first
			second.Metric = model.Methane

			c1, err := svc.Submit(ctx, first)
			So(err, ShouldBeNil)
			c2, err := svc.Submit(ctx, second)
			So(err, ShouldBeNil)

			Convey("Then seqs increase and the last change wins", func() {
				So(c2.Seq, ShouldBeGreaterThan, c1.Seq)
				So(c1.ID, ShouldNotEqual, c2.ID)

				seq, err := waitForSeq(ctx, svc, c2.Seq)
				So(err, ShouldBeNil)
				So(seq, ShouldEqual, c2.Seq)

				p, err := svc.Latest(ctx)
				So(err, ShouldBeNil)
				So(p.Set.Params, ShouldResemble, second)
				So(p.Set.Metric.ID, ShouldEqual, model.Methane)
			})
		})

		Convey("When submitting invalid parameters", func() {
			bad := defaultParams()
			bad.Metric = "nox"
			_, errMetric := svc.Submit(ctx, bad)

			bad = defaultParams()
			bad.Country = "Atlantis"
			_, errEntity := svc.Submit(ctx, bad)

			bad = defaultParams()
			bad.Years = model.YearRange{Min: 2018, Max: 2016}
			_, errRange := svc.Submit(ctx, bad)

			Convey("Then they are rejected before queueing", func() {
				So(errors.Is(errMetric, metric.ErrUnknownMetric), ShouldBeTrue)
				So(errors.Is(errEntity, views.ErrUnknownEntity), ShouldBeTrue)
				So(errors.Is(errRange, views.ErrInvalidYearRange), ShouldBeTrue)

				p, err := svc.Latest(ctx)
				So(err, ShouldBeNil)
				So(p.Seq, ShouldEqual, 0)
			})
		})

		Convey("Then stats describe the running service", func() {
			stats := svc.GetStats()
			So(stats["started"], ShouldEqual, true)
			So(stats["emissionsRows"], ShouldEqual, 7)
			So(stats["mixRows"], ShouldEqual, 3)
			So(stats["observations"], ShouldEqual, 2)
			So(stats["latestSeq"], ShouldEqual, uint64(0))
		})
	})

	Convey("Given a default parameter state naming an unknown country", t, func() {
		params := defaultParams()
		params.Country = "Atlantis"
		svc := startService(t, service.WithDefaultParams(params))
		defer svc.Stop()

		Convey("Then Start succeeds without publishing", func() {
			_, err := svc.Latest(context.Background())
			So(err, ShouldNotBeNil)
		})
	})

	Convey("Given a stopped service", t, func() {
		svc := startService(t)
		svc.Stop()

		Convey("Then submissions are refused", func() {
			_, err := svc.Submit(context.Background(), defaultParams())
			So(err, ShouldEqual, service.ErrNotStarted)
		})
	})
}
