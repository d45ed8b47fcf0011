package config_test

import (
	"errors"
	"testing"
	"time"

	"github.com/okian/carbonview/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.ParamQueueSize, convey.ShouldEqual, 1024)
			convey.So(cfg.MajorEntities, convey.ShouldHaveLength, 9)
			convey.So(cfg.MajorMinYear, convey.ShouldEqual, 1941)
			convey.So(cfg.ObservatorySkipRows, convey.ShouldEqual, 45)
			convey.So(cfg.FetchTimeout(), convey.ShouldEqual, 30*time.Second)
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})

		convey.Convey("Then the default parameter state matches the defaults", func() {
			p := cfg.DefaultParams()
			convey.So(p.Metric, convey.ShouldEqual, "co2")
			convey.So(p.Country, convey.ShouldEqual, "United States")
			convey.So(p.FocusYear, convey.ShouldEqual, 2018)
			convey.So(p.Years.Min, convey.ShouldEqual, 1950)
			convey.So(p.Years.Max, convey.ShouldEqual, 2020)
		})

		convey.Convey("Then sources name every dataset", func() {
			srcs := cfg.Sources()
			convey.So(srcs, convey.ShouldHaveLength, 3)
			convey.So(srcs[0].Name, convey.ShouldEqual, "emissions")
			convey.So(srcs[0].Remote(), convey.ShouldBeTrue)
			convey.So(srcs[1].Remote(), convey.ShouldBeFalse)
			convey.So(srcs[2].SkipRows, convey.ShouldEqual, 45)
			convey.So(srcs[2].Columns, convey.ShouldContain, "CO2")
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given invalid settings", t, func() {
		cases := map[string]func(*config.Config){
			"empty addr":         func(c *config.Config) { c.Addr = "" },
			"missing source":     func(c *config.Config) { c.MixSource = "" },
			"zero queue":         func(c *config.Config) { c.ParamQueueSize = 0 },
			"zero timeout":       func(c *config.Config) { c.FetchTimeoutMS = 0 },
			"negative skip":      func(c *config.Config) { c.ObservatorySkipRows = -1 },
			"inverted years":     func(c *config.Config) { c.DefaultYearMin = 2030 },
			"unknown log format": func(c *config.Config) { c.LogFormat = "xml" },
			"no default country": func(c *config.Config) { c.DefaultCountry = "" },
		}
		for name, mutate := range cases {
			cfg := config.New()
			mutate(cfg)
			err := cfg.Validate()
			convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			convey.So(name, convey.ShouldNotBeEmpty)
		}
	})
}
