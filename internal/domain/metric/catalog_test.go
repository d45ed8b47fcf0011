package metric_test

import (
	"errors"
	"testing"

	"github.com/okian/carbonview/internal/domain/metric"
	. "github.com/smartystreets/goconvey/convey"
)

func TestCatalog(t *testing.T) {
	Convey("Given the default catalog", t, func() {
		c := metric.NewCatalog()

		Convey("Then it lists the five metrics in display order", func() {
			So(c.IDs(), ShouldResemble, []string{"co2", "share_global_co2", "co2_per_gdp", "co2_per_capita", "methane"})
			So(len(c.All()), ShouldEqual, 5)
		})

		Convey("When looking up a known metric", func() {
			info, err := c.Lookup("co2_per_capita")

			Convey("Then the label and bound are returned", func() {
				So(err, ShouldBeNil)
				So(info.Label, ShouldEqual, "Tonnes per Person")
				So(info.Max, ShouldEqual, 20.0)
			})
		})

		Convey("When looking up an unknown metric", func() {
			_, err := c.Lookup("nitrous_oxide")

			Convey("Then ErrUnknownMetric is returned", func() {
				So(errors.Is(err, metric.ErrUnknownMetric), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, "nitrous_oxide")
			})
		})

		Convey("Then Clamp keeps values inside the color domain", func() {
			info, _ := c.Lookup("co2_per_gdp")
			So(info.Clamp(3), ShouldEqual, 1.2)
			So(info.Clamp(-1), ShouldEqual, 0.0)
			So(info.Clamp(0.5), ShouldEqual, 0.5)
		})
	})

	Convey("Given bounds from config", t, func() {
		c := metric.NewCatalog(metric.WithBoundsFromConfig(map[string]float64{
			"co2":     5000,
			"methane": -1,
			"bogus":   10,
		}))

		Convey("Then known positive bounds override the defaults", func() {
			co2, _ := c.Lookup("co2")
			So(co2.Max, ShouldEqual, 5000.0)
			methane, _ := c.Lookup("methane")
			So(methane.Max, ShouldEqual, 1200.0)
			_, err := c.Lookup("bogus")
			So(err, ShouldNotBeNil)
		})

		Convey("Then a second catalog is unaffected", func() {
			co2, _ := metric.NewCatalog().Lookup("co2")
			So(co2.Max, ShouldEqual, 10000.0)
		})
	})
}
