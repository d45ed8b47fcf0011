package api

import (
	"errors"
	"fmt"
	"net/url"
	"testing"

	"github.com/okian/carbonview/internal/adapters/repository"
	"github.com/okian/carbonview/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestParamsFromQuery(t *testing.T) {
	defaults := model.Params{
		Metric:    "co2",
		Years:     model.YearRange{Min: 1950, Max: 2020},
		Country:   "United States",
		FocusYear: 2018,
	}

	Convey("Given default parameters", t, func() {
		Convey("When the query is empty", func() {
			p, err := paramsFromQuery(url.Values{}, defaults)

			Convey("Then the defaults are returned", func() {
				So(err, ShouldBeNil)
				So(p, ShouldResemble, defaults)
			})
		})

		Convey("When every key is set", func() {
			q := url.Values{
				"metric":     {"methane"},
				"country":    {" China "},
				"year_min":   {"1990"},
				"year_max":   {"2000"},
				"focus_year": {"1995"},
			}
			p, err := paramsFromQuery(q, defaults)

			Convey("Then every field is overridden", func() {
				So(err, ShouldBeNil)
				So(p, ShouldResemble, model.Params{
					Metric:    "methane",
					Years:     model.YearRange{Min: 1990, Max: 2000},
					Country:   "China",
					FocusYear: 1995,
				})
			})
		})

		Convey("When an integer is malformed", func() {
			_, err := paramsFromQuery(url.Values{"focus_year": {"soon"}}, defaults)

			Convey("Then ErrBadRequest is returned", func() {
				So(errors.Is(err, ErrBadRequest), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, "focus_year")
			})
		})
	})

	Convey("Given a partial request body", t, func() {
		country := "India"
		req := paramsRequest{Country: &country}

		Convey("Then only the given fields change", func() {
			p := req.apply(defaults)
			So(p.Country, ShouldEqual, "India")
			So(p.Metric, ShouldEqual, defaults.Metric)
			So(p.Years, ShouldResemble, defaults.Years)
		})
	})
}

func TestStatusOf(t *testing.T) {
	Convey("Given an error without a known kind", t, func() {
		status, code := statusOf(errors.New("boom"))

		Convey("Then it is an internal error", func() {
			So(status, ShouldEqual, 500)
			So(code, ShouldEqual, codeInternal)
		})
	})

	Convey("Given backpressure", t, func() {
		status, code := statusOf(ErrBackpressure)

		Convey("Then it is 429", func() {
			So(status, ShouldEqual, 429)
			So(code, ShouldEqual, codeBackpressure)
		})
	})

	Convey("Given datasets that are not loaded yet", t, func() {
		status, code := statusOf(fmt.Errorf("views: %w", repository.ErrNotLoaded))

		Convey("Then it is 503", func() {
			So(status, ShouldEqual, 503)
			So(code, ShouldEqual, codeInternal)
		})
	})

	Convey("Given response statuses", t, func() {
		Convey("Then failures are classed by payload code", func() {
			cases := []struct {
				status   int
				class    string
				severity string
			}{
				{200, "", ""},
				{202, "", ""},
				{400, codeBadRequest, "low"},
				{404, codeNotFound, "low"},
				{429, codeBackpressure, "medium"},
				{500, codeInternal, "high"},
				{503, "unavailable", "high"},
			}
			for _, c := range cases {
				class, severity := errorClass(c.status)
				So(class, ShouldEqual, c.class)
				So(severity, ShouldEqual, c.severity)
			}
		})
	})
}
