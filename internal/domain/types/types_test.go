package types_test

import (
	"encoding/json"
	"testing"

	"github.com/okian/carbonview/internal/domain/model"
	"github.com/okian/carbonview/internal/domain/types"
	"github.com/okian/carbonview/internal/domain/views"
	. "github.com/smartystreets/goconvey/convey"
)

func TestFromView(t *testing.T) {
	Convey("Given a derived view with flags and a domain", t, func() {
		table := model.NewTable("energy_mix", []string{"Coal", "Oil", "coal"}, []model.Row{
			model.NewRow("Peru", "PER", 2000, map[string]float64{"Coal": 0.5, "Oil": 0.5, "coal": 3}),
			model.NewRow("Peru", "PER", 2001, map[string]float64{"Coal": 0, "Oil": 0, "coal": 0}),
		})
		v := &views.View{
			Name:      views.NameMix,
			Title:     "Peru energy mix",
			Table:     table,
			Columns:   []string{"Coal", "Oil"},
			AxisLabel: "Fraction",
			Domain:    &views.Domain{Min: 0, Max: 1},
			NoData:    []bool{false, true},
			Series:    []views.EntitySeries{{Entity: "Peru", Points: []views.Point{{Year: 2000, Value: 1}}}},
		}

		out := types.FromView(v)

		Convey("Then only exposed columns are emitted", func() {
			So(out.Rows, ShouldHaveLength, 2)
			So(out.Rows[0].Values, ShouldResemble, map[string]float64{"Coal": 0.5, "Oil": 0.5})
			So(out.Rows[1].NoData, ShouldBeTrue)
			So(out.Domain, ShouldResemble, []float64{0, 1})
			So(out.Series[0].Years, ShouldResemble, []int{2000})
		})

		Convey("Then the JSON form uses snake_case keys", func() {
			data, err := json.Marshal(out)
			So(err, ShouldBeNil)
			So(string(data), ShouldContainSubstring, `"axis_label":"Fraction"`)
			So(string(data), ShouldContainSubstring, `"no_data":true`)
		})
	})

	Convey("Given a view without rows", t, func() {
		out := types.FromView(&views.View{Name: views.NameCountry, Table: model.NewTable("x", nil, nil)})

		Convey("Then rows encode as an empty array", func() {
			data, _ := json.Marshal(out)
			So(string(data), ShouldContainSubstring, `"rows":[]`)
			So(out.Domain, ShouldBeNil)
		})
	})
}
