package export_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/okian/carbonview/internal/adapters/export"
	"github.com/okian/carbonview/internal/domain/metric"
	"github.com/okian/carbonview/internal/domain/model"
	"github.com/okian/carbonview/internal/domain/views"
	. "github.com/smartystreets/goconvey/convey"
)

func sampleSet() *views.ViewSet {
	table := model.NewTable("emissions", []string{"co2"}, []model.Row{
		model.NewRow("Peru", "PER", 2018, map[string]float64{"co2": 60.5, "Coal": 0.25}),
	})
	empty := model.NewTable("emissions", []string{"co2"}, nil)
	return &views.ViewSet{
		Params: model.Params{Metric: "co2", Years: model.YearRange{Min: 2000, Max: 2018}, Country: "Peru", FocusYear: 2018},
		Metric: metric.Info{ID: "co2", Label: "CO2 (Million Tonnes)", Max: 10000},
		Choropleth:  &views.View{Name: views.NameChoropleth, Table: table, Columns: []string{"co2"}},
		Series:      &views.View{Name: views.NameSeries, Table: table, Columns: []string{"co2"}},
		Composition: &views.View{Name: views.NameComposition, Table: empty, Columns: []string{"coal_co2"}},
		Country:     &views.View{Name: views.NameCountry, Table: table, Columns: []string{"co2"}},
		Mix:         &views.View{Name: views.NameMix, Table: table, Columns: []string{"Coal"}, NoData: []bool{true}},
	}
}

func TestWrite(t *testing.T) {
	Convey("Given a view set written as a workbook", t, func() {
		set := sampleSet()
		obs := []model.Observation{{Date: time.Date(1958, 3, 30, 0, 0, 0, 0, time.UTC), PPM: 316.2}}
		var buf bytes.Buffer
		err := export.Write(&buf, set, export.WithSeq(7), export.WithObservations(obs))
		So(err, ShouldBeNil)

		f, err := excelize.OpenReader(&buf)
		So(err, ShouldBeNil)
		defer f.Close()

		Convey("Then it has a parameters sheet and one sheet per view", func() {
			want := append(export.SheetNames(set), "Observatory")
			So(f.GetSheetList(), ShouldResemble, want)
			So(want[1], ShouldEqual, "Choropleth")
		})

		Convey("Then the parameters are recorded", func() {
			v, _ := f.GetCellValue("Parameters", "B2")
			So(v, ShouldEqual, "co2")
			v, _ = f.GetCellValue("Parameters", "B6")
			So(v, ShouldEqual, "Peru")
			v, _ = f.GetCellValue("Parameters", "B8")
			So(v, ShouldEqual, "7")
		})

		Convey("Then view rows carry the exposed columns only", func() {
			rows, err := f.GetRows("Country")
			So(err, ShouldBeNil)
			So(rows, ShouldResemble, [][]string{{"Entity", "Code", "Year", "co2"}, {"Peru", "PER", "2018", "60.5"}})
		})

		Convey("Then the mix sheet carries no-data flags", func() {
			rows, _ := f.GetRows("Mix")
			So(rows[0], ShouldResemble, []string{"Entity", "Code", "Year", "Coal", "No data"})
			So(rows[1][4], ShouldEqual, "yes")
		})

		Convey("Then empty views produce a header-only sheet", func() {
			rows, _ := f.GetRows("Composition")
			So(rows, ShouldHaveLength, 1)
		})

		Convey("Then the observatory sheet lists readings", func() {
			v, _ := f.GetCellValue("Observatory", "A2")
			So(v, ShouldEqual, "1958-03-30")
		})
	})
}
