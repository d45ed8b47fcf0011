package views

import (
	"github.com/okian/carbonview/internal/domain/metric"
	"github.com/okian/carbonview/internal/domain/model"
)

// View names.
const (
	NameChoropleth  = "choropleth"
	NameSeries      = "series"
	NameComposition = "composition"
	NameCountry     = "country"
	NameMix         = "mix"
)

// Names lists every view in the order a ViewSet exposes them.
var Names = []string{NameChoropleth, NameSeries, NameComposition, NameCountry, NameMix}

// Domain is a color-scale range.
type Domain struct {
	Min float64
	Max float64
}

// Point is one (year, value) sample of a series.
type Point struct {
	Year  int
	Value float64
}

// EntitySeries is the ordered samples of one entity.
type EntitySeries struct {
	Entity string
	Points []Point
}

// View is one derived, render-ready table. Columns names the metric columns
// consumers should show; the table may carry more.
type View struct {
	Name      string
	Title     string
	Table     model.Table
	Columns   []string
	AxisLabel string
	Domain    *Domain
	Series    []EntitySeries
	NoData    []bool
}

// ViewSet is every view derived from one parameter state.
type ViewSet struct {
	Params      model.Params
	Metric      metric.Info
	Choropleth  *View
	Series      *View
	Composition *View
	Country     *View
	Mix         *View
}

// All returns the views in Names order.
func (s *ViewSet) All() []*View {
	return []*View{s.Choropleth, s.Series, s.Composition, s.Country, s.Mix}
}

// Get returns the view called name.
func (s *ViewSet) Get(name string) (*View, bool) {
	for _, v := range s.All() {
		if v.Name == name {
			return v, true
		}
	}
	return nil, false
}
