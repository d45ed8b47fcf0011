// Package types contains the wire shapes of derived views shared by the HTTP
// API and the export adapters.
package types

import (
	"github.com/okian/carbonview/internal/domain/metric"
	"github.com/okian/carbonview/internal/domain/model"
	"github.com/okian/carbonview/internal/domain/views"
)

// Row is one view row restricted to the view's exposed columns.
type Row struct {
	Entity string             `json:"entity"`
	Code   string             `json:"code,omitempty"`
	Year   int                `json:"year"`
	Values map[string]float64 `json:"values"`
	NoData bool               `json:"no_data,omitempty"`
}

// Series is one entity's ordered samples.
type Series struct {
	Entity string    `json:"entity"`
	Years  []int     `json:"years"`
	Values []float64 `json:"values"`
}

// View is the JSON form of views.View.
type View struct {
	Name      string    `json:"name"`
	Title     string    `json:"title"`
	AxisLabel string    `json:"axis_label"`
	Columns   []string  `json:"columns"`
	Domain    []float64 `json:"domain,omitempty"`
	Rows      []Row     `json:"rows"`
	Series    []Series  `json:"series,omitempty"`
}

// ViewSet is the JSON form of views.ViewSet. Seq is set only for published sets.
type ViewSet struct {
	Seq    uint64       `json:"seq,omitempty"`
	Params model.Params `json:"params"`
	Metric metric.Info  `json:"metric"`
	Views  []View       `json:"views"`
}

// Options lists the selectable parameter values.
type Options struct {
	Metrics       []metric.Info `json:"metrics"`
	Countries     []string      `json:"countries"`
	MajorEntities []string      `json:"major_entities"`
	Years         []int         `json:"years"`
	Defaults      model.Params  `json:"defaults"`
}

// FromView converts a derived view.
func FromView(v *views.View) View {
	out := View{
		Name:      v.Name,
		Title:     v.Title,
		AxisLabel: v.AxisLabel,
		Columns:   append([]string(nil), v.Columns...),
		Rows:      make([]Row, v.Table.Len()),
	}
	if v.Domain != nil {
		out.Domain = []float64{v.Domain.Min, v.Domain.Max}
	}
	for i := 0; i < v.Table.Len(); i++ {
		r := v.Table.Row(i)
		values := make(map[string]float64, len(v.Columns))
		for _, c := range v.Columns {
			values[c] = r.Value(c)
		}
		out.Rows[i] = Row{Entity: r.Entity, Code: r.Code, Year: r.Year, Values: values}
		if i < len(v.NoData) {
			out.Rows[i].NoData = v.NoData[i]
		}
	}
	for _, s := range v.Series {
		ser := Series{Entity: s.Entity, Years: make([]int, len(s.Points)), Values: make([]float64, len(s.Points))}
		for j, p := range s.Points {
			ser.Years[j] = p.Year
			ser.Values[j] = p.Value
		}
		out.Series = append(out.Series, ser)
	}
	return out
}

// FromViewSet converts a derived view set.
func FromViewSet(set *views.ViewSet, seq uint64) ViewSet {
	out := ViewSet{Seq: seq, Params: set.Params, Metric: set.Metric}
	for _, v := range set.All() {
		out.Views = append(out.Views, FromView(v))
	}
	return out
}
