// Package export writes derived views to an Excel workbook with excelize.
package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/okian/carbonview/internal/domain/model"
	"github.com/okian/carbonview/internal/domain/views"
)

const (
	paramsSheet      = "Parameters"
	observatorySheet = "Observatory"
	colWidth         = 16
)

// Option applies a configuration option to a workbook build.
type Option func(*builder)

// WithObservations adds a sheet with the observatory series.
func WithObservations(obs []model.Observation) Option {
	return func(b *builder) {
		b.observations = obs
	}
}

// WithSeq records the published sequence number on the parameters sheet.
func WithSeq(seq uint64) Option {
	return func(b *builder) {
		b.seq = seq
	}
}

type builder struct {
	observations []model.Observation
	seq          uint64
}

// Workbook builds a workbook with a parameters sheet and one sheet per view.
// The caller owns the returned file and must Close it.
func Workbook(set *views.ViewSet, opts ...Option) (*excelize.File, error) {
	b := &builder{}
	for _, opt := range opts {
		opt(b)
	}

	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", paramsSheet); err != nil {
		return nil, err
	}
	if err := writeParams(f, set, b.seq); err != nil {
		_ = f.Close()
		return nil, err
	}
	for _, v := range set.All() {
		if err := writeView(f, v); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("sheet %s: %w", v.Name, err)
		}
	}
	if b.observations != nil {
		if err := writeObservations(f, b.observations); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("sheet %s: %w", observatorySheet, err)
		}
	}
	return f, nil
}

// Write encodes the workbook for set to w.
func Write(w io.Writer, set *views.ViewSet, opts ...Option) error {
	f, err := Workbook(set, opts...)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Write(w)
}

func writeParams(f *excelize.File, set *views.ViewSet, seq uint64) error {
	rows := [][]any{
		{"Parameter", "Value"},
		{"Metric", set.Params.Metric},
		{"Metric label", set.Metric.Label},
		{"Year min", set.Params.Years.Min},
		{"Year max", set.Params.Years.Max},
		{"Country", set.Params.Country},
		{"Focus year", set.Params.FocusYear},
	}
	if seq > 0 {
		rows = append(rows, []any{"Sequence", seq})
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(paramsSheet, cell, &row); err != nil {
			return err
		}
	}
	return f.SetColWidth(paramsSheet, "A", "B", colWidth)
}

func writeView(f *excelize.File, v *views.View) error {
	sheet := sheetName(v.Name)
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	header := []any{"Entity", "Code", "Year"}
	for _, c := range v.Columns {
		header = append(header, c)
	}
	withFlags := len(v.NoData) > 0
	if withFlags {
		header = append(header, "No data")
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}

	for i := 0; i < v.Table.Len(); i++ {
		r := v.Table.Row(i)
		row := []any{r.Entity, r.Code, r.Year}
		for _, c := range v.Columns {
			row = append(row, r.Value(c))
		}
		if withFlags {
			row = append(row, yesNo(v.NoData[i]))
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}

	last, err := excelize.ColumnNumberToName(len(header))
	if err != nil {
		return err
	}
	return f.SetColWidth(sheet, "A", last, colWidth)
}

func writeObservations(f *excelize.File, obs []model.Observation) error {
	if _, err := f.NewSheet(observatorySheet); err != nil {
		return err
	}
	if err := f.SetSheetRow(observatorySheet, "A1", &[]any{"Date", "CO2 (ppm)"}); err != nil {
		return err
	}
	for i, o := range obs {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(observatorySheet, cell, &[]any{o.Date.Format("2006-01-02"), o.PPM}); err != nil {
			return err
		}
	}
	return f.SetColWidth(observatorySheet, "A", "B", colWidth)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// sheetName capitalizes a view name for use as a sheet title.
func sheetName(view string) string {
	if view == "" {
		return "View"
	}
	return strings.ToUpper(view[:1]) + view[1:]
}

// SheetNames returns the sheet titles a workbook for set contains, in order.
func SheetNames(set *views.ViewSet) []string {
	out := []string{paramsSheet}
	for _, v := range set.All() {
		out = append(out, sheetName(v.Name))
	}
	return out
}
