// Package model contains the tabular types passed between layers.
//
// Canonical tables are immutable: row values are unexported and only reachable
// through accessors, and every derivation builds a new Table.
package model

// Row is one canonical observation: an entity in a given year with a fixed
// set of metric values. Missing metrics are materialized as 0.0 by the
// normalizer, so Value never has to distinguish absent from zero.
type Row struct {
	Entity string
	Code   string
	Year   int
	values map[string]float64
}

// NewRow builds a Row, copying values so the caller keeps ownership of its map.
func NewRow(entity, code string, year int, values map[string]float64) Row {
	cp := make(map[string]float64, len(values))
	for k, v := range values {
		cp[k] = v
	}
	return Row{Entity: entity, Code: code, Year: year, values: cp}
}

// Value returns the metric value, or 0.0 if the column is not present.
func (r Row) Value(metric string) float64 {
	return r.values[metric]
}

// Has reports whether the row carries the metric column.
func (r Row) Has(metric string) bool {
	_, ok := r.values[metric]
	return ok
}

// Values returns a copy of the row's metric values.
func (r Row) Values() map[string]float64 {
	cp := make(map[string]float64, len(r.values))
	for k, v := range r.values {
		cp[k] = v
	}
	return cp
}

// With returns a new Row carrying the receiver's values plus extra.
// Keys present in both take the value from extra.
func (r Row) With(extra map[string]float64) Row {
	cp := make(map[string]float64, len(r.values)+len(extra))
	for k, v := range r.values {
		cp[k] = v
	}
	for k, v := range extra {
		cp[k] = v
	}
	return Row{Entity: r.Entity, Code: r.Code, Year: r.Year, values: cp}
}

// Table is an ordered, immutable sequence of canonical rows.
type Table struct {
	name    string
	columns []string
	rows    []Row
}

// NewTable builds a Table from rows. Both slices are copied.
func NewTable(name string, columns []string, rows []Row) Table {
	return Table{
		name:    name,
		columns: append([]string(nil), columns...),
		rows:    append([]Row(nil), rows...),
	}
}

// Name returns the dataset name the table was derived from.
func (t Table) Name() string { return t.name }

// Len returns the number of rows.
func (t Table) Len() int { return len(t.rows) }

// Row returns the i-th row.
func (t Table) Row(i int) Row { return t.rows[i] }

// Rows returns a copy of the row slice.
func (t Table) Rows() []Row { return append([]Row(nil), t.rows...) }

// Columns returns the ordered metric column names.
func (t Table) Columns() []string { return append([]string(nil), t.columns...) }

// HasColumn reports whether metric is a declared column.
func (t Table) HasColumn(metric string) bool {
	for _, c := range t.columns {
		if c == metric {
			return true
		}
	}
	return false
}

// Column returns the values of one metric in row order.
func (t Table) Column(metric string) []float64 {
	out := make([]float64, len(t.rows))
	for i, r := range t.rows {
		out[i] = r.Value(metric)
	}
	return out
}

// Subset returns a new table holding the rows at positions, in the given order.
// Rows are shared with the receiver; they are immutable so this is safe.
func (t Table) Subset(positions []int) Table {
	rows := make([]Row, len(positions))
	for i, p := range positions {
		rows[i] = t.rows[p]
	}
	return Table{name: t.name, columns: t.columns, rows: rows}
}
