// Package shares turns a group of sibling magnitude columns into per-row
// fractions of their sum.
package shares

import (
	"fmt"

	"github.com/okian/carbonview/internal/domain/model"
)

// Table is a canonical table carrying fraction columns, plus a per-row flag
// set when the sibling total was zero and every fraction is therefore 0.0.
type Table struct {
	model.Table
	outputs []string
	noData  []bool
}

// Outputs returns the fraction column names, in sibling order.
func (t Table) Outputs() []string { return append([]string(nil), t.outputs...) }

// NoData reports whether row i had no positive sibling total.
func (t Table) NoData(i int) bool { return t.noData[i] }

// NoDataFlags returns a copy of the per-row flags.
func (t Table) NoDataFlags() []bool { return append([]bool(nil), t.noData...) }

// Subset returns the rows at positions with their flags kept aligned.
func (t Table) Subset(positions []int) Table {
	flags := make([]bool, len(positions))
	for i, p := range positions {
		flags[i] = t.noData[p]
	}
	return Table{Table: t.Table.Subset(positions), outputs: t.outputs, noData: flags}
}

// Compute derives outputs[i] = row[siblings[i]] / Σ row[siblings] for every
// row. A row whose total is not positive gets 0.0 in every output and is
// flagged NoData. The row count never changes and t is not modified.
func Compute(t model.Table, siblings, outputs []string) (Table, error) {
	if len(siblings) == 0 || len(siblings) != len(outputs) {
		return Table{}, fmt.Errorf("%d siblings, %d outputs: %w", len(siblings), len(outputs), ErrColumnMismatch)
	}
	for _, s := range siblings {
		if !t.HasColumn(s) {
			return Table{}, fmt.Errorf("%s in %s: %w", s, t.Name(), ErrUnknownColumn)
		}
	}

	rows := make([]model.Row, t.Len())
	flags := make([]bool, t.Len())
	for i := 0; i < t.Len(); i++ {
		r := t.Row(i)
		var total float64
		for _, s := range siblings {
			total += r.Value(s)
		}
		fractions := make(map[string]float64, len(outputs))
		if total > 0 {
			for j, s := range siblings {
				fractions[outputs[j]] = r.Value(s) / total
			}
		} else {
			for _, o := range outputs {
				fractions[o] = 0
			}
			flags[i] = true
		}
		rows[i] = r.With(fractions)
	}

	columns := t.Columns()
	for _, o := range outputs {
		if !t.HasColumn(o) {
			columns = append(columns, o)
		}
	}
	return Table{
		Table:   model.NewTable(t.Name(), columns, rows),
		outputs: append([]string(nil), outputs...),
		noData:  flags,
	}, nil
}

// EnergyMix computes the eight energy-source fractions of a mix table.
func EnergyMix(t model.Table) (Table, error) {
	return Compute(t, model.EnergySources, model.EnergyShares)
}
