// Package normalize turns raw source tables into canonical tables.
package normalize

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/okian/carbonview/internal/domain/model"
)

// maxSampleErrors bounds how many skipped-row errors a Report keeps.
const maxSampleErrors = 10

// Report summarizes one normalization run.
type Report struct {
	Dataset  string
	Rows     int // raw data rows seen
	Kept     int
	Invalid  int // unparsable entity/year
	Dropped  int // incomplete under DropIncomplete
	Filtered int // no code under RequireCode
	Samples  []error
}

func (r *Report) skip(err *RowError) {
	r.Invalid++
	if len(r.Samples) < maxSampleErrors {
		r.Samples = append(r.Samples, err)
	}
}

// Normalize maps raw onto the schema and applies its missing-value policy.
// raw is never modified. Row-level problems are counted in the Report; only
// schema problems return an error.
func Normalize(raw model.RawTable, spec SchemaSpec) (model.Table, Report, error) {
	report := Report{Dataset: spec.Dataset}
	if err := validate(raw, spec); err != nil {
		return model.Table{}, report, err
	}

	minYear, maxYear := spec.yearBounds()
	rows := make([]model.Row, 0, len(raw.Rows))
	for i, rr := range raw.Rows {
		report.Rows++
		line := i + 1

		entity := strings.TrimSpace(rr[spec.Entity])
		if entity == "" {
			report.skip(&RowError{Dataset: spec.Dataset, Line: line, Reason: "empty entity"})
			continue
		}
		year, ok := parseYear(rr[spec.Year])
		if !ok {
			report.skip(&RowError{Dataset: spec.Dataset, Line: line, Reason: fmt.Sprintf("unparsable year %q", rr[spec.Year])})
			continue
		}
		if year < minYear || year > maxYear {
			report.skip(&RowError{Dataset: spec.Dataset, Line: line, Reason: fmt.Sprintf("year %d out of range", year)})
			continue
		}

		var code string
		if spec.Code != "" {
			code = strings.TrimSpace(rr[spec.Code])
		}
		if spec.RequireCode && code == "" {
			report.Filtered++
			continue
		}

		values, complete := coerce(rr, spec.Metrics)
		if !complete && spec.Policy == DropIncomplete {
			report.Dropped++
			continue
		}
		for _, r := range spec.Ratios {
			values[r.Name] = ratio(values[r.Numerator], values[r.Denominator])
		}

		rows = append(rows, model.NewRow(entity, code, year, values))
	}
	report.Kept = len(rows)

	return model.NewTable(spec.Dataset, spec.CanonicalColumns(), rows), report, nil
}

func validate(raw model.RawTable, spec SchemaSpec) error {
	if spec.Policy != ZeroFill && spec.Policy != DropIncomplete {
		return fmt.Errorf("%s: %w", spec.Dataset, ErrInvalidPolicy)
	}
	required := []string{spec.Entity, spec.Year}
	if spec.Code != "" {
		required = append(required, spec.Code)
	}
	for _, m := range spec.Metrics {
		required = append(required, m.Raw)
	}
	for _, col := range required {
		if col == "" || !raw.HasColumn(col) {
			return fmt.Errorf("%s: raw column %q: %w", spec.Dataset, col, ErrSchemaMismatch)
		}
	}
	known := make(map[string]bool, len(spec.Metrics))
	for _, m := range spec.Metrics {
		known[m.Canonical] = true
	}
	for _, r := range spec.Ratios {
		if !known[r.Numerator] || !known[r.Denominator] {
			return fmt.Errorf("%s: ratio %q references unknown column: %w", spec.Dataset, r.Name, ErrSchemaMismatch)
		}
	}
	return nil
}

// coerce parses every declared metric. Missing cells become 0.0; complete is
// false if any cell was missing.
func coerce(rr model.RawRow, cols []Column) (map[string]float64, bool) {
	values := make(map[string]float64, len(cols))
	complete := true
	for _, c := range cols {
		v, ok := parseNumber(rr[c.Raw])
		if !ok {
			complete = false
			v = 0
		}
		values[c.Canonical] = v
	}
	return values, complete
}

func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func parseYear(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if y, err := strconv.Atoi(s); err == nil {
		return y, true
	}
	f, ok := parseNumber(s)
	if !ok || f != math.Trunc(f) {
		return 0, false
	}
	return int(f), true
}

func ratio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}

// NormalizeObservations builds the observatory daily series. Rows with an
// unparsable date are invalid; rows with a missing or non-positive reading
// are dropped (the source encodes gaps as NaN or negative sentinels).
func NormalizeObservations(raw model.RawTable, spec ObservationSpec) ([]model.Observation, Report, error) {
	report := Report{Dataset: spec.Dataset}
	for _, col := range []string{spec.Year, spec.Month, spec.Day, spec.Value} {
		if col == "" || !raw.HasColumn(col) {
			return nil, report, fmt.Errorf("%s: raw column %q: %w", spec.Dataset, col, ErrSchemaMismatch)
		}
	}

	out := make([]model.Observation, 0, len(raw.Rows))
	for i, rr := range raw.Rows {
		report.Rows++
		y, okY := parseYear(rr[spec.Year])
		m, okM := parseYear(rr[spec.Month])
		d, okD := parseYear(rr[spec.Day])
		if !okY || !okM || !okD || m < 1 || m > 12 || d < 1 || d > 31 {
			report.skip(&RowError{Dataset: spec.Dataset, Line: i + 1, Reason: "unparsable date"})
			continue
		}
		v, ok := parseNumber(rr[spec.Value])
		if !ok || v <= 0 {
			report.Dropped++
			continue
		}
		out = append(out, model.Observation{
			Date: time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC),
			PPM:  v,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	report.Kept = len(out)
	return out, report, nil
}
