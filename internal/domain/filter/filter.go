// Package filter selects canonical rows by entity membership and year range.
//
// Results are position lists into the source table or new tables built from
// them; source rows are shared, never copied or mutated, so a filtered table
// is a stable snapshot regardless of what happens to the caller's references.
package filter

import "github.com/okian/carbonview/internal/domain/model"

// Selection is the row predicate: entity in Entities (nil means any entity)
// and YearMin <= year <= YearMax. YearMin > YearMax selects nothing.
type Selection struct {
	Entities map[string]struct{}
	YearMin  int
	YearMax  int
}

// Entities selects the named entities within [yearMin, yearMax]. An empty
// name list matches no rows.
func Entities(yearMin, yearMax int, names ...string) Selection {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return Selection{Entities: set, YearMin: yearMin, YearMax: yearMax}
}

// Entity selects a single entity within [yearMin, yearMax].
func Entity(name string, yearMin, yearMax int) Selection {
	return Entities(yearMin, yearMax, name)
}

// AnyEntity selects every entity within [yearMin, yearMax].
func AnyEntity(yearMin, yearMax int) Selection {
	return Selection{YearMin: yearMin, YearMax: yearMax}
}

// Year selects every entity in exactly one year.
func Year(year int) Selection {
	return AnyEntity(year, year)
}

// Match reports whether row satisfies the selection.
func (s Selection) Match(row model.Row) bool {
	if row.Year < s.YearMin || row.Year > s.YearMax {
		return false
	}
	if s.Entities == nil {
		return true
	}
	_, ok := s.Entities[row.Entity]
	return ok
}

// Positions returns, in ascending order, the positions of rows matching sel.
func Positions(t model.Table, sel Selection) []int {
	out := make([]int, 0)
	if sel.YearMin > sel.YearMax {
		return out
	}
	for i := 0; i < t.Len(); i++ {
		if sel.Match(t.Row(i)) {
			out = append(out, i)
		}
	}
	return out
}

// Apply returns a new table with the rows of t matching sel, in input order.
func Apply(t model.Table, sel Selection) model.Table {
	return t.Subset(Positions(t, sel))
}
