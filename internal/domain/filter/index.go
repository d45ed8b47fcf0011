package filter

import (
	"sort"

	"github.com/okian/carbonview/internal/domain/model"
)

// Index precomputes per-entity and per-year row positions for one table so
// repeated selections do not rescan it. An Index is read-only after
// construction and safe for concurrent use.
type Index struct {
	table    model.Table
	byEntity map[string][]int
	byYear   map[int][]int
	entities []string
	years    []int
}

// NewIndex builds an Index over t.
func NewIndex(t model.Table) *Index {
	ix := &Index{
		table:    t,
		byEntity: make(map[string][]int),
		byYear:   make(map[int][]int),
	}
	for i := 0; i < t.Len(); i++ {
		r := t.Row(i)
		if _, seen := ix.byEntity[r.Entity]; !seen {
			ix.entities = append(ix.entities, r.Entity)
		}
		ix.byEntity[r.Entity] = append(ix.byEntity[r.Entity], i)
		if _, seen := ix.byYear[r.Year]; !seen {
			ix.years = append(ix.years, r.Year)
		}
		ix.byYear[r.Year] = append(ix.byYear[r.Year], i)
	}
	sort.Ints(ix.years)
	return ix
}

// Table returns the indexed table.
func (ix *Index) Table() model.Table { return ix.table }

// Entities returns distinct entities in order of first appearance.
func (ix *Index) Entities() []string { return append([]string(nil), ix.entities...) }

// Years returns distinct years in ascending order.
func (ix *Index) Years() []int { return append([]int(nil), ix.years...) }

// HasEntity reports whether any row belongs to entity.
func (ix *Index) HasEntity(entity string) bool {
	_, ok := ix.byEntity[entity]
	return ok
}

// Positions returns the ascending positions matching sel. The result is
// identical to Positions(ix.Table(), sel).
func (ix *Index) Positions(sel Selection) []int {
	out := make([]int, 0)
	if sel.YearMin > sel.YearMax {
		return out
	}

	if sel.Entities == nil {
		if sel.YearMin == sel.YearMax {
			return append(out, ix.byYear[sel.YearMin]...)
		}
		return Positions(ix.table, sel)
	}

	for entity := range sel.Entities {
		for _, p := range ix.byEntity[entity] {
			if y := ix.table.Row(p).Year; y >= sel.YearMin && y <= sel.YearMax {
				out = append(out, p)
			}
		}
	}
	// Map iteration order is random; restore input order.
	sort.Ints(out)
	return out
}

// Filter returns a new table with the rows matching sel, in input order.
func (ix *Index) Filter(sel Selection) model.Table {
	return ix.table.Subset(ix.Positions(sel))
}
