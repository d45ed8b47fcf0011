package normalize

// Policy decides what happens to a missing numeric cell. There is no default:
// a SchemaSpec with a zero Policy is rejected.
type Policy int

const (
	// ZeroFill materializes missing cells as 0.0. Use it where zero is a valid
	// lower bound, e.g. cumulative emissions.
	ZeroFill Policy = iota + 1
	// DropIncomplete drops the whole row when any declared metric is missing.
	// Use it where sibling columns must all be present, e.g. energy-mix shares.
	DropIncomplete
)

func (p Policy) String() string {
	switch p {
	case ZeroFill:
		return "zero_fill"
	case DropIncomplete:
		return "drop_incomplete"
	default:
		return "unset"
	}
}

// Plausible calendar bounds used when a spec leaves them zero.
const (
	defaultMinYear = 1700
	defaultMaxYear = 2200
)

// Column maps one raw source column to a canonical metric name.
type Column struct {
	Raw       string
	Canonical string
}

// Ratio declares a derived column Numerator/Denominator, computed after the
// missing-value policy. A zero denominator yields 0.0.
type Ratio struct {
	Name        string
	Numerator   string
	Denominator string
}

// SchemaSpec is the declarative raw-to-canonical mapping for one dataset.
type SchemaSpec struct {
	Dataset string
	Entity  string // raw entity column, required
	Code    string // raw code column, optional
	Year    string // raw year column, required
	Metrics []Column
	Ratios  []Ratio
	Policy  Policy
	// RequireCode drops rows without a code (aggregate regions).
	RequireCode bool
	MinYear     int
	MaxYear     int
}

// CanonicalColumns returns the canonical metric names followed by ratio names.
func (s SchemaSpec) CanonicalColumns() []string {
	out := make([]string, 0, len(s.Metrics)+len(s.Ratios))
	for _, m := range s.Metrics {
		out = append(out, m.Canonical)
	}
	for _, r := range s.Ratios {
		out = append(out, r.Name)
	}
	return out
}

func (s SchemaSpec) yearBounds() (int, int) {
	lo, hi := s.MinYear, s.MaxYear
	if lo == 0 {
		lo = defaultMinYear
	}
	if hi == 0 {
		hi = defaultMaxYear
	}
	return lo, hi
}

// ObservationSpec maps the observatory daily series columns.
type ObservationSpec struct {
	Dataset string
	Year    string
	Month   string
	Day     string
	Value   string
}
