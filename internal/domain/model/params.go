package model

import "fmt"

// YearRange is an inclusive year interval.
type YearRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Contains reports whether year lies within the range.
func (r YearRange) Contains(year int) bool {
	return r.Min <= year && year <= r.Max
}

// Valid reports whether Min <= Max.
func (r YearRange) Valid() bool { return r.Min <= r.Max }

func (r YearRange) String() string { return fmt.Sprintf("[%d,%d]", r.Min, r.Max) }

// Params is the complete user-driven filter state. It is always handed over
// as a single value so a recomputation never sees a half-applied update.
type Params struct {
	Metric    string    `json:"metric"`
	Years     YearRange `json:"year_range"`
	Country   string    `json:"country"`
	FocusYear int       `json:"focus_year"`
}
