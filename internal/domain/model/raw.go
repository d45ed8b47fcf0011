package model

import "time"

// RawRow maps a source column name to its raw cell text. Empty string is an
// empty cell.
type RawRow map[string]string

// RawTable is a parsed but uncleaned data source.
type RawTable struct {
	Name   string
	Header []string
	Rows   []RawRow
}

// Clone returns a deep copy so downstream stages never alias loader memory.
func (t RawTable) Clone() RawTable {
	out := RawTable{
		Name:   t.Name,
		Header: append([]string(nil), t.Header...),
		Rows:   make([]RawRow, len(t.Rows)),
	}
	for i, r := range t.Rows {
		cp := make(RawRow, len(r))
		for k, v := range r {
			cp[k] = v
		}
		out.Rows[i] = cp
	}
	return out
}

// HasColumn reports whether name appears in the header.
func (t RawTable) HasColumn(name string) bool {
	for _, h := range t.Header {
		if h == name {
			return true
		}
	}
	return false
}

// Observation is a single dated atmospheric CO2 reading.
type Observation struct {
	Date time.Time `json:"date"`
	PPM  float64   `json:"ppm"`
}
