// Package metric is the fixed set of selectable emissions metrics with their
// display labels and color-scale bounds.
package metric

import (
	"fmt"
	"math"

	"github.com/okian/carbonview/internal/domain/model"
)

// Info describes one selectable metric.
type Info struct {
	ID    string  `json:"id"`
	Label string  `json:"label"`
	Max   float64 `json:"max"`
}

// Clamp maps v into the color-scale domain [0, Max].
func (i Info) Clamp(v float64) float64 {
	return math.Max(0, math.Min(i.Max, v))
}

var defaults = []Info{
	{ID: model.CO2, Label: "CO2 (Million Tonnes)", Max: 10000},
	{ID: model.ShareGlobalCO2, Label: "Fraction Share Global", Max: 50},
	{ID: model.CO2PerGDP, Label: "CO2 per GDP", Max: 1.2},
	{ID: model.CO2PerCapita, Label: "Tonnes per Person", Max: 20},
	{ID: model.Methane, Label: "Methane (Million Tonnes)", Max: 1200},
}

// Catalog resolves metric ids. It is read-only after construction.
type Catalog struct {
	order []string
	byID  map[string]Info
}

// NewCatalog creates the catalog of built-in metrics.
func NewCatalog(opts ...Option) *Catalog {
	c := &Catalog{byID: make(map[string]Info, len(defaults))}
	for _, info := range defaults {
		c.order = append(c.order, info.ID)
		c.byID[info.ID] = info
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Lookup returns the metric info for id.
func (c *Catalog) Lookup(id string) (Info, error) {
	info, ok := c.byID[id]
	if !ok {
		return Info{}, fmt.Errorf("%q: %w", id, ErrUnknownMetric)
	}
	return info, nil
}

// All returns every metric in display order.
func (c *Catalog) All() []Info {
	out := make([]Info, len(c.order))
	for i, id := range c.order {
		out[i] = c.byID[id]
	}
	return out
}

// IDs returns the metric ids in display order.
func (c *Catalog) IDs() []string { return append([]string(nil), c.order...) }
