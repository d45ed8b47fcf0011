package metric

// Option applies a configuration option to the Catalog.
type Option func(*Catalog)

// WithBoundsFromConfig overrides color-scale maxima for known metric ids.
// Unknown ids and non-positive bounds are ignored.
func WithBoundsFromConfig(bounds map[string]float64) Option {
	return func(c *Catalog) {
		for id, max := range bounds {
			info, ok := c.byID[id]
			if !ok || max <= 0 {
				continue
			}
			info.Max = max
			c.byID[id] = info
		}
	}
}
