package render

import "gonum.org/v1/plot/vg"

// Option applies a configuration option to the Renderer.
type Option func(*Renderer)

// WithSize sets the image size.
func WithSize(width, height vg.Length) Option {
	return func(r *Renderer) {
		if width > 0 && height > 0 {
			r.width = width
			r.height = height
		}
	}
}

// WithTopN limits how many entities the ranked cross-section chart shows.
func WithTopN(n int) Option {
	return func(r *Renderer) {
		if n > 0 {
			r.topN = n
		}
	}
}

// WithFormat selects the output format: "png" (default), "svg" or "pdf".
func WithFormat(format string) Option {
	return func(r *Renderer) {
		r.format = format
	}
}
