// Package config defines service configuration structures and loading hooks.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/okian/carbonview/internal/adapters/loader"
	"github.com/okian/carbonview/internal/domain/model"
	"github.com/okian/carbonview/internal/domain/normalize"
)

// Default dataset locations.
const (
	DefaultEmissionsSource   = "https://raw.githubusercontent.com/owid/co2-data/master/owid-co2-data.csv"
	DefaultMixSource         = "per-capita-energy-stacked.csv"
	DefaultObservatorySource = "https://scrippsco2.ucsd.edu/assets/data/atmospheric/stations/in_situ_co2/daily/daily_in_situ_co2_mlo.csv"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log encoding: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// Dataset locations: a local path or an http(s) URL.
	EmissionsSource   string `koanf:"emissions_source"`
	MixSource         string `koanf:"mix_source"`
	ObservatorySource string `koanf:"observatory_source"`

	// ObservatorySkipRows is the number of comment lines before the first
	// observatory record.
	ObservatorySkipRows int `koanf:"observatory_skip_rows"`

	// FetchTimeoutMS bounds each remote dataset fetch.
	FetchTimeoutMS int `koanf:"fetch_timeout_ms"`

	// MajorEntities are compared in the series and composition views.
	MajorEntities []string `koanf:"major_entities"`

	// MajorMinYear is the first year kept for the major entities.
	MajorMinYear int `koanf:"major_min_year"`

	// SnapshotCacheSize bounds the per-focus-year snapshot cache.
	SnapshotCacheSize int `koanf:"snapshot_cache_size"`

	// ParamQueueSize bounds the pending parameter change queue.
	ParamQueueSize int `koanf:"param_queue_size"`

	// ChartTopN caps the bars of the ranked cross-section chart.
	ChartTopN int `koanf:"chart_top_n"`

	// MetricMax overrides color-scale maxima per metric id.
	MetricMax map[string]float64 `koanf:"metric_max"`

	// Default parameter state used when a request leaves a value out.
	DefaultMetric    string `koanf:"default_metric"`
	DefaultCountry   string `koanf:"default_country"`
	DefaultFocusYear int    `koanf:"default_focus_year"`
	DefaultYearMin   int    `koanf:"default_year_min"`
	DefaultYearMax   int    `koanf:"default_year_max"`
}

// New creates a Config holding the defaults.
func New() *Config {
	return &Config{
		LogLevel:            "info",
		LogFormat:           "text",
		Addr:                ":9080",
		EmissionsSource:     DefaultEmissionsSource,
		MixSource:           DefaultMixSource,
		ObservatorySource:   DefaultObservatorySource,
		ObservatorySkipRows: 45,
		FetchTimeoutMS:      30_000,
		MajorEntities: []string{
			"United States", "Russia", "China", "Japan", "Germany",
			"India", "United Kingdom", "France", "Indonesia",
		},
		MajorMinYear:      1941,
		SnapshotCacheSize: 64,
		ParamQueueSize:    1024,
		ChartTopN:         20,
		MetricMax:         map[string]float64{},
		DefaultMetric:     model.CO2,
		DefaultCountry:    "United States",
		DefaultFocusYear:  2018,
		DefaultYearMin:    1950,
		DefaultYearMax:    2020,
	}
}

// FetchTimeout returns FetchTimeoutMS as a duration.
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.FetchTimeoutMS) * time.Millisecond
}

// DefaultParams returns the configured default parameter state.
func (c *Config) DefaultParams() model.Params {
	return model.Params{
		Metric:    c.DefaultMetric,
		Years:     model.YearRange{Min: c.DefaultYearMin, Max: c.DefaultYearMax},
		Country:   c.DefaultCountry,
		FocusYear: c.DefaultFocusYear,
	}
}

// Sources returns the loader sources for the three datasets.
func (c *Config) Sources() []loader.Source {
	return []loader.Source{
		{Name: normalize.DatasetEmissions, Location: c.EmissionsSource},
		{Name: normalize.DatasetEnergyMix, Location: c.MixSource},
		{
			Name:     normalize.DatasetObservatory,
			Location: c.ObservatorySource,
			SkipRows: c.ObservatorySkipRows,
			Columns:  normalize.ObservatoryColumns,
		},
	}
}

// Validate reports the first invalid setting, wrapped in ErrInvalidConfig.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.EmissionsSource == "" || c.MixSource == "" || c.ObservatorySource == "":
		return fmt.Errorf("%w: every dataset source must be set", ErrInvalidConfig)
	case c.ObservatorySkipRows < 0:
		return fmt.Errorf("%w: observatory_skip_rows must not be negative", ErrInvalidConfig)
	case c.ParamQueueSize <= 0:
		return fmt.Errorf("%w: param_queue_size must be positive", ErrInvalidConfig)
	case c.FetchTimeoutMS <= 0:
		return fmt.Errorf("%w: fetch_timeout_ms must be positive", ErrInvalidConfig)
	case c.DefaultMetric == "" || c.DefaultCountry == "":
		return fmt.Errorf("%w: default_metric and default_country must be set", ErrInvalidConfig)
	case c.DefaultYearMin > c.DefaultYearMax:
		return fmt.Errorf("%w: default_year_min %d > default_year_max %d", ErrInvalidConfig, c.DefaultYearMin, c.DefaultYearMax)
	}
	switch strings.ToLower(c.LogFormat) {
	case "", "text", "json":
	default:
		return fmt.Errorf("%w: unknown log_format %q", ErrInvalidConfig, c.LogFormat)
	}
	return nil
}
