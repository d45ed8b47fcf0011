// Package views recomputes the linked dashboard views from canonical tables
// and a parameter state.
//
// An Engine is built once over immutable tables. Recompute is a pure
// function of its input apart from the focus-year snapshot cache, and is
// safe for concurrent use.
package views

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/okian/carbonview/internal/domain/filter"
	"github.com/okian/carbonview/internal/domain/metric"
	"github.com/okian/carbonview/internal/domain/model"
	"github.com/okian/carbonview/internal/domain/shares"
	"github.com/okian/carbonview/pkg/logger"
	"github.com/okian/carbonview/pkg/metrics"
)

const (
	defaultMajorMinYear = 1941
	defaultCacheSize    = 64
)

// DefaultMajorEntities are the largest emitters shown in the comparison views.
var DefaultMajorEntities = []string{
	"United States", "Russia", "China", "Japan", "Germany",
	"India", "United Kingdom", "France", "Indonesia",
}

var (
	compositionColumns = []string{model.CoalCO2, model.GasCO2, model.OilCO2}
	countryColumns     = []string{model.CO2, model.CoalCO2, model.GasCO2, model.OilCO2, model.CementCO2}
)

// Tables are the canonical inputs of an Engine.
type Tables struct {
	Emissions model.Table
	Mix       shares.Table
}

// Engine derives ViewSets.
type Engine struct {
	catalog       *metric.Catalog
	majorEntities []string
	majorMinYear  int
	cacheSize     int
	log           logger.Logger

	emissions *filter.Index
	major     *filter.Index
	mix       shares.Table
	mixIndex  *filter.Index
	snapshots *snapshotCache
}

// New builds an Engine and its indexes.
func New(t Tables, opts ...Option) *Engine {
	e := &Engine{
		catalog:       metric.NewCatalog(),
		majorEntities: append([]string(nil), DefaultMajorEntities...),
		majorMinYear:  defaultMajorMinYear,
		cacheSize:     defaultCacheSize,
		log:           logger.Nop(),
	}

	for _, opt := range opts {
		opt(e)
	}

	e.emissions = filter.NewIndex(t.Emissions)
	majorSel := filter.Entities(e.majorMinYear, math.MaxInt, e.majorEntities...)
	e.major = filter.NewIndex(e.emissions.Filter(majorSel))
	e.mix = t.Mix
	e.mixIndex = filter.NewIndex(t.Mix.Table)
	e.snapshots = newSnapshotCache(e.cacheSize)

	return e
}

// Catalog returns the metric catalog.
func (e *Engine) Catalog() *metric.Catalog { return e.catalog }

// Countries returns the selectable countries, sorted.
func (e *Engine) Countries() []string {
	out := e.emissions.Entities()
	sort.Strings(out)
	return out
}

// MajorEntities returns the configured comparison entities.
func (e *Engine) MajorEntities() []string { return append([]string(nil), e.majorEntities...) }

// Years returns the distinct emissions years, ascending.
func (e *Engine) Years() []int { return e.emissions.Years() }

// Recompute derives the full ViewSet for p. On any error it returns nil and
// no partial set.
func (e *Engine) Recompute(ctx context.Context, p model.Params) (*ViewSet, error) {
	start := time.Now()
	set, err := e.recompute(ctx, p)
	if err != nil {
		metrics.RecordRecomputeError(errorKind(err))
		e.log.Debug(ctx, "recompute failed",
			logger.String("metric", p.Metric),
			logger.String("country", p.Country),
			logger.Error(err))
		return nil, err
	}
	metrics.RecordRecompute(float64(time.Since(start).Microseconds()) / 1000)
	for _, v := range set.All() {
		metrics.UpdateViewRows(v.Name, v.Table.Len())
	}
	return set, nil
}

// Validate checks p in the order Recompute does: metric, country, then
// year range.
func (e *Engine) Validate(p model.Params) (metric.Info, error) {
	info, err := e.catalog.Lookup(p.Metric)
	if err != nil {
		return metric.Info{}, err
	}
	if !e.emissions.HasEntity(p.Country) {
		return metric.Info{}, fmt.Errorf("%q: %w", p.Country, ErrUnknownEntity)
	}
	if !p.Years.Valid() {
		return metric.Info{}, fmt.Errorf("%s: %w", p.Years, ErrInvalidYearRange)
	}
	return info, nil
}

func (e *Engine) recompute(ctx context.Context, p model.Params) (*ViewSet, error) {
	info, err := e.Validate(p)
	if err != nil {
		return nil, err
	}

	set := &ViewSet{Params: p, Metric: info}
	steps := []func(*ViewSet){
		e.choropleth,
		e.series,
		e.composition,
		e.country,
		e.energyMix,
	}
	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		step(set)
	}
	return set, nil
}

// snapshot returns the cross-section of every entity at year.
func (e *Engine) snapshot(year int) model.Table {
	if t, ok := e.snapshots.get(year); ok {
		metrics.RecordSnapshotCacheHit()
		return t
	}
	metrics.RecordSnapshotCacheMiss()
	t := e.emissions.Filter(filter.Year(year))
	e.snapshots.put(year, t)
	metrics.UpdateSnapshotCacheSize(e.snapshots.size())
	return t
}

func (e *Engine) choropleth(s *ViewSet) {
	s.Choropleth = &View{
		Name:      NameChoropleth,
		Title:     fmt.Sprintf("%s in %d", s.Metric.Label, s.Params.FocusYear),
		Table:     e.snapshot(s.Params.FocusYear),
		Columns:   []string{s.Metric.ID},
		AxisLabel: s.Metric.Label,
		Domain:    &Domain{Min: 0, Max: s.Metric.Max},
	}
}

func (e *Engine) series(s *ViewSet) {
	t := e.major.Filter(filter.AnyEntity(s.Params.Years.Min, s.Params.Years.Max))
	s.Series = &View{
		Name:      NameSeries,
		Title:     fmt.Sprintf("%s %d-%d", s.Metric.Label, s.Params.Years.Min, s.Params.Years.Max),
		Table:     t,
		Columns:   []string{s.Metric.ID},
		AxisLabel: s.Metric.Label,
		Series:    groupSeries(t, s.Metric.ID),
	}
}

func (e *Engine) composition(s *ViewSet) {
	s.Composition = &View{
		Name:      NameComposition,
		Title:     fmt.Sprintf("CO2 by fuel in %d", s.Params.FocusYear),
		Table:     e.major.Filter(filter.Year(s.Params.FocusYear)),
		Columns:   append([]string(nil), compositionColumns...),
		AxisLabel: "CO2 (Million Tonnes)",
	}
}

func (e *Engine) country(s *ViewSet) {
	s.Country = &View{
		Name:      NameCountry,
		Title:     fmt.Sprintf("%s emissions", s.Params.Country),
		Table:     e.emissions.Filter(filter.Entity(s.Params.Country, s.Params.Years.Min, s.Params.Years.Max)),
		Columns:   append([]string(nil), countryColumns...),
		AxisLabel: s.Metric.Label,
	}
}

func (e *Engine) energyMix(s *ViewSet) {
	positions := e.mixIndex.Positions(filter.Entity(s.Params.Country, s.Params.Years.Min, s.Params.Years.Max))
	mix := e.mix.Subset(positions)
	s.Mix = &View{
		Name:      NameMix,
		Title:     fmt.Sprintf("%s energy mix", s.Params.Country),
		Table:     mix.Table,
		Columns:   append([]string(nil), model.EnergyShares...),
		AxisLabel: "Fraction",
		NoData:    mix.NoDataFlags(),
	}
}

// groupSeries splits t into per-entity series in order of first appearance.
func groupSeries(t model.Table, column string) []EntitySeries {
	var out []EntitySeries
	pos := make(map[string]int)
	for i := 0; i < t.Len(); i++ {
		r := t.Row(i)
		j, ok := pos[r.Entity]
		if !ok {
			j = len(out)
			pos[r.Entity] = j
			out = append(out, EntitySeries{Entity: r.Entity})
		}
		out[j].Points = append(out[j].Points, Point{Year: r.Year, Value: r.Value(column)})
	}
	return out
}

// ErrorCode maps a Recompute error to a stable machine-readable code, or ""
// for errors that are not parameter problems.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrUnknownMetric):
		return "unknown_metric"
	case errors.Is(err, ErrUnknownEntity):
		return "unknown_entity"
	case errors.Is(err, ErrInvalidYearRange):
		return "invalid_year_range"
	default:
		return ""
	}
}

func errorKind(err error) string {
	if code := ErrorCode(err); code != "" {
		return code
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return "canceled"
	}
	return "internal"
}
