// Package loader reads CSV datasets from local files or http(s) URLs into raw
// tables.
package loader

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/okian/carbonview/internal/domain/model"
	"github.com/okian/carbonview/pkg/logger"
	"github.com/okian/carbonview/pkg/metrics"
)

const defaultTimeout = 30 * time.Second

// Source describes one dataset location. When Columns is set the file has no
// usable header and Columns names its fields in order; otherwise the first
// row after SkipRows is the header.
type Source struct {
	Name     string
	Location string
	SkipRows int
	Columns  []string
}

// Remote reports whether the source is fetched over HTTP.
func (s Source) Remote() bool {
	return strings.HasPrefix(s.Location, "http://") || strings.HasPrefix(s.Location, "https://")
}

// Loader reads sources.
type Loader struct {
	client  *http.Client
	timeout time.Duration
	log     logger.Logger
}

// New creates a Loader.
func New(opts ...Option) *Loader {
	l := &Loader{
		client:  http.DefaultClient,
		timeout: defaultTimeout,
		log:     logger.Nop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load reads one source. Failures wrap ErrDataUnavailable.
func (l *Loader) Load(ctx context.Context, src Source) (model.RawTable, error) {
	start := time.Now()
	raw, err := l.load(ctx, src)
	if err != nil {
		metrics.RecordDatasetLoadError(src.Name)
		return model.RawTable{}, fmt.Errorf("%s from %s: %w: %w", src.Name, src.Location, ErrDataUnavailable, err)
	}
	metrics.RecordDatasetLoad(src.Name, float64(time.Since(start).Milliseconds()))
	l.log.Info(ctx, "dataset loaded",
		logger.String("dataset", src.Name),
		logger.String("location", src.Location),
		logger.Int("rows", len(raw.Rows)),
		logger.Duration("took", time.Since(start)))
	return raw, nil
}

// LoadAll reads every source concurrently and returns the tables keyed by
// source name. The first failure cancels the rest.
func (l *Loader) LoadAll(ctx context.Context, sources ...Source) (map[string]model.RawTable, error) {
	var mu sync.Mutex
	out := make(map[string]model.RawTable, len(sources))

	g, gctx := errgroup.WithContext(ctx)
	for _, src := range sources {
		g.Go(func() error {
			raw, err := l.Load(gctx, src)
			if err != nil {
				return err
			}
			mu.Lock()
			out[src.Name] = raw
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (l *Loader) load(ctx context.Context, src Source) (model.RawTable, error) {
	if src.Location == "" {
		return model.RawTable{}, errors.New("empty location")
	}
	if !src.Remote() {
		f, err := os.Open(src.Location)
		if err != nil {
			return model.RawTable{}, err
		}
		defer f.Close()
		return Parse(src, f)
	}

	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src.Location, http.NoBody)
	if err != nil {
		return model.RawTable{}, err
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return model.RawTable{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return model.RawTable{}, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return Parse(src, resp.Body)
}

// Parse reads CSV from r according to src. Cells are whitespace-trimmed;
// short records leave their trailing columns empty.
func Parse(src Source, r io.Reader) (model.RawTable, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true

	for i := 0; i < src.SkipRows; i++ {
		if _, err := cr.Read(); err != nil {
			if errors.Is(err, io.EOF) {
				return model.RawTable{}, fmt.Errorf("only %d of %d leading rows", i, src.SkipRows)
			}
			return model.RawTable{}, err
		}
	}

	header := append([]string(nil), src.Columns...)
	if len(header) == 0 {
		rec, err := cr.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return model.RawTable{}, errors.New("missing header")
			}
			return model.RawTable{}, err
		}
		for _, h := range rec {
			header = append(header, strings.TrimSpace(h))
		}
	}

	out := model.RawTable{Name: src.Name, Header: header}
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return model.RawTable{}, err
		}
		row := make(model.RawRow, len(header))
		for j, h := range header {
			if j < len(rec) {
				row[h] = strings.TrimSpace(rec[j])
			} else {
				row[h] = ""
			}
		}
		out.Rows = append(out.Rows, row)
	}
	return out, nil
}
