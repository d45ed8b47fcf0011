// Command render loads the configured datasets once and writes every view of
// one parameter state as chart images plus a spreadsheet export.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/okian/carbonview/internal/adapters/export"
	"github.com/okian/carbonview/internal/adapters/render"
	app "github.com/okian/carbonview/internal/app"
	"github.com/okian/carbonview/internal/config"
	"github.com/okian/carbonview/internal/domain/model"
	"github.com/okian/carbonview/pkg/logger"
)

const exportName = "carbonview.xlsx"

type renderFlags struct {
	metric    string
	country   string
	yearMin   int
	yearMax   int
	focusYear int
	outDir    string
	format    string
	topN      int
	noExport  bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var f renderFlags
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render every view of one parameter state to files",
		Long: `Loads the emissions, energy-mix and observatory datasets from the
configured sources (CARBONVIEW_* env vars or CARBONVIEW_CONFIG), recomputes
the view set for the given parameters and writes one chart per view plus a
workbook with one sheet per view.

Parameters not given as flags keep their configured default.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, f)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&f.metric, "metric", "", "metric id (co2, share_global_co2, co2_per_gdp, co2_per_capita, methane)")
	flags.StringVar(&f.country, "country", "", "focus country")
	flags.IntVar(&f.yearMin, "year-min", 0, "first year of the series range")
	flags.IntVar(&f.yearMax, "year-max", 0, "last year of the series range")
	flags.IntVar(&f.focusYear, "focus-year", 0, "year of the cross-section views")
	flags.StringVarP(&f.outDir, "out", "o", ".", "output directory")
	flags.StringVar(&f.format, "format", "png", "image format: png, svg or pdf")
	flags.IntVar(&f.topN, "top-n", 0, "bars in the ranked cross-section chart (0 keeps the configured value)")
	flags.BoolVar(&f.noExport, "no-export", false, "skip the spreadsheet export")
	return cmd
}

// params overlays the flags the user actually set on defaults.
func (f renderFlags) params(cmd *cobra.Command, defaults model.Params) model.Params {
	p := defaults
	flags := cmd.Flags()
	if flags.Changed("metric") {
		p.Metric = f.metric
	}
	if flags.Changed("country") {
		p.Country = f.country
	}
	if flags.Changed("year-min") {
		p.Years.Min = f.yearMin
	}
	if flags.Changed("year-max") {
		p.Years.Max = f.yearMax
	}
	if flags.Changed("focus-year") {
		p.FocusYear = f.focusYear
	}
	return p
}

func run(cmd *cobra.Command, f renderFlags) error {
	ctx := cmd.Context()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	if err := logger.Init(); err != nil {
		return err
	}
	// Stdout carries the written paths; logs go to stderr.
	logger.SetOutput(cmd.ErrOrStderr())
	if err := logger.SetFormat(cfg.LogFormat); err != nil {
		_ = logger.SetFormat("text")
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		_ = logger.SetLevelString("info")
	}
	log := logger.Named("render")

	topN := cfg.ChartTopN
	if f.topN > 0 {
		topN = f.topN
	}
	renderer := render.New(render.WithFormat(f.format), render.WithTopN(topN))
	if renderer.ContentType() == "" {
		return fmt.Errorf("%q: %w", f.format, render.ErrUnsupportedFormat)
	}

	svc := app.New(app.WithConfig(cfg), app.WithLogger(log))
	if err := svc.Start(ctx); err != nil {
		return err
	}
	defer svc.Stop()

	p := f.params(cmd, svc.DefaultParams())
	set, err := svc.Recompute(ctx, p)
	if err != nil {
		return fmt.Errorf("recompute %s/%s: %w", p.Metric, p.Country, err)
	}

	if err := os.MkdirAll(f.outDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	for _, v := range set.All() {
		path := filepath.Join(f.outDir, v.Name+"."+renderer.Format())
		if err := writeFile(path, func(w *os.File) error { return renderer.Render(w, v) }); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
	}

	if f.noExport {
		return nil
	}
	var opts []export.Option
	if obs, err := svc.Observatory(ctx); err == nil {
		opts = append(opts, export.WithObservations(obs))
	}
	path := filepath.Join(f.outDir, exportName)
	if err := writeFile(path, func(w *os.File) error { return export.Write(w, set, opts...) }); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), path)
	log.Info(ctx, "render finished",
		logger.String("out", f.outDir),
		logger.Int("views", len(set.All())),
	)
	return nil
}

func writeFile(path string, write func(*os.File) error) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(out); err != nil {
		_ = out.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}
