package render

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"salesprobe/domain/dataset"
	"salesprobe/internal"
	"salesprobe/internal/errors"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
	"gonum.org/v1/plot/vg"
)

// Chart names a standard chart
type Chart string

const (
	ChartCorrelation  Chart = "correlation_heatmap"
	ChartMonthlyTrend Chart = "monthly_sales_trend"
	ChartCategorySale Chart = "sales_by_category"
	ChartRegionProfit Chart = "profit_by_region"
	ChartProfitMargin Chart = "profit_margin_distribution"
)

// Title returns the heading the chart is drawn with
func (c Chart) Title() string {
	switch c {
	case ChartCorrelation:
		return "Correlation Matrix"
	case ChartMonthlyTrend:
		return "Monthly Sales Trend"
	case ChartCategorySale:
		return "Sales by Category"
	case ChartRegionProfit:
		return "Profit by Region"
	case ChartProfitMargin:
		return "Profit Margin Distribution"
	}
	return string(c)
}

// AllCharts lists the standard charts in report order
func AllCharts() []Chart {
	return []Chart{ChartCorrelation, ChartMonthlyTrend, ChartCategorySale, ChartRegionProfit, ChartProfitMargin}
}

// BatchConfig configures a batch render
type BatchConfig struct {
	Dir      string // output directory, created when absent
	Format   string // file extension without the dot
	ColorMap string
	Bins     int
	Workers  int
	Charts   []Chart                // nil renders AllCharts
	Sizes    map[Chart][2]vg.Length // figure width and height; absent charts use their defaults
}

// Artifact is the outcome of one chart in a batch
type Artifact struct {
	Chart Chart
	Path  string
	Err   error
}

// Batcher renders several charts concurrently
type Batcher struct {
	logger *internal.Logger
}

// NewBatcher creates a batcher; a nil logger uses the default logger
func NewBatcher(logger *internal.Logger) *Batcher {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Batcher{logger: logger}
}

// Render draws the configured charts of ds into cfg.Dir. A chart that cannot be
// drawn is reported in its Artifact and does not stop the others; the returned
// error is set only for a bad configuration or a cancelled context.
func (b *Batcher) Render(ctx context.Context, ds *dataset.Dataset, cfg BatchConfig) ([]Artifact, error) {
	if ds == nil {
		return nil, errors.InvalidInput("no dataset to chart")
	}
	format := strings.TrimPrefix(strings.ToLower(cfg.Format), ".")
	if format == "" {
		format = "png"
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}
	charts := cfg.Charts
	if charts == nil {
		charts = AllCharts()
	}
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "create chart directory %s", cfg.Dir)
	}

	artifacts := make([]Artifact, len(charts))
	sem := semaphore.NewWeighted(int64(workers))
	g, gctx := errgroup.WithContext(ctx)

	for i, chart := range charts {
		i, chart := i, chart
		if err := sem.Acquire(gctx, 1); err != nil {
			break
		}
		g.Go(func() error {
			defer sem.Release(1)
			if err := gctx.Err(); err != nil {
				return err
			}
			path := filepath.Join(cfg.Dir, string(chart)+"."+format)
			opts := Options{Path: path, ColorMap: cfg.ColorMap, Bins: cfg.Bins}
			if size, ok := cfg.Sizes[chart]; ok {
				opts.Width, opts.Height = size[0], size[1]
			}
			err := Draw(ds, chart, opts)
			artifacts[i] = Artifact{Chart: chart, Path: path, Err: err}
			if err != nil {
				b.logger.Warn("[Render] %s skipped: %v", chart, err)
				artifacts[i].Path = ""
			} else {
				b.logger.Debug("[Render] %s written to %s", chart, path)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return artifacts, err
	}
	if err := ctx.Err(); err != nil {
		return artifacts, err
	}
	return artifacts, nil
}

// Batch renders with a batcher over the default logger
func Batch(ctx context.Context, ds *dataset.Dataset, cfg BatchConfig) ([]Artifact, error) {
	return NewBatcher(nil).Render(ctx, ds, cfg)
}

// Draw renders a single standard chart with the default column names
func Draw(ds *dataset.Dataset, chart Chart, opts Options) error {
	var err error
	switch chart {
	case ChartCorrelation:
		_, err = CorrelationHeatmap(ds, opts)
	case ChartMonthlyTrend:
		_, err = MonthlySalesTrend(ds, "", "", opts)
	case ChartCategorySale:
		_, err = SalesByCategory(ds, "", "", opts)
	case ChartRegionProfit:
		_, err = ProfitByRegion(ds, "", "", opts)
	case ChartProfitMargin:
		_, err = ProfitMarginDistribution(ds, "", opts)
	default:
		err = errors.InvalidInput("unknown chart " + string(chart))
	}
	return err
}

// ParseCharts maps comma separated chart names to charts
func ParseCharts(list string) ([]Chart, error) {
	if strings.TrimSpace(list) == "" {
		return nil, nil
	}
	known := make(map[Chart]bool)
	for _, c := range AllCharts() {
		known[c] = true
	}
	var out []Chart
	for _, name := range strings.Split(list, ",") {
		c := Chart(strings.TrimSpace(name))
		if !known[c] {
			return nil, errors.InvalidInput("unknown chart " + string(c))
		}
		out = append(out, c)
	}
	return out, nil
}
