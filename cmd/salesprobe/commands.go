package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"salesprobe/adapters/excel"
	"salesprobe/adapters/postgres"
	"salesprobe/adapters/render"
	"salesprobe/domain/dataset"
	"salesprobe/internal"
	"salesprobe/internal/cleaning"
	"salesprobe/internal/config"
	"salesprobe/internal/profiling"
	"salesprobe/internal/report"

	"github.com/spf13/cobra"
	"gonum.org/v1/plot/vg"
)

// cli carries state shared by all subcommands
type cli struct {
	out    io.Writer
	cfg    *config.Config
	logger *internal.Logger
	query  string
	sheet  string
}

func newRootCmd(out io.Writer) *cobra.Command {
	c := &cli{out: out}

	rootCmd := &cobra.Command{
		Use:           "salesprobe",
		Short:         "Explore, clean and chart sales spreadsheets",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			c.cfg = cfg
			c.logger = internal.NewLogger(internal.ParseLogLevel(cfg.LogLevel))
			return nil
		},
	}
	rootCmd.SetOut(out)
	rootCmd.PersistentFlags().StringVar(&c.query, "query", "", "Load from DATABASE_URL with this SQL instead of a file (default without a file: SALES_QUERY)")
	rootCmd.PersistentFlags().StringVar(&c.sheet, "sheet", "", "Workbook sheet to read (default: SALES_SHEET or the first sheet)")

	rootCmd.AddCommand(
		c.newExploreCmd(),
		c.newCleanCmd(),
		c.newChartsCmd(),
		c.newReportCmd(),
	)
	return rootCmd
}

func (c *cli) newExploreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "explore [file]",
		Short: "Print shape, column info, summary statistics and missing counts",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, _, err := c.load(cmd.Context(), args)
			if err != nil {
				return err
			}
			exp, err := profiling.Explore(ds)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.out, "Shape: (%d, %d)\n\n", exp.Rows, exp.Columns)
			fmt.Fprintln(c.out, exp.Info)
			fmt.Fprintln(c.out, exp.Description)
			if len(exp.Distributions) > 0 {
				fmt.Fprintln(c.out, "Distribution shape:")
				fmt.Fprintln(c.out, exp.Shape)
			}
			fmt.Fprintln(c.out, "Missing values:")
			fmt.Fprint(c.out, profiling.RenderMissingSummary(profiling.MissingSummary(ds)))
			return nil
		},
	}
}

func (c *cli) newCleanCmd() *cobra.Command {
	var strategy, columns, out string

	cmd := &cobra.Command{
		Use:   "clean [file]",
		Short: "Resolve missing values and write the cleaned data as CSV",
		Long: `Resolve missing values with one strategy and write the result as CSV.

Strategies: median, mean, mode, drop. Without --columns every column is processed.

Example: salesprobe clean superstore.xlsx --strategy mode --columns Region,Category --out clean.csv`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, _, err := c.load(cmd.Context(), args)
			if err != nil {
				return err
			}
			s, targets, err := c.cleaningPlan(strategy, columns)
			if err != nil {
				return err
			}
			before := totalMissing(ds)
			cleaning.NewResolver(c.logger).Resolve(ds, s, targets)
			if err := excel.SaveCSV(ds, out); err != nil {
				return err
			}
			fmt.Fprintf(c.out, "%s: %d rows written to %s, missing cells %d -> %d\n",
				s, ds.Nrow(), out, before, totalMissing(ds))
			return nil
		},
	}

	cmd.Flags().StringVar(&strategy, "strategy", "", "median, mean, mode or drop (default: IMPUTE_STRATEGY)")
	cmd.Flags().StringVar(&columns, "columns", "", "Comma separated columns (default: IMPUTE_COLUMNS or all)")
	cmd.Flags().StringVar(&out, "out", "cleaned.csv", "Output CSV path")
	return cmd
}

func (c *cli) newChartsCmd() *cobra.Command {
	var out, charts string

	cmd := &cobra.Command{
		Use:   "charts [file]",
		Short: "Render the standard sales charts into a directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, _, err := c.load(cmd.Context(), args)
			if err != nil {
				return err
			}
			selected, err := render.ParseCharts(charts)
			if err != nil {
				return err
			}
			if out == "" {
				out = c.cfg.Charts.Dir
			}
			artifacts, err := c.renderCharts(cmd.Context(), ds, out, selected)
			if err != nil {
				return err
			}
			for _, a := range artifacts {
				if a.Err != nil {
					fmt.Fprintf(c.out, "%-28s skipped: %v\n", a.Chart, a.Err)
					continue
				}
				fmt.Fprintf(c.out, "%-28s %s\n", a.Chart, a.Path)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&out, "out", "", "Output directory (default: CHART_DIR)")
	cmd.Flags().StringVar(&charts, "charts", "", "Comma separated chart names (default: all)")
	return cmd
}

func (c *cli) newReportCmd() *cobra.Command {
	var out, title, strategy string
	var clean bool

	cmd := &cobra.Command{
		Use:   "report [file]",
		Short: "Write a markdown and HTML report with charts",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, missing, err := c.load(cmd.Context(), args)
			if err != nil {
				return err
			}

			var notes []string
			if len(missing) > 0 {
				notes = append(notes, fmt.Sprintf("Missing required columns: %s", strings.Join(missing, ", ")))
			}
			if clean {
				s, targets, err := c.cleaningPlan(strategy, "")
				if err != nil {
					return err
				}
				before := totalMissing(ds)
				cleaning.NewResolver(c.logger).Resolve(ds, s, targets)
				notes = append(notes, fmt.Sprintf("Missing values resolved with %s: %d -> %d cells", s, before, totalMissing(ds)))
			}

			artifacts, err := c.renderCharts(cmd.Context(), ds, filepath.Join(out, "charts"), nil)
			if err != nil {
				return err
			}
			var links []report.ChartLink
			for _, a := range artifacts {
				if a.Err != nil {
					notes = append(notes, fmt.Sprintf("%s not drawn: %v", a.Chart.Title(), a.Err))
					continue
				}
				rel, err := filepath.Rel(out, a.Path)
				if err != nil {
					rel = a.Path
				}
				links = append(links, report.ChartLink{Title: a.Chart.Title(), Path: rel})
			}

			r, err := report.Build(title, ds, links, notes...)
			if err != nil {
				return err
			}
			mdPath, htmlPath, err := r.Save(out)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.out, "Report written to %s and %s\n", mdPath, htmlPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&out, "out", "report", "Output directory")
	cmd.Flags().StringVar(&title, "title", "", "Report title")
	cmd.Flags().BoolVar(&clean, "clean", false, "Resolve missing values before reporting")
	cmd.Flags().StringVar(&strategy, "strategy", "", "Strategy used with --clean (default: IMPUTE_STRATEGY)")
	return cmd
}

// load reads the dataset and checks the required columns, returning the absent
// ones. --query wins, then the file argument or SALES_FILE, then SALES_QUERY
// against DATABASE_URL.
func (c *cli) load(ctx context.Context, args []string) (*dataset.Dataset, []string, error) {
	path := c.cfg.Data.File
	if len(args) > 0 {
		path = args[0]
	}

	var ds *dataset.Dataset
	var err error
	switch {
	case c.query != "":
		if c.cfg.Database.URL == "" {
			return nil, nil, fmt.Errorf("--query needs DATABASE_URL")
		}
		ds, err = c.loadQuery(ctx, c.query)
	case path != "":
		ds, err = c.loadFile(path)
	case c.cfg.Database.URL != "":
		ds, err = c.loadQuery(ctx, c.cfg.Database.Query)
	default:
		return nil, nil, fmt.Errorf("no input file: pass one, set SALES_FILE or set DATABASE_URL")
	}
	if err != nil {
		return nil, nil, err
	}

	missing := cleaning.NewValidator(c.logger).Check(ds, c.cfg.Data.RequiredColumns)
	return ds, missing, nil
}

func (c *cli) loadQuery(ctx context.Context, query string) (*dataset.Dataset, error) {
	db, err := postgres.Open(ctx, c.cfg.Database.Driver, c.cfg.Database.URL)
	if err != nil {
		return nil, err
	}
	defer db.Close()
	return postgres.NewQueryLoader(db, c.logger).Load(ctx, query)
}

func (c *cli) loadFile(path string) (*dataset.Dataset, error) {
	readerConfig := excel.DefaultReaderConfig()
	readerConfig.SheetName = c.cfg.Data.Sheet
	if c.sheet != "" {
		readerConfig.SheetName = c.sheet
	}
	ds := excel.Load(path, readerConfig, c.logger)
	if ds == nil {
		return nil, fmt.Errorf("could not load %s", path)
	}
	return ds, nil
}

// cleaningPlan resolves strategy and column flags against the configuration
func (c *cli) cleaningPlan(strategy, columns string) (cleaning.Strategy, []string, error) {
	s := c.cfg.Cleaning.Strategy
	if strategy != "" {
		parsed, err := cleaning.ParseStrategy(strategy)
		if err != nil {
			return "", nil, err
		}
		s = parsed
	}
	targets := c.cfg.Cleaning.Columns
	if columns != "" {
		targets = nil
		for _, name := range strings.Split(columns, ",") {
			if name = strings.TrimSpace(name); name != "" {
				targets = append(targets, name)
			}
		}
	}
	return s, targets, nil
}

func (c *cli) renderCharts(ctx context.Context, ds *dataset.Dataset, dir string, charts []render.Chart) ([]render.Artifact, error) {
	chartCfg := c.cfg.Charts
	inches := func(size config.FigureSize) [2]vg.Length {
		return [2]vg.Length{vg.Length(size.Width) * vg.Inch, vg.Length(size.Height) * vg.Inch}
	}
	return render.NewBatcher(c.logger).Render(ctx, ds, render.BatchConfig{
		Dir:      dir,
		Format:   chartCfg.Format,
		ColorMap: chartCfg.ColorMap,
		Bins:     chartCfg.Bins,
		Workers:  chartCfg.Workers,
		Charts:   charts,
		Sizes: map[render.Chart][2]vg.Length{
			render.ChartCorrelation:  inches(chartCfg.Heatmap),
			render.ChartMonthlyTrend: inches(chartCfg.Trend),
			render.ChartCategorySale: inches(chartCfg.Panel),
			render.ChartRegionProfit: inches(chartCfg.Panel),
			render.ChartProfitMargin: inches(chartCfg.Panel),
		},
	})
}

func totalMissing(ds *dataset.Dataset) int {
	n := 0
	for _, m := range profiling.MissingSummary(ds) {
		n += m.Missing
	}
	return n
}
