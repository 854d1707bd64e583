package render

import (
	"image/color"
	"math"

	"salesprobe/domain/dataset"
	"salesprobe/internal/errors"
	"salesprobe/internal/profiling"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Default column names of the sales sheet
const (
	DefaultDateColumn         = "Order Date"
	DefaultSalesColumn        = "Sales"
	DefaultCategoryColumn     = "Category"
	DefaultRegionColumn       = "Region"
	DefaultProfitColumn       = "Profit"
	DefaultProfitMarginColumn = "Profit Margin"
)

// corrGrid adapts a correlation matrix to plotter.GridXYZ with the first column at the top
type corrGrid struct {
	m *mat.SymDense
	n int
}

func (g corrGrid) Dims() (c, r int)   { return g.n, g.n }
func (g corrGrid) Z(c, r int) float64 { return g.m.At(g.n-1-r, c) }
func (g corrGrid) X(c int) float64    { return float64(c) }
func (g corrGrid) Y(r int) float64    { return float64(r) }

// CorrelationHeatmap draws the annotated correlation matrix of the numeric columns
func CorrelationHeatmap(ds *dataset.Dataset, opts Options) (*plot.Plot, error) {
	opts = opts.withSize(heatmapSize)
	if opts.ColorMap == "" {
		opts.ColorMap = DefaultColorMap
	}

	names, corr := profiling.CorrelationMatrix(ds)
	if corr == nil {
		return nil, errors.InvalidInput("correlation matrix needs at least one numeric column")
	}
	pal, err := paletteFor(opts.ColorMap, 255, -1, 1)
	if err != nil {
		return nil, err
	}

	grid := corrGrid{m: corr, n: len(names)}
	heat := plotter.NewHeatMap(grid, pal)
	heat.Min, heat.Max = -1, 1
	heat.NaN = color.Gray{Y: 220}

	p := plot.New()
	p.Title.Text = "Correlation Matrix"
	p.Add(heat)

	var xys plotter.XYs
	var labels []string
	for c := 0; c < grid.n; c++ {
		for r := 0; r < grid.n; r++ {
			xys = append(xys, plotter.XY{X: grid.X(c), Y: grid.Y(r)})
			labels = append(labels, profiling.FormatFloat(roundTo(grid.Z(c, r), 2)))
		}
	}
	annotations, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: labels})
	if err != nil {
		return nil, errors.RenderFailed("correlation heatmap", err)
	}
	for i := range annotations.TextStyle {
		annotations.TextStyle[i].XAlign = draw.XCenter
		annotations.TextStyle[i].YAlign = draw.YCenter
	}
	p.Add(annotations)

	reversed := make([]string, len(names))
	for i, n := range names {
		reversed[len(names)-1-i] = n
	}
	p.NominalX(names...)
	p.NominalY(reversed...)

	return finish(p, opts, "correlation heatmap")
}

// MonthlySalesTrend draws summed sales per calendar month as a line
func MonthlySalesTrend(ds *dataset.Dataset, dateCol, salesCol string, opts Options) (*plot.Plot, error) {
	opts = opts.withSize(trendSize)
	if dateCol == "" {
		dateCol = DefaultDateColumn
	}
	if salesCol == "" {
		salesCol = DefaultSalesColumn
	}

	months, err := MonthlyTotals(ds, dateCol, salesCol)
	if err != nil {
		return nil, err
	}

	xys := make(plotter.XYs, len(months))
	for i, m := range months {
		xys[i] = plotter.XY{X: float64(m.Month.Unix()), Y: m.Total}
	}
	line, points, err := plotter.NewLinePoints(xys)
	if err != nil {
		return nil, errors.RenderFailed("monthly sales trend", err)
	}
	line.Width = vg.Points(2)
	points.Shape = draw.CircleGlyph{}

	p := plot.New()
	p.Title.Text = "Monthly Sales Trend"
	p.X.Label.Text = "Month"
	p.Y.Label.Text = "Sales"
	p.X.Tick.Marker = plot.TimeTicks{Format: "2006-01"}
	p.Add(plotter.NewGrid(), line, points)

	return finish(p, opts, "monthly sales trend")
}

// SalesByCategory draws mean sales per category as bars
func SalesByCategory(ds *dataset.Dataset, categoryCol, salesCol string, opts Options) (*plot.Plot, error) {
	if categoryCol == "" {
		categoryCol = DefaultCategoryColumn
	}
	if salesCol == "" {
		salesCol = DefaultSalesColumn
	}
	return groupBars(ds, categoryCol, salesCol, "Sales by Category", opts)
}

// ProfitByRegion draws mean profit per region as bars
func ProfitByRegion(ds *dataset.Dataset, regionCol, profitCol string, opts Options) (*plot.Plot, error) {
	if regionCol == "" {
		regionCol = DefaultRegionColumn
	}
	if profitCol == "" {
		profitCol = DefaultProfitColumn
	}
	return groupBars(ds, regionCol, profitCol, "Profit by Region", opts)
}

func groupBars(ds *dataset.Dataset, groupCol, valueCol, title string, opts Options) (*plot.Plot, error) {
	opts = opts.withSize(panelSize)

	groups, err := GroupMeans(ds, groupCol, valueCol)
	if err != nil {
		return nil, err
	}

	values := make(plotter.Values, len(groups))
	names := make([]string, len(groups))
	for i, g := range groups {
		values[i] = g.Mean
		names[i] = g.Group
	}

	width := opts.Width / vg.Length(2*len(groups)+2)
	bars, err := plotter.NewBarChart(values, width)
	if err != nil {
		return nil, errors.RenderFailed(title, err)
	}
	bars.Color = color.RGBA{R: 76, G: 114, B: 176, A: 255}
	bars.LineStyle.Width = vg.Length(0)

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = groupCol
	p.Y.Label.Text = valueCol
	p.Add(bars)
	p.NominalX(names...)

	return finish(p, opts, title)
}

// ProfitMarginDistribution draws a histogram of the profit margin column
func ProfitMarginDistribution(ds *dataset.Dataset, marginCol string, opts Options) (*plot.Plot, error) {
	opts = opts.withSize(panelSize)
	if marginCol == "" {
		marginCol = DefaultProfitMarginColumn
	}
	if opts.Bins <= 0 {
		opts.Bins = DefaultBins
	}

	col, ok := ds.Column(marginCol)
	if !ok {
		return nil, errors.ColumnNotFound(marginCol)
	}
	if col.Kind != dataset.KindNumeric {
		return nil, errors.InvalidInput("column " + marginCol + " is not numeric")
	}
	values := col.Floats()
	if len(values) == 0 {
		return nil, errors.InvalidInput("column " + marginCol + " has no values")
	}

	hist, err := plotter.NewHist(plotter.Values(values), opts.Bins)
	if err != nil {
		return nil, errors.RenderFailed("profit margin distribution", err)
	}
	hist.FillColor = color.RGBA{R: 76, G: 114, B: 176, A: 255}

	p := plot.New()
	p.Title.Text = "Profit Margin Distribution"
	p.X.Label.Text = marginCol
	p.Y.Label.Text = "Count"
	p.Add(hist)

	return finish(p, opts, "profit margin distribution")
}

func roundTo(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}
