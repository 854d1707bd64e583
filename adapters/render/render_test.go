package render

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"salesprobe/domain/dataset"
	"salesprobe/internal"
	"salesprobe/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

func salesDataset(t *testing.T) *dataset.Dataset {
	t.Helper()
	day := func(m time.Month, d int) dataset.Value {
		return dataset.Time(time.Date(2024, m, d, 0, 0, 0, 0, time.UTC))
	}
	ds := dataset.NewDataset("sales")
	require.NoError(t, ds.AddColumn("Order Date", dataset.KindDatetime, []dataset.Value{
		day(1, 5), day(1, 20), day(3, 2), dataset.Missing(), day(4, 9),
	}))
	require.NoError(t, ds.AddColumn("Category", dataset.KindCategorical, []dataset.Value{
		dataset.Str("Technology"), dataset.Str("Furniture"), dataset.Str("Technology"), dataset.Str("Office"), dataset.Missing(),
	}))
	require.NoError(t, ds.AddColumn("Region", dataset.KindCategorical, []dataset.Value{
		dataset.Str("West"), dataset.Str("East"), dataset.Str("West"), dataset.Str("East"), dataset.Str("South"),
	}))
	require.NoError(t, ds.AddColumn("Sales", dataset.KindNumeric, []dataset.Value{
		dataset.Num(100), dataset.Num(50), dataset.Num(300), dataset.Num(80), dataset.Missing(),
	}))
	require.NoError(t, ds.AddColumn("Profit", dataset.KindNumeric, []dataset.Value{
		dataset.Num(20), dataset.Num(-5), dataset.Num(60), dataset.Num(8), dataset.Num(4),
	}))
	require.NoError(t, ds.AddColumn("Profit Margin", dataset.KindNumeric, []dataset.Value{
		dataset.Num(0.2), dataset.Num(-0.1), dataset.Num(0.2), dataset.Num(0.1), dataset.Missing(),
	}))
	return ds
}

func TestMonthlyTotalsFillsGapMonths(t *testing.T) {
	months, err := MonthlyTotals(salesDataset(t), "Order Date", "Sales")
	require.NoError(t, err)
	require.Len(t, months, 4)

	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), months[0].Month)
	assert.Equal(t, 150.0, months[0].Total)
	assert.Equal(t, 0.0, months[1].Total)
	assert.Equal(t, 300.0, months[2].Total)
	assert.Equal(t, 0.0, months[3].Total, "missing sales add nothing")
}

func TestMonthlyTotalsParsesTextDates(t *testing.T) {
	ds := dataset.NewDataset("t")
	require.NoError(t, ds.AddColumn("Order Date", dataset.KindCategorical, []dataset.Value{
		dataset.Str("2024-02-10"), dataset.Str("not a date"), dataset.Str("2024-02-28"),
	}))
	require.NoError(t, ds.AddColumn("Sales", dataset.KindNumeric, []dataset.Value{
		dataset.Num(1), dataset.Num(99), dataset.Num(2),
	}))

	months, err := MonthlyTotals(ds, "Order Date", "Sales")
	require.NoError(t, err)
	require.Len(t, months, 1)
	assert.Equal(t, 3.0, months[0].Total)
}

func TestMonthlyTotalsErrors(t *testing.T) {
	ds := salesDataset(t)

	_, err := MonthlyTotals(ds, "Ship Date", "Sales")
	assert.Equal(t, errors.CodeColumnNotFound, errors.GetCode(err))

	_, err = MonthlyTotals(ds, "Order Date", "Region")
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
}

func TestGroupMeansFirstAppearanceOrder(t *testing.T) {
	groups, err := GroupMeans(salesDataset(t), "Category", "Sales")
	require.NoError(t, err)

	assert.Equal(t, []GroupValue{
		{Group: "Technology", Mean: 200, Count: 2},
		{Group: "Furniture", Mean: 50, Count: 1},
		{Group: "Office", Mean: 80, Count: 1},
	}, groups)
}

func TestChartsDoNotMutateDataset(t *testing.T) {
	ds := salesDataset(t)
	before := ds.Clone()
	dir := t.TempDir()

	_, err := MonthlySalesTrend(ds, "", "", Options{Path: filepath.Join(dir, "trend.png")})
	require.NoError(t, err)
	_, err = CorrelationHeatmap(ds, Options{Path: filepath.Join(dir, "corr.png")})
	require.NoError(t, err)

	for _, name := range ds.ColumnNames() {
		got, _ := ds.Column(name)
		want, _ := before.Column(name)
		assert.Equal(t, want.Values, got.Values, name)
	}
}

func TestChartsWriteFiles(t *testing.T) {
	ds := salesDataset(t)
	dir := t.TempDir()

	cases := map[string]func(path string) error{
		"heatmap.png": func(p string) error { _, err := CorrelationHeatmap(ds, Options{Path: p, ColorMap: "kindlmann"}); return err },
		"trend.png":   func(p string) error { _, err := MonthlySalesTrend(ds, "", "", Options{Path: p}); return err },
		"bars.svg":    func(p string) error { _, err := SalesByCategory(ds, "", "", Options{Path: p}); return err },
		"region.png":  func(p string) error { _, err := ProfitByRegion(ds, "", "", Options{Path: p}); return err },
		"margin.png":  func(p string) error { _, err := ProfitMarginDistribution(ds, "", Options{Path: p, Bins: 5}); return err },
	}
	for name, fn := range cases {
		path := filepath.Join(dir, name)
		require.NoError(t, fn(path), name)
		info, err := os.Stat(path)
		require.NoError(t, err, name)
		assert.Greater(t, info.Size(), int64(0), name)
	}
}

func TestChartsDrawOnCallerCanvas(t *testing.T) {
	img := vgimg.New(4*vg.Inch, 3*vg.Inch)
	c := draw.New(img)

	p, err := ProfitByRegion(salesDataset(t), "", "", Options{Canvas: &c})
	require.NoError(t, err)
	assert.Equal(t, "Profit by Region", p.Title.Text)
}

func TestChartErrors(t *testing.T) {
	ds := salesDataset(t)

	_, err := SalesByCategory(ds, "Segment", "", Options{Path: filepath.Join(t.TempDir(), "x.png")})
	assert.Equal(t, errors.CodeColumnNotFound, errors.GetCode(err))

	_, err = ProfitMarginDistribution(ds, "", Options{})
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err), "no canvas and no path")

	_, err = CorrelationHeatmap(ds, Options{Path: filepath.Join(t.TempDir(), "x.png"), ColorMap: "sepia"})
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))

	_, err = CorrelationHeatmap(ds, Options{Path: filepath.Join(t.TempDir(), "x.bmp")})
	assert.Equal(t, errors.CodeRenderFailed, errors.GetCode(err))
}

func TestBatchRendersEachChart(t *testing.T) {
	ds := salesDataset(t)
	dir := filepath.Join(t.TempDir(), "charts")
	logger := internal.NewLoggerTo(internal.LogLevelError, os.Stderr)

	artifacts, err := NewBatcher(logger).Render(context.Background(), ds, BatchConfig{Dir: dir, Workers: 2})
	require.NoError(t, err)
	require.Len(t, artifacts, len(AllCharts()))

	for i, a := range artifacts {
		assert.Equal(t, AllCharts()[i], a.Chart)
		require.NoError(t, a.Err, a.Chart)
		assert.FileExists(t, a.Path)
	}
}

func TestBatchReportsFailedChartAndContinues(t *testing.T) {
	ds := dataset.NewDataset("t")
	require.NoError(t, ds.AddColumn("Region", dataset.KindCategorical, []dataset.Value{dataset.Str("West")}))
	require.NoError(t, ds.AddColumn("Profit", dataset.KindNumeric, []dataset.Value{dataset.Num(3)}))
	logger := internal.NewLoggerTo(internal.LogLevelError, os.Stderr)

	artifacts, err := NewBatcher(logger).Render(context.Background(), ds, BatchConfig{
		Dir:    t.TempDir(),
		Charts: []Chart{ChartMonthlyTrend, ChartRegionProfit},
	})
	require.NoError(t, err)

	assert.Equal(t, errors.CodeColumnNotFound, errors.GetCode(artifacts[0].Err))
	assert.Empty(t, artifacts[0].Path)
	assert.NoError(t, artifacts[1].Err)
	assert.FileExists(t, artifacts[1].Path)
}

func TestParseCharts(t *testing.T) {
	charts, err := ParseCharts("profit_by_region, sales_by_category")
	require.NoError(t, err)
	assert.Equal(t, []Chart{ChartRegionProfit, ChartCategorySale}, charts)

	charts, err = ParseCharts("")
	require.NoError(t, err)
	assert.Nil(t, charts)

	_, err = ParseCharts("pie")
	assert.Error(t, err)
}

func TestIsColorMap(t *testing.T) {
	for _, name := range ColorMaps() {
		assert.True(t, IsColorMap(name), name)
	}
	assert.True(t, IsColorMap(""), "empty selects the default")
	assert.True(t, IsColorMap(" CoolWarm "))
	assert.False(t, IsColorMap("rainbow"))
}
