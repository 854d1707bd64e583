package testkit

import (
	"testing"
	"time"

	"salesprobe/adapters/excel"
	"salesprobe/domain/dataset"
	"salesprobe/internal/cleaning"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSalesDataGenerator_Shape(t *testing.T) {
	ds, err := NewSalesDataGenerator(DefaultSalesConfig()).Generate()
	require.NoError(t, err)

	assert.Equal(t, SalesColumns, ds.ColumnNames())
	assert.Equal(t, 200, ds.Nrow())
	assert.True(t, cleaning.Validate(ds, []string{"Order Date", "Sales", "Category", "Region", "Profit"}))

	dates, _ := ds.Column("Order Date")
	assert.Equal(t, 0, dates.MissingCount())
	for _, v := range dates.Values {
		d := v.AsTime()
		assert.False(t, d.Before(DefaultSalesConfig().StartDate))
		assert.False(t, d.After(DefaultSalesConfig().EndDate))
	}
}

func TestSalesDataGenerator_Deterministic(t *testing.T) {
	config := DefaultSalesConfig()
	config.Rows = 25

	a, err := NewSalesDataGenerator(config).Generate()
	require.NoError(t, err)
	b, err := NewSalesDataGenerator(config).Generate()
	require.NoError(t, err)

	for _, name := range SalesColumns {
		ca, _ := a.Column(name)
		cb, _ := b.Column(name)
		assert.Equal(t, ca.Values, cb.Values, name)
	}
}

func TestSalesDataGenerator_MissingRate(t *testing.T) {
	config := DefaultSalesConfig()
	config.MissingRate = 0

	ds, err := NewSalesDataGenerator(config).Generate()
	require.NoError(t, err)
	for _, c := range ds.Columns() {
		if c.Name == "Profit Margin" {
			continue
		}
		assert.Equal(t, 0, c.MissingCount(), c.Name)
	}

	config.MissingRate = 0.3
	config.Rows = 500
	ds, err = NewSalesDataGenerator(config).Generate()
	require.NoError(t, err)
	sales, _ := ds.Column("Sales")
	assert.InDelta(t, 150, sales.MissingCount(), 50)
	quantity, _ := ds.Column("Quantity")
	assert.Equal(t, dataset.KindNumeric, quantity.Kind)
	assert.Equal(t, 0, quantity.MissingCount())
}

func TestTestKitWritesReadableFiles(t *testing.T) {
	config := DefaultSalesConfig()
	config.Rows = 30
	config.StartDate = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	config.EndDate = time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)
	kit := NewTestKit(t.TempDir(), config)

	csvPath, err := kit.WriteCSV("sales.csv")
	require.NoError(t, err)
	ds := excel.LoadCSV(csvPath)
	require.NotNil(t, ds)
	assert.Equal(t, 30, ds.Nrow())
	date, _ := ds.Column("Order Date")
	assert.Equal(t, dataset.KindDatetime, date.Kind)

	xlsxPath, err := kit.WriteExcel("sales.xlsx", "")
	require.NoError(t, err)
	ds = excel.LoadExcel(xlsxPath)
	require.NotNil(t, ds)
	assert.Equal(t, SalesColumns, ds.ColumnNames())
}
