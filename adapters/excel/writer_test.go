package excel

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"salesprobe/domain/dataset"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ordersDataset(t *testing.T) *dataset.Dataset {
	t.Helper()
	ds := dataset.NewDataset("orders")
	require.NoError(t, ds.AddColumn("Order Date", dataset.KindDatetime, []dataset.Value{
		dataset.Time(time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)), dataset.Missing(),
	}))
	require.NoError(t, ds.AddColumn("Region", dataset.KindCategorical, []dataset.Value{
		dataset.Str("West"), dataset.Str("East"),
	}))
	require.NoError(t, ds.AddColumn("Sales", dataset.KindNumeric, []dataset.Value{
		dataset.Num(12.5), dataset.Missing(),
	}))
	return ds
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(ordersDataset(t), &buf))
	assert.Equal(t, "Order Date,Region,Sales\n2024-05-01,West,12.5\n,East,\n", buf.String())
}

func TestSaveCSVReadsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clean.csv")
	require.NoError(t, SaveCSV(ordersDataset(t), path))

	var logs bytes.Buffer
	ds, err := NewDataReaderWithConfig(path, DefaultReaderConfig(), quietLogger(&logs)).ReadData()
	require.NoError(t, err)

	sales, _ := ds.Column("Sales")
	assert.Equal(t, dataset.KindNumeric, sales.Kind)
	assert.True(t, sales.IsMissing(1))
	date, _ := ds.Column("Order Date")
	assert.Equal(t, dataset.KindDatetime, date.Kind)
}

func TestSaveExcelReadsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orders.xlsx")
	require.NoError(t, SaveExcel(ordersDataset(t), path, "Orders"))

	var logs bytes.Buffer
	config := DefaultReaderConfig()
	config.SheetName = "Orders"
	ds, err := NewDataReaderWithConfig(path, config, quietLogger(&logs)).ReadData()
	require.NoError(t, err)

	assert.Equal(t, []string{"Order Date", "Region", "Sales"}, ds.ColumnNames())
	sales, _ := ds.Column("Sales")
	assert.Equal(t, []float64{12.5}, sales.Floats())
	region, _ := ds.Column("Region")
	assert.Equal(t, "East", region.Values[1].String())
}
