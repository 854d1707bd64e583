package excel

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"salesprobe/domain/dataset"
	"salesprobe/internal"
	"salesprobe/internal/cleaning"
	"salesprobe/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const salesCSV = `Order Date,Category,Region,Sales,Profit
2024-01-03,Furniture,East,100.5,20
2024-01-17,Technology,West,,5
2024-02-02,Furniture,NA,300,-10
2024-02-20,Office Supplies,East,"1,200",(40)
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func quietLogger(buf *bytes.Buffer) *internal.Logger {
	return internal.NewLoggerTo(internal.LogLevelInfo, buf)
}

func TestReadCSVInfersKindsAndMissing(t *testing.T) {
	path := writeFile(t, "sales.csv", salesCSV)
	var buf bytes.Buffer

	ds, err := NewDataReaderWithConfig(path, DefaultReaderConfig(), quietLogger(&buf)).ReadData()
	require.NoError(t, err)

	assert.Equal(t, []string{"Order Date", "Category", "Region", "Sales", "Profit"}, ds.ColumnNames())
	assert.Equal(t, 4, ds.Nrow())

	date, _ := ds.Column("Order Date")
	assert.Equal(t, dataset.KindDatetime, date.Kind)

	region, _ := ds.Column("Region")
	assert.Equal(t, dataset.KindCategorical, region.Kind)
	assert.Equal(t, 1, region.MissingCount(), "NA is a missing token")

	sales, _ := ds.Column("Sales")
	assert.Equal(t, dataset.KindNumeric, sales.Kind)
	assert.True(t, sales.IsMissing(1))
	assert.Equal(t, []float64{100.5, 300, 1200}, sales.Floats())

	profit, _ := ds.Column("Profit")
	assert.Equal(t, []float64{20, 5, -10, -40}, profit.Floats())
}

func TestReadCSVRaggedRowsAndHeaders(t *testing.T) {
	var buf bytes.Buffer
	reader := NewDataReaderWithConfig("inline.csv", DefaultReaderConfig(), quietLogger(&buf))

	ds, err := reader.ReadCSV(strings.NewReader("A,,A,A\n1,2,3\n4,5,6,7\n"))
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "Unnamed: 1", "A.1", "A.2"}, ds.ColumnNames())
	last, _ := ds.Column("A.2")
	assert.True(t, last.IsMissing(0))
	assert.Equal(t, 7.0, last.Values[1].AsFloat64())
}

func TestReadCSVHeaderOnly(t *testing.T) {
	var buf bytes.Buffer
	reader := NewDataReaderWithConfig("inline.csv", DefaultReaderConfig(), quietLogger(&buf))

	ds, err := reader.ReadCSV(strings.NewReader("Sales,Region\n"))
	require.NoError(t, err)
	assert.Equal(t, 0, ds.Nrow())
	assert.Equal(t, 2, ds.Ncol())

	_, err = reader.ReadCSV(strings.NewReader(""))
	assert.Equal(t, errors.CodeLoadFailed, errors.GetCode(err))
}

func TestReadCSVMixedColumnKeepsText(t *testing.T) {
	var buf bytes.Buffer
	reader := NewDataReaderWithConfig("inline.csv", DefaultReaderConfig(), quietLogger(&buf))

	ds, err := reader.ReadCSV(strings.NewReader("Quantity\n1\n2\n3\n4\nfive\nNA\n"))
	require.NoError(t, err)

	quantity, _ := ds.Column("Quantity")
	assert.Equal(t, dataset.KindCategorical, quantity.Kind)
	assert.Equal(t, 1, quantity.MissingCount(), "only the NA token is missing")
	assert.Equal(t, "five", quantity.Values[4].String())

	cleaning.NewResolver(quietLogger(&buf)).Resolve(ds, cleaning.StrategyMedian, []string{"Quantity"})
	assert.Equal(t, "five", quantity.Values[4].String())
	assert.True(t, quantity.IsMissing(5))
}

func TestReadExcelFirstSheet(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]interface{}{"Category", "Sales", "Profit Margin"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]interface{}{"Furniture", 120.0, 0.25}))
	require.NoError(t, f.SetSheetRow(sheet, "A3", &[]interface{}{"Technology", nil, 0.1}))
	require.NoError(t, f.SetSheetRow(sheet, "A4", &[]interface{}{"Furniture", 80.0}))

	path := filepath.Join(t.TempDir(), "sales.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	var buf bytes.Buffer
	ds, err := NewDataReaderWithConfig(path, DefaultReaderConfig(), quietLogger(&buf)).ReadData()
	require.NoError(t, err)

	assert.Equal(t, []string{"Category", "Sales", "Profit Margin"}, ds.ColumnNames())
	assert.Equal(t, 3, ds.Nrow())

	sales, _ := ds.Column("Sales")
	assert.Equal(t, dataset.KindNumeric, sales.Kind)
	assert.Equal(t, []float64{120, 80}, sales.Floats())

	margin, _ := ds.Column("Profit Margin")
	assert.True(t, margin.IsMissing(2))
}

func TestReadExcelNamedSheet(t *testing.T) {
	f := excelize.NewFile()
	_, err := f.NewSheet("Orders")
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow("Orders", "A1", &[]interface{}{"Region"}))
	require.NoError(t, f.SetSheetRow("Orders", "A2", &[]interface{}{"South"}))
	path := filepath.Join(t.TempDir(), "book.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	var buf bytes.Buffer
	config := DefaultReaderConfig()
	config.SheetName = "Orders"
	ds, err := NewDataReaderWithConfig(path, config, quietLogger(&buf)).ReadData()
	require.NoError(t, err)
	assert.Equal(t, []string{"Region"}, ds.ColumnNames())

	config.SheetName = "Nope"
	_, err = NewDataReaderWithConfig(path, config, quietLogger(&buf)).ReadData()
	assert.Equal(t, errors.CodeLoadFailed, errors.GetCode(err))
}

func TestReadDataErrors(t *testing.T) {
	var buf bytes.Buffer

	_, err := NewDataReaderWithConfig(filepath.Join(t.TempDir(), "absent.csv"), DefaultReaderConfig(), quietLogger(&buf)).ReadData()
	assert.Equal(t, errors.CodeLoadFailed, errors.GetCode(err))

	path := writeFile(t, "sales.parquet", "PAR1")
	_, err = NewDataReaderWithConfig(path, DefaultReaderConfig(), quietLogger(&buf)).ReadData()
	assert.Equal(t, errors.CodeUnsupportedFormat, errors.GetCode(err))
}

func TestLoadLogsAndReturnsNilOnFailure(t *testing.T) {
	var buf bytes.Buffer
	missing := filepath.Join(t.TempDir(), "absent.csv")

	ds := Load(missing, DefaultReaderConfig(), quietLogger(&buf))
	assert.Nil(t, ds)
	assert.Contains(t, buf.String(), "Error loading CSV data:")

	buf.Reset()
	bogus := writeFile(t, "broken.xlsx", "not a zip archive")
	assert.Nil(t, Load(bogus, DefaultReaderConfig(), quietLogger(&buf)))
	assert.Contains(t, buf.String(), "Error loading Excel data:")

	buf.Reset()
	other := writeFile(t, "orders.json", "[]")
	assert.Nil(t, Load(other, DefaultReaderConfig(), quietLogger(&buf)))
	assert.Contains(t, buf.String(), "Error loading input data:")
	assert.NotContains(t, buf.String(), "Excel")
}

func TestLoadSuccessMessage(t *testing.T) {
	var buf bytes.Buffer
	path := writeFile(t, "sales.csv", salesCSV)

	ds := Load(path, DefaultReaderConfig(), quietLogger(&buf))
	require.NotNil(t, ds)
	assert.Contains(t, buf.String(), "CSV data loaded successfully from "+path)
}
