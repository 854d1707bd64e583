package excel

import (
	"encoding/csv"
	"io"
	"os"
	"time"

	"salesprobe/domain/dataset"
	"salesprobe/internal/errors"

	"github.com/xuri/excelize/v2"
)

// WriteCSV writes ds with a header row. Missing cells are written empty.
func WriteCSV(ds *dataset.Dataset, w io.Writer) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(ds.ColumnNames()); err != nil {
		return errors.Wrap(err, "write CSV header")
	}
	cols := ds.Columns()
	record := make([]string, len(cols))
	for i := 0; i < ds.Nrow(); i++ {
		for j, c := range cols {
			record[j] = cellText(c.Values[i])
		}
		if err := writer.Write(record); err != nil {
			return errors.Wrapf(err, "write CSV row %d", i)
		}
	}
	writer.Flush()
	return writer.Error()
}

// SaveCSV writes ds to a CSV file at path
func SaveCSV(ds *dataset.Dataset, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create %s", path)
	}
	if err := WriteCSV(ds, file); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// SaveExcel writes ds to a single-sheet workbook at path. An empty sheet name keeps "Sheet1".
func SaveExcel(ds *dataset.Dataset, path, sheet string) error {
	f := excelize.NewFile()
	defer f.Close()

	if sheet == "" {
		sheet = "Sheet1"
	} else if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return errors.Wrapf(err, "name sheet %s", sheet)
	}

	header := make([]interface{}, 0, ds.Ncol())
	for _, name := range ds.ColumnNames() {
		header = append(header, name)
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return errors.Wrap(err, "write header row")
	}

	cols := ds.Columns()
	for i := 0; i < ds.Nrow(); i++ {
		row := make([]interface{}, len(cols))
		for j, c := range cols {
			v := c.Values[i]
			switch {
			case v.IsMissing():
				row[j] = nil
			case v.IsNumeric():
				row[j] = v.AsFloat64()
			default:
				row[j] = cellText(v)
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return errors.Wrap(err, "cell name")
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return errors.Wrapf(err, "write row %d", i)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return errors.Wrapf(err, "save %s", path)
	}
	return nil
}

// cellText renders a cell for text output; dates without a clock keep only the date
func cellText(v dataset.Value) string {
	switch {
	case v.IsMissing():
		return ""
	case v.IsTimestamp():
		t := v.AsTime()
		if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
			return t.Format("2006-01-02")
		}
		return t.Format(time.RFC3339)
	}
	return v.String()
}
