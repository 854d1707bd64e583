package excel

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"salesprobe/adapters/datareadiness/coercer"
	"salesprobe/domain/dataset"
	"salesprobe/internal"
	"salesprobe/internal/errors"

	"github.com/xuri/excelize/v2"
)

// DataReader handles reading Excel and CSV files into a dataset
type DataReader struct {
	filePath string
	fileType string // "xlsx" or "csv"
	config   ReaderConfig
	coercer  *coercer.TypeCoercer
	logger   *internal.Logger
}

// NewDataReader creates a reader; the file type follows the extension
func NewDataReader(filePath string) *DataReader {
	return NewDataReaderWithConfig(filePath, DefaultReaderConfig(), internal.DefaultLogger)
}

// NewDataReaderWithConfig creates a reader with explicit configuration and logger
func NewDataReaderWithConfig(filePath string, config ReaderConfig, logger *internal.Logger) *DataReader {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &DataReader{
		filePath: filePath,
		fileType: fileTypeOf(filePath),
		config:   config,
		coercer:  coercer.NewTypeCoercer(config.CoercionConfig),
		logger:   logger,
	}
}

func fileTypeOf(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".txt":
		return "csv"
	case ".xlsx", ".xlsm", ".xltx", ".xltm":
		return "xlsx"
	default:
		return strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	}
}

// ReadData reads the file into a dataset
func (r *DataReader) ReadData() (*dataset.Dataset, error) {
	r.logger.Debug("[DataReader] Starting to read %s file: %s", r.fileType, r.filePath)

	if _, err := os.Stat(r.filePath); err != nil {
		return nil, errors.LoadFailed(r.filePath, err)
	}

	switch r.fileType {
	case "csv":
		return r.readCSVData()
	case "xlsx":
		return r.readExcelData()
	default:
		return nil, errors.UnsupportedFormat(filepath.Ext(r.filePath))
	}
}

// readExcelData reads the configured sheet, or the first sheet
func (r *DataReader) readExcelData() (*dataset.Dataset, error) {
	start := time.Now()
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, errors.LoadFailed(r.filePath, err)
	}
	defer f.Close()

	sheet := r.config.SheetName
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, errors.LoadFailed(r.filePath, fmt.Errorf("failed to read sheet %q: %w", sheet, err))
	}
	r.logger.Debug("[DataReader] Sheet %q read in %.2fms (%d rows)", sheet, float64(time.Since(start).Nanoseconds())/1e6, len(rows))

	return r.buildDataset(rows)
}

// readCSVData reads CSV data
func (r *DataReader) readCSVData() (*dataset.Dataset, error) {
	file, err := os.Open(r.filePath)
	if err != nil {
		return nil, errors.LoadFailed(r.filePath, err)
	}
	defer file.Close()

	return r.ReadCSV(file)
}

// ReadCSV parses CSV content from any reader
func (r *DataReader) ReadCSV(src io.Reader) (*dataset.Dataset, error) {
	reader := csv.NewReader(src)
	reader.FieldsPerRecord = -1
	start := time.Now()
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, errors.LoadFailed(r.filePath, err)
	}
	r.logger.Debug("[DataReader] CSV read in %.2fms (%d rows)", float64(time.Since(start).Nanoseconds())/1e6, len(rows))

	return r.buildDataset(rows)
}

// buildDataset turns raw string rows (header first) into a typed dataset
func (r *DataReader) buildDataset(rows [][]string) (*dataset.Dataset, error) {
	if len(rows) == 0 {
		return nil, errors.LoadFailed(r.filePath, fmt.Errorf("no header row"))
	}

	headers := normalizeHeaders(rows[0])
	body := rows[1:]

	ds := dataset.NewDataset(r.filePath)
	for j, name := range headers {
		raw := make([]string, len(body))
		for i, row := range body {
			if j < len(row) {
				raw[i] = row[j]
			}
		}
		kind := r.coercer.InferKind(raw)
		values := make([]dataset.Value, len(raw))
		for i, cell := range raw {
			values[i] = r.coercer.CoerceAs(cell, kind)
		}
		if err := ds.AddColumn(name, kind, values); err != nil {
			return nil, errors.LoadFailed(r.filePath, err)
		}
	}

	r.logger.Debug("[DataReader] %s file processed (%d columns, %d rows)",
		strings.ToUpper(r.fileType), ds.Ncol(), ds.Nrow())
	return ds, nil
}

// normalizeHeaders trims names, names blank headers "Unnamed: i" and suffixes
// duplicates with ".1", ".2", ...
func normalizeHeaders(raw []string) []string {
	headers := make([]string, len(raw))
	seen := make(map[string]int, len(raw))
	for i, h := range raw {
		name := strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}
		base := name
		for seen[name] > 0 {
			name = fmt.Sprintf("%s.%d", base, seen[base])
			seen[base]++
		}
		seen[name]++
		headers[i] = name
	}
	return headers
}

// LoadCSV loads a CSV file. Failures are logged and yield nil.
func LoadCSV(path string) *dataset.Dataset {
	return loadWith(path, "CSV", internal.DefaultLogger)
}

// LoadExcel loads the first sheet of an Excel workbook. Failures are logged and yield nil.
func LoadExcel(path string) *dataset.Dataset {
	return loadWith(path, "Excel", internal.DefaultLogger)
}

// Load picks CSV or Excel by extension. Failures are logged and yield nil.
func Load(path string, config ReaderConfig, logger *internal.Logger) *dataset.Dataset {
	return loadWithConfig(path, labelFor(fileTypeOf(path)), config, logger)
}

func labelFor(fileType string) string {
	switch fileType {
	case "csv":
		return "CSV"
	case "xlsx":
		return "Excel"
	default:
		return "input"
	}
}

func loadWith(path, label string, logger *internal.Logger) *dataset.Dataset {
	return loadWithConfig(path, label, DefaultReaderConfig(), logger)
}

func loadWithConfig(path, label string, config ReaderConfig, logger *internal.Logger) *dataset.Dataset {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	reader := NewDataReaderWithConfig(path, config, logger)
	switch label {
	case "CSV":
		reader.fileType = "csv"
	case "Excel":
		reader.fileType = "xlsx"
	}
	ds, err := reader.ReadData()
	if err != nil {
		logger.Error("Error loading %s data: %v", label, err)
		return nil
	}
	logger.Info("%s data loaded successfully from %s", label, path)
	return ds
}
