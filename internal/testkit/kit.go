// Package testkit provides deterministic sales fixtures for tests and demos.
package testkit

import (
	"path/filepath"

	"salesprobe/adapters/excel"
	"salesprobe/domain/dataset"
)

// TestKit writes generated sales sheets into a directory
type TestKit struct {
	dir    string
	config SalesGeneratorConfig
}

// NewTestKit creates a kit writing under dir
func NewTestKit(dir string, config SalesGeneratorConfig) *TestKit {
	return &TestKit{dir: dir, config: config}
}

// Dataset generates a fresh copy of the configured dataset
func (k *TestKit) Dataset() (*dataset.Dataset, error) {
	return NewSalesDataGenerator(k.config).Generate()
}

// WriteCSV writes the dataset to dir/name and returns the path
func (k *TestKit) WriteCSV(name string) (string, error) {
	ds, err := k.Dataset()
	if err != nil {
		return "", err
	}
	path := filepath.Join(k.dir, name)
	return path, excel.SaveCSV(ds, path)
}

// WriteExcel writes the dataset to sheet of dir/name and returns the path
func (k *TestKit) WriteExcel(name, sheet string) (string, error) {
	ds, err := k.Dataset()
	if err != nil {
		return "", err
	}
	path := filepath.Join(k.dir, name)
	return path, excel.SaveExcel(ds, path, sheet)
}
