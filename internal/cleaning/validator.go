// Package cleaning holds the dataset checks and repairs that run before analysis:
// required-column validation and missing-value resolution.
//
// Neither operation returns an error. Problems are reported as diagnostics on
// the configured logger and the caller decides whether to proceed.
package cleaning

import (
	"salesprobe/domain/dataset"
	"salesprobe/internal"
)

// Validator checks that a dataset exposes the columns downstream steps need
type Validator struct {
	logger *internal.Logger
}

// NewValidator creates a validator reporting on logger (DefaultLogger when nil)
func NewValidator(logger *internal.Logger) *Validator {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Validator{logger: logger}
}

// Validate returns true when every required column is present. Otherwise it
// emits one diagnostic listing the absent names, in required order, and returns false.
func (v *Validator) Validate(ds *dataset.Dataset, required []string) bool {
	return len(v.Check(ds, required)) == 0
}

// Check is Validate returning the absent names instead of a verdict
func (v *Validator) Check(ds *dataset.Dataset, required []string) []string {
	missing := MissingColumns(ds, required)
	if len(missing) > 0 {
		v.logger.Warn("DataFrame is missing required columns: %q", missing)
	}
	return missing
}

// MissingColumns returns the required names absent from ds, in required order
func MissingColumns(ds *dataset.Dataset, required []string) []string {
	var missing []string
	for _, name := range required {
		if !ds.HasColumn(name) {
			missing = append(missing, name)
		}
	}
	return missing
}

// Validate checks required columns using the default logger
func Validate(ds *dataset.Dataset, required []string) bool {
	return NewValidator(nil).Validate(ds, required)
}
