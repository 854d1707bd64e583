package excel

import (
	"salesprobe/adapters/datareadiness/coercer"
)

// ReaderConfig holds configuration for file-based data sources
type ReaderConfig struct {
	SheetName      string                 `json:"sheet_name"` // empty selects the first sheet
	CoercionConfig coercer.CoercionConfig `json:"coercion_config"`
}

// DefaultReaderConfig returns sensible defaults for CSV and Excel reading
func DefaultReaderConfig() ReaderConfig {
	return ReaderConfig{
		CoercionConfig: coercer.DefaultCoercionConfig(),
	}
}
