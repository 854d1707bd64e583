package coercer

import (
	"math"
	"strconv"
	"strings"
	"time"

	"salesprobe/domain/dataset"
)

// TypeCoercer turns raw cell text into typed dataset values and infers column kinds
type TypeCoercer struct {
	config  CoercionConfig
	missing map[string]bool
}

// CoercionConfig defines the coercion thresholds and rules
type CoercionConfig struct {
	NumericThreshold   float64  `json:"numeric_threshold"`   // share of non-missing values that must parse as numbers
	BooleanThreshold   float64  `json:"boolean_threshold"`   // share that must parse as booleans
	TimestampThreshold float64  `json:"timestamp_threshold"` // share that must parse as timestamps
	MissingTokens      []string `json:"missing_tokens"`      // cell texts read as the missing marker
	TrimStrings        bool     `json:"trim_strings"`
}

// DefaultMissingTokens mirrors the usual spreadsheet/CSV spellings of "no value"
var DefaultMissingTokens = []string{
	"", "NA", "N/A", "n/a", "#N/A", "NaN", "nan", "-NaN", "NULL", "null", "None", "<NA>",
}

// DefaultCoercionConfig requires every non-missing cell to parse before a
// column is typed, so text in a mostly numeric column keeps it categorical
func DefaultCoercionConfig() CoercionConfig {
	return CoercionConfig{
		NumericThreshold:   1.0,
		BooleanThreshold:   1.0,
		TimestampThreshold: 1.0,
		MissingTokens:      DefaultMissingTokens,
		TrimStrings:        true,
	}
}

// NewTypeCoercer creates a coercer with the given config
func NewTypeCoercer(config CoercionConfig) *TypeCoercer {
	missing := make(map[string]bool, len(config.MissingTokens))
	for _, tok := range config.MissingTokens {
		missing[tok] = true
	}
	return &TypeCoercer{config: config, missing: missing}
}

// IsMissingToken reports whether raw is one of the configured missing spellings
func (c *TypeCoercer) IsMissingToken(raw string) bool {
	return c.missing[strings.TrimSpace(raw)]
}

// CoerceAs converts raw text to a value of the given column kind. Cells that
// do not fit the kind become the missing marker; with the default thresholds
// InferKind never picks a kind that some cell does not fit.
func (c *TypeCoercer) CoerceAs(raw string, kind dataset.Kind) dataset.Value {
	if c.IsMissingToken(raw) {
		return dataset.Missing()
	}
	switch kind {
	case dataset.KindNumeric:
		if v, ok := c.ParseNumeric(raw); ok {
			return dataset.Num(v)
		}
		return dataset.Missing()
	case dataset.KindBoolean:
		if b, ok := c.ParseBoolean(raw); ok {
			return dataset.Bool(b)
		}
		return dataset.Missing()
	case dataset.KindDatetime:
		if t, ok := c.ParseTimestamp(raw); ok {
			return dataset.Time(t)
		}
		return dataset.Missing()
	default:
		return c.coerceToString(raw)
	}
}

// InferKind picks a column kind from raw cell texts
func (c *TypeCoercer) InferKind(raw []string) dataset.Kind {
	return c.AnalyzeTypeDistribution(raw).RecommendedKind
}

// AnalyzeTypeDistribution counts how many non-missing values parse as each type
func (c *TypeCoercer) AnalyzeTypeDistribution(raw []string) TypeAnalysis {
	analysis := TypeAnalysis{TotalCount: len(raw)}

	for _, s := range raw {
		if c.IsMissingToken(s) {
			continue
		}
		analysis.ValidCount++
		if _, ok := c.ParseNumeric(s); ok {
			analysis.NumericCount++
		}
		if _, ok := c.ParseBoolean(s); ok {
			analysis.BooleanCount++
		}
		if _, ok := c.ParseTimestamp(s); ok {
			analysis.TimestampCount++
		}
	}

	if analysis.ValidCount > 0 {
		valid := float64(analysis.ValidCount)
		analysis.NumericRatio = float64(analysis.NumericCount) / valid
		analysis.BooleanRatio = float64(analysis.BooleanCount) / valid
		analysis.TimestampRatio = float64(analysis.TimestampCount) / valid
	}
	analysis.RecommendedKind = c.determineRecommendedKind(analysis)

	return analysis
}

// coerceToString trims (when configured) and wraps text; blank text is missing
func (c *TypeCoercer) coerceToString(s string) dataset.Value {
	if c.config.TrimStrings {
		s = strings.TrimSpace(s)
	}
	return dataset.Str(s)
}

// ParseNumeric parses numbers as they appear in sales sheets: currency symbols,
// thousands separators, percent signs, accounting negatives "(123)" and
// European decimals "1.234,56".
func (c *TypeCoercer) ParseNumeric(s string) (float64, bool) {
	clean := strings.TrimSpace(s)
	if clean == "" {
		return 0, false
	}

	negative := false
	if strings.HasPrefix(clean, "(") && strings.HasSuffix(clean, ")") {
		clean = strings.TrimSuffix(strings.TrimPrefix(clean, "("), ")")
		negative = true
	}

	for _, symbol := range []string{"$", "€", "£", "¥", "USD", "EUR", "GBP", "JPY", "%"} {
		clean = strings.ReplaceAll(clean, symbol, "")
	}
	clean = strings.TrimSpace(clean)

	hasComma := strings.Contains(clean, ",")
	hasPeriod := strings.Contains(clean, ".")
	switch {
	case hasComma && hasPeriod:
		if strings.LastIndex(clean, ",") > strings.LastIndex(clean, ".") {
			// 1.234,56
			clean = strings.ReplaceAll(clean, ".", "")
			clean = strings.ReplaceAll(clean, ",", ".")
		} else {
			// 1,234.56
			clean = strings.ReplaceAll(clean, ",", "")
		}
	case hasComma:
		if isThousandsGrouped(clean) {
			clean = strings.ReplaceAll(clean, ",", "")
		} else {
			clean = strings.ReplaceAll(clean, ",", ".")
		}
	}
	clean = strings.ReplaceAll(clean, " ", "")

	if negative {
		clean = "-" + clean
	}

	v, err := strconv.ParseFloat(clean, 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

// isThousandsGrouped reports whether every comma-separated group after the first has three digits
func isThousandsGrouped(s string) bool {
	groups := strings.Split(strings.TrimPrefix(s, "-"), ",")
	if len(groups[0]) == 0 || len(groups[0]) > 3 {
		return false
	}
	for _, g := range groups[1:] {
		if len(g) != 3 {
			return false
		}
	}
	return true
}

// ParseBoolean accepts true/false and yes/no spellings. Digits are left to ParseNumeric.
func (c *TypeCoercer) ParseBoolean(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes", "y", "on":
		return true, true
	case "false", "no", "n", "off":
		return false, true
	}
	return false, false
}

var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"1/2/06",
	"01-02-06",
	"02-Jan-2006",
	"Jan 2, 2006",
}

// ParseTimestamp tries the known date layouts in order
func (c *TypeCoercer) ParseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// determineRecommendedKind chooses the kind based on thresholds, most restrictive first.
// A column with no valid values is numeric.
func (c *TypeCoercer) determineRecommendedKind(analysis TypeAnalysis) dataset.Kind {
	if analysis.ValidCount == 0 {
		return dataset.KindNumeric
	}
	if analysis.NumericRatio >= c.config.NumericThreshold {
		return dataset.KindNumeric
	}
	if analysis.BooleanRatio >= c.config.BooleanThreshold {
		return dataset.KindBoolean
	}
	if analysis.TimestampRatio >= c.config.TimestampThreshold {
		return dataset.KindDatetime
	}
	return dataset.KindCategorical
}

// TypeAnalysis contains the results of type distribution analysis
type TypeAnalysis struct {
	TotalCount      int          `json:"total_count"`
	ValidCount      int          `json:"valid_count"`
	NumericCount    int          `json:"numeric_count"`
	BooleanCount    int          `json:"boolean_count"`
	TimestampCount  int          `json:"timestamp_count"`
	NumericRatio    float64      `json:"numeric_ratio"`
	BooleanRatio    float64      `json:"boolean_ratio"`
	TimestampRatio  float64      `json:"timestamp_ratio"`
	RecommendedKind dataset.Kind `json:"recommended_kind"`
}
