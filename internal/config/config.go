package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"salesprobe/adapters/render"
	"salesprobe/internal/cleaning"
	"salesprobe/internal/errors"
)

// Config represents the complete toolkit configuration
type Config struct {
	LogLevel string
	Data     DataConfig
	Cleaning CleaningConfig
	Charts   ChartConfig
	Database DatabaseConfig
}

// DataConfig holds input file settings
type DataConfig struct {
	File            string
	Sheet           string // empty selects the first sheet
	RequiredColumns []string
}

// CleaningConfig holds missing-value resolution settings
type CleaningConfig struct {
	Strategy cleaning.Strategy
	Columns  []string // nil means every column
}

// ChartConfig holds chart rendering settings
type ChartConfig struct {
	Dir      string
	Format   string
	ColorMap string
	Bins     int
	Workers  int
	Heatmap  FigureSize
	Trend    FigureSize
	Panel    FigureSize // bar charts and histograms
}

// FigureSize is a figure's width and height in inches
type FigureSize struct {
	Width  float64
	Height float64
}

// DatabaseConfig holds optional SQL source settings. With URL set and no
// input file, Query is loaded through Driver.
type DatabaseConfig struct {
	Driver string
	URL    string
	Query  string
}

// DefaultRequiredColumns are the columns a sales sheet must carry
var DefaultRequiredColumns = []string{"Order Date", "Sales", "Category", "Region", "Profit"}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	strategy, err := cleaning.ParseStrategy(getEnvOrDefault("IMPUTE_STRATEGY", ""))
	if err != nil {
		return nil, errors.Wrap(errors.ConfigInvalid(err.Error()), "failed to load cleaning configuration")
	}

	config := &Config{
		LogLevel: getEnvOrDefault("LOG_LEVEL", "INFO"),
		Data: DataConfig{
			File:            getEnvOrDefault("SALES_FILE", ""),
			Sheet:           getEnvOrDefault("SALES_SHEET", ""),
			RequiredColumns: getEnvListOrDefault("REQUIRED_COLUMNS", DefaultRequiredColumns),
		},
		Cleaning: CleaningConfig{
			Strategy: strategy,
			Columns:  getEnvListOrDefault("IMPUTE_COLUMNS", nil),
		},
		Charts: loadChartConfig(),
		Database: DatabaseConfig{
			Driver: getEnvOrDefault("DATABASE_DRIVER", "postgres"),
			URL:    getEnvOrDefault("DATABASE_URL", ""),
			Query:  getEnvOrDefault("SALES_QUERY", "SELECT * FROM orders"),
		},
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return config, nil
}

func loadChartConfig() ChartConfig {
	return ChartConfig{
		Dir:      getEnvOrDefault("CHART_DIR", "charts"),
		Format:   strings.TrimPrefix(strings.ToLower(getEnvOrDefault("CHART_FORMAT", "png")), "."),
		ColorMap: getEnvOrDefault("CHART_COLORMAP", "coolwarm"),
		Bins:     getEnvIntOrDefault("CHART_BINS", 30),
		Workers:  getEnvIntOrDefault("CHART_WORKERS", 4),
		Heatmap: FigureSize{
			Width:  getEnvFloatOrDefault("HEATMAP_WIDTH", 10),
			Height: getEnvFloatOrDefault("HEATMAP_HEIGHT", 8),
		},
		Trend: FigureSize{
			Width:  getEnvFloatOrDefault("TREND_WIDTH", 12),
			Height: getEnvFloatOrDefault("TREND_HEIGHT", 6),
		},
		Panel: FigureSize{
			Width:  getEnvFloatOrDefault("PANEL_WIDTH", 8),
			Height: getEnvFloatOrDefault("PANEL_HEIGHT", 6),
		},
	}
}

func validateConfig(config *Config) error {
	charts := config.Charts
	if charts.Bins <= 0 {
		return errors.ConfigInvalid("CHART_BINS must be positive")
	}
	if charts.Workers <= 0 {
		return errors.ConfigInvalid("CHART_WORKERS must be positive")
	}
	for name, size := range map[string]FigureSize{"heatmap": charts.Heatmap, "trend": charts.Trend, "panel": charts.Panel} {
		if size.Width <= 0 || size.Height <= 0 {
			return errors.ConfigInvalid(name + " figure size must be positive")
		}
	}
	switch charts.Format {
	case "png", "jpg", "jpeg", "svg", "pdf", "eps", "tif", "tiff":
	default:
		return errors.ConfigInvalid("unsupported CHART_FORMAT " + charts.Format)
	}
	if !render.IsColorMap(charts.ColorMap) {
		return errors.ConfigInvalid(fmt.Sprintf("unknown CHART_COLORMAP %q (want one of %s)",
			charts.ColorMap, strings.Join(render.ColorMaps(), ", ")))
	}
	if len(config.Data.RequiredColumns) == 0 {
		return errors.ConfigInvalid("REQUIRED_COLUMNS must name at least one column")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

// getEnvListOrDefault splits a comma separated variable, dropping blank entries
func getEnvListOrDefault(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
