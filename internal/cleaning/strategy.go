package cleaning

import (
	"fmt"
	"strings"
)

// Strategy names how a column's missing values are resolved
type Strategy string

const (
	StrategyMedian Strategy = "median"
	StrategyMean   Strategy = "mean"
	StrategyMode   Strategy = "mode"
	StrategyDrop   Strategy = "drop"

	DefaultStrategy = StrategyMedian
)

// Strategies lists the recognized strategies
func Strategies() []Strategy {
	return []Strategy{StrategyMedian, StrategyMean, StrategyMode, StrategyDrop}
}

// Valid reports whether s is a recognized strategy
func (s Strategy) Valid() bool {
	switch s {
	case StrategyMedian, StrategyMean, StrategyMode, StrategyDrop:
		return true
	}
	return false
}

// ParseStrategy parses a strategy name case-insensitively; empty selects the default
func ParseStrategy(name string) (Strategy, error) {
	s := Strategy(strings.ToLower(strings.TrimSpace(name)))
	if s == "" {
		return DefaultStrategy, nil
	}
	if !s.Valid() {
		return s, fmt.Errorf("unknown strategy %q (want one of %v)", name, Strategies())
	}
	return s, nil
}
