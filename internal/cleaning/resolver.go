package cleaning

import (
	"salesprobe/domain/dataset"
	"salesprobe/internal"

	"github.com/montanaflynn/stats"
)

// Resolver fills or drops missing cells column by column. It mutates the
// dataset it is given; pass ds.Clone() to keep the original.
type Resolver struct {
	logger *internal.Logger
}

// NewResolver creates a resolver reporting on logger (DefaultLogger when nil)
func NewResolver(logger *internal.Logger) *Resolver {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Resolver{logger: logger}
}

// Resolve applies strategy to each named column in order and returns ds.
// A nil columns slice means every column present at call time; an empty
// non-nil slice means none.
//
// Columns that cannot be processed (unknown strategy, unknown column,
// non-numeric column for median/mean, no usable values) are left unchanged
// and reported as diagnostics. A drop removes rows dataset-wide, so later
// columns in the same call see fewer rows.
func (r *Resolver) Resolve(ds *dataset.Dataset, strategy Strategy, columns []string) *dataset.Dataset {
	if columns == nil {
		columns = ds.ColumnNames()
	}

	for _, name := range columns {
		if !strategy.Valid() {
			r.logger.Warn("Unknown strategy: %s for column: %s", strategy, name)
			continue
		}

		col, ok := ds.Column(name)
		if !ok {
			r.logger.Warn("[Resolver] column %q not found, skipped", name)
			continue
		}

		switch strategy {
		case StrategyDrop:
			removed, _ := ds.DropMissing(name)
			r.logger.Debug("[Resolver] dropped %d rows with missing %q", removed, name)
		case StrategyMedian, StrategyMean:
			r.fillNumeric(col, strategy)
		case StrategyMode:
			r.fillMode(col)
		}
	}

	return ds
}

func (r *Resolver) fillNumeric(col *dataset.Column, strategy Strategy) {
	if col.MissingCount() == 0 {
		return
	}
	if col.Kind != dataset.KindNumeric {
		r.logger.Warn("[Resolver] %s undefined for %s column %q, left unchanged", strategy, col.Kind, col.Name)
		return
	}

	values := col.Floats()
	if len(values) == 0 {
		r.logger.Warn("[Resolver] column %q has no values, %s undefined, left unchanged", col.Name, strategy)
		return
	}

	var fill float64
	var err error
	if strategy == StrategyMedian {
		fill, err = stats.Median(values)
	} else {
		fill, err = stats.Mean(values)
	}
	if err != nil {
		r.logger.Warn("[Resolver] %s of %q failed: %v", strategy, col.Name, err)
		return
	}

	n := col.Fill(dataset.Num(fill))
	r.logger.Debug("[Resolver] filled %d cells of %q with %s %v", n, col.Name, strategy, fill)
}

func (r *Resolver) fillMode(col *dataset.Column) {
	if col.MissingCount() == 0 {
		return
	}
	mode, ok := Mode(col)
	if !ok {
		r.logger.Warn("[Resolver] column %q has no values, mode undefined, left unchanged", col.Name)
		return
	}
	n := col.Fill(mode)
	r.logger.Debug("[Resolver] filled %d cells of %q with mode %s", n, col.Name, mode)
}

// Mode returns the most frequent non-missing value of col. Ties go to the
// value that occurs first in row order. ok is false when every cell is missing.
func Mode(col *dataset.Column) (dataset.Value, bool) {
	counts := make(map[string]int)
	var order []dataset.Value
	for _, v := range col.Values {
		if v.IsMissing() {
			continue
		}
		k := v.Key()
		if counts[k] == 0 {
			order = append(order, v)
		}
		counts[k]++
	}
	if len(order) == 0 {
		return dataset.Missing(), false
	}

	best := order[0]
	for _, v := range order[1:] {
		if counts[v.Key()] > counts[best.Key()] {
			best = v
		}
	}
	return best, true
}

// Resolve applies strategy using the default logger
func Resolve(ds *dataset.Dataset, strategy Strategy, columns []string) *dataset.Dataset {
	return NewResolver(nil).Resolve(ds, strategy, columns)
}
