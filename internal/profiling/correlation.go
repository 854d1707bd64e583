package profiling

import (
	"math"

	"salesprobe/domain/dataset"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// CorrelationMatrix computes pairwise Pearson correlations between the numeric
// columns of ds. Each pair uses only the rows where both cells are present;
// pairs with fewer than two such rows, or with a constant side, are NaN.
// It returns the column names in dataset order and a symmetric matrix, or a nil
// matrix when ds has no numeric columns.
func CorrelationMatrix(ds *dataset.Dataset) ([]string, *mat.SymDense) {
	var cols []*dataset.Column
	for _, c := range ds.Columns() {
		if c.Kind == dataset.KindNumeric {
			cols = append(cols, c)
		}
	}
	if len(cols) == 0 {
		return nil, nil
	}

	names := make([]string, len(cols))
	corr := mat.NewSymDense(len(cols), nil)
	for i, ci := range cols {
		names[i] = ci.Name
		for j := i; j < len(cols); j++ {
			corr.SetSym(i, j, pairwiseCorrelation(ci, cols[j]))
		}
	}
	return names, corr
}

func pairwiseCorrelation(a, b *dataset.Column) float64 {
	var x, y []float64
	for i := range a.Values {
		if a.Values[i].IsNumeric() && b.Values[i].IsNumeric() {
			x = append(x, a.Values[i].AsFloat64())
			y = append(y, b.Values[i].AsFloat64())
		}
	}
	if len(x) < 2 {
		return math.NaN()
	}
	if stat.Variance(x, nil) == 0 || stat.Variance(y, nil) == 0 {
		return math.NaN()
	}
	return stat.Correlation(x, y, nil)
}
