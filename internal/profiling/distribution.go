package profiling

import (
	"math"
	"sort"

	"salesprobe/domain/dataset"
	"salesprobe/internal/errors"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Summarize computes describe-style statistics. StdDev is the sample standard
// deviation and is NaN for a single value. Quartiles interpolate linearly
// between order statistics, so [1 2 3 4] has Q25 = 1.75.
func Summarize(data []float64) (Summary, error) {
	summary := Summary{Count: len(data)}

	mean, err := stats.Mean(data)
	if err != nil {
		return summary, err
	}
	median, err := stats.Median(data)
	if err != nil {
		return summary, err
	}

	sorted := append([]float64(nil), data...)
	sort.Float64s(sorted)

	stdDev := math.NaN()
	if len(data) > 1 {
		stdDev, err = stats.StandardDeviationSample(data)
		if err != nil {
			return summary, err
		}
	}

	summary.Mean = mean
	summary.StdDev = stdDev
	summary.Min = sorted[0]
	summary.Max = sorted[len(sorted)-1]
	summary.Median = median
	summary.Q25 = quantile(sorted, 0.25)
	summary.Q75 = quantile(sorted, 0.75)
	return summary, nil
}

// quantile interpolates between the order statistics at (n-1)*p
func quantile(sorted []float64, p float64) float64 {
	h := float64(len(sorted)-1) * p
	lo := int(math.Floor(h))
	if lo+1 >= len(sorted) {
		return sorted[len(sorted)-1]
	}
	return sorted[lo] + (h-float64(lo))*(sorted[lo+1]-sorted[lo])
}

// AnalyzeDistribution computes summary statistics plus shape markers
func AnalyzeDistribution(data []float64) (DistributionMarkers, error) {
	markers := DistributionMarkers{}

	summary, err := Summarize(data)
	if err != nil {
		return markers, err
	}
	markers.Summary = summary

	if len(data) >= 3 {
		markers.Shape.Skewness = stat.Skew(data, nil)
	}
	if len(data) >= 4 {
		markers.Shape.ExKurtosis = stat.ExKurtosis(data, nil)
	}
	markers.Shape.JarqueBera, markers.Shape.NormalityP = jarqueBera(data, markers.Shape.Skewness, markers.Shape.ExKurtosis)
	markers.Shape.IsNormal = markers.Shape.NormalityP > 0.05
	markers.Shape.OutlierCount = detectOutliers(data, summary.Q25, summary.Q75)

	return markers, nil
}

// Distributions analyzes every numeric column that has at least one value
func Distributions(ds *dataset.Dataset) ([]ColumnDistribution, error) {
	var out []ColumnDistribution
	for _, c := range ds.Columns() {
		if c.Kind != dataset.KindNumeric {
			continue
		}
		values := c.Floats()
		if len(values) == 0 {
			continue
		}
		markers, err := AnalyzeDistribution(values)
		if err != nil {
			return nil, errors.Wrapf(err, "analyzing %q", c.Name)
		}
		out = append(out, ColumnDistribution{Name: c.Name, Markers: markers})
	}
	return out, nil
}

// jarqueBera returns the Jarque-Bera statistic and its chi-square(2) p-value.
// Constant or tiny samples report p = 1.
func jarqueBera(data []float64, skew, exKurt float64) (float64, float64) {
	if len(data) < 4 || math.IsNaN(skew) || math.IsNaN(exKurt) {
		return 0, 1.0
	}
	n := float64(len(data))
	jb := n / 6 * (skew*skew + exKurt*exKurt/4)
	chi := distuv.ChiSquared{K: 2}
	return jb, 1 - chi.CDF(jb)
}

// detectOutliers counts values outside the 1.5 IQR fences
func detectOutliers(data []float64, q25, q75 float64) int {
	iqr := q75 - q25
	lowerBound := q25 - 1.5*iqr
	upperBound := q75 + 1.5*iqr

	outlierCount := 0
	for _, x := range data {
		if x < lowerBound || x > upperBound {
			outlierCount++
		}
	}
	return outlierCount
}
