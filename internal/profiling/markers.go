package profiling

import "salesprobe/domain/dataset"

// Summary holds the describe-style statistics of a numeric column
type Summary struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std"`
	Min    float64 `json:"min"`
	Q25    float64 `json:"q25"`
	Median float64 `json:"median"`
	Q75    float64 `json:"q75"`
	Max    float64 `json:"max"`
}

// Shape holds distribution shape markers of a numeric column
type Shape struct {
	Skewness     float64 `json:"skewness"`
	ExKurtosis   float64 `json:"ex_kurtosis"`
	JarqueBera   float64 `json:"jarque_bera"`
	NormalityP   float64 `json:"normality_p"`
	IsNormal     bool    `json:"is_normal"`
	OutlierCount int     `json:"outlier_count"`
}

// DistributionMarkers bundles summary and shape for one numeric column
type DistributionMarkers struct {
	Summary Summary `json:"summary"`
	Shape   Shape   `json:"shape"`
}

// ColumnDistribution names the markers of one numeric column
type ColumnDistribution struct {
	Name    string              `json:"name"`
	Markers DistributionMarkers `json:"markers"`
}

// ColumnInfo is one line of the info table
type ColumnInfo struct {
	Name       string       `json:"name"`
	NonMissing int          `json:"non_missing"`
	Kind       dataset.Kind `json:"kind"`
}

// ColumnDescription is one column of the describe table. Fields that do not
// apply to the column kind are left unset and rendered as NaN.
type ColumnDescription struct {
	Name    string       `json:"name"`
	Kind    dataset.Kind `json:"kind"`
	Count   int          `json:"count"`
	Unique  *int         `json:"unique,omitempty"`
	Top     *string      `json:"top,omitempty"`
	Freq    *int         `json:"freq,omitempty"`
	First   *string      `json:"first,omitempty"`
	Last    *string      `json:"last,omitempty"`
	Numeric *Summary     `json:"numeric,omitempty"`
}

// MissingCount is the number of missing cells in one column
type MissingCount struct {
	Column  string `json:"column"`
	Missing int    `json:"missing"`
}
