package profiling

import (
	"bytes"
	"fmt"
	"math"
	"sort"
	"strconv"
	"time"

	"salesprobe/domain/dataset"
	"salesprobe/internal/errors"

	"github.com/olekukonko/tablewriter"
)

// Exploration is the first look at a dataset: shape, per-column info, a
// describe table covering every column kind and the shape of numeric columns
type Exploration struct {
	Rows          int                  `json:"rows"`
	Columns       int                  `json:"columns"`
	ColumnInfo    []ColumnInfo         `json:"column_info"`
	Describe      []ColumnDescription  `json:"describe"`
	Distributions []ColumnDistribution `json:"distributions"`
	Info          string               `json:"info"`
	Description   string               `json:"description"`
	Shape         string               `json:"shape"`
}

// Explore computes shape, info and description for ds
func Explore(ds *dataset.Dataset) (*Exploration, error) {
	if ds == nil {
		return nil, errors.InvalidInput("no dataset to explore")
	}
	if ds.Ncol() == 0 {
		return nil, errors.InvalidInput("dataset has no columns")
	}

	rows, cols := ds.Shape()
	exp := &Exploration{
		Rows:       rows,
		Columns:    cols,
		ColumnInfo: Info(ds),
	}

	describe, err := Describe(ds)
	if err != nil {
		return nil, errors.Wrap(err, "describe failed")
	}
	exp.Describe = describe

	distributions, err := Distributions(ds)
	if err != nil {
		return nil, errors.Wrap(err, "distribution analysis failed")
	}
	exp.Distributions = distributions

	exp.Info = RenderInfo(rows, exp.ColumnInfo)
	exp.Description = RenderDescribe(describe)
	exp.Shape = RenderDistributions(distributions)

	return exp, nil
}

// Info lists each column with its non-missing count and kind
func Info(ds *dataset.Dataset) []ColumnInfo {
	cols := ds.Columns()
	out := make([]ColumnInfo, len(cols))
	for i, c := range cols {
		out[i] = ColumnInfo{Name: c.Name, NonMissing: c.Len() - c.MissingCount(), Kind: c.Kind}
	}
	return out
}

// MissingSummary returns the missing-cell count of every column, in column order
func MissingSummary(ds *dataset.Dataset) []MissingCount {
	cols := ds.Columns()
	out := make([]MissingCount, len(cols))
	for i, c := range cols {
		out[i] = MissingCount{Column: c.Name, Missing: c.MissingCount()}
	}
	return out
}

// Describe summarizes every column. Numeric columns get count, mean, std and
// quantiles; categorical and boolean columns get count, unique, top and freq;
// datetime columns get count, unique, first and last.
func Describe(ds *dataset.Dataset) ([]ColumnDescription, error) {
	var out []ColumnDescription
	for _, c := range ds.Columns() {
		desc := ColumnDescription{Name: c.Name, Kind: c.Kind}
		present := c.NonMissing()
		desc.Count = len(present)

		switch c.Kind {
		case dataset.KindNumeric:
			if values := c.Floats(); len(values) > 0 {
				summary, err := Summarize(values)
				if err != nil {
					return nil, errors.Wrapf(err, "summarizing %q", c.Name)
				}
				desc.Numeric = &summary
			}
		case dataset.KindDatetime:
			describeDatetime(&desc, present)
		default:
			describeCategorical(&desc, present)
		}
		out = append(out, desc)
	}
	return out, nil
}

func describeCategorical(desc *ColumnDescription, present []dataset.Value) {
	counts := make(map[string]int)
	var order []dataset.Value
	for _, v := range present {
		if counts[v.Key()] == 0 {
			order = append(order, v)
		}
		counts[v.Key()]++
	}
	unique := len(order)
	desc.Unique = &unique
	if unique == 0 {
		return
	}
	top := order[0]
	for _, v := range order[1:] {
		if counts[v.Key()] > counts[top.Key()] {
			top = v
		}
	}
	topStr := top.String()
	freq := counts[top.Key()]
	desc.Top = &topStr
	desc.Freq = &freq
}

func describeDatetime(desc *ColumnDescription, present []dataset.Value) {
	seen := make(map[string]bool)
	var stamps []int64
	for _, v := range present {
		if !v.IsTimestamp() {
			continue
		}
		seen[v.Key()] = true
		stamps = append(stamps, v.AsTime().UnixNano())
	}
	unique := len(seen)
	desc.Unique = &unique
	if len(stamps) == 0 {
		return
	}
	sort.Slice(stamps, func(i, j int) bool { return stamps[i] < stamps[j] })
	first := dataset.Time(unixNano(stamps[0])).String()
	last := dataset.Time(unixNano(stamps[len(stamps)-1])).String()
	desc.First = &first
	desc.Last = &last
}

// RenderInfo renders the info table the way an interactive session prints it
func RenderInfo(rows int, info []ColumnInfo) string {
	var buf bytes.Buffer
	if rows > 0 {
		fmt.Fprintf(&buf, "RangeIndex: %d entries, 0 to %d\n", rows, rows-1)
	} else {
		fmt.Fprintf(&buf, "RangeIndex: 0 entries\n")
	}
	fmt.Fprintf(&buf, "Data columns (total %d columns):\n", len(info))

	table := newTable(&buf)
	table.SetHeader([]string{"#", "Column", "Non-Null Count", "Kind"})
	for i, c := range info {
		table.Append([]string{strconv.Itoa(i), c.Name, fmt.Sprintf("%d non-null", c.NonMissing), string(c.Kind)})
	}
	table.Render()
	return buf.String()
}

var describeRows = []string{"count", "unique", "top", "freq", "first", "last", "mean", "std", "min", "25%", "50%", "75%", "max"}

// DescribeTable lays descriptions out with one column per dataset column and one row per statistic
func DescribeTable(descs []ColumnDescription) ([]string, [][]string) {
	header := []string{""}
	for _, d := range descs {
		header = append(header, d.Name)
	}
	rows := make([][]string, 0, len(describeRows))
	for _, stat := range describeRows {
		row := []string{stat}
		for _, d := range descs {
			row = append(row, describeCell(d, stat))
		}
		rows = append(rows, row)
	}
	return header, rows
}

// RenderDescribe renders the describe table
func RenderDescribe(descs []ColumnDescription) string {
	var buf bytes.Buffer
	table := newTable(&buf)
	header, rows := DescribeTable(descs)
	table.SetHeader(header)
	table.AppendBulk(rows)
	table.Render()
	return buf.String()
}

// DistributionTable lays out one row per numeric column: skewness, excess
// kurtosis, IQR outliers and the Jarque-Bera normality p-value
func DistributionTable(dists []ColumnDistribution) ([]string, [][]string) {
	header := []string{"Column", "Skewness", "Kurtosis", "Outliers", "Normality p"}
	rows := make([][]string, len(dists))
	for i, d := range dists {
		shape := d.Markers.Shape
		rows[i] = []string{
			d.Name,
			FormatFloat(shape.Skewness),
			FormatFloat(shape.ExKurtosis),
			strconv.Itoa(shape.OutlierCount),
			FormatFloat(shape.NormalityP),
		}
	}
	return header, rows
}

// RenderDistributions renders the distribution shape table
func RenderDistributions(dists []ColumnDistribution) string {
	var buf bytes.Buffer
	table := newTable(&buf)
	header, rows := DistributionTable(dists)
	table.SetHeader(header)
	table.AppendBulk(rows)
	table.Render()
	return buf.String()
}

// RenderMissingSummary renders per-column missing counts
func RenderMissingSummary(counts []MissingCount) string {
	var buf bytes.Buffer
	table := newTable(&buf)
	table.SetHeader([]string{"Column", "Missing"})
	for _, c := range counts {
		table.Append([]string{c.Column, strconv.Itoa(c.Missing)})
	}
	table.Render()
	return buf.String()
}

func describeCell(d ColumnDescription, stat string) string {
	intPtr := func(p *int) string {
		if p == nil {
			return "NaN"
		}
		return strconv.Itoa(*p)
	}
	strPtr := func(p *string) string {
		if p == nil {
			return "NaN"
		}
		return *p
	}
	num := func(f func(s *Summary) float64) string {
		if d.Numeric == nil {
			return "NaN"
		}
		return FormatFloat(f(d.Numeric))
	}

	switch stat {
	case "count":
		return strconv.Itoa(d.Count)
	case "unique":
		return intPtr(d.Unique)
	case "top":
		return strPtr(d.Top)
	case "freq":
		return intPtr(d.Freq)
	case "first":
		return strPtr(d.First)
	case "last":
		return strPtr(d.Last)
	case "mean":
		return num(func(s *Summary) float64 { return s.Mean })
	case "std":
		return num(func(s *Summary) float64 { return s.StdDev })
	case "min":
		return num(func(s *Summary) float64 { return s.Min })
	case "25%":
		return num(func(s *Summary) float64 { return s.Q25 })
	case "50%":
		return num(func(s *Summary) float64 { return s.Median })
	case "75%":
		return num(func(s *Summary) float64 { return s.Q75 })
	case "max":
		return num(func(s *Summary) float64 { return s.Max })
	}
	return ""
}

// FormatFloat prints up to four decimals without trailing zeros; NaN prints as "NaN"
func FormatFloat(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return strconv.FormatFloat(math.Round(v*1e4)/1e4, 'f', -1, 64)
}

func newTable(buf *bytes.Buffer) *tablewriter.Table {
	table := tablewriter.NewWriter(buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	return table
}

func unixNano(n int64) time.Time {
	return time.Unix(0, n).UTC()
}
