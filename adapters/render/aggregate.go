package render

import (
	"sort"
	"time"

	"salesprobe/adapters/datareadiness/coercer"
	"salesprobe/domain/dataset"
	"salesprobe/internal/errors"
)

// MonthTotal is the summed value of one calendar month
type MonthTotal struct {
	Month time.Time
	Total float64
}

// GroupValue is the mean value of one group
type GroupValue struct {
	Group string
	Mean  float64
	Count int
}

// MonthlyTotals sums valueCol per calendar month of dateCol. Rows whose date
// does not parse are ignored, missing values add nothing, and months between
// the first and last month with no rows total zero.
func MonthlyTotals(ds *dataset.Dataset, dateCol, valueCol string) ([]MonthTotal, error) {
	dates, ok := ds.Column(dateCol)
	if !ok {
		return nil, errors.ColumnNotFound(dateCol)
	}
	values, ok := ds.Column(valueCol)
	if !ok {
		return nil, errors.ColumnNotFound(valueCol)
	}
	if values.Kind != dataset.KindNumeric {
		return nil, errors.InvalidInput("column " + valueCol + " is not numeric")
	}

	parser := coercer.NewTypeCoercer(coercer.DefaultCoercionConfig())
	totals := make(map[time.Time]float64)
	for i, d := range dates.Values {
		var t time.Time
		switch {
		case d.IsTimestamp():
			t = d.AsTime()
		case d.IsMissing():
			continue
		default:
			parsed, ok := parser.ParseTimestamp(d.String())
			if !ok {
				continue
			}
			t = parsed
		}
		month := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
		totals[month] += values.Values[i].AsFloat64()
	}
	if len(totals) == 0 {
		return nil, errors.InvalidInput("column " + dateCol + " has no parseable dates")
	}

	months := make([]time.Time, 0, len(totals))
	for m := range totals {
		months = append(months, m)
	}
	sort.Slice(months, func(i, j int) bool { return months[i].Before(months[j]) })

	var out []MonthTotal
	for m := months[0]; !m.After(months[len(months)-1]); m = m.AddDate(0, 1, 0) {
		out = append(out, MonthTotal{Month: m, Total: totals[m]})
	}
	return out, nil
}

// GroupMeans averages valueCol per distinct value of groupCol, in order of
// first appearance. Rows with a missing group or value are skipped.
func GroupMeans(ds *dataset.Dataset, groupCol, valueCol string) ([]GroupValue, error) {
	groups, ok := ds.Column(groupCol)
	if !ok {
		return nil, errors.ColumnNotFound(groupCol)
	}
	values, ok := ds.Column(valueCol)
	if !ok {
		return nil, errors.ColumnNotFound(valueCol)
	}
	if values.Kind != dataset.KindNumeric {
		return nil, errors.InvalidInput("column " + valueCol + " is not numeric")
	}

	index := make(map[string]int)
	var out []GroupValue
	for i, g := range groups.Values {
		v := values.Values[i]
		if g.IsMissing() || !v.IsNumeric() {
			continue
		}
		name := g.String()
		j, seen := index[name]
		if !seen {
			j = len(out)
			index[name] = j
			out = append(out, GroupValue{Group: name})
		}
		out[j].Mean += v.AsFloat64()
		out[j].Count++
	}
	for i := range out {
		out[i].Mean /= float64(out[i].Count)
	}
	if len(out) == 0 {
		return nil, errors.InvalidInput("no rows with both " + groupCol + " and " + valueCol)
	}
	return out, nil
}
