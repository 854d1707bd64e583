// Package dataset defines the tabular dataset the toolkit operates on: an
// ordered set of named, kind-tagged columns whose cells are aligned by row index.
//
// A Dataset is a mutable, caller-owned value. Operations such as DropMissing
// change it in place; use Clone when the original must be preserved. A Dataset
// is not safe for concurrent mutation.
package dataset

import (
	"fmt"

	"salesprobe/domain/core"
)

// Kind is the declared or inferred kind of a column
type Kind string

const (
	KindNumeric     Kind = "numeric"
	KindCategorical Kind = "categorical"
	KindDatetime    Kind = "datetime"
	KindBoolean     Kind = "boolean"
)

// Column is a named sequence of cells
type Column struct {
	Name   string
	Kind   Kind
	Values []Value
}

// Len returns the number of cells in the column
func (c *Column) Len() int {
	return len(c.Values)
}

// IsMissing reports whether the cell at row i is the missing marker
func (c *Column) IsMissing(i int) bool {
	return c.Values[i].IsMissing()
}

// MissingCount returns the number of missing cells
func (c *Column) MissingCount() int {
	n := 0
	for _, v := range c.Values {
		if v.IsMissing() {
			n++
		}
	}
	return n
}

// Fill replaces every missing cell with v and returns the number of cells replaced
func (c *Column) Fill(v Value) int {
	if v.IsMissing() {
		return 0
	}
	filled := 0
	for i := range c.Values {
		if c.Values[i].IsMissing() {
			c.Values[i] = v.clone()
			filled++
		}
	}
	return filled
}

// NonMissing returns the non-missing cells in row order
func (c *Column) NonMissing() []Value {
	out := make([]Value, 0, len(c.Values))
	for _, v := range c.Values {
		if !v.IsMissing() {
			out = append(out, v)
		}
	}
	return out
}

// Floats returns the numeric cells in row order, skipping missing and non-numeric cells
func (c *Column) Floats() []float64 {
	out := make([]float64, 0, len(c.Values))
	for _, v := range c.Values {
		if v.IsNumeric() {
			out = append(out, v.AsFloat64())
		}
	}
	return out
}

// Dataset is an ordered collection of equally long columns
type Dataset struct {
	ID      core.DatasetID
	Source  string
	columns []*Column
	index   map[string]int
	rows    int
}

// NewDataset creates an empty dataset. source is a free-form origin label such as a file path.
func NewDataset(source string) *Dataset {
	return &Dataset{
		ID:     core.NewDatasetID(),
		Source: source,
		index:  make(map[string]int),
	}
}

// AddColumn appends a column. The first column fixes the row count; later
// columns must match it. Column names must be unique.
func (d *Dataset) AddColumn(name string, kind Kind, values []Value) error {
	if _, exists := d.index[name]; exists {
		return fmt.Errorf("column %q already exists", name)
	}
	if len(d.columns) > 0 && len(values) != d.rows {
		return fmt.Errorf("column %q has %d rows, dataset has %d", name, len(values), d.rows)
	}
	if len(d.columns) == 0 {
		d.rows = len(values)
	}
	d.index[name] = len(d.columns)
	d.columns = append(d.columns, &Column{Name: name, Kind: kind, Values: values})
	return nil
}

// ColumnNames returns the current column names in order
func (d *Dataset) ColumnNames() []string {
	names := make([]string, len(d.columns))
	for i, c := range d.columns {
		names[i] = c.Name
	}
	return names
}

// Columns returns the columns in order. The slice is a copy; the columns are shared.
func (d *Dataset) Columns() []*Column {
	out := make([]*Column, len(d.columns))
	copy(out, d.columns)
	return out
}

// Column looks a column up by name
func (d *Dataset) Column(name string) (*Column, bool) {
	i, ok := d.index[name]
	if !ok {
		return nil, false
	}
	return d.columns[i], true
}

// HasColumn reports whether a column named name exists
func (d *Dataset) HasColumn(name string) bool {
	_, ok := d.index[name]
	return ok
}

// Nrow returns the number of rows
func (d *Dataset) Nrow() int {
	return d.rows
}

// Ncol returns the number of columns
func (d *Dataset) Ncol() int {
	return len(d.columns)
}

// Shape returns (rows, columns)
func (d *Dataset) Shape() (int, int) {
	return d.rows, len(d.columns)
}

// DropMissing removes, from every column, each row whose cell in the named
// column is missing. It returns the number of rows removed.
func (d *Dataset) DropMissing(name string) (int, error) {
	c, ok := d.Column(name)
	if !ok {
		return 0, fmt.Errorf("column %q not found", name)
	}
	keep := make([]bool, d.rows)
	kept := 0
	for i := range keep {
		keep[i] = !c.IsMissing(i)
		if keep[i] {
			kept++
		}
	}
	if kept == d.rows {
		return 0, nil
	}
	for _, col := range d.columns {
		filtered := make([]Value, 0, kept)
		for i, v := range col.Values {
			if keep[i] {
				filtered = append(filtered, v)
			}
		}
		col.Values = filtered
	}
	removed := d.rows - kept
	d.rows = kept
	return removed, nil
}

// Clone returns a deep copy with a fresh ID
func (d *Dataset) Clone() *Dataset {
	out := NewDataset(d.Source)
	out.rows = d.rows
	for _, c := range d.columns {
		values := make([]Value, len(c.Values))
		for i, v := range c.Values {
			values[i] = v.clone()
		}
		out.index[c.Name] = len(out.columns)
		out.columns = append(out.columns, &Column{Name: c.Name, Kind: c.Kind, Values: values})
	}
	return out
}
