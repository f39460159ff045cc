// Copyright 2022 Stock Parfait

// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at

//     http://www.apache.org/licenses/LICENSE-2.0

// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
// Package frame implements a small in-memory table of typed columns used to
// represent FRED observations and their combinations.
package frame

import (
	"fmt"
	"sort"
	"strings"

	"github.com/stockparfait/errors"
)

// Frame is a table with uniquely named columns, each holding values of a
// single Kind. Rows are kept in insertion order.
type Frame struct {
	columns []string
	kinds   []Kind
	index   map[string]int
	rows    [][]Value
}

// New creates an empty Frame with the given columns. It is an error for the
// column names to repeat, or for kinds to have a different length.
func New(columns []string, kinds []Kind) (*Frame, error) {
	if len(columns) != len(kinds) {
		return nil, errors.Reason("len(columns) [%d] != len(kinds) [%d]",
			len(columns), len(kinds))
	}
	f := &Frame{
		columns: make([]string, len(columns)),
		kinds:   make([]Kind, len(kinds)),
		index:   make(map[string]int, len(columns)),
	}
	copy(f.columns, columns)
	copy(f.kinds, kinds)
	for i, c := range columns {
		if _, ok := f.index[c]; ok {
			return nil, errors.Reason("duplicate column %q", c)
		}
		f.index[c] = i
	}
	return f, nil
}

// Columns returns a copy of the column names in order.
func (f *Frame) Columns() []string {
	res := make([]string, len(f.columns))
	copy(res, f.columns)
	return res
}

// Kinds returns a copy of the column kinds in column order.
func (f *Frame) Kinds() []Kind {
	res := make([]Kind, len(f.kinds))
	copy(res, f.kinds)
	return res
}

// Kind of the named column, and false if the column does not exist.
func (f *Frame) Kind(column string) (Kind, bool) {
	i, ok := f.index[column]
	if !ok {
		return String, false
	}
	return f.kinds[i], true
}

// Has checks whether the column exists.
func (f *Frame) Has(column string) bool {
	_, ok := f.index[column]
	return ok
}

// Len is the number of rows.
func (f *Frame) Len() int { return len(f.rows) }

// AddRow appends rows to the frame. Each row must have a value for every
// column, of the column's kind.
func (f *Frame) AddRow(rows ...[]Value) error {
	for _, r := range rows {
		if len(r) != len(f.columns) {
			return errors.Reason("row size [%d] != number of columns [%d]",
				len(r), len(f.columns))
		}
		for i, v := range r {
			if v.Kind() != f.kinds[i] {
				return errors.Reason("value for column %q is %s, expected %s",
					f.columns[i], v.Kind(), f.kinds[i])
			}
		}
		row := make([]Value, len(r))
		copy(row, r)
		f.rows = append(f.rows, row)
	}
	return nil
}

// Row returns a copy of the i-th row. It panics when i is out of range.
func (f *Frame) Row(i int) []Value {
	res := make([]Value, len(f.rows[i]))
	copy(res, f.rows[i])
	return res
}

// Value of the column in the i-th row.
func (f *Frame) Value(i int, column string) (Value, error) {
	j, ok := f.index[column]
	if !ok {
		return Value{}, errors.Reason("no such column: %q", column)
	}
	if i < 0 || i >= len(f.rows) {
		return Value{}, errors.Reason("row %d is out of range [0..%d)", i, len(f.rows))
	}
	return f.rows[i][j], nil
}

// Column returns a copy of all the values in the column.
func (f *Frame) Column(column string) ([]Value, error) {
	j, ok := f.index[column]
	if !ok {
		return nil, errors.Reason("no such column: %q", column)
	}
	res := make([]Value, len(f.rows))
	for i, r := range f.rows {
		res[i] = r[j]
	}
	return res, nil
}

// Copy makes a deep copy of the Frame.
func (f *Frame) Copy() *Frame {
	res, _ := New(f.columns, f.kinds)
	res.rows = make([][]Value, len(f.rows))
	for i, r := range f.rows {
		res.rows[i] = make([]Value, len(r))
		copy(res.rows[i], r)
	}
	return res
}

// Rename columns in place according to the old->new map. Columns not in the
// map keep their names. The result must remain unique.
func (f *Frame) Rename(names map[string]string) error {
	columns := make([]string, len(f.columns))
	index := make(map[string]int, len(f.columns))
	for i, c := range f.columns {
		if n, ok := names[c]; ok {
			c = n
		}
		if _, ok := index[c]; ok {
			return errors.Reason("renaming results in a duplicate column %q", c)
		}
		columns[i] = c
		index[c] = i
	}
	f.columns = columns
	f.index = index
	return nil
}

// Select returns a new Frame with only the named columns, in the given order.
func (f *Frame) Select(columns ...string) (*Frame, error) {
	idx := make([]int, len(columns))
	kinds := make([]Kind, len(columns))
	for i, c := range columns {
		j, ok := f.index[c]
		if !ok {
			return nil, errors.Reason("no such column: %q", c)
		}
		idx[i] = j
		kinds[i] = f.kinds[j]
	}
	res, err := New(columns, kinds)
	if err != nil {
		return nil, err
	}
	res.rows = make([][]Value, len(f.rows))
	for i, r := range f.rows {
		row := make([]Value, len(idx))
		for k, j := range idx {
			row[k] = r[j]
		}
		res.rows[i] = row
	}
	return res, nil
}

// Drop returns a new Frame without the named columns. Columns not present in
// the frame are ignored.
func (f *Frame) Drop(columns ...string) *Frame {
	drop := make(map[string]struct{}, len(columns))
	for _, c := range columns {
		drop[c] = struct{}{}
	}
	var keep []string
	for _, c := range f.columns {
		if _, ok := drop[c]; !ok {
			keep = append(keep, c)
		}
	}
	res, err := f.Select(keep...)
	if err != nil {
		panic(errors.Annotate(err, "selecting existing columns must not fail"))
	}
	return res
}

// AddColumn appends a new column in place. The values must all be of the
// given kind, one per row.
func (f *Frame) AddColumn(column string, kind Kind, values []Value) error {
	if _, ok := f.index[column]; ok {
		return errors.Reason("duplicate column %q", column)
	}
	if len(values) != len(f.rows) {
		return errors.Reason("len(values) [%d] != number of rows [%d]",
			len(values), len(f.rows))
	}
	for i, v := range values {
		if v.Kind() != kind {
			return errors.Reason("value %d is %s, expected %s", i, v.Kind(), kind)
		}
	}
	f.index[column] = len(f.columns)
	f.columns = append(f.columns, column)
	f.kinds = append(f.kinds, kind)
	for i := range f.rows {
		f.rows[i] = append(f.rows[i], values[i])
	}
	return nil
}

// Filter returns a new Frame with the rows for which keep(i) is true.
func (f *Frame) Filter(keep func(i int) bool) *Frame {
	res, _ := New(f.columns, f.kinds)
	for i, r := range f.rows {
		if keep(i) {
			row := make([]Value, len(r))
			copy(row, r)
			res.rows = append(res.rows, row)
		}
	}
	return res
}

// SortBy stably sorts the rows in place by the values of the given columns,
// in ascending order. Missing values go first.
func (f *Frame) SortBy(columns ...string) error {
	idx := make([]int, len(columns))
	for i, c := range columns {
		j, ok := f.index[c]
		if !ok {
			return errors.Reason("no such column: %q", c)
		}
		idx[i] = j
	}
	sort.SliceStable(f.rows, func(a, b int) bool {
		for _, j := range idx {
			x, y := f.rows[a][j], f.rows[b][j]
			if x.Less(y) {
				return true
			}
			if y.Less(x) {
				return false
			}
		}
		return false
	})
	return nil
}

// Records converts the frame to CSV-compatible rows, without the header.
func (f *Frame) Records() [][]string {
	res := make([][]string, len(f.rows))
	for i, r := range f.rows {
		rec := make([]string, len(r))
		for j, v := range r {
			rec[j] = v.String()
		}
		res[i] = rec
	}
	return res
}

// String is a compact single-line summary for logs.
func (f *Frame) String() string {
	return fmt.Sprintf("Frame[%s](%d rows)", strings.Join(f.columns, ","), len(f.rows))
}
