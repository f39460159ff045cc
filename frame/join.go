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
package frame

import (
	"sort"

	"github.com/stockparfait/errors"
)

// Concat stacks the rows of the frames. The result has the union of their
// columns in order of first appearance; cells of the columns a frame lacks are
// missing. A column must have the same kind in every frame.
func Concat(frames ...*Frame) (*Frame, error) {
	var columns []string
	var kinds []Kind
	seen := make(map[string]Kind)
	for i, f := range frames {
		for j, c := range f.columns {
			k, ok := seen[c]
			if !ok {
				seen[c] = f.kinds[j]
				columns = append(columns, c)
				kinds = append(kinds, f.kinds[j])
				continue
			}
			if k != f.kinds[j] {
				return nil, errors.Reason("column %q in frame %d is %s, expected %s",
					c, i, f.kinds[j], k)
			}
		}
	}
	res, err := New(columns, kinds)
	if err != nil {
		return nil, err
	}
	for _, f := range frames {
		for _, r := range f.rows {
			row := make([]Value, len(columns))
			for j, c := range columns {
				if k, ok := f.index[c]; ok {
					row[j] = r[k]
				} else {
					row[j] = Missing(kinds[j])
				}
			}
			res.rows = append(res.rows, row)
		}
	}
	return res, nil
}

// keyIndex returns the position of the join column in f, and checks its kind.
func keyIndex(f *Frame, on string, kind Kind, n int) (int, error) {
	j, ok := f.index[on]
	if !ok {
		return 0, errors.Reason("frame %d has no column %q", n, on)
	}
	if f.kinds[j] != kind {
		return 0, errors.Reason("column %q in frame %d is %s, expected %s",
			on, n, f.kinds[j], kind)
	}
	return j, nil
}

// joinedColumns returns the key column followed by the non-key columns of
// all the frames, which must not repeat.
func joinedColumns(on string, kind Kind, frames []*Frame) ([]string, []Kind, error) {
	columns := []string{on}
	kinds := []Kind{kind}
	seen := map[string]struct{}{on: {}}
	for n, f := range frames {
		for j, c := range f.columns {
			if c == on {
				continue
			}
			if _, ok := seen[c]; ok {
				return nil, nil, errors.Reason("duplicate column %q in frame %d", c, n)
			}
			seen[c] = struct{}{}
			columns = append(columns, c)
			kinds = append(kinds, f.kinds[j])
		}
	}
	return columns, kinds, nil
}

// OuterJoin performs a full outer join of the frames on the given column. The
// result contains the join column followed by the other columns of each frame
// in order, and its rows are sorted by the join column. Keys must be unique
// and present within each frame, and non-key column names must be unique
// across the frames.
func OuterJoin(on string, frames ...*Frame) (*Frame, error) {
	if len(frames) == 0 {
		return nil, errors.Reason("nothing to join")
	}
	j0, ok := frames[0].index[on]
	if !ok {
		return nil, errors.Reason("frame 0 has no column %q", on)
	}
	kind := frames[0].kinds[j0]
	columns, kinds, err := joinedColumns(on, kind, frames)
	if err != nil {
		return nil, err
	}
	rows := make(map[Value][]Value)
	var keys []Value
	offset := 1
	for n, f := range frames {
		j, err := keyIndex(f, on, kind, n)
		if err != nil {
			return nil, err
		}
		inFrame := make(map[Value]struct{}, len(f.rows))
		for _, r := range f.rows {
			key := r[j]
			if key.IsMissing() {
				return nil, errors.Reason("missing key in frame %d", n)
			}
			if _, ok := inFrame[key]; ok {
				return nil, errors.Reason("duplicate key %s in frame %d", key, n)
			}
			inFrame[key] = struct{}{}
			row, ok := rows[key]
			if !ok {
				row = make([]Value, len(columns))
				row[0] = key
				for k := 1; k < len(columns); k++ {
					row[k] = Missing(kinds[k])
				}
				rows[key] = row
				keys = append(keys, key)
			}
			k := offset
			for c, v := range r {
				if c == j {
					continue
				}
				row[k] = v
				k++
			}
		}
		offset += len(f.columns) - 1
	}
	sort.Slice(keys, func(a, b int) bool { return keys[a].Less(keys[b]) })
	res, err := New(columns, kinds)
	if err != nil {
		return nil, err
	}
	res.rows = make([][]Value, len(keys))
	for i, k := range keys {
		res.rows[i] = rows[k]
	}
	return res, nil
}

// AsOfJoin adds to each row of base the non-key columns of every other frame
// taken from its latest row whose key is at or before the base row's key
// (backward as-of join). Base rows keep their order; when no such row exists,
// or the base key is missing, the added cells are missing.
func AsOfJoin(on string, base *Frame, others ...*Frame) (*Frame, error) {
	j0, ok := base.index[on]
	if !ok {
		return nil, errors.Reason("base frame has no column %q", on)
	}
	kind := base.kinds[j0]
	if kind == String {
		return nil, errors.Reason("as-of join requires a date or number column, %q is %s",
			on, kind)
	}
	columns := base.Columns()
	kinds := base.Kinds()
	seen := make(map[string]struct{}, len(columns))
	for _, c := range columns {
		seen[c] = struct{}{}
	}
	type side struct {
		keys []Value
		rows [][]Value // non-key values, sorted by key
	}
	sides := make([]side, len(others))
	for n, f := range others {
		j, err := keyIndex(f, on, kind, n+1)
		if err != nil {
			return nil, err
		}
		for c, col := range f.columns {
			if c == j {
				continue
			}
			if _, ok := seen[col]; ok {
				return nil, errors.Reason("duplicate column %q in frame %d", col, n+1)
			}
			seen[col] = struct{}{}
			columns = append(columns, col)
			kinds = append(kinds, f.kinds[c])
		}
		sorted := f.Filter(func(i int) bool { return !f.rows[i][j].IsMissing() })
		if err := sorted.SortBy(on); err != nil {
			return nil, err
		}
		var s side
		for _, r := range sorted.rows {
			s.keys = append(s.keys, r[j])
			vals := make([]Value, 0, len(r)-1)
			for c, v := range r {
				if c != j {
					vals = append(vals, v)
				}
			}
			s.rows = append(s.rows, vals)
		}
		sides[n] = s
	}
	res, err := New(columns, kinds)
	if err != nil {
		return nil, err
	}
	for _, r := range base.rows {
		row := make([]Value, len(r), len(columns))
		copy(row, r)
		key := r[j0]
		for n, s := range sides {
			width := len(others[n].columns) - 1
			i := -1
			if !key.IsMissing() {
				i = sort.Search(len(s.keys), func(k int) bool { return key.Less(s.keys[k]) }) - 1
			}
			if i < 0 {
				for c := 0; c < width; c++ {
					row = append(row, Missing(kinds[len(row)]))
				}
				continue
			}
			row = append(row, s.rows[i]...)
		}
		res.rows = append(res.rows, row)
	}
	return res, nil
}
