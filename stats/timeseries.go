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
package stats

import (
	"sort"

	"github.com/stockparfait/errors"
	"github.com/stockparfait/fred/date"
	"github.com/stockparfait/fred/frame"
)

// Timeseries stores numeric values along with dates. The dates are always
// sorted in ascending order.
type Timeseries struct {
	dates []date.Date
	data  []float64
}

// NewTimeseries creates a new Timeseries. The dates are expected to be sorted
// in ascending order (not checked). It panics if dates and data have different
// lengths. Note, that the argument slices are used as is, not copied.
func NewTimeseries(dates []date.Date, data []float64) *Timeseries {
	if len(dates) != len(data) {
		panic(errors.Reason("len(dates) [%d] != len(data) [%d]",
			len(dates), len(data)))
	}
	return &Timeseries{dates: dates, data: data}
}

// FromFrame extracts a Timeseries from a date column and a number column of
// f. Rows where either value is missing are skipped, and their number is
// returned along with the result. The rows are sorted by date, and it is an
// error for a date to repeat.
func FromFrame(f *frame.Frame, dateCol, valueCol string) (*Timeseries, int, error) {
	if k, ok := f.Kind(dateCol); !ok || k != frame.Date {
		return nil, 0, errors.Reason("%q is not a date column", dateCol)
	}
	if k, ok := f.Kind(valueCol); !ok || k != frame.Number {
		return nil, 0, errors.Reason("%q is not a number column", valueCol)
	}
	sorted := f.Copy()
	if err := sorted.SortBy(dateCol); err != nil {
		return nil, 0, errors.Annotate(err, "failed to sort by %q", dateCol)
	}
	dates, err := sorted.Column(dateCol)
	if err != nil {
		return nil, 0, err
	}
	values, err := sorted.Column(valueCol)
	if err != nil {
		return nil, 0, err
	}
	var ds []date.Date
	var xs []float64
	missing := 0
	for i := range dates {
		if dates[i].IsMissing() || values[i].IsMissing() {
			missing++
			continue
		}
		ds = append(ds, dates[i].Date())
		xs = append(xs, values[i].Num())
	}
	ts := NewTimeseries(ds, xs)
	if err := ts.Check(); err != nil {
		return nil, 0, errors.Annotate(err, "invalid series %q", valueCol)
	}
	return ts, missing, nil
}

// Dates of the Timeseries.
func (t *Timeseries) Dates() []date.Date { return t.dates }

// Data of the Timeseries.
func (t *Timeseries) Data() []float64 { return t.data }

// Check that Timeseries is consistent: the lengths of dates and data are the
// same and the dates are ordered in ascending order.
func (t *Timeseries) Check() error {
	if len(t.dates) != len(t.data) {
		return errors.Reason("len(dates) [%d] != len(data) [%d]",
			len(t.dates), len(t.data))
	}
	for i, d := range t.dates {
		if i == 0 {
			continue
		}
		if !t.dates[i-1].Before(d) {
			return errors.Reason("dates[%d] = %s >= dates[%d] = %s",
				i-1, t.dates[i-1], i, d)
		}
	}
	return nil
}

// rangeSlice returns slice indices for dates to extract an inclusive interval
// between start and end dates. A zero bound leaves that side open.
func rangeSlice(dates []date.Date, start, end date.Date) (s, e int) {
	s = sort.Search(len(dates), func(i int) bool {
		return dates[i].InRange(start, date.Date{})
	})
	e = sort.Search(len(dates), func(i int) bool {
		return !dates[i].InRange(date.Date{}, end)
	})
	if s >= e {
		return 0, 0
	}
	return
}

// Range extracts the sub-series from the inclusive time interval. Zero bounds
// are ignored. It may return an empty Timeseries, but never nil.
func (t *Timeseries) Range(start, end date.Date) *Timeseries {
	s, e := rangeSlice(t.dates, start, end)
	if s == 0 && e == len(t.dates) {
		return t
	}
	return NewTimeseries(t.dates[s:e], t.data[s:e])
}
