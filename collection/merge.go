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
package collection

import (
	"math"

	"github.com/stockparfait/errors"
	"github.com/stockparfait/fred/date"
	"github.com/stockparfait/fred/frame"
	"github.com/stockparfait/fred/stats"
)

// DefaultLabel is the series column of MergeLong.
const DefaultLabel = "series"

// MergeLong stacks the series into a single table where the value column is
// named "value", and the label column holds the series name. An empty label
// means DefaultLabel.
func (c *Collection) MergeLong(label string) (*frame.Frame, error) {
	if label == "" {
		label = DefaultLabel
	}
	if c.Len() == 0 {
		return nil, errors.Reason("collection is empty")
	}
	tables := make([]*frame.Frame, c.Len())
	for i, s := range c.Series() {
		t := s.Table.Copy()
		if err := t.Rename(map[string]string{s.Name: ValueColumn}); err != nil {
			return nil, errors.Annotate(err, "failed to rename series %s", s.ID)
		}
		labels := make([]frame.Value, t.Len())
		for j := range labels {
			labels[j] = frame.StringValue(s.Name)
		}
		if err := t.AddColumn(label, frame.String, labels); err != nil {
			return nil, errors.Annotate(err, "failed to label series %s", s.ID)
		}
		tables[i] = t
	}
	return frame.Concat(tables...)
}

// values returns the date and the value columns of each series. Series names
// must be unique.
func (c *Collection) values(series []*Series) ([]*frame.Frame, error) {
	names := make(map[string]string, len(series))
	res := make([]*frame.Frame, len(series))
	for i, s := range series {
		if id, ok := names[s.Name]; ok {
			return nil, errors.Reason("series %s and %s are both named %q", id, s.ID, s.Name)
		}
		names[s.Name] = s.ID
		t, err := s.Table.Select(DateColumn, s.Name)
		if err != nil {
			return nil, errors.Annotate(err, "unexpected table of %s", s.ID)
		}
		res[i] = t
	}
	return res, nil
}

// MergeWide joins the series on their date into a table with one value column
// per series, sorted by date. The dates of each series must be unique.
func (c *Collection) MergeWide() (*frame.Frame, error) {
	if c.Len() == 0 {
		return nil, errors.Reason("collection is empty")
	}
	tables, err := c.values(c.Series())
	if err != nil {
		return nil, err
	}
	res, err := frame.OuterJoin(DateColumn, tables...)
	if err != nil {
		return nil, errors.Annotate(err, "series do not share a date index")
	}
	return res, nil
}

// MergeAsOf adds to the table of the base series the latest value of every
// other series at or before each of its dates.
func (c *Collection) MergeAsOf(baseID string) (*frame.Frame, error) {
	base, err := c.Lookup(baseID)
	if err != nil {
		return nil, err
	}
	var others []*Series
	for _, s := range c.Series() {
		if s.ID != baseID {
			others = append(others, s)
		}
	}
	tables, err := c.values(append([]*Series{base}, others...))
	if err != nil {
		return nil, err
	}
	return frame.AsOfJoin(DateColumn, base.Table, tables[1:]...)
}

func number(x float64) frame.Value {
	if math.IsNaN(x) {
		return frame.Missing(frame.Number)
	}
	return frame.NumberValue(x)
}

// Describe summarizes every series in a table with one row per series.
func (c *Collection) Describe() (*frame.Frame, error) {
	return c.DescribeRange(date.Date{}, date.Date{})
}

// windowMissing counts the dated rows of t in the inclusive [start, end] range
// whose value is missing.
func windowMissing(t *frame.Frame, column string, start, end date.Date) (int, error) {
	dates, err := t.Column(DateColumn)
	if err != nil {
		return 0, err
	}
	values, err := t.Column(column)
	if err != nil {
		return 0, err
	}
	n := 0
	for i := range dates {
		if values[i].IsMissing() && !dates[i].IsMissing() && dates[i].Date().InRange(start, end) {
			n++
		}
	}
	return n, nil
}

// DescribeRange is Describe restricted to the observations dated within the
// inclusive [start, end] range. A zero bound leaves that side open.
func (c *Collection) DescribeRange(start, end date.Date) (*frame.Frame, error) {
	res, err := frame.New(
		[]string{"id", "name", "count", "missing", "mean", "std", "min", "max", "start", "end"},
		[]frame.Kind{frame.String, frame.String, frame.Number, frame.Number, frame.Number,
			frame.Number, frame.Number, frame.Number, frame.Date, frame.Date})
	if err != nil {
		return nil, err
	}
	for _, s := range c.Series() {
		ts, missing, err := stats.FromFrame(s.Table, DateColumn, s.Name)
		if err != nil {
			return nil, errors.Annotate(err, "failed to summarize series %s", s.ID)
		}
		if !start.IsZero() || !end.IsZero() {
			ts = ts.Range(start, end)
			if missing, err = windowMissing(s.Table, s.Name, start, end); err != nil {
				return nil, errors.Annotate(err, "failed to summarize series %s", s.ID)
			}
		}
		sum := stats.Summarize(ts, missing)
		start, end := frame.Missing(frame.Date), frame.Missing(frame.Date)
		if sum.Count > 0 {
			start, end = frame.DateValue(sum.Start), frame.DateValue(sum.End)
		}
		err = res.AddRow([]frame.Value{
			frame.StringValue(s.ID),
			frame.StringValue(s.Name),
			frame.NumberValue(float64(sum.Count)),
			frame.NumberValue(float64(sum.Missing)),
			number(sum.Mean),
			number(sum.StdDev),
			number(sum.Min),
			number(sum.Max),
			start,
			end,
		})
		if err != nil {
			return nil, err
		}
	}
	return res, nil
}
