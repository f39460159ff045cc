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
	"fmt"
	"io"

	"github.com/stockparfait/errors"
	"github.com/stockparfait/fred/fred"
)

// Field of the series metadata to group the series by.
type Field int

const (
	Frequency Field = iota
	Units
	Seasonality
	StartDate
	EndDate
)

func (f Field) String() string {
	switch f {
	case Frequency:
		return "frequency"
	case Units:
		return "units"
	case Seasonality:
		return "seasonality"
	case StartDate:
		return "start date"
	case EndDate:
		return "end date"
	}
	return fmt.Sprintf("Field(%d)", int(f))
}

func (f Field) value(info *fred.SeriesInfo) string {
	switch f {
	case Frequency:
		return info.Frequency
	case Units:
		return info.Units
	case Seasonality:
		return info.SeasonalAdjustment
	case StartDate:
		return info.ObservationStart.String()
	case EndDate:
		return info.ObservationEnd.String()
	}
	return ""
}

// Group of series sharing the value of a Field.
type Group struct {
	Value  string
	Series []*Series
}

// GroupBy groups the series by the field, in order of the first appearance of
// each value.
func (c *Collection) GroupBy(f Field) []Group {
	var groups []Group
	index := make(map[string]int)
	for _, s := range c.Series() {
		v := f.value(s.Info)
		i, ok := index[v]
		if !ok {
			i = len(groups)
			index[v] = i
			groups = append(groups, Group{Value: v})
		}
		groups[i].Series = append(groups[i].Series, s)
	}
	return groups
}

func writeSeries(w io.Writer, series []*Series) error {
	for _, s := range series {
		if _, err := fmt.Fprintf(w, "%s: %s\n", s.ID, s.Info.Title); err != nil {
			return errors.Annotate(err, "failed to write series %s", s.ID)
		}
	}
	return nil
}

// list writes the groups of the field. The formats take the field value.
func (c *Collection) list(w io.Writer, f Field, all, group string) error {
	groups := c.GroupBy(f)
	if len(groups) == 1 {
		if _, err := fmt.Fprintf(w, all+"\n", groups[0].Value); err != nil {
			return errors.Annotate(err, "failed to write %s", f)
		}
		return nil
	}
	for _, g := range groups {
		if _, err := fmt.Fprintf(w, "== "+group+" ==\n", g.Value); err != nil {
			return errors.Annotate(err, "failed to write %s", f)
		}
		if err := writeSeries(w, g.Series); err != nil {
			return err
		}
	}
	return nil
}

// ListSeries writes the ID and the title of every series.
func (c *Collection) ListSeries(w io.Writer) error {
	return writeSeries(w, c.Series())
}

func (c *Collection) ListFrequency(w io.Writer) error {
	return c.list(w, Frequency, "All series are %s", "Series that are published %s")
}

func (c *Collection) ListUnits(w io.Writer) error {
	return c.list(w, Units, "All series are measured in %s", "Series that are measured in %s")
}

func (c *Collection) ListSeasonality(w io.Writer) error {
	return c.list(w, Seasonality, "All series are %s", "Series that are %s")
}

func (c *Collection) ListStartDate(w io.Writer) error {
	return c.list(w, StartDate, "All series start on %s", "Series that start on %s")
}

func (c *Collection) ListEndDate(w io.Writer) error {
	return c.list(w, EndDate, "All series end on %s", "Series that end on %s")
}
