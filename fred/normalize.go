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
package fred

import (
	"math"
	"strconv"
	"strings"

	"github.com/stockparfait/errors"
	"github.com/stockparfait/fred/date"
	"github.com/stockparfait/fred/frame"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Format of an endpoint result.
type Format int

const (
	// FormatDefault is the endpoint's own default: FormatTable for time series,
	// FormatRaw for everything else.
	FormatDefault Format = iota
	FormatRaw
	FormatTable
)

func (f Format) String() string {
	switch f {
	case FormatRaw:
		return "raw"
	case FormatTable:
		return "table"
	}
	return "default"
}

// resolve replaces FormatDefault by the endpoint default d.
func (f Format) resolve(d Format) Format {
	if f == FormatDefault {
		return d
	}
	return f
}

// Result of an endpoint which can be returned as a table. Raw is the decoded
// JSON response, unmodified. Table is set only for FormatTable.
type Result struct {
	Raw   map[string]any
	Table *frame.Frame
}

var (
	dateColumns   = map[string]struct{}{"date": {}, "created": {}, "realtime_start": {}, "realtime_end": {}}
	numberColumns = map[string]struct{}{"value": {}}
	leadColumns   = []string{"realtime_start", "realtime_end", "date", "value"}
)

func coerceDate(v any) frame.Value {
	s, ok := v.(string)
	if !ok {
		return frame.Missing(frame.Date)
	}
	d, err := date.Parse(s)
	if err != nil {
		return frame.Missing(frame.Date)
	}
	return frame.DateValue(d)
}

func coerceNumber(v any) frame.Value {
	switch x := v.(type) {
	case float64:
		return frame.NumberValue(x)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return frame.Missing(frame.Number)
		}
		return frame.NumberValue(f)
	}
	return frame.Missing(frame.Number)
}

func coerceString(v any) frame.Value {
	switch x := v.(type) {
	case nil:
		return frame.Missing(frame.String)
	case string:
		return frame.StringValue(x)
	case float64:
		return frame.StringValue(strconv.FormatFloat(x, 'f', -1, 64))
	case bool:
		return frame.StringValue(strconv.FormatBool(x))
	}
	return frame.Missing(frame.String)
}

// ToTable converts rows of a FRED response into a Frame. The columns named
// date, created, realtime_start and realtime_end are parsed as dates, and
// value as a number; values which fail to parse (such as the "." FRED uses
// for no data) become missing. Other columns are numbers when all their
// present values are JSON numbers, and strings otherwise. The columns are
// realtime_start, realtime_end, date, value (those which are present) followed
// by the rest in lexical order.
func ToTable(rows []map[string]any) *frame.Frame {
	present := make(map[string]struct{})
	for _, r := range rows {
		for k := range r {
			present[k] = struct{}{}
		}
	}
	var columns []string
	for _, c := range leadColumns {
		if _, ok := present[c]; ok {
			columns = append(columns, c)
			delete(present, c)
		}
	}
	rest := maps.Keys(present)
	slices.Sort(rest)
	columns = append(columns, rest...)

	kinds := make([]frame.Kind, len(columns))
	for i, c := range columns {
		if _, ok := dateColumns[c]; ok {
			kinds[i] = frame.Date
			continue
		}
		if _, ok := numberColumns[c]; ok {
			kinds[i] = frame.Number
			continue
		}
		kinds[i] = frame.Number
		for _, r := range rows {
			if v, ok := r[c]; ok && v != nil {
				if _, isNum := v.(float64); !isNum {
					kinds[i] = frame.String
					break
				}
			}
		}
	}
	f, err := frame.New(columns, kinds)
	if err != nil {
		panic(errors.Annotate(err, "columns from map keys must be unique"))
	}
	for _, r := range rows {
		row := make([]frame.Value, len(columns))
		for i, c := range columns {
			v := r[c]
			switch kinds[i] {
			case frame.Date:
				row[i] = coerceDate(v)
			case frame.Number:
				row[i] = coerceNumber(v)
			default:
				row[i] = coerceString(v)
			}
		}
		if err := f.AddRow(row); err != nil {
			panic(errors.Annotate(err, "rows are built to match the columns"))
		}
	}
	return f
}

// rowsOf extracts the list of JSON objects under the key of a response.
func rowsOf(raw map[string]any, key string) ([]map[string]any, error) {
	v, ok := raw[key]
	if !ok {
		return nil, errors.Reason("response has no %q field", key)
	}
	list, ok := v.([]any)
	if !ok {
		return nil, errors.Reason("response field %q is not a list: %T", key, v)
	}
	rows := make([]map[string]any, len(list))
	for i, x := range list {
		m, ok := x.(map[string]any)
		if !ok {
			return nil, errors.Reason("%s[%d] is not an object: %T", key, i, x)
		}
		rows[i] = m
	}
	return rows, nil
}

// tableResult builds the Result of a list-valued response for the format.
func tableResult(raw map[string]any, key string, format Format) (*Result, error) {
	res := &Result{Raw: raw}
	if format != FormatTable {
		return res, nil
	}
	rows, err := rowsOf(raw, key)
	if err != nil {
		return nil, err
	}
	res.Table = ToTable(rows)
	return res, nil
}
