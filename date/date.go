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

// Package date implements calendar dates and timestamps as they appear in
// FRED payloads.
//
// Date deliberately does not use time.Time: it stores the year, month and
// day in 4 bytes, which covers the whole range of FRED sentinel dates, from
// the earliest realtime start 1776-07-04 to the "open end" 9999-12-31.
package date

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/stockparfait/errors"
	"github.com/stockparfait/fred/message"
)

// lessLex is a lexicographic ordering on the slices of int.
func lessLex(x, y []int) bool {
	l := len(x)
	if len(y) < l {
		l = len(y)
	}
	for i := 0; i < l; i++ {
		if x[i] < y[i] {
			return true
		}
		if x[i] > y[i] {
			return false
		}
	}
	return len(x) < len(y)
}

// layouts accepted by parseTime, in the order of preference.
var layouts = []string{
	"2006-01-02 15:04:05-07",
	"2006-01-02 15:04:05.999",
	"2006-01-02T15:04:05.999",
	"2006-01-02T15:04:05.999Z",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func parseTime(s string) (time.Time, error) {
	if s == "0000-00-00" || s == "0000-00-00T00:00:00.000" {
		return time.Time{}, nil
	}
	var err error
	for _, layout := range layouts {
		var tm time.Time
		if tm, err = time.Parse(layout, s); err == nil {
			return tm, nil
		}
	}
	return time.Time{}, err
}

// Date records a calendar date as year, month and day.
type Date struct {
	YearVal  uint16
	MonthVal uint8
	DayVal   uint8
}

var _ json.Marshaler = Date{}
var _ json.Unmarshaler = &Date{}
var _ message.Message = &Date{}

// New is the constructor for Date.
func New(year uint16, month, day uint8) Date {
	return Date{year, month, day}
}

// FromTime creates a Date instance from a time.Time value in its own
// location.
func FromTime(t time.Time) Date {
	return Date{
		YearVal:  uint16(t.Year()),
		MonthVal: uint8(t.Month()),
		DayVal:   uint8(t.Day()),
	}
}

// Parse a Date from its string representation. Timestamps are accepted, and
// their time part is ignored.
func Parse(s string) (Date, error) {
	t, err := parseTime(s)
	if err != nil {
		return Date{}, errors.Annotate(err, "failed to parse a Date string: '%s'", s)
	}
	if t.IsZero() {
		return Date{}, nil
	}
	return FromTime(t), nil
}

func (d Date) Year() uint16 { return d.YearVal }
func (d Date) Month() uint8 { return d.MonthVal }
func (d Date) Day() uint8   { return d.DayVal }

// String representation of the value, YYYY-MM-DD.
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year(), d.Month(), d.Day())
}

// MarshalJSON implements json.Marshaler.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler. NOTE: unlike other methods, this
// is a pointer method.
func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return errors.Annotate(err, "Date JSON must be a string")
	}
	date, err := Parse(s)
	if err != nil {
		return errors.Annotate(err, "failed to parse Date string")
	}
	*d = date
	return nil
}

// InitMessage implements message.Message. Besides the JSON string and {}
// values, it accepts a Date, so that Go callers can pass dates directly.
func (d *Date) InitMessage(js any) error {
	switch v := js.(type) {
	case string:
		date, err := Parse(v)
		if err != nil {
			return errors.Annotate(err, "failed to parse Date string")
		}
		*d = date
	case Date:
		*d = v
	case time.Time:
		*d = FromTime(v)
	case map[string]any:
		*d = Date{}
	default:
		return errors.Reason("expected a string, Date or {}, got %v", js)
	}
	return nil
}

// Before compares two Date objects for strict inequality (self < d2).
func (d Date) Before(d2 Date) bool {
	return lessLex([]int{int(d.Year()), int(d.Month()), int(d.Day())},
		[]int{int(d2.Year()), int(d2.Month()), int(d2.Day())})
}

// After compares two Date objects for strict inequality, self > d2.
func (d Date) After(d2 Date) bool {
	return d2.Before(d)
}

// Compare returns -1, 0 or 1 when d is before, equal to or after d2.
func (d Date) Compare(d2 Date) int {
	switch {
	case d.Before(d2):
		return -1
	case d.After(d2):
		return 1
	}
	return 0
}

// IsZero checks whether the date has a zero value.
func (d Date) IsZero() bool {
	return d.Year() == 0 && d.Month() == 0 && d.Day() == 0
}

// InRange checks if d is in the inclusive date range. Any of the bounds may be
// zero value, in which case it's ignored.
func (d Date) InRange(start, end Date) bool {
	if d.IsZero() {
		return false
	}
	if !start.IsZero() && start.After(d) {
		return false
	}
	if !end.IsZero() && end.Before(d) {
		return false
	}
	return true
}
