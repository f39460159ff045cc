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

package date

import (
	"encoding/json"
	"time"

	"github.com/stockparfait/errors"
)

// Time is a wrapper around time.Time with JSON methods. FRED reports
// timestamps such as "2023-01-12 07:38:02-06", with the zone offset in hours.
type Time time.Time

var _ json.Marshaler = &Time{}
var _ json.Unmarshaler = &Time{}

// NewTime creates a Time value in UTC.
func NewTime(year, month, day, hour, minute, second int) *Time {
	t := time.Date(year, time.Month(month), day, hour, minute, second, 0, time.UTC)
	return (*Time)(&t)
}

// ParseTime parses any of the supported timestamp layouts.
func ParseTime(s string) (Time, error) {
	tm, err := parseTime(s)
	if err != nil {
		return Time{}, errors.Annotate(err, "failed to parse time string: '%s'", s)
	}
	return Time(tm), nil
}

// String representation of Time in UTC.
func (t *Time) String() string {
	return time.Time(*t).UTC().Format("2006-01-02 15:04:05")
}

// Equal checks that both values represent the same instant.
func (t Time) Equal(t2 Time) bool {
	return time.Time(t).Equal(time.Time(t2))
}

// MarshalJSON implements json.Marshaler.
func (t *Time) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.String() + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Time) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return errors.Annotate(err, "Time JSON must be a string")
	}
	tm, err := ParseTime(s)
	if err != nil {
		return err
	}
	*t = tm
	return nil
}
