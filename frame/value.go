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
	"fmt"
	"strconv"

	"github.com/stockparfait/fred/date"
)

// Kind of the values in a column.
type Kind uint8

const (
	String Kind = iota
	Number
	Date
)

func (k Kind) String() string {
	switch k {
	case String:
		return "string"
	case Number:
		return "number"
	case Date:
		return "date"
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Value is a single table cell. A missing Value still carries its Kind. Values
// are comparable with == and can be used as map keys.
type Value struct {
	kind  Kind
	valid bool
	str   string
	num   float64
	date  date.Date
}

func StringValue(s string) Value  { return Value{kind: String, valid: true, str: s} }
func NumberValue(x float64) Value { return Value{kind: Number, valid: true, num: x} }
func DateValue(d date.Date) Value { return Value{kind: Date, valid: true, date: d} }

// Missing value of the given kind.
func Missing(k Kind) Value { return Value{kind: k} }

func (v Value) Kind() Kind      { return v.kind }
func (v Value) IsMissing() bool { return !v.valid }
func (v Value) Str() string     { return v.str }
func (v Value) Num() float64    { return v.num }
func (v Value) Date() date.Date { return v.date }

// String renders the value for CSV and text output. Missing values are
// rendered as the empty string.
func (v Value) String() string {
	if !v.valid {
		return ""
	}
	switch v.kind {
	case Number:
		return strconv.FormatFloat(v.num, 'g', -1, 64)
	case Date:
		return v.date.String()
	}
	return v.str
}

// Interface returns the underlying Go value: string, float64, date.Date, or nil
// for a missing value.
func (v Value) Interface() any {
	if !v.valid {
		return nil
	}
	switch v.kind {
	case Number:
		return v.num
	case Date:
		return v.date
	}
	return v.str
}

// Less orders values of the same kind; missing values go first. Values of
// different kinds are ordered by kind.
func (v Value) Less(v2 Value) bool {
	if v.kind != v2.kind {
		return v.kind < v2.kind
	}
	if !v.valid || !v2.valid {
		return !v.valid && v2.valid
	}
	switch v.kind {
	case Number:
		return v.num < v2.num
	case Date:
		return v.date.Before(v2.date)
	}
	return v.str < v2.str
}
