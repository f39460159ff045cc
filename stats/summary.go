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
	"math"

	"github.com/stockparfait/fred/date"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary statistics of a Timeseries.
type Summary struct {
	Count   int // number of present values
	Missing int // number of values excluded from the series
	Mean    float64
	StdDev  float64 // sample standard deviation; NaN for fewer than 2 values
	Min     float64
	Max     float64
	Start   date.Date // first date; zero for an empty series
	End     date.Date // last date; zero for an empty series
}

// Summarize computes the Summary of ts. The statistics of an empty series are
// NaN.
func Summarize(ts *Timeseries, missing int) Summary {
	s := Summary{
		Count:   len(ts.Data()),
		Missing: missing,
		Mean:    math.NaN(),
		StdDev:  math.NaN(),
		Min:     math.NaN(),
		Max:     math.NaN(),
	}
	if s.Count == 0 {
		return s
	}
	s.Mean = stat.Mean(ts.Data(), nil)
	if s.Count > 1 {
		s.StdDev = stat.StdDev(ts.Data(), nil)
	}
	s.Min = floats.Min(ts.Data())
	s.Max = floats.Max(ts.Data())
	s.Start = ts.Dates()[0]
	s.End = ts.Dates()[s.Count-1]
	return s
}
