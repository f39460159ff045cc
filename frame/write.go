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
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/stockparfait/errors"
)

// Params are parameters for pretty-printing or CSV export of Frame data.
type Params struct {
	Rows        int    // max. number of rows to write; 0 = unlimited (default)
	NoHeader    bool   // whether to print the header, default - yes
	MaxColWidth int    // for WriteText only; 0 = unlimited, otherwise must be >= 4
	Missing     string // representation of missing values, default ""
}

func (f *Frame) record(i int, p Params) []string {
	rec := make([]string, len(f.columns))
	for j, v := range f.rows[i] {
		if v.IsMissing() {
			rec[j] = p.Missing
		} else {
			rec[j] = v.String()
		}
	}
	return rec
}

func (f *Frame) numRows(p Params) int {
	if p.Rows > 0 && p.Rows < len(f.rows) {
		return p.Rows
	}
	return len(f.rows)
}

// WriteCSV writes the entire frame to w in CSV format.
func (f *Frame) WriteCSV(w io.Writer, p Params) error {
	cw := csv.NewWriter(w)
	if !p.NoHeader && len(f.columns) > 0 {
		if err := cw.Write(f.columns); err != nil {
			return errors.Annotate(err, "failed to write header")
		}
	}
	for i := 0; i < f.numRows(p); i++ {
		if err := cw.Write(f.record(i, p)); err != nil {
			return errors.Annotate(err, "failed to write row")
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return errors.Annotate(err, "failed to flush written rows")
	}
	return nil
}

// WriteText writes the frame as a text formatted for ease of reading.
func (f *Frame) WriteText(w io.Writer, p Params) error {
	if p.MaxColWidth != 0 && p.MaxColWidth < 4 {
		return errors.Reason("MaxColWidth [%d] must be 0 or >= 4", p.MaxColWidth)
	}
	if len(f.columns) == 0 {
		return nil
	}
	widths := make([]int, len(f.columns))
	update := func(row []string) {
		for i := range widths {
			if n := len([]rune(row[i])); widths[i] < n {
				widths[i] = n
				if p.MaxColWidth > 0 && widths[i] > p.MaxColWidth {
					widths[i] = p.MaxColWidth
				}
			}
		}
	}

	write := func(row []string) error {
		trimmed := make([]string, len(row))
		for i, s := range row {
			trimmed[i] = s
			if len([]rune(s)) > widths[i] {
				r := []rune(s)[:widths[i]-2]
				trimmed[i] = string(r) + ".."
			}
			trimmed[i] = fmt.Sprintf("%[2]*[1]s", trimmed[i], widths[i])
		}
		_, err := fmt.Fprintf(w, "%s\n", strings.Join(trimmed, " | "))
		return err
	}

	dashedRow := func() []string {
		row := make([]string, len(widths))
		for i, w := range widths {
			row[i] = strings.Repeat("-", w)
		}
		return row
	}

	if !p.NoHeader {
		update(f.columns)
	}
	for i := 0; i < f.numRows(p); i++ {
		update(f.record(i, p))
	}

	if !p.NoHeader {
		if err := write(f.columns); err != nil {
			return errors.Annotate(err, "failed to write header")
		}
		if err := write(dashedRow()); err != nil {
			return errors.Annotate(err, "failed to write header separator")
		}
	}
	for i := 0; i < f.numRows(p); i++ {
		if err := write(f.record(i, p)); err != nil {
			return errors.Annotate(err, "failed to write row")
		}
	}
	return nil
}
