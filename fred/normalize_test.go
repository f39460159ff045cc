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
	"testing"

	"github.com/stockparfait/fred/frame"

	. "github.com/smartystreets/goconvey/convey"
)

func TestToTable(t *testing.T) {
	t.Parallel()

	Convey("ToTable", t, func() {
		Convey("orders and coerces columns", func() {
			rows := []map[string]any{
				{"id": "A", "popularity": 3.0, "value": "1.5", "date": "2020-01-01"},
				{"id": "B", "popularity": 7.0, "value": ".", "date": "bad", "notes": "n"},
			}
			f := ToTable(rows)
			So(f.Columns(), ShouldResemble,
				[]string{"date", "value", "id", "notes", "popularity"})
			So(f.Kinds(), ShouldResemble, []frame.Kind{
				frame.Date, frame.Number, frame.String, frame.String, frame.Number})
			So(f.Records(), ShouldResemble, [][]string{
				{"2020-01-01", "1.5", "A", "", "3"},
				{"", "", "B", "n", "7"},
			})
		})

		Convey("non-finite values are missing", func() {
			f := ToTable([]map[string]any{
				{"value": "NaN"}, {"value": "Inf"}, {"value": "-infinity"}, {"value": "2"},
			})
			k, ok := f.Kind("value")
			So(ok, ShouldBeTrue)
			So(k, ShouldEqual, frame.Number)
			So(f.Records(), ShouldResemble, [][]string{{""}, {""}, {""}, {"2"}})
		})

		Convey("mixed columns are strings", func() {
			f := ToTable([]map[string]any{{"x": 1.0}, {"x": "two"}, {"x": true}})
			k, ok := f.Kind("x")
			So(ok, ShouldBeTrue)
			So(k, ShouldEqual, frame.String)
			So(f.Records(), ShouldResemble, [][]string{{"1"}, {"two"}, {"true"}})
		})

		Convey("no rows", func() {
			f := ToTable(nil)
			So(f.Len(), ShouldEqual, 0)
			So(len(f.Columns()), ShouldEqual, 0)
		})
	})

	Convey("Format", t, func() {
		So(FormatDefault.resolve(FormatTable), ShouldEqual, FormatTable)
		So(FormatRaw.resolve(FormatTable), ShouldEqual, FormatRaw)
		So(FormatTable.String(), ShouldEqual, "table")
	})

	Convey("tableResult requires a list", t, func() {
		_, err := tableResult(map[string]any{"observations": "none"}, "observations", FormatTable)
		So(err, ShouldNotBeNil)
		_, err = tableResult(map[string]any{}, "observations", FormatTable)
		So(err, ShouldNotBeNil)
		res, err := tableResult(map[string]any{}, "observations", FormatRaw)
		So(err, ShouldBeNil)
		So(res.Table, ShouldBeNil)
	})
}
