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
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"

	"github.com/stockparfait/fetch"
	"github.com/stockparfait/fred/date"
	"github.com/stockparfait/fred/frame"
	"github.com/stockparfait/testutil"

	. "github.com/smartystreets/goconvey/convey"
)

func ctxNoClient() context.Context { return context.Background() }

func testJSON(js string) map[string]any {
	var res map[string]any
	if err := json.Unmarshal([]byte(js), &res); err != nil {
		panic(err)
	}
	return res
}

func d(s string) date.Date {
	res, err := date.Parse(s)
	if err != nil {
		panic(err)
	}
	return res
}

// testQuery is the query expected for the given endpoint parameters.
func testQuery(kv ...string) url.Values {
	q := url.Values{"api_key": {testKey}, "file_type": {"json"}}
	for i := 0; i+1 < len(kv); i += 2 {
		q.Set(kv[i], kv[i+1])
	}
	return q
}

const observationsJSON = `{
  "realtime_start": "2023-02-01", "realtime_end": "2023-02-01",
  "observation_start": "1600-01-01", "observation_end": "9999-12-31",
  "units": "lin", "output_type": 1, "file_type": "json",
  "order_by": "observation_date", "sort_order": "asc",
  "count": 3, "offset": 0, "limit": 100000,
  "observations": [
    {"realtime_start": "2023-02-01", "realtime_end": "2023-02-01", "date": "2022-01-01", "value": "24740.480"},
    {"realtime_start": "2023-02-01", "realtime_end": "2023-02-01", "date": "2022-04-01", "value": "."},
    {"realtime_start": "2023-02-01", "realtime_end": "9999-12-31", "date": "2022-07-01", "value": "25723.941"}
  ]
}`

const seriesJSON = `{
  "realtime_start": "2023-02-01", "realtime_end": "2023-02-01",
  "seriess": [{
    "id": "GNPCA", "realtime_start": "2023-02-01", "realtime_end": "2023-02-01",
    "title": "Real Gross National Product",
    "observation_start": "1929-01-01", "observation_end": "2022-01-01",
    "frequency": "Annual", "frequency_short": "A",
    "units": "Billions of Chained 2012 Dollars", "units_short": "Bil. of Chn. 2012 $",
    "seasonal_adjustment": "Not Seasonally Adjusted", "seasonal_adjustment_short": "NSA",
    "last_updated": "2022-09-29 07:45:54-05", "popularity": 16,
    "notes": "BEA Account Code: A001RX"
  }]
}`

func TestFRED(t *testing.T) {
	t.Parallel()

	Convey("API calls work correctly", t, func() {
		server := testutil.NewTestServer()
		defer server.Close()
		server.ResponseBody = []string{"{}"}

		ctx := fetch.UseClient(context.Background(), server.Client())
		client, err := NewClient(&Config{
			APIKey:  testKey,
			URL:     server.URL() + "/fred",
			MapsURL: server.URL() + "/geofred",
		})
		So(err, ShouldBeNil)
		ctx = UseClient(ctx, client)
		So(GetClient(ctx), ShouldEqual, client)

		Convey("Category returns the response unchanged", func() {
			body := `{"categories": [{"id": 125, "name": "Trade Balance", "parent_id": 13}]}`
			server.ResponseBody = []string{body}
			res, err := Category(ctx, 125, nil)
			So(err, ShouldBeNil)
			So(res, ShouldResemble, testJSON(body))
			So(server.RequestPath, ShouldEqual, "/fred/category")
			So(server.RequestQuery, ShouldResemble, testQuery("category_id", "125"))
		})

		Convey("CategorySeries decodes series metadata", func() {
			server.ResponseBody = []string{seriesJSON}
			res, err := CategorySeries(ctx, 125, Options{"order_by": "popularity", "limit": 5})
			So(err, ShouldBeNil)
			So(server.RequestPath, ShouldEqual, "/fred/category/series")
			So(server.RequestQuery, ShouldResemble, testQuery(
				"category_id", "125", "order_by", "popularity", "limit", "5"))
			So(len(res), ShouldEqual, 1)
			So(res["GNPCA"].Title, ShouldEqual, "Real Gross National Product")
		})

		Convey("GetSeriesInfo decodes series metadata", func() {
			server.ResponseBody = []string{seriesJSON}
			info, err := GetSeriesInfo(ctx, "GNPCA", nil)
			So(err, ShouldBeNil)
			So(server.RequestPath, ShouldEqual, "/fred/series")
			So(server.RequestQuery, ShouldResemble, testQuery("series_id", "GNPCA"))
			So(info.ID, ShouldEqual, "GNPCA")
			So(info.ObservationStart, ShouldResemble, d("1929-01-01"))
			So(info.FrequencyShort, ShouldEqual, "A")
			So(info.SeasonalAdjustmentShort, ShouldEqual, "NSA")
			So(info.LastUpdated.Equal(*date.NewTime(2022, 9, 29, 12, 45, 54)), ShouldBeTrue)
			So(info.Popularity, ShouldEqual, 16)
		})

		Convey("GetSeriesInfo with no series", func() {
			server.ResponseBody = []string{`{"seriess": []}`}
			_, err := GetSeriesInfo(ctx, "NONE", nil)
			So(err, ShouldNotBeNil)
		})

		Convey("SeriesObservations defaults to a table", func() {
			server.ResponseBody = []string{observationsJSON}
			res, err := SeriesObservations(ctx, "GDP", Options{
				"observation_start": d("2022-01-01"),
				"units":             "lin",
			}, FormatDefault)
			So(err, ShouldBeNil)
			So(server.RequestPath, ShouldEqual, "/fred/series/observations")
			So(server.RequestQuery, ShouldResemble, testQuery(
				"series_id", "GDP", "observation_start", "2022-01-01", "units", "lin"))
			So(res.Raw, ShouldResemble, testJSON(observationsJSON))
			So(res.Table, ShouldNotBeNil)
			So(res.Table.Columns(), ShouldResemble,
				[]string{"realtime_start", "realtime_end", "date", "value"})
			So(res.Table.Records(), ShouldResemble, [][]string{
				{"2023-02-01", "2023-02-01", "2022-01-01", "24740.48"},
				{"2023-02-01", "2023-02-01", "2022-04-01", ""},
				{"2023-02-01", "9999-12-31", "2022-07-01", "25723.941"},
			})
		})

		Convey("SeriesObservations as raw", func() {
			server.ResponseBody = []string{observationsJSON}
			res, err := SeriesObservations(ctx, "GDP", nil, FormatRaw)
			So(err, ShouldBeNil)
			So(res.Table, ShouldBeNil)
			So(res.Raw, ShouldResemble, testJSON(observationsJSON))
		})

		Convey("SeriesInitialRelease fixes its parameters", func() {
			server.ResponseBody = []string{observationsJSON}
			_, err := SeriesInitialRelease(ctx, "GDP", Options{
				"realtime_start": "2000-01-01",
				"output_type":    1,
			}, FormatRaw)
			So(err, ShouldBeNil)
			So(server.RequestQuery, ShouldResemble, testQuery(
				"series_id", "GDP", "realtime_start", "1776-07-04", "output_type", "4"))
		})

		Convey("SeriesAllReleases fixes its parameters", func() {
			server.ResponseBody = []string{observationsJSON}
			_, err := SeriesAllReleases(ctx, "GDP", Options{"realtime_end": "2000-01-01"}, FormatRaw)
			So(err, ShouldBeNil)
			So(server.RequestQuery, ShouldResemble, testQuery(
				"series_id", "GDP", "realtime_start", "1776-07-04", "realtime_end", "9999-12-31"))
		})

		Convey("SeriesAsOfDate fixes its parameters", func() {
			server.ResponseBody = []string{observationsJSON}
			_, err := SeriesAsOfDate(ctx, "GDP", d("2020-06-30"), Options{
				"realtime_start": "2019-01-01",
				"realtime_end":   "2021-01-01",
			}, FormatRaw)
			So(err, ShouldBeNil)
			So(server.RequestQuery, ShouldResemble, testQuery(
				"series_id", "GDP", "realtime_start", "1776-07-04", "realtime_end", "2020-06-30"))
		})

		Convey("series options pass unknown fields through", func() {
			server.ResponseBody = []string{observationsJSON}
			_, err := SeriesObservations(ctx, "GDP", Options{
				"vintage_dates": []string{"2020-01-01", "2021-01-01"},
				"new_option":    3.0,
			}, FormatRaw)
			So(err, ShouldBeNil)
			So(server.RequestQuery, ShouldResemble, testQuery(
				"series_id", "GDP", "vintage_dates", "2020-01-01,2021-01-01", "new_option", "3"))
		})

		Convey("SearchSeries as a table", func() {
			server.ResponseBody = []string{seriesJSON}
			res, err := SearchSeries(ctx, "gross national", Options{"search_type": "full_text"}, FormatTable)
			So(err, ShouldBeNil)
			So(server.RequestPath, ShouldEqual, "/fred/series/search")
			So(server.RequestQuery, ShouldResemble, testQuery(
				"search_text", "gross national", "search_type", "full_text"))
			So(res.Table.Len(), ShouldEqual, 1)
			k, ok := res.Table.Kind("popularity")
			So(ok, ShouldBeTrue)
			So(k, ShouldEqual, frame.Number)
		})

		Convey("Tags join tag names", func() {
			server.ResponseBody = []string{`{"tags": []}`}
			_, err := RelatedTags(ctx, []string{"monetary aggregates", "weekly"}, Options{"sort_order": "desc"})
			So(err, ShouldBeNil)
			So(server.RequestPath, ShouldEqual, "/fred/related_tags")
			So(server.RequestQuery, ShouldResemble, testQuery(
				"tag_names", "monetary aggregates;weekly", "sort_order", "desc"))
		})

		Convey("Releases and sources use their paths", func() {
			server.ResponseBody = []string{`{"release_dates": []}`}
			_, err := ReleaseDates(ctx, 82, Options{"include_release_dates_with_no_data": true})
			So(err, ShouldBeNil)
			So(server.RequestPath, ShouldEqual, "/fred/release/dates")
			So(server.RequestQuery, ShouldResemble, testQuery(
				"release_id", "82", "include_release_dates_with_no_data", "true"))

			_, err = SourceReleases(ctx, 1, nil)
			So(err, ShouldBeNil)
			So(server.RequestPath, ShouldEqual, "/fred/source/releases")
			So(server.RequestQuery, ShouldResemble, testQuery("source_id", "1"))
		})

		Convey("GetGeoseriesInfo uses the maps API", func() {
			server.ResponseBody = []string{`{"series_group": {
				"title": "All Employees: Total Private", "region_type": "state",
				"series_group": "1223", "season": "NSA", "units": "Thousands of Persons",
				"frequency": "a", "min_date": "1990-01-01", "max_date": "2021-01-01"}}`}
			info, err := GetGeoseriesInfo(ctx, "SMU56000000500000001a")
			So(err, ShouldBeNil)
			So(server.RequestPath, ShouldEqual, "/geofred/series/group")
			So(info.RegionType, ShouldEqual, "state")
			So(info.MaxDate, ShouldResemble, d("2021-01-01"))
		})

		Convey("Geoseries flattens regional data", func() {
			server.ResponseBody = []string{`{"meta": {
				"title": "Per Capita Personal Income", "region": "state",
				"data": {
					"2013-01-01": [
						{"region": "Alabama", "code": "01", "value": "36014", "series_id": "ALPCPI"}],
					"2012-01-01": [
						{"region": "Alabama", "code": "01", "value": "35126", "series_id": "ALPCPI"},
						{"region": "Alaska", "code": "02", "value": ".", "series_id": "AKPCPI"}]
				}}}`}
			res, err := Geoseries(ctx, "WIPCPI", Options{"start_date": "2012-01-01"}, FormatDefault)
			So(err, ShouldBeNil)
			So(server.RequestPath, ShouldEqual, "/geofred/series/data")
			So(server.RequestQuery, ShouldResemble, testQuery(
				"series_id", "WIPCPI", "start_date", "2012-01-01"))
			So(res.Table.Columns(), ShouldResemble,
				[]string{"date", "value", "code", "region", "series_id"})
			So(res.Table.Records(), ShouldResemble, [][]string{
				{"2012-01-01", "35126", "01", "Alabama", "ALPCPI"},
				{"2012-01-01", "", "02", "Alaska", "AKPCPI"},
				{"2013-01-01", "36014", "01", "Alabama", "ALPCPI"},
			})
		})

		Convey("ShapeFile validates the shape", func() {
			_, err := ShapeFile(ctx, "planet")
			So(err, ShouldHaveSameTypeAs, &InvalidParameterError{})
		})
	})

	Convey("Errors are typed", t, func() {
		var requests int32
		status := http.StatusOK
		body := "{}"
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&requests, 1)
			w.WriteHeader(status)
			w.Write([]byte(body))
		}))
		defer server.Close()

		ctx := fetch.UseClient(context.Background(), server.Client())
		client, err := NewClient(&Config{APIKey: testKey, URL: server.URL})
		So(err, ShouldBeNil)
		ctx = UseClient(ctx, client)

		Convey("unknown strict parameters fail without a request", func() {
			_, err := Category(ctx, 125, Options{"bogus": 1, "another": "x"})
			So(err, ShouldHaveSameTypeAs, &UnknownParameterError{})
			ue := err.(*UnknownParameterError)
			So(ue.Family, ShouldEqual, CategoryFamily)
			So(ue.Names, ShouldResemble, []string{"another", "bogus"})
			_, err = Tags(ctx, Options{"series_id": "GDP"})
			So(err, ShouldHaveSameTypeAs, &UnknownParameterError{})
			_, err = Releases(ctx, Options{"bogus": true})
			So(err, ShouldHaveSameTypeAs, &UnknownParameterError{})
			_, err = Sources(ctx, Options{"bogus": true})
			So(err, ShouldHaveSameTypeAs, &UnknownParameterError{})
			So(atomic.LoadInt32(&requests), ShouldEqual, 0)
		})

		Convey("credential fields are rejected in every family", func() {
			_, err := SeriesObservations(ctx, "GDP", Options{"api_key": "stolen"}, FormatRaw)
			So(err, ShouldHaveSameTypeAs, &UnknownParameterError{})
			_, err = Geoseries(ctx, "WIPCPI", Options{"file_type": "xml"}, FormatRaw)
			So(err, ShouldHaveSameTypeAs, &UnknownParameterError{})
			So(atomic.LoadInt32(&requests), ShouldEqual, 0)
		})

		Convey("invalid values fail without a request", func() {
			for _, opts := range []Options{
				{"sort_order": "up"},
				{"offset": 0},
				{"limit": -1},
				{"output_type": 5},
				{"units": "percent"},
				{"realtime_start": "yesterday"},
				{"limit": "many"},
			} {
				_, err := SeriesObservations(ctx, "GDP", opts, FormatRaw)
				So(err, ShouldHaveSameTypeAs, &InvalidParameterError{})
			}
			_, err := Release(ctx, 0, nil)
			So(err, ShouldHaveSameTypeAs, &InvalidParameterError{})
			So(atomic.LoadInt32(&requests), ShouldEqual, 0)
		})

		Convey("remote errors carry the message", func() {
			status = http.StatusBadRequest
			body = `{"error_code": 400, "error_message": "Bad Request.  The series does not exist."}`
			_, err := SeriesObservations(ctx, "NOPE", nil, FormatDefault)
			So(err, ShouldHaveSameTypeAs, &RemoteError{})
			re := err.(*RemoteError)
			So(re.StatusCode, ShouldEqual, 400)
			So(re.Message, ShouldEqual, "Bad Request.  The series does not exist.")
			So(atomic.LoadInt32(&requests), ShouldEqual, 1)
		})

		Convey("remote errors without a JSON body", func() {
			status = http.StatusInternalServerError
			body = "oops"
			_, err := Sources(ctx, nil)
			So(err, ShouldResemble, &RemoteError{StatusCode: 500, Message: "Internal Server Error"})
		})

		Convey("invalid JSON of a successful response", func() {
			body = "not json"
			_, err := Sources(ctx, nil)
			So(err, ShouldNotBeNil)
			So(err, ShouldNotHaveSameTypeAs, &RemoteError{})
		})

		Convey("transport errors hide the key", func() {
			server.Close()
			_, err := Sources(ctx, nil)
			So(err, ShouldHaveSameTypeAs, &TransportError{})
			So(err.Error(), ShouldNotContainSubstring, testKey)
			So(err.(*TransportError).Unwrap(), ShouldNotBeNil)
		})
	})

	Convey("Query validates without a request", t, func() {
		q, err := Query(TagFamily, Options{
			"tag_names":    "gdp; usa",
			"limit":        10.0,
			"tag_group_id": "geo",
		})
		So(err, ShouldBeNil)
		So(q, ShouldResemble, url.Values{
			"tag_names":    {"gdp;usa"},
			"limit":        {"10"},
			"tag_group_id": {"geo"},
		})

		q, err = Query(MapFamily, Options{"date": d("2020-01-01"), "region_type": "state"})
		So(err, ShouldBeNil)
		So(q, ShouldResemble, url.Values{"date": {"2020-01-01"}, "region_type": {"state"}})

		q, err = Query(SeriesSearchFamily, Options{
			"series_search_text": "price index",
			"tag_group_id":       "geo",
		})
		So(err, ShouldBeNil)
		So(q, ShouldResemble, url.Values{
			"series_search_text": {"price index"},
			"tag_group_id":       {"geo"},
		})
		_, err = Query(SeriesSearchFamily, Options{"tag_group_id": "bogus"})
		So(err, ShouldHaveSameTypeAs, &InvalidParameterError{})

		q, err = Query(SeriesFamily, Options{"limit": nil})
		So(err, ShouldBeNil)
		So(len(q), ShouldEqual, 0)

		_, err = Query(Family("bogus"), nil)
		So(err, ShouldNotBeNil)

		So(CategoryFamily.Policy().String(), ShouldEqual, "strict")
		So(SeriesFamily.Policy().String(), ShouldEqual, "permissive")
	})
}
