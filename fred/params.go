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
	"fmt"
	"net/url"
	"reflect"
	"strconv"
	"strings"

	"github.com/stockparfait/errors"
	"github.com/stockparfait/fred/date"
	"github.com/stockparfait/fred/message"
)

// Family of endpoint parameters. Each family has a fixed policy for options it
// does not recognize.
type Family string

const (
	CategoryFamily     Family = "category"
	SeriesFamily       Family = "series"
	SeriesSearchFamily Family = "series search"
	ReleaseFamily      Family = "release"
	SourceFamily       Family = "source"
	TagFamily          Family = "tag"
	MapFamily          Family = "map"
)

// Policy for unknown options: series, series search and map options pass
// through to the server, the rest are rejected.
func (f Family) Policy() message.Policy {
	switch f {
	case SeriesFamily, SeriesSearchFamily, MapFamily:
		return message.Permissive
	}
	return message.Strict
}

// Options of an endpoint call, as a map from the FRED parameter name to its
// value. Values may be Go natives (string, int, float64, bool, date.Date,
// []string) or their JSON-decoded equivalents. A nil value is the same as an
// absent one.
type Options map[string]any

// with returns a copy of o with the given values set.
func (o Options) with(values Options) Options {
	res := make(Options, len(o)+len(values))
	for k, v := range o {
		res[k] = v
	}
	for k, v := range values {
		res[k] = v
	}
	return res
}

// TagList is a list of tag names, sent as a semicolon-separated string.
type TagList []string

var _ message.Message = &TagList{}

// InitMessage implements message.Message. It accepts a semicolon-separated
// string or a list of strings.
func (t *TagList) InitMessage(js any) error {
	switch v := js.(type) {
	case string:
		*t = nil
		for _, s := range strings.Split(v, ";") {
			if s = strings.TrimSpace(s); s != "" {
				*t = append(*t, s)
			}
		}
		return nil
	case []string:
		*t = append(TagList(nil), v...)
		return nil
	case []any:
		res := make(TagList, len(v))
		for i, x := range v {
			s, ok := x.(string)
			if !ok {
				return errors.Reason("tag name must be a string, got %v", x)
			}
			res[i] = s
		}
		*t = res
		return nil
	case map[string]any:
		*t = nil
		return nil
	}
	return errors.Reason("expected a string or a list of tag names, got %v", js)
}

// DateList is a list of dates, sent as a comma-separated string.
type DateList []date.Date

var _ message.Message = &DateList{}

// InitMessage implements message.Message. It accepts a comma-separated
// string, or a list of dates or date strings.
func (l *DateList) InitMessage(js any) error {
	var items []any
	switch v := js.(type) {
	case string:
		for _, s := range strings.Split(v, ",") {
			if s = strings.TrimSpace(s); s != "" {
				items = append(items, s)
			}
		}
	case []string:
		for _, s := range v {
			items = append(items, s)
		}
	case []date.Date:
		*l = append(DateList(nil), v...)
		return nil
	case []any:
		items = v
	case map[string]any:
		*l = nil
		return nil
	default:
		return errors.Reason("expected a string or a list of dates, got %v", js)
	}
	res := make(DateList, len(items))
	for i, x := range items {
		if err := res[i].InitMessage(x); err != nil {
			return errors.Annotate(err, "invalid date #%d", i)
		}
	}
	*l = res
	return nil
}

type params interface {
	message.Message
	check() error
}

// positive checks that an optional integer parameter is at least 1.
func positive(name string, v *int) error {
	if v != nil && *v < 1 {
		return errors.Reason("%s must be >= 1, got %d", name, *v)
	}
	return nil
}

func checkAll(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// CategoryParams of the category endpoints.
type CategoryParams struct {
	CategoryID      *int      `json:"category_id"`
	RealtimeStart   date.Date `json:"realtime_start"`
	RealtimeEnd     date.Date `json:"realtime_end"`
	Limit           *int      `json:"limit"`
	Offset          *int      `json:"offset"`
	OrderBy         string    `json:"order_by" choices:",search_rank,series_id,title,units,frequency,seasonal_adjustment,realtime_start,realtime_end,last_updated,observation_start,observation_end,popularity,group_popularity,series_count,created,name,group_id"`
	SortOrder       string    `json:"sort_order" choices:",asc,desc"`
	FilterVariable  string    `json:"filter_variable" choices:",frequency,units,seasonal_adjustment"`
	FilterValue     string    `json:"filter_value"`
	TagNames        TagList   `json:"tag_names"`
	ExcludeTagNames TagList   `json:"exclude_tag_names"`
	TagGroupID      string    `json:"tag_group_id" choices:",freq,gen,geo,geot,rls,seas,src,cc"`
	SearchText      string    `json:"search_text"`
}

func (p *CategoryParams) InitMessage(js any) error { return message.Init(p, js) }

func (p *CategoryParams) check() error {
	return checkAll(positive("limit", p.Limit), positive("offset", p.Offset))
}

// SeriesParams of the series endpoints.
type SeriesParams struct {
	SeriesID          string    `json:"series_id"`
	RealtimeStart     date.Date `json:"realtime_start"`
	RealtimeEnd       date.Date `json:"realtime_end"`
	Limit             *int      `json:"limit"`
	Offset            *int      `json:"offset"`
	SortOrder         string    `json:"sort_order" choices:",asc,desc"`
	ObservationStart  date.Date `json:"observation_start"`
	ObservationEnd    date.Date `json:"observation_end"`
	Units             string    `json:"units" choices:",lin,chg,ch1,pch,pc1,pca,cch,cca,log"`
	Frequency         string    `json:"frequency" choices:",d,w,bw,m,q,sa,a,wef,weth,wew,wetu,wem,wesu,wesa,bwew,bwem"`
	AggregationMethod string    `json:"aggregation_method" choices:",avg,sum,eop"`
	OutputType        *int      `json:"output_type"`
	VintageDates      DateList  `json:"vintage_dates"`
}

func (p *SeriesParams) InitMessage(js any) error { return message.Init(p, js) }

func (p *SeriesParams) check() error {
	if p.OutputType != nil && (*p.OutputType < 1 || *p.OutputType > 4) {
		return errors.Reason("output_type must be in 1..4, got %d", *p.OutputType)
	}
	return checkAll(positive("limit", p.Limit), positive("offset", p.Offset))
}

// SeriesSearchParams of the series search endpoints.
type SeriesSearchParams struct {
	SearchText       string    `json:"search_text"`
	SearchType       string    `json:"search_type" choices:",full_text,series_id"`
	RealtimeStart    date.Date `json:"realtime_start"`
	RealtimeEnd      date.Date `json:"realtime_end"`
	Limit            *int      `json:"limit"`
	Offset           *int      `json:"offset"`
	OrderBy          string    `json:"order_by" choices:",search_rank,series_id,title,units,frequency,seasonal_adjustment,realtime_start,realtime_end,last_updated,observation_start,observation_end,popularity,group_popularity,series_count,created,name,group_id"`
	SortOrder        string    `json:"sort_order" choices:",asc,desc"`
	FilterVariable   string    `json:"filter_variable" choices:",frequency,units,seasonal_adjustment"`
	FilterValue      string    `json:"filter_value"`
	TagNames         TagList   `json:"tag_names"`
	ExcludeTagNames  TagList   `json:"exclude_tag_names"`
	SeriesSearchText string    `json:"series_search_text"`
	TagGroupID       string    `json:"tag_group_id" choices:",freq,gen,geo,geot,rls,seas,src,cc"`
}

func (p *SeriesSearchParams) InitMessage(js any) error { return message.Init(p, js) }

func (p *SeriesSearchParams) check() error {
	return checkAll(positive("limit", p.Limit), positive("offset", p.Offset))
}

// ReleaseParams of the release endpoints.
type ReleaseParams struct {
	ReleaseID                     *int      `json:"release_id"`
	RealtimeStart                 date.Date `json:"realtime_start"`
	RealtimeEnd                   date.Date `json:"realtime_end"`
	Limit                         *int      `json:"limit"`
	Offset                        *int      `json:"offset"`
	OrderBy                       string    `json:"order_by" choices:",search_rank,series_id,title,units,frequency,seasonal_adjustment,realtime_start,realtime_end,last_updated,observation_start,observation_end,popularity,group_popularity,series_count,created,name,group_id,release_id,press_release,release_date"`
	SortOrder                     string    `json:"sort_order" choices:",asc,desc"`
	FilterVariable                string    `json:"filter_variable" choices:",frequency,units,seasonal_adjustment"`
	FilterValue                   string    `json:"filter_value"`
	IncludeReleaseDatesWithNoData *bool     `json:"include_release_dates_with_no_data"`
	ElementID                     *int      `json:"element_id"`
	IncludeObservationValues      *bool     `json:"include_observation_values"`
	ObservationDate               date.Date `json:"observation_date"`
	TagNames                      TagList   `json:"tag_names"`
	ExcludeTagNames               TagList   `json:"exclude_tag_names"`
	TagGroupID                    string    `json:"tag_group_id" choices:",freq,gen,geo,geot,rls,seas,src,cc"`
	SearchText                    string    `json:"search_text"`
}

func (p *ReleaseParams) InitMessage(js any) error { return message.Init(p, js) }

func (p *ReleaseParams) check() error {
	return checkAll(positive("release_id", p.ReleaseID),
		positive("limit", p.Limit), positive("offset", p.Offset))
}

// SourceParams of the source endpoints.
type SourceParams struct {
	SourceID      *int      `json:"source_id"`
	RealtimeStart date.Date `json:"realtime_start"`
	RealtimeEnd   date.Date `json:"realtime_end"`
	Limit         *int      `json:"limit"`
	Offset        *int      `json:"offset"`
	OrderBy       string    `json:"order_by" choices:",source_id,name,realtime_start,realtime_end,release_id,press_release"`
	SortOrder     string    `json:"sort_order" choices:",asc,desc"`
}

func (p *SourceParams) InitMessage(js any) error { return message.Init(p, js) }

func (p *SourceParams) check() error {
	return checkAll(positive("source_id", p.SourceID),
		positive("limit", p.Limit), positive("offset", p.Offset))
}

// TagParams of the tag endpoints.
type TagParams struct {
	RealtimeStart   date.Date `json:"realtime_start"`
	RealtimeEnd     date.Date `json:"realtime_end"`
	TagNames        TagList   `json:"tag_names"`
	ExcludeTagNames TagList   `json:"exclude_tag_names"`
	TagGroupID      string    `json:"tag_group_id" choices:",freq,gen,geo,geot,rls,seas,src,cc"`
	SearchText      string    `json:"search_text"`
	Limit           *int      `json:"limit"`
	Offset          *int      `json:"offset"`
	OrderBy         string    `json:"order_by" choices:",series_count,popularity,created,name,group_id,series_id,title,units,frequency,seasonal_adjustment,realtime_start,realtime_end,last_updated,observation_start,observation_end,group_popularity"`
	SortOrder       string    `json:"sort_order" choices:",asc,desc"`
}

func (p *TagParams) InitMessage(js any) error { return message.Init(p, js) }

func (p *TagParams) check() error {
	return checkAll(positive("limit", p.Limit), positive("offset", p.Offset))
}

// MapParams of the maps API endpoints.
type MapParams struct {
	Shape     string    `json:"shape" choices:",bea,msa,frb,necta,state,country,county,censusregion,censusdivision"`
	SeriesID  string    `json:"series_id"`
	Date      date.Date `json:"date"`
	StartDate date.Date `json:"start_date"`
}

func (p *MapParams) InitMessage(js any) error { return message.Init(p, js) }

func (p *MapParams) check() error { return nil }

// queryValue formats a set parameter field, and returns false for an unset
// one.
func queryValue(v reflect.Value) (string, bool) {
	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return "", false
		}
		v = v.Elem()
	}
	switch x := v.Interface().(type) {
	case string:
		return x, x != ""
	case int:
		return strconv.Itoa(x), true
	case bool:
		return strconv.FormatBool(x), true
	case date.Date:
		return x.String(), !x.IsZero()
	case TagList:
		return strings.Join(x, ";"), len(x) > 0
	case DateList:
		s := make([]string, len(x))
		for i, d := range x {
			s[i] = d.String()
		}
		return strings.Join(s, ","), len(x) > 0
	}
	return fmt.Sprint(v.Interface()), true
}

// formatValue formats an option passed through by a permissive family.
func formatValue(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case []string:
		return strings.Join(x, ";")
	case []any:
		s := make([]string, len(x))
		for i, e := range x {
			s[i] = formatValue(e)
		}
		return strings.Join(s, ";")
	case fmt.Stringer:
		return x.String()
	}
	return fmt.Sprint(v)
}

// buildQuery validates opts against the family parameters p, and returns the
// query of the set parameters along with any passed-through options. Nothing
// is sent over the network.
func buildQuery(f Family, p params, opts Options) (url.Values, error) {
	var creds []string
	for _, k := range credentialFields {
		if _, ok := opts[k]; ok {
			creds = append(creds, k)
		}
	}
	if len(creds) > 0 {
		return nil, &UnknownParameterError{Family: f, Names: creds}
	}
	js := make(map[string]any, len(opts))
	for k, v := range opts {
		js[k] = v
	}
	extra, err := message.InitPolicy(p, js, f.Policy())
	if err != nil {
		if ue, ok := err.(*message.UnknownFieldsError); ok {
			return nil, &UnknownParameterError{Family: f, Names: ue.Fields}
		}
		return nil, &InvalidParameterError{Family: f, Reason: err.Error()}
	}
	if err := p.check(); err != nil {
		return nil, &InvalidParameterError{Family: f, Reason: err.Error()}
	}
	q := url.Values{}
	rv := reflect.ValueOf(p).Elem()
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		name, ok := message.JSONName(rt.Field(i))
		if !ok {
			continue
		}
		if s, ok := queryValue(rv.Field(i)); ok {
			q.Set(name, s)
		}
	}
	for k, v := range extra {
		if v != nil {
			q.Set(k, formatValue(v))
		}
	}
	return q, nil
}

// Query validates the options of the family without sending a request, and
// returns the resulting query parameters, credentials excluded.
func Query(f Family, opts Options) (url.Values, error) {
	var p params
	switch f {
	case CategoryFamily:
		p = &CategoryParams{}
	case SeriesFamily:
		p = &SeriesParams{}
	case SeriesSearchFamily:
		p = &SeriesSearchParams{}
	case ReleaseFamily:
		p = &ReleaseParams{}
	case SourceFamily:
		p = &SourceParams{}
	case TagFamily:
		p = &TagParams{}
	case MapFamily:
		p = &MapParams{}
	default:
		return nil, errors.Reason("unknown parameter family %q", f)
	}
	return buildQuery(f, p, opts)
}
