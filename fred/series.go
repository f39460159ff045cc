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

	"github.com/stockparfait/errors"
	"github.com/stockparfait/fred/date"
)

// Sentinel dates FRED uses for the unbounded ends of a real-time period.
var (
	EarliestRealtime = date.New(1776, 7, 4)
	LatestRealtime   = date.New(9999, 12, 31)
)

// OutputInitialRelease is the output_type of observations by initial release
// only.
const OutputInitialRelease = 4

// SeriesInfo is the metadata of an economic data series.
type SeriesInfo struct {
	ID                      string    `json:"id"`
	RealtimeStart           date.Date `json:"realtime_start"`
	RealtimeEnd             date.Date `json:"realtime_end"`
	Title                   string    `json:"title"`
	ObservationStart        date.Date `json:"observation_start"`
	ObservationEnd          date.Date `json:"observation_end"`
	Frequency               string    `json:"frequency"`
	FrequencyShort          string    `json:"frequency_short"`
	Units                   string    `json:"units"`
	UnitsShort              string    `json:"units_short"`
	SeasonalAdjustment      string    `json:"seasonal_adjustment"`
	SeasonalAdjustmentShort string    `json:"seasonal_adjustment_short"`
	LastUpdated             date.Time `json:"last_updated"`
	Popularity              int       `json:"popularity"`
	GroupPopularity         int       `json:"group_popularity,omitempty"`
	Notes                   string    `json:"notes,omitempty"`
}

func seriesOpts(id string, opts Options) Options {
	return opts.with(Options{"series_id": id})
}

// GetSeriesInfo fetches the metadata of a series.
func GetSeriesInfo(ctx context.Context, id string, opts Options) (*SeriesInfo, error) {
	var l seriesList
	if err := call(ctx, DataAPI, "series", SeriesFamily, &SeriesParams{}, seriesOpts(id, opts), &l); err != nil {
		return nil, err
	}
	if len(l.Seriess) == 0 {
		return nil, errors.Reason("no metadata for series %s", id)
	}
	return &l.Seriess[0], nil
}

// SeriesCategories of a series.
func SeriesCategories(ctx context.Context, id string, opts Options) (map[string]any, error) {
	return rawCall(ctx, DataAPI, "series/categories", SeriesFamily, &SeriesParams{}, seriesOpts(id, opts))
}

// SeriesObservations fetches the observations (data values) of a series. The
// default format is FormatTable.
func SeriesObservations(ctx context.Context, id string, opts Options, format Format) (*Result, error) {
	raw, err := rawCall(ctx, DataAPI, "series/observations", SeriesFamily, &SeriesParams{}, seriesOpts(id, opts))
	if err != nil {
		return nil, err
	}
	return tableResult(raw, "observations", format.resolve(FormatTable))
}

// SeriesRelease of a series.
func SeriesRelease(ctx context.Context, id string, opts Options) (map[string]any, error) {
	return rawCall(ctx, DataAPI, "series/release", SeriesFamily, &SeriesParams{}, seriesOpts(id, opts))
}

// SeriesTags of a series.
func SeriesTags(ctx context.Context, id string, opts Options) (map[string]any, error) {
	return rawCall(ctx, DataAPI, "series/tags", SeriesFamily, &SeriesParams{}, seriesOpts(id, opts))
}

// SeriesUpdates lists the series sorted by the time of their latest update.
// The default format is FormatRaw.
func SeriesUpdates(ctx context.Context, opts Options, format Format) (*Result, error) {
	raw, err := rawCall(ctx, DataAPI, "series/updates", SeriesFamily, &SeriesParams{}, opts)
	if err != nil {
		return nil, err
	}
	return tableResult(raw, "seriess", format.resolve(FormatRaw))
}

// SeriesVintageDates lists the dates when a series' data values were revised
// or new values were released.
func SeriesVintageDates(ctx context.Context, id string, opts Options) (map[string]any, error) {
	return rawCall(ctx, DataAPI, "series/vintagedates", SeriesFamily, &SeriesParams{}, seriesOpts(id, opts))
}

// SearchSeries finds series matching the text. The default format is
// FormatRaw.
func SearchSeries(ctx context.Context, text string, opts Options, format Format) (*Result, error) {
	raw, err := rawCall(ctx, DataAPI, "series/search", SeriesSearchFamily, &SeriesSearchParams{},
		opts.with(Options{"search_text": text}))
	if err != nil {
		return nil, err
	}
	return tableResult(raw, "seriess", format.resolve(FormatRaw))
}

// SearchSeriesTags lists the tags of the series matching the text.
func SearchSeriesTags(ctx context.Context, text string, opts Options) (map[string]any, error) {
	return rawCall(ctx, DataAPI, "series/search/tags", SeriesSearchFamily, &SeriesSearchParams{},
		opts.with(Options{"series_search_text": text}))
}

// SearchSeriesRelatedTags lists the tags related to the tag_names option for
// the series matching the text.
func SearchSeriesRelatedTags(ctx context.Context, text string, opts Options) (map[string]any, error) {
	return rawCall(ctx, DataAPI, "series/search/related_tags", SeriesSearchFamily, &SeriesSearchParams{},
		opts.with(Options{"series_search_text": text}))
}

// SeriesAllReleases fetches the observations of every release of a series,
// with the real-time period [EarliestRealtime, LatestRealtime]. Caller values
// of realtime_start and realtime_end are discarded.
func SeriesAllReleases(ctx context.Context, id string, opts Options, format Format) (*Result, error) {
	return SeriesObservations(ctx, id, opts.with(Options{
		"realtime_start": EarliestRealtime,
		"realtime_end":   LatestRealtime,
	}), format)
}

// SeriesInitialRelease fetches only the initially released observations of a
// series. Caller values of realtime_start and output_type are discarded.
func SeriesInitialRelease(ctx context.Context, id string, opts Options, format Format) (*Result, error) {
	return SeriesObservations(ctx, id, opts.with(Options{
		"realtime_start": EarliestRealtime,
		"output_type":    OutputInitialRelease,
	}), format)
}

// SeriesAsOfDate fetches the observations of a series as they were known on
// the date. Caller values of realtime_start and realtime_end are discarded.
func SeriesAsOfDate(ctx context.Context, id string, asOf date.Date, opts Options, format Format) (*Result, error) {
	return SeriesObservations(ctx, id, opts.with(Options{
		"realtime_start": EarliestRealtime,
		"realtime_end":   asOf,
	}), format)
}
