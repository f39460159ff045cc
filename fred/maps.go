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
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// GeoseriesInfo is the metadata of a series with regional data.
type GeoseriesInfo struct {
	Title       string    `json:"title"`
	RegionType  string    `json:"region_type"`
	SeriesGroup string    `json:"series_group"`
	Season      string    `json:"season"`
	Units       string    `json:"units"`
	Frequency   string    `json:"frequency"`
	MinDate     date.Date `json:"min_date"`
	MaxDate     date.Date `json:"max_date"`
}

// GetGeoseriesInfo fetches the regional metadata of a series.
func GetGeoseriesInfo(ctx context.Context, id string) (*GeoseriesInfo, error) {
	var res struct {
		SeriesGroup *GeoseriesInfo `json:"series_group"`
	}
	if err := call(ctx, MapsAPI, "series/group", MapFamily, &MapParams{},
		Options{"series_id": id}, &res); err != nil {
		return nil, err
	}
	if res.SeriesGroup == nil {
		return nil, errors.Reason("no regional metadata for series %s", id)
	}
	return res.SeriesGroup, nil
}

// ShapeFile fetches the shapes of the regions of the given type in the
// Well-known text (WKT) format.
func ShapeFile(ctx context.Context, shape string) (map[string]any, error) {
	return rawCall(ctx, MapsAPI, "shapes/file", MapFamily, &MapParams{},
		Options{"shape": shape})
}

// Geoseries fetches a cross section of regional data of a series, for the
// dates between the start_date and date options. The default format is
// FormatTable, with one row per region and date.
func Geoseries(ctx context.Context, id string, opts Options, format Format) (*Result, error) {
	raw, err := rawCall(ctx, MapsAPI, "series/data", MapFamily, &MapParams{},
		opts.with(Options{"series_id": id}))
	if err != nil {
		return nil, err
	}
	res := &Result{Raw: raw}
	if format.resolve(FormatTable) != FormatTable {
		return res, nil
	}
	rows, err := geoRows(raw)
	if err != nil {
		return nil, err
	}
	res.Table = ToTable(rows)
	return res, nil
}

// geoRows flattens {"meta": {"data": {date: [row, ...]}}} into rows with a
// date field, in date order.
func geoRows(raw map[string]any) ([]map[string]any, error) {
	meta, ok := raw["meta"].(map[string]any)
	if !ok {
		return nil, errors.Reason("response has no \"meta\" object")
	}
	data, ok := meta["data"].(map[string]any)
	if !ok {
		return nil, errors.Reason("response has no \"meta.data\" object")
	}
	dates := maps.Keys(data)
	slices.Sort(dates)
	var rows []map[string]any
	for _, d := range dates {
		byDate, err := rowsOf(data, d)
		if err != nil {
			return nil, err
		}
		for _, r := range byDate {
			row := make(map[string]any, len(r)+1)
			for k, v := range r {
				row[k] = v
			}
			row["date"] = d
			rows = append(rows, row)
		}
	}
	return rows, nil
}
