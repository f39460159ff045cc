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
)

// call validates opts for the family, and queries the path of the API with
// the context Client, decoding the response into result.
func call(ctx context.Context, api API, path string, f Family, p params, opts Options, result any) error {
	q, err := buildQuery(f, p, opts)
	if err != nil {
		return err
	}
	c, err := clientFrom(ctx)
	if err != nil {
		return err
	}
	return c.Get(ctx, api, path, q, result)
}

// rawCall is call with the response decoded into a generic JSON object.
func rawCall(ctx context.Context, api API, path string, f Family, p params, opts Options) (map[string]any, error) {
	var raw map[string]any
	if err := call(ctx, api, path, f, p, opts, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// seriesList is the common shape of the responses listing series.
type seriesList struct {
	Seriess []SeriesInfo `json:"seriess"`
}

func (l *seriesList) byID() map[string]SeriesInfo {
	res := make(map[string]SeriesInfo, len(l.Seriess))
	for _, s := range l.Seriess {
		res[s.ID] = s
	}
	return res
}
