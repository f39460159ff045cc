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

// Tags lists FRED tags, optionally filtered by the options.
func Tags(ctx context.Context, opts Options) (map[string]any, error) {
	return rawCall(ctx, DataAPI, "tags", TagFamily, &TagParams{}, opts)
}

// RelatedTags lists the tags related to the given ones.
func RelatedTags(ctx context.Context, tags []string, opts Options) (map[string]any, error) {
	return rawCall(ctx, DataAPI, "related_tags", TagFamily, &TagParams{},
		opts.with(Options{"tag_names": tags}))
}

// TagsSeries fetches the metadata of the series having all the given tags, by
// series ID.
func TagsSeries(ctx context.Context, tags []string, opts Options) (map[string]SeriesInfo, error) {
	var l seriesList
	if err := call(ctx, DataAPI, "tags/series", TagFamily, &TagParams{},
		opts.with(Options{"tag_names": tags}), &l); err != nil {
		return nil, err
	}
	return l.byID(), nil
}
