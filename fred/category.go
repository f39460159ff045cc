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

func categoryCall(ctx context.Context, path string, id int, opts Options) (map[string]any, error) {
	return rawCall(ctx, DataAPI, path, CategoryFamily, &CategoryParams{},
		opts.with(Options{"category_id": id}))
}

// Category fetches a category. The root category has id 0.
func Category(ctx context.Context, id int, opts Options) (map[string]any, error) {
	return categoryCall(ctx, "category", id, opts)
}

// CategoryChildren lists the child categories.
func CategoryChildren(ctx context.Context, id int, opts Options) (map[string]any, error) {
	return categoryCall(ctx, "category/children", id, opts)
}

// CategoryRelated lists the related categories.
func CategoryRelated(ctx context.Context, id int, opts Options) (map[string]any, error) {
	return categoryCall(ctx, "category/related", id, opts)
}

// CategorySeries fetches the metadata of the series in a category, by series
// ID.
func CategorySeries(ctx context.Context, id int, opts Options) (map[string]SeriesInfo, error) {
	var l seriesList
	if err := call(ctx, DataAPI, "category/series", CategoryFamily, &CategoryParams{},
		opts.with(Options{"category_id": id}), &l); err != nil {
		return nil, err
	}
	return l.byID(), nil
}

// CategoryTags lists the tags of the series in a category.
func CategoryTags(ctx context.Context, id int, opts Options) (map[string]any, error) {
	return categoryCall(ctx, "category/tags", id, opts)
}

// CategoryRelatedTags lists the tags related to the tag_names option for the
// series in a category.
func CategoryRelatedTags(ctx context.Context, id int, opts Options) (map[string]any, error) {
	return categoryCall(ctx, "category/related_tags", id, opts)
}
