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

func releasesCall(ctx context.Context, path string, opts Options) (map[string]any, error) {
	return rawCall(ctx, DataAPI, path, ReleaseFamily, &ReleaseParams{}, opts)
}

func releaseOpts(id int, opts Options) Options {
	return opts.with(Options{"release_id": id})
}

// Releases lists all releases of economic data.
func Releases(ctx context.Context, opts Options) (map[string]any, error) {
	return releasesCall(ctx, "releases", opts)
}

// ReleasesDates lists the release dates of all releases.
func ReleasesDates(ctx context.Context, opts Options) (map[string]any, error) {
	return releasesCall(ctx, "releases/dates", opts)
}

// Release fetches a release of economic data.
func Release(ctx context.Context, id int, opts Options) (map[string]any, error) {
	return releasesCall(ctx, "release", releaseOpts(id, opts))
}

// ReleaseDates lists the release dates of a release.
func ReleaseDates(ctx context.Context, id int, opts Options) (map[string]any, error) {
	return releasesCall(ctx, "release/dates", releaseOpts(id, opts))
}

// ReleaseSeries fetches the metadata of the series in a release, by series ID.
func ReleaseSeries(ctx context.Context, id int, opts Options) (map[string]SeriesInfo, error) {
	var l seriesList
	if err := call(ctx, DataAPI, "release/series", ReleaseFamily, &ReleaseParams{},
		releaseOpts(id, opts), &l); err != nil {
		return nil, err
	}
	return l.byID(), nil
}

// ReleaseSources lists the sources of a release.
func ReleaseSources(ctx context.Context, id int, opts Options) (map[string]any, error) {
	return releasesCall(ctx, "release/sources", releaseOpts(id, opts))
}

// ReleaseTags lists the tags of a release.
func ReleaseTags(ctx context.Context, id int, opts Options) (map[string]any, error) {
	return releasesCall(ctx, "release/tags", releaseOpts(id, opts))
}

// ReleaseRelatedTags lists the tags related to the tag_names option for a
// release.
func ReleaseRelatedTags(ctx context.Context, id int, opts Options) (map[string]any, error) {
	return releasesCall(ctx, "release/related_tags", releaseOpts(id, opts))
}

// ReleaseTables fetches the release table tree of a release, optionally
// starting at the element_id option.
func ReleaseTables(ctx context.Context, id int, opts Options) (map[string]any, error) {
	return releasesCall(ctx, "release/tables", releaseOpts(id, opts))
}
