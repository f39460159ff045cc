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

// Sources lists all sources of economic data.
func Sources(ctx context.Context, opts Options) (map[string]any, error) {
	return rawCall(ctx, DataAPI, "sources", SourceFamily, &SourceParams{}, opts)
}

// Source fetches a source of economic data.
func Source(ctx context.Context, id int, opts Options) (map[string]any, error) {
	return rawCall(ctx, DataAPI, "source", SourceFamily, &SourceParams{},
		opts.with(Options{"source_id": id}))
}

// SourceReleases lists the releases of a source.
func SourceReleases(ctx context.Context, id int, opts Options) (map[string]any, error) {
	return rawCall(ctx, DataAPI, "source/releases", SourceFamily, &SourceParams{},
		opts.with(Options{"source_id": id}))
}
