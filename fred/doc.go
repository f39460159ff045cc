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
// Package fred is a client for the FRED economic data web service of the
// Federal Reserve Bank of St. Louis, and its geographic (maps) sub-API.
//
// The Client is injected into the context:
//
//   client, err := fred.NewClient(&fred.Config{APIKey: key})
//   ...
//   ctx = fred.UseClient(ctx, client)
//   res, err := fred.SeriesObservations(ctx, "GDP", nil, fred.FormatDefault)
//
// When the context carries no Client, one is created from the environment
// (FRED_API_KEY) on every call. The HTTP client itself is taken from the
// context by the fetch package, which allows tests to inject a test server.
//
// Every endpoint function validates its options against the parameter family
// of the endpoint before any network I/O. Families with a closed set of
// documented options (category, release, source, tag) reject unknown options;
// series and maps families pass them through to the server.
package fred
