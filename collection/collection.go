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
// Package collection aggregates several FRED series into combined tables.
package collection

import (
	"context"
	"time"

	"github.com/stockparfait/errors"
	"github.com/stockparfait/fred/frame"
	"github.com/stockparfait/fred/fred"
	"github.com/stockparfait/fred/message"
	"github.com/stockparfait/logging"
	"github.com/stockparfait/parallel"
	"golang.org/x/time/rate"
)

// Names of the columns set by FRED for every observation.
const (
	DateColumn          = "date"
	ValueColumn         = "value"
	RealtimeStartColumn = "realtime_start"
	RealtimeEndColumn   = "realtime_end"
)

// Config of a Collection.
type Config struct {
	Series       []string       `json:"series"`
	KeepRealtime bool           `json:"keep_realtime"`
	Rename       any            `json:"rename"`              // see NewNamer
	Sleep        float64        `json:"sleep" default:"0.1"` // seconds between requests
	Workers      int            `json:"workers" default:"1"`
	Params       map[string]any `json:"params"` // observation options
}

var _ message.Message = &Config{}

func (c *Config) InitMessage(js any) error {
	if err := message.Init(c, js); err != nil {
		return err
	}
	if c.Sleep < 0 {
		return errors.Reason("sleep=%g must be >= 0", c.Sleep)
	}
	if c.Workers < 1 {
		return errors.Reason("workers=%d must be >= 1", c.Workers)
	}
	if _, err := NewNamer(c.Rename); err != nil {
		return err
	}
	return nil
}

// Series stored in a Collection. Table has the date column and the value
// column named Name, preceded by the realtime columns when they are kept.
type Series struct {
	ID    string
	Name  string
	Info  *fred.SeriesInfo
	Table *frame.Frame
}

// Collection of series, unique by ID and ordered by insertion. It is not safe
// for concurrent use.
type Collection struct {
	config  Config
	namer   Namer
	limiter *rate.Limiter
	ids     []string
	series  map[string]*Series
}

// New creates an empty Collection; cfg.Series is ignored. A nil cfg means the
// default Config.
func New(cfg *Config) (*Collection, error) {
	if cfg == nil {
		cfg = &Config{}
		if err := cfg.InitMessage(map[string]any{}); err != nil {
			return nil, errors.Annotate(err, "failed to create default config")
		}
	}
	namer, err := NewNamer(cfg.Rename)
	if err != nil {
		return nil, err
	}
	limit := rate.Inf
	if cfg.Sleep > 0 {
		limit = rate.Every(time.Duration(cfg.Sleep * float64(time.Second)))
	}
	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}
	c := &Collection{
		config:  *cfg,
		namer:   namer,
		limiter: rate.NewLimiter(limit, 1),
		series:  make(map[string]*Series),
	}
	c.config.Workers = workers
	return c, nil
}

// Load creates a Collection and adds cfg.Series to it.
func Load(ctx context.Context, cfg *Config) (*Collection, error) {
	c, err := New(cfg)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return c, nil
	}
	if err := c.Add(ctx, cfg.Series...); err != nil {
		return c, err
	}
	return c, nil
}

func (c *Collection) wait(ctx context.Context) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return errors.Annotate(err, "interrupted while throttling requests")
	}
	return nil
}

func observationColumns(keepRealtime bool) ([]string, []frame.Kind) {
	if keepRealtime {
		return []string{RealtimeStartColumn, RealtimeEndColumn, DateColumn, ValueColumn},
			[]frame.Kind{frame.Date, frame.Date, frame.Date, frame.Number}
	}
	return []string{DateColumn, ValueColumn}, []frame.Kind{frame.Date, frame.Number}
}

// fetch requests the metadata and the observations of a series.
func (c *Collection) fetch(ctx context.Context, id string) (*Series, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}
	logging.Infof(ctx, "requesting series %s...", id)
	info, err := fred.GetSeriesInfo(ctx, id, nil)
	if err != nil {
		return nil, err
	}
	if err := c.wait(ctx); err != nil {
		return nil, err
	}
	res, err := fred.SeriesObservations(ctx, id, fred.Options(c.config.Params), fred.FormatTable)
	if err != nil {
		return nil, err
	}
	columns, kinds := observationColumns(c.config.KeepRealtime)
	table := res.Table
	if table.Len() == 0 {
		if table, err = frame.New(columns, kinds); err != nil {
			return nil, errors.Annotate(err, "failed to create an empty table")
		}
	}
	if table, err = table.Select(columns...); err != nil {
		return nil, errors.Annotate(err, "unexpected observations of %s", id)
	}
	name := nameOf(c.namer, info)
	if err := table.Rename(map[string]string{ValueColumn: name}); err != nil {
		return nil, errors.Annotate(err, "cannot name series %s as %q", id, name)
	}
	return &Series{ID: id, Name: name, Info: info, Table: table}, nil
}

type fetchResult struct {
	index  int
	series *Series
	err    error
}

type fetchJobsIter struct {
	ctx context.Context
	c   *Collection
	ids []string
	i   int
}

var _ parallel.JobsIter = &fetchJobsIter{}

func (it *fetchJobsIter) Next() (parallel.Job, error) {
	if it.i >= len(it.ids) {
		return nil, parallel.Done
	}
	i := it.i
	it.i++
	job := func() interface{} {
		s, err := it.c.fetch(it.ctx, it.ids[i])
		return fetchResult{index: i, series: s, err: err}
	}
	return job, nil
}

// Add fetches the series and appends them to the collection in the given
// order. IDs already in the collection, or repeated, are skipped. Requests are
// spaced by the configured sleep, and run by the configured number of
// workers. On error, the series preceding the failed one are still added.
func (c *Collection) Add(ctx context.Context, ids ...string) error {
	var todo []string
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		_, have := c.series[id]
		_, repeated := seen[id]
		if have || repeated {
			logging.Warningf(ctx, "already have series %s, skipping", id)
			continue
		}
		seen[id] = struct{}{}
		todo = append(todo, id)
	}
	if len(todo) == 0 {
		return nil
	}
	results := make([]fetchResult, len(todo))
	m := parallel.Map(ctx, c.config.Workers, &fetchJobsIter{ctx: ctx, c: c, ids: todo})
	for {
		v, err := m.Next()
		if err != nil {
			if err == parallel.Done {
				break
			}
			return errors.Annotate(err, "failed to fetch series")
		}
		r, ok := v.(fetchResult)
		if !ok {
			return errors.Reason("incorrect result type: %T", v)
		}
		results[r.index] = r
	}
	for _, r := range results {
		if r.err != nil {
			return r.err
		}
		c.ids = append(c.ids, r.series.ID)
		c.series[r.series.ID] = r.series
	}
	logging.Infof(ctx, "added %d series", len(todo))
	return nil
}

// Remove deletes the series from the collection. If any of the IDs is not in
// the collection, nothing is removed.
func (c *Collection) Remove(ids ...string) error {
	var missing []string
	drop := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := c.series[id]; !ok {
			missing = append(missing, id)
		}
		drop[id] = struct{}{}
	}
	if len(missing) > 0 {
		return &NotFoundError{IDs: missing}
	}
	kept := c.ids[:0]
	for _, id := range c.ids {
		if _, ok := drop[id]; ok {
			delete(c.series, id)
			continue
		}
		kept = append(kept, id)
	}
	c.ids = kept
	return nil
}

// Get the series by ID, or nil.
func (c *Collection) Get(id string) *Series {
	return c.series[id]
}

// Lookup is Get which fails with *NotFoundError.
func (c *Collection) Lookup(id string) (*Series, error) {
	s, ok := c.series[id]
	if !ok {
		return nil, &NotFoundError{IDs: []string{id}}
	}
	return s, nil
}

// IDs of the series in insertion order.
func (c *Collection) IDs() []string {
	return append([]string(nil), c.ids...)
}

func (c *Collection) Len() int { return len(c.ids) }

// Series in insertion order.
func (c *Collection) Series() []*Series {
	res := make([]*Series, len(c.ids))
	for i, id := range c.ids {
		res[i] = c.series[id]
	}
	return res
}

// Rename renames the value column of every series with the namer, which is
// then used for the series added later. On error, nothing is renamed.
func (c *Collection) Rename(n Namer) error {
	if err := checkNamer(n); err != nil {
		return err
	}
	tables := make([]*frame.Frame, len(c.ids))
	names := make([]string, len(c.ids))
	for i, s := range c.Series() {
		names[i] = nameOf(n, s.Info)
		tables[i] = s.Table.Copy()
		if err := tables[i].Rename(map[string]string{s.Name: names[i]}); err != nil {
			return errors.Annotate(err, "cannot name series %s as %q", s.ID, names[i])
		}
	}
	for i, s := range c.Series() {
		s.Name = names[i]
		s.Table = tables[i]
	}
	c.namer = n
	return nil
}
