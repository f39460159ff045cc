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
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/stockparfait/errors"
	"github.com/stockparfait/fetch"
	"github.com/stockparfait/logging"
)

type contextKey int

const (
	clientContextKey contextKey = iota
)

// URL is the default base URL of the FRED data API, and MapsURL of its maps
// sub-API. They may be overwritten in tests before creating a new client.
var (
	URL     = "https://api.stlouisfed.org/fred"
	MapsURL = "https://api.stlouisfed.org/geofred"
)

// DefaultTimeout of a single request.
const DefaultTimeout = 30 * time.Second

// API selects the base URL of a request.
type API int

const (
	DataAPI API = iota
	MapsAPI
)

func (a API) String() string {
	if a == MapsAPI {
		return "maps"
	}
	return "data"
}

// Config of a Client. Empty values are replaced by the package defaults.
type Config struct {
	APIKey  string        `envconfig:"API_KEY"`
	URL     string        `envconfig:"URL"`
	MapsURL string        `envconfig:"MAPS_URL"`
	Timeout time.Duration `envconfig:"TIMEOUT" default:"30s"`
}

// LoadConfig reads FRED_API_KEY, FRED_URL, FRED_MAPS_URL and FRED_TIMEOUT
// from the environment.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return nil, errors.Annotate(err, "failed to load FRED config from env")
	}
	return &cfg, nil
}

// Client for querying the FRED API.
type Client struct {
	baseURL string // the base URL of the data API
	mapsURL string // the base URL of the maps API
	apiKey  string // your very own secret key
	timeout time.Duration
}

// NewClient creates a new client. The API key is resolved by ResolveAPIKey,
// and its errors are returned as is.
func NewClient(cfg *Config) (*Client, error) {
	key, err := ResolveAPIKey(cfg.APIKey)
	if err != nil {
		return nil, err
	}
	c := &Client{
		baseURL: strings.TrimSuffix(cfg.URL, "/"),
		mapsURL: strings.TrimSuffix(cfg.MapsURL, "/"),
		apiKey:  key,
		timeout: cfg.Timeout,
	}
	if c.baseURL == "" {
		c.baseURL = URL
	}
	if c.mapsURL == "" {
		c.mapsURL = MapsURL
	}
	if c.timeout <= 0 {
		c.timeout = DefaultTimeout
	}
	return c, nil
}

// GetClient extracts the Client from the context, if any.
func GetClient(ctx context.Context) *Client {
	c, ok := ctx.Value(clientContextKey).(*Client)
	if !ok {
		return nil
	}
	return c
}

// UseClient injects the client into the context.
func UseClient(ctx context.Context, c *Client) context.Context {
	return context.WithValue(ctx, clientContextKey, c)
}

// clientFrom returns the context Client, or a new one configured from the
// environment.
func clientFrom(ctx context.Context) (*Client, error) {
	if c := GetClient(ctx); c != nil {
		return c, nil
	}
	cfg, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	return NewClient(cfg)
}

func (c *Client) base(api API) string {
	if api == MapsAPI {
		return c.mapsURL
	}
	return c.baseURL
}

// credentialFields are set by the Client on every request and cannot be
// overridden by the caller.
var credentialFields = []string{"api_key", "file_type"}

// redacted query for logging.
func redacted(q url.Values) string {
	r := url.Values{}
	for k, v := range q {
		r[k] = v
	}
	r.Set("api_key", "REDACTED")
	return r.Encode()
}

type errorBody struct {
	ErrorCode    int    `json:"error_code"`
	ErrorMessage string `json:"error_message"`
}

func remoteError(status int, body []byte) *RemoteError {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil || eb.ErrorMessage == "" {
		return &RemoteError{StatusCode: status, Message: http.StatusText(status)}
	}
	return &RemoteError{StatusCode: status, Message: eb.ErrorMessage}
}

// Get issues a single GET request to the path of the selected API with the
// query and the credentials, and decodes the JSON response into result, unless
// it is nil. Transport failures are returned as *TransportError, non-200
// responses as *RemoteError. There are no retries.
func (c *Client) Get(ctx context.Context, api API, path string, query url.Values, result any) error {
	q := url.Values{}
	for k, v := range query {
		q[k] = v
	}
	for _, k := range credentialFields {
		q.Del(k)
	}
	q.Set("api_key", c.apiKey)
	q.Set("file_type", "json")

	uri := c.base(api) + "/" + strings.TrimPrefix(path, "/")
	logging.Debugf(ctx, "FRED: GET %s?%s", uri, redacted(q))

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri+"?"+q.Encode(), nil)
	if err != nil {
		return errors.Annotate(err, "failed to create request for %s", path)
	}
	resp, err := fetch.GetClient(ctx).Do(req)
	if err != nil {
		if ue, ok := err.(*url.Error); ok {
			ue.URL = uri + "?" + redacted(q)
		}
		return &TransportError{Path: path, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Path: path, Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		return remoteError(resp.StatusCode, body)
	}
	if result == nil {
		return nil
	}
	if err := json.Unmarshal(body, result); err != nil {
		return errors.Annotate(err, "failed to decode response of %s", path)
	}
	return nil
}
