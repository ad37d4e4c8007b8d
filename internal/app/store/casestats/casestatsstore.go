// internal/app/store/casestats/casestatsstore.go
package casestatsstore

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dalemusser/pantaucorona/internal/domain/models"
	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus"
)

// DefaultBaseURL is the public statistics API the dashboard reads from.
const DefaultBaseURL = "https://covid19.mathdro.id/api"

// maxBodyBytes bounds how much of a response body is read.
const maxBodyBytes = 1 << 20

// Fetcher is what the dashboard views need from the data source.
type Fetcher interface {
	Summary(ctx context.Context, scope models.Scope) (models.SummaryResult, error)
}

// Options configures a Client. Zero values fall back to defaults.
type Options struct {
	BaseURL    string
	HTTPClient *http.Client
	// Timeout applies per request; 0 means no timeout.
	Timeout time.Duration
	// Registerer receives the fetch counter; nil leaves it unregistered.
	Registerer prometheus.Registerer
}

// Client reads case counts from the statistics API.
type Client struct {
	base    *url.URL
	http    *http.Client
	timeout time.Duration
	fetches *prometheus.CounterVec
}

// New builds a Client. It fails only on an unparseable base URL.
func New(opts Options) (*Client, error) {
	raw := strings.TrimSpace(opts.BaseURL)
	if raw == "" {
		raw = DefaultBaseURL
	}
	base, err := url.Parse(strings.TrimRight(raw, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("base url %q: scheme must be http or https", raw)
	}

	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{}
	}

	fetches := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "pantaucorona",
		Subsystem: "casestats",
		Name:      "fetch_total",
		Help:      "Requests made to the case statistics API, by scope kind and result.",
	}, []string{"scope", "result"})
	if opts.Registerer != nil {
		if err := opts.Registerer.Register(fetches); err != nil {
			return nil, fmt.Errorf("register metrics: %w", err)
		}
	}

	return &Client{
		base:    base,
		http:    hc,
		timeout: opts.Timeout,
		fetches: fetches,
	}, nil
}

// BaseURL returns the API root this client talks to.
func (c *Client) BaseURL() string { return c.base.String() }

// URLFor returns the endpoint for scope: the API root for global figures,
// {base}/countries/{name} for a country.
func (c *Client) URLFor(scope models.Scope) string {
	if scope.Global {
		return c.base.String() + "/"
	}
	return c.base.String() + "/countries/" + url.PathEscape(scope.Country)
}

// Summary issues a single GET for scope and decodes the body.
//
// Metrics the source omits are left nil; callers that require all three
// use SummaryResult.RequireMetrics.
func (c *Client) Summary(ctx context.Context, scope models.Scope) (models.SummaryResult, error) {
	endpoint := c.URLFor(scope)

	body, err := c.get(ctx, endpoint)
	if err != nil {
		c.count(scope, "network_error")
		return models.SummaryResult{}, err
	}

	var out models.SummaryResult
	if err := json.Unmarshal(body, &out); err != nil {
		c.count(scope, "parse_error")
		return models.SummaryResult{}, &ParseError{Source: endpoint, Err: err}
	}

	c.count(scope, "ok")
	return out, nil
}

// Ping checks that the API root answers with a 2xx status.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.get(ctx, c.base.String()+"/")
	return err
}

func (c *Client) get(ctx context.Context, endpoint string) ([]byte, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &NetworkError{URL: endpoint, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &NetworkError{URL: endpoint, Err: err}
	}
	defer resp.Body.Close() // nolint: errcheck

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return nil, &NetworkError{URL: endpoint, Status: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &NetworkError{URL: endpoint, Err: err}
	}
	return body, nil
}

func (c *Client) count(scope models.Scope, result string) {
	kind := "country"
	if scope.Global {
		kind = "global"
	}
	c.fetches.WithLabelValues(kind, result).Inc()
}
