package albion

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"
)

const userAgent = "albion-flipper/1.0 (github.com)"

var (
	// ErrSameLocation rejects a listing fetch whose origin and destination are equal.
	ErrSameLocation = errors.New("origin and destination locations must differ")
	// ErrMissingLocation rejects a listing fetch without an origin or destination.
	ErrMissingLocation = errors.New("origin and destination locations are required")
)

// HTTPError is a non-2xx upstream response.
type HTTPError struct {
	Status int
	Body   string
}

func (e *HTTPError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("albion API %d", e.Status)
	}
	return fmt.Sprintf("albion API %d: %s", e.Status, e.Body)
}

// Options configures a Client. Zero values fall back to the public endpoints.
type Options struct {
	MarketAPI  string
	DataAPI    string
	ServerID   string
	RatePerSec float64       // <= 0 disables limiting
	Timeout    time.Duration // default 30s
	HistoryTTL time.Duration // default 5m
}

// Client talks to the transport listing API and the public price data API.
type Client struct {
	http      *resty.Client
	limiter   *rate.Limiter
	marketAPI string
	dataAPI   string
	serverID  string

	history *cache.Cache // itemID|location -> []engine.HistorySeries
	group   singleflight.Group
}

// NewClient creates a rate-limited client.
func NewClient(opts Options) *Client {
	if opts.MarketAPI == "" {
		opts.MarketAPI = "https://albion-profit-calculator.com/api"
	}
	if opts.DataAPI == "" {
		opts.DataAPI = "https://europe.albion-online-data.com/api/v2"
	}
	if opts.ServerID == "" {
		opts.ServerID = "aod_europe"
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.HistoryTTL <= 0 {
		opts.HistoryTTL = 5 * time.Minute
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if opts.RatePerSec > 0 {
		burst := int(opts.RatePerSec)
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(opts.RatePerSec), burst)
	}

	return &Client{
		http: resty.New().
			SetTimeout(opts.Timeout).
			SetHeader("User-Agent", userAgent).
			SetHeader("Accept", "application/json"),
		limiter:   limiter,
		marketAPI: opts.MarketAPI,
		dataAPI:   opts.DataAPI,
		serverID:  opts.ServerID,
		history:   cache.New(opts.HistoryTTL, 2*opts.HistoryTTL),
	}
}

// ServerID returns the game server the listing queries target.
func (c *Client) ServerID() string {
	return c.serverID
}

// getJSON waits for the limiter, fetches url with query and decodes the body into dst.
func (c *Client) getJSON(ctx context.Context, url string, query map[string]string, dst any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(query).
		Get(url)
	if err != nil {
		return fmt.Errorf("GET %s: %w", url, err)
	}
	if !resp.IsSuccess() {
		return &HTTPError{Status: resp.StatusCode(), Body: truncate(string(resp.Body()), 200)}
	}
	if err := json.Unmarshal(resp.Body(), dst); err != nil {
		return fmt.Errorf("decode %s: %w", url, err)
	}
	return nil
}

// HealthCheck reports whether the price data API answers.
func (c *Client) HealthCheck(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("locations", "Caerleon").
		Get(c.dataAPI + "/stats/prices/T4_BAG")
	if err != nil {
		return false
	}
	return resp.IsSuccess()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
