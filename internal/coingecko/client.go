package coingecko

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/coinlens/coinlens/internal/market"
)

// DefaultBaseURL is the public CoinGecko v3 endpoint.
const DefaultBaseURL = "https://api.coingecko.com/api/v3"

const requestTimeout = 10 * time.Second

// Client issues read-only calls against a CoinGecko-compatible API.
// It carries no retry or backoff of its own; failed calls surface a single
// transport error kind and retrying is left entirely to the caller.
type Client struct {
	http *resty.Client
	log  *logrus.Entry
}

// Option adjusts client construction.
type Option func(*Client)

// WithTimeout overrides the default 10s transport timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.SetTimeout(d)
		}
	}
}

// New creates a client against the given base URL. An empty baseURL falls
// back to the public CoinGecko endpoint.
func New(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	http := resty.New()
	http.SetBaseURL(baseURL)
	http.SetTimeout(requestTimeout)
	http.SetHeader("Accept", "application/json")

	c := &Client{
		http: http,
		log:  logrus.WithField("component", "coingecko"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ListTopAssets fetches the top markets by capitalization, one page of 250,
// priced in USD with the 24h percentage change included.
func (c *Client) ListTopAssets(ctx context.Context) ([]market.Asset, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"vs_currency":             "usd",
			"order":                   "market_cap_desc",
			"per_page":                "250",
			"page":                    "1",
			"sparkline":               "false",
			"price_change_percentage": "24h",
		}).
		Get("/coins/markets")

	if err != nil {
		return nil, fmt.Errorf("fetch asset list: %w", err)
	}
	if err := c.checkStatus(resp); err != nil {
		return nil, fmt.Errorf("fetch asset list: %w", err)
	}

	var assets []market.Asset
	if err := json.Unmarshal(resp.Body(), &assets); err != nil {
		return nil, fmt.Errorf("parse asset list: %w", err)
	}
	return assets, nil
}

// marketChartResponse mirrors the upstream payload: three arrays of
// [epoch-ms, value] pairs.
type marketChartResponse struct {
	Prices       [][]float64 `json:"prices"`
	MarketCaps   [][]float64 `json:"market_caps"`
	TotalVolumes [][]float64 `json:"total_volumes"`
}

// GetChartSeries fetches the historical price/cap/volume series for one
// asset over the given range. Granularity is server-side: hourly points for
// a 1-day range, daily otherwise.
func (c *Client) GetChartSeries(ctx context.Context, assetID string, r market.Range) (*market.ChartSeries, error) {
	if assetID == "" {
		return nil, fmt.Errorf("asset id is required")
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("id", assetID).
		SetQueryParams(map[string]string{
			"vs_currency": "usd",
			"days":        strconv.Itoa(int(r)),
			"interval":    r.Interval(),
		}).
		Get("/coins/{id}/market_chart")

	if err != nil {
		return nil, fmt.Errorf("fetch chart for %s: %w", assetID, err)
	}
	if err := c.checkStatus(resp); err != nil {
		return nil, fmt.Errorf("fetch chart for %s: %w", assetID, err)
	}

	var raw marketChartResponse
	if err := json.Unmarshal(resp.Body(), &raw); err != nil {
		return nil, fmt.Errorf("parse chart for %s: %w", assetID, err)
	}

	return &market.ChartSeries{
		AssetID:      assetID,
		Range:        r,
		Prices:       toPoints(raw.Prices),
		MarketCaps:   toPoints(raw.MarketCaps),
		TotalVolumes: toPoints(raw.TotalVolumes),
	}, nil
}

// checkStatus folds any non-2xx response into the generic transport error.
// Rate limiting is logged so operators can see it, but the caller observes
// the same error either way.
func (c *Client) checkStatus(resp *resty.Response) error {
	if resp.IsSuccess() {
		return nil
	}
	if resp.StatusCode() == http.StatusTooManyRequests {
		c.log.WithField("status", resp.StatusCode()).
			Warn("rate limited by upstream")
	}
	return fmt.Errorf("upstream status %d: %s", resp.StatusCode(), resp.Status())
}

func toPoints(pairs [][]float64) []market.Point {
	points := make([]market.Point, 0, len(pairs))
	for _, pair := range pairs {
		if len(pair) < 2 {
			continue
		}
		points = append(points, market.Point{
			Time:  time.UnixMilli(int64(pair[0])),
			Value: decimal.NewFromFloat(pair[1]),
		})
	}
	return points
}
