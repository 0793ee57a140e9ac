// Package controller keeps the dashboard's view state synchronized with the
// remote market data. All mutable state is owned by a single event loop:
// user commands and fetch results arrive as messages, fetches themselves run
// in short-lived goroutines, and a per-key epoch guard discards any result
// that was superseded while in flight.
package controller

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/coinlens/coinlens/internal/cache"
	"github.com/coinlens/coinlens/internal/favorites"
	"github.com/coinlens/coinlens/internal/market"
)

// Client is the remote data dependency. It carries no retry of its own;
// the controller owns retrying.
type Client interface {
	ListTopAssets(ctx context.Context) ([]market.Asset, error)
	GetChartSeries(ctx context.Context, assetID string, r market.Range) (*market.ChartSeries, error)
}

// Status tracks one fetch key through its lifecycle.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusReady   Status = "ready"
	StatusFailed  Status = "failed"
)

// Options tune the refresh loop. Zero values fall back to production
// defaults.
type Options struct {
	PollInterval    time.Duration
	StalenessWindow time.Duration
	MaxRetries      int
	RetryDelay      time.Duration
}

func (o *Options) fillDefaults() {
	if o.PollInterval <= 0 {
		o.PollInterval = 60 * time.Second
	}
	if o.StalenessWindow <= 0 {
		o.StalenessWindow = 30 * time.Second
	}
	if o.MaxRetries < 1 {
		o.MaxRetries = 3
	}
	if o.RetryDelay < 0 {
		o.RetryDelay = 0
	}
}

const assetListKey = "asset-list"

type fetchState[V any] struct {
	status    Status
	value     V
	err       error
	fetchedAt time.Time
}

// Controller is the view state owner. Construct with New, start with Run,
// interact through the command methods and View.
type Controller struct {
	client Client
	favs   *favorites.Service
	opts   Options
	log    *logrus.Entry

	assetCache *cache.TTL[[]market.Asset]
	chartCache *cache.TTL[*market.ChartSeries]

	msgs chan any

	// Everything below is owned by the Run loop.
	search   string
	sortKey  market.SortKey
	selected string
	rng      market.Range
	style    market.ChartStyle

	assets     fetchState[[]market.Asset]
	chart      fetchState[*market.ChartSeries]
	chartKey   string
	assetEpoch uint64
	chartEpoch uint64
}

// New wires a controller over the remote client and the injected favorites
// capability.
func New(client Client, favs *favorites.Service, opts Options) *Controller {
	opts.fillDefaults()
	return &Controller{
		client:     client,
		favs:       favs,
		opts:       opts,
		log:        logrus.WithField("component", "controller"),
		assetCache: cache.New[[]market.Asset](opts.StalenessWindow),
		chartCache: cache.New[*market.ChartSeries](opts.StalenessWindow),
		msgs:       make(chan any),
		sortKey:    market.SortByMarketCap,
		rng:        market.RangeWeek,
		style:      market.ChartArea,
		assets:     fetchState[[]market.Asset]{status: StatusIdle},
		chart:      fetchState[*market.ChartSeries]{status: StatusIdle},
	}
}

// Run processes messages until ctx is cancelled. It issues the initial
// asset-list fetch immediately and then polls on the configured interval.
func (c *Controller) Run(ctx context.Context) {
	ticker := time.NewTicker(c.opts.PollInterval)
	defer ticker.Stop()

	c.refreshAssets(ctx, false)

	for {
		select {
		case msg := <-c.msgs:
			c.handle(ctx, msg)
		case <-ticker.C:
			c.refreshAssets(ctx, false)
		case <-ctx.Done():
			return
		}
	}
}

func (c *Controller) handle(ctx context.Context, msg any) {
	switch m := msg.(type) {
	case setSearchMsg:
		c.search = m.term
	case setSortMsg:
		c.sortKey = m.key
	case selectMsg:
		if c.selected == m.id {
			return
		}
		c.selected = m.id
		c.refreshChart(ctx, false)
	case setRangeMsg:
		if c.rng == m.r {
			return
		}
		c.rng = m.r
		c.refreshChart(ctx, false)
	case setStyleMsg:
		c.style = m.style
	case toggleFavoriteMsg:
		if err := c.favs.Toggle(m.id); err != nil {
			c.log.WithError(err).WithField("asset", m.id).
				Error("favorite toggle not persisted")
		}
	case refreshMsg:
		c.refreshAssets(ctx, true)
		c.refreshChart(ctx, true)
	case assetsResultMsg:
		c.applyAssetsResult(m)
	case chartResultMsg:
		c.applyChartResult(m)
	case viewRequestMsg:
		m.reply <- c.buildView()
	}
}

// refreshAssets moves the asset list key from idle to loading. A scheduled
// refresh inside the staleness window serves the cached snapshot instead of
// fetching; a manual refresh always fetches.
func (c *Controller) refreshAssets(ctx context.Context, manual bool) {
	if !manual {
		// One in-flight request per key; a tick during a fetch is a no-op.
		if c.assets.status == StatusLoading {
			return
		}
		if snapshot, ok := c.assetCache.Get(assetListKey); ok {
			storedAt, _ := c.assetCache.StoredAt(assetListKey)
			c.assets = fetchState[[]market.Asset]{
				status:    StatusReady,
				value:     snapshot,
				fetchedAt: storedAt,
			}
			return
		}
	}

	c.assetEpoch++
	epoch := c.assetEpoch
	c.assets.status = StatusLoading
	c.assets.err = nil

	go func() {
		var assets []market.Asset
		err := withRetry(c.opts.MaxRetries, c.opts.RetryDelay, func() error {
			var fetchErr error
			assets, fetchErr = c.client.ListTopAssets(ctx)
			return fetchErr
		})
		c.post(ctx, assetsResultMsg{epoch: epoch, assets: assets, err: err})
	}()
}

// refreshChart re-fetches the series for the current (selection, range)
// pair. Without a selection there is nothing to fetch.
func (c *Controller) refreshChart(ctx context.Context, manual bool) {
	if c.selected == "" {
		c.chart = fetchState[*market.ChartSeries]{status: StatusIdle}
		c.chartKey = ""
		return
	}

	key := market.SeriesKey(c.selected, c.rng)
	if !manual && c.chart.status == StatusLoading && c.chartKey == key {
		return
	}
	c.chartKey = key

	if !manual {
		if series, ok := c.chartCache.Get(key); ok {
			storedAt, _ := c.chartCache.StoredAt(key)
			c.chart = fetchState[*market.ChartSeries]{
				status:    StatusReady,
				value:     series,
				fetchedAt: storedAt,
			}
			return
		}
	}

	c.chartEpoch++
	epoch := c.chartEpoch
	c.chart.status = StatusLoading
	c.chart.err = nil

	assetID, rng := c.selected, c.rng
	go func() {
		var series *market.ChartSeries
		err := withRetry(c.opts.MaxRetries, c.opts.RetryDelay, func() error {
			var fetchErr error
			series, fetchErr = c.client.GetChartSeries(ctx, assetID, rng)
			return fetchErr
		})
		c.post(ctx, chartResultMsg{epoch: epoch, key: key, series: series, err: err})
	}()
}

func (c *Controller) applyAssetsResult(m assetsResultMsg) {
	if m.epoch != c.assetEpoch {
		c.log.WithField("epoch", m.epoch).Debug("dropping superseded asset list result")
		return
	}
	now := time.Now()
	if m.err != nil {
		c.assets.status = StatusFailed
		c.assets.err = m.err
		c.log.WithError(m.err).Error("asset list refresh failed")
		return
	}
	c.assets = fetchState[[]market.Asset]{
		status:    StatusReady,
		value:     m.assets,
		fetchedAt: now,
	}
	c.assetCache.Set(assetListKey, m.assets)
}

func (c *Controller) applyChartResult(m chartResultMsg) {
	if m.epoch != c.chartEpoch {
		c.log.WithField("key", m.key).Debug("dropping superseded chart result")
		return
	}
	now := time.Now()
	if m.err != nil {
		c.chart.status = StatusFailed
		c.chart.err = m.err
		c.log.WithError(m.err).WithField("key", m.key).Error("chart refresh failed")
		return
	}
	c.chart = fetchState[*market.ChartSeries]{
		status:    StatusReady,
		value:     m.series,
		fetchedAt: now,
	}
	c.chartCache.Set(m.key, m.series)
}

func (c *Controller) post(ctx context.Context, msg any) {
	select {
	case c.msgs <- msg:
	case <-ctx.Done():
	}
}

// withRetry runs fn up to attempts times with exponentially growing delay
// between tries, returning nil on the first success.
func withRetry(attempts int, baseDelay time.Duration, fn func() error) error {
	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 && baseDelay > 0 {
			time.Sleep(baseDelay << (attempt - 1))
		}
		if err := fn(); err != nil {
			lastErr = err
			continue
		}
		return nil
	}
	return lastErr
}
