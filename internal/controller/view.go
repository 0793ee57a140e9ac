package controller

import (
	"context"
	"time"

	"github.com/coinlens/coinlens/internal/market"
)

// View is the immutable snapshot the presentation layer renders. Assets is
// already filtered and sorted; favorites membership is resolved per row.
type View struct {
	Assets       []market.Asset
	AssetsStatus Status
	AssetsErr    error
	FetchedAt    time.Time

	Chart       *market.ChartSeries
	ChartStatus Status
	ChartErr    error

	Search    string
	SortKey   market.SortKey
	Selected  string
	Range     market.Range
	Style     market.ChartStyle
	Favorites map[string]bool
}

type setSearchMsg struct{ term string }
type setSortMsg struct{ key market.SortKey }
type selectMsg struct{ id string }
type setRangeMsg struct{ r market.Range }
type setStyleMsg struct{ style market.ChartStyle }
type toggleFavoriteMsg struct{ id string }
type refreshMsg struct{}
type viewRequestMsg struct{ reply chan View }

type assetsResultMsg struct {
	epoch  uint64
	assets []market.Asset
	err    error
}

type chartResultMsg struct {
	epoch  uint64
	key    string
	series *market.ChartSeries
	err    error
}

// buildView derives the renderable snapshot. Derivation is pure: filter by
// the search term, then a stable descending sort by the active key.
func (c *Controller) buildView() View {
	derived := market.SortBy(market.Filter(c.assets.value, c.search), c.sortKey)

	favs := make(map[string]bool)
	for _, id := range c.favs.IDs() {
		favs[id] = true
	}

	return View{
		Assets:       derived,
		AssetsStatus: c.assets.status,
		AssetsErr:    c.assets.err,
		FetchedAt:    c.assets.fetchedAt,

		Chart:       c.chart.value,
		ChartStatus: c.chart.status,
		ChartErr:    c.chart.err,

		Search:    c.search,
		SortKey:   c.sortKey,
		Selected:  c.selected,
		Range:     c.rng,
		Style:     c.style,
		Favorites: favs,
	}
}

// View returns the current snapshot, serialized through the event loop.
func (c *Controller) View(ctx context.Context) (View, error) {
	reply := make(chan View, 1)
	select {
	case c.msgs <- viewRequestMsg{reply: reply}:
	case <-ctx.Done():
		return View{}, ctx.Err()
	}
	select {
	case v := <-reply:
		return v, nil
	case <-ctx.Done():
		return View{}, ctx.Err()
	}
}

// SetSearch updates the search term. Derivation happens on the next View.
func (c *Controller) SetSearch(ctx context.Context, term string) {
	c.post(ctx, setSearchMsg{term: term})
}

// SetSortKey updates the active sort key.
func (c *Controller) SetSortKey(ctx context.Context, key market.SortKey) {
	c.post(ctx, setSortMsg{key: key})
}

// Select changes the selected asset; the chart re-fetches when it changes.
func (c *Controller) Select(ctx context.Context, assetID string) {
	c.post(ctx, selectMsg{id: assetID})
}

// SetRange changes the chart window; the chart re-fetches when it changes.
func (c *Controller) SetRange(ctx context.Context, r market.Range) {
	c.post(ctx, setRangeMsg{r: r})
}

// SetChartStyle switches between area and bar rendering.
func (c *Controller) SetChartStyle(ctx context.Context, style market.ChartStyle) {
	c.post(ctx, setStyleMsg{style: style})
}

// ToggleFavorite flips favorite membership for the asset and persists it.
func (c *Controller) ToggleFavorite(ctx context.Context, assetID string) {
	c.post(ctx, toggleFavoriteMsg{id: assetID})
}

// Refresh forces an immediate re-fetch, bypassing the staleness window.
func (c *Controller) Refresh(ctx context.Context) {
	c.post(ctx, refreshMsg{})
}
