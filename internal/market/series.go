package market

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Point is one (timestamp, value) sample in a time series.
type Point struct {
	Time  time.Time       `json:"time"`
	Value decimal.Decimal `json:"value"`
}

// ChartSeries holds the three parallel series returned for one asset over a
// selected range. Replaced wholesale per fetch, keyed by (asset id, range).
type ChartSeries struct {
	AssetID      string  `json:"asset_id"`
	Range        Range   `json:"range"`
	Prices       []Point `json:"prices"`
	MarketCaps   []Point `json:"market_caps"`
	TotalVolumes []Point `json:"total_volumes"`
}

// Key identifies the series within a cache or fetch-dedup map.
func (s *ChartSeries) Key() string {
	return SeriesKey(s.AssetID, s.Range)
}

// SeriesKey builds the cache key for an (asset id, range) pair.
func SeriesKey(assetID string, r Range) string {
	return fmt.Sprintf("%s-%dd", assetID, int(r))
}

// Range is the historical window requested for a chart, in days.
type Range int

const (
	RangeDay     Range = 1
	RangeWeek    Range = 7
	RangeMonth   Range = 30
	RangeQuarter Range = 90
)

// Ranges lists the supported windows in ascending order.
func Ranges() []Range {
	return []Range{RangeDay, RangeWeek, RangeMonth, RangeQuarter}
}

// ParseRange maps a day count to a supported Range.
func ParseRange(days int) (Range, bool) {
	switch Range(days) {
	case RangeDay, RangeWeek, RangeMonth, RangeQuarter:
		return Range(days), true
	}
	return 0, false
}

// Interval returns the server-side sampling granularity for the range:
// hourly points for a single day, daily points otherwise.
func (r Range) Interval() string {
	if r == RangeDay {
		return "hourly"
	}
	return "daily"
}

func (r Range) String() string {
	if r == RangeDay {
		return "1 day"
	}
	return fmt.Sprintf("%d days", int(r))
}

// ChartStyle selects how the chart panel draws the price series.
type ChartStyle string

const (
	ChartArea ChartStyle = "area"
	ChartBar  ChartStyle = "bar"
)

// ParseChartStyle maps a user-supplied string to a ChartStyle.
func ParseChartStyle(s string) (ChartStyle, bool) {
	switch ChartStyle(s) {
	case ChartArea, ChartBar:
		return ChartStyle(s), true
	}
	return "", false
}
