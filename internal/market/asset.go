package market

import (
	"github.com/shopspring/decimal"
)

// Asset is a single tracked cryptocurrency and its market snapshot.
// Snapshots are immutable; a refresh replaces the whole list rather than
// merging fields.
type Asset struct {
	ID                string          `json:"id"`
	Symbol            string          `json:"symbol"`
	Name              string          `json:"name"`
	Image             string          `json:"image"`
	CurrentPrice      decimal.Decimal `json:"current_price"`
	MarketCap         decimal.Decimal `json:"market_cap"`
	MarketCapRank     int             `json:"market_cap_rank"`
	PriceChangePct24h decimal.Decimal `json:"price_change_percentage_24h"`
	TotalVolume       decimal.Decimal `json:"total_volume"`
	High24h           decimal.Decimal `json:"high_24h"`
	Low24h            decimal.Decimal `json:"low_24h"`
}

// SortKey selects which numeric field orders the asset table.
type SortKey string

const (
	SortByMarketCap SortKey = "market-cap"
	SortByPrice     SortKey = "price"
	SortByVolume    SortKey = "volume"
	SortByChange24h SortKey = "24h-change"
)

// SortKeys lists the supported keys in display order.
func SortKeys() []SortKey {
	return []SortKey{SortByMarketCap, SortByPrice, SortByVolume, SortByChange24h}
}

// ParseSortKey maps a user-supplied string to a SortKey.
func ParseSortKey(s string) (SortKey, bool) {
	switch SortKey(s) {
	case SortByMarketCap, SortByPrice, SortByVolume, SortByChange24h:
		return SortKey(s), true
	}
	return "", false
}

func (k SortKey) DisplayName() string {
	switch k {
	case SortByMarketCap:
		return "Market Cap"
	case SortByPrice:
		return "Price"
	case SortByVolume:
		return "Volume"
	case SortByChange24h:
		return "24h Change"
	default:
		return string(k)
	}
}
