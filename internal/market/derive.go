package market

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// Filter returns the assets whose name or symbol contains term,
// case-insensitively. An empty term matches everything.
func Filter(assets []Asset, term string) []Asset {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return assets
	}

	matched := make([]Asset, 0, len(assets))
	for _, a := range assets {
		if strings.Contains(strings.ToLower(a.Name), term) ||
			strings.Contains(strings.ToLower(a.Symbol), term) {
			matched = append(matched, a)
		}
	}
	return matched
}

// SortBy returns a copy of assets ordered descending by the given key.
// The sort is stable: equal values keep their relative input order.
func SortBy(assets []Asset, key SortKey) []Asset {
	sorted := make([]Asset, len(assets))
	copy(sorted, assets)

	sort.SliceStable(sorted, func(i, j int) bool {
		return sortValue(sorted[i], key).GreaterThan(sortValue(sorted[j], key))
	})
	return sorted
}

func sortValue(a Asset, key SortKey) decimal.Decimal {
	switch key {
	case SortByPrice:
		return a.CurrentPrice
	case SortByVolume:
		return a.TotalVolume
	case SortByChange24h:
		return a.PriceChangePct24h
	default:
		return a.MarketCap
	}
}
