package market

import (
	"testing"

	"github.com/shopspring/decimal"
)

func asset(id, symbol, name string, cap, price, volume, change int64) Asset {
	return Asset{
		ID:                id,
		Symbol:            symbol,
		Name:              name,
		MarketCap:         decimal.NewFromInt(cap),
		CurrentPrice:      decimal.NewFromInt(price),
		TotalVolume:       decimal.NewFromInt(volume),
		PriceChangePct24h: decimal.NewFromInt(change),
	}
}

func ids(assets []Asset) []string {
	out := make([]string, len(assets))
	for i, a := range assets {
		out[i] = a.ID
	}
	return out
}

func TestFilterMatchesNameAndSymbol(t *testing.T) {
	assets := []Asset{
		asset("btc", "btc", "Bitcoin", 800, 0, 0, 0),
		asset("eth", "eth", "Ethereum", 400, 0, 0, 0),
		asset("bch", "bch", "Bitcoin Cash", 100, 0, 0, 0),
		asset("doge", "doge", "Dogecoin", 50, 0, 0, 0),
	}

	cases := []struct {
		term string
		want []string
	}{
		{"", []string{"btc", "eth", "bch", "doge"}},
		{"bitcoin", []string{"btc", "bch"}},
		{"BITCOIN", []string{"btc", "bch"}},
		{"eth", []string{"eth"}},
		{"coin", []string{"btc", "bch", "doge"}},
		{"xrp", []string{}},
		{"  doge  ", []string{"doge"}},
	}

	for _, tc := range cases {
		got := ids(Filter(assets, tc.term))
		if len(got) != len(tc.want) {
			t.Fatalf("Filter(%q) = %v, want %v", tc.term, got, tc.want)
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Fatalf("Filter(%q) = %v, want %v", tc.term, got, tc.want)
			}
		}
	}
}

func TestSortByMarketCapDescending(t *testing.T) {
	assets := []Asset{
		asset("btc", "btc", "Bitcoin", 800, 0, 0, 0),
		asset("eth", "eth", "Ethereum", 400, 0, 0, 0),
		asset("ada", "ada", "Cardano", 1000, 0, 0, 0),
	}

	got := ids(SortBy(assets, SortByMarketCap))
	want := []string{"ada", "btc", "eth"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("SortBy(market-cap) = %v, want %v", got, want)
		}
	}
}

func TestSortByEachKeyIsNonIncreasing(t *testing.T) {
	assets := []Asset{
		asset("a", "a", "A", 5, 30, 100, -2),
		asset("b", "b", "B", 50, 3, 700, 8),
		asset("c", "c", "C", 20, 90, 50, 1),
		asset("d", "d", "D", 5, 30, 700, -9),
	}

	for _, key := range SortKeys() {
		sorted := SortBy(assets, key)
		for i := 1; i < len(sorted); i++ {
			prev := sortValue(sorted[i-1], key)
			cur := sortValue(sorted[i], key)
			if cur.GreaterThan(prev) {
				t.Fatalf("SortBy(%s) not non-increasing at %d: %s < %s",
					key, i, prev, cur)
			}
		}
	}
}

func TestSortIsStableForEqualValues(t *testing.T) {
	assets := []Asset{
		asset("first", "f", "First", 100, 0, 0, 0),
		asset("second", "s", "Second", 100, 0, 0, 0),
		asset("third", "t", "Third", 100, 0, 0, 0),
	}

	got := ids(SortBy(assets, SortByMarketCap))
	want := []string{"first", "second", "third"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("stable sort broken: got %v, want %v", got, want)
		}
	}
}

func TestSortDoesNotMutateInput(t *testing.T) {
	assets := []Asset{
		asset("low", "l", "Low", 1, 0, 0, 0),
		asset("high", "h", "High", 2, 0, 0, 0),
	}

	_ = SortBy(assets, SortByMarketCap)
	if assets[0].ID != "low" {
		t.Fatalf("SortBy mutated its input: %v", ids(assets))
	}
}

func TestRangeInterval(t *testing.T) {
	if got := RangeDay.Interval(); got != "hourly" {
		t.Fatalf("RangeDay.Interval() = %q, want hourly", got)
	}
	for _, r := range []Range{RangeWeek, RangeMonth, RangeQuarter} {
		if got := r.Interval(); got != "daily" {
			t.Fatalf("%v.Interval() = %q, want daily", r, got)
		}
	}
}
