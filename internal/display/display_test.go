package display

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/coinlens/coinlens/internal/controller"
	"github.com/coinlens/coinlens/internal/market"
)

func TestFormatUSD(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"64021.548", "$64,021.55"},
		{"1261043815261", "$1,261,043,815,261.00"},
		{"0.00001234", "$0.000012"},
		{"0", "$0.00"},
		{"-12.5", "$-12.50"},
	}
	for _, tc := range cases {
		v, _ := decimal.NewFromString(tc.in)
		if got := FormatUSD(v); got != tc.want {
			t.Fatalf("FormatUSD(%s) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFormatCompact(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"1261043815261", "$1.26T"},
		{"28103476113", "$28.10B"},
		{"5250000", "$5.25M"},
		{"950", "$950"},
	}
	for _, tc := range cases {
		v, _ := decimal.NewFromString(tc.in)
		if got := FormatCompact(v); got != tc.want {
			t.Fatalf("FormatCompact(%s) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFormatPctSign(t *testing.T) {
	up, _ := decimal.NewFromString("2.013")
	if got := FormatPct(up); got != "+2.01%" {
		t.Fatalf("FormatPct positive = %q", got)
	}
	down, _ := decimal.NewFromString("-1.2")
	if got := FormatPct(down); got != "-1.20%" {
		t.Fatalf("FormatPct negative = %q", got)
	}
}

func tableView() controller.View {
	return controller.View{
		Assets: []market.Asset{
			{
				ID: "bitcoin", Symbol: "btc", Name: "Bitcoin",
				CurrentPrice:      decimal.NewFromInt(64000),
				MarketCap:         decimal.NewFromInt(1_200_000_000_000),
				MarketCapRank:     1,
				TotalVolume:       decimal.NewFromInt(28_000_000_000),
				PriceChangePct24h: decimal.NewFromFloat(-1.2),
			},
		},
		AssetsStatus: controller.StatusReady,
		SortKey:      market.SortByMarketCap,
		FetchedAt:    time.Now(),
		Favorites:    map[string]bool{"bitcoin": true},
	}
}

func TestRenderTableShowsRows(t *testing.T) {
	out := RenderTable(tableView(), 10)
	for _, want := range []string{"BTC", "Bitcoin", "$64,000.00", "$1.20T", "-1.20%"} {
		if !strings.Contains(out, want) {
			t.Fatalf("table output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderTableErrorReplacesRows(t *testing.T) {
	view := tableView()
	view.AssetsStatus = controller.StatusFailed
	view.AssetsErr = errFake("upstream status 500")

	out := RenderTable(view, 10)
	if !strings.Contains(out, "market data unavailable") {
		t.Fatalf("missing error affordance:\n%s", out)
	}
	if strings.Contains(out, "$64,000.00") {
		t.Fatalf("stale rows rendered alongside error:\n%s", out)
	}
}

type errFake string

func (e errFake) Error() string { return string(e) }

func chartView(style market.ChartStyle) controller.View {
	points := make([]market.Point, 0, 24)
	base := time.Now().Add(-24 * time.Hour)
	for i := 0; i < 24; i++ {
		points = append(points, market.Point{
			Time:  base.Add(time.Duration(i) * time.Hour),
			Value: decimal.NewFromInt(int64(64000 + 50*i)),
		})
	}
	return controller.View{
		Selected:    "bitcoin",
		Range:       market.RangeDay,
		Style:       style,
		ChartStatus: controller.StatusReady,
		Chart: &market.ChartSeries{
			AssetID: "bitcoin",
			Range:   market.RangeDay,
			Prices:  points,
		},
	}
}

func TestRenderChartAreaAndBarDiffer(t *testing.T) {
	area := RenderChart(chartView(market.ChartArea))
	bar := RenderChart(chartView(market.ChartBar))

	if area == "" || bar == "" {
		t.Fatal("expected non-empty chart output")
	}
	if area == bar {
		t.Fatal("area and bar styles should render differently")
	}
	if !strings.Contains(area, "bitcoin") {
		t.Fatalf("chart caption missing asset id:\n%s", area)
	}
}

func TestRenderChartWithoutSelection(t *testing.T) {
	out := RenderChart(controller.View{})
	if !strings.Contains(out, "select an asset") {
		t.Fatalf("unexpected output without selection:\n%s", out)
	}
}

func TestRenderChartFailureBlocksOnlyPanel(t *testing.T) {
	view := chartView(market.ChartArea)
	view.ChartStatus = controller.StatusFailed
	view.ChartErr = errFake("upstream status 429")

	out := RenderChart(view)
	if !strings.Contains(out, "chart unavailable") {
		t.Fatalf("missing chart error affordance:\n%s", out)
	}
}
