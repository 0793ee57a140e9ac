package display

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/coinlens/coinlens/internal/controller"
	"github.com/coinlens/coinlens/internal/market"
)

const (
	chartWidth  = 64
	chartHeight = 12
)

var chartFrame = lipgloss.NewStyle().
	BorderStyle(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color("#F59E0B")).
	Padding(0, 1)

// RenderChart renders the price series panel for the current selection.
// A failed chart fetch blocks only this panel, never the table.
func RenderChart(view controller.View) string {
	if view.Selected == "" {
		return dimStyle.Render("select an asset to chart its history") + "\n"
	}

	switch view.ChartStatus {
	case controller.StatusLoading:
		return dimStyle.Render(fmt.Sprintf("loading %s chart (%s)...", view.Selected, view.Range)) + "\n"
	case controller.StatusFailed:
		return errStyle.Render(fmt.Sprintf("chart unavailable: %v", view.ChartErr)) + "\n"
	}

	if view.Chart == nil || len(view.Chart.Prices) == 0 {
		return dimStyle.Render("no chart data") + "\n"
	}

	series := view.Chart
	body := plotSeries(series.Prices, view.Style)

	first := series.Prices[0].Value
	last := series.Prices[len(series.Prices)-1].Value
	trend := upStyle
	if last.LessThan(first) {
		trend = downStyle
	}

	caption := fmt.Sprintf("%s — %s — last %s",
		series.AssetID, view.Range, FormatUSD(last))

	return chartFrame.Render(trend.Render(body)) + "\n" +
		titleStyle.Render(caption) + "\n"
}

// plotSeries rasterizes points onto a fixed character grid. Area style
// fills everything under the line; bar style draws separated columns.
func plotSeries(points []market.Point, style market.ChartStyle) string {
	width := chartWidth
	if style == market.ChartBar {
		// Leave a gap between bars.
		width = chartWidth / 2
	}

	buckets := downsample(points, width)
	low, high := bounds(buckets)
	span := high.Sub(low)

	levels := make([]int, len(buckets))
	for i, v := range buckets {
		if span.IsZero() {
			levels[i] = chartHeight / 2
			continue
		}
		scaled := v.Sub(low).Div(span).Mul(decimal.NewFromInt(chartHeight - 1))
		levels[i] = int(scaled.Round(0).IntPart()) + 1
	}

	var b strings.Builder
	for row := chartHeight; row >= 1; row-- {
		switch row {
		case chartHeight:
			b.WriteString(padLeft(FormatUSD(high), 12))
		case 1:
			b.WriteString(padLeft(FormatUSD(low), 12))
		default:
			b.WriteString(strings.Repeat(" ", 12))
		}
		b.WriteString(" ")

		for _, level := range levels {
			filled := level >= row
			switch {
			case !filled:
				b.WriteString(" ")
				if style == market.ChartBar {
					b.WriteString(" ")
				}
			case style == market.ChartBar:
				b.WriteString("█ ")
			case level == row:
				// Line edge sits on top of the filled area.
				b.WriteString("█")
			default:
				b.WriteString("▓")
			}
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// downsample averages points into at most width buckets, preserving order.
func downsample(points []market.Point, width int) []decimal.Decimal {
	if len(points) <= width {
		values := make([]decimal.Decimal, len(points))
		for i, p := range points {
			values[i] = p.Value
		}
		return values
	}

	buckets := make([]decimal.Decimal, width)
	for i := 0; i < width; i++ {
		start := i * len(points) / width
		end := (i + 1) * len(points) / width
		if end <= start {
			end = start + 1
		}
		sum := decimal.Zero
		for _, p := range points[start:end] {
			sum = sum.Add(p.Value)
		}
		buckets[i] = sum.Div(decimal.NewFromInt(int64(end - start)))
	}
	return buckets
}

func bounds(values []decimal.Decimal) (low, high decimal.Decimal) {
	low, high = values[0], values[0]
	for _, v := range values[1:] {
		if v.LessThan(low) {
			low = v
		}
		if v.GreaterThan(high) {
			high = v
		}
	}
	return low, high
}
