package display

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/coinlens/coinlens/internal/controller"
	"github.com/coinlens/coinlens/internal/market"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7C3AED")).
			Padding(0, 1)

	tableStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#3B82F6")).
			Padding(0, 1)

	headerRowStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#3B82F6"))

	upStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#10B981"))

	downStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EF4444"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7280"))

	errStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EF4444")).
			Bold(true)

	favStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F59E0B"))
)

// RenderTable renders the asset table for the given view. A failed asset
// fetch replaces the table with the error affordance; nothing stale is shown
// without the error being visible.
func RenderTable(view controller.View, maxRows int) string {
	var b strings.Builder

	title := fmt.Sprintf("coinlens — sorted by %s", view.SortKey.DisplayName())
	if view.Search != "" {
		title += fmt.Sprintf(" — search %q", view.Search)
	}
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")

	switch view.AssetsStatus {
	case controller.StatusLoading:
		b.WriteString(dimStyle.Render("loading markets..."))
		b.WriteString("\n")
	case controller.StatusFailed:
		b.WriteString(errStyle.Render(fmt.Sprintf("market data unavailable: %v", view.AssetsErr)))
		b.WriteString("\n")
		b.WriteString(dimStyle.Render("press refresh to retry"))
		b.WriteString("\n")
		return b.String()
	}

	if len(view.Assets) == 0 {
		if view.AssetsStatus == controller.StatusReady {
			b.WriteString(dimStyle.Render("no assets match"))
			b.WriteString("\n")
		}
		return b.String()
	}

	rows := view.Assets
	if maxRows > 0 && len(rows) > maxRows {
		rows = rows[:maxRows]
	}

	var t strings.Builder
	t.WriteString(headerRowStyle.Render(
		pad("  #", 6) + pad("Symbol", 8) + pad("Name", 22) +
			padLeft("Price", 14) + padLeft("24h", 10) +
			padLeft("Volume", 12) + padLeft("Market Cap", 12)))
	t.WriteString("\n")

	for _, a := range rows {
		marker := "  "
		if view.Favorites[a.ID] {
			marker = favStyle.Render("★ ")
		}
		if a.ID == view.Selected {
			marker = "> "
		}

		change := FormatPct(a.PriceChangePct24h)
		changeStyle := upStyle
		if a.PriceChangePct24h.Sign() < 0 {
			changeStyle = downStyle
		}

		t.WriteString(fmt.Sprintf("%s%s%s%s%s%s%s%s\n",
			marker,
			pad(fmt.Sprintf("%d", a.MarketCapRank), 4),
			pad(strings.ToUpper(a.Symbol), 8),
			pad(truncate(a.Name, 20), 22),
			padLeft(FormatUSD(a.CurrentPrice), 14),
			changeStyle.Render(padLeft(change, 10)),
			padLeft(FormatCompact(a.TotalVolume), 12),
			padLeft(FormatCompact(a.MarketCap), 12),
		))
	}

	b.WriteString(tableStyle.Render(strings.TrimRight(t.String(), "\n")))
	b.WriteString("\n")

	if !view.FetchedAt.IsZero() {
		b.WriteString(dimStyle.Render("updated " + view.FetchedAt.Format(time.Kitchen)))
		b.WriteString("\n")
	}
	return b.String()
}

// RenderDetail renders the daily high/low panel for the selected asset.
func RenderDetail(view controller.View) string {
	if view.Selected == "" {
		return ""
	}
	var selected *market.Asset
	for i := range view.Assets {
		if view.Assets[i].ID == view.Selected {
			selected = &view.Assets[i]
			break
		}
	}
	if selected == nil {
		return ""
	}

	detail := fmt.Sprintf("%s (%s)  price %s  24h high %s  24h low %s",
		selected.Name,
		strings.ToUpper(selected.Symbol),
		FormatUSD(selected.CurrentPrice),
		FormatUSD(selected.High24h),
		FormatUSD(selected.Low24h),
	)
	return headerRowStyle.Render(detail) + "\n"
}
