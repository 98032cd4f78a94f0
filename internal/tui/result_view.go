package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/rshade/footprint/internal/footprint"
	"github.com/rshade/footprint/internal/greenops"
	"github.com/rshade/footprint/internal/refdata"
)

// Column widths of the result table.
const (
	rankWidth     = 6
	categoryWidth = 13
	amountWidth   = 12
	percentWidth  = 8
)

// RenderDelta renders a signed kg difference with a directional arrow.
// Above the baseline is a warning, below is good.
func RenderDelta(delta float64) string {
	rounded := math.Round(delta)

	var icon, sign string
	var color lipgloss.Color
	switch {
	case rounded > 0:
		icon, sign, color = IconArrowUp, "+", ColorWarning
	case rounded < 0:
		icon, sign, color = IconArrowDown, "-", ColorOK
	default:
		icon, color = IconArrowRight, ColorMuted
	}

	style := lipgloss.NewStyle().Foreground(color).Bold(true)
	return style.Render(fmt.Sprintf("%s%s %s", sign, greenops.FormatKg(math.Abs(rounded)), icon))
}

// RenderResultTable renders a ResultSet as a ranked table with totals,
// equivalencies and tips.
func RenderResultTable(rs *footprint.ResultSet) string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render(IconLeaf + " Your annual carbon footprint"))
	sb.WriteString("\n\n")

	sb.WriteString(headerStyle.Render(fmt.Sprintf("%-*s%-*s%*s%*s%*s  %s",
		rankWidth, "Rank", categoryWidth, "Category",
		amountWidth, "Emissions", amountWidth, "Average", percentWidth, "Change", "Difference")))
	sb.WriteString("\n")

	for i, r := range rs.Results {
		sb.WriteString(labelStyle.Render(fmt.Sprintf("%-*s", rankWidth, humanize.Ordinal(i+1))))
		sb.WriteString(valueStyle.Render(fmt.Sprintf("%-*s", categoryWidth, r.Category)))
		sb.WriteString(fmt.Sprintf("%*s%*s%*s  ",
			amountWidth, greenops.FormatKg(r.Emissions),
			amountWidth, greenops.FormatKg(r.Average),
			percentWidth, fmt.Sprintf("%+.0f%%", r.Percentage)))
		sb.WriteString(RenderDelta(r.Difference))
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(labelStyle.Render("Total:   "))
	sb.WriteString(valueStyle.Render(greenops.FormatKg(rs.TotalEmissions) + "/year"))
	sb.WriteString("  ")
	sb.WriteString(RenderDelta(rs.TotalDifference))
	sb.WriteString("\n")
	sb.WriteString(labelStyle.Render("Average: "))
	sb.WriteString(valueStyle.Render(greenops.FormatKg(rs.TotalAverage) + "/year"))
	sb.WriteString("\n")

	if !rs.Equivalencies.IsEmpty && rs.Equivalencies.DisplayText != "" {
		sb.WriteString(mutedStyle.Render(rs.Equivalencies.DisplayText))
		sb.WriteString("\n")
	}
	if rs.Clamped {
		sb.WriteString(mutedStyle.Render("Total scaled into the calibrated range."))
		sb.WriteString("\n")
	}
	if skipped := rs.Skipped(); skipped > 0 {
		sb.WriteString(errorStyle.Render(fmt.Sprintf("%d answer(s) skipped; see diagnostics.", skipped)))
		sb.WriteString("\n")
	}

	if len(rs.Results) > 0 && len(rs.Results[0].Tips) > 0 {
		top := rs.Results[0]
		sb.WriteString("\n")
		sb.WriteString(headerStyle.Render(fmt.Sprintf("Tips for %s", top.Category)))
		sb.WriteString("\n")
		for _, tip := range top.Tips {
			sb.WriteString("  • ")
			sb.WriteString(tip)
			sb.WriteString("\n")
		}
	}

	return strings.TrimRight(sb.String(), "\n")
}

// RenderSummary renders a Summary as a short report.
func RenderSummary(s *footprint.Summary) string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render(IconLeaf + " Footprint summary"))
	sb.WriteString("\n\n")

	row := func(label, value string) {
		sb.WriteString(labelStyle.Render(fmt.Sprintf("%-22s", label)))
		sb.WriteString(valueStyle.Render(value))
		sb.WriteString("\n")
	}
	row("Total", greenops.FormatKg(s.Total)+"/year")
	row("Dataset mean", greenops.FormatKg(s.DatasetMean))
	row("Difference from mean", fmt.Sprintf("%+.0f kg", s.DifferenceFromMean))
	row("Share of mean", fmt.Sprintf("%.0f%%", s.PercentOfMean))
	row("Dataset range", fmt.Sprintf("%s to %s", greenops.FormatKg(s.DatasetRange[0]), greenops.FormatKg(s.DatasetRange[1])))
	row("Answers used", fmt.Sprintf("%d", len(s.FeaturesUsed)))
	for _, c := range refdata.Categories() {
		if pct, ok := s.Percentages[c]; ok {
			row(c.String()+" vs average", fmt.Sprintf("%.0f%%", pct))
		}
	}
	if s.Clamped {
		sb.WriteString(mutedStyle.Render("Total scaled into the calibrated range."))
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}
