package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rshade/footprint/internal/refdata"
)

const (
	progressMinWidth = 10
	progressMaxWidth = 40
	progressPadding  = 20
)

// RenderProgress renders "Question n of total" with a bar sized to width.
func RenderProgress(n, total, width int) string {
	barWidth := min(max(width-progressPadding, progressMinWidth), progressMaxWidth)
	filled := 0
	if total > 0 {
		filled = n * barWidth / total
	}

	bar := lipgloss.NewStyle().Foreground(ColorOK).Render(strings.Repeat("█", filled)) +
		lipgloss.NewStyle().Foreground(ColorBorder).Render(strings.Repeat("░", barWidth-filled))
	return labelStyle.Render(fmt.Sprintf("Question %d of %d ", n, total)) + bar
}

// RenderQuestion renders the category badge and question text.
func RenderQuestion(q refdata.Question) string {
	badge := lipgloss.NewStyle().
		Foreground(ColorHeader).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBorder).
		Padding(0, 1).
		Render(q.Category.String())

	text := valueStyle.Render(q.Text)
	if q.Kind == refdata.KindSlider && q.Slider != nil {
		text += "\n" + mutedStyle.Render(fmt.Sprintf("Enter a value in %s (%g to %g)", q.Slider.Unit, q.Slider.Min, q.Slider.Max))
	}
	return badge + "\n" + text
}

// RenderOptions renders numbered options with the cursor row highlighted.
func RenderOptions(options []refdata.Option, cursor int) string {
	lines := make([]string, 0, len(options))
	for i, o := range options {
		line := fmt.Sprintf("%d. %s", i+1, o.Label)
		if i == cursor {
			lines = append(lines, highlightStyle.Render(IconCursor+" "+line))
			continue
		}
		lines = append(lines, "  "+line)
	}
	return strings.Join(lines, "\n")
}

// RenderQuizHelp renders the key bindings for the answering screen.
func RenderQuizHelp(slider bool) string {
	shortcuts := []string{"↑/↓: Choose", "1-9: Pick", "Enter: Answer", "←: Back", "q: Quit"}
	if slider {
		shortcuts = []string{"Type a number", "Enter: Answer", "Shift+Tab: Back", "Esc: Quit"}
	}
	return helpStyle.Render(strings.Join(shortcuts, " | "))
}

// RenderResultsHelp renders the key bindings for the results screen.
func RenderResultsHelp() string {
	return helpStyle.Render(strings.Join([]string{"r: Retake quiz", "q: Quit"}, " | "))
}

// RenderLoadingIndicator renders the scoring indicator.
func RenderLoadingIndicator() string {
	return lipgloss.NewStyle().Foreground(ColorSpinner).Bold(true).Render("Calculating your footprint...")
}
