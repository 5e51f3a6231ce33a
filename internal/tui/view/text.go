package view

import (
	"strings"

	"github.com/Iron-Ham/contractlens/internal/markdown"
	"github.com/Iron-Ham/contractlens/internal/resultview"
	"github.com/Iron-Ham/contractlens/internal/tui/styles"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// renderLines renders markdown lines with bold spans emphasized.
func renderLines(s *styles.Styles, lines []markdown.Line, indent string, width int) string {
	var b strings.Builder
	for i, line := range lines {
		if i > 0 {
			b.WriteString("\n")
		}
		var lb strings.Builder
		for _, span := range line {
			if span.Bold {
				lb.WriteString(s.Bold.Render(span.Text))
			} else {
				lb.WriteString(s.Text.Render(span.Text))
			}
		}
		b.WriteString(wrap(indent+lb.String(), width))
	}
	return b.String()
}

// badge renders a risk badge such as "■ High".
func badge(s *styles.Styles, bg resultview.Badge) string {
	return s.Risk(bg.Level).Render(bg.Icon + " " + bg.Label)
}

// wrap soft-wraps text to width; a non-positive width leaves it unchanged.
func wrap(text string, width int) string {
	if width <= 0 {
		return text
	}
	return lipgloss.NewStyle().Width(width).Render(text)
}

// truncate shortens a single line to width cells, keeping escape sequences intact.
func truncate(text string, width int) string {
	if width <= 0 {
		return text
	}
	return ansi.Truncate(text, width, "…")
}
