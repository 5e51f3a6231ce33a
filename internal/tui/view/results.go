package view

import (
	"fmt"
	"strings"

	"github.com/Iron-Ham/contractlens/internal/resultview"
	"github.com/Iron-Ham/contractlens/internal/tui/styles"
)

// ResultsState is what the results screen needs to render.
type ResultsState struct {
	View      resultview.View
	Expansion *resultview.Expansion
	// Cursor is the index of the focused clause row.
	Cursor int
}

// ResultsView renders the analysis results.
type ResultsView struct {
	styles *styles.Styles
}

// NewResultsView creates a ResultsView.
func NewResultsView(s *styles.Styles) *ResultsView {
	return &ResultsView{styles: s}
}

// Render renders the overview, summary, flags, recommendations and clause
// list. It also returns the line on which the focused clause starts so the
// caller can keep it scrolled into view.
func (v *ResultsView) Render(st ResultsState, width int) (string, int) {
	var b strings.Builder
	s := v.styles

	// Overview
	o := st.View.Overview
	b.WriteString(s.Section.Render("Overview"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "%s %s\n", s.Muted.Render("Contract type"), s.Text.Render(o.ContractType))
	fmt.Fprintf(&b, "%s %s %s\n", s.Muted.Render("Risk score   "), s.Bold.Render(o.Score), badge(s, o.Badge))
	fmt.Fprintf(&b, "%s %s\n", s.Muted.Render("Clauses      "), s.Text.Render(fmt.Sprint(o.ClauseCount)))

	if len(st.View.Summary) > 0 {
		b.WriteString(s.Section.Render("Summary"))
		b.WriteString("\n")
		b.WriteString(renderLines(s, st.View.Summary, "", width))
		b.WriteString("\n")
	}

	b.WriteString(s.Section.Render("Risk flags"))
	b.WriteString("\n")
	if st.View.NoRisks {
		b.WriteString(s.Secondary.Render("✓ " + resultview.NoRisksPlaceholder))
		b.WriteString("\n")
	}
	for _, f := range st.View.Flags {
		b.WriteString(wrap(s.Warning.Render("▲ "+f.Label)+"  "+s.Text.Render(f.Description), width))
		b.WriteString("\n")
	}

	b.WriteString(s.Section.Render("Recommendations"))
	b.WriteString("\n")
	for i, rec := range st.View.Recommendations {
		b.WriteString(wrap(fmt.Sprintf("%d. %s", i+1, rec), width))
		b.WriteString("\n")
	}

	b.WriteString(s.Section.Render(fmt.Sprintf("Clauses (%d)", len(st.View.Clauses))))
	b.WriteString("\n")

	cursorLine := 0
	for i, row := range st.View.Clauses {
		if i == st.Cursor {
			cursorLine = strings.Count(b.String(), "\n")
		}
		expanded := st.Expansion != nil && st.Expansion.IsExpanded(i)
		b.WriteString(v.renderRow(row, i == st.Cursor, expanded, width))
		b.WriteString("\n")
	}

	return strings.TrimRight(b.String(), "\n"), cursorLine
}

func (v *ResultsView) renderRow(row resultview.ClauseRow, focused, expanded bool, width int) string {
	s := v.styles

	marker := "  "
	label := s.Text.Render(row.Label)
	if focused {
		marker = s.Selected.Render("› ")
		label = s.Selected.Render(row.Label)
	}
	caret := "▸"
	if expanded {
		caret = "▾"
	}

	var b strings.Builder
	b.WriteString(truncate(fmt.Sprintf("%s%s %s  %s  %s", marker, caret, label, s.Muted.Render(row.Type), badge(s, row.Badge)), width))
	if row.Deviation != nil {
		b.WriteString("  ")
		b.WriteString(s.Warning.Render("⚑"))
	}
	if summary := row.EntitySummary(); summary != "" {
		b.WriteString("\n    ")
		b.WriteString(truncate(s.Muted.Render(summary), width-4))
	}

	if !expanded {
		return b.String()
	}

	b.WriteString("\n")
	b.WriteString(wrap("    "+s.Text.Render(row.Text), width))
	if d := row.Deviation; d != nil {
		b.WriteString("\n")
		b.WriteString(renderDeviation(s, d, "    ", width))
	}
	return b.String()
}

func renderDeviation(s *styles.Styles, d *resultview.Deviation, indent string, width int) string {
	var b strings.Builder
	b.WriteString(indent)
	b.WriteString(s.Warning.Render("⚑ " + d.Title))
	b.WriteString("\n")
	suggested := s.Text.Render(d.Suggested)
	if !d.Available {
		suggested = s.Muted.Render(d.Suggested)
	}
	b.WriteString(wrap(indent+s.Muted.Render("Suggested: ")+suggested, width))
	return b.String()
}
