package view

import (
	"fmt"
	"strings"

	"github.com/Iron-Ham/contractlens/internal/resultview"
	"github.com/Iron-Ham/contractlens/internal/tui/styles"
)

// ClauseState is what the clause detail screen needs to render.
type ClauseState struct {
	Detail resultview.ClauseDetail
	// Loading is set while an insight request is in flight.
	Loading bool
	Spinner string
}

// ClauseView renders a single clause with its entities and insight.
type ClauseView struct {
	styles *styles.Styles
}

// NewClauseView creates a ClauseView.
func NewClauseView(s *styles.Styles) *ClauseView {
	return &ClauseView{styles: s}
}

// Render renders the clause detail.
func (v *ClauseView) Render(st ClauseState, width int) string {
	s := v.styles
	d := st.Detail

	var b strings.Builder
	b.WriteString(s.Title.Render(d.Label))
	b.WriteString("  ")
	b.WriteString(s.Muted.Render(d.Type))
	b.WriteString("  ")
	b.WriteString(badge(s, d.Badge))
	b.WriteString("\n\n")
	b.WriteString(wrap(s.Text.Render(d.Text), width))
	b.WriteString("\n")

	if d.Deviation != nil {
		b.WriteString("\n")
		b.WriteString(renderDeviation(s, d.Deviation, "", width))
		b.WriteString("\n")
	}

	if len(d.Entities) > 0 {
		b.WriteString(s.Section.Render("Entities"))
		b.WriteString("\n")
		for _, g := range d.Entities {
			b.WriteString(wrap(s.Muted.Render(g.Category+": ")+s.Text.Render(strings.Join(g.Mentions, ", ")), width))
			b.WriteString("\n")
		}
	}

	b.WriteString(s.Section.Render("Insight"))
	b.WriteString("\n")
	switch {
	case st.Loading:
		b.WriteString(st.Spinner + " " + s.Muted.Render("Requesting clause insight…"))
	case d.Insight == nil:
		b.WriteString(s.HelpKey.Render("[i]") + " " + s.Muted.Render("request a detailed insight for this clause"))
	default:
		b.WriteString(v.renderInsight(d.Insight, width))
	}

	return b.String()
}

func (v *ClauseView) renderInsight(in *resultview.Insight, width int) string {
	s := v.styles

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", s.Bold.Render(in.Score), badge(s, in.Badge))
	if len(in.Explanation) > 0 {
		b.WriteString(renderLines(s, in.Explanation, "", width))
		b.WriteString("\n")
	}
	if len(in.Concerns) > 0 {
		b.WriteString(s.Warning.Render("Concerns"))
		b.WriteString("\n")
		for _, c := range in.Concerns {
			b.WriteString(wrap("  • "+c, width))
			b.WriteString("\n")
		}
	}
	if len(in.Alternatives) > 0 {
		b.WriteString(s.Secondary.Render("Alternatives"))
		b.WriteString("\n")
		for _, a := range in.Alternatives {
			b.WriteString(wrap("  • "+a, width))
			b.WriteString("\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
