package view

import (
	"strings"

	"github.com/Iron-Ham/contractlens/internal/tui/styles"
	"github.com/Iron-Ham/contractlens/internal/validate"
	"github.com/Iron-Ham/contractlens/internal/workflow"
)

// ProgressView renders the in-flight upload and analysis steps.
type ProgressView struct {
	styles *styles.Styles
}

// NewProgressView creates a ProgressView.
func NewProgressView(s *styles.Styles) *ProgressView {
	return &ProgressView{styles: s}
}

// Render renders the two-step progress list. spinner is the current spinner
// frame; it is placed on the active step.
func (v *ProgressView) Render(stage workflow.Stage, p validate.Preview, spinner string, width int) string {
	var b strings.Builder

	b.WriteString(truncate(v.styles.Bold.Render(p.String()), contentWidth(width)))
	b.WriteString("\n\n")

	steps := []struct {
		stage workflow.Stage
		label string
	}{
		{workflow.StageUploading, "Uploading contract"},
		{workflow.StageAnalyzing, "Analyzing clauses and risks"},
	}
	for i, step := range steps {
		if i > 0 {
			b.WriteString("\n")
		}
		switch {
		case step.stage == stage:
			b.WriteString(spinner)
			b.WriteString(" ")
			b.WriteString(v.styles.Text.Render(step.label + "…"))
		case step.stage < stage:
			b.WriteString(v.styles.Secondary.Render("✓ " + step.label))
		default:
			b.WriteString(v.styles.Muted.Render("· " + step.label))
		}
	}

	return v.styles.ContentBox.Render(b.String())
}
