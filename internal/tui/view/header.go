package view

import (
	"strings"

	"github.com/Iron-Ham/contractlens/internal/tui/styles"
	"github.com/Iron-Ham/contractlens/internal/workflow"
)

// stageLabels are the user-facing names of the workflow stages.
var stageLabels = map[workflow.Stage]string{
	workflow.StageIdle:         "Select a contract",
	workflow.StageFileSelected: "Ready to analyze",
	workflow.StageUploading:    "Uploading",
	workflow.StageAnalyzing:    "Analyzing",
	workflow.StageResults:      "Analysis results",
	workflow.StageError:        "Something went wrong",
}

// HeaderView renders the title bar.
type HeaderView struct {
	styles *styles.Styles
}

// NewHeaderView creates a HeaderView.
func NewHeaderView(s *styles.Styles) *HeaderView {
	return &HeaderView{styles: s}
}

// Render renders the title and the current stage. baseURL is shown muted on
// the right when it fits.
func (v *HeaderView) Render(stage workflow.Stage, baseURL string, width int) string {
	title := v.styles.Title.Render("contractlens")
	label := v.styles.Subtitle.Render(stageLabels[stage])

	line := title + "  " + label
	if baseURL != "" {
		line += "  " + v.styles.Muted.Render(baseURL)
	}
	line = truncate(line, width)

	var b strings.Builder
	b.WriteString(v.styles.Header.Render(line))
	return b.String()
}
