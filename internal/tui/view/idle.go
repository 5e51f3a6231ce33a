package view

import (
	"fmt"
	"strings"

	"github.com/Iron-Ham/contractlens/internal/tui/styles"
	"github.com/Iron-Ham/contractlens/internal/validate"
)

// IdleView renders the empty file picker shown before a file is selected.
type IdleView struct {
	styles *styles.Styles
}

// NewIdleView creates an IdleView.
func NewIdleView(s *styles.Styles) *IdleView {
	return &IdleView{styles: s}
}

// Render renders the drop-zone prompt. input is the rendered path prompt
// while the user is typing, empty otherwise.
func (v *IdleView) Render(input string, width int) string {
	var b strings.Builder

	b.WriteString(v.styles.Bold.Render("Choose a contract to analyze"))
	b.WriteString("\n")
	b.WriteString(v.styles.Muted.Render(fmt.Sprintf("PDF, DOCX or TXT, up to %s", validate.HumanSize(validate.MaxFileSize))))
	b.WriteString("\n\n")

	if input != "" {
		b.WriteString(input)
	} else {
		b.WriteString(v.styles.HelpKey.Render("[o]"))
		b.WriteString(" ")
		b.WriteString(v.styles.Text.Render("enter a file path"))
	}

	return v.styles.ContentBox.Render(wrap(b.String(), contentWidth(width)))
}

// contentWidth is the usable width inside a ContentBox.
func contentWidth(width int) int {
	if width <= 0 {
		return 0
	}
	// border (2) + horizontal padding (2)
	if w := width - 4; w > 10 {
		return w
	}
	return 10
}
