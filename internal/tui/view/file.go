package view

import (
	"strings"

	"github.com/Iron-Ham/contractlens/internal/tui/styles"
	"github.com/Iron-Ham/contractlens/internal/validate"
)

// FileView renders the selected file card.
type FileView struct {
	styles *styles.Styles
}

// NewFileView creates a FileView.
func NewFileView(s *styles.Styles) *FileView {
	return &FileView{styles: s}
}

// Render renders the file preview, the analyze call to action and, while the
// user is choosing a replacement, the path prompt.
func (v *FileView) Render(p validate.Preview, input string, width int) string {
	inner := contentWidth(width)

	var b strings.Builder
	b.WriteString(v.styles.Secondary.Render("✓ "))
	b.WriteString(truncate(v.styles.Bold.Render(p.Name), inner-2))
	b.WriteString("\n")
	b.WriteString(v.styles.Muted.Render(p.Size))
	b.WriteString("\n\n")

	if input != "" {
		b.WriteString(input)
	} else {
		b.WriteString(v.styles.HelpKey.Render("[a]"))
		b.WriteString(" Analyze contract   ")
		b.WriteString(v.styles.HelpKey.Render("[x]"))
		b.WriteString(" Remove")
	}

	return v.styles.ContentBox.Render(b.String())
}
