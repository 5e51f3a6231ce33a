package view

import (
	"github.com/Iron-Ham/contractlens/internal/tui/styles"
	"github.com/Iron-Ham/contractlens/internal/workflow"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"
)

// StatusView renders the notice line and the key help below the content.
type StatusView struct {
	styles *styles.Styles
	help   help.Model
}

// NewStatusView creates a StatusView.
func NewStatusView(s *styles.Styles) *StatusView {
	h := help.New()
	h.Styles.ShortKey = s.HelpKey
	h.Styles.FullKey = s.HelpKey
	h.Styles.ShortDesc = s.Muted
	h.Styles.FullDesc = s.Muted
	h.Styles.ShortSeparator = s.Muted
	h.Styles.FullSeparator = s.Muted
	return &StatusView{styles: s, help: h}
}

// RenderNotice renders the current notice, or nothing when there is none.
func (v *StatusView) RenderNotice(n workflow.Notice, width int) string {
	if n.Empty() {
		return ""
	}
	icon := "•"
	switch n.Level {
	case workflow.NoticeError:
		icon = "✗"
	case workflow.NoticeWarning:
		icon = "!"
	}
	return truncate(v.styles.Notice(n.Level).Render(icon+" "+n.Message), width)
}

// RenderHelp renders the key help for keys; full shows every column.
func (v *StatusView) RenderHelp(keys help.KeyMap, full bool, width int) string {
	v.help.Width = width
	v.help.ShowAll = full
	return v.styles.HelpBar.Render(v.help.View(keys))
}

// RenderError renders the error stage: the failure message with a note that
// the previous file selection comes back shortly. Transient failures suggest
// trying again; the rest suggest fixing the file first.
func (v *StatusView) RenderError(n workflow.Notice, width int) string {
	msg := n.Message
	if msg == "" {
		msg = "Request failed"
	}
	hint := "Returning to your file… fix it or choose another before retrying."
	if n.Retryable {
		hint = "Returning to your file… press a to analyze again."
	}
	body := lipgloss.JoinVertical(lipgloss.Left,
		v.styles.Error.Bold(true).Render("✗ "+msg),
		v.styles.Muted.Render(hint),
	)
	return v.styles.ContentBox.BorderForeground(v.styles.Palette.Error).Render(wrap(body, contentWidth(width)))
}
