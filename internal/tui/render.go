package tui

import (
	"strings"

	"github.com/Iron-Ham/contractlens/internal/tui/keymap"
	"github.com/Iron-Ham/contractlens/internal/tui/view"
)

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Loading..."
	}

	snap := m.deps.Orchestrator.Snapshot()
	screen := m.screen()

	var b strings.Builder
	b.WriteString(m.header.Render(snap.Stage, m.deps.BaseURL, m.width))
	b.WriteString("\n")

	input := ""
	if m.inputActive {
		input = m.input.View()
	}

	switch keymap.ScreenFor(snap.Stage) {
	case keymap.ScreenIdle:
		b.WriteString(m.idle.Render(input, m.width))
	case keymap.ScreenFileSelected:
		b.WriteString(m.file.Render(snap.Preview, input, m.width))
	case keymap.ScreenBusy:
		b.WriteString(m.progress.Render(snap.Stage, snap.Preview, m.spinner.View(), m.width))
		if input != "" {
			b.WriteString("\n")
			b.WriteString(input)
		}
	case keymap.ScreenResults:
		b.WriteString(m.viewport.View())
	case keymap.ScreenError:
		b.WriteString(m.status.RenderError(snap.Notice, m.width))
	}

	b.WriteString("\n")
	// The error screen already shows the notice.
	if screen != keymap.ScreenError {
		b.WriteString(m.status.RenderNotice(snap.Notice, m.width))
	}
	b.WriteString("\n")
	b.WriteString(m.status.RenderHelp(m.keys.ForScreen(screen), m.showHelp, m.width))

	return b.String()
}

// refreshViewport re-renders the scrollable results or clause detail and
// keeps the focused clause in view.
func (m *Model) refreshViewport() {
	if !m.hasResult {
		return
	}

	if m.detail != nil {
		m.viewport.SetContent(m.clause.Render(view.ClauseState{
			Detail:  *m.detail,
			Loading: m.insightLoading,
			Spinner: m.spinner.View(),
		}, m.width))
		return
	}

	content, cursorLine := m.results.Render(view.ResultsState{
		View:      m.resultView,
		Expansion: &m.expansion,
		Cursor:    m.cursor,
	}, m.width)
	m.viewport.SetContent(content)

	if m.viewport.Height <= 0 {
		return
	}
	switch {
	case cursorLine < m.viewport.YOffset:
		m.viewport.SetYOffset(cursorLine)
	case cursorLine >= m.viewport.YOffset+m.viewport.Height:
		m.viewport.SetYOffset(cursorLine - m.viewport.Height + 2)
	}
}
