package tui

import (
	"github.com/Iron-Ham/contractlens/internal/api"
	"github.com/Iron-Ham/contractlens/internal/tui/keymap"
	"github.com/Iron-Ham/contractlens/internal/tui/msg"
	"github.com/Iron-Ham/contractlens/internal/workflow"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// handleKey dispatches a key press according to the current screen.
func (m Model) handleKey(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	// ctrl+c always quits, even while typing a path.
	if k.Type == tea.KeyCtrlC {
		return m.quit()
	}

	if m.inputActive {
		return m.handlePathInput(k)
	}

	switch {
	case key.Matches(k, m.keys.Quit):
		return m.quit()
	case key.Matches(k, m.keys.Help):
		m.showHelp = !m.showHelp
		return m, nil
	}

	switch m.screen() {
	case keymap.ScreenIdle:
		if key.Matches(k, m.keys.Open) {
			return m, m.openPathInput()
		}

	case keymap.ScreenFileSelected:
		switch {
		case key.Matches(k, m.keys.Analyze):
			return m, m.startAnalysis()
		case key.Matches(k, m.keys.Open):
			return m, m.openPathInput()
		case key.Matches(k, m.keys.Deselect):
			m.stopWatch()
			_ = m.deps.Orchestrator.Deselect("")
		}

	case keymap.ScreenBusy:
		// Choosing another file supersedes the running sequence.
		if key.Matches(k, m.keys.Open) {
			return m, m.openPathInput()
		}

	case keymap.ScreenResults:
		return m.handleResultsKey(k)

	case keymap.ScreenClauseDetail:
		return m.handleDetailKey(k)
	}

	return m, nil
}

func (m Model) handlePathInput(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(k, m.keys.Submit):
		path := m.input.Value()
		m.closePathInput()
		return m, m.selectPath(path)
	case key.Matches(k, m.keys.Cancel):
		m.closePathInput()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(k)
	return m, cmd
}

func (m *Model) openPathInput() tea.Cmd {
	m.inputActive = true
	m.input.Reset()
	return m.input.Focus()
}

func (m *Model) closePathInput() {
	m.inputActive = false
	m.input.Blur()
	m.input.Reset()
}

func (m Model) handleResultsKey(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	count := len(m.resultView.Clauses)

	switch {
	case key.Matches(k, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
			m.refreshViewport()
		}
	case key.Matches(k, m.keys.Down):
		if m.cursor < count-1 {
			m.cursor++
			m.refreshViewport()
		}
	case key.Matches(k, m.keys.PageUp):
		m.viewport.SetYOffset(m.viewport.YOffset - m.viewport.Height)
	case key.Matches(k, m.keys.PageDown):
		m.viewport.SetYOffset(m.viewport.YOffset + m.viewport.Height)
	case key.Matches(k, m.keys.Toggle):
		if count > 0 {
			m.expansion.Toggle(m.cursor)
			m.refreshViewport()
		}
	case key.Matches(k, m.keys.Detail):
		if count > 0 {
			m.openDetail()
		}
	case key.Matches(k, m.keys.ExportPDF):
		return m, m.export(api.FormatPDF)
	case key.Matches(k, m.keys.ExportJSON):
		return m, m.export(api.FormatJSON)
	case key.Matches(k, m.keys.Reset):
		if err := m.deps.Orchestrator.Reset(); err == nil {
			m.clearResult()
		}
	}
	return m, nil
}

func (m Model) handleDetailKey(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(k, m.keys.Back):
		m.detail = nil
		m.insightLoading = false
		m.refreshViewport()
	case key.Matches(k, m.keys.Insight):
		return m, m.requestInsight()
	case key.Matches(k, m.keys.Up):
		m.viewport.SetYOffset(m.viewport.YOffset - 1)
	case key.Matches(k, m.keys.Down):
		m.viewport.SetYOffset(m.viewport.YOffset + 1)
	case key.Matches(k, m.keys.PageUp):
		m.viewport.SetYOffset(m.viewport.YOffset - m.viewport.Height)
	case key.Matches(k, m.keys.PageDown):
		m.viewport.SetYOffset(m.viewport.YOffset + m.viewport.Height)
	case key.Matches(k, m.keys.ExportPDF):
		return m, m.export(api.FormatPDF)
	case key.Matches(k, m.keys.ExportJSON):
		return m, m.export(api.FormatJSON)
	}
	return m, nil
}

// export starts an export of the loaded analysis.
func (m *Model) export(format api.Format) tea.Cmd {
	if m.deps.Exporter == nil {
		return nil
	}
	m.deps.Orchestrator.Notify(workflow.NoticeInfo, "Exporting "+string(format)+"…")
	return msg.Export(m.ctx, m.deps.Exporter, format)
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	m.shutdown()
	return m, tea.Quit
}
