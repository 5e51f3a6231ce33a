package tui

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/Iron-Ham/contractlens/internal/contract"
	cerrors "github.com/Iron-Ham/contractlens/internal/errors"
	"github.com/Iron-Ham/contractlens/internal/filewatch"
	"github.com/Iron-Ham/contractlens/internal/resultview"
	"github.com/Iron-Ham/contractlens/internal/tui/msg"
	"github.com/Iron-Ham/contractlens/internal/workflow"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// Layout constants
const (
	headerHeight = 2 // title line + bottom border
	footerHeight = 3 // notice + help bar with its top margin
)

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	if m.deps.InitialPath == "" {
		return nil
	}
	path := m.deps.InitialPath
	return func() tea.Msg { return selectPathMsg{path: path} }
}

// selectPathMsg selects a file given on the command line.
type selectPathMsg struct {
	path string
}

// Update implements tea.Model.
func (m Model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch mm := message.(type) {
	case tea.WindowSizeMsg:
		m.width = mm.Width
		m.height = mm.Height
		m.ready = true
		m.input.Width = max(mm.Width-12, 10)
		m.viewport.Width = mm.Width
		m.viewport.Height = max(mm.Height-headerHeight-footerHeight, 3)
		m.refreshViewport()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(mm)

	case spinner.TickMsg:
		if !m.spinning() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(mm)
		if m.insightLoading {
			m.refreshViewport()
		}
		return m, cmd

	case selectPathMsg:
		return m, m.selectPath(mm.path)

	case msg.UploadDoneMsg:
		return m.handleUploadDone(mm)

	case msg.AnalyzeDoneMsg:
		return m.handleAnalyzeDone(mm)

	case msg.ExportDoneMsg:
		if mm.Err != nil {
			m.logger.Debug("export finished with error", "error", mm.Err.Error())
		}
		return m, nil

	case msg.InsightMsg:
		return m.handleInsight(mm)

	case msg.RecoverMsg:
		return m.handleRecover(mm)

	case msg.FileChangeMsg:
		return m.handleFileChange(mm)

	case msg.WatchErrMsg:
		m.logger.Warn("file watch failed", "path", mm.Path, "error", mm.Err.Error())
		m.stopWatch()
		return m, nil
	}

	return m, nil
}

// selectPath opens path and offers it to the orchestrator.
func (m *Model) selectPath(raw string) tea.Cmd {
	path := expandPath(raw)
	if path == "" {
		return nil
	}

	f, err := contract.FromPath(path)
	if err != nil {
		m.logger.Warn("cannot open selected file", "path", path, "error", err.Error())
		m.deps.Orchestrator.Notify(workflow.NoticeError, "Cannot open "+filepath.Base(path))
		return nil
	}

	if _, err := m.deps.Orchestrator.SelectFile(f); err != nil {
		// Rejections already carry a notice; illegal transitions do not.
		if errors.Is(err, cerrors.ErrIllegalTransition) {
			m.deps.Orchestrator.Notify(workflow.NoticeWarning, "Start a new analysis before choosing another file")
		}
		return nil
	}
	return m.startWatch(f.Path)
}

// startAnalysis issues the upload for the selected file.
func (m *Model) startAnalysis() tea.Cmd {
	t, err := m.deps.Orchestrator.Start()
	if err != nil {
		m.logger.Debug("start refused", "error", err.Error())
		if errors.Is(err, cerrors.ErrSequenceBusy) {
			return nil
		}
		m.deps.Orchestrator.Notify(workflow.NoticeError, cerrors.UserMessage(err))
		return nil
	}
	m.stopWatch()
	m.deps.Orchestrator.ClearNotice()
	return tea.Batch(m.spinner.Tick, msg.Upload(m.ctx, m.deps.Orchestrator, m.deps.Service, t))
}

func (m Model) handleUploadDone(mm msg.UploadDoneMsg) (tea.Model, tea.Cmd) {
	if mm.Err != nil {
		return m, m.afterFailure(mm.Err)
	}
	return m, msg.Analyze(m.ctx, m.deps.Orchestrator, m.deps.Service, mm.Next)
}

func (m Model) handleAnalyzeDone(mm msg.AnalyzeDoneMsg) (tea.Model, tea.Cmd) {
	if mm.Err != nil {
		return m, m.afterFailure(mm.Err)
	}
	m.loadResult()
	return m, nil
}

// afterFailure schedules recovery from the error stage. Stale responses
// never moved the stage and need nothing.
func (m *Model) afterFailure(err error) tea.Cmd {
	if errors.Is(err, cerrors.ErrStaleResponse) {
		return nil
	}
	snap := m.deps.Orchestrator.Snapshot()
	if snap.Stage != workflow.StageError {
		return nil
	}
	return msg.RecoverAfter(m.deps.ErrorDisplay, snap.Seq)
}

func (m Model) handleRecover(mm msg.RecoverMsg) (tea.Model, tea.Cmd) {
	snap := m.deps.Orchestrator.Snapshot()
	if snap.Stage != workflow.StageError || snap.Seq != mm.Seq {
		return m, nil
	}
	if err := m.deps.Orchestrator.Recover(); err != nil {
		m.logger.Warn("recover failed", "error", err.Error())
		return m, nil
	}
	if snap.File == nil {
		return m, nil
	}
	return m, m.startWatch(snap.File.Path)
}

// loadResult builds the result view for the current analysis.
func (m *Model) loadResult() {
	snap := m.deps.Orchestrator.Snapshot()
	if snap.Result == nil {
		return
	}
	m.resultView = resultview.Build(snap.Result)
	m.hasResult = true
	m.cursor = 0
	m.expansion.Reset()
	m.detail = nil
	m.insightLoading = false
	m.viewport.GotoTop()
	m.refreshViewport()
}

// clearResult forgets the presentational copy of the last result.
func (m *Model) clearResult() {
	m.resultView = resultview.View{}
	m.hasResult = false
	m.cursor = 0
	m.expansion.Reset()
	m.detail = nil
	m.insightLoading = false
	m.viewport.SetContent("")
}

// openDetail opens the clause detail for the focused clause, with the cached
// insight if there is one.
func (m *Model) openDetail() {
	snap := m.deps.Orchestrator.Snapshot()
	d, ok := resultview.BuildClauseDetail(snap.Result, m.cursor)
	if !ok {
		return
	}
	if _, cached, err := m.deps.Orchestrator.ClauseInput(m.cursor); err == nil && cached != nil {
		d = d.WithInsight(cached)
	}
	m.detail = &d
	m.viewport.GotoTop()
	m.refreshViewport()
}

// requestInsight fetches the insight for the open clause.
func (m *Model) requestInsight() tea.Cmd {
	if m.detail == nil || m.insightLoading {
		return nil
	}
	q, cached, err := m.deps.Orchestrator.ClauseInput(m.detail.Index)
	if err != nil {
		m.deps.Orchestrator.Notify(workflow.NoticeError, cerrors.UserMessage(err))
		return nil
	}
	if cached != nil {
		d := m.detail.WithInsight(cached)
		m.detail = &d
		m.refreshViewport()
		return nil
	}
	if m.deps.Clauses == nil {
		return nil
	}
	m.insightLoading = true
	m.refreshViewport()
	return tea.Batch(m.spinner.Tick, msg.FetchInsight(m.ctx, m.deps.Clauses, q))
}

func (m Model) handleInsight(mm msg.InsightMsg) (tea.Model, tea.Cmd) {
	m.insightLoading = false
	if mm.Err != nil {
		m.logger.Warn("clause insight failed", "clause_id", mm.Query.ClauseID, "error", mm.Err.Error())
		m.deps.Orchestrator.Notify(workflow.NoticeError, cerrors.UserMessage(mm.Err))
		m.refreshViewport()
		return m, nil
	}
	if err := m.deps.Orchestrator.StoreInsight(mm.Query, mm.Insight); err != nil {
		return m, nil
	}
	if m.detail != nil && m.detail.Index == mm.Query.Index {
		d := m.detail.WithInsight(mm.Insight)
		m.detail = &d
	}
	m.refreshViewport()
	return m, nil
}

// startWatch begins watching path when watching is enabled. Any previous
// watch is stopped.
func (m *Model) startWatch(path string) tea.Cmd {
	m.stopWatch()
	if !m.deps.WatchFile || path == "" {
		return nil
	}
	w, err := filewatch.New(path, 0)
	if err != nil {
		m.logger.Warn("cannot watch selected file", "path", path, "error", err.Error())
		return nil
	}
	m.watcher = w
	return msg.WaitForChange(w)
}

func (m *Model) stopWatch() {
	if m.watcher == nil {
		return
	}
	_ = m.watcher.Close()
	m.watcher = nil
}

func (m Model) handleFileChange(mm msg.FileChangeMsg) (tea.Model, tea.Cmd) {
	// Changes from a watcher that has since been replaced are dropped.
	if m.watcher == nil || mm.Change.Path != m.watcher.Path() {
		return m, nil
	}
	if m.deps.Orchestrator.Stage() != workflow.StageFileSelected {
		m.stopWatch()
		return m, nil
	}

	if mm.Change.Kind == filewatch.Removed {
		m.stopWatch()
		_ = m.deps.Orchestrator.Deselect(filepath.Base(mm.Change.Path) + " was removed")
		return m, nil
	}

	f, err := contract.FromPath(mm.Change.Path)
	if err != nil {
		m.stopWatch()
		_ = m.deps.Orchestrator.Deselect("Cannot read " + filepath.Base(mm.Change.Path))
		return m, nil
	}
	if _, err := m.deps.Orchestrator.Revalidate(f); err != nil {
		// A rejected file has been deselected with a notice.
		m.stopWatch()
		return m, nil
	}
	return m, msg.WaitForChange(m.watcher)
}

// shutdown cancels in-flight requests and stops the watcher.
func (m *Model) shutdown() {
	m.stopWatch()
	if m.cancel != nil {
		m.cancel()
	}
}

// expandPath trims the quoting terminals add to dropped paths and expands ~.
func expandPath(raw string) string {
	p := strings.TrimSpace(raw)
	p = strings.Trim(p, `"'`)
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			p = filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return p
}
