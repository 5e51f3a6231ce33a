package tui

import (
	"context"
	"time"

	"github.com/Iron-Ham/contractlens/internal/export"
	"github.com/Iron-Ham/contractlens/internal/filewatch"
	"github.com/Iron-Ham/contractlens/internal/logging"
	"github.com/Iron-Ham/contractlens/internal/resultview"
	"github.com/Iron-Ham/contractlens/internal/tui/keymap"
	"github.com/Iron-Ham/contractlens/internal/tui/msg"
	"github.com/Iron-Ham/contractlens/internal/tui/styles"
	"github.com/Iron-Ham/contractlens/internal/tui/view"
	"github.com/Iron-Ham/contractlens/internal/workflow"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
)

// Deps are the collaborators the TUI drives.
type Deps struct {
	Orchestrator *workflow.Orchestrator
	Service      workflow.Service
	Clauses      msg.ClauseAnalyzer
	Exporter     *export.Trigger
	Styles       *styles.Styles
	Logger       *logging.Logger

	// BaseURL is shown in the header.
	BaseURL string
	// ErrorDisplay is how long the error stage stays up before recovering.
	ErrorDisplay time.Duration
	// WatchFile re-validates the selected file when it changes on disk.
	WatchFile bool
	// InitialPath, when set, is selected on startup.
	InitialPath string
}

// Model holds the TUI application state. The workflow state itself lives in
// the orchestrator; the model only keeps what is purely presentational.
type Model struct {
	deps   Deps
	ctx    context.Context
	cancel context.CancelFunc
	logger *logging.Logger

	keys   keymap.KeyMap
	styles *styles.Styles

	header   *view.HeaderView
	idle     *view.IdleView
	file     *view.FileView
	progress *view.ProgressView
	results  *view.ResultsView
	clause   *view.ClauseView
	status   *view.StatusView

	input    textinput.Model
	spinner  spinner.Model
	viewport viewport.Model

	// UI state
	width       int
	height      int
	ready       bool
	quitting    bool
	showHelp    bool
	inputActive bool

	// Results state, built once per loaded analysis.
	resultView resultview.View
	hasResult  bool
	cursor     int
	expansion  resultview.Expansion

	// Clause detail overlay; nil when closed.
	detail         *resultview.ClauseDetail
	insightLoading bool

	watcher *filewatch.Watcher
}

// NewModel creates a new TUI model.
func NewModel(deps Deps) Model {
	if deps.Styles == nil {
		deps.Styles = styles.New(styles.DefaultPalette())
	}
	if deps.Logger == nil {
		deps.Logger = logging.NopLogger()
	}
	if deps.ErrorDisplay <= 0 {
		deps.ErrorDisplay = 1500 * time.Millisecond
	}

	s := deps.Styles

	in := textinput.New()
	in.Prompt = "Path: "
	in.Placeholder = "~/Documents/contract.pdf"
	in.PromptStyle = s.Primary
	in.CharLimit = 4096

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = s.Primary

	ctx, cancel := context.WithCancel(context.Background())

	return Model{
		deps:     deps,
		ctx:      ctx,
		cancel:   cancel,
		logger:   deps.Logger.WithComponent("tui"),
		keys:     keymap.Default(),
		styles:   s,
		header:   view.NewHeaderView(s),
		idle:     view.NewIdleView(s),
		file:     view.NewFileView(s),
		progress: view.NewProgressView(s),
		results:  view.NewResultsView(s),
		clause:   view.NewClauseView(s),
		status:   view.NewStatusView(s),
		input:    in,
		spinner:  sp,
		viewport: viewport.New(0, 0),
	}
}

// screen returns what the model is currently showing.
func (m Model) screen() keymap.Screen {
	if m.inputActive {
		return keymap.ScreenPathInput
	}
	stage := m.deps.Orchestrator.Stage()
	if stage == workflow.StageResults && m.detail != nil {
		return keymap.ScreenClauseDetail
	}
	return keymap.ScreenFor(stage)
}

// spinning reports whether the spinner should keep ticking.
func (m Model) spinning() bool {
	return m.deps.Orchestrator.Stage().Busy() || m.insightLoading
}
