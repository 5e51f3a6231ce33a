// Package keymap declares the key bindings of the TUI and which of them are
// active in each screen.
package keymap

import (
	"github.com/Iron-Ham/contractlens/internal/workflow"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
)

// Screen identifies what the TUI is showing. It follows the workflow stage
// except for the path prompt and the clause detail overlay.
type Screen int

const (
	ScreenIdle Screen = iota
	ScreenPathInput
	ScreenFileSelected
	ScreenBusy
	ScreenResults
	ScreenClauseDetail
	ScreenError
)

// ScreenFor maps a workflow stage to its screen.
func ScreenFor(stage workflow.Stage) Screen {
	switch stage {
	case workflow.StageFileSelected:
		return ScreenFileSelected
	case workflow.StageUploading, workflow.StageAnalyzing:
		return ScreenBusy
	case workflow.StageResults:
		return ScreenResults
	case workflow.StageError:
		return ScreenError
	default:
		return ScreenIdle
	}
}

// KeyMap holds every binding the TUI understands.
type KeyMap struct {
	Quit key.Binding
	Help key.Binding

	// File selection
	Open     key.Binding
	Submit   key.Binding
	Cancel   key.Binding
	Deselect key.Binding
	Analyze  key.Binding

	// Results
	Up         key.Binding
	Down       key.Binding
	Toggle     key.Binding
	Detail     key.Binding
	PageUp     key.Binding
	PageDown   key.Binding
	ExportPDF  key.Binding
	ExportJSON key.Binding
	Reset      key.Binding

	// Clause detail
	Insight key.Binding
	Back    key.Binding
}

// Default returns the default bindings.
func Default() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Help: key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),

		Open:     key.NewBinding(key.WithKeys("o", "enter"), key.WithHelp("o", "open file")),
		Submit:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
		Cancel:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		Deselect: key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "remove file")),
		Analyze:  key.NewBinding(key.WithKeys("a", "enter"), key.WithHelp("a", "analyze")),

		Up:         key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("↑/k", "up")),
		Down:       key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("↓/j", "down")),
		Toggle:     key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "expand clause")),
		Detail:     key.NewBinding(key.WithKeys("enter", "l"), key.WithHelp("enter", "clause detail")),
		PageUp:     key.NewBinding(key.WithKeys("pgup", "ctrl+u"), key.WithHelp("pgup", "page up")),
		PageDown:   key.NewBinding(key.WithKeys("pgdown", "ctrl+d"), key.WithHelp("pgdn", "page down")),
		ExportPDF:  key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "export PDF")),
		ExportJSON: key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "export JSON")),
		Reset:      key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new analysis")),

		Insight: key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "clause insight")),
		Back:    key.NewBinding(key.WithKeys("esc", "h"), key.WithHelp("esc", "back")),
	}
}

// ForScreen returns the bindings shown in the help bar of a screen.
func (k KeyMap) ForScreen(s Screen) help.KeyMap {
	switch s {
	case ScreenPathInput:
		return screenHelp{short: []key.Binding{k.Submit, k.Cancel}}
	case ScreenFileSelected:
		return screenHelp{short: []key.Binding{k.Analyze, k.Open, k.Deselect, k.Quit}}
	case ScreenBusy:
		return screenHelp{short: []key.Binding{k.Open, k.Quit}}
	case ScreenResults:
		return screenHelp{
			short: []key.Binding{k.Down, k.Toggle, k.Detail, k.ExportPDF, k.ExportJSON, k.Reset, k.Help},
			full: [][]key.Binding{
				{k.Up, k.Down, k.PageUp, k.PageDown},
				{k.Toggle, k.Detail},
				{k.ExportPDF, k.ExportJSON, k.Reset, k.Quit},
			},
		}
	case ScreenClauseDetail:
		return screenHelp{short: []key.Binding{k.Insight, k.Back, k.ExportPDF, k.ExportJSON, k.Quit}}
	case ScreenError:
		return screenHelp{short: []key.Binding{k.Quit}}
	default:
		return screenHelp{short: []key.Binding{k.Open, k.Quit}}
	}
}

type screenHelp struct {
	short []key.Binding
	full  [][]key.Binding
}

func (h screenHelp) ShortHelp() []key.Binding { return h.short }

func (h screenHelp) FullHelp() [][]key.Binding {
	if h.full == nil {
		return [][]key.Binding{h.short}
	}
	return h.full
}
