package keymap

import (
	"testing"

	"github.com/Iron-Ham/contractlens/internal/workflow"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

func TestScreenFor(t *testing.T) {
	tests := []struct {
		stage workflow.Stage
		want  Screen
	}{
		{workflow.StageIdle, ScreenIdle},
		{workflow.StageFileSelected, ScreenFileSelected},
		{workflow.StageUploading, ScreenBusy},
		{workflow.StageAnalyzing, ScreenBusy},
		{workflow.StageResults, ScreenResults},
		{workflow.StageError, ScreenError},
	}
	for _, tt := range tests {
		t.Run(tt.stage.String(), func(t *testing.T) {
			if got := ScreenFor(tt.stage); got != tt.want {
				t.Errorf("ScreenFor(%v) = %v, want %v", tt.stage, got, tt.want)
			}
		})
	}
}

func TestDefault_Matches(t *testing.T) {
	k := Default()
	tests := []struct {
		name    string
		msg     tea.KeyMsg
		binding key.Binding
	}{
		{"q quits", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}}, k.Quit},
		{"ctrl+c quits", tea.KeyMsg{Type: tea.KeyCtrlC}, k.Quit},
		{"space toggles", tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}, k.Toggle},
		{"p exports pdf", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'p'}}, k.ExportPDF},
		{"e exports json", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'e'}}, k.ExportJSON},
		{"n resets", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'n'}}, k.Reset},
		{"esc goes back", tea.KeyMsg{Type: tea.KeyEsc}, k.Back},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !key.Matches(tt.msg, tt.binding) {
				t.Errorf("%q did not match %v", tt.msg.String(), tt.binding.Keys())
			}
		})
	}
}

func TestForScreen_ResultsHasExportBindings(t *testing.T) {
	k := Default()
	h := k.ForScreen(ScreenResults)

	var found int
	for _, b := range h.ShortHelp() {
		if b.Help().Desc == "export PDF" || b.Help().Desc == "export JSON" {
			found++
		}
	}
	if found != 2 {
		t.Errorf("results help lists %d export bindings, want 2", found)
	}
	if len(h.FullHelp()) != 3 {
		t.Errorf("results full help has %d columns, want 3", len(h.FullHelp()))
	}

	idle := k.ForScreen(ScreenIdle)
	if len(idle.FullHelp()) != 1 {
		t.Error("screens without a full help fall back to the short list")
	}
}
