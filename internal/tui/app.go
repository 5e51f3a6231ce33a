// Package tui is the interactive terminal front end: it lets the user pick a
// contract, follows the upload and analysis, and presents the results.
package tui

import (
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
)

// App wraps the bubbletea program.
type App struct {
	program *tea.Program
	model   Model
}

// New creates a new TUI application.
func New(deps Deps) *App {
	return &App{model: NewModel(deps)}
}

// Run starts the TUI and blocks until the user quits.
func (a *App) Run() error {
	a.program = tea.NewProgram(
		a.model,
		tea.WithAltScreen(),
	)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	done := make(chan struct{})
	go quitOnSignal(sigChan, done, func() { a.program.Send(tea.Quit()) })

	final, err := a.program.Run()

	signal.Stop(sigChan)
	close(done)

	// The model owns the watcher and the request context; release them even
	// when the program was stopped from outside.
	if m, ok := final.(Model); ok {
		m.shutdown()
	} else {
		a.model.shutdown()
	}

	return err
}

// quitOnSignal calls quit when a signal arrives and returns without calling
// it once done is closed.
func quitOnSignal(sigs <-chan os.Signal, done <-chan struct{}, quit func()) {
	select {
	case <-sigs:
		quit()
	case <-done:
	}
}
