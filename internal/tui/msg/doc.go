// Package msg defines the messages of the TUI's Bubbletea event loop and the
// commands that produce them.
//
// Every network call runs inside a tea.Cmd and reports back with a message
// carrying the workflow ticket it was issued for, so the model can hand the
// outcome to the orchestrator from the event loop goroutine.
package msg
