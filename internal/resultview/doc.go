// Package resultview turns an analysis result into a display-independent
// view tree. Building a view never fails and never touches the network:
// missing optional fields degrade to fixed fallbacks.
//
// The tree is consumed by the TUI (styled with lipgloss) and by headless
// commands (see [View.PlainText]).
package resultview
