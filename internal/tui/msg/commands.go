package msg

import (
	"context"
	"time"

	"github.com/Iron-Ham/contractlens/internal/api"
	"github.com/Iron-Ham/contractlens/internal/contract"
	"github.com/Iron-Ham/contractlens/internal/export"
	"github.com/Iron-Ham/contractlens/internal/filewatch"
	"github.com/Iron-Ham/contractlens/internal/workflow"
	tea "github.com/charmbracelet/bubbletea"
)

// ClauseAnalyzer fetches the insight for a single clause.
type ClauseAnalyzer interface {
	AnalyzeClause(ctx context.Context, clauseID, text, contractType string) (*contract.ClauseInsight, error)
}

// Upload returns a command that uploads the file of ticket t.
func Upload(ctx context.Context, o *workflow.Orchestrator, svc workflow.Service, t workflow.Ticket) tea.Cmd {
	return func() tea.Msg {
		next, err := workflow.Upload(ctx, o, svc, t)
		return UploadDoneMsg{Ticket: t, Next: next, Err: err}
	}
}

// Analyze returns a command that requests the analysis for ticket t.
func Analyze(ctx context.Context, o *workflow.Orchestrator, svc workflow.Service, t workflow.Ticket) tea.Cmd {
	return func() tea.Msg {
		result, err := workflow.Analyze(ctx, o, svc, t)
		return AnalyzeDoneMsg{Ticket: t, Result: result, Err: err}
	}
}

// Export returns a command that exports the loaded analysis in format.
func Export(ctx context.Context, trigger *export.Trigger, format api.Format) tea.Cmd {
	return func() tea.Msg {
		res, err := trigger.Export(ctx, format)
		return ExportDoneMsg{Result: res, Err: err}
	}
}

// FetchInsight returns a command that requests the insight for q.
func FetchInsight(ctx context.Context, client ClauseAnalyzer, q workflow.ClauseQuery) tea.Cmd {
	return func() tea.Msg {
		ci, err := client.AnalyzeClause(ctx, q.ClauseID, q.Text, q.ContractType)
		return InsightMsg{Query: q, Insight: ci, Err: err}
	}
}

// RecoverAfter returns a command that sends a RecoverMsg for seq after d.
func RecoverAfter(d time.Duration, seq uint64) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return RecoverMsg{Seq: seq}
	})
}

// WaitForChange returns a command that blocks until w reports a change or an
// error. It returns nil once the watcher is closed.
func WaitForChange(w *filewatch.Watcher) tea.Cmd {
	if w == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case c, ok := <-w.Changes():
			if !ok {
				return nil
			}
			return FileChangeMsg{Change: c}
		case err, ok := <-w.Errors():
			if !ok {
				return nil
			}
			return WatchErrMsg{Path: w.Path(), Err: err}
		}
	}
}
