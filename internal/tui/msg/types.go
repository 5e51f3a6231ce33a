package msg

import (
	"github.com/Iron-Ham/contractlens/internal/contract"
	"github.com/Iron-Ham/contractlens/internal/export"
	"github.com/Iron-Ham/contractlens/internal/filewatch"
	"github.com/Iron-Ham/contractlens/internal/workflow"
)

// UploadDoneMsg reports the outcome of an upload. On success Next is the
// analyze ticket.
type UploadDoneMsg struct {
	Ticket workflow.Ticket
	Next   workflow.Ticket
	Err    error
}

// AnalyzeDoneMsg reports the outcome of an analyze request.
type AnalyzeDoneMsg struct {
	Ticket workflow.Ticket
	Result *contract.AnalysisResult
	Err    error
}

// ExportDoneMsg reports the outcome of an export.
type ExportDoneMsg struct {
	Result *export.Result
	Err    error
}

// InsightMsg carries a clause insight fetched for Query.
type InsightMsg struct {
	Query   workflow.ClauseQuery
	Insight *contract.ClauseInsight
	Err     error
}

// RecoverMsg fires once the error stage has been displayed long enough.
// Seq is the sequence that failed; a newer sequence makes it a no-op.
type RecoverMsg struct {
	Seq uint64
}

// FileChangeMsg reports a change to the watched file.
type FileChangeMsg struct {
	Change filewatch.Change
}

// WatchErrMsg reports a watcher failure. Watching stops afterwards.
type WatchErrMsg struct {
	Path string
	Err  error
}
