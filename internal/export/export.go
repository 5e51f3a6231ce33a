// Package export issues report exports for the loaded analysis and delivers
// the returned artifact as contract_analysis_{contractId}.{ext}.
//
// Export never changes the workflow stage. Failures surface as a notice and
// leave the Results view untouched.
package export

import (
	"context"
	"fmt"
	"strings"

	"github.com/Iron-Ham/contractlens/internal/api"
	"github.com/Iron-Ham/contractlens/internal/contract"
	"github.com/Iron-Ham/contractlens/internal/errors"
	"github.com/Iron-Ham/contractlens/internal/logging"
	"github.com/Iron-Ham/contractlens/internal/workflow"
)

// Exporter requests an artifact from the analysis service.
type Exporter interface {
	Export(ctx context.Context, format api.Format, contractID string, analysis *contract.AnalysisResult) (*api.Artifact, error)
}

// Delivery is an artifact ready to be handed to the user.
type Delivery struct {
	ContractID  string
	FileName    string
	ContentType string
	Data        []byte
}

// Sink stores a delivery and returns where it ended up.
type Sink interface {
	Deliver(ctx context.Context, d Delivery) (string, error)
}

// FileName is the download name for an export.
func FileName(contractID string, format api.Format) string {
	return fmt.Sprintf("contract_analysis_%s.%s", safeID(contractID), format.Ext())
}

// safeID keeps the id usable as a single path element.
func safeID(id string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', 0:
			return '_'
		}
		return r
	}, id)
}

// Result describes a completed export.
type Result struct {
	FileName string
	Location string
	// ArchiveLocation is set when the archive copy succeeded.
	ArchiveLocation string
	// ArchiveErr is set when the archive copy failed. The export still counts.
	ArchiveErr error
}

// Trigger runs exports against the orchestrator's current state.
type Trigger struct {
	orch    *workflow.Orchestrator
	client  Exporter
	local   Sink
	archive Sink
	logger  *logging.Logger
}

// NewTrigger creates a Trigger delivering to local. archive may be nil.
func NewTrigger(orch *workflow.Orchestrator, client Exporter, local Sink, archive Sink, logger *logging.Logger) *Trigger {
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &Trigger{
		orch:    orch,
		client:  client,
		local:   local,
		archive: archive,
		logger:  logger.WithComponent("export"),
	}
}

// Export requests the report in format and delivers it. It fails immediately
// with a PreconditionError when no Session or AnalysisResult is loaded.
func (t *Trigger) Export(ctx context.Context, format api.Format) (*Result, error) {
	contractID, analysis, err := t.orch.ExportInput()
	if err != nil {
		t.logger.Error("export precondition violated", "format", string(format), "error", err.Error())
		t.orch.Notify(workflow.NoticeError, errors.UserMessage(err))
		return nil, err
	}
	logger := t.logger.WithContract(contractID)

	artifact, err := t.client.Export(ctx, format, contractID, analysis)
	if err != nil {
		logger.Warn("export failed", "format", string(format), "error", err.Error())
		t.orch.Notify(workflow.NoticeError, errors.UserMessage(err))
		return nil, err
	}

	d := Delivery{
		ContractID:  contractID,
		FileName:    FileName(contractID, format),
		ContentType: artifact.ContentType,
		Data:        artifact.Data,
	}

	location, err := t.local.Deliver(ctx, d)
	if err != nil {
		wrapped := errors.NewTransportError(errors.OpExport, err)
		logger.Error("export delivery failed", "file", d.FileName, "error", err.Error())
		t.orch.Notify(workflow.NoticeError, fmt.Sprintf("Could not save %s", d.FileName))
		return nil, wrapped
	}

	res := &Result{FileName: d.FileName, Location: location}
	logger.Info("export delivered",
		"format", string(format),
		"location", location,
		"bytes", len(d.Data),
		"server_name", artifact.SuggestedName,
	)

	if t.archive != nil {
		archived, err := t.archive.Deliver(ctx, d)
		if err != nil {
			res.ArchiveErr = err
			logger.Warn("export archive failed", "file", d.FileName, "error", err.Error())
			t.orch.Notify(workflow.NoticeWarning, fmt.Sprintf("Saved %s; archive upload failed", location))
			return res, nil
		}
		res.ArchiveLocation = archived
	}

	t.orch.Notify(workflow.NoticeInfo, "Saved "+location)
	return res, nil
}
