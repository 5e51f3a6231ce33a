package workflow

import (
	"context"

	"github.com/Iron-Ham/contractlens/internal/contract"
	"github.com/Iron-Ham/contractlens/internal/errors"
)

// Service is the remote half of the upload/analyze sequence.
type Service interface {
	Upload(ctx context.Context, file contract.SelectedFile) (*contract.UploadResponse, error)
	Analyze(ctx context.Context, contractID, text string) (*contract.AnalysisResult, error)
}

// Upload performs the upload step for ticket t and reports the outcome to o.
// On success it returns the analyze ticket.
func Upload(ctx context.Context, o *Orchestrator, svc Service, t Ticket) (Ticket, error) {
	resp, err := svc.Upload(ctx, t.File)
	if err != nil {
		if staleErr := o.UploadFailed(t, err); staleErr != nil {
			return Ticket{}, staleErr
		}
		return Ticket{}, err
	}
	return o.UploadSucceeded(t, resp)
}

// Analyze performs the analyze step for ticket t and reports the outcome to o.
func Analyze(ctx context.Context, o *Orchestrator, svc Service, t Ticket) (*contract.AnalysisResult, error) {
	result, err := svc.Analyze(ctx, t.ContractID, t.Text)
	if err != nil {
		if staleErr := o.AnalyzeFailed(t, err); staleErr != nil {
			return nil, staleErr
		}
		return nil, err
	}
	if err := o.AnalyzeSucceeded(t, result); err != nil {
		return nil, err
	}
	return result, nil
}

// Run drives one complete sequence synchronously for the selected file.
// On failure it recovers to FileSelected immediately and returns the cause.
func Run(ctx context.Context, o *Orchestrator, svc Service) (*contract.AnalysisResult, error) {
	t, err := o.Start()
	if err != nil {
		return nil, err
	}

	at, err := Upload(ctx, o, svc, t)
	if err != nil {
		recoverAfter(o, err)
		return nil, err
	}

	result, err := Analyze(ctx, o, svc, at)
	if err != nil {
		recoverAfter(o, err)
		return nil, err
	}
	return result, nil
}

// recoverAfter leaves Error unless the failure was a stale response, which
// never moved the stage.
func recoverAfter(o *Orchestrator, err error) {
	if errors.Is(err, errors.ErrStaleResponse) {
		return
	}
	if o.Stage() == StageError {
		_ = o.Recover()
	}
}
