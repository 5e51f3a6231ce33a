package workflow

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/Iron-Ham/contractlens/internal/contract"
	"github.com/Iron-Ham/contractlens/internal/errors"
	"github.com/Iron-Ham/contractlens/internal/insight"
	"github.com/Iron-Ham/contractlens/internal/logging"
)

func pdf(name string) contract.SelectedFile {
	return contract.FromBytes(name, "application/pdf", []byte("%PDF-1.4"))
}

func upload(id string) *contract.UploadResponse {
	return &contract.UploadResponse{ContractID: id, Text: "text of " + id}
}

func result(kind string) *contract.AnalysisResult {
	return &contract.AnalysisResult{
		ContractType: kind,
		Clauses:      []contract.Clause{{Text: kind + " clause one"}, {Text: kind + " clause two"}},
	}
}

// toResults drives o from Idle to Results for file.
func toResults(t *testing.T, o *Orchestrator, file contract.SelectedFile, id string) {
	t.Helper()
	if _, err := o.SelectFile(file); err != nil {
		t.Fatalf("SelectFile() error = %v", err)
	}
	ut, err := o.Start()
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	at, err := o.UploadSucceeded(ut, upload(id))
	if err != nil {
		t.Fatalf("UploadSucceeded() error = %v", err)
	}
	if err := o.AnalyzeSucceeded(at, result(id)); err != nil {
		t.Fatalf("AnalyzeSucceeded() error = %v", err)
	}
}

func TestOrchestrator_HappyPath(t *testing.T) {
	var transitions []Transition
	o := New()
	o.OnTransition(func(tr Transition) { transitions = append(transitions, tr) })

	if o.Stage() != StageIdle {
		t.Fatalf("initial stage = %s", o.Stage())
	}

	preview, err := o.SelectFile(pdf("nda.pdf"))
	if err != nil {
		t.Fatal(err)
	}
	if preview.Name != "nda.pdf" || preview.Size != "8 B" {
		t.Errorf("preview = %+v", preview)
	}

	ut, err := o.Start()
	if err != nil {
		t.Fatal(err)
	}
	if o.Stage() != StageUploading {
		t.Fatalf("stage after Start = %s", o.Stage())
	}

	at, err := o.UploadSucceeded(ut, upload("abc123"))
	if err != nil {
		t.Fatal(err)
	}
	if at.ContractID != "abc123" || at.Text != "text of abc123" {
		t.Errorf("analyze ticket = %+v", at)
	}
	if s := o.Snapshot(); s.Stage != StageAnalyzing || s.Session == nil || s.Result != nil {
		t.Fatalf("snapshot after upload = %+v", s)
	}

	if err := o.AnalyzeSucceeded(at, result("employment")); err != nil {
		t.Fatal(err)
	}

	s := o.Snapshot()
	if s.Stage != StageResults || s.Result == nil || s.Session.ContractID != "abc123" {
		t.Fatalf("snapshot after analyze = %+v", s)
	}

	want := []Stage{StageFileSelected, StageUploading, StageAnalyzing, StageResults}
	if len(transitions) != len(want) {
		t.Fatalf("transitions = %+v", transitions)
	}
	for i, tr := range transitions {
		if tr.To != want[i] {
			t.Errorf("transition %d to %s, want %s", i, tr.To, want[i])
		}
	}
}

func TestOrchestrator_RejectedFileKeepsStage(t *testing.T) {
	o := New()

	_, err := o.SelectFile(contract.FromBytes("virus.exe", "application/octet-stream", []byte("MZ")))
	if !errors.Is(err, errors.ErrUnsupportedType) {
		t.Fatalf("SelectFile() error = %v", err)
	}
	s := o.Snapshot()
	if s.Stage != StageIdle || s.File != nil {
		t.Errorf("rejection must not advance: %+v", s)
	}
	if s.Notice.Level != NoticeWarning || !strings.Contains(s.Notice.Message, "Unsupported file type") {
		t.Errorf("notice = %+v", s.Notice)
	}

	if _, err := o.SelectFile(pdf("ok.pdf")); err != nil {
		t.Fatal(err)
	}
	if _, err := o.SelectFile(contract.SelectedFile{Name: "huge.pdf", Size: 17 << 20}); err == nil {
		t.Fatal("expected rejection")
	}
	if s := o.Snapshot(); s.Stage != StageFileSelected || s.File.Name != "ok.pdf" {
		t.Errorf("previous selection should survive a rejection: %+v", s)
	}
}

func TestOrchestrator_UploadFailureRecoversToFileSelected(t *testing.T) {
	o := New()
	file := pdf("lease.pdf")
	_, _ = o.SelectFile(file)
	ut, _ := o.Start()

	cause := errors.NewTransportError(errors.OpUpload, errors.ErrServerRejected).
		WithStatus(400).WithServerMessage("unsupported encoding")
	if err := o.UploadFailed(ut, cause); err != nil {
		t.Fatal(err)
	}

	s := o.Snapshot()
	if s.Stage != StageError || s.Notice.Message != "unsupported encoding" || s.Notice.Level != NoticeError {
		t.Fatalf("snapshot = %+v", s)
	}

	if err := o.Reset(); !errors.Is(err, errors.ErrIllegalTransition) {
		t.Errorf("Reset from Error = %v, want illegal transition", err)
	}
	if _, err := o.Start(); err == nil {
		t.Error("Start from Error should fail")
	}

	if err := o.Recover(); err != nil {
		t.Fatal(err)
	}
	s = o.Snapshot()
	if s.Stage != StageFileSelected || s.File == nil || !s.File.Same(file) {
		t.Errorf("recovery must keep the selected file: %+v", s)
	}
	if s.Session != nil {
		t.Error("no session after a failed upload")
	}
}

func TestOrchestrator_AnalyzeFailureDropsSession(t *testing.T) {
	o := New()
	_, _ = o.SelectFile(pdf("a.pdf"))
	ut, _ := o.Start()
	at, _ := o.UploadSucceeded(ut, upload("abc123"))

	if err := o.AnalyzeFailed(at, errors.NewTransportError(errors.OpAnalyze, errors.ErrServerRejected).WithStatus(500)); err != nil {
		t.Fatal(err)
	}
	s := o.Snapshot()
	if s.Stage != StageError || s.Session != nil || s.Result != nil {
		t.Fatalf("snapshot = %+v", s)
	}
	if s.Notice.Message != "Analysis failed" {
		t.Errorf("notice = %q", s.Notice.Message)
	}

	_ = o.Recover()
	next, err := o.Start()
	if err != nil {
		t.Fatalf("Start() after recovery = %v", err)
	}
	if next.ContractID != "" || o.Stage() != StageUploading {
		t.Error("next Start should upload again")
	}
}

func TestOrchestrator_StartWhileBusy(t *testing.T) {
	o := New()
	_, _ = o.SelectFile(pdf("a.pdf"))
	if _, err := o.Start(); err != nil {
		t.Fatal(err)
	}
	if _, err := o.Start(); !errors.Is(err, errors.ErrSequenceBusy) {
		t.Errorf("second Start() = %v, want ErrSequenceBusy", err)
	}

	idle := New()
	_, err := idle.Start()
	var pe *errors.PreconditionError
	if !errors.As(err, &pe) || !errors.Is(err, errors.ErrNoFile) {
		t.Errorf("Start() with no file = %v", err)
	}
}

func TestOrchestrator_StaleAnalyzeResponseDiscarded(t *testing.T) {
	var logs bytes.Buffer
	o := New(WithLogger(logging.NewWriterLogger(&logs, "debug")))

	_, _ = o.SelectFile(pdf("first.pdf"))
	ut1, _ := o.Start()
	at1, err := o.UploadSucceeded(ut1, upload("first"))
	if err != nil {
		t.Fatal(err)
	}

	// A second file and upload start before the first analysis returns.
	if _, err := o.SelectFile(pdf("second.pdf")); err != nil {
		t.Fatalf("SelectFile() while analyzing = %v", err)
	}
	ut2, err := o.Start()
	if err != nil {
		t.Fatal(err)
	}

	if err := o.AnalyzeSucceeded(at1, result("first")); !errors.Is(err, errors.ErrStaleResponse) {
		t.Fatalf("late analyze = %v, want ErrStaleResponse", err)
	}
	if err := o.AnalyzeFailed(at1, errors.New("late failure")); !errors.Is(err, errors.ErrStaleResponse) {
		t.Fatalf("late analyze failure = %v, want ErrStaleResponse", err)
	}
	if o.Stage() != StageUploading {
		t.Fatalf("stale responses must not move the stage, got %s", o.Stage())
	}

	at2, err := o.UploadSucceeded(ut2, upload("second"))
	if err != nil {
		t.Fatal(err)
	}
	if err := o.AnalyzeSucceeded(at1, result("first")); !errors.Is(err, errors.ErrStaleResponse) {
		t.Fatalf("late analyze after new session = %v", err)
	}
	if err := o.AnalyzeSucceeded(at2, result("second")); err != nil {
		t.Fatal(err)
	}

	s := o.Snapshot()
	if s.Session.ContractID != "second" || s.Result.ContractType != "second" || s.File.Name != "second.pdf" {
		t.Errorf("state overwritten by stale sequence: %+v", s)
	}
	if !strings.Contains(logs.String(), "discarding stale response") {
		t.Error("expected stale response to be logged")
	}
}

func TestOrchestrator_StaleUploadResponseDiscarded(t *testing.T) {
	o := New()
	_, _ = o.SelectFile(pdf("first.pdf"))
	ut1, _ := o.Start()
	_, _ = o.SelectFile(pdf("second.pdf"))

	if _, err := o.UploadSucceeded(ut1, upload("first")); !errors.Is(err, errors.ErrStaleResponse) {
		t.Fatalf("late upload = %v", err)
	}
	if err := o.UploadFailed(ut1, errors.New("x")); !errors.Is(err, errors.ErrStaleResponse) {
		t.Fatalf("late upload failure = %v", err)
	}
	if s := o.Snapshot(); s.Stage != StageFileSelected || s.Session != nil {
		t.Errorf("snapshot = %+v", s)
	}
}

func TestOrchestrator_UploadWithoutContractID(t *testing.T) {
	o := New()
	_, _ = o.SelectFile(pdf("a.pdf"))
	ut, _ := o.Start()

	_, err := o.UploadSucceeded(ut, &contract.UploadResponse{Text: "x"})
	if !errors.Is(err, errors.ErrMalformedResponse) {
		t.Fatalf("UploadSucceeded() = %v", err)
	}
	if o.Stage() != StageError {
		t.Errorf("stage = %s, want error", o.Stage())
	}
}

func TestOrchestrator_ResetClearsTogether(t *testing.T) {
	cache, _ := insight.NewCache(4)
	o := New(WithInsightCache(cache))
	toResults(t, o, pdf("a.pdf"), "abc123")

	q, _, err := o.ClauseInput(0)
	if err != nil {
		t.Fatal(err)
	}
	if err := o.StoreInsight(q, &contract.ClauseInsight{Explanation: "x"}); err != nil {
		t.Fatal(err)
	}

	if err := o.Reset(); err != nil {
		t.Fatal(err)
	}
	s := o.Snapshot()
	if s.Stage != StageIdle || s.Session != nil || s.Result != nil || s.File != nil {
		t.Errorf("Reset left state behind: %+v", s)
	}
	if cache.Len() != 0 {
		t.Error("Reset should purge cached insights")
	}
	if err := o.Reset(); !errors.Is(err, errors.ErrIllegalTransition) {
		t.Errorf("Reset from Idle = %v", err)
	}
}

func TestOrchestrator_ExportInput(t *testing.T) {
	o := New()

	_, _, err := o.ExportInput()
	var pe *errors.PreconditionError
	if !errors.As(err, &pe) || !errors.Is(err, errors.ErrNoSession) {
		t.Fatalf("ExportInput() without session = %v", err)
	}

	_, _ = o.SelectFile(pdf("a.pdf"))
	ut, _ := o.Start()
	_, _ = o.UploadSucceeded(ut, upload("abc123"))
	if _, _, err := o.ExportInput(); !errors.Is(err, errors.ErrNoAnalysis) {
		t.Fatalf("ExportInput() without analysis = %v", err)
	}

	o2 := New()
	toResults(t, o2, pdf("a.pdf"), "abc123")
	id, res, err := o2.ExportInput()
	if err != nil || id != "abc123" || res == nil {
		t.Errorf("ExportInput() = %q, %v, %v", id, res, err)
	}
}

func TestOrchestrator_ClauseInput(t *testing.T) {
	cache, _ := insight.NewCache(4)
	o := New(WithInsightCache(cache))

	if _, _, err := o.ClauseInput(0); !errors.Is(err, errors.ErrNoSession) {
		t.Fatalf("ClauseInput() without session = %v", err)
	}

	toResults(t, o, pdf("a.pdf"), "abc123")

	q, cached, err := o.ClauseInput(1)
	if err != nil {
		t.Fatal(err)
	}
	if cached != nil {
		t.Error("nothing cached yet")
	}
	if q.ClauseID != "clause-2" || q.Text != "abc123 clause two" || q.ContractType != "abc123" {
		t.Errorf("query = %+v", q)
	}

	ci := &contract.ClauseInsight{ClauseID: "clause-2"}
	if err := o.StoreInsight(q, ci); err != nil {
		t.Fatal(err)
	}
	if _, cached, _ := o.ClauseInput(1); cached != ci {
		t.Error("expected cached insight on second request")
	}

	if _, _, err := o.ClauseInput(5); err == nil {
		t.Error("expected out of range error")
	}

	stale := q
	stale.ContractID = "other"
	if err := o.StoreInsight(stale, ci); !errors.Is(err, errors.ErrStaleResponse) {
		t.Errorf("StoreInsight() for other session = %v", err)
	}
}

func TestOrchestrator_RevalidateAndDeselect(t *testing.T) {
	clock := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	o := New(WithClock(func() time.Time { return clock }))
	file := contract.SelectedFile{Name: "a.pdf", Size: 10, Path: "/tmp/a.pdf"}
	_, _ = o.SelectFile(file)

	grown := file
	grown.Size = 2048
	preview, err := o.Revalidate(grown)
	if err != nil {
		t.Fatal(err)
	}
	if preview.Size != "2.0 KiB" || o.Snapshot().Preview.Size != "2.0 KiB" {
		t.Errorf("preview not refreshed: %+v", preview)
	}

	other := contract.SelectedFile{Name: "b.pdf", Size: 1, Path: "/tmp/b.pdf"}
	if _, err := o.Revalidate(other); !errors.Is(err, errors.ErrStaleResponse) {
		t.Errorf("Revalidate() for another file = %v", err)
	}

	tooBig := file
	tooBig.Size = 20 << 20
	if _, err := o.Revalidate(tooBig); !errors.Is(err, errors.ErrFileTooLarge) {
		t.Fatalf("Revalidate() = %v", err)
	}
	s := o.Snapshot()
	if s.Stage != StageIdle || s.File != nil || !s.Notice.At.Equal(clock) {
		t.Errorf("snapshot = %+v", s)
	}

	_, _ = o.SelectFile(file)
	if err := o.Deselect("a.pdf was removed"); err != nil {
		t.Fatal(err)
	}
	if s := o.Snapshot(); s.Stage != StageIdle || s.Notice.Message != "a.pdf was removed" {
		t.Errorf("snapshot = %+v", s)
	}
	if err := o.Deselect(""); !errors.Is(err, errors.ErrIllegalTransition) {
		t.Errorf("Deselect() from Idle = %v", err)
	}
}

func TestOrchestrator_SelectFileFromResultsIsIllegal(t *testing.T) {
	o := New()
	toResults(t, o, pdf("a.pdf"), "abc123")

	if _, err := o.SelectFile(pdf("b.pdf")); !errors.Is(err, errors.ErrIllegalTransition) {
		t.Errorf("SelectFile() from Results = %v", err)
	}
	if o.Snapshot().Result == nil {
		t.Error("results must survive an illegal selection")
	}
}

func TestOrchestrator_Notify(t *testing.T) {
	o := New()
	o.Notify(NoticeInfo, "Exported")
	if n := o.Snapshot().Notice; n.Message != "Exported" || n.Level != NoticeInfo {
		t.Errorf("notice = %+v", n)
	}
	o.ClearNotice()
	if !o.Snapshot().Notice.Empty() {
		t.Error("ClearNotice() should drop the notice")
	}
}

func TestOrchestrator_LogsTransitions(t *testing.T) {
	var logs bytes.Buffer
	o := New(WithLogger(logging.NewWriterLogger(&logs, "debug")))
	toResults(t, o, pdf("a.pdf"), "abc123")

	out := logs.String()
	for _, want := range []string{`"msg":"stage transition"`, `"from":"analyzing"`, `"to":"results"`, `"event":"analyze_succeeded"`, `"contract_id":"abc123"`} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %s", want)
		}
	}
}

func TestOrchestrator_FailureNoticeClassification(t *testing.T) {
	tests := []struct {
		name          string
		cause         error
		wantLevel     NoticeLevel
		wantRetryable bool
	}{
		{
			name:      "client rejection",
			cause:     errors.NewTransportError(errors.OpUpload, errors.ErrServerRejected).WithStatus(400),
			wantLevel: NoticeError,
		},
		{
			name:          "server error",
			cause:         errors.NewTransportError(errors.OpUpload, errors.ErrServerRejected).WithStatus(503),
			wantLevel:     NoticeError,
			wantRetryable: true,
		},
		{
			name:          "network failure",
			cause:         errors.NewTransportError(errors.OpUpload, errors.ErrTimeout),
			wantLevel:     NoticeError,
			wantRetryable: true,
		},
		{
			name:      "file rejected",
			cause:     errors.NewValidationRejection("a.pdf", errors.ErrFileTooLarge),
			wantLevel: NoticeWarning,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := New()
			_, _ = o.SelectFile(pdf("a.pdf"))
			ut, _ := o.Start()
			if err := o.UploadFailed(ut, tt.cause); err != nil {
				t.Fatal(err)
			}
			n := o.Snapshot().Notice
			if n.Level != tt.wantLevel || n.Retryable != tt.wantRetryable {
				t.Errorf("notice = %+v, want level %s retryable %v", n, tt.wantLevel, tt.wantRetryable)
			}
		})
	}
}
