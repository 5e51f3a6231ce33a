// Package workflow implements the upload → analyze → results state machine.
//
// The Orchestrator is the sole owner of the selected file, the Session and
// the AnalysisResult. Network calls happen outside it: callers obtain a
// Ticket when a request is issued and hand it back with the response. A
// ticket whose sequence number or contract id no longer matches the current
// state is stale and its response is discarded.
package workflow

import (
	"fmt"
	"sync"
	"time"

	"github.com/Iron-Ham/contractlens/internal/contract"
	"github.com/Iron-Ham/contractlens/internal/errors"
	"github.com/Iron-Ham/contractlens/internal/insight"
	"github.com/Iron-Ham/contractlens/internal/logging"
	"github.com/Iron-Ham/contractlens/internal/validate"
)

// Ticket identifies one step of one upload/analyze sequence.
type Ticket struct {
	Seq  uint64
	File contract.SelectedFile
	// ContractID and Text are set on analyze tickets.
	ContractID string
	Text       string
}

// State is a read-only snapshot of the orchestrator.
type State struct {
	Stage   Stage
	File    *contract.SelectedFile
	Preview validate.Preview
	Session *contract.Session
	Result  *contract.AnalysisResult
	Notice  Notice
	Seq     uint64
}

// Orchestrator sequences the workflow. It is safe for concurrent use, though
// the TUI drives it from a single goroutine.
type Orchestrator struct {
	mu sync.Mutex

	stage   Stage
	file    *contract.SelectedFile
	preview validate.Preview
	session *contract.Session
	result  *contract.AnalysisResult
	notice  Notice
	seq     uint64

	insights  *insight.Cache
	base      *logging.Logger
	logger    *logging.Logger // base scoped to the current contract
	now       func() time.Time
	observers []func(Transition)
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(o *Orchestrator) {
		o.base = l.WithComponent("workflow")
		o.logger = o.base
	}
}

// WithInsightCache sets the clause insight cache purged on reset.
func WithInsightCache(c *insight.Cache) Option {
	return func(o *Orchestrator) { o.insights = c }
}

// WithClock overrides the notice timestamp source.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) { o.now = now }
}

// New creates an Orchestrator in StageIdle.
func New(opts ...Option) *Orchestrator {
	o := &Orchestrator{
		stage:  StageIdle,
		base:   logging.NopLogger(),
		logger: logging.NopLogger(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// OnTransition registers fn to be called after every stage change. It is
// called with the orchestrator lock held and must not call back into it.
func (o *Orchestrator) OnTransition(fn func(Transition)) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.observers = append(o.observers, fn)
}

// Stage returns the current stage.
func (o *Orchestrator) Stage() Stage {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.stage
}

// Snapshot returns a copy of the current state.
func (o *Orchestrator) Snapshot() State {
	o.mu.Lock()
	defer o.mu.Unlock()

	s := State{
		Stage:   o.stage,
		Preview: o.preview,
		Session: o.session,
		Result:  o.result,
		Notice:  o.notice,
		Seq:     o.seq,
	}
	if o.file != nil {
		f := *o.file
		s.File = &f
	}
	return s
}

// ClearNotice drops the current notice.
func (o *Orchestrator) ClearNotice() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.notice = Notice{}
}

// Notify records a notice without changing the stage.
func (o *Orchestrator) Notify(level NoticeLevel, msg string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.setNotice(level, msg)
}

// SelectFile validates f and makes it the selected file. A rejected file
// leaves the stage unchanged. Selecting a file while a sequence is in flight
// supersedes that sequence.
func (o *Orchestrator) SelectFile(f contract.SelectedFile) (validate.Preview, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if _, ok := Next(o.stage, EventFileSelected); !ok {
		return validate.Preview{}, o.illegal(EventFileSelected)
	}

	preview, err := validate.File(f)
	if err != nil {
		o.setNotice(NoticeWarning, errors.UserMessage(err))
		o.logger.Info("file rejected", "file", f.Name, "error", err.Error())
		return validate.Preview{}, err
	}

	if o.stage.Busy() {
		o.logger.Info("superseding in-flight sequence", "seq", o.seq)
		o.seq++
		o.clearSession()
	}

	o.file = &f
	o.preview = preview
	o.notice = Notice{}
	o.transition(EventFileSelected)
	return preview, nil
}

// Revalidate re-checks the selected file after it changed on disk. On
// rejection the selection is dropped and the stage returns to Idle.
func (o *Orchestrator) Revalidate(f contract.SelectedFile) (validate.Preview, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.stage != StageFileSelected || o.file == nil || !o.file.Same(f) {
		return validate.Preview{}, errors.ErrStaleResponse
	}

	preview, err := validate.File(f)
	if err != nil {
		o.file = nil
		o.preview = validate.Preview{}
		o.transition(EventDeselect)
		o.setNotice(NoticeWarning, errors.UserMessage(err))
		return validate.Preview{}, err
	}

	o.file = &f
	o.preview = preview
	return preview, nil
}

// Deselect drops the selected file and returns to Idle, e.g. when the file
// was removed from disk.
func (o *Orchestrator) Deselect(reason string) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if _, ok := Next(o.stage, EventDeselect); !ok {
		return o.illegal(EventDeselect)
	}
	o.file = nil
	o.preview = validate.Preview{}
	o.transition(EventDeselect)
	if reason != "" {
		o.setNotice(NoticeWarning, reason)
	}
	return nil
}

// Start begins an upload/analyze sequence for the selected file and returns
// the upload ticket. It fails with ErrSequenceBusy while a sequence is in
// flight.
func (o *Orchestrator) Start() (Ticket, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.stage.Busy() {
		return Ticket{}, errors.ErrSequenceBusy
	}
	if o.file == nil {
		return Ticket{}, errors.NewPreconditionError("upload", errors.ErrNoFile)
	}
	if _, ok := Next(o.stage, EventStart); !ok {
		return Ticket{}, o.illegal(EventStart)
	}

	o.seq++
	o.clearSession()
	o.notice = Notice{}
	o.transition(EventStart)
	return Ticket{Seq: o.seq, File: *o.file}, nil
}

// UploadSucceeded stores the new Session and returns the analyze ticket.
func (o *Orchestrator) UploadSucceeded(t Ticket, resp *contract.UploadResponse) (Ticket, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if err := o.checkTicket(t, StageUploading, false); err != nil {
		return Ticket{}, err
	}
	if resp == nil || resp.ContractID == "" {
		return Ticket{}, o.failLocked(EventUploadFailed,
			errors.NewTransportError(errors.OpUpload, errors.ErrMalformedResponse))
	}

	o.session = resp.Session()
	o.logger = o.base.WithContract(o.session.ContractID)
	o.transition(EventUploadSucceeded)
	return Ticket{
		Seq:        o.seq,
		File:       t.File,
		ContractID: o.session.ContractID,
		Text:       o.session.Text,
	}, nil
}

// UploadFailed moves to Error and surfaces the failure.
func (o *Orchestrator) UploadFailed(t Ticket, cause error) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if err := o.checkTicket(t, StageUploading, false); err != nil {
		return err
	}
	o.failLocked(EventUploadFailed, cause)
	return nil
}

// AnalyzeSucceeded stores the result and moves to Results.
func (o *Orchestrator) AnalyzeSucceeded(t Ticket, result *contract.AnalysisResult) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if err := o.checkTicket(t, StageAnalyzing, true); err != nil {
		return err
	}
	if result == nil {
		o.failLocked(EventAnalyzeFailed, errors.NewTransportError(errors.OpAnalyze, errors.ErrMalformedResponse))
		return nil
	}

	o.result = result
	o.transition(EventAnalyzeSucceeded)
	o.logger.Info("analysis loaded",
		"risk_score", result.Score(),
		"risk_level", string(result.RiskLevel),
		"clauses", len(result.Clauses),
	)
	return nil
}

// AnalyzeFailed moves to Error. The Session is dropped: recovery re-enters
// FileSelected and the next Start uploads again.
func (o *Orchestrator) AnalyzeFailed(t Ticket, cause error) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if err := o.checkTicket(t, StageAnalyzing, true); err != nil {
		return err
	}
	o.failLocked(EventAnalyzeFailed, cause)
	return nil
}

// Recover returns from Error to FileSelected, keeping the selected file.
func (o *Orchestrator) Recover() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if _, ok := Next(o.stage, EventRecover); !ok {
		return o.illegal(EventRecover)
	}
	o.transition(EventRecover)
	return nil
}

// Reset clears the Session, the AnalysisResult and the selected file
// together and returns to Idle.
func (o *Orchestrator) Reset() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if _, ok := Next(o.stage, EventReset); !ok {
		return o.illegal(EventReset)
	}
	o.clearSession()
	o.file = nil
	o.preview = validate.Preview{}
	o.notice = Notice{}
	o.transition(EventReset)
	return nil
}

// ExportInput returns what an export request needs. It fails with a
// PreconditionError when no Session or AnalysisResult is loaded.
func (o *Orchestrator) ExportInput() (string, *contract.AnalysisResult, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.session == nil {
		return "", nil, errors.NewPreconditionError("export", errors.ErrNoSession)
	}
	if o.result == nil {
		return "", nil, errors.NewPreconditionError("export", errors.ErrNoAnalysis)
	}
	return o.session.ContractID, o.result, nil
}

// ClauseQuery describes a clause insight request.
type ClauseQuery struct {
	Index        int
	ClauseID     string
	Text         string
	ContractType string
	ContractID   string
	Key          insight.Key
}

// ClauseInput prepares an insight request for the clause at index. When the
// insight is already cached it is returned and no request is needed.
func (o *Orchestrator) ClauseInput(index int) (ClauseQuery, *contract.ClauseInsight, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.session == nil {
		return ClauseQuery{}, nil, errors.NewPreconditionError("analyze clause", errors.ErrNoSession)
	}
	if o.result == nil {
		return ClauseQuery{}, nil, errors.NewPreconditionError("analyze clause", errors.ErrNoAnalysis)
	}
	if index < 0 || index >= len(o.result.Clauses) {
		return ClauseQuery{}, nil, fmt.Errorf("clause index %d out of range [0,%d)", index, len(o.result.Clauses))
	}

	c := o.result.Clauses[index]
	q := ClauseQuery{
		Index:        index,
		ClauseID:     contract.ClauseID(index),
		Text:         c.Text,
		ContractType: o.result.ContractType,
		ContractID:   o.session.ContractID,
		Key:          insight.KeyFor(o.session.ContractID, c.Text),
	}
	if o.insights != nil {
		if cached, ok := o.insights.Get(q.Key); ok {
			return q, cached, nil
		}
	}
	return q, nil, nil
}

// StoreInsight caches an insight fetched for q. Insights for a session that
// has since been replaced are discarded.
func (o *Orchestrator) StoreInsight(q ClauseQuery, ci *contract.ClauseInsight) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.session == nil || o.session.ContractID != q.ContractID {
		o.logger.Warn("discarding stale clause insight", "clause_id", q.ClauseID, "for_contract", q.ContractID)
		return errors.ErrStaleResponse
	}
	if o.insights != nil {
		o.insights.Put(q.Key, ci)
	}
	return nil
}

// checkTicket rejects responses for superseded sequences.
func (o *Orchestrator) checkTicket(t Ticket, want Stage, needSession bool) error {
	stale := t.Seq != o.seq || o.stage != want
	if !stale && needSession {
		stale = o.session == nil || o.session.ContractID != t.ContractID
	}
	if stale {
		o.logger.Warn("discarding stale response",
			"seq", t.Seq,
			"current_seq", o.seq,
			"stage", o.stage.String(),
		)
		return errors.ErrStaleResponse
	}
	return nil
}

// failLocked moves to Error with a notice built from cause and returns cause.
func (o *Orchestrator) failLocked(e Event, cause error) error {
	o.clearSession()
	o.transition(e)
	o.setNotice(noticeLevelFor(errors.GetSeverity(cause)), errors.UserMessage(cause))
	o.notice.Retryable = errors.IsRetryable(cause)
	if cause != nil {
		o.logger.Error("sequence failed", "event", string(e), "error", cause.Error())
	}
	return cause
}

func (o *Orchestrator) clearSession() {
	o.session = nil
	o.result = nil
	o.logger = o.base
	if o.insights != nil {
		o.insights.Purge()
	}
}

// transition applies e. Callers have already checked legality.
func (o *Orchestrator) transition(e Event) {
	to, ok := Next(o.stage, e)
	if !ok {
		panic(fmt.Sprintf("workflow: unchecked transition %s on %s", o.stage, e))
	}
	tr := Transition{From: o.stage, To: to, Event: e, Seq: o.seq}
	o.stage = to
	o.logger.Debug("stage transition",
		"from", tr.From.String(),
		"to", tr.To.String(),
		"event", string(e),
		"seq", tr.Seq,
	)
	for _, fn := range o.observers {
		fn(tr)
	}
}

func (o *Orchestrator) illegal(e Event) error {
	return fmt.Errorf("%w: %s does not accept %s", errors.ErrIllegalTransition, o.stage, e)
}

func (o *Orchestrator) setNotice(level NoticeLevel, msg string) {
	o.notice = Notice{Level: level, Message: msg, At: o.now()}
}
