package workflow

import "fmt"

// Stage is the single visible phase of the client workflow.
type Stage int

// Stages. StageIdle is initial; there is no terminal stage.
const (
	StageIdle Stage = iota
	StageFileSelected
	StageUploading
	StageAnalyzing
	StageResults
	StageError
)

var stageNames = [...]string{
	StageIdle:         "idle",
	StageFileSelected: "file_selected",
	StageUploading:    "uploading",
	StageAnalyzing:    "analyzing",
	StageResults:      "results",
	StageError:        "error",
}

// String returns the stage name used in logs.
func (s Stage) String() string {
	if s < 0 || int(s) >= len(stageNames) {
		return fmt.Sprintf("stage(%d)", int(s))
	}
	return stageNames[s]
}

// Busy reports whether an upload/analyze sequence is in flight.
func (s Stage) Busy() bool {
	return s == StageUploading || s == StageAnalyzing
}

// Event triggers a stage transition.
type Event string

// Events.
const (
	EventFileSelected     Event = "file_selected"
	EventDeselect         Event = "deselect"
	EventStart            Event = "start"
	EventUploadSucceeded  Event = "upload_succeeded"
	EventUploadFailed     Event = "upload_failed"
	EventAnalyzeSucceeded Event = "analyze_succeeded"
	EventAnalyzeFailed    Event = "analyze_failed"
	EventRecover          Event = "recover"
	EventReset            Event = "reset"
)

// transitions is the complete stage table. Any (stage, event) pair not listed
// is illegal.
//
// Selecting a file while uploading or analyzing supersedes the in-flight
// sequence; its late responses are discarded by the sequence guard.
var transitions = map[Stage]map[Event]Stage{
	StageIdle: {
		EventFileSelected: StageFileSelected,
	},
	StageFileSelected: {
		EventFileSelected: StageFileSelected,
		EventDeselect:     StageIdle,
		EventStart:        StageUploading,
	},
	StageUploading: {
		EventUploadSucceeded: StageAnalyzing,
		EventUploadFailed:    StageError,
		EventFileSelected:    StageFileSelected,
	},
	StageAnalyzing: {
		EventAnalyzeSucceeded: StageResults,
		EventAnalyzeFailed:    StageError,
		EventFileSelected:     StageFileSelected,
	},
	StageResults: {
		EventReset: StageIdle,
	},
	StageError: {
		EventRecover: StageFileSelected,
	},
}

// Next returns the stage reached from s on e.
func Next(s Stage, e Event) (Stage, bool) {
	to, ok := transitions[s][e]
	return to, ok
}

// Transition records one stage change.
type Transition struct {
	From  Stage
	To    Stage
	Event Event
	Seq   uint64
}
