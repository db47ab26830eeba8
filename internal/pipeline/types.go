// Package pipeline runs annotate jobs: load the source, replay the generated
// code into a ledger, render the report and write it out. Batch runs jobs in
// parallel, one independent session per file.
package pipeline

import (
	"time"

	"cyannotate/internal/observ"
	"cyannotate/internal/replay"
	"cyannotate/internal/report"
)

// Stage describes a step of an annotate job.
type Stage string

const (
	StageLoad   Stage = "load"
	StageReplay Stage = "replay"
	StageRender Stage = "render"
	StageWrite  Stage = "write"
)

// Stages lists the stages in execution order.
var Stages = []Stage{StageLoad, StageReplay, StageRender, StageWrite}

// Status captures progress state within a stage.
type Status string

const (
	StatusQueued  Status = "queued"
	StatusWorking Status = "working"
	StatusDone    Status = "done"
	StatusError   Status = "error"
)

// Event reports progress for a file (or for the whole batch when File is empty).
type Event struct {
	File    string
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
}

// ProgressSink consumes progress events.
type ProgressSink interface {
	OnEvent(Event)
}

// Job is one source file and the generated code compiled from it.
type Job struct {
	Source    string // source file, path or afs URL
	Generated string // generated C file
	Output    string // report location; empty means next to Generated
	LedgerOut string // optional ledger snapshot location
}

// OutputPath returns where the report of j is written.
func (j Job) OutputPath() string {
	if j.Output != "" {
		return j.Output
	}
	return report.OutputPath(j.Generated)
}

// Result describes a finished job.
type Result struct {
	Job         Job
	Output      string
	Lines       int // source lines
	Mapped      int // source lines with generated code
	Replay      replay.Stats
	Fingerprint uint64
	Hot         []report.LineScore
	Timings     observ.Report
	Span        uint64 // trace span of the job, 0 when tracing is off
	Err         error
}
