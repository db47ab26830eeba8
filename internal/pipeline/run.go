package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/viant/afs"

	"cyannotate/internal/annotate"
	"cyannotate/internal/observ"
	"cyannotate/internal/replay"
	"cyannotate/internal/report"
	"cyannotate/internal/snapshot"
	"cyannotate/internal/source"
	"cyannotate/internal/trace"
)

// Options configures Run and Batch.
type Options struct {
	Renderer *report.Renderer
	RawLink  bool         // link the generated file from the report
	Top      int          // hot lines kept in Result.Hot; 0 keeps all
	Jobs     int          // Batch parallelism; <= 0 means GOMAXPROCS
	Progress ProgressSink // optional
	FS       afs.Service  // nil means afs.New()
}

func (o Options) fs() afs.Service {
	if o.FS != nil {
		return o.FS
	}
	return afs.New()
}

func (o Options) renderer() *report.Renderer {
	if o.Renderer != nil {
		return o.Renderer
	}
	return &report.Renderer{}
}

type jobRun struct {
	ctx   context.Context
	job   Job
	opts  Options
	fs    afs.Service
	timer *observ.Timer
}

// stage runs fn as one traced, timed step and reports its progress.
func (r *jobRun) stage(s Stage, fn func(ctx context.Context) error) error {
	if err := r.ctx.Err(); err != nil {
		return err
	}
	ctx, span := trace.Start(r.ctx, trace.ScopeStage, string(s))
	emit(r.opts.Progress, r.job.Source, s, StatusWorking, nil)
	started := time.Now()
	err := r.timer.Time(string(s), func() error { return fn(ctx) })
	if err != nil {
		span.End(err.Error())
		trace.Error(ctx, string(s), err)
		emit(r.opts.Progress, r.job.Source, s, StatusError, err)
		return fmt.Errorf("%s %s: %w", s, r.job.Source, err)
	}
	span.End("")
	if r.opts.Progress != nil {
		r.opts.Progress.OnEvent(Event{File: r.job.Source, Stage: s, Status: StatusDone, Elapsed: time.Since(started)})
	}
	return nil
}

// Run annotates one job. Nothing is written when any stage before the write
// fails, so a broken input never leaves a partial report behind.
func Run(ctx context.Context, job Job, opts Options) (*Result, error) {
	var store *annotate.Store
	res := &Result{Job: job, Output: job.OutputPath()}
	r := newJobRun(ctx, job, opts)

	ctx, span := trace.Start(ctx, trace.ScopeFile, "file:"+job.Source)
	r.ctx = ctx
	res.Span = span.ID()
	defer func() {
		res.Timings = r.report()
		span.WithExtra("mapped", strconv.Itoa(res.Mapped)).End(errDetail(res.Err))
	}()

	src, err := r.loadSource()
	if err != nil {
		res.Err = err
		return res, err
	}
	err = r.stage(StageReplay, func(ctx context.Context) error {
		raw, err := r.fs.DownloadWithURL(ctx, location(job.Generated))
		if err != nil {
			return err
		}
		store, res.Replay, err = replay.Replay(ctx, bytes.NewReader(raw), nil)
		return err
	})
	if err != nil {
		res.Err = err
		return res, err
	}
	if err := r.renderAndWrite(src, store, res); err != nil {
		res.Err = err
		return res, err
	}
	return res, nil
}

// RenderStore renders job from an existing ledger instead of replaying the
// generated file. job.Generated is only used for the raw output link.
func RenderStore(ctx context.Context, job Job, store *annotate.Store, opts Options) (*Result, error) {
	res := &Result{Job: job, Output: job.OutputPath()}
	r := newJobRun(ctx, job, opts)

	ctx, span := trace.Start(ctx, trace.ScopeFile, "file:"+job.Source)
	r.ctx = ctx
	res.Span = span.ID()
	defer func() {
		res.Timings = r.report()
		span.End(errDetail(res.Err))
	}()

	src, err := r.loadSource()
	if err == nil {
		err = r.renderAndWrite(src, store, res)
	}
	res.Err = err
	return res, err
}

func newJobRun(ctx context.Context, job Job, opts Options) *jobRun {
	return &jobRun{ctx: ctx, job: job, opts: opts, fs: opts.fs(), timer: observ.NewTimer()}
}

func (r *jobRun) report() observ.Report {
	rep := r.timer.Report()
	rep.Path = r.job.Source
	return rep
}

func (r *jobRun) loadSource() (*source.File, error) {
	var file *source.File
	err := r.stage(StageLoad, func(ctx context.Context) error {
		raw, err := r.fs.DownloadWithURL(ctx, location(r.job.Source))
		if err != nil {
			return err
		}
		fs := source.NewFileSet()
		id, err := fs.AddBytes(r.job.Source, raw)
		if err != nil {
			return err
		}
		file = fs.Get(id)
		return nil
	})
	return file, err
}

func (r *jobRun) renderAndWrite(file *source.File, store *annotate.Store, res *Result) error {
	src := file.Text()
	var lines map[int]string
	if key, ok := store.Resolve(r.job.Source); ok {
		lines = store.Lines(key)
	} else {
		trace.Point(r.ctx, trace.ScopeStage, "ledger", "no generated code for "+r.job.Source)
	}
	res.Lines = file.LineCount()
	for k := range lines {
		if k >= 1 && k <= res.Lines {
			res.Mapped++
		}
	}

	rd := r.opts.renderer()
	var out bytes.Buffer
	err := r.stage(StageRender, func(context.Context) error {
		rawLink := ""
		if r.opts.RawLink && r.job.Generated != "" {
			rawLink = path.Base(filepath.ToSlash(r.job.Generated))
		}
		res.Fingerprint = report.Fingerprint(src, lines)
		res.Hot = rd.Summary(src, lines, r.opts.Top)
		return rd.Render(&out, src, lines, rawLink)
	})
	if err != nil {
		return err
	}

	return r.stage(StageWrite, func(ctx context.Context) error {
		if err := r.fs.Upload(ctx, location(res.Output), 0o644, &out); err != nil {
			return err
		}
		if r.job.LedgerOut == "" {
			return nil
		}
		var ledger bytes.Buffer
		if err := snapshot.Save(&ledger, store); err != nil {
			return err
		}
		return r.fs.Upload(ctx, location(r.job.LedgerOut), 0o644, &ledger)
	})
}

// location turns a local path into an absolute one; URLs pass through.
func location(p string) string {
	if strings.Contains(p, "://") {
		return p
	}
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}

func errDetail(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
