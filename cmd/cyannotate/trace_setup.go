package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"cyannotate/internal/trace"
)

// traceSession is the tracer of one CLI invocation.
type traceSession struct {
	tracer trace.Tracer
	mode   trace.StorageMode
	format trace.Format
	span   *trace.Span
	dumped bool
}

var noTrace = &traceSession{tracer: trace.Nop}

// recorder returns the ring of a ring-only session; with a stream attached
// the events were already written.
func (ts *traceSession) recorder() *trace.RingTracer {
	if ts.mode != trace.ModeRing {
		return nil
	}
	return trace.RingOf(ts.tracer)
}

// dumpJob writes the recorded events of one failed job.
func (ts *traceSession) dumpJob(w io.Writer, name string, span uint64) {
	ring := ts.recorder()
	if ring == nil || span == 0 {
		return
	}
	fmt.Fprintf(w, "trace of %s:\n", name)
	if err := ring.DumpSpan(w, ts.format, span); err != nil {
		fmt.Fprintf(w, "trace: dump error: %v\n", err)
	}
	ts.dumped = true
}

// close ends the run span and releases the tracer. A failed run dumps the
// whole ring unless the failing jobs were dumped already.
func (ts *traceSession) close(w io.Writer, failed bool) {
	if ts.span != nil {
		ts.span.End("")
	}
	if ring := ts.recorder(); ring != nil && failed && !ts.dumped {
		if err := ring.Dump(w, ts.format); err != nil {
			fmt.Fprintf(w, "trace: dump error: %v\n", err)
		}
	}
	if err := ts.tracer.Flush(); err != nil {
		fmt.Fprintf(w, "trace: flush error: %v\n", err)
	}
	if err := ts.tracer.Close(); err != nil {
		fmt.Fprintf(w, "trace: close error: %v\n", err)
	}
}

// setupTracing reads the trace flags and attaches a tracer to the command
// context.
func setupTracing(cmd *cobra.Command) (*traceSession, error) {
	pf := cmd.Root().PersistentFlags()

	traceOutput, err := pf.GetString("trace")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace flag: %w", err)
	}
	levelStr, err := pf.GetString("trace-level")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-level flag: %w", err)
	}
	modeStr, err := pf.GetString("trace-mode")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-mode flag: %w", err)
	}
	formatStr, err := pf.GetString("trace-format")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-format flag: %w", err)
	}
	ringSize, err := pf.GetInt("trace-ring-size")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-ring-size flag: %w", err)
	}

	level, err := trace.ParseLevel(levelStr)
	if err != nil {
		return nil, err
	}
	// --trace без уровня включает phase
	if level == trace.LevelOff && traceOutput != "" {
		level = trace.LevelPhase
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if level == trace.LevelOff {
		cmd.SetContext(trace.WithTracer(ctx, trace.Nop))
		return noTrace, nil
	}

	mode, err := trace.ParseMode(modeStr)
	if err != nil {
		return nil, err
	}
	format, err := trace.ParseFormat(formatStr)
	if err != nil {
		return nil, err
	}

	tracer, err := trace.New(trace.Config{
		Level:    level,
		Mode:     mode,
		Format:   format,
		Path:     traceOutput,
		RingSize: ringSize,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create tracer: %w", err)
	}

	ctx, span := trace.Start(trace.WithTracer(ctx, tracer), trace.ScopeRun, cmd.Name())
	cmd.SetContext(ctx)
	return &traceSession{tracer: tracer, mode: mode, format: format, span: span}, nil
}
