// Package trace records what an annotate run is doing: which files are being
// processed and how long each stage takes.
//
// # Usage
//
//	cyannotate batch --trace=- --trace-level=detail a.pyx:a.c b.pyx:b.c
//
// # Tracers
//
//   - Nop: disabled tracing, no allocations
//   - StreamTracer: writes every event as it happens (text or NDJSON)
//   - RingTracer: keeps the last N events for a dump after a failure
//   - MultiTracer: stream and ring together
//
// # Levels and scopes
//
// A level decides which scopes are emitted:
//
//   - LevelError: error events only
//   - LevelPhase: the run and per-file spans
//   - LevelDetail: plus pipeline stages (load, replay, render, write)
//   - LevelDebug: plus per-line events
//
// # Context propagation
//
//	ctx = trace.WithTracer(ctx, tracer)
//	ctx, span := trace.Start(ctx, trace.ScopeStage, "render")
//	defer span.End("")
package trace
