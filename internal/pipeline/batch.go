package pipeline

import (
	"context"
	"errors"
	"runtime"

	"golang.org/x/sync/errgroup"

	"cyannotate/internal/trace"
)

// Batch runs jobs in parallel, at most opts.Jobs at a time. Every job is its
// own session; a failing job does not stop the others. Results keep the order
// of jobs and the returned error joins the per-job errors.
func Batch(ctx context.Context, jobs []Job, opts Options) ([]*Result, error) {
	results := make([]*Result, len(jobs))
	if len(jobs) == 0 {
		return results, nil
	}

	ctx, span := trace.Start(ctx, trace.ScopeRun, "batch")
	defer span.End("")

	for _, job := range jobs {
		emit(opts.Progress, job.Source, StageLoad, StatusQueued, nil)
	}

	limit := opts.Jobs
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}

	// индексы уникальны для каждой горутины, мьютекс не нужен
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(limit, len(jobs)))
	for i, job := range jobs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				results[i] = &Result{Job: job, Output: job.OutputPath(), Err: err}
				return err
			}
			results[i], _ = Run(gctx, job, opts)
			return nil
		})
	}
	waitErr := g.Wait()

	errs := make([]error, 0, len(results))
	for _, res := range results {
		if res != nil && res.Err != nil {
			errs = append(errs, res.Err)
		}
	}
	if len(errs) == 0 && waitErr != nil {
		errs = append(errs, waitErr)
	}
	return results, errors.Join(errs...)
}
