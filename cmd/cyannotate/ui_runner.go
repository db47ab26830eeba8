package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"cyannotate/internal/pipeline"
	"cyannotate/internal/ui"
)

type batchOutcome struct {
	results []*pipeline.Result
	err     error
}

func runBatchWithUI(ctx context.Context, jobs []pipeline.Job, opts pipeline.Options) ([]*pipeline.Result, error) {
	events := make(chan pipeline.Event, 256)
	outcomeCh := make(chan batchOutcome, 1)

	go func() {
		runOpts := opts
		runOpts.Progress = pipeline.ChannelSink{Ch: events}
		res, err := pipeline.Batch(ctx, jobs, runOpts)
		outcomeCh <- batchOutcome{results: res, err: err}
		close(events)
	}()

	files := make([]string, len(jobs))
	for i, job := range jobs {
		files[i] = job.Source
	}
	model := ui.NewProgressModel("annotate", files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	// UI мог выйти раньше времени: дочитываем события, чтобы Batch не встал
	go func() {
		for range events {
		}
	}()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.results, uiErr
	}
	return outcome.results, outcome.err
}
