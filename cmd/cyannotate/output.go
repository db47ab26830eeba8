package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"cyannotate/internal/pipeline"
	"cyannotate/internal/report"
	"cyannotate/internal/ui"
)

func printResults(cmd *cobra.Command, s *settings, rd *report.Renderer, results []*pipeline.Result) error {
	out := cmd.OutOrStdout()
	for _, res := range results {
		if res == nil {
			continue
		}
		if res.Err != nil {
			tracing.dumpJob(cmd.ErrOrStderr(), res.Job.Source, res.Span)
			continue
		}
		if !s.quiet {
			fmt.Fprintf(out, "wrote %s (%d lines, %d with generated code, fingerprint %016x)\n",
				res.Output, res.Lines, res.Mapped, res.Fingerprint)
		}
		if s.top > 0 && len(res.Hot) > 0 {
			if err := ui.RenderHotLines(out, res.Job.Source, res.Hot, terminalWidth()); err != nil {
				return err
			}
			if !s.quiet {
				for _, h := range res.Hot {
					fmt.Fprintf(out, "  %5d: %s\n", h.Line, ui.CountsLine(rd.Classifier.Categories(), h.Counts))
				}
			}
		}
		if s.timings {
			printStageTimings(out, res.Timings)
		}
	}
	return nil
}
