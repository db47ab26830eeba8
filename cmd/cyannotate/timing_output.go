package main

import (
	"fmt"
	"io"

	"cyannotate/internal/observ"
)

func printStageTimings(out io.Writer, rep observ.Report) {
	if out == nil || len(rep.Phases) == 0 {
		return
	}
	fmt.Fprintf(out, "timings %s:", rep.Path)
	for _, p := range rep.Phases {
		fmt.Fprintf(out, " %s %.1f ms", p.Name, p.DurationMS)
	}
	fmt.Fprintf(out, " (total %.1f ms)\n", rep.TotalMS)
}
