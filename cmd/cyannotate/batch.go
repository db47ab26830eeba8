package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"cyannotate/internal/pipeline"
)

var batchCmd = &cobra.Command{
	Use:   "batch SOURCE[:GENERATED]...",
	Short: "Annotate many files in parallel",
	Long: `batch annotates every SOURCE:GENERATED pair in its own session. When
GENERATED is omitted it is SOURCE with the extension replaced by .c.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().IntP("jobs", "j", 0, "parallel jobs (0 = GOMAXPROCS)")
	batchCmd.Flags().String("ui", "auto", "progress UI (auto|on|off)")
	batchCmd.Flags().String("rules", "", "rule set file (.toml, .yaml)")
	batchCmd.Flags().String("highlight", "auto", "source highlighting (auto|treesitter|none)")
	batchCmd.Flags().Bool("no-raw-link", false, "do not link the generated files from the reports")
}

func runBatch(cmd *cobra.Command, args []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	uiValue, err := cmd.Flags().GetString("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}
	mode, err := readUIMode(uiValue)
	if err != nil {
		return err
	}
	jobs := make([]pipeline.Job, 0, len(args))
	for _, arg := range args {
		job, err := parseJobArg(arg)
		if err != nil {
			return err
		}
		jobs = append(jobs, job)
	}
	rd, err := s.renderer()
	if err != nil {
		return err
	}

	opts := pipeline.Options{Renderer: rd, RawLink: s.rawLink, Top: s.top, Jobs: s.jobs}
	var results []*pipeline.Result
	if shouldUseTUI(mode) && !s.quiet {
		results, err = runBatchWithUI(cmd.Context(), jobs, opts)
	} else {
		results, err = pipeline.Batch(cmd.Context(), jobs, opts)
	}
	if perr := printResults(cmd, s, rd, results); perr != nil {
		return perr
	}
	return err
}

// parseJobArg splits SOURCE:GENERATED. A colon right after a drive letter
// belongs to the path.
func parseJobArg(arg string) (pipeline.Job, error) {
	if strings.TrimSpace(arg) == "" {
		return pipeline.Job{}, fmt.Errorf("empty job argument")
	}
	skip := 0
	if len(arg) > 2 && arg[1] == ':' && (arg[2] == '\\' || arg[2] == '/') {
		skip = 2
	}
	src, gen := arg, ""
	if i := strings.IndexByte(arg[skip:], ':'); i >= 0 {
		src, gen = arg[:skip+i], arg[skip+i+1:]
	}
	if src == "" {
		return pipeline.Job{}, fmt.Errorf("job %q: missing source", arg)
	}
	if gen == "" {
		gen = strings.TrimSuffix(src, filepath.Ext(src)) + ".c"
	}
	return pipeline.Job{Source: src, Generated: gen}, nil
}
