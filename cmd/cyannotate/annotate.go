package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"cyannotate/internal/pipeline"
)

var annotateCmd = &cobra.Command{
	Use:   "annotate SOURCE GENERATED",
	Short: "Write the annotated HTML report of one source file",
	Long: `annotate replays the position comments of GENERATED, classifies the
generated code of every SOURCE line and writes an HTML report next to
GENERATED (or to --out).`,
	Args: cobra.ExactArgs(2),
	RunE: runAnnotate,
}

func init() {
	annotateCmd.Flags().StringP("out", "o", "", "report path (default: GENERATED with .html)")
	annotateCmd.Flags().String("rules", "", "rule set file (.toml, .yaml)")
	annotateCmd.Flags().String("highlight", "auto", "source highlighting (auto|treesitter|none)")
	annotateCmd.Flags().Bool("no-raw-link", false, "do not link the generated file from the report")
	annotateCmd.Flags().String("ledger-out", "", "also write the ledger snapshot to this path")
}

func runAnnotate(cmd *cobra.Command, args []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	rd, err := s.renderer()
	if err != nil {
		return err
	}
	out, err := cmd.Flags().GetString("out")
	if err != nil {
		return fmt.Errorf("failed to get out flag: %w", err)
	}
	ledgerOut, err := cmd.Flags().GetString("ledger-out")
	if err != nil {
		return fmt.Errorf("failed to get ledger-out flag: %w", err)
	}

	job := pipeline.Job{Source: args[0], Generated: args[1], Output: out, LedgerOut: ledgerOut}
	res, err := pipeline.Run(cmd.Context(), job, pipeline.Options{
		Renderer: rd,
		RawLink:  s.rawLink,
		Top:      s.top,
	})
	if err != nil {
		return err
	}
	return printResults(cmd, s, rd, []*pipeline.Result{res})
}
