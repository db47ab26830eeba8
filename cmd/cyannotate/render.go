package main

import (
	"bytes"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/viant/afs"

	"cyannotate/internal/pipeline"
	"cyannotate/internal/report"
	"cyannotate/internal/snapshot"
)

var renderCmd = &cobra.Command{
	Use:   "render SOURCE --ledger FILE",
	Short: "Render a report from a saved ledger snapshot",
	Args:  cobra.ExactArgs(1),
	RunE:  runRender,
}

func init() {
	addRenderFlags(renderCmd)
}

func addRenderFlags(cmd *cobra.Command) {
	cmd.Flags().String("ledger", "", "ledger snapshot written by annotate --ledger-out")
	cmd.Flags().StringP("out", "o", "", "report path (default: SOURCE with .html)")
	cmd.Flags().String("generated", "", "generated file to link from the report")
	cmd.Flags().String("rules", "", "rule set file (.toml, .yaml)")
	cmd.Flags().String("highlight", "auto", "source highlighting (auto|treesitter|none)")
	cmd.Flags().Bool("no-raw-link", false, "do not link the generated file from the report")
	_ = cmd.MarkFlagRequired("ledger")
}

type renderFlags struct {
	ledger    string
	out       string
	generated string
}

func readRenderFlags(cmd *cobra.Command) (renderFlags, error) {
	var (
		rf  renderFlags
		err error
	)
	if rf.ledger, err = cmd.Flags().GetString("ledger"); err != nil {
		return rf, fmt.Errorf("failed to get ledger flag: %w", err)
	}
	if rf.out, err = cmd.Flags().GetString("out"); err != nil {
		return rf, fmt.Errorf("failed to get out flag: %w", err)
	}
	if rf.generated, err = cmd.Flags().GetString("generated"); err != nil {
		return rf, fmt.Errorf("failed to get generated flag: %w", err)
	}
	return rf, nil
}

func runRender(cmd *cobra.Command, args []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	rd, err := s.renderer()
	if err != nil {
		return err
	}
	rf, err := readRenderFlags(cmd)
	if err != nil {
		return err
	}
	ledgerPath, out, generated := rf.ledger, rf.out, rf.generated

	fs := afs.New()
	data, err := fs.DownloadWithURL(cmd.Context(), absLocation(ledgerPath))
	if err != nil {
		return fmt.Errorf("ledger %s: %w", ledgerPath, err)
	}
	store, err := snapshot.Load(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("ledger %s: %w", ledgerPath, err)
	}

	job := pipeline.Job{Source: args[0], Generated: generated, Output: out}
	if job.Output == "" {
		job.Output = report.OutputPath(args[0])
	}
	res, err := pipeline.RenderStore(cmd.Context(), job, store, pipeline.Options{
		Renderer: rd,
		RawLink:  s.rawLink && generated != "",
		Top:      s.top,
		FS:       fs,
	})
	if err != nil {
		return err
	}
	return printResults(cmd, s, rd, []*pipeline.Result{res})
}
