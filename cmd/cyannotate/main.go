package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"cyannotate/internal/trace"
	"cyannotate/internal/version"
)

var tracing = noTrace

var rootCmd = &cobra.Command{
	Use:   "cyannotate",
	Short: "Annotate generated C code with its runtime API cost",
	Long: `cyannotate renders an HTML report that shows, line by line, how much
runtime API traffic each line of a Cython-style source generated.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := applyColorFlag(cmd); err != nil {
			return err
		}
		ts, err := setupTracing(cmd)
		if err != nil {
			return err
		}
		tracing = ts
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		tracing.close(cmd.ErrOrStderr(), false)
		tracing = noTrace
	},
}

// main registers subcommands and persistent flags and executes the root
// command; an error exits with status 1.
func main() {
	// версия для автоматического флага --version
	rootCmd.Version = version.Version

	rootCmd.AddCommand(annotateCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(rulesCmd)
	rootCmd.AddCommand(versionCmd)

	if err := rootCmd.Execute(); err != nil {
		tracing.close(os.Stderr, true)
		os.Exit(1)
	}
}

func init() {
	// Глобальные флаги
	pf := rootCmd.PersistentFlags()
	pf.String("color", "auto", "colorize output (auto|on|off)")
	pf.Bool("quiet", false, "suppress non-essential output")
	pf.Bool("timings", false, "show stage timings")
	pf.Int("top", 0, "print the N hottest lines of every report (0 disables)")
	pf.String("trace", "", "trace output file (- for stderr)")
	pf.String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	pf.String("trace-mode", "stream", "trace storage (stream|ring|both)")
	pf.String("trace-format", "auto", "trace format (auto|text|ndjson)")
	pf.Int("trace-ring-size", trace.DefaultRingSize, "events kept by the ring tracer")
}

func applyColorFlag(cmd *cobra.Command) error {
	value, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return fmt.Errorf("failed to get color flag: %w", err)
	}
	switch value {
	case "auto":
		color.NoColor = !isTerminal(os.Stdout)
	case "on":
		color.NoColor = false
	case "off":
		color.NoColor = true
	default:
		return fmt.Errorf("invalid --color value %q (expected auto|on|off)", value)
	}
	return nil
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
