package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"cyannotate/internal/classify"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Print the active rule set",
	Long: `rules prints the rule set used for classification: the built-in one,
the one named by cyannotate.toml, or the file given with --rules.
--format toml or yaml writes it back as a loadable rule file.`,
	Args: cobra.NoArgs,
	RunE: runRules,
}

func init() {
	rulesCmd.Flags().String("rules", "", "rule set file (.toml, .yaml)")
	rulesCmd.Flags().String("format", "pretty", "output format (pretty|toml|yaml)")
}

func runRules(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	set, err := s.ruleSet()
	if err != nil {
		return err
	}
	// компилируем, чтобы не печатать набор, который потом не загрузится
	if _, err := classify.New(set, classify.Options{}); err != nil {
		return fmt.Errorf("rule set %s: %w", set.Label(), err)
	}

	out := cmd.OutOrStdout()
	switch strings.ToLower(format) {
	case "pretty":
		printRuleSet(out, set)
		return nil
	case "toml":
		return set.EncodeTOML(out)
	case "yaml", "yml":
		return set.EncodeYAML(out)
	default:
		return fmt.Errorf("unsupported format %q (must be pretty, toml or yaml)", format)
	}
}

func printRuleSet(out io.Writer, set *classify.RuleSet) {
	bold := color.New(color.Bold).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()

	fmt.Fprintf(out, "%s (%d rules)\n", bold(set.Label()), len(set.Rules))
	for _, c := range set.Categories() {
		fmt.Fprintf(out, "\n%s  weight %d\n", bold(string(c)), set.Weight(c))
		for _, r := range set.Rules {
			if r.Category != c {
				continue
			}
			var extra []string
			if r.Call {
				extra = append(extra, "call")
			}
			if r.After != "" {
				extra = append(extra, "after "+fmt.Sprintf("%q", r.After))
			}
			line := "  " + r.Pattern
			if len(extra) > 0 {
				line += "  " + dim("["+strings.Join(extra, ", ")+"]")
			}
			fmt.Fprintln(out, line)
		}
	}
}
