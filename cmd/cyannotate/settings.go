package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"cyannotate/internal/classify"
	"cyannotate/internal/highlight"
	"cyannotate/internal/project"
	"cyannotate/internal/report"
	"cyannotate/internal/version"
)

// settings merges cyannotate.toml with command-line flags; flags that were
// set explicitly win.
type settings struct {
	cfg       project.Config
	rulesPath string
	highlight highlight.Mode
	rawLink   bool
	jobs      int
	top       int
	quiet     bool
	timings   bool
}

func loadSettings(cmd *cobra.Command) (*settings, error) {
	cwd, err := os.Getwd()
	if err != nil {
		cwd = "."
	}
	cfg, _, err := project.Discover(cwd)
	if err != nil {
		return nil, err
	}
	s := &settings{
		cfg:       cfg,
		rulesPath: cfg.Rules.Path,
		rawLink:   cfg.Render.RawLink,
		jobs:      cfg.Batch.Jobs,
	}
	s.highlight, err = highlight.ParseMode(cfg.Render.Highlight)
	if err != nil {
		return nil, err
	}

	pf := cmd.Root().PersistentFlags()
	if s.quiet, err = pf.GetBool("quiet"); err != nil {
		return nil, fmt.Errorf("failed to get quiet flag: %w", err)
	}
	if s.timings, err = pf.GetBool("timings"); err != nil {
		return nil, fmt.Errorf("failed to get timings flag: %w", err)
	}
	if s.top, err = pf.GetInt("top"); err != nil {
		return nil, fmt.Errorf("failed to get top flag: %w", err)
	}

	flags := cmd.Flags()
	if f := flags.Lookup("rules"); f != nil && f.Changed {
		s.rulesPath = f.Value.String()
	}
	if f := flags.Lookup("highlight"); f != nil && f.Changed {
		if s.highlight, err = highlight.ParseMode(f.Value.String()); err != nil {
			return nil, err
		}
	}
	if f := flags.Lookup("no-raw-link"); f != nil && f.Changed {
		noLink, _ := flags.GetBool("no-raw-link")
		s.rawLink = !noLink
	}
	if f := flags.Lookup("jobs"); f != nil && f.Changed {
		if s.jobs, err = flags.GetInt("jobs"); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *settings) ruleSet() (*classify.RuleSet, error) {
	if s.rulesPath == "" {
		return classify.DefaultRuleSet(), nil
	}
	return classify.LoadRuleSet(s.rulesPath)
}

func (s *settings) renderer() (*report.Renderer, error) {
	set, err := s.ruleSet()
	if err != nil {
		return nil, err
	}
	cls, err := classify.New(set, classify.Options{})
	if err != nil {
		return nil, fmt.Errorf("rule set %s: %w", set.Label(), err)
	}
	h, err := highlight.Resolve(s.highlight)
	if err != nil {
		return nil, fmt.Errorf("highlighter %q: %w", s.highlight, err)
	}
	return &report.Renderer{Classifier: cls, Highlighter: h, Tool: version.Watermark()}, nil
}
