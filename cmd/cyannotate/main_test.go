package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"cyannotate/internal/classify"
)

func TestParseJobArg(t *testing.T) {
	cases := []struct {
		arg     string
		src     string
		gen     string
		wantErr bool
	}{
		{arg: "mod.pyx:mod.c", src: "mod.pyx", gen: "mod.c"},
		{arg: "pkg/mod.pyx", src: "pkg/mod.pyx", gen: "pkg/mod.c"},
		{arg: "mod.pyx:", src: "mod.pyx", gen: "mod.c"},
		{arg: `C:\src\mod.pyx:C:\build\mod.c`, src: `C:\src\mod.pyx`, gen: `C:\build\mod.c`},
		{arg: "C:/src/mod.pyx", src: "C:/src/mod.pyx", gen: "C:/src/mod.c"},
		{arg: ":mod.c", wantErr: true},
		{arg: "  ", wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.arg, func(t *testing.T) {
			job, err := parseJobArg(tc.arg)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("parseJobArg(%q) = %+v, want error", tc.arg, job)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseJobArg(%q): %v", tc.arg, err)
			}
			if job.Source != tc.src || job.Generated != tc.gen {
				t.Fatalf("parseJobArg(%q) = %q, %q, want %q, %q", tc.arg, job.Source, job.Generated, tc.src, tc.gen)
			}
		})
	}
}

func TestReadUIMode(t *testing.T) {
	cases := map[string]uiMode{
		"":     uiModeAuto,
		"auto": uiModeAuto,
		"ON":   uiModeOn,
		" off": uiModeOff,
	}
	for in, want := range cases {
		got, err := readUIMode(in)
		if err != nil {
			t.Fatalf("readUIMode(%q): %v", in, err)
		}
		if got != want {
			t.Fatalf("readUIMode(%q) = %q, want %q", in, got, want)
		}
	}
	if _, err := readUIMode("sometimes"); err == nil {
		t.Fatalf("expected error for unknown ui mode")
	}
	if !shouldUseTUI(uiModeOn) || shouldUseTUI(uiModeOff) {
		t.Fatalf("explicit ui modes must not depend on the terminal")
	}
}

func TestRenderVersionJSON(t *testing.T) {
	info := versionInfo{Version: "1.2.3", Rules: "cython-capi/1"}
	var buf bytes.Buffer
	if err := renderVersionJSON(&buf, info, versionOptions{format: "json", showHash: true}); err != nil {
		t.Fatalf("renderVersionJSON: %v", err)
	}
	var payload versionPayload
	if err := json.Unmarshal(buf.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v\n%s", err, buf.String())
	}
	if payload.Tool != "cyannotate" || payload.Version != "1.2.3" || payload.Rules != "cython-capi/1" {
		t.Fatalf("unexpected payload %+v", payload)
	}
	if payload.GitCommit != "unknown" {
		t.Fatalf("git_commit = %q, want unknown", payload.GitCommit)
	}
	if payload.BuildDate != "" {
		t.Fatalf("build_date should be omitted, got %q", payload.BuildDate)
	}
}

func TestPrintRuleSet(t *testing.T) {
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })

	set := &classify.RuleSet{
		Name:    "tiny",
		Version: "2",
		Weights: map[string]int{"runtime_call": 5},
		Rules: []classify.RuleSpec{
			{Category: classify.CategoryRuntimeCall, Pattern: `Py[A-Z][a-z]+_[A-Za-z]+`, Call: true},
		},
	}
	var buf bytes.Buffer
	printRuleSet(&buf, set)
	out := buf.String()
	for _, want := range []string{
		"tiny/2 (1 rules)",
		"runtime_call  weight 5",
		"  Py[A-Z][a-z]+_[A-Za-z]+  [call]",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestReadRenderFlags(t *testing.T) {
	cmd := &cobra.Command{Use: "render"}
	addRenderFlags(cmd)
	if err := cmd.Flags().Parse([]string{"--ledger", "m.ledger", "-o", "out/m.html"}); err != nil {
		t.Fatalf("parse: %v", err)
	}
	rf, err := readRenderFlags(cmd)
	if err != nil {
		t.Fatalf("readRenderFlags: %v", err)
	}
	if rf.ledger != "m.ledger" || rf.out != "out/m.html" || rf.generated != "" {
		t.Fatalf("flags = %+v", rf)
	}

	bare := &cobra.Command{Use: "render"}
	if _, err := readRenderFlags(bare); err == nil || !strings.Contains(err.Error(), "failed to get ledger flag") {
		t.Fatalf("err = %v, want failed to get ledger flag", err)
	}
}
