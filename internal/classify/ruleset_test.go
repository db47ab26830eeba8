package classify

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestDefaultRuleSet(t *testing.T) {
	set := DefaultRuleSet()
	if set.Label() != "cython-capi/1" {
		t.Errorf("label = %q", set.Label())
	}
	want := []Category{
		CategoryRefNanny,
		CategoryInternalMacro,
		CategoryInternalCall,
		CategoryRuntimeMacro,
		CategoryRuntimeCall,
		CategoryErrorGoto,
	}
	if got := set.Categories(); !reflect.DeepEqual(got, want) {
		t.Errorf("categories = %v, want %v", got, want)
	}
	weights := map[Category]int{
		CategoryRuntimeCall:   5,
		CategoryInternalCall:  2,
		CategoryRuntimeMacro:  1,
		CategoryInternalMacro: 1,
		CategoryRefNanny:      0,
		CategoryErrorGoto:     0,
	}
	for cat, w := range weights {
		if set.Weight(cat) != w {
			t.Errorf("weight(%s) = %d, want %d", cat, set.Weight(cat), w)
		}
	}
}

func TestLoadRuleSetFormats(t *testing.T) {
	dir := t.TempDir()
	tomlPath := filepath.Join(dir, "rules.toml")
	yamlPath := filepath.Join(dir, "rules.yaml")

	tomlBody := `
name = "custom"
version = "2"

[weights]
api = 3

[[rules]]
category = "api"
pattern = 'api_[a-z]+'
call = true
`
	yamlBody := `
name: custom
version: "2"
weights:
  api: 3
rules:
  - category: api
    pattern: 'api_[a-z]+'
    call: true
`
	writeFile(t, tomlPath, tomlBody)
	writeFile(t, yamlPath, yamlBody)

	fromTOML, err := LoadRuleSet(tomlPath)
	if err != nil {
		t.Fatalf("toml: %v", err)
	}
	fromYAML, err := LoadRuleSet(yamlPath)
	if err != nil {
		t.Fatalf("yaml: %v", err)
	}
	if !reflect.DeepEqual(fromTOML, fromYAML) {
		t.Errorf("formats disagree:\ntoml %+v\nyaml %+v", fromTOML, fromYAML)
	}

	c, err := New(fromTOML, Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if res := c.Classify("y = api_call(x)"); res.Score != 3 {
		t.Errorf("score = %d, want 3", res.Score)
	}
}

func TestLoadRuleSetErrors(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name    string
		file    string
		body    string
		wantErr string
	}{
		{"unknown extension", "rules.json", `{}`, "unsupported rule set format"},
		{"toml without rules", "a.toml", `name = "x"`, "missing [[rules]]"},
		{"toml unknown key", "b.toml", "name = \"x\"\ncolour = 1\n[[rules]]\ncategory = \"a\"\npattern = \"a\"\n", "unknown key"},
		{"yaml unknown key", "c.yaml", "name: x\ncolour: 1\nrules:\n  - category: a\n    pattern: a\n", "failed to parse YAML"},
		{"yaml without rules", "d.yml", "name: x\n", "missing rules"},
		{"broken toml", "e.toml", "[[rules]\n", "failed to parse TOML"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.file)
			writeFile(t, path, tt.body)
			_, err := LoadRuleSet(path)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}

	if _, err := LoadRuleSet(filepath.Join(dir, "missing.toml")); !os.IsNotExist(err) {
		t.Errorf("expected not-exist error, got %v", err)
	}
}

func TestEncodeTOMLCanBeLoadedBack(t *testing.T) {
	set := DefaultRuleSet()
	var buf bytes.Buffer
	if err := set.EncodeTOML(&buf); err != nil {
		t.Fatalf("encode: %v", err)
	}
	back, err := DecodeTOML(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !reflect.DeepEqual(set, back) {
		t.Errorf("rule set changed through TOML:\n%+v\n%+v", set, back)
	}
}

func TestEncodeYAMLCanBeLoadedBack(t *testing.T) {
	set := DefaultRuleSet()
	var buf bytes.Buffer
	if err := set.EncodeYAML(&buf); err != nil {
		t.Fatalf("encode: %v", err)
	}
	back, err := DecodeYAML(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !reflect.DeepEqual(set, back) {
		t.Errorf("rule set changed through YAML:\n%+v\n%+v", set, back)
	}
}

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
