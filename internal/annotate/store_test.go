package annotate

import (
	"strings"
	"testing"

	"cyannotate/internal/source"
)

func TestStoreLinesIsSnapshot(t *testing.T) {
	s := NewStore()
	s.Append(pos(2), "a;")
	snap := s.Lines("m.pyx")
	snap[2] = "changed"
	snap[9] = "new"
	if s.Line("m.pyx", 2) != "a;" {
		t.Errorf("store mutated through snapshot: %q", s.Line("m.pyx", 2))
	}
	if s.Line("m.pyx", 9) != "" {
		t.Error("missing line must read as empty")
	}
	if len(s.Lines("other.pyx")) != 0 {
		t.Error("unknown file must yield an empty mapping")
	}
}

func TestStoreIgnoresInvalidPositions(t *testing.T) {
	s := NewStore()
	s.Append(source.NoPos, "x")
	s.Append(pos(1), "")
	if len(s.Files()) != 0 {
		t.Errorf("unexpected files: %v", s.Files())
	}
}

func TestStoreResolve(t *testing.T) {
	s := NewStore()
	s.Append(source.Pos{File: "pkg/mod.pyx", Line: 1}, "x")
	s.Append(source.Pos{File: "other.pyx", Line: 1}, "y")

	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"pkg/mod.pyx", "pkg/mod.pyx", true},
		{"./pkg/mod.pyx", "pkg/mod.pyx", true},
		{"/abs/project/pkg/mod.pyx", "pkg/mod.pyx", true},
		{"missing.pyx", "", false},
	}
	for _, tt := range tests {
		got, ok := s.Resolve(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("Resolve(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}

	s.Append(source.Pos{File: "vendor/mod.pyx", Line: 1}, "z")
	if _, ok := s.Resolve("/elsewhere/mod.pyx"); ok {
		t.Error("ambiguous basename must not resolve")
	}
}

func TestItemMarkup(t *testing.T) {
	it := Item{Style: "py_call", Text: "calls <f>", Tag: "!", Size: 3}
	start := it.Start()
	if !strings.Contains(start, "class='cython tag py_call'") || !strings.Contains(start, "title='calls &lt;f&gt;'") {
		t.Errorf("Start() = %q", start)
	}
	size, end := it.End()
	if size != 3 || end != "</span>" {
		t.Errorf("End() = %d, %q", size, end)
	}
}
