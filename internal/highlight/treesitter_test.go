//go:build cgo

package highlight

import (
	"regexp"
	"strings"
	"testing"
)

var tagRE = regexp.MustCompile(`</?span[^>]*>`)

func TestTreeSitterHighlight(t *testing.T) {
	h, err := NewTreeSitter()
	if err != nil {
		t.Fatal(err)
	}
	src := "def add(a, b):\n    # sum\n    return a + 1\n"
	out, err := h.Highlight(src)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		`<span class="k">def</span>`,
		`<span class="nf">add</span>`,
		`<span class="c1"># sum</span>`,
		`<span class="k">return</span>`,
		`<span class="mi">1</span>`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %s in\n%s", want, out)
		}
	}
	if got := tagRE.ReplaceAllString(out, ""); got != src {
		t.Fatalf("text changed by highlighting:\n%q\n%q", got, src)
	}
}

func TestTreeSitterKeepsLinesOfMultilineTokens(t *testing.T) {
	h, err := NewTreeSitter()
	if err != nil {
		t.Fatal(err)
	}
	src := "x = \"\"\"one\ntwo < three\n\"\"\"\ny = 2\n"
	out, err := h.Highlight(src)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(out, "\n")
	if len(lines) != strings.Count(src, "\n")+1 {
		t.Fatalf("line count %d:\n%s", len(lines), out)
	}
	for i, line := range lines {
		if strings.Count(line, "<span") != strings.Count(line, "</span>") {
			t.Errorf("line %d has an unbalanced span: %q", i+1, line)
		}
	}
	if !strings.Contains(out, "two &lt; three") {
		t.Fatalf("string body not escaped:\n%s", out)
	}
}
