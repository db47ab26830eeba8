package report

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"cyannotate/internal/classify"
	"cyannotate/internal/highlight"
)

const testRules = `
name = "test"
version = "1"

[weights]
runtime_call = 5

[[rules]]
category = "runtime_call"
pattern = "[A-Z]+_CALL"
call = true
`

func testRenderer(t *testing.T) *Renderer {
	t.Helper()
	set, err := classify.DecodeTOML(strings.NewReader(testRules))
	if err != nil {
		t.Fatal(err)
	}
	cls, err := classify.New(set, classify.Options{})
	if err != nil {
		t.Fatal(err)
	}
	return &Renderer{Classifier: cls, Highlighter: highlight.Plain{}, Tool: "cyannotate test"}
}

func render(t *testing.T, r *Renderer, src string, lines map[int]string, raw string) string {
	t.Helper()
	var buf bytes.Buffer
	if err := r.Render(&buf, src, lines, raw); err != nil {
		t.Fatal(err)
	}
	return buf.String()
}

func TestRenderRuntimeCallExample(t *testing.T) {
	out := render(t, testRenderer(t), "x = 1\ny = api_call(x)\n", map[int]string{2: "RUNTIME_CALL(x);"}, "")

	for _, want := range []string{
		"<pre class='cython line score-0'>&#xA0;1: x = 1</pre>\n",
		"<pre class='cython line score-5' onclick='toggleDiv(this)'>+2: y = api_call(x)</pre>\n",
		"<pre class='cython code score-5'><span class='runtime_call'>RUNTIME_CALL</span>(x);</pre>",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in\n%s", want, out)
		}
	}
	if strings.Count(out, "<pre class='cython code") != 1 {
		t.Errorf("expected exactly one code block")
	}
}

func TestRenderDocumentShape(t *testing.T) {
	out := render(t, testRenderer(t), "x = 1\n", nil, "")
	if !strings.HasPrefix(out, "<!DOCTYPE html>\n<!-- Generated by cyannotate test -->\n") {
		t.Fatalf("unexpected header start:\n%.120s", out)
	}
	if !strings.HasSuffix(out, "</div></body></html>\n") {
		t.Fatalf("unexpected footer:\n%s", out[len(out)-60:])
	}
	for _, want := range []string{
		"function toggleDiv(id)",
		".cython.score-0 {background-color: #FFFFff;}",
		".cython.score-254 {background-color: #FFFF09;}",
		".cython.code .runtime_call  { color: red; }",
		`<meta name="cyannotate-fingerprint" content="`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q", want)
		}
	}
	if strings.Contains(out, "Raw output") {
		t.Error("raw output link without a raw output path")
	}
}

func TestRenderIsDeterministic(t *testing.T) {
	r := testRenderer(t)
	src := "a = 1\nb = f(a)\nc = g(b)\n"
	lines := map[int]string{3: "FOO_CALL(b);\nBAR_CALL(c);\n", 2: "BAZ_CALL(a);\n", 9: "X_CALL();"}
	first := render(t, r, src, lines, "m.c")
	for range 5 {
		if got := render(t, r, src, lines, "m.c"); got != first {
			t.Fatal("rendering the same input twice differs")
		}
	}
	if lines[2] != "BAZ_CALL(a);\n" || len(lines) != 3 {
		t.Fatal("rendering modified the ledger")
	}
}

func TestRenderWithoutMappings(t *testing.T) {
	out := render(t, testRenderer(t), "a\nb\nc\n", map[int]string{}, "")
	if strings.Contains(out, "onclick=") || strings.Contains(out, "<pre class='cython code") {
		t.Fatalf("unmapped lines must not be expandable:\n%s", out)
	}
	if strings.Count(out, "<pre class='cython line score-0'>&#xA0;") != 3 {
		t.Fatalf("every line must render:\n%s", out)
	}
}

func TestRenderTreatsEmptyPreparedCodeAsAbsent(t *testing.T) {
	lines := map[int]string{1: "/* \"m.pyx\":1\n * a\n */\n"}
	out := render(t, testRenderer(t), "a\n", lines, "")
	if strings.Contains(out, "onclick=") {
		t.Fatalf("line with only a position comment must not be expandable:\n%s", out)
	}
}

func TestRenderPadsLineNumbers(t *testing.T) {
	src := strings.Repeat("x\n", 12)
	out := render(t, testRenderer(t), src, map[int]string{12: "A_CALL();"}, "")
	if !strings.Contains(out, "&#xA0;01: x</pre>") {
		t.Error("line 1 not padded to two digits")
	}
	if !strings.Contains(out, "+12: x</pre>") {
		t.Error("line 12 missing toggle")
	}
}

func TestRenderEscapes(t *testing.T) {
	out := render(t, testRenderer(t), "if a < b:\n", map[int]string{1: "if (a < b) {}"}, "out&co.c")
	for _, want := range []string{
		"1: if a &lt; b:</pre>",
		"<pre class='cython code score-0'>if (a &lt; b) {}</pre>",
		`<a href="out&amp;co.c">out&amp;co.c</a>`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q", want)
		}
	}
}

type fakeHighlighter struct {
	out string
	err error
}

func (f fakeHighlighter) Highlight(string) (string, error) { return f.out, f.err }
func (f fakeHighlighter) StyleDefs(scope string) string    { return "\n" + scope + " .fake { }" }
func (f fakeHighlighter) Name() string                     { return "fake" }

func TestRenderHighlighterFallback(t *testing.T) {
	src := "a < 1\nb\n"
	cases := []struct {
		name   string
		h      highlight.Highlighter
		want   string
		styles bool
	}{
		{"used", fakeHighlighter{out: "<b>a</b>\n<i>b</i>\n"}, "1: <b>a</b></pre>", true},
		{"error", fakeHighlighter{err: errors.New("boom")}, "1: a &lt; 1</pre>", false},
		{"line count changed", fakeHighlighter{out: "one line"}, "1: a &lt; 1</pre>", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := testRenderer(t)
			r.Highlighter = tc.h
			out := render(t, r, src, nil, "")
			if !strings.Contains(out, tc.want) {
				t.Fatalf("missing %q in\n%s", tc.want, out)
			}
			if got := strings.Contains(out, ".cython .fake { }"); got != tc.styles {
				t.Fatalf("highlighter styles present = %v, want %v", got, tc.styles)
			}
		})
	}
}

func TestBucketColor(t *testing.T) {
	cases := map[int]string{0: "FFFFff", 10: "FFFF7f", 254: "FFFF09", 1000: "FFFF09", -3: "FFFFff"}
	for score, want := range cases {
		if got := BucketColor(score); got != want {
			t.Errorf("BucketColor(%d) = %s, want %s", score, got, want)
		}
	}
}

func TestOutputPath(t *testing.T) {
	cases := map[string]string{
		"build/m.c":   "build/m.html",
		"m.cpp":       "m.html",
		"m":           "m.html",
		"a.b/m":       "a.b/m.html",
		"pkg/m.tar.c": "pkg/m.tar.html",
	}
	for in, want := range cases {
		if got := OutputPath(in); got != want {
			t.Errorf("OutputPath(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestFingerprint(t *testing.T) {
	src := "a\nb\n"
	lines := map[int]string{1: "X_CALL();", 2: "Y_CALL();"}
	fp := Fingerprint(src, lines)
	if fp != Fingerprint(src, map[int]string{2: "Y_CALL();", 1: "X_CALL();"}) {
		t.Fatal("fingerprint depends on map order")
	}
	if fp == Fingerprint(src, map[int]string{1: "X_CALL();"}) {
		t.Fatal("fingerprint ignores ledger changes")
	}
	if fp == Fingerprint("a\nc\n", lines) {
		t.Fatal("fingerprint ignores source changes")
	}
	if Fingerprint(src, map[int]string{12: "x"}) == Fingerprint(src, map[int]string{1: "2x"}) {
		t.Fatal("line numbers and text are not separated")
	}
}

func TestSummary(t *testing.T) {
	r := testRenderer(t)
	src := "a\n  b  \nc\nd\n"
	lines := map[int]string{
		1: "A_CALL();",
		2: "B_CALL(); C_CALL();",
		3: "nothing here;",
		4: "D_CALL();",
	}
	got := r.Summary(src, lines, 0)
	if len(got) != 3 {
		t.Fatalf("got %d entries, want 3: %+v", len(got), got)
	}
	if got[0].Line != 2 || got[0].Score != 10 || got[0].Text != "b" {
		t.Fatalf("hottest line = %+v", got[0])
	}
	if got[1].Line != 1 || got[2].Line != 4 {
		t.Fatalf("ties must keep source order: %+v", got)
	}
	if Total(got) != 20 {
		t.Fatalf("Total = %d", Total(got))
	}
	if top := r.Summary(src, lines, 1); len(top) != 1 || top[0].Line != 2 {
		t.Fatalf("top 1 = %+v", top)
	}
}
