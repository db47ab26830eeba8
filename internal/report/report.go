// Package report renders the annotated HTML document: the source text,
// one collapsible block of classified generated code per line and a color
// per score bucket. Output is byte-stable for identical input.
package report

import (
	"bufio"
	"fmt"
	"html"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"unicode"

	"cyannotate/internal/classify"
	"cyannotate/internal/highlight"
	"cyannotate/internal/source"
)

// DefaultTool is the watermark used when Renderer.Tool is empty.
const DefaultTool = "cyannotate"

// Renderer composes reports. The zero value renders with the default rule set
// and without highlighting. A Renderer is safe for concurrent use when its
// Highlighter is.
type Renderer struct {
	Classifier  *classify.Classifier
	Highlighter highlight.Highlighter
	Tool        string // watermark, e.g. "cyannotate 0.4.0"
}

// Row is the rendering plan of one source line.
type Row struct {
	Line   int
	Source string // highlighted or escaped source line, right-trimmed
	Markup string // classified generated code; empty means not expandable
	Counts classify.Counts
	Score  int
}

// Expandable reports whether the row gets a toggle and a code block.
func (r Row) Expandable() bool { return r.Markup != "" }

var defaultClassifier = sync.OnceValue(classify.MustDefault)

func (r *Renderer) classifier() *classify.Classifier {
	if r.Classifier == nil {
		return defaultClassifier()
	}
	return r.Classifier
}

func (r *Renderer) highlighter() highlight.Highlighter {
	if r.Highlighter == nil {
		return highlight.Plain{}
	}
	return r.Highlighter
}

func (r *Renderer) tool() string {
	if r.Tool == "" {
		return DefaultTool
	}
	return r.Tool
}

// Rows classifies every line of src against lines. Rendering is a pure read:
// lines is never modified.
func (r *Renderer) Rows(src string, lines map[int]string) []Row {
	rows, _ := r.rows(src, lines)
	return rows
}

// rows also reports whether the highlighter output was used.
func (r *Renderer) rows(src string, lines map[int]string) ([]Row, bool) {
	cls := r.classifier()
	srcLines, highlighted := r.sourceLines(src)
	rows := make([]Row, len(srcLines))
	for i, text := range srcLines {
		k := i + 1
		row := Row{Line: k, Source: strings.TrimRightFunc(text, unicode.IsSpace)}
		if code := classify.PrepareCode(lines[k]); code != "" {
			res := cls.Classify(code)
			row.Markup, row.Counts, row.Score = res.Markup, res.Counts, res.Score
		}
		rows[i] = row
	}
	return rows, highlighted
}

// sourceLines highlights src and splits it into lines. A highlighter that
// fails or does not keep the line structure is replaced by plain escaping;
// the bool is false in that case.
func (r *Renderer) sourceLines(src string) ([]string, bool) {
	want := source.SplitLines(src)
	h := r.highlighter()
	if _, plain := h.(highlight.Plain); !plain {
		if out, err := h.Highlight(src); err == nil {
			if got := source.SplitLines(out); len(got) == len(want) {
				return got, true
			}
		}
	}
	for i, l := range want {
		want[i] = highlight.Escape(l)
	}
	return want, false
}

// Render writes the complete report for src and its per-line generated code.
// rawOutput, when not empty, is linked as the raw generated file.
func (r *Renderer) Render(w io.Writer, src string, lines map[int]string, rawOutput string) error {
	bw := bufio.NewWriter(w)
	rows, highlighted := r.rows(src, lines)

	// без подсветки её стили не нужны
	styleDefs := ""
	if highlighted {
		styleDefs = r.highlighter().StyleDefs("." + Scope)
	}
	r.writeHeader(bw, Fingerprint(src, lines), styleDefs, rawOutput)
	writeBody(bw, rows)
	bw.WriteString("</body></html>\n")
	return bw.Flush()
}

func (r *Renderer) writeHeader(w *bufio.Writer, fp uint64, styleDefs, rawOutput string) {
	tool := html.EscapeString(r.tool())
	fmt.Fprintf(w, "<!DOCTYPE html>\n<!-- Generated by %s -->\n<html>\n<head>\n", tool)
	w.WriteString("    <meta http-equiv=\"Content-Type\" content=\"text/html; charset=utf-8\" />\n")
	fmt.Fprintf(w, "    <meta name=\"cyannotate-fingerprint\" content=\"%016x\" />\n", fp)
	w.WriteString("    <style type=\"text/css\">\n")
	w.WriteString(stylesheet(r.classifier().Categories(), styleDefs))
	w.WriteString("\n    </style>\n    <script>\n")
	w.WriteString(script)
	w.WriteString("\n    </script>\n</head>\n<body class=\"cython\">\n")
	fmt.Fprintf(w, "<p>Generated by %s</p>\n", tool)
	w.WriteString("<p>Yellow lines hint at runtime API traffic.<br />\n")
	w.WriteString("Click on a line that starts with a \"<code>+</code>\" to see the generated code for it.</p>\n")
	if rawOutput != "" {
		link := html.EscapeString(rawOutput)
		fmt.Fprintf(w, "<p>Raw output: <a href=\"%s\">%s</a></p>\n", link, link)
	}
}

func writeBody(w *bufio.Writer, rows []Row) {
	width := len(strconv.Itoa(len(rows)))
	w.WriteString("<div class=\"cython\">")
	for _, row := range rows {
		onclick, glyph := "", "&#xA0;"
		if row.Expandable() {
			onclick, glyph = " onclick='toggleDiv(this)'", "+"
		}
		fmt.Fprintf(w, "<pre class='cython line score-%d'%s>%s%0*d: %s</pre>\n",
			row.Score, onclick, glyph, width, row.Line, row.Source)
		if row.Expandable() {
			fmt.Fprintf(w, "<pre class='cython code score-%d'>%s</pre>", row.Score, row.Markup)
		}
	}
	w.WriteString("</div>")
}

// OutputPath returns the report path for a generated file: same base name,
// extension replaced by .html.
func OutputPath(target string) string {
	return strings.TrimSuffix(target, filepath.Ext(target)) + ".html"
}
