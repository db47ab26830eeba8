package report

import (
	"cmp"
	"slices"
	"strings"

	"cyannotate/internal/classify"
	"cyannotate/internal/source"
)

// LineScore is one entry of a hot-line summary.
type LineScore struct {
	Line   int
	Score  int
	Counts classify.Counts
	Text   string // plain source text, trimmed
}

// Summary returns the lines with a non-zero score, hottest first; equal
// scores keep source order. top > 0 limits the result.
func (r *Renderer) Summary(src string, lines map[int]string, top int) []LineScore {
	cls := r.classifier()
	srcLines := source.SplitLines(src)
	var out []LineScore
	for _, k := range sortedLines(lines) {
		code := classify.PrepareCode(lines[k])
		if code == "" {
			continue
		}
		res := cls.Classify(code)
		if res.Score == 0 {
			continue
		}
		ls := LineScore{Line: k, Score: res.Score, Counts: res.Counts}
		if k >= 1 && k <= len(srcLines) {
			ls.Text = strings.TrimSpace(srcLines[k-1])
		}
		out = append(out, ls)
	}
	slices.SortStableFunc(out, func(a, b LineScore) int {
		return cmp.Compare(b.Score, a.Score)
	})
	if top > 0 && len(out) > top {
		out = out[:top]
	}
	return out
}

// Total sums the scores of a summary.
func Total(scores []LineScore) int {
	total := 0
	for _, s := range scores {
		total += s.Score
	}
	return total
}
