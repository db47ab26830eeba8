package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"cyannotate/internal/classify"
	"cyannotate/internal/report"
)

const barWidth = 20

var (
	hotHeaderStyle = lipgloss.NewStyle().Bold(true)
	hotBarStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	hotPathStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
)

// RenderHotLines writes a table of the hottest lines of one report:
// line number, score, a bar scaled to the top score and the source text.
func RenderHotLines(w io.Writer, path string, lines []report.LineScore, width int) error {
	if len(lines) == 0 {
		return nil
	}
	if width <= 0 {
		width = 80
	}
	top := max(lines[0].Score, 1)
	numWidth := len(fmt.Sprint(maxLine(lines)))

	var b strings.Builder
	b.WriteString(hotPathStyle.Render(path))
	fmt.Fprintf(&b, "  total %d\n", report.Total(lines))
	b.WriteString(hotHeaderStyle.Render(fmt.Sprintf("  %*s %5s  %-*s  %s", numWidth, "#", "score", barWidth, "", "source")))
	b.WriteString("\n")

	textWidth := max(width-numWidth-barWidth-12, 10)
	for _, l := range lines {
		n := (l.Score*barWidth + top - 1) / top
		bar := strings.Repeat("█", min(n, barWidth))
		pad := strings.Repeat(" ", barWidth-runewidth.StringWidth(bar))
		fmt.Fprintf(&b, "  %*d %5d  %s%s  %s\n",
			numWidth, l.Line, l.Score, hotBarStyle.Render(bar), pad, truncate(l.Text, textWidth))
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// CountsLine formats category counts in rule set order, skipping zeros.
func CountsLine(categories []classify.Category, counts classify.Counts) string {
	parts := make([]string, 0, len(categories))
	for _, c := range categories {
		if n := counts[c]; n > 0 {
			parts = append(parts, fmt.Sprintf("%s=%d", c, n))
		}
	}
	return strings.Join(parts, " ")
}

func maxLine(lines []report.LineScore) int {
	m := 0
	for _, l := range lines {
		m = max(m, l.Line)
	}
	return m
}
