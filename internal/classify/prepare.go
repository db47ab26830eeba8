package classify

import (
	"regexp"
	"strings"

	"cyannotate/internal/highlight"
)

// PosCommentPlaceholder replaces the multi-line position comments the code
// generator leaves in front of every statement.
const PosCommentPlaceholder = "/* … */\n"

var posCommentRE = regexp.MustCompile(`(?m)^\s*/\*(?:(?:[^*]|\*[^/])*\n)+\s*\*/\s*\n`)

// PrepareCode turns raw ledger text into classifier input: position comments
// are collapsed, a leading placeholder is dropped and the result is escaped.
func PrepareCode(raw string) string {
	if raw == "" {
		return ""
	}
	code := posCommentRE.ReplaceAllString(raw, PosCommentPlaceholder)
	code = strings.TrimPrefix(code, PosCommentPlaceholder)
	return highlight.Escape(code)
}
