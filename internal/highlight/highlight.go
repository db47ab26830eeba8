// Package highlight provides the optional lexical highlighter used for the
// source side of a report. When no real highlighter is available the Plain
// implementation escapes the text and contributes no styles.
package highlight

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnavailable is returned when a highlighter backend is not compiled in.
var ErrUnavailable = errors.New("highlighter unavailable")

// Highlighter turns source text into HTML markup. Implementations must keep
// the line structure of the input: line N of the output renders line N of src.
type Highlighter interface {
	Highlight(src string) (string, error)
	// StyleDefs returns CSS rules for the markup, scoped under the given selector.
	StyleDefs(scope string) string
	Name() string
}

var escaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// Escape escapes &, < and > for embedding text in HTML element content.
func Escape(s string) string {
	return escaper.Replace(s)
}

// Plain is the fallback highlighter: escaping only.
type Plain struct{}

// Highlight escapes src.
func (Plain) Highlight(src string) (string, error) { return Escape(src), nil }

// StyleDefs returns no styles.
func (Plain) StyleDefs(string) string { return "" }

// Name returns "none".
func (Plain) Name() string { return "none" }

// Mode selects a highlighter.
type Mode string

const (
	ModeAuto       Mode = "auto"
	ModeTreeSitter Mode = "treesitter"
	ModeNone       Mode = "none"
)

// ParseMode validates a --highlight value.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeAuto:
		return ModeAuto, nil
	case ModeTreeSitter:
		return ModeTreeSitter, nil
	case ModeNone, "off":
		return ModeNone, nil
	default:
		return "", fmt.Errorf("invalid highlight mode %q (expected auto|treesitter|none)", s)
	}
}

// Resolve picks the highlighter once at startup. ModeAuto silently falls back
// to Plain when tree-sitter is not available; ModeTreeSitter reports it.
func Resolve(mode Mode) (Highlighter, error) {
	switch mode {
	case ModeNone:
		return Plain{}, nil
	case ModeTreeSitter:
		return NewTreeSitter()
	default:
		h, err := NewTreeSitter()
		if err != nil {
			return Plain{}, nil
		}
		return h, nil
	}
}
