package source

import (
	"fmt"
	"path/filepath"
)

// Pos locates a construct of the compiled source: file identifier, 1-based line
// and column. Positions are plain values; two positions share a ledger bucket
// when File and Line are equal.
type Pos struct {
	File string
	Line int
	Col  int
}

// NoPos is the "none" position. Marking it closes the open bucket without
// opening a new one.
var NoPos = Pos{}

// IsValid reports whether p names a real source line.
func (p Pos) IsValid() bool {
	return p.Line > 0
}

// SameLine reports whether p and other fall into the same (file, line) bucket.
func (p Pos) SameLine(other Pos) bool {
	return p.File == other.File && p.Line == other.Line
}

func (p Pos) String() string {
	if !p.IsValid() {
		return "-"
	}
	if p.Col > 0 {
		return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Col)
	}
	return fmt.Sprintf("%s:%d", p.File, p.Line)
}

// FileKey returns the normalized form of a file identifier used for ledger lookups.
func FileKey(path string) string {
	if path == "" {
		return ""
	}
	return normalizePath(path)
}

// BaseName returns the last element of path in slash form.
func BaseName(path string) string {
	return filepath.Base(filepath.FromSlash(path))
}
