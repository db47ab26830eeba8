// Package replay rebuilds the annotation ledger of a generated C file. The
// code generator opens every statement with a position comment
//
//	/* "pkg/module.pyx":42
//
// and replaying those markers through an annotate.Writer attributes each
// chunk of generated code to the source line that produced it. Section
// banners and the closing brace of a top-level definition close the open
// position: runtime support code and function epilogues belong to no line.
package replay

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"cyannotate/internal/annotate"
	"cyannotate/internal/source"
)

var markerRE = regexp.MustCompile(`^\s*/\* "((?:[^"\\]|\\.)+)":(\d+)`)

// /* --- Runtime support code --- */, /*--- Type import code ---*/,
// /* #### Code section: utility_code_def ### */
var bannerRE = regexp.MustCompile(`^\s*/\*\s*(?:-{3}.*-{3}|#{4}.*#{3})\s*\*/\s*$`)

// ctx проверяется раз в checkEvery строк
const checkEvery = 4096

// Stats describes one replay.
type Stats struct {
	Lines   int // generated lines read
	Markers int // position markers found
	Files   int // distinct source files referenced
	Closes  int // open positions closed by a banner or a top-level brace
}

// IsClosing reports whether a generated line ends the code of the open
// position: a section banner or a brace in column 0.
func IsClosing(line string) bool {
	return strings.HasPrefix(line, "}") || bannerRE.MatchString(line)
}

// ParseMarker reports the source position a generated line opens, if any.
func ParseMarker(line string) (source.Pos, bool) {
	m := markerRE.FindStringSubmatch(line)
	if m == nil {
		return source.NoPos, false
	}
	n, err := strconv.Atoi(m[2])
	if err != nil || n <= 0 {
		return source.NoPos, false
	}
	return source.Pos{File: unquote(m[1]), Line: n}, true
}

func unquote(s string) string {
	if u, err := strconv.Unquote(`"` + s + `"`); err == nil {
		return u
	}
	return s
}

// Replay reads generated code from r and returns the ledger. The whole text
// is copied to out (nil discards it). Text before the first marker and text
// after a closing line up to the next marker goes to out only.
func Replay(ctx context.Context, r io.Reader, out io.Writer) (*annotate.Store, Stats, error) {
	if out == nil {
		out = io.Discard
	}
	var (
		stats  Stats
		w      = annotate.NewWriter(out)
		br     = bufio.NewReaderSize(r, 64*1024)
		files  = make(map[string]struct{})
		marked bool
	)
	for {
		line, err := br.ReadString('\n')
		if line != "" {
			stats.Lines++
			if stats.Lines%checkEvery == 0 {
				if cerr := ctx.Err(); cerr != nil {
					return nil, stats, cerr
				}
			}
			if pos, ok := ParseMarker(line); ok {
				w.MarkPos(pos)
				stats.Markers++
				files[pos.File] = struct{}{}
				marked = true
			} else if marked && IsClosing(line) {
				w.MarkPos(source.NoPos)
				stats.Closes++
				marked = false
			}
			if marked {
				_, werr := w.WriteString(line)
				if werr != nil {
					return nil, stats, fmt.Errorf("replay: write: %w", werr)
				}
			} else if _, werr := io.WriteString(out, line); werr != nil {
				return nil, stats, fmt.Errorf("replay: write: %w", werr)
			}
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, stats, fmt.Errorf("replay: read: %w", err)
		}
	}
	w.Flush()
	stats.Files = len(files)
	return w.Store(), stats, nil
}
