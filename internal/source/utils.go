package source

import (
	"bytes"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"unicode/utf8"

	"fortio.org/safecast"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16BE = []byte{0xFE, 0xFF}
	bomUTF16LE = []byte{0xFF, 0xFE}
)

// decode turns raw file bytes into BOM-less UTF-8.
// UTF-16 input is accepted only with a byte order mark.
func decode(raw []byte) ([]byte, FileFlags, error) {
	var flags FileFlags
	switch {
	case bytes.HasPrefix(raw, bomUTF8):
		flags |= FileHadBOM
	case bytes.HasPrefix(raw, bomUTF16BE), bytes.HasPrefix(raw, bomUTF16LE):
		flags |= FileHadBOM | FileDecodedUTF16
	default:
		if !utf8.Valid(raw) {
			return nil, 0, fmt.Errorf("%w: invalid UTF-8", ErrMalformed)
		}
		return raw, 0, nil
	}

	// BOMOverride снимает BOM и перекодирует UTF-16; без BOM работает как Nop.
	out, _, err := transform.Bytes(unicode.BOMOverride(transform.Nop), raw)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	if !utf8.Valid(out) {
		return nil, 0, fmt.Errorf("%w: invalid UTF-8 after decoding", ErrMalformed)
	}
	return out, flags, nil
}

// normalizeCRLF replaces every \r\n with \n and leaves lone \r untouched.
func normalizeCRLF(content []byte) ([]byte, bool) {
	if !slices.Contains(content, '\r') {
		return content, false
	}

	out := make([]byte, 0, len(content))
	for i := 0; i < len(content); i++ {
		if content[i] == '\r' && i+1 < len(content) && content[i+1] == '\n' {
			continue
		}
		out = append(out, content[i])
	}
	return out, len(out) != len(content)
}

func buildLineIndex(content []byte) []uint32 {
	out := make([]uint32, 0, bytes.Count(content, []byte{'\n'}))
	for i, b := range content {
		if b != '\n' {
			continue
		}
		off, err := safecast.Conv[uint32](i)
		if err != nil {
			panic(fmt.Errorf("line offset overflow: %w", err))
		}
		out = append(out, off)
	}
	return out
}

// SplitLines splits text at \n the way a line-oriented reader sees it:
// a trailing newline does not open an extra empty line and "" has no lines.
func SplitLines(text string) []string {
	if text == "" {
		return nil
	}
	text = strings.TrimSuffix(text, "\n")
	return strings.Split(text, "\n")
}

func normalizePath(p string) string {
	// единый вид в кроссплатформенных дифах
	return filepath.ToSlash(filepath.Clean(p))
}
