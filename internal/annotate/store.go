package annotate

import (
	"slices"
	"strings"

	"cyannotate/internal/source"
)

// Store is the session-scoped database of generated code per source line and
// of recorded annotation items. It is shared by pointer between a Writer and
// every insertion point forked from it; there is no deletion.
type Store struct {
	code        map[string]map[int]*strings.Builder // file -> line -> text
	annotations []Annotation
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{code: make(map[string]map[int]*strings.Builder)}
}

// Append attributes text to the (file, line) bucket of pos.
// Invalid positions and empty text are ignored.
func (s *Store) Append(pos source.Pos, text string) {
	if !pos.IsValid() || text == "" {
		return
	}
	lines, ok := s.code[pos.File]
	if !ok {
		lines = make(map[int]*strings.Builder)
		s.code[pos.File] = lines
	}
	b, ok := lines[pos.Line]
	if !ok {
		b = &strings.Builder{}
		lines[pos.Line] = b
	}
	b.WriteString(text)
}

// Record appends an annotation to the flat log. Log order equals call order.
func (s *Store) Record(pos source.Pos, item Item) {
	s.annotations = append(s.annotations, Annotation{Pos: pos, Item: item})
}

// Lines returns a snapshot of the generated code attributed to file, keyed by
// 1-based line number. Lines without code are absent and read as "".
func (s *Store) Lines(file string) map[int]string {
	lines := s.code[file]
	out := make(map[int]string, len(lines))
	for line, b := range lines {
		out[line] = b.String()
	}
	return out
}

// Line returns the generated code of a single line.
func (s *Store) Line(file string, line int) string {
	if b, ok := s.code[file][line]; ok {
		return b.String()
	}
	return ""
}

// Annotations returns a copy of the annotation log.
func (s *Store) Annotations() []Annotation {
	return slices.Clone(s.annotations)
}

// Files returns the file identifiers that received generated code, sorted.
func (s *Store) Files() []string {
	files := make([]string, 0, len(s.code))
	for f := range s.code {
		files = append(files, f)
	}
	slices.Sort(files)
	return files
}

// Resolve finds the ledger key that corresponds to a source path. Generated
// code usually refers to sources by a relative path, so after an exact and a
// normalized match it falls back to a unique basename match.
func (s *Store) Resolve(file string) (string, bool) {
	if _, ok := s.code[file]; ok {
		return file, true
	}
	key := source.FileKey(file)
	files := s.Files()
	for _, f := range files {
		if source.FileKey(f) == key {
			return f, true
		}
	}
	base := source.BaseName(key)
	var (
		found string
		count int
	)
	for _, f := range files {
		if source.BaseName(f) == base {
			found = f
			count++
		}
	}
	if count == 1 {
		return found, true
	}
	return "", false
}
