// Package snapshot persists a finalized annotation ledger so a report can be
// rendered again without replaying the generated code.
package snapshot

import (
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/vmihailenco/msgpack/v5"

	"cyannotate/internal/annotate"
	"cyannotate/internal/source"
)

// Current schema version - increment when Payload format changes
const SchemaVersion uint16 = 1

// ErrSchema is returned for snapshots written with another schema version.
var ErrSchema = errors.New("snapshot schema mismatch")

// Payload is the on-disk form of an annotate.Store. Files and lines are
// sorted so equal stores encode to equal bytes.
type Payload struct {
	Schema      uint16
	Files       []FilePayload
	Annotations []AnnotationPayload
}

// FilePayload holds the generated code of one source file.
type FilePayload struct {
	Path  string
	Lines []LinePayload
}

// LinePayload is one ledger bucket.
type LinePayload struct {
	Line int
	Code string
}

// AnnotationPayload is one entry of the annotation log.
type AnnotationPayload struct {
	File  string
	Line  int
	Col   int
	Style string
	Text  string
	Tag   string
	Size  int
}

// FromStore converts store into a payload.
func FromStore(store *annotate.Store) *Payload {
	p := &Payload{Schema: SchemaVersion}
	for _, file := range store.Files() {
		lines := store.Lines(file)
		keys := make([]int, 0, len(lines))
		for k := range lines {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		fp := FilePayload{Path: file, Lines: make([]LinePayload, 0, len(keys))}
		for _, k := range keys {
			fp.Lines = append(fp.Lines, LinePayload{Line: k, Code: lines[k]})
		}
		p.Files = append(p.Files, fp)
	}
	for _, a := range store.Annotations() {
		p.Annotations = append(p.Annotations, AnnotationPayload{
			File:  a.Pos.File,
			Line:  a.Pos.Line,
			Col:   a.Pos.Col,
			Style: a.Item.Style,
			Text:  a.Item.Text,
			Tag:   a.Item.Tag,
			Size:  a.Item.Size,
		})
	}
	return p
}

// Store rebuilds an annotate.Store from the payload.
func (p *Payload) Store() *annotate.Store {
	store := annotate.NewStore()
	for _, f := range p.Files {
		for _, l := range f.Lines {
			store.Append(source.Pos{File: f.Path, Line: l.Line}, l.Code)
		}
	}
	for _, a := range p.Annotations {
		store.Record(source.Pos{File: a.File, Line: a.Line, Col: a.Col}, annotate.Item{
			Style: a.Style,
			Text:  a.Text,
			Tag:   a.Tag,
			Size:  a.Size,
		})
	}
	return store
}

// Save encodes store to w.
func Save(w io.Writer, store *annotate.Store) error {
	if err := msgpack.NewEncoder(w).Encode(FromStore(store)); err != nil {
		return fmt.Errorf("snapshot: encode: %w", err)
	}
	return nil
}

// Load decodes a store written by Save.
func Load(r io.Reader) (*annotate.Store, error) {
	var p Payload
	if err := msgpack.NewDecoder(r).Decode(&p); err != nil {
		return nil, fmt.Errorf("snapshot: decode: %w", err)
	}
	if p.Schema != SchemaVersion {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrSchema, p.Schema, SchemaVersion)
	}
	return p.Store(), nil
}
