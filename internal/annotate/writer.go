package annotate

import (
	"io"
	"strings"

	"cyannotate/internal/source"
)

// Writer is a position-tracked sink over the code emission stream.
type Writer struct {
	out     io.Writer
	store   *Store
	pending strings.Builder
	last    source.Pos
}

// NewWriter creates a root writer with a fresh Store. A nil out discards output.
func NewWriter(out io.Writer) *Writer {
	return NewWriterWithStore(out, NewStore())
}

// NewWriterWithStore creates a writer that records into an existing Store.
func NewWriterWithStore(out io.Writer, store *Store) *Writer {
	if out == nil {
		out = io.Discard
	}
	if store == nil {
		store = NewStore()
	}
	return &Writer{out: out, store: store}
}

// Fork creates an insertion-point cursor writing to out. The fork shares the
// Store, starts from the current position of w and has its own, empty,
// pending buffer.
func (w *Writer) Fork(out io.Writer) *Writer {
	f := NewWriterWithStore(out, w.store)
	f.last = w.last
	return f
}

// Write writes p to the output stream and buffers it for attribution at the
// next MarkPos. Nothing is buffered when the output write fails.
func (w *Writer) Write(p []byte) (int, error) {
	n, err := w.out.Write(p)
	if err != nil {
		return n, err
	}
	w.pending.Write(p)
	return n, nil
}

// WriteString is Write for strings.
func (w *Writer) WriteString(s string) (int, error) {
	n, err := io.WriteString(w.out, s)
	if err != nil {
		return n, err
	}
	w.pending.WriteString(s)
	return n, nil
}

// MarkPos attributes everything written since the previous mark to the
// position that was current before this call and makes pos current.
// Marking source.NoPos closes the open bucket without opening a new one.
//
// Text written while no position is current has no destination; it stays
// pending and lands on the next real position that gets marked.
func (w *Writer) MarkPos(pos source.Pos) {
	if !w.last.IsValid() {
		w.last = pos
		return
	}
	w.store.Append(w.last, w.pending.String())
	w.pending.Reset()
	w.last = pos
}

// Flush is the terminal mark used before rendering.
func (w *Writer) Flush() {
	w.MarkPos(source.NoPos)
}

// Annotate records item at pos in the shared Store.
func (w *Writer) Annotate(pos source.Pos, item Item) {
	w.store.Record(pos, item)
}

// Pos returns the position currently receiving text.
func (w *Writer) Pos() source.Pos {
	return w.last
}

// Pending returns the text written since the last flush into the Store.
func (w *Writer) Pending() string {
	return w.pending.String()
}

// Store returns the Store shared by this writer and its forks.
func (w *Writer) Store() *Store {
	return w.store
}
