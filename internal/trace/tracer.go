package trace

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Tracer receives trace events. Implementations are safe for concurrent use
// since batch jobs emit from several goroutines.
type Tracer interface {
	Emit(ev *Event)
	Flush() error
	Close() error
	Level() Level
	// Enabled reports whether the level is above LevelOff.
	Enabled() bool
}

// DefaultRingSize is the number of events a ring keeps when no size is given.
const DefaultRingSize = 4096

// StorageMode says where events go: straight to the output, into the
// in-memory ring, or both.
type StorageMode uint8

const (
	ModeStream StorageMode = iota + 1
	ModeRing
	ModeBoth
)

var modeNames = map[StorageMode]string{
	ModeStream: "stream",
	ModeRing:   "ring",
	ModeBoth:   "both",
}

func (m StorageMode) String() string {
	if s, ok := modeNames[m]; ok {
		return s
	}
	return "unknown"
}

// ParseMode converts a --trace-mode value.
func ParseMode(s string) (StorageMode, error) {
	for m, name := range modeNames {
		if strings.EqualFold(s, name) {
			return m, nil
		}
	}
	return 0, fmt.Errorf("invalid trace mode %q (expected stream|ring|both)", s)
}

// Config configures New.
type Config struct {
	Level    Level
	Mode     StorageMode
	Format   Format
	Output   io.Writer // wins over Path
	Path     string    // "" or "-" means stderr
	RingSize int
}

// format resolves FormatAuto from the output file extension.
func (c Config) format() Format {
	if c.Format != FormatAuto {
		return c.Format
	}
	switch strings.ToLower(filepath.Ext(c.Path)) {
	case ".ndjson", ".jsonl":
		return FormatNDJSON
	}
	return FormatText
}

// New builds the tracer described by cfg. LevelOff yields Nop and opens nothing.
func New(cfg Config) (Tracer, error) {
	if cfg.Level == LevelOff {
		return Nop, nil
	}
	if cfg.Mode == 0 {
		cfg.Mode = ModeStream
	}
	if _, ok := modeNames[cfg.Mode]; !ok {
		return nil, fmt.Errorf("unknown trace mode %d", cfg.Mode)
	}

	var tracers []Tracer
	if cfg.Mode != ModeRing {
		w, err := cfg.open()
		if err != nil {
			return nil, err
		}
		tracers = append(tracers, NewStreamTracer(w, cfg.Level, cfg.format()))
	}
	if cfg.Mode != ModeStream {
		tracers = append(tracers, NewRingTracer(cfg.RingSize, cfg.Level))
	}
	if len(tracers) == 1 {
		return tracers[0], nil
	}
	return NewMultiTracer(cfg.Level, tracers...), nil
}

func (c Config) open() (io.Writer, error) {
	switch {
	case c.Output != nil:
		return c.Output, nil
	case c.Path == "" || c.Path == "-":
		return os.Stderr, nil
	}
	f, err := os.Create(c.Path)
	if err != nil {
		return nil, fmt.Errorf("trace output %s: %w", c.Path, err)
	}
	return f, nil
}

func isStdStream(w io.Writer) bool {
	return w == io.Writer(os.Stderr) || w == io.Writer(os.Stdout)
}

// RingOf returns the ring buffer behind t, if it has one.
func RingOf(t Tracer) *RingTracer {
	switch tt := t.(type) {
	case *RingTracer:
		return tt
	case *MultiTracer:
		return tt.Ring()
	}
	return nil
}
