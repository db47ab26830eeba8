package observ

import (
	"errors"
	"strings"
	"testing"
)

func TestTimerPhases(t *testing.T) {
	tm := NewTimer()
	if err := tm.Time("load", func() error { return nil }); err != nil {
		t.Fatal(err)
	}
	boom := errors.New("boom")
	if err := tm.Time("render", func() error { return boom }); !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
	tm.End(42, "ignored")

	r := tm.Report()
	if len(r.Phases) != 2 || r.Phases[0].Name != "load" || r.Phases[1].Note != "failed" {
		t.Fatalf("report = %+v", r)
	}
	s := tm.Summary()
	for _, want := range []string{"timings:", "load", "render", "// failed", "total"} {
		if !strings.Contains(s, want) {
			t.Errorf("summary lacks %q:\n%s", want, s)
		}
	}
	if tm.Duration("missing") != 0 {
		t.Fatal("unknown phase must have zero duration")
	}
}
