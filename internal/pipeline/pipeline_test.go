package pipeline

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"cyannotate/internal/snapshot"
)

const testSource = "x = 1\ny = f(x)\n"

const testGenerated = `#include "Python.h"

  /* "m.pyx":1
 * x = 1
 */
  __pyx_v_x = 1;

  /* "m.pyx":2
 * y = f(x)
 */
  __pyx_t_1 = PyObject_Call(__pyx_v_f, __pyx_v_x, NULL);
`

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func testJob(t *testing.T, dir string) Job {
	t.Helper()
	job := Job{Source: filepath.Join(dir, "m.pyx"), Generated: filepath.Join(dir, "m.c")}
	writeFile(t, job.Source, testSource)
	writeFile(t, job.Generated, testGenerated)
	return job
}

func TestRunWritesReport(t *testing.T) {
	job := testJob(t, t.TempDir())
	res, err := Run(context.Background(), job, Options{RawLink: true})
	if err != nil {
		t.Fatal(err)
	}
	if res.Output != filepath.Join(filepath.Dir(job.Generated), "m.html") {
		t.Fatalf("output = %s", res.Output)
	}
	out := readFile(t, res.Output)
	for _, want := range []string{
		"<pre class='cython line score-5' onclick='toggleDiv(this)'>+2: y = f(x)</pre>",
		"<span class='runtime_call'>PyObject_Call</span>(",
		`<a href="m.c">m.c</a>`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report lacks %q", want)
		}
	}
	if strings.Contains(out, "#include") {
		t.Error("preamble leaked into the report")
	}
	if res.Lines != 2 || res.Mapped != 2 || res.Replay.Markers != 2 {
		t.Fatalf("result = %+v", res)
	}
	if len(res.Hot) != 1 || res.Hot[0].Line != 2 {
		t.Fatalf("hot = %+v", res.Hot)
	}
	if len(res.Timings.Phases) != len(Stages) {
		t.Fatalf("timings = %+v", res.Timings)
	}
}

func TestRunMalformedSourceWritesNothing(t *testing.T) {
	dir := t.TempDir()
	job := testJob(t, dir)
	writeFile(t, job.Source, "x = \xff\xfe\xfd\n")
	if _, err := Run(context.Background(), job, Options{}); err == nil {
		t.Fatal("expected an error for malformed source")
	}
	if _, err := os.Stat(filepath.Join(dir, "m.html")); !os.IsNotExist(err) {
		t.Fatalf("partial report written: %v", err)
	}
}

func TestLedgerSnapshotRendersTheSameReport(t *testing.T) {
	dir := t.TempDir()
	job := testJob(t, dir)
	job.LedgerOut = filepath.Join(dir, "m.ledger")
	first, err := Run(context.Background(), job, Options{})
	if err != nil {
		t.Fatal(err)
	}
	want := readFile(t, first.Output)

	store, err := snapshot.Load(bytes.NewReader([]byte(readFile(t, job.LedgerOut))))
	if err != nil {
		t.Fatal(err)
	}
	again := Job{Source: job.Source, Generated: job.Generated, Output: filepath.Join(dir, "again.html")}
	res, err := RenderStore(context.Background(), again, store, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if got := readFile(t, res.Output); got != want {
		t.Fatal("report rendered from the snapshot differs")
	}
	if res.Fingerprint != first.Fingerprint {
		t.Fatal("fingerprints differ")
	}
}

func TestBatch(t *testing.T) {
	root := t.TempDir()
	jobs := []Job{
		testJob(t, filepath.Join(root, "a")),
		{Source: filepath.Join(root, "missing.pyx"), Generated: filepath.Join(root, "missing.c")},
		testJob(t, filepath.Join(root, "b")),
	}

	var (
		mu     sync.Mutex
		events []Event
	)
	sink := SinkFunc(func(e Event) {
		mu.Lock()
		events = append(events, e)
		mu.Unlock()
	})

	results, err := Batch(context.Background(), jobs, Options{Jobs: 2, Progress: sink})
	if err == nil || !strings.Contains(err.Error(), "missing.pyx") {
		t.Fatalf("err = %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("len = %d", len(results))
	}
	for i, res := range results {
		if res.Job != jobs[i] {
			t.Fatalf("result %d is for %s", i, res.Job.Source)
		}
	}
	if results[0].Err != nil || results[2].Err != nil || results[1].Err == nil {
		t.Fatalf("errors: %v, %v, %v", results[0].Err, results[1].Err, results[2].Err)
	}

	mu.Lock()
	defer mu.Unlock()
	var queued, failed int
	for _, e := range events {
		switch e.Status {
		case StatusQueued:
			queued++
		case StatusError:
			failed++
			if e.Stage != StageLoad {
				t.Errorf("missing source failed at %s", e.Stage)
			}
		}
	}
	if queued != 3 || failed != 1 {
		t.Fatalf("queued=%d failed=%d", queued, failed)
	}
}

func TestBatchEmpty(t *testing.T) {
	results, err := Batch(context.Background(), nil, Options{})
	if err != nil || len(results) != 0 {
		t.Fatalf("results=%v err=%v", results, err)
	}
}
