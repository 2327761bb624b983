package sched

import (
	"encoding/csv"
	"os"
	"strconv"
	"sync"
	"time"
)

// CSVTrace writes scheduler events to a CSV file, one row per event.
type CSVTrace struct {
	mu     sync.Mutex
	file   *os.File
	writer *csv.Writer
	runID  string
}

// NewCSVTrace creates the file at path and writes the header.
func NewCSVTrace(path, runID string) (*CSVTrace, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	w := csv.NewWriter(f)

	// write header
	if err := w.Write([]string{"run_id", "timestamp", "tick", "event", "pid", "name", "level", "quantum"}); err != nil {
		f.Close()
		return nil, err
	}
	w.Flush()
	return &CSVTrace{file: f, writer: w, runID: runID}, nil
}

// Record implements EventSink.
func (t *CSVTrace) Record(ev StatusEvent) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.writer.Write([]string{
		t.runID,
		ev.Time.Format(time.RFC3339Nano),
		strconv.FormatInt(ev.Tick, 10),
		ev.Kind.String(),
		strconv.Itoa(int(ev.PID)),
		ev.Name,
		strconv.Itoa(ev.Level),
		strconv.Itoa(ev.Quantum),
	})
	t.writer.Flush()
}

// Close flushes and closes the file.
func (t *CSVTrace) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.writer.Flush()
	if err := t.writer.Error(); err != nil {
		t.file.Close()
		return err
	}
	return t.file.Close()
}

// Recorder keeps events in memory.
type Recorder struct {
	mu     sync.Mutex
	events []StatusEvent
}

// Record implements EventSink.
func (r *Recorder) Record(ev StatusEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

// Events returns a copy of everything recorded so far.
func (r *Recorder) Events() []StatusEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]StatusEvent(nil), r.events...)
}

// Count returns how many events of one kind were recorded for pid.
func (r *Recorder) Count(kind StatusKind, pid PID) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for _, ev := range r.events {
		if ev.Kind == kind && ev.PID == pid {
			n++
		}
	}
	return n
}

// Dispatched returns the PIDs handed the CPU, in order, idle excluded.
func (r *Recorder) Dispatched() []PID {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []PID
	for _, ev := range r.events {
		if ev.Kind == StatusDispatch {
			out = append(out, ev.PID)
		}
	}
	return out
}
