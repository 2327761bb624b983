package sim

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"time"

	"mlfq/internal/job"
	"mlfq/internal/sched"
)

// Delivery is one signal the scheduler sent.
type Delivery struct {
	Tick   int64
	PID    sched.PID
	Signal sched.Signal
}

// Stats summarizes one process after a run.
type Stats struct {
	PID        sched.PID
	Name       string
	Ran        int // ticks spent on the CPU
	Dispatched int // times the CPU was switched to it
	Signals    int
	Level      int
	State      string
}

// Machine is a single simulated CPU. It plays the context switch and
// the signal collaborators of the scheduler and steps every process's
// job one tick at a time.
type Machine struct {
	clock  *sched.TickClock
	sched  *sched.Scheduler
	logger *slog.Logger

	running  sched.PID
	jobs     map[sched.PID]job.Behavior
	stats    map[sched.PID]*Stats
	wakeAt   map[sched.PID]int64 // I/O completion
	resumeAt map[sched.PID]int64 // parent resumes a stopped child
	order    []sched.PID
	signals  []Delivery
}

// NewMachine boots the scenario's processes on a fresh scheduler.
func NewMachine(sc Scenario, logger *slog.Logger, sinks ...sched.EventSink) (*Machine, error) {
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	m := &Machine{
		clock:    sched.NewTickClock(256),
		logger:   logger,
		running:  sched.IdlePID,
		jobs:     make(map[sched.PID]job.Behavior),
		stats:    make(map[sched.PID]*Stats),
		wakeAt:   make(map[sched.PID]int64),
		resumeAt: make(map[sched.PID]int64),
	}

	opts := []sched.Option{sched.WithLogger(logger)}
	for _, sink := range sinks {
		opts = append(opts, sched.WithSink(sink))
	}
	m.sched = sched.New(sc.Params, m.clock, m, m, opts...)

	byName := make(map[string]sched.PID, len(sc.Processes))
	for _, spec := range sc.Processes {
		b, err := job.New(spec)
		if err != nil {
			return nil, err
		}
		parent := sched.NoPID
		if spec.Parent != "" {
			parent = byName[spec.Parent]
		}
		pid, err := m.sched.Spawn(spec.Name, parent)
		if err != nil {
			return nil, err
		}
		byName[spec.Name] = pid
		m.jobs[pid] = b
		m.stats[pid] = &Stats{PID: pid, Name: spec.Name}
	}

	// admit in declaration order so FIFO order follows the file
	for _, spec := range sc.Processes {
		if err := m.sched.AdmitNew(byName[spec.Name]); err != nil {
			return nil, fmt.Errorf("boot %q: %w", spec.Name, err)
		}
	}
	logger.Info("machine booted", "processes", len(sc.Processes), "levels", sc.Params.MaxLevel+1)
	return m, nil
}

// Scheduler exposes the scheduler under simulation.
func (m *Machine) Scheduler() *sched.Scheduler { return m.sched }

// Clock exposes the machine clock.
func (m *Machine) Clock() *sched.TickClock { return m.clock }

// Running returns the PID on the CPU.
func (m *Machine) Running() sched.PID { return m.running }

// Order returns every dispatch of a user process in order, including a
// process picked again right after itself.
func (m *Machine) Order() []sched.PID { return slices.Clone(m.order) }

// Signals returns every signal delivered so far.
func (m *Machine) Signals() []Delivery { return slices.Clone(m.signals) }

// SwitchTo implements sched.Switcher.
func (m *Machine) SwitchTo(from, to sched.PID) {
	m.running = to
	if to == sched.IdlePID {
		return
	}
	m.order = append(m.order, to)
	if st, ok := m.stats[to]; ok {
		st.Dispatched++
	}
}

// SendSignal implements sched.Signaler. It runs inside the scheduler's
// critical section. A sleeping process is interrupted by SIGALRM only.
func (m *Machine) SendSignal(p *sched.Proc, sig sched.Signal) bool {
	m.signals = append(m.signals, Delivery{Tick: m.clock.Count(), PID: p.PID, Signal: sig})
	if st, ok := m.stats[p.PID]; ok {
		st.Signals++
	}
	return sig == sched.SIGALRM
}

// Run steps the machine n ticks.
func (m *Machine) Run(n int) {
	for i := 0; i < n; i++ {
		m.Step()
	}
}

// Step advances the clock one tick and runs the process on the CPU.
func (m *Machine) Step() {
	m.step(m.clock.Advance())
}

// RunRealtime steps the machine on a real ticker until n ticks elapsed
// or ctx is done.
func (m *Machine) RunRealtime(ctx context.Context, interval time.Duration, n int) error {
	m.clock.Start(interval)
	defer func() {
		// stop the underlying clock and drain it to release its goroutine
		m.clock.Stop()
		for range m.clock.Ch {
		}
	}()

	for i := 0; i < n; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case _, ok := <-m.clock.Ch:
			if !ok {
				return nil
			}
			m.step(m.clock.Count())
		}
	}
	return nil
}

func (m *Machine) step(now int64) {
	m.wakeDue(now)

	pid := m.running
	b, ok := m.jobs[pid]
	if !ok {
		// idle
		m.sched.Tick()
		return
	}

	m.stats[pid].Ran++
	act := b.Step()
	switch act.Kind {
	case job.Run:
		m.sched.Tick()
	case job.Yield:
		m.sched.Yield()
	case job.Block:
		m.wakeAt[pid] = now + int64(act.Ticks)
		m.sched.Block()
	case job.Sleep:
		if _, err := m.sched.Alarm(pid, int64(act.Ticks)); err != nil {
			m.logger.Error("alarm", "pid", pid, "err", err)
		}
		m.sched.Block()
	case job.Stop:
		m.resumeAt[pid] = now + int64(act.Ticks)
		m.sched.StopCurrent()
	case job.Exit:
		m.exit(pid)
	}
}

func (m *Machine) exit(pid sched.PID) {
	if err := m.sched.Exit(pid); err != nil {
		m.logger.Error("exit", "pid", pid, "err", err)
		return
	}
	if err := m.sched.Release(pid); err != nil {
		m.logger.Error("release", "pid", pid, "err", err)
		return
	}
	delete(m.jobs, pid)
	m.stats[pid].State = "Exited"
	m.logger.Debug("process exited", "pid", pid, "name", m.stats[pid].Name)
}

// wakeDue completes I/O and resumes stopped children whose time came, in
// PID order.
func (m *Machine) wakeDue(now int64) {
	for _, pid := range due(m.wakeAt, now) {
		if err := m.sched.Schedule(pid); err != nil {
			m.logger.Error("wake", "pid", pid, "err", err)
		}
	}
	for _, pid := range due(m.resumeAt, now) {
		if err := m.sched.Resume(pid); err != nil {
			m.logger.Error("resume", "pid", pid, "err", err)
		}
	}
}

func due(at map[sched.PID]int64, now int64) []sched.PID {
	var pids []sched.PID
	for pid, t := range at {
		if t <= now {
			pids = append(pids, pid)
		}
	}
	slices.Sort(pids)
	for _, pid := range pids {
		delete(at, pid)
	}
	return pids
}

// Report returns per-process statistics in PID order.
func (m *Machine) Report() []Stats {
	out := make([]Stats, 0, len(m.stats))
	for pid, st := range m.stats {
		s := *st
		if p, ok := m.sched.Proc(pid); ok {
			s.Level = p.Level
			s.State = p.State.String()
		}
		out = append(out, s)
	}
	slices.SortFunc(out, func(a, b Stats) int { return int(a.PID - b.PID) })
	return out
}
