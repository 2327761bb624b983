// internal/sched/scheduler.go

package sched

import (
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/emirpasic/gods/trees/redblacktree"
	"github.com/emirpasic/gods/utils"
)

// Switcher saves the CPU state of from and loads the one of to.
type Switcher interface {
	SwitchTo(from, to PID)
}

// Signaler marks sig pending on p. It is called inside the critical
// section and must not call back into the Scheduler. A true result makes
// a waiting p runnable again (interrupted sleep).
type Signaler interface {
	SendSignal(p *Proc, sig Signal) (wake bool)
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithLogger sets the logger used for faults and policy decisions.
func WithLogger(l *slog.Logger) Option {
	return func(s *Scheduler) { s.logger = l }
}

// WithSink adds an event consumer.
func WithSink(sink EventSink) Option {
	return func(s *Scheduler) { s.sinks = append(s.sinks, sink) }
}

// Scheduler implements a multilevel feedback queue over a process table.
type Scheduler struct {
	mu         sync.Mutex // the critical section: held for every table or queue mutation
	params     Params
	table      *ProcTable
	queues     *QueueSet
	current    PID    // process owning the CPU
	dispatches int    // dispatches since the last rearrangement
	seq        uint64 // last admission sequence handed out

	clock    Clock
	switcher Switcher
	signaler Signaler

	logger  *slog.Logger
	sinks   []EventSink
	pending []StatusEvent // events raised under mu, published by unlock
}

// New creates a Scheduler whose idle process owns the CPU.
func New(params Params, clock Clock, sw Switcher, sig Signaler, opts ...Option) *Scheduler {
	params = params.Sanitize()
	s := &Scheduler{
		params:   params,
		table:    NewProcTable(params.Procs),
		queues:   NewQueueSet(params.MaxLevel, params.QueueCapacity),
		current:  IdlePID,
		clock:    clock,
		switcher: sw,
		signaler: sig,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// unlock leaves the critical section and then publishes queued events.
func (s *Scheduler) unlock() {
	evs := s.pending
	s.pending = nil
	s.mu.Unlock()

	for _, ev := range evs {
		for _, sink := range s.sinks {
			sink.Record(ev)
		}
	}
}

func (s *Scheduler) emit(kind StatusKind, p *Proc) {
	if len(s.sinks) == 0 {
		return
	}
	ev := StatusEvent{
		Time: time.Now(),
		Tick: s.clock.Count(),
		Kind: kind,
		PID:  NoPID,
	}
	if p != nil {
		ev.PID = p.PID
		ev.Name = p.Name
		ev.Level = p.Level
		ev.Quantum = p.Quantum
	}
	s.pending = append(s.pending, ev)
}

// Params returns the parameters the scheduler runs with.
func (s *Scheduler) Params() Params { return s.params }

// Current returns the PID owning the CPU.
func (s *Scheduler) Current() PID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Proc returns a snapshot of one record.
func (s *Scheduler) Proc(pid PID) (Proc, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.table.Get(pid)
	if p == nil {
		return Proc{}, false
	}
	return *p, true
}

// Queue returns the PIDs waiting at one level, head first.
func (s *Scheduler) Queue(level int) []PID {
	s.mu.Lock()
	defer s.mu.Unlock()

	if level < 0 || level >= s.queues.Levels() {
		return nil
	}
	return s.queues.Level(level).Values()
}

// Dispatches returns the number of dispatches in the current epoch.
func (s *Scheduler) Dispatches() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dispatches
}

// Spawn allocates a record. The process is not schedulable until AdmitNew.
func (s *Scheduler) Spawn(name string, parent PID) (PID, error) {
	s.mu.Lock()
	defer s.unlock()

	p, err := s.table.alloc(name, parent)
	if err != nil {
		return NoPID, err
	}
	return p.PID, nil
}

// Release frees the slot of a terminated process.
func (s *Scheduler) Release(pid PID) error {
	s.mu.Lock()
	defer s.unlock()

	p := s.table.Get(pid)
	if p == nil || pid == IdlePID {
		return fmt.Errorf("release pid %d: %w", pid, ErrBadPID)
	}
	if p.State != StateZombie || p.queued || pid == s.current {
		return fmt.Errorf("release pid %d (%s): %w", pid, p.State, ErrBusy)
	}
	s.table.free(pid)
	return nil
}

// AdmitNew makes a freshly spawned process schedulable at level 0.
// Any record past the embryo state is refused with ErrBusy.
func (s *Scheduler) AdmitNew(pid PID) error {
	s.mu.Lock()
	defer s.unlock()

	p := s.table.Get(pid)
	if p == nil || pid == IdlePID {
		return fmt.Errorf("admit pid %d: %w", pid, ErrBadPID)
	}
	if p.State != StateEmbryo {
		return fmt.Errorf("admit pid %d (%s): %w", pid, p.State, ErrBusy)
	}
	p.Level = 0
	return s.admitLocked(p)
}

// Schedule marks a process ready with a full quantum for its level,
// e.g. after I/O completion. A process already queued is not queued twice.
// Stopped processes are left alone.
func (s *Scheduler) Schedule(pid PID) error {
	s.mu.Lock()
	defer s.unlock()

	p := s.table.Get(pid)
	if p == nil || p.State == StateZombie || p.State == StateEmbryo {
		return fmt.Errorf("schedule pid %d: %w", pid, ErrBadPID)
	}

	switch {
	case pid == IdlePID, p.State == StateStopped:
		// a stopped process becomes ready through Resume only
		return nil
	case pid == s.current && p.State == StateRunning:
		p.Quantum = s.params.Quantum(p.Level)
		return nil
	case p.queued:
		p.State = StateReady
		p.Quantum = s.params.Quantum(p.Level)
		return nil
	default:
		return s.admitLocked(p)
	}
}

// Resume makes a stopped process ready at its current level.
// Resuming a process that is not stopped is a no-op.
func (s *Scheduler) Resume(pid PID) error {
	s.mu.Lock()
	defer s.unlock()

	p := s.table.Get(pid)
	if p == nil {
		return fmt.Errorf("resume pid %d: %w", pid, ErrBadPID)
	}
	if p.State != StateStopped {
		return nil
	}
	s.emit(StatusResume, p)
	return s.admitLocked(p)
}

// StopCurrent stops the running process, notifies its parent and gives
// the CPU away. The process runs again only after Resume.
func (s *Scheduler) StopCurrent() {
	s.switchIf(s.stopCurrent())
}

func (s *Scheduler) stopCurrent() (from, to PID, ok bool) {
	s.mu.Lock()
	defer s.unlock()

	if s.current == IdlePID {
		s.logger.Warn("idle process cannot stop")
		return NoPID, NoPID, false
	}
	curr := s.table.Get(s.current)
	curr.State = StateStopped
	s.emit(StatusStop, curr)
	if parent := s.table.Get(curr.Parent); parent != nil {
		s.signalLocked(parent, SIGCHLD)
	}

	from, to = s.rescheduleLocked()
	return from, to, true
}

// Block puts the running process to sleep and gives the CPU away.
// Schedule or a waking signal makes it ready again.
func (s *Scheduler) Block() {
	s.switchIf(s.block())
}

func (s *Scheduler) block() (from, to PID, ok bool) {
	s.mu.Lock()
	defer s.unlock()

	if s.current == IdlePID {
		s.logger.Warn("idle process cannot block")
		return NoPID, NoPID, false
	}
	curr := s.table.Get(s.current)
	curr.State = StateWaiting
	s.emit(StatusBlock, curr)

	from, to = s.rescheduleLocked()
	return from, to, true
}

// Exit terminates a process and takes it out of the ready queues.
// When the process is the running one the CPU is given away.
func (s *Scheduler) Exit(pid PID) error {
	from, to, ok, err := s.exit(pid)
	s.switchIf(from, to, ok)
	return err
}

func (s *Scheduler) exit(pid PID) (from, to PID, ok bool, err error) {
	s.mu.Lock()
	defer s.unlock()

	p := s.table.Get(pid)
	if p == nil || pid == IdlePID {
		return NoPID, NoPID, false, fmt.Errorf("exit pid %d: %w", pid, ErrBadPID)
	}
	if p.State == StateZombie {
		return NoPID, NoPID, false, nil
	}

	s.unqueueLocked(p)
	p.State = StateZombie
	p.alarm = 0
	s.emit(StatusExit, p)
	if parent := s.table.Get(p.Parent); parent != nil {
		s.signalLocked(parent, SIGCHLD)
	}

	if pid != s.current {
		return NoPID, NoPID, false, nil
	}
	from, to = s.rescheduleLocked()
	return from, to, true, nil
}

// Yield gives the CPU away voluntarily.
func (s *Scheduler) Yield() { s.Dispatch() }

// Tick is the timer interrupt. It charges one tick to the running
// process and dispatches once its quantum is spent. The idle process
// gives the CPU away on every tick.
func (s *Scheduler) Tick() {
	s.switchIf(s.tick())
}

func (s *Scheduler) tick() (from, to PID, ok bool) {
	s.mu.Lock()
	defer s.unlock()

	curr := s.table.Get(s.current)
	if s.current != IdlePID && curr.State == StateRunning {
		if curr.Quantum > 0 {
			curr.Quantum--
		}
		if curr.Quantum > 0 {
			return NoPID, NoPID, false
		}
	}

	from, to = s.rescheduleLocked()
	return from, to, true
}

// Dispatch selects the next process and switches to it. It is the only
// place a context switch is initiated.
func (s *Scheduler) Dispatch() {
	s.switchIf(s.dispatch())
}

func (s *Scheduler) dispatch() (from, to PID, ok bool) {
	s.mu.Lock()
	defer s.unlock()

	from, to = s.rescheduleLocked()
	return from, to, true
}

// switchIf runs the context switch outside the critical section.
func (s *Scheduler) switchIf(from, to PID, ok bool) {
	if ok {
		s.switcher.SwitchTo(from, to)
	}
}

// rescheduleLocked runs the dispatch algorithm and returns the outgoing
// and incoming PIDs. It always selects a process.
func (s *Scheduler) rescheduleLocked() (from, to PID) {
	// 1) anti-starvation: move every process to the top level
	if s.dispatches >= s.params.RearrangePeriod {
		s.rearrangeLocked()
		s.dispatches = 0
	}

	// 2) re-admit the outgoing process, demoting it if its quantum is spent
	from = s.current
	curr := s.table.Get(from)
	if curr != nil && curr.State == StateRunning {
		if from == IdlePID {
			curr.State = StateReady
		} else {
			if curr.Quantum <= 0 && curr.Level < s.params.MaxLevel {
				curr.Level++
				s.logger.Debug("demoted", "pid", curr.PID, "name", curr.Name, "level", curr.Level)
				s.emit(StatusDemote, curr)
			}
			_ = s.admitLocked(curr) // a rejected admission is reported inside
		}
	}

	// 3) expired alarms, so a woken process can be picked right away
	s.sweepAlarmsLocked(s.clock.Count())

	// 4) head of the highest non-empty level, idle otherwise
	to = s.selectLocked()

	// 5) hand the CPU over
	next := s.table.Get(to)
	next.State = StateRunning
	next.Priority = PrioUser
	s.current = to
	s.dispatches++
	if to == IdlePID {
		s.emit(StatusIdle, next)
	} else {
		s.emit(StatusDispatch, next)
	}
	return from, to
}

func (s *Scheduler) selectLocked() PID {
	for {
		pid, _, ok := s.queues.Pop()
		if !ok {
			return IdlePID
		}
		p := s.table.Get(pid)
		if p == nil {
			s.logger.Warn("dropping stale ready entry", "pid", pid)
			continue
		}
		p.queued = false
		if p.State != StateReady {
			s.logger.Warn("dropping stale ready entry", "pid", pid, "state", p.State)
			continue
		}
		return pid
	}
}

// admitLocked sets p ready with a full quantum at the tail of its level.
func (s *Scheduler) admitLocked(p *Proc) error {
	p.State = StateReady
	p.Quantum = s.params.Quantum(p.Level)
	s.seq++
	p.seq = s.seq
	if err := s.enqueueLocked(p); err != nil {
		return err
	}
	s.emit(StatusAdmit, p)
	return nil
}

func (s *Scheduler) enqueueLocked(p *Proc) error {
	if err := s.queues.Enqueue(p.Level, p.PID); err != nil {
		s.logger.Error("admission rejected",
			"pid", p.PID,
			"name", p.Name,
			"level", p.Level,
			"capacity", s.params.QueueCapacity,
			"err", err,
		)
		s.emit(StatusQueueFull, p)
		return fmt.Errorf("admit pid %d at level %d: %w", p.PID, p.Level, err)
	}
	p.queued = true
	return nil
}

func (s *Scheduler) unqueueLocked(p *Proc) {
	if !p.queued {
		return
	}
	s.queues.Remove(p.Level, p.PID)
	p.queued = false
}

// rearrangeLocked resets every process to level 0 with a full quantum and
// rebuilds level 0 from the ready processes in admission order.
func (s *Scheduler) rearrangeLocked() {
	order := redblacktree.NewWith(utils.UInt64Comparator)
	s.table.Each(func(p *Proc) {
		p.Level = 0
		p.Quantum = s.params.Quantum(0)
		p.queued = false
		if p.State == StateReady {
			order.Put(p.seq, p.PID)
		}
	})
	s.queues.Clear()

	it := order.Iterator()
	for it.Next() {
		_ = s.enqueueLocked(s.table.Get(it.Value().(PID)))
	}

	s.logger.Debug("rearranged ready queues", "ready", order.Size())
	s.emit(StatusRearrange, nil)
}

// signalLocked delivers sig and readmits p when the delivery wakes it.
func (s *Scheduler) signalLocked(p *Proc, sig Signal) {
	if s.signaler == nil {
		return
	}
	if s.signaler.SendSignal(p, sig) && p.State == StateWaiting {
		_ = s.admitLocked(p)
	}
}
