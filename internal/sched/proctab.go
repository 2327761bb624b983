package sched

import (
	"errors"
	"fmt"
)

// IdlePID is the slot of the idle process. It is always valid, never
// queued, and runs whenever no other process is ready.
const IdlePID PID = 0

var (
	ErrBadPID    = errors.New("bad pid")
	ErrTableFull = errors.New("process table full")
	ErrBusy      = errors.New("process still scheduled")
)

// ProcTable is the arena of process records addressed by PID.
// It has no locking of its own; the Scheduler guards it.
type ProcTable struct {
	procs []Proc
}

// NewProcTable returns a table of n slots with the idle process at slot 0.
func NewProcTable(n int) *ProcTable {
	t := &ProcTable{procs: make([]Proc, n)}
	for i := range t.procs {
		t.procs[i] = Proc{PID: PID(i), Parent: NoPID, State: StateFree}
	}
	t.procs[IdlePID] = Proc{
		PID:      IdlePID,
		Name:     "idle",
		Parent:   NoPID,
		State:    StateRunning,
		Priority: PrioUser,
	}
	return t
}

// First returns the first user slot. The idle slot precedes it.
func (t *ProcTable) First() PID { return IdlePID + 1 }

// Last returns the last slot.
func (t *ProcTable) Last() PID { return PID(len(t.procs) - 1) }

// Len returns the number of slots.
func (t *ProcTable) Len() int { return len(t.procs) }

// Valid reports whether pid names an allocated record.
func (t *ProcTable) Valid(pid PID) bool {
	return pid >= 0 && int(pid) < len(t.procs) && t.procs[pid].State != StateFree
}

// Get returns the record of a valid pid, nil otherwise.
func (t *ProcTable) Get(pid PID) *Proc {
	if !t.Valid(pid) {
		return nil
	}
	return &t.procs[pid]
}

// Each calls fn for every valid user record in slot order.
func (t *ProcTable) Each(fn func(p *Proc)) {
	for pid := t.First(); pid <= t.Last(); pid++ {
		if t.Valid(pid) {
			fn(&t.procs[pid])
		}
	}
}

// alloc claims the first free slot. The record stays an embryo until
// the scheduler admits it.
func (t *ProcTable) alloc(name string, parent PID) (*Proc, error) {
	for pid := t.First(); pid <= t.Last(); pid++ {
		if t.procs[pid].State != StateFree {
			continue
		}
		t.procs[pid] = Proc{
			PID:      pid,
			Name:     name,
			Parent:   parent,
			State:    StateEmbryo,
			Priority: PrioUser,
		}
		return &t.procs[pid], nil
	}
	return nil, fmt.Errorf("spawn %q: %w", name, ErrTableFull)
}

// free returns a slot to the table.
func (t *ProcTable) free(pid PID) {
	t.procs[pid] = Proc{PID: pid, Parent: NoPID, State: StateFree}
}
