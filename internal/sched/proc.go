// internal/sched/proc.go

package sched

// PID addresses a process record inside the process table.
type PID int

// NoPID is returned where no process applies.
const NoPID PID = -1

// State is the run-state of a process record.
type State int

const (
	StateFree    State = iota // slot unused
	StateEmbryo               // spawned, not yet admitted
	StateReady                // on a ready queue
	StateRunning              // owns the CPU
	StateStopped              // excluded from selection until resumed
	StateWaiting              // blocked, woken by Schedule
	StateZombie               // terminated, not yet released
)

func (s State) String() string {
	switch s {
	case StateFree:
		return "Free"
	case StateEmbryo:
		return "Embryo"
	case StateReady:
		return "Ready"
	case StateRunning:
		return "Running"
	case StateStopped:
		return "Stopped"
	case StateWaiting:
		return "Waiting"
	case StateZombie:
		return "Zombie"
	default:
		return "Unknown"
	}
}

// Priority is the execution class a process runs with. Kernel code may
// raise it while the process sleeps inside the kernel; dispatch always
// hands the CPU over at PrioUser.
type Priority int

const PrioUser Priority = 40

// Signal identifies a notification delivered through a Signaler.
type Signal int

const (
	SIGALRM Signal = 14
	SIGCHLD Signal = 17
)

func (s Signal) String() string {
	switch s {
	case SIGALRM:
		return "SIGALRM"
	case SIGCHLD:
		return "SIGCHLD"
	default:
		return "SIG?"
	}
}

// Proc is one schedulable entity. Records live in a ProcTable; the
// scheduler only ever holds their PIDs.
type Proc struct {
	PID      PID
	Name     string
	Parent   PID
	State    State
	Priority Priority
	Level    int // 0 is the highest priority level
	Quantum  int // ticks left before the process is considered for demotion

	seq    uint64 // admission order, breaks ties inside a level
	queued bool   // member of a ready queue
	alarm  int64  // deadline tick, 0 when unset
}

// AlarmDeadline reports the pending alarm tick, 0 when none is set.
func (p *Proc) AlarmDeadline() int64 { return p.alarm }

// Queued reports whether the process currently sits in a ready queue.
func (p *Proc) Queued() bool { return p.queued }
