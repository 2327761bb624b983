// Package job holds the workloads simulated processes run, one tick at a time.
package job

import (
	"errors"
	"fmt"
)

// Kind is what a process does with the tick it was given.
type Kind int

const (
	Run   Kind = iota // keep computing
	Yield             // give the CPU away, stay ready
	Block             // wait Ticks for I/O
	Sleep             // arm an alarm Ticks ahead and wait for SIGALRM
	Stop              // stop; the parent resumes after Ticks
	Exit              // terminate
)

func (k Kind) String() string {
	switch k {
	case Run:
		return "run"
	case Yield:
		return "yield"
	case Block:
		return "block"
	case Sleep:
		return "sleep"
	case Stop:
		return "stop"
	case Exit:
		return "exit"
	default:
		return "unknown"
	}
}

// Action is the outcome of one step.
type Action struct {
	Kind  Kind
	Ticks int
}

// Behavior is the program of a simulated process.
type Behavior interface {
	Step() Action
}

// Spec describes one process of a scenario file.
type Spec struct {
	Name   string `yaml:"name"`
	Kind   string `yaml:"kind"`   // cpu, io, yielder, sleeper, stopper
	Parent string `yaml:"parent"` // name of another process, optional
	Total  int    `yaml:"total"`  // ticks of work before exiting, 0 = forever
	Burst  int    `yaml:"burst"`  // ticks run between two waits
	Wait   int    `yaml:"wait"`   // io: ticks blocked
	Period int    `yaml:"period"` // sleeper: alarm distance
	Every  int    `yaml:"every"`  // stopper: ticks run between two stops
	Pause  int    `yaml:"pause"`  // stopper: ticks stopped
}

var ErrUnknownKind = errors.New("unknown job kind")

// New builds the behavior a spec names.
func New(spec Spec) (Behavior, error) {
	switch spec.Kind {
	case "cpu", "":
		return &CPUBound{Total: spec.Total}, nil
	case "io":
		return &IOBound{Burst: atLeast(spec.Burst, 1), Wait: atLeast(spec.Wait, 1), Total: spec.Total}, nil
	case "yielder":
		return &Yielder{Burst: atLeast(spec.Burst, 1), Total: spec.Total}, nil
	case "sleeper":
		return &Sleeper{Burst: atLeast(spec.Burst, 1), Period: atLeast(spec.Period, 1), Total: spec.Total}, nil
	case "stopper":
		return &Stopper{Every: atLeast(spec.Every, 1), Pause: atLeast(spec.Pause, 1), Total: spec.Total}, nil
	default:
		return nil, fmt.Errorf("process %q: %w: %s", spec.Name, ErrUnknownKind, spec.Kind)
	}
}

func atLeast(v, floor int) int {
	if v < floor {
		return floor
	}
	return v
}

// work counts ticks against an optional total.
type work struct {
	Total int
	done  int
}

// spend charges one tick and reports whether the job is finished.
func (w *work) spend() bool {
	w.done++
	return w.Total > 0 && w.done >= w.Total
}
