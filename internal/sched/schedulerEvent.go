// internal/sched/schedulerEvent.go

package sched

import (
	"time"
)

// StatusKind represents the type of scheduler event
type StatusKind int

const (
	StatusIdle StatusKind = iota
	StatusAdmit
	StatusDispatch
	StatusDemote
	StatusStop
	StatusResume
	StatusBlock
	StatusExit
	StatusAlarm
	StatusRearrange
	StatusQueueFull
)

// StatusEvent is emitted on every state change the scheduler makes.
type StatusEvent struct {
	Time    time.Time
	Tick    int64
	Kind    StatusKind
	PID     PID
	Name    string
	Level   int
	Quantum int
}

// EventSink consumes scheduler events. Sinks run after the critical
// section is released, in emission order.
type EventSink interface {
	Record(ev StatusEvent)
}

func (sk StatusKind) String() string {
	switch sk {
	case StatusIdle:
		return "Idle"
	case StatusAdmit:
		return "Admit"
	case StatusDispatch:
		return "Dispatch"
	case StatusDemote:
		return "Demote"
	case StatusStop:
		return "Stop"
	case StatusResume:
		return "Resume"
	case StatusBlock:
		return "Block"
	case StatusExit:
		return "Exit"
	case StatusAlarm:
		return "Alarm"
	case StatusRearrange:
		return "Rearrange"
	case StatusQueueFull:
		return "QueueFull"
	default:
		return "Unknown"
	}
}
