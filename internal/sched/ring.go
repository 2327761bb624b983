package sched

import (
	"errors"

	"github.com/emirpasic/gods/queues/circularbuffer"
)

// ErrQueueFull is returned when a ready queue has no room left. It means
// the queue capacity is provisioned below the number of processes.
var ErrQueueFull = errors.New("ready queue full")

// RingQueue is a fixed-capacity FIFO of PIDs for one priority level.
// It never overwrites an entry.
type RingQueue struct {
	buf *circularbuffer.Queue
	cap int
}

// NewRingQueue returns an empty queue holding at most capacity PIDs.
func NewRingQueue(capacity int) *RingQueue {
	if capacity < 1 {
		capacity = 1
	}
	return &RingQueue{
		buf: circularbuffer.New(capacity),
		cap: capacity,
	}
}

// Enqueue appends pid at the tail.
func (q *RingQueue) Enqueue(pid PID) error {
	// circularbuffer drops the oldest element when full, so refuse first.
	if q.buf.Full() {
		return ErrQueueFull
	}
	q.buf.Enqueue(pid)
	return nil
}

// Dequeue removes and returns the head, or (NoPID, false) when empty.
func (q *RingQueue) Dequeue() (PID, bool) {
	v, ok := q.buf.Dequeue()
	if !ok {
		return NoPID, false
	}
	return v.(PID), true
}

// Peek returns the head without removing it.
func (q *RingQueue) Peek() (PID, bool) {
	v, ok := q.buf.Peek()
	if !ok {
		return NoPID, false
	}
	return v.(PID), true
}

// Remove takes pid out of the queue, keeping the order of the others.
// It reports whether pid was present.
func (q *RingQueue) Remove(pid PID) bool {
	found := false
	// one full rotation puts the survivors back in their order
	for n := q.buf.Size(); n > 0; n-- {
		v, _ := q.buf.Dequeue()
		if !found && v.(PID) == pid {
			found = true
			continue
		}
		q.buf.Enqueue(v)
	}
	return found
}

// Values returns the members in FIFO order.
func (q *RingQueue) Values() []PID {
	vals := q.buf.Values()
	out := make([]PID, len(vals))
	for i, v := range vals {
		out[i] = v.(PID)
	}
	return out
}

func (q *RingQueue) Len() int    { return q.buf.Size() }
func (q *RingQueue) Cap() int    { return q.cap }
func (q *RingQueue) Full() bool  { return q.buf.Full() }
func (q *RingQueue) Empty() bool { return q.buf.Empty() }
func (q *RingQueue) Clear()      { q.buf.Clear() }
