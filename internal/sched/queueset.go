package sched

// QueueSet holds one RingQueue per priority level, level 0 first.
type QueueSet struct {
	levels []*RingQueue
}

// NewQueueSet builds maxLevel+1 queues of the given capacity each.
func NewQueueSet(maxLevel, capacity int) *QueueSet {
	qs := &QueueSet{levels: make([]*RingQueue, maxLevel+1)}
	for i := range qs.levels {
		qs.levels[i] = NewRingQueue(capacity)
	}
	return qs
}

// Level returns the queue of one level.
func (qs *QueueSet) Level(level int) *RingQueue { return qs.levels[level] }

// Levels returns the number of levels.
func (qs *QueueSet) Levels() int { return len(qs.levels) }

// Enqueue appends pid at the tail of the given level.
func (qs *QueueSet) Enqueue(level int, pid PID) error {
	return qs.levels[level].Enqueue(pid)
}

// Pop removes the head of the highest-priority non-empty level.
func (qs *QueueSet) Pop() (pid PID, level int, ok bool) {
	for l, q := range qs.levels {
		if head, found := q.Dequeue(); found {
			return head, l, true
		}
	}
	return NoPID, -1, false
}

// Remove takes pid out of the given level.
func (qs *QueueSet) Remove(level int, pid PID) bool {
	return qs.levels[level].Remove(pid)
}

// Len returns the number of queued PIDs across all levels.
func (qs *QueueSet) Len() int {
	n := 0
	for _, q := range qs.levels {
		n += q.Len()
	}
	return n
}

func (qs *QueueSet) Empty() bool { return qs.Len() == 0 }

// Clear empties every level.
func (qs *QueueSet) Clear() {
	for _, q := range qs.levels {
		q.Clear()
	}
}
