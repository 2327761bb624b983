package sched

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRingQueueFIFO(t *testing.T) {
	q := NewRingQueue(4)
	assert.True(t, q.Empty())

	for _, pid := range []PID{3, 1, 2} {
		require.NoError(t, q.Enqueue(pid))
	}
	assert.Equal(t, 3, q.Len())

	head, ok := q.Peek()
	require.True(t, ok)
	assert.Equal(t, PID(3), head)

	for _, want := range []PID{3, 1, 2} {
		got, ok := q.Dequeue()
		require.True(t, ok)
		assert.Equal(t, want, got)
	}

	got, ok := q.Dequeue()
	assert.False(t, ok)
	assert.Equal(t, NoPID, got)
}

func TestRingQueueFullNeverOverwrites(t *testing.T) {
	q := NewRingQueue(2)
	require.NoError(t, q.Enqueue(1))
	require.NoError(t, q.Enqueue(2))
	assert.True(t, q.Full())

	assert.ErrorIs(t, q.Enqueue(3), ErrQueueFull)
	assert.Equal(t, []PID{1, 2}, q.Values())

	_, _ = q.Dequeue()
	require.NoError(t, q.Enqueue(3))
	assert.Equal(t, []PID{2, 3}, q.Values())
}

func TestRingQueueRemoveKeepsOrder(t *testing.T) {
	q := NewRingQueue(8)
	for pid := PID(1); pid <= 5; pid++ {
		require.NoError(t, q.Enqueue(pid))
	}

	assert.True(t, q.Remove(3))
	assert.False(t, q.Remove(9))
	assert.Equal(t, []PID{1, 2, 4, 5}, q.Values())
	assert.Equal(t, 8, q.Cap())
}

func TestRingQueueRemoveAfterWrap(t *testing.T) {
	q := NewRingQueue(3)
	for pid := PID(1); pid <= 3; pid++ {
		require.NoError(t, q.Enqueue(pid))
	}
	_, _ = q.Dequeue()
	require.NoError(t, q.Enqueue(4)) // tail wraps to the first slot

	assert.True(t, q.Remove(3))
	assert.Equal(t, []PID{2, 4}, q.Values())
	require.NoError(t, q.Enqueue(5))
	assert.Equal(t, []PID{2, 4, 5}, q.Values())
	assert.True(t, q.Full())
}

func TestQueueSetPopsHighestLevelFirst(t *testing.T) {
	qs := NewQueueSet(2, 4)
	require.NoError(t, qs.Enqueue(2, 7))
	require.NoError(t, qs.Enqueue(1, 5))
	require.NoError(t, qs.Enqueue(1, 6))
	assert.Equal(t, 3, qs.Len())

	want := []struct {
		pid   PID
		level int
	}{{5, 1}, {6, 1}, {7, 2}}
	for _, w := range want {
		pid, level, ok := qs.Pop()
		require.True(t, ok)
		assert.Equal(t, w.pid, pid)
		assert.Equal(t, w.level, level)
	}

	_, _, ok := qs.Pop()
	assert.False(t, ok)
	assert.True(t, qs.Empty())
}
