package sched

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTickClockAdvance(t *testing.T) {
	c := NewTickClock(1)
	assert.Equal(t, int64(0), c.Count())
	assert.Equal(t, int64(1), c.Advance())
	assert.Equal(t, int64(2), c.Advance())
	assert.Equal(t, int64(2), c.Count())
}

func TestTickClockStartStop(t *testing.T) {
	c := NewTickClock(4)
	c.Start(time.Millisecond)

	for i := 0; i < 3; i++ {
		<-c.Ch
	}
	c.Stop()
	for range c.Ch {
	}

	assert.GreaterOrEqual(t, c.Count(), int64(3))
}
