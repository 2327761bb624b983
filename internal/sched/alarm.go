package sched

import "fmt"

// SetAlarm arms an alarm for pid at an absolute tick. A zero deadline
// cancels the pending alarm; cancelling when none is set is a no-op.
func (s *Scheduler) SetAlarm(pid PID, deadline int64) error {
	s.mu.Lock()
	defer s.unlock()

	p := s.table.Get(pid)
	if p == nil || pid == IdlePID {
		return fmt.Errorf("alarm pid %d: %w", pid, ErrBadPID)
	}
	if deadline < 0 {
		deadline = 0
	}
	p.alarm = deadline
	return nil
}

// Alarm arms an alarm ticks from now, like alarm(2), and returns the
// ticks that were left on the previous one. ticks == 0 cancels.
func (s *Scheduler) Alarm(pid PID, ticks int64) (int64, error) {
	s.mu.Lock()
	defer s.unlock()

	p := s.table.Get(pid)
	if p == nil || pid == IdlePID {
		return 0, fmt.Errorf("alarm pid %d: %w", pid, ErrBadPID)
	}

	now := s.clock.Count()
	var left int64
	if p.alarm != 0 && p.alarm > now {
		left = p.alarm - now
	}

	p.alarm = 0
	if ticks > 0 {
		p.alarm = now + ticks
	}
	return left, nil
}

// sweepAlarmsLocked turns every expired alarm into one SIGALRM.
func (s *Scheduler) sweepAlarmsLocked(now int64) {
	s.table.Each(func(p *Proc) {
		if p.alarm == 0 || p.alarm > now {
			return
		}
		p.alarm = 0
		s.emit(StatusAlarm, p)
		s.signalLocked(p, SIGALRM)
	})
}
