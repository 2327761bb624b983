package job

// IOBound runs Burst ticks and then blocks Wait ticks on a device.
type IOBound struct {
	Burst int
	Wait  int
	Total int
	w     work
	ran   int
}

func (b *IOBound) Step() Action {
	b.w.Total = b.Total
	if b.w.spend() {
		return Action{Kind: Exit}
	}
	b.ran++
	if b.ran >= b.Burst {
		b.ran = 0
		return Action{Kind: Block, Ticks: b.Wait}
	}
	return Action{Kind: Run}
}

// Sleeper runs Burst ticks and then sleeps on an alarm Period ticks ahead.
type Sleeper struct {
	Burst  int
	Period int
	Total  int
	w      work
	ran    int
}

func (s *Sleeper) Step() Action {
	s.w.Total = s.Total
	if s.w.spend() {
		return Action{Kind: Exit}
	}
	s.ran++
	if s.ran >= s.Burst {
		s.ran = 0
		return Action{Kind: Sleep, Ticks: s.Period}
	}
	return Action{Kind: Run}
}
