package job

// CPUBound computes until Total ticks are spent, or forever.
type CPUBound struct {
	Total int
	w     work
}

func (c *CPUBound) Step() Action {
	c.w.Total = c.Total
	if c.w.spend() {
		return Action{Kind: Exit}
	}
	return Action{Kind: Run}
}

// Yielder runs Burst ticks and then gives the CPU away, the pattern of an
// interactive process that never spends a full quantum.
type Yielder struct {
	Burst int
	Total int
	w     work
	ran   int
}

func (y *Yielder) Step() Action {
	y.w.Total = y.Total
	if y.w.spend() {
		return Action{Kind: Exit}
	}
	y.ran++
	if y.ran >= y.Burst {
		y.ran = 0
		return Action{Kind: Yield}
	}
	return Action{Kind: Run}
}

// Stopper runs Every ticks and then stops itself for Pause ticks.
type Stopper struct {
	Every int
	Pause int
	Total int
	w     work
	ran   int
}

func (s *Stopper) Step() Action {
	s.w.Total = s.Total
	if s.w.spend() {
		return Action{Kind: Exit}
	}
	s.ran++
	if s.ran >= s.Every {
		s.ran = 0
		return Action{Kind: Stop, Ticks: s.Pause}
	}
	return Action{Kind: Run}
}
