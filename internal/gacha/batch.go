package gacha

// MultiPull is the size of a multi-wish.
const MultiPull = 10

// PullN resolves n wishes in order, threading the state from one pull
// into the next. On error the outcomes resolved so far are discarded and
// the input state is returned.
func (s *Simulator) PullN(state State, banner AdaptedBanner, n int, rng RandomSource) ([]Outcome, State, error) {
	if rng == nil {
		rng = DefaultRNG()
	}
	outs := make([]Outcome, 0, n)
	cur := state
	for i := 0; i < n; i++ {
		out, next, err := s.Pull(cur, banner, rng)
		if err != nil {
			return nil, state, err
		}
		outs = append(outs, out)
		cur = next
	}
	return outs, cur, nil
}

// PullTen is a 10-wish. There is no "at least one 4★" batch rule; each
// pull stands on its own.
func (s *Simulator) PullTen(state State, banner AdaptedBanner, rng RandomSource) ([]Outcome, State, error) {
	return s.PullN(state, banner, MultiPull, rng)
}

// ResolveTenPull is PullTen on the default simulator.
func ResolveTenPull(state State, banner AdaptedBanner, rng RandomSource) ([]Outcome, State, error) {
	return defaultSimulator.PullTen(state, banner, rng)
}
