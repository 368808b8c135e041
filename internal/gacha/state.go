package gacha

import (
	"errors"
	"fmt"
)

var ErrInvalidState = errors.New("invalid simulation state")

// NewState returns a zeroed pity record with an empty history.
func NewState(t BannerType) State {
	return State{BannerType: t, History: []Outcome{}}
}

// Reset zeroes pity and guarantees but keeps the history.
func (s State) Reset() State {
	n := NewState(s.BannerType)
	if s.History != nil {
		n.History = s.History
	}
	return n
}

// Pool is the pity pool the state belongs to.
func (s State) Pool() Pool { return s.BannerType.Pool() }

// check rejects states the resolver cannot reach under rt: pity4 stays
// below the 4★ hard pity, and pity5 only sits at the 5★ hard pity right
// after a 4★ override, so the next pull is the 5★.
func (s State) check(rt RateTable) error {
	if s.Pity5 < 0 || s.Pity5 > rt.HardPity5 {
		return fmt.Errorf("%w: pity5=%d outside [0,%d]", ErrInvalidState, s.Pity5, rt.HardPity5)
	}
	if s.Pity4 < 0 || s.Pity4 >= rt.HardPity4 {
		return fmt.Errorf("%w: pity4=%d outside [0,%d)", ErrInvalidState, s.Pity4, rt.HardPity4)
	}
	if s.Pity5 == rt.HardPity5 && s.Pity4 >= rt.HardPity4-1 {
		return fmt.Errorf("%w: pity5=%d and pity4=%d both at hard pity", ErrInvalidState, s.Pity5, s.Pity4)
	}
	return nil
}

// Clamp pulls counters left over from a table with a higher hard pity
// back into range, keeping the next pull's outcome tier unchanged where
// possible.
func (s State) Clamp(rt RateTable) State {
	s.Pity5 = max(0, min(s.Pity5, rt.HardPity5-1))
	s.Pity4 = max(0, min(s.Pity4, rt.HardPity4-1))
	return s
}

// PityPhase names where the 5★ counter sits on the ramp.
type PityPhase string

const (
	PhaseBase PityPhase = ""
	PhaseSoft PityPhase = "soft"
	PhaseHard PityPhase = "hard"
)

// PityStatus summarizes a state for display.
type PityStatus struct {
	Pool        Pool      `json:"pool"`
	Current     int       `json:"current"`
	Pity4       int       `json:"pity4"`
	Guaranteed  bool      `json:"guaranteed"`
	Guaranteed4 bool      `json:"guaranteed4"`
	Phase       PityPhase `json:"pityType"`
	ToSoft      int       `json:"wishesToSoft"`
	ToHard      int       `json:"wishesToHard"`
	SoftPity    int       `json:"softPity"`
	HardPity    int       `json:"hardPity"`
	NextFive    float64   `json:"nextFiveStarChance"`
}

// Status reports the state's pity position against its table.
func Status(s State, rt RateTable) PityStatus {
	st := PityStatus{
		Pool:        s.Pool(),
		Current:     s.Pity5,
		Pity4:       s.Pity4,
		Guaranteed:  s.Guaranteed5,
		Guaranteed4: s.Guaranteed4,
		ToSoft:      max(0, rt.SoftPity5Start-s.Pity5),
		ToHard:      max(0, rt.HardPity5-s.Pity5),
		SoftPity:    rt.SoftPity5Start,
		HardPity:    rt.HardPity5,
		NextFive:    rt.FiveStar(s.Pity5),
	}
	switch {
	case s.Pity5 >= rt.HardPity5:
		st.Phase = PhaseHard
	case s.Pity5 >= rt.SoftPity5Start:
		st.Phase = PhaseSoft
	}
	return st
}
