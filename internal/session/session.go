// Package session keeps the per-pool pity state, pull history and
// statistics of one simulator user in memory.
package session

import (
	"errors"
	"fmt"
	"sync"
	"time"

	uuid "github.com/satori/go.uuid"

	"github.com/xtding233/wishsim/internal/gacha"
	"github.com/xtding233/wishsim/internal/token"
)

var ErrUnknownPool = errors.New("unknown pity pool")

// DefaultHistoryLimit caps the records kept per pool. Statistics are
// tallied separately and are not affected by the cap.
const DefaultHistoryLimit = 5000

// Record is one resolved pull as it appears in history.
type Record struct {
	ID       string     `json:"id"`
	Time     time.Time  `json:"timestamp"`
	BannerID string     `json:"bannerId"`
	Pool     gacha.Pool `json:"pool"`
	// Pity is the wish count since the previous item of the same tier,
	// including this one. Zero for 3★.
	Pity int `json:"pity"`
	gacha.Outcome
}

// Session is safe for concurrent use. Pulls are serialized.
type Session struct {
	mu      sync.Mutex
	sim     *gacha.Simulator
	cost    token.Token
	limit   int
	now     func() time.Time
	states  map[gacha.Pool]gacha.State
	history map[gacha.Pool][]Record // oldest first
	tallies map[gacha.Pool]*tally
}

// Option configures a Session.
type Option func(*Session)

// WithCost sets the currency charged per wish.
func WithCost(t token.Token) Option { return func(s *Session) { s.cost = t } }

// WithHistoryLimit caps records kept per pool; n <= 0 keeps everything.
func WithHistoryLimit(n int) Option { return func(s *Session) { s.limit = n } }

// WithClock replaces time.Now for record timestamps.
func WithClock(now func() time.Time) Option { return func(s *Session) { s.now = now } }

// New returns a session with fresh state for every pool.
func New(sim *gacha.Simulator, opts ...Option) *Session {
	if sim == nil {
		sim = gacha.DefaultSimulator()
	}
	s := &Session{
		sim:     sim,
		cost:    token.Primogem,
		limit:   DefaultHistoryLimit,
		now:     time.Now,
		states:  make(map[gacha.Pool]gacha.State, len(gacha.Pools)),
		history: make(map[gacha.Pool][]Record, len(gacha.Pools)),
		tallies: make(map[gacha.Pool]*tally, len(gacha.Pools)),
	}
	for _, o := range opts {
		o(s)
	}
	for _, p := range gacha.Pools {
		s.states[p] = gacha.NewState(p.BannerType())
		s.tallies[p] = newTally()
	}
	return s
}

// SetSimulator swaps the simulator, e.g. after a rate reload. Counters
// are clamped below the new hard pity so the next pulls stay valid.
func (s *Session) SetSimulator(sim *gacha.Simulator) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sim = sim
	for p, st := range s.states {
		s.states[p] = st.Clamp(sim.Rates(st.BannerType))
	}
}

// Simulator returns the simulator pulls currently run against.
func (s *Session) Simulator() *gacha.Simulator {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sim
}

// Wish resolves n pulls on banner, records them and returns the new
// records in pull order. Nothing is recorded when resolution fails.
func (s *Session) Wish(banner gacha.AdaptedBanner, n int, rng gacha.RandomSource) ([]Record, error) {
	if n <= 0 {
		return nil, fmt.Errorf("wish count must be positive, got %d", n)
	}
	pool := banner.Type.Pool()

	s.mu.Lock()
	defer s.mu.Unlock()
	state, ok := s.states[pool]
	if !ok {
		return nil, fmt.Errorf("%w: banner type %q", ErrUnknownPool, banner.Type)
	}
	// a character-2 banner pulls on the shared character state
	state.BannerType = banner.Type

	outs, next, err := s.sim.PullN(state, banner, n, rng)
	if err != nil {
		return nil, err
	}

	recs := make([]Record, len(outs))
	p5, p4 := state.Pity5, state.Pity4
	now := s.now()
	for i, out := range outs {
		p5++
		p4++
		pity := 0
		switch out.Rarity {
		case 5:
			pity, p5 = p5, 0
		case 4:
			pity, p4 = p4, 0
		}
		recs[i] = Record{
			ID:       uuid.NewV4().String(),
			Time:     now,
			BannerID: banner.ID,
			Pool:     pool,
			Pity:     pity,
			Outcome:  out,
		}
	}

	next.History = nil
	s.states[pool] = next
	s.append(pool, recs)
	s.tallies[pool].add(recs, s.cost.TokensForDraws(n))
	return recs, nil
}

func (s *Session) append(pool gacha.Pool, recs []Record) {
	h := append(s.history[pool], recs...)
	if s.limit > 0 && len(h) > s.limit {
		h = append([]Record(nil), h[len(h)-s.limit:]...)
	}
	s.history[pool] = h
}

// State returns the pool's state with its history filled newest first.
func (s *Session) State(pool gacha.Pool) (gacha.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.states[pool]
	if !ok {
		return gacha.State{}, fmt.Errorf("%w: %q", ErrUnknownPool, pool)
	}
	recs := s.history[pool]
	st.History = make([]gacha.Outcome, 0, len(recs))
	for i := len(recs) - 1; i >= 0; i-- {
		st.History = append(st.History, recs[i].Outcome)
	}
	return st, nil
}

// Status reports the pool's pity position.
func (s *Session) Status(pool gacha.Pool) (gacha.PityStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.states[pool]
	if !ok {
		return gacha.PityStatus{}, fmt.Errorf("%w: %q", ErrUnknownPool, pool)
	}
	return gacha.Status(st, s.sim.Rates(st.BannerType)), nil
}

// Reset zeroes pity and guarantees of a pool. History and statistics stay.
func (s *Session) Reset(pool gacha.Pool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.states[pool]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownPool, pool)
	}
	s.states[pool] = st.Reset()
	return nil
}

// History returns up to limit records, newest first. An empty pool
// selects every pool; limit <= 0 returns everything.
func (s *Session) History(pool gacha.Pool, limit int) ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var all []Record
	if pool == "" {
		for _, p := range gacha.Pools {
			all = append(all, s.history[p]...)
		}
		sortByTime(all)
	} else {
		if _, ok := s.states[pool]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownPool, pool)
		}
		all = s.history[pool]
	}
	out := make([]Record, 0, len(all))
	for i := len(all) - 1; i >= 0; i-- {
		if limit > 0 && len(out) == limit {
			break
		}
		out = append(out, all[i])
	}
	return out, nil
}

// ClearHistory drops the history and statistics of a pool, or of every
// pool when pool is empty. Pity is left as is.
func (s *Session) ClearHistory(pool gacha.Pool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if pool == "" {
		for _, p := range gacha.Pools {
			s.history[p] = nil
			s.tallies[p] = newTally()
		}
		return nil
	}
	if _, ok := s.states[pool]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownPool, pool)
	}
	s.history[pool] = nil
	s.tallies[pool] = newTally()
	return nil
}

// Stats summarizes a pool, or every pool when pool is empty.
func (s *Session) Stats(pool gacha.Pool) (Stats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if pool == "" {
		sum := newTally()
		for _, p := range gacha.Pools {
			sum.merge(s.tallies[p])
		}
		return sum.stats(), nil
	}
	t, ok := s.tallies[pool]
	if !ok {
		return Stats{}, fmt.Errorf("%w: %q", ErrUnknownPool, pool)
	}
	return t.stats(), nil
}
