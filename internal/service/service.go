// Package service ties the banner catalog, the simulator and the session
// together behind the operations the HTTP and gRPC transports expose.
package service

import (
	"errors"
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/xtding233/wishsim/internal/catalog"
	"github.com/xtding233/wishsim/internal/gacha"
	"github.com/xtding233/wishsim/internal/session"
	"github.com/xtding233/wishsim/internal/token"
)

// ErrBadRequest marks errors caused by caller input.
var ErrBadRequest = errors.New("bad request")

const (
	DefaultTrials = 10000
	MaxTrials     = 100000
	MaxBudget     = 10000
)

// BannerView is a catalog entry enriched for display.
type BannerView struct {
	gacha.Descriptor
	Type      gacha.BannerType   `json:"type"`
	Pool      gacha.Pool         `json:"pool"`
	Active    bool               `json:"active"`
	Remaining *catalog.Remaining `json:"timeRemaining,omitempty"`
}

// WishResult is the answer to a wish: the new records and the pity
// status after them.
type WishResult struct {
	Banner  string           `json:"banner"`
	Results []session.Record `json:"results"`
	Pity    gacha.PityStatus `json:"pity"`
}

// Service is safe for concurrent use.
type Service struct {
	mu      sync.Mutex
	catalog *catalog.Catalog
	rng     gacha.RandomSource
	now     func() time.Time

	sess *session.Session
}

// New builds a service. A nil rng uses the crypto source.
func New(cat *catalog.Catalog, sim *gacha.Simulator, rng gacha.RandomSource, opts ...session.Option) *Service {
	if cat == nil {
		cat = catalog.Fallback()
	}
	if rng == nil {
		rng = gacha.DefaultRNG()
	}
	return &Service{
		catalog: cat,
		rng:     rng,
		now:     time.Now,
		sess:    session.New(sim, opts...),
	}
}

// SetClock replaces time.Now for banner windows.
func (s *Service) SetClock(now func() time.Time) {
	s.mu.Lock()
	s.now = now
	s.mu.Unlock()
}

// Reload swaps in a new catalog and/or simulator. Nil arguments keep the
// current value. Pity and history survive.
func (s *Service) Reload(cat *catalog.Catalog, sim *gacha.Simulator) {
	if cat != nil {
		s.mu.Lock()
		s.catalog = cat
		s.mu.Unlock()
		log.WithField("banners", cat.Len()).Info("banner catalog reloaded")
	}
	if sim != nil {
		s.sess.SetSimulator(sim)
		log.Info("rate tables reloaded")
	}
}

func (s *Service) snapshot() (*catalog.Catalog, time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.catalog, s.now()
}

// Banners lists the catalog. With activeOnly, banners outside their
// window are left out and limited banners come first.
func (s *Service) Banners(activeOnly bool) []BannerView {
	cat, now := s.snapshot()
	list := cat.All()
	if activeOnly {
		list = cat.Current(now)
	}
	out := make([]BannerView, 0, len(list))
	for _, d := range list {
		a, err := gacha.AdaptBanner(d)
		if err != nil {
			// catalog.New already rejected these
			continue
		}
		out = append(out, BannerView{
			Descriptor: d,
			Type:       a.Type,
			Pool:       a.Type.Pool(),
			Active:     catalog.Active(d, now),
			Remaining:  catalog.TimeRemaining(d, now),
		})
	}
	return out
}

func (s *Service) banner(id string) (gacha.AdaptedBanner, error) {
	if id == "" {
		return gacha.AdaptedBanner{}, fmt.Errorf("%w: banner id is required", ErrBadRequest)
	}
	cat, _ := s.snapshot()
	return cat.Adapted(id)
}

// PoolOf resolves a banner id or a pool name to a pity pool. An empty
// key means every pool.
func (s *Service) PoolOf(key string) (gacha.Pool, error) {
	if key == "" {
		return "", nil
	}
	for _, p := range gacha.Pools {
		if string(p) == key {
			return p, nil
		}
	}
	b, err := s.banner(key)
	if err != nil {
		return "", err
	}
	return b.Type.Pool(), nil
}

// Wish pulls n times on a banner.
func (s *Service) Wish(bannerID string, n int) (WishResult, error) {
	if n <= 0 || n > gacha.MultiPull {
		return WishResult{}, fmt.Errorf("%w: wish count must be 1..%d, got %d", ErrBadRequest, gacha.MultiPull, n)
	}
	b, err := s.banner(bannerID)
	if err != nil {
		return WishResult{}, err
	}

	s.mu.Lock()
	recs, err := s.sess.Wish(b, n, s.rng)
	var status gacha.PityStatus
	if err == nil {
		status, err = s.sess.Status(b.Type.Pool())
	}
	s.mu.Unlock()
	if err != nil {
		log.WithFields(log.Fields{"banner": bannerID, "count": n}).Errorf("wish failed: %v", err)
		return WishResult{}, err
	}
	fields := log.Fields{"banner": bannerID, "count": n, "pity": status.Current}
	for _, r := range recs {
		if r.Rarity == 5 {
			log.WithFields(fields).Infof("5★ %s (featured=%v radiance=%v)", r.Name, r.Featured, r.CapturingRadiance)
		}
	}
	log.WithFields(fields).Debug("wish resolved")
	return WishResult{Banner: bannerID, Results: recs, Pity: status}, nil
}

// WishTen is a 10-wish.
func (s *Service) WishTen(bannerID string) (WishResult, error) {
	return s.Wish(bannerID, gacha.MultiPull)
}

// Reset zeroes the pity of the pool behind key (banner id or pool name).
func (s *Service) Reset(key string) error {
	pool, err := s.PoolOf(key)
	if err != nil {
		return err
	}
	if pool == "" {
		return fmt.Errorf("%w: banner or pool is required", ErrBadRequest)
	}
	if err := s.sess.Reset(pool); err != nil {
		return err
	}
	log.WithField("pool", pool).Info("pity reset")
	return nil
}

// State returns the pool state with history, newest first.
func (s *Service) State(key string) (gacha.State, error) {
	pool, err := s.PoolOf(key)
	if err != nil {
		return gacha.State{}, err
	}
	if pool == "" {
		return gacha.State{}, fmt.Errorf("%w: banner or pool is required", ErrBadRequest)
	}
	return s.sess.State(pool)
}

// Status returns the pity status of every pool, or of the one behind key.
func (s *Service) Status(key string) ([]gacha.PityStatus, error) {
	pool, err := s.PoolOf(key)
	if err != nil {
		return nil, err
	}
	pools := gacha.Pools
	if pool != "" {
		pools = []gacha.Pool{pool}
	}
	out := make([]gacha.PityStatus, 0, len(pools))
	for _, p := range pools {
		st, err := s.sess.Status(p)
		if err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, nil
}

// History returns records newest first.
func (s *Service) History(key string, limit int) ([]session.Record, error) {
	pool, err := s.PoolOf(key)
	if err != nil {
		return nil, err
	}
	return s.sess.History(pool, limit)
}

// ClearHistory drops history and statistics.
func (s *Service) ClearHistory(key string) error {
	pool, err := s.PoolOf(key)
	if err != nil {
		return err
	}
	if err := s.sess.ClearHistory(pool); err != nil {
		return err
	}
	log.WithField("pool", pool).Info("history cleared")
	return nil
}

// Stats summarizes recorded pulls.
func (s *Service) Stats(key string) (session.Stats, error) {
	pool, err := s.PoolOf(key)
	if err != nil {
		return session.Stats{}, err
	}
	return s.sess.Stats(pool)
}

// PredictParams selects a Monte Carlo run. A fixed budget is given in
// wishes, or as Primogems and Intertwined Fates converted to wishes.
type PredictParams struct {
	Banner    string
	Goal      gacha.TrialGoal
	Trials    int
	Budget    int
	Primogems int
	Fates     int
}

// Prediction is a Monte Carlo result.
type Prediction struct {
	Banner string          `json:"banner"`
	Goal   gacha.TrialGoal `json:"goal"`
	Budget int             `json:"budget,omitempty"`
	Start  gacha.State     `json:"start"`
	gacha.Stats
}

// Predict runs a Monte Carlo simulation starting from the current pity of
// the banner's pool. The session itself is not advanced.
func (s *Service) Predict(p PredictParams) (Prediction, error) {
	if p.Goal == "" {
		p.Goal = gacha.GoalFirstFeatured
	}
	if p.Trials == 0 {
		p.Trials = DefaultTrials
	}
	if p.Trials < 0 || p.Trials > MaxTrials {
		return Prediction{}, fmt.Errorf("%w: trials must be 1..%d", ErrBadRequest, MaxTrials)
	}
	if p.Primogems < 0 || p.Fates < 0 {
		return Prediction{}, fmt.Errorf("%w: currency must be >= 0", ErrBadRequest)
	}
	if p.Budget == 0 {
		p.Budget = token.Primogem.DrawsFor(p.Primogems) + token.Fate.DrawsFor(p.Fates)
	}
	if p.Goal == gacha.GoalFixedBudget && (p.Budget <= 0 || p.Budget > MaxBudget) {
		return Prediction{}, fmt.Errorf("%w: budget must be 1..%d", ErrBadRequest, MaxBudget)
	}
	b, err := s.banner(p.Banner)
	if err != nil {
		return Prediction{}, err
	}
	start, err := s.sess.State(b.Type.Pool())
	if err != nil {
		return Prediction{}, err
	}
	start.History = nil
	start.BannerType = b.Type

	// a private stream keeps the shared source free during long runs
	s.mu.Lock()
	seed := uint64(s.rng.Float64() * (1 << 53))
	s.mu.Unlock()

	begin := time.Now()
	stats, err := s.sess.Simulator().RunMonteCarlo(gacha.SimParams{
		Banner: b,
		Start:  start,
		Goal:   p.Goal,
		Budget: p.Budget,
	}, p.Trials, gacha.NewSeededRNG(seed))
	if err != nil {
		if errors.Is(err, gacha.ErrUnknownGoal) || errors.Is(err, gacha.ErrGoalBanner) {
			err = fmt.Errorf("%w: %w", ErrBadRequest, err)
		}
		return Prediction{}, err
	}
	log.WithFields(log.Fields{
		"banner": p.Banner, "goal": p.Goal, "trials": p.Trials, "elapsed": time.Since(begin),
	}).Debug("prediction finished")

	start.History = []gacha.Outcome{}
	return Prediction{Banner: p.Banner, Goal: p.Goal, Budget: p.Budget, Start: start, Stats: stats}, nil
}
