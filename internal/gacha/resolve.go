package gacha

import (
	"errors"
	"fmt"
)

var (
	ErrNoFeatured   = errors.New("banner has an invalid featured 5★ set")
	ErrPoolMismatch = errors.New("state and banner belong to different pity pools")
)

// Simulator resolves pulls against a rate book and standard pools.
// It holds no per-pull state and is safe for concurrent use.
type Simulator struct {
	rates RateBook
	pools StandardPools
}

// NewSimulator validates rates and pools. A nil rates uses the built-in
// tables.
func NewSimulator(rates RateBook, pools StandardPools) (*Simulator, error) {
	if rates == nil {
		rates = DefaultRateBook()
	}
	if err := rates.Validate(); err != nil {
		return nil, err
	}
	if err := pools.Validate(); err != nil {
		return nil, err
	}
	return &Simulator{rates: rates, pools: pools}, nil
}

var defaultSimulator = &Simulator{rates: DefaultRateBook(), pools: DefaultPools()}

// DefaultSimulator uses the built-in rate tables and standard pools.
func DefaultSimulator() *Simulator { return defaultSimulator }

// Rates returns the table used for banner type t.
func (s *Simulator) Rates(t BannerType) RateTable { return s.rates.For(t) }

// ResolveSinglePull is Pull on the default simulator.
func ResolveSinglePull(state State, banner AdaptedBanner, rng RandomSource) (Outcome, State, error) {
	return defaultSimulator.Pull(state, banner, rng)
}

// Pull resolves one wish. The branches are tried in order:
//  1. 4★ hard pity: the 10th pull since the last 4★ is a 4★, even when
//     the roll would have been a 5★.
//  2. 5★ when r < p5.
//  3. 4★ when r < p5+p4.
//  4. 3★ weapon.
//
// Both counters advance on every pull; a tier result resets its own
// counter only.
func (s *Simulator) Pull(state State, banner AdaptedBanner, rng RandomSource) (Outcome, State, error) {
	if err := s.check(state, banner); err != nil {
		return Outcome{}, state, err
	}
	if rng == nil {
		rng = DefaultRNG()
	}
	rt := s.rates.For(state.BannerType)

	p5 := rt.FiveStar(state.Pity5)
	p4 := rt.FourStar(state.Pity4)
	r := rng.Float64()

	next := state
	next.Pity5++
	next.Pity4++

	var out Outcome
	switch {
	case state.Pity4 >= rt.HardPity4-1:
		next.Pity4 = 0
		out = s.fourStar(&next, banner, rt, rng)
	case r < p5:
		next.Pity5 = 0
		out = s.fiveStar(&next, banner, rt, rng)
	case r < p5+p4:
		next.Pity4 = 0
		out = s.fourStar(&next, banner, rt, rng)
	default:
		out = Outcome{Item: choose(s.pools.ThreeStarWeapons, rng)}
	}
	return out, next, nil
}

func (s *Simulator) check(state State, banner AdaptedBanner) error {
	if !banner.Type.Valid() {
		return fmt.Errorf("%w: unknown banner type %q", ErrInvalidBanner, banner.Type)
	}
	if state.Pool() != banner.Type.Pool() {
		return fmt.Errorf("%w: state %q, banner %q", ErrPoolMismatch, state.BannerType, banner.Type)
	}
	if err := state.check(s.rates.For(state.BannerType)); err != nil {
		return err
	}
	switch banner.Type.Pool() {
	case PoolCharacter:
		if len(banner.Featured5) != 1 {
			return fmt.Errorf("%w: character banner %q needs one featured 5★, has %d", ErrNoFeatured, banner.ID, len(banner.Featured5))
		}
	case PoolWeapon:
		if n := len(banner.Featured5); n < 1 || n > 2 {
			return fmt.Errorf("%w: weapon banner %q needs one or two featured 5★, has %d", ErrNoFeatured, banner.ID, n)
		}
	}
	return nil
}

func (s *Simulator) fiveStar(next *State, banner AdaptedBanner, rt RateTable, rng RandomSource) Outcome {
	switch banner.Type.Pool() {
	case PoolCharacter:
		if next.Guaranteed5 || roll(rt.FeaturedChance5, rng) {
			next.Guaranteed5 = false
			return Outcome{Item: banner.Featured5[0], Featured: true}
		}
		// lost the 50/50; Capturing Radiance may still hand out the featured item
		if roll(rt.CapturingRadianceChance, rng) {
			next.Guaranteed5 = false
			return Outcome{Item: banner.Featured5[0], Featured: true, CapturingRadiance: true}
		}
		next.Guaranteed5 = true
		return Outcome{Item: choose(s.pools.FiveStarCharacters, rng), LostFiftyFifty: true}
	case PoolWeapon:
		if next.Guaranteed5 || roll(rt.FeaturedChance5, rng) {
			next.Guaranteed5 = false
			return Outcome{Item: choose(banner.Featured5, rng), Featured: true}
		}
		next.Guaranteed5 = true
		return Outcome{Item: choose(s.pools.FiveStarWeapons, rng), LostFiftyFifty: true}
	default:
		if roll(0.5, rng) {
			return Outcome{Item: choose(s.pools.FiveStarCharacters, rng)}
		}
		return Outcome{Item: choose(s.pools.FiveStarWeapons, rng)}
	}
}

func (s *Simulator) fourStar(next *State, banner AdaptedBanner, rt RateTable, rng RandomSource) Outcome {
	if banner.Type.Pool() == PoolPermanent {
		return Outcome{Item: s.standardFour(rng)}
	}
	if next.Guaranteed4 || roll(rt.FeaturedChance4, rng) {
		next.Guaranteed4 = false
		if len(banner.Featured4) == 0 {
			return Outcome{Item: s.standardFour(rng)}
		}
		return Outcome{Item: choose(banner.Featured4, rng), Featured: true}
	}
	next.Guaranteed4 = true
	return Outcome{Item: s.standardFour(rng), LostFiftyFifty: true}
}

// standardFour picks the character or weapon sub-pool 50/50, then an item.
func (s *Simulator) standardFour(rng RandomSource) Item {
	if roll(0.5, rng) {
		return choose(s.pools.FourStarCharacters, rng)
	}
	return choose(s.pools.FourStarWeapons, rng)
}
