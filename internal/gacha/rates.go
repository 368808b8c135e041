package gacha

import (
	"errors"
	"fmt"
	"math"
)

var ErrRateTable = errors.New("invalid rate table")

// RateTable holds the drop rates and pity thresholds of one pool.
// Soft pity ramps linearly: from SoftPity5Start the 5★ rate is
// Base5 + n*SoftStep5 where n is the 1-indexed pull into the ramp.
type RateTable struct {
	Base5          float64 `yaml:"base_5"`
	Base4          float64 `yaml:"base_4"`
	SoftPity5Start int     `yaml:"soft_pity_5_start"`
	HardPity5      int     `yaml:"hard_pity_5"`
	SoftPity4Start int     `yaml:"soft_pity_4_start"`
	HardPity4      int     `yaml:"hard_pity_4"`
	SoftStep5      float64 `yaml:"soft_step_5"`
	SoftStep4      float64 `yaml:"soft_step_4"`

	FeaturedChance5         float64 `yaml:"featured_chance_5"`
	FeaturedChance4         float64 `yaml:"featured_chance_4"`
	CapturingRadianceChance float64 `yaml:"capturing_radiance_chance"`
}

var (
	CharacterRates = RateTable{
		Base5:                   0.006,
		Base4:                   0.051,
		SoftPity5Start:          74,
		HardPity5:               90,
		SoftPity4Start:          8,
		HardPity4:               10,
		SoftStep5:               0.07,
		SoftStep4:               0.20,
		FeaturedChance5:         0.5,
		FeaturedChance4:         0.5,
		CapturingRadianceChance: 0.10,
	}
	WeaponRates = RateTable{
		Base5:           0.007,
		Base4:           0.060,
		SoftPity5Start:  63,
		HardPity5:       80,
		SoftPity4Start:  7,
		HardPity4:       10,
		SoftStep5:       0.07,
		SoftStep4:       0.20,
		FeaturedChance5: 0.75,
		FeaturedChance4: 0.75,
	}
	StandardRates = RateTable{
		Base5:          0.006,
		Base4:          0.051,
		SoftPity5Start: 74,
		HardPity5:      90,
		SoftPity4Start: 8,
		HardPity4:      10,
		SoftStep5:      0.07,
		SoftStep4:      0.20,
	}
)

// RateBook maps each pool to its table.
type RateBook map[Pool]RateTable

// DefaultRateBook returns a fresh copy of the built-in tables.
func DefaultRateBook() RateBook {
	return RateBook{
		PoolCharacter: CharacterRates,
		PoolWeapon:    WeaponRates,
		PoolPermanent: StandardRates,
	}
}

// For returns the table of the banner type's pool; unknown types get the
// standard table, as every non-character, non-weapon banner does.
func (b RateBook) For(t BannerType) RateTable {
	if rt, ok := b[t.Pool()]; ok {
		return rt
	}
	return StandardRates
}

// Validate checks every table of the book.
func (b RateBook) Validate() error {
	for _, p := range Pools {
		rt, ok := b[p]
		if !ok {
			return fmt.Errorf("%w: missing pool %q", ErrRateTable, p)
		}
		if err := rt.Validate(); err != nil {
			return fmt.Errorf("pool %q: %w", p, err)
		}
	}
	return nil
}

// Validate rejects tables whose thresholds or probabilities are out of range.
func (rt RateTable) Validate() error {
	for _, p := range []float64{rt.Base5, rt.Base4, rt.FeaturedChance5, rt.FeaturedChance4, rt.CapturingRadianceChance} {
		if err := validateProb(p); err != nil {
			return err
		}
	}
	if rt.SoftStep5 < 0 || rt.SoftStep4 < 0 || math.IsNaN(rt.SoftStep5) || math.IsNaN(rt.SoftStep4) {
		return fmt.Errorf("%w: soft steps must be >= 0", ErrRateTable)
	}
	if rt.HardPity5 <= 0 || rt.HardPity4 <= 0 {
		return fmt.Errorf("%w: hard pity must be >= 1", ErrRateTable)
	}
	if rt.SoftPity5Start < 0 || rt.SoftPity5Start >= rt.HardPity5 {
		return fmt.Errorf("%w: 0 <= soft_pity_5_start < hard_pity_5", ErrRateTable)
	}
	if rt.SoftPity4Start < 0 || rt.SoftPity4Start >= rt.HardPity4 {
		return fmt.Errorf("%w: 0 <= soft_pity_4_start < hard_pity_4", ErrRateTable)
	}
	return nil
}

// FiveStar is the 5★ probability of the next pull when pity pulls have
// passed since the last 5★.
func (rt RateTable) FiveStar(pity int) float64 {
	return rampProb(pity, rt.Base5, rt.SoftPity5Start, rt.HardPity5, rt.SoftStep5)
}

// FourStar is FiveStar for the 4★ tier.
func (rt RateTable) FourStar(pity int) float64 {
	return rampProb(pity, rt.Base4, rt.SoftPity4Start, rt.HardPity4, rt.SoftStep4)
}

func rampProb(pity int, base float64, softStart, hard int, step float64) float64 {
	// hard pity
	if pity >= hard {
		return 1.0
	}
	if pity < softStart {
		return base
	}
	n := pity - softStart + 1
	return math.Min(base+float64(n)*step, 1.0)
}

// ProbabilityOfFiveStar uses the built-in tables.
func ProbabilityOfFiveStar(pity5 int, t BannerType) float64 {
	return DefaultRateBook().For(t).FiveStar(pity5)
}

// ProbabilityOfFourStar uses the built-in tables.
func ProbabilityOfFourStar(pity4 int, t BannerType) float64 {
	return DefaultRateBook().For(t).FourStar(pity4)
}
