package gacha

import (
	"errors"
	"math"
)

var ErrInvalidProb = errors.New("invalid probability p; must be 0..1")

// roll reports a hit under p, which was validated with its RateTable.
// It always consumes one value from rng so that seeded sequences stay aligned.
func roll(p float64, rng RandomSource) bool {
	return rng.Float64() < p
}

func validateProb(p float64) error {
	if math.IsNaN(p) || math.IsInf(p, 0) {
		return ErrInvalidProb
	}
	if p < 0 || p > 1 {
		return ErrInvalidProb
	}
	return nil
}
