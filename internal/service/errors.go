package service

import (
	"errors"

	"github.com/xtding233/wishsim/internal/catalog"
	"github.com/xtding233/wishsim/internal/gacha"
	"github.com/xtding233/wishsim/internal/session"
)

// Kind is the transport-neutral class of an error.
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindInvalid
)

// Classify maps an error returned by Service to a Kind.
func Classify(err error) Kind {
	switch {
	case err == nil:
		return KindInternal
	case errors.Is(err, catalog.ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrBadRequest),
		errors.Is(err, session.ErrUnknownPool),
		errors.Is(err, gacha.ErrInvalidBanner),
		errors.Is(err, gacha.ErrNoFeatured),
		errors.Is(err, gacha.ErrPoolMismatch),
		errors.Is(err, gacha.ErrInvalidState),
		errors.Is(err, gacha.ErrUnknownGoal),
		errors.Is(err, gacha.ErrGoalBanner):
		return KindInvalid
	}
	return KindInternal
}
