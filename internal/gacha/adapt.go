package gacha

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrInvalidBanner = errors.New("banner has neither character nor weapons and is not permanent")

// Descriptor is a banner as published by the content source.
type Descriptor struct {
	ID          string     `json:"id" yaml:"id"`
	Name        string     `json:"name" yaml:"name"`
	Character   string     `json:"character,omitempty" yaml:"character,omitempty"`
	Element     string     `json:"element,omitempty" yaml:"element,omitempty"`
	Weapons     []string   `json:"weapons,omitempty" yaml:"weapons,omitempty"`
	FourStars   []string   `json:"fourStars,omitempty" yaml:"fourStars,omitempty"`
	StartDate   *time.Time `json:"startDate,omitempty" yaml:"startDate,omitempty"`
	EndDate     *time.Time `json:"endDate,omitempty" yaml:"endDate,omitempty"`
	IsPermanent bool       `json:"isPermanent,omitempty" yaml:"isPermanent,omitempty"`
	Description string     `json:"description,omitempty" yaml:"description,omitempty"`
}

// AdaptBanner projects a descriptor onto the shape the resolver needs.
// The result does not share memory with d.
func AdaptBanner(d Descriptor) (AdaptedBanner, error) {
	b := AdaptedBanner{ID: d.ID, Name: d.Name}
	switch {
	case d.Character != "":
		b.Type = BannerCharacter1
		if strings.HasSuffix(d.ID, "-2") {
			b.Type = BannerCharacter2
		}
		b.Featured5 = []Item{CharacterItem(d.Character, 5, d.Element)}
		b.Featured4 = make([]Item, 0, len(d.FourStars))
		for _, name := range d.FourStars {
			b.Featured4 = append(b.Featured4, CharacterItem(name, 4, ""))
		}
	case len(d.Weapons) > 0:
		if len(d.Weapons) > 2 {
			return AdaptedBanner{}, fmt.Errorf("%w: banner %q lists %d weapons", ErrNoFeatured, d.ID, len(d.Weapons))
		}
		b.Type = BannerWeapon
		b.Featured5 = make([]Item, 0, len(d.Weapons))
		for _, name := range d.Weapons {
			b.Featured5 = append(b.Featured5, WeaponItem(name, 5, ""))
		}
		b.Featured4 = make([]Item, 0, len(d.FourStars))
		for _, name := range d.FourStars {
			b.Featured4 = append(b.Featured4, WeaponItem(name, 4, ""))
		}
	case d.IsPermanent:
		b.Type = BannerPermanent
	default:
		return AdaptedBanner{}, fmt.Errorf("%w: %q", ErrInvalidBanner, d.ID)
	}
	return b, nil
}
