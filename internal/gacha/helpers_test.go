package gacha_test

import (
	"fmt"

	"github.com/xtding233/wishsim/internal/gacha"
)

// scripted replays fixed values so a test can walk one exact branch.
type scripted struct {
	vals []float64
	i    int
}

func script(vals ...float64) *scripted { return &scripted{vals: vals} }

func (s *scripted) Float64() float64 {
	if s.i >= len(s.vals) {
		panic(fmt.Sprintf("scripted rng exhausted after %d values", len(s.vals)))
	}
	v := s.vals[s.i]
	s.i++
	return v
}

func (s *scripted) used() int { return s.i }

func furinaBanner() gacha.AdaptedBanner {
	b, err := gacha.AdaptBanner(gacha.Descriptor{
		ID:        "furina-4.2",
		Name:      "Decree of the Deeps",
		Character: "Furina",
		Element:   "Hydro",
		FourStars: []string{"Charlotte", "Chongyun", "Xiangling"},
	})
	if err != nil {
		panic(err)
	}
	return b
}

func weaponBanner(weapons ...string) gacha.AdaptedBanner {
	b, err := gacha.AdaptBanner(gacha.Descriptor{
		ID:        "epitome-4.2",
		Name:      "Epitome Invocation",
		Weapons:   weapons,
		FourStars: []string{"The Dockhand's Assistant", "Portable Power Saw"},
	})
	if err != nil {
		panic(err)
	}
	return b
}

func standardBanner() gacha.AdaptedBanner {
	b, err := gacha.AdaptBanner(gacha.Descriptor{ID: "standard", Name: "Wanderlust Invocation", IsPermanent: true})
	if err != nil {
		panic(err)
	}
	return b
}

func inItems(name string, items []gacha.Item) bool {
	for _, it := range items {
		if it.Name == name {
			return true
		}
	}
	return false
}
