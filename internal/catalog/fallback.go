package catalog

import (
	"time"

	"github.com/xtding233/wishsim/internal/gacha"
)

func day(s string) *time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return &t
}

// Fallback is the static table used when no catalog file is configured.
func Fallback() *Catalog {
	c, err := New([]gacha.Descriptor{
		{
			ID:          "kazuha-3.0",
			Name:        "Leaves in the Wind",
			Character:   "Kaedehara Kazuha",
			Element:     "Anemo",
			FourStars:   []string{"Rosaria", "Dori", "Razor"},
			StartDate:   day("2025-01-16"),
			EndDate:     day("2025-02-06"),
			Description: "The wandering samurai returns with his signature sword!",
		},
		{
			ID:          "raiden-3.0-2",
			Name:        "Reign of Serenity",
			Character:   "Raiden Shogun",
			Element:     "Electro",
			FourStars:   []string{"Rosaria", "Dori", "Razor"},
			StartDate:   day("2025-01-16"),
			EndDate:     day("2025-02-06"),
			Description: "Plane of Euthymia.",
		},
		{
			ID:          "epitome-3.0",
			Name:        "Epitome Invocation",
			Weapons:     []string{"Freedom-Sworn", "Engulfing Lightning"},
			FourStars:   []string{"The Alley Flash", "Wine and Song", "Mitternachts Waltz", "Lion's Roar", "The Bell"},
			StartDate:   day("2025-01-16"),
			EndDate:     day("2025-02-06"),
			Description: "Event wish with boosted drop rates for featured weapons.",
		},
		{
			ID:          "standard",
			Name:        "Wanderlust Invocation",
			IsPermanent: true,
			Description: "Standard wish banner with a chance to win any 5★ character from the standard pool.",
		},
	})
	if err != nil {
		panic(err)
	}
	return c
}
