// types.go
package game

import "github.com/xtding233/wishsim/internal/gacha"

// RawConfig is a rate file as loaded from YAML. Every field is optional so
// that a pool file only has to name what it changes.
type RawConfig struct {
	Version string               `yaml:"version"`
	Rates   RatesConfig          `yaml:"rates"`
	Pools   *gacha.StandardPools `yaml:"pools,omitempty"`
	Notes   string               `yaml:"notes,omitempty"`
}

// RatesConfig is the rates: block of a pool file. Unset fields keep the
// built-in value.
type RatesConfig struct {
	Base5          *float64        `yaml:"base_5"`
	Base4          *float64        `yaml:"base_4"`
	SoftPity5Start *int            `yaml:"soft_pity_5_start"`
	HardPity5      *int            `yaml:"hard_pity_5"`
	SoftPity4Start *int            `yaml:"soft_pity_4_start"`
	HardPity4      *int            `yaml:"hard_pity_4"`
	SoftStep5      *float64        `yaml:"soft_step_5"`
	SoftStep4      *float64        `yaml:"soft_step_4"`
	Featured       *FeaturedConfig `yaml:"featured,omitempty"`
}

// FeaturedConfig holds the featured and Capturing Radiance chances.
type FeaturedConfig struct {
	Chance5           *float64 `yaml:"chance_5"`
	Chance4           *float64 `yaml:"chance_4"`
	CapturingRadiance *float64 `yaml:"capturing_radiance"`
}

// apply overlays the set fields of c onto rt.
func (c RatesConfig) apply(rt gacha.RateTable) gacha.RateTable {
	setF := func(dst *float64, src *float64) {
		if src != nil {
			*dst = *src
		}
	}
	setI := func(dst *int, src *int) {
		if src != nil {
			*dst = *src
		}
	}
	setF(&rt.Base5, c.Base5)
	setF(&rt.Base4, c.Base4)
	setI(&rt.SoftPity5Start, c.SoftPity5Start)
	setI(&rt.HardPity5, c.HardPity5)
	setI(&rt.SoftPity4Start, c.SoftPity4Start)
	setI(&rt.HardPity4, c.HardPity4)
	setF(&rt.SoftStep5, c.SoftStep5)
	setF(&rt.SoftStep4, c.SoftStep4)
	if c.Featured != nil {
		setF(&rt.FeaturedChance5, c.Featured.Chance5)
		setF(&rt.FeaturedChance4, c.Featured.Chance4)
		setF(&rt.CapturingRadianceChance, c.Featured.CapturingRadiance)
	}
	return rt
}
