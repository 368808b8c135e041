package game

import (
	"fmt"
	"strings"
)

// ValidateRaw checks semantic constraints of a RawConfig.
func ValidateRaw(cfg RawConfig) error {
	var errs []string
	r := cfg.Rates

	prob := func(name string, p *float64) {
		if p != nil && (*p < 0 || *p > 1) {
			errs = append(errs, fmt.Sprintf("rates.%s must be in [0,1]", name))
		}
	}
	prob("base_5", r.Base5)
	prob("base_4", r.Base4)
	if r.Featured != nil {
		prob("featured.chance_5", r.Featured.Chance5)
		prob("featured.chance_4", r.Featured.Chance4)
		prob("featured.capturing_radiance", r.Featured.CapturingRadiance)
	}

	if r.SoftStep5 != nil && *r.SoftStep5 < 0 {
		errs = append(errs, "rates.soft_step_5 must be >= 0")
	}
	if r.SoftStep4 != nil && *r.SoftStep4 < 0 {
		errs = append(errs, "rates.soft_step_4 must be >= 0")
	}

	// hard pity
	if r.HardPity5 != nil && *r.HardPity5 <= 0 {
		errs = append(errs, "rates.hard_pity_5 must be >= 1")
	}
	if r.HardPity4 != nil && *r.HardPity4 <= 0 {
		errs = append(errs, "rates.hard_pity_4 must be >= 1")
	}
	// soft pity start, when both ends are known here
	if r.SoftPity5Start != nil {
		if *r.SoftPity5Start < 0 {
			errs = append(errs, "rates.soft_pity_5_start must be >= 0")
		} else if r.HardPity5 != nil && *r.SoftPity5Start >= *r.HardPity5 {
			errs = append(errs, "rates.soft_pity_5_start must satisfy soft < hard_pity_5")
		}
	}
	if r.SoftPity4Start != nil {
		if *r.SoftPity4Start < 0 {
			errs = append(errs, "rates.soft_pity_4_start must be >= 0")
		} else if r.HardPity4 != nil && *r.SoftPity4Start >= *r.HardPity4 {
			errs = append(errs, "rates.soft_pity_4_start must satisfy soft < hard_pity_4")
		}
	}

	if cfg.Pools != nil {
		if err := cfg.Pools.Validate(); err != nil {
			errs = append(errs, "pools: "+err.Error())
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
