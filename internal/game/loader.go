package game

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/xtding233/wishsim/internal/gacha"
)

// Paths helper for rate and catalog files.
type Paths struct {
	BaseDir string // base directory, e.g., /opt/wishsim/config
}

func (p Paths) RatesDir() string {
	return filepath.Join(p.BaseDir, "rates")
}
func (p Paths) DefaultPath() string {
	return filepath.Join(p.RatesDir(), "default.yaml")
}
func (p Paths) PoolPath(pool gacha.Pool) string {
	return filepath.Join(p.RatesDir(), string(pool)+".yaml")
}
func (p Paths) CatalogPath() string {
	return filepath.Join(p.BaseDir, "banners.yaml")
}

// Loader reads YAML rate files and merges default → pool on top of the
// built-in tables.
type Loader struct {
	paths Paths

	mu    sync.RWMutex
	cache map[gacha.Pool]RawConfig
}

// NewLoader creates a config loader with the given base directory.
func NewLoader(baseDir string) *Loader {
	return &Loader{
		paths: Paths{BaseDir: baseDir},
		cache: make(map[gacha.Pool]RawConfig),
	}
}

func (l *Loader) Paths() Paths { return l.paths }

// LoadMerged loads and merges default → pool. Missing files are treated as
// empty; malformed or invalid files are errors.
func (l *Loader) LoadMerged(pool gacha.Pool) (RawConfig, error) {
	l.mu.RLock()
	if cfg, ok := l.cache[pool]; ok {
		l.mu.RUnlock()
		return cfg, nil
	}
	l.mu.RUnlock()

	defCfg, err := readYAML(l.paths.DefaultPath())
	if err != nil {
		return RawConfig{}, fmt.Errorf("read default: %w", err)
	}
	poolCfg, err := readYAML(l.paths.PoolPath(pool))
	if err != nil {
		return RawConfig{}, fmt.Errorf("read pool %s: %w", pool, err)
	}
	merged := mergeRaw(defCfg, poolCfg)
	if err := ValidateRaw(merged); err != nil {
		return RawConfig{}, fmt.Errorf("pool %s: %w", pool, err)
	}

	l.mu.Lock()
	l.cache[pool] = merged
	l.mu.Unlock()
	return merged, nil
}

// Resolve returns the effective rate table of a pool.
func (l *Loader) Resolve(pool gacha.Pool) (gacha.RateTable, error) {
	base, ok := gacha.DefaultRateBook()[pool]
	if !ok {
		return gacha.RateTable{}, fmt.Errorf("unknown pool %q", pool)
	}
	cfg, err := l.LoadMerged(pool)
	if err != nil {
		return gacha.RateTable{}, err
	}
	rt := cfg.Rates.apply(base)
	if err := rt.Validate(); err != nil {
		return gacha.RateTable{}, fmt.Errorf("pool %s: %w", pool, err)
	}
	return rt, nil
}

// Simulator builds a simulator from every pool's effective table. Standard
// pools come from default.yaml when it defines them.
func (l *Loader) Simulator() (*gacha.Simulator, error) {
	book := gacha.RateBook{}
	for _, p := range gacha.Pools {
		rt, err := l.Resolve(p)
		if err != nil {
			return nil, err
		}
		book[p] = rt
	}
	pools := gacha.DefaultPools()
	defCfg, err := readYAML(l.paths.DefaultPath())
	if err != nil {
		return nil, fmt.Errorf("read default: %w", err)
	}
	if defCfg.Pools != nil {
		pools = *defCfg.Pools
	}
	return gacha.NewSimulator(book, pools)
}

// Invalidate clears loader's cache. Call after hot-reload detects changes.
func (l *Loader) Invalidate() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cache = make(map[gacha.Pool]RawConfig)
}

// readYAML loads a YAML file into RawConfig. Missing files return zero cfg, no error.
func readYAML(path string) (RawConfig, error) {
	var cfg RawConfig
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return RawConfig{}, nil
		}
		return RawConfig{}, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return RawConfig{}, err
	}
	return cfg, nil
}

// mergeRaw overlays b on a: set fields of b win. Pools are replaced whole.
func mergeRaw(a, b RawConfig) RawConfig {
	out := a

	if b.Version != "" {
		out.Version = b.Version
	}
	if b.Notes != "" {
		out.Notes = b.Notes
	}
	if b.Pools != nil {
		p := *b.Pools
		out.Pools = &p
	}

	r, br := &out.Rates, b.Rates
	pick := func(dst **float64, src *float64) {
		if src != nil {
			*dst = src
		}
	}
	pickI := func(dst **int, src *int) {
		if src != nil {
			*dst = src
		}
	}
	pick(&r.Base5, br.Base5)
	pick(&r.Base4, br.Base4)
	pickI(&r.SoftPity5Start, br.SoftPity5Start)
	pickI(&r.HardPity5, br.HardPity5)
	pickI(&r.SoftPity4Start, br.SoftPity4Start)
	pickI(&r.HardPity4, br.HardPity4)
	pick(&r.SoftStep5, br.SoftStep5)
	pick(&r.SoftStep4, br.SoftStep4)

	switch {
	case r.Featured == nil && br.Featured != nil:
		c := *br.Featured
		r.Featured = &c
	case r.Featured != nil && br.Featured != nil:
		c := *r.Featured
		pick(&c.Chance5, br.Featured.Chance5)
		pick(&c.Chance4, br.Featured.Chance4)
		pick(&c.CapturingRadiance, br.Featured.CapturingRadiance)
		r.Featured = &c
	}
	return out
}
