// Package catalog holds the banner descriptors the simulator can be pointed
// at, loaded from a YAML file, a remote JSON payload or the built-in table.
package catalog

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/xtding233/wishsim/internal/gacha"
)

var (
	ErrNotFound    = errors.New("banner not found")
	ErrDuplicateID = errors.New("duplicate banner id")
)

// Catalog is an immutable set of banners keyed by id.
type Catalog struct {
	banners []gacha.Descriptor
	byID    map[string]int
}

// New validates ids and adaptability and builds a catalog.
func New(banners []gacha.Descriptor) (*Catalog, error) {
	c := &Catalog{
		banners: make([]gacha.Descriptor, 0, len(banners)),
		byID:    make(map[string]int, len(banners)),
	}
	for _, b := range banners {
		if b.ID == "" {
			return nil, fmt.Errorf("banner %q has no id", b.Name)
		}
		if _, dup := c.byID[b.ID]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateID, b.ID)
		}
		if _, err := gacha.AdaptBanner(b); err != nil {
			return nil, err
		}
		if !b.IsPermanent && b.StartDate != nil && b.EndDate != nil && b.EndDate.Before(*b.StartDate) {
			return nil, fmt.Errorf("banner %s ends before it starts", b.ID)
		}
		c.byID[b.ID] = len(c.banners)
		c.banners = append(c.banners, b)
	}
	return c, nil
}

// All returns every banner in catalog order.
func (c *Catalog) All() []gacha.Descriptor {
	return append([]gacha.Descriptor(nil), c.banners...)
}

// Len counts every banner, active or not.
func (c *Catalog) Len() int { return len(c.banners) }

// ByID looks a banner up.
func (c *Catalog) ByID(id string) (gacha.Descriptor, error) {
	i, ok := c.byID[id]
	if !ok {
		return gacha.Descriptor{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return c.banners[i], nil
}

// Adapted looks a banner up and adapts it for the simulator.
func (c *Catalog) Adapted(id string) (gacha.AdaptedBanner, error) {
	d, err := c.ByID(id)
	if err != nil {
		return gacha.AdaptedBanner{}, err
	}
	return gacha.AdaptBanner(d)
}

// Active reports whether d runs at now. Permanent banners always do; a
// banner with a missing bound is open on that side.
func Active(d gacha.Descriptor, now time.Time) bool {
	if d.IsPermanent {
		return true
	}
	if d.StartDate != nil && now.Before(*d.StartDate) {
		return false
	}
	if d.EndDate != nil && now.After(*d.EndDate) {
		return false
	}
	return true
}

// Current returns the banners running at now, limited banners first.
func (c *Catalog) Current(now time.Time) []gacha.Descriptor {
	var out []gacha.Descriptor
	for _, b := range c.banners {
		if Active(b, now) {
			out = append(out, b)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return !out[i].IsPermanent && out[j].IsPermanent
	})
	return out
}

// Remaining is the time left on a limited banner.
type Remaining struct {
	Days    int `json:"days"`
	Hours   int `json:"hours"`
	Minutes int `json:"minutes"`
}

// TimeRemaining returns nil for permanent banners and banners without an
// end date. An ended banner reports zero.
func TimeRemaining(d gacha.Descriptor, now time.Time) *Remaining {
	if d.IsPermanent || d.EndDate == nil {
		return nil
	}
	left := d.EndDate.Sub(now)
	if left < 0 {
		left = 0
	}
	return &Remaining{
		Days:    int(left / (24 * time.Hour)),
		Hours:   int(left % (24 * time.Hour) / time.Hour),
		Minutes: int(left % time.Hour / time.Minute),
	}
}

type fileFormat struct {
	Banners []gacha.Descriptor `yaml:"banners"`
}

// LoadFile reads a YAML catalog. A missing file yields the built-in table.
func LoadFile(path string) (*Catalog, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Fallback(), nil
		}
		return nil, err
	}
	var f fileFormat
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return New(f.Banners)
}
