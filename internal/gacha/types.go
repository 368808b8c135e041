package gacha

import "strings"

// BannerType selects the rate table and featured rules of a banner.
type BannerType string

const (
	BannerCharacter1 BannerType = "character-1"
	BannerCharacter2 BannerType = "character-2"
	BannerWeapon     BannerType = "weapon"
	BannerPermanent  BannerType = "permanent"
)

// Pool is the key under which pity is shared. Both character banners
// draw from the same pool.
type Pool string

const (
	PoolCharacter Pool = "character"
	PoolWeapon    Pool = "weapon"
	PoolPermanent Pool = "permanent"
)

// Pools lists every pity pool in display order.
var Pools = []Pool{PoolCharacter, PoolWeapon, PoolPermanent}

// Pool maps a banner type to its pity pool. Unknown types map to "".
func (t BannerType) Pool() Pool {
	switch {
	case strings.HasPrefix(string(t), "character"):
		return PoolCharacter
	case t == BannerWeapon:
		return PoolWeapon
	case t == BannerPermanent:
		return PoolPermanent
	}
	return ""
}

// Valid reports whether t is one of the known banner types.
func (t BannerType) Valid() bool {
	switch t {
	case BannerCharacter1, BannerCharacter2, BannerWeapon, BannerPermanent:
		return true
	}
	return false
}

// BannerType returns the canonical banner type that owns the pool.
func (p Pool) BannerType() BannerType {
	switch p {
	case PoolCharacter:
		return BannerCharacter1
	case PoolWeapon:
		return BannerWeapon
	case PoolPermanent:
		return BannerPermanent
	}
	return ""
}

// ItemKind tags the Item variant.
type ItemKind string

const (
	KindCharacter ItemKind = "Character"
	KindWeapon    ItemKind = "Weapon"
)

const unknownAttr = "Unknown"

// Item is a character or a weapon. Element is only set on characters,
// WeaponType only on weapons.
type Item struct {
	Name       string   `json:"name" yaml:"name"`
	Kind       ItemKind `json:"type" yaml:"type"`
	Rarity     int      `json:"rarity" yaml:"rarity"`
	Element    string   `json:"element,omitempty" yaml:"element,omitempty"`
	WeaponType string   `json:"weaponType,omitempty" yaml:"weaponType,omitempty"`
}

// CharacterItem builds a character; an empty element reads as Unknown.
func CharacterItem(name string, rarity int, element string) Item {
	if element == "" {
		element = unknownAttr
	}
	return Item{Name: name, Kind: KindCharacter, Rarity: rarity, Element: element}
}

// WeaponItem is CharacterItem for weapons, keyed by weapon type.
func WeaponItem(name string, rarity int, weaponType string) Item {
	if weaponType == "" {
		weaponType = unknownAttr
	}
	return Item{Name: name, Kind: KindWeapon, Rarity: rarity, WeaponType: weaponType}
}

// Outcome is the result of one pull.
// LostFiftyFifty and CapturingRadiance are never both set.
type Outcome struct {
	Item
	Featured          bool `json:"featured"`
	LostFiftyFifty    bool `json:"isLostFiftyFifty,omitempty"`
	CapturingRadiance bool `json:"isCapturingRadiance,omitempty"`
}

// AdaptedBanner is the engine-side view of a banner descriptor.
// Featured5 holds one character, or one or two weapons.
type AdaptedBanner struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Type      BannerType `json:"bannerType"`
	Featured5 []Item     `json:"featured5Star,omitempty"`
	Featured4 []Item     `json:"featured4Stars,omitempty"`
}

// State is the pity record of one pool. It is a value: the resolver
// returns a new State instead of mutating its input.
type State struct {
	Pity5       int        `json:"pity5"`
	Pity4       int        `json:"pity4"`
	Guaranteed5 bool       `json:"guaranteed5Star"`
	Guaranteed4 bool       `json:"guaranteed4Star"`
	BannerType  BannerType `json:"bannerType"`
	History     []Outcome  `json:"history"` // newest first, owned by the caller
}
