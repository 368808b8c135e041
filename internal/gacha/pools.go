package gacha

import (
	"errors"
	"fmt"
)

var ErrEmptyPool = errors.New("standard pool is empty")

// StandardPools are the off-banner items a pull falls back to.
type StandardPools struct {
	FiveStarCharacters []Item `yaml:"five_star_characters"`
	FiveStarWeapons    []Item `yaml:"five_star_weapons"`
	FourStarCharacters []Item `yaml:"four_star_characters"`
	FourStarWeapons    []Item `yaml:"four_star_weapons"`
	ThreeStarWeapons   []Item `yaml:"three_star_weapons"`
}

// DefaultPools returns the built-in standard pools.
func DefaultPools() StandardPools {
	return StandardPools{
		FiveStarCharacters: []Item{
			CharacterItem("Diluc", 5, "Pyro"),
			CharacterItem("Jean", 5, "Anemo"),
			CharacterItem("Keqing", 5, "Electro"),
			CharacterItem("Mona", 5, "Hydro"),
			CharacterItem("Qiqi", 5, "Cryo"),
			CharacterItem("Tighnari", 5, "Dendro"),
			CharacterItem("Dehya", 5, "Pyro"),
		},
		FiveStarWeapons: []Item{
			WeaponItem("Amos' Bow", 5, "Bow"),
			WeaponItem("Aquila Favonia", 5, "Sword"),
			WeaponItem("Lost Prayer to the Sacred Winds", 5, "Catalyst"),
			WeaponItem("Primordial Jade Winged-Spear", 5, "Polearm"),
			WeaponItem("Skyward Atlas", 5, "Catalyst"),
			WeaponItem("Skyward Blade", 5, "Sword"),
			WeaponItem("Skyward Harp", 5, "Bow"),
			WeaponItem("Skyward Pride", 5, "Claymore"),
			WeaponItem("Skyward Spine", 5, "Polearm"),
			WeaponItem("Wolf's Gravestone", 5, "Claymore"),
		},
		FourStarCharacters: []Item{
			CharacterItem("Barbara", 4, "Hydro"),
			CharacterItem("Beidou", 4, "Electro"),
			CharacterItem("Bennett", 4, "Pyro"),
			CharacterItem("Chongyun", 4, "Cryo"),
			CharacterItem("Fischl", 4, "Electro"),
			CharacterItem("Ningguang", 4, "Geo"),
			CharacterItem("Noelle", 4, "Geo"),
			CharacterItem("Razor", 4, "Electro"),
			CharacterItem("Sucrose", 4, "Anemo"),
			CharacterItem("Xiangling", 4, "Pyro"),
			CharacterItem("Xingqiu", 4, "Hydro"),
		},
		FourStarWeapons: []Item{
			WeaponItem("Favonius Sword", 4, "Sword"),
			WeaponItem("Favonius Greatsword", 4, "Claymore"),
			WeaponItem("Favonius Lance", 4, "Polearm"),
			WeaponItem("Favonius Codex", 4, "Catalyst"),
			WeaponItem("Favonius Warbow", 4, "Bow"),
			WeaponItem("Sacrificial Sword", 4, "Sword"),
			WeaponItem("Sacrificial Greatsword", 4, "Claymore"),
			WeaponItem("Sacrificial Fragments", 4, "Catalyst"),
			WeaponItem("Sacrificial Bow", 4, "Bow"),
			WeaponItem("The Flute", 4, "Sword"),
			WeaponItem("Rust", 4, "Bow"),
		},
		ThreeStarWeapons: []Item{
			WeaponItem("Cool Steel", 3, "Sword"),
			WeaponItem("Harbinger of Dawn", 3, "Sword"),
			WeaponItem("Debate Club", 3, "Claymore"),
			WeaponItem("Black Tassel", 3, "Polearm"),
			WeaponItem("Magic Guide", 3, "Catalyst"),
			WeaponItem("Thrilling Tales of Dragon Slayers", 3, "Catalyst"),
			WeaponItem("Raven Bow", 3, "Bow"),
			WeaponItem("Slingshot", 3, "Bow"),
		},
	}
}

// Validate requires every pool to be non-empty and rarities to match.
func (sp StandardPools) Validate() error {
	groups := []struct {
		name   string
		items  []Item
		rarity int
	}{
		{"five_star_characters", sp.FiveStarCharacters, 5},
		{"five_star_weapons", sp.FiveStarWeapons, 5},
		{"four_star_characters", sp.FourStarCharacters, 4},
		{"four_star_weapons", sp.FourStarWeapons, 4},
		{"three_star_weapons", sp.ThreeStarWeapons, 3},
	}
	for _, g := range groups {
		if len(g.items) == 0 {
			return fmt.Errorf("%w: %s", ErrEmptyPool, g.name)
		}
		for i, it := range g.items {
			if it.Rarity != g.rarity || it.Name == "" {
				return fmt.Errorf("%s[%d]: want a named %d★ item, got %q (%d★)", g.name, i, g.rarity, it.Name, it.Rarity)
			}
		}
	}
	return nil
}

func choose(items []Item, rng RandomSource) Item {
	return items[pick(rng, len(items))]
}
