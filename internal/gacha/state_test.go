package gacha_test

import (
	"reflect"
	"testing"

	"github.com/xtding233/wishsim/internal/gacha"
)

func TestNewState(t *testing.T) {
	got := gacha.NewState(gacha.BannerWeapon)
	want := gacha.State{BannerType: gacha.BannerWeapon, History: []gacha.Outcome{}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %+v want %+v", got, want)
	}
}

func TestResetKeepsHistory(t *testing.T) {
	s := gacha.State{
		Pity5: 40, Pity4: 3, Guaranteed5: true, Guaranteed4: true,
		BannerType: gacha.BannerCharacter1,
		History:    []gacha.Outcome{{Item: gacha.CharacterItem("Qiqi", 5, "Cryo"), LostFiftyFifty: true}},
	}
	r := s.Reset()
	if r.Pity5 != 0 || r.Pity4 != 0 || r.Guaranteed5 || r.Guaranteed4 {
		t.Fatalf("reset must zero pity: %+v", r)
	}
	if len(r.History) != 1 || r.BannerType != gacha.BannerCharacter1 {
		t.Fatalf("reset must keep history and type: %+v", r)
	}
}

func TestStatus(t *testing.T) {
	cases := []struct {
		pity   int
		phase  gacha.PityPhase
		toSoft int
		toHard int
	}{
		{0, gacha.PhaseBase, 74, 90},
		{73, gacha.PhaseBase, 1, 17},
		{74, gacha.PhaseSoft, 0, 16},
		{90, gacha.PhaseHard, 0, 0},
	}
	for _, c := range cases {
		st := gacha.Status(gacha.State{Pity5: c.pity, BannerType: gacha.BannerCharacter1}, gacha.CharacterRates)
		if st.Phase != c.phase || st.ToSoft != c.toSoft || st.ToHard != c.toHard {
			t.Errorf("pity %d: got %+v", c.pity, st)
		}
		if st.Pool != gacha.PoolCharacter {
			t.Errorf("pool: got %s", st.Pool)
		}
	}
}

func TestPoolMapping(t *testing.T) {
	cases := map[gacha.BannerType]gacha.Pool{
		gacha.BannerCharacter1: gacha.PoolCharacter,
		gacha.BannerCharacter2: gacha.PoolCharacter,
		gacha.BannerWeapon:     gacha.PoolWeapon,
		gacha.BannerPermanent:  gacha.PoolPermanent,
		"chronicled":           "",
	}
	for bt, want := range cases {
		if got := bt.Pool(); got != want {
			t.Errorf("%s: got %q want %q", bt, got, want)
		}
	}
	for _, p := range gacha.Pools {
		if p.BannerType().Pool() != p {
			t.Errorf("%s does not round-trip", p)
		}
	}
}
