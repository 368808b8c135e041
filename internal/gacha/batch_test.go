package gacha_test

import (
	"reflect"
	"testing"

	"github.com/xtding233/wishsim/internal/gacha"
)

func TestTenPullMatchesSequentialPulls(t *testing.T) {
	banners := []gacha.AdaptedBanner{furinaBanner(), weaponBanner("Staff of Homa"), standardBanner()}
	for _, banner := range banners {
		for seed := uint64(1); seed <= 50; seed++ {
			start := gacha.State{Pity5: int(seed % 80), Pity4: int(seed % 9), BannerType: banner.Type}

			outs, batchState, err := gacha.ResolveTenPull(start, banner, gacha.NewSeededRNG(seed))
			if err != nil {
				t.Fatal(err)
			}
			if len(outs) != gacha.MultiPull {
				t.Fatalf("want %d outcomes, got %d", gacha.MultiPull, len(outs))
			}

			rng := gacha.NewSeededRNG(seed)
			state := start
			manual := make([]gacha.Outcome, 0, 10)
			for i := 0; i < 10; i++ {
				out, next, err := gacha.ResolveSinglePull(state, banner, rng)
				if err != nil {
					t.Fatal(err)
				}
				manual = append(manual, out)
				state = next
			}
			if !reflect.DeepEqual(outs, manual) || !reflect.DeepEqual(batchState, state) {
				t.Fatalf("%s seed %d: batch diverges from sequential pulls", banner.Type, seed)
			}
		}
	}
}

func TestPullNErrorKeepsInput(t *testing.T) {
	start := gacha.NewState(gacha.BannerWeapon)
	outs, state, err := gacha.DefaultSimulator().PullN(start, furinaBanner(), 10, gacha.NewSeededRNG(1))
	if err == nil || outs != nil {
		t.Fatalf("want error and no outcomes, got %v %v", outs, err)
	}
	if !reflect.DeepEqual(state, start) {
		t.Fatalf("state changed on error: %+v", state)
	}
}
