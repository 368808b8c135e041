package session

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Stats is the aggregate over recorded pulls. Rates are percentages
// rounded to one decimal place.
type Stats struct {
	TotalWishes       int             `json:"totalWishes"`
	FiveStars         int             `json:"fiveStars"`
	FourStars         int             `json:"fourStars"`
	ThreeStars        int             `json:"threeStars"`
	CapturingRadiance int             `json:"capturingRadiance"`
	LostFiftyFifty    int             `json:"lostFiftyFifty"`
	Spent             int             `json:"primogemsSpent"`
	FiveStarRate      decimal.Decimal `json:"fiveStarRate"`
	FourStarRate      decimal.Decimal `json:"fourStarRate"`
	AvgPity           decimal.Decimal `json:"avgPity"`
	PityDistribution  map[int]int     `json:"pityDistribution"`
	Banners           map[string]int  `json:"bannerStats"`
}

type tally struct {
	total, five, four, three int
	radiance, lost           int
	spent                    int
	pitySum                  int
	pity                     map[int]int
	banners                  map[string]int
}

func newTally() *tally {
	return &tally{pity: map[int]int{}, banners: map[string]int{}}
}

func (t *tally) add(recs []Record, spent int) {
	t.spent += spent
	for _, r := range recs {
		t.total++
		t.banners[r.BannerID]++
		switch r.Rarity {
		case 5:
			t.five++
			t.pitySum += r.Pity
			t.pity[r.Pity]++
		case 4:
			t.four++
		default:
			t.three++
		}
		if r.CapturingRadiance {
			t.radiance++
		}
		if r.LostFiftyFifty {
			t.lost++
		}
	}
}

func (t *tally) merge(o *tally) {
	t.total += o.total
	t.five += o.five
	t.four += o.four
	t.three += o.three
	t.radiance += o.radiance
	t.lost += o.lost
	t.spent += o.spent
	t.pitySum += o.pitySum
	for k, v := range o.pity {
		t.pity[k] += v
	}
	for k, v := range o.banners {
		t.banners[k] += v
	}
}

func (t *tally) stats() Stats {
	st := Stats{
		TotalWishes:       t.total,
		FiveStars:         t.five,
		FourStars:         t.four,
		ThreeStars:        t.three,
		CapturingRadiance: t.radiance,
		LostFiftyFifty:    t.lost,
		Spent:             t.spent,
		FiveStarRate:      percent(t.five, t.total),
		FourStarRate:      percent(t.four, t.total),
		AvgPity:           decimal.Zero,
		PityDistribution:  make(map[int]int, len(t.pity)),
		Banners:           make(map[string]int, len(t.banners)),
	}
	if t.five > 0 {
		st.AvgPity = decimal.NewFromInt(int64(t.pitySum)).Div(decimal.NewFromInt(int64(t.five))).Round(1)
	}
	for k, v := range t.pity {
		st.PityDistribution[k] = v
	}
	for k, v := range t.banners {
		st.Banners[k] = v
	}
	return st
}

func percent(n, total int) decimal.Decimal {
	if total == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(n)).Mul(decimal.NewFromInt(100)).Div(decimal.NewFromInt(int64(total))).Round(1)
}

func sortByTime(recs []Record) {
	sort.SliceStable(recs, func(i, j int) bool { return recs[i].Time.Before(recs[j].Time) })
}
