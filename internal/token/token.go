package token

// Token defines how many units of wish currency a pull costs.
type Token struct {
	Name       string // e.g. "Primogem", "Intertwined Fate"
	PerDraw    int    // tokens per single wish, e.g. 160
	PerTenDraw int    // optional; if 0 -> equal to 10 * PerDraw
}

// Primogem is the in-game price of one wish.
var Primogem = Token{Name: "Primogem", PerDraw: 160, PerTenDraw: 1600}

// Fate is the wish item itself: one per wish.
var Fate = Token{Name: "Intertwined Fate", PerDraw: 1}

// TokensForDraws returns how many tokens are required for n wishes.
func (t Token) TokensForDraws(n int) int {
	if n <= 0 {
		return 0
	}
	if t.PerTenDraw > 0 && n >= 10 {
		tens := n / 10
		rem := n % 10
		return tens*t.PerTenDraw + rem*t.PerDraw
	}
	return n * t.PerDraw
}

// DrawsFor returns how many wishes a balance of tokens affords.
func (t Token) DrawsFor(balance int) int {
	if balance <= 0 || t.PerDraw <= 0 {
		return 0
	}
	n := 0
	if t.PerTenDraw > 0 {
		n = balance / t.PerTenDraw * 10
		balance %= t.PerTenDraw
	}
	return n + balance/t.PerDraw
}
