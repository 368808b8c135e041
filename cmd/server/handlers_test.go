package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/xtding233/wishsim/internal/catalog"
	"github.com/xtding233/wishsim/internal/gacha"
	"github.com/xtding233/wishsim/internal/service"
)

func setup(t *testing.T) http.Handler {
	t.Helper()
	svc = service.New(catalog.Fallback(), nil, gacha.NewSeededRNG(11))
	svc.SetClock(func() time.Time { return time.Date(2025, 1, 20, 0, 0, 0, 0, time.UTC) })
	return newMux()
}

func do(t *testing.T, h http.Handler, method, target, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	out := map[string]any{}
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
			t.Fatalf("%s %s: %v", method, target, err)
		}
	}
	return rec, out
}

func TestHandleBanners(t *testing.T) {
	h := setup(t)
	rec, out := do(t, h, http.MethodGet, "/banners", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	list := out["banners"].([]any)
	if len(list) == 0 {
		t.Fatal("no banners")
	}
	first := list[0].(map[string]any)
	if first["id"] != "kazuha-3.0" || first["timeRemaining"] == nil {
		t.Fatalf("first banner: %v", first)
	}
}

func TestHandleWishFlow(t *testing.T) {
	h := setup(t)
	rec, out := do(t, h, http.MethodPost, "/wish_ten?banner=kazuha-3.0", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("wish_ten: %d %s", rec.Code, rec.Body)
	}
	if n := len(out["results"].([]any)); n != 10 {
		t.Fatalf("got %d results", n)
	}

	rec, out = do(t, h, http.MethodPost, "/wish", `{"banner":"epitome-3.0"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("wish: %d %s", rec.Code, rec.Body)
	}
	r0 := out["results"].([]any)[0].(map[string]any)
	if r0["bannerId"] != "epitome-3.0" || r0["pool"] != "weapon" {
		t.Fatalf("record: %v", r0)
	}

	_, out = do(t, h, http.MethodGet, "/stats", "")
	if out["totalWishes"].(float64) != 11 || out["primogemsSpent"].(float64) != 1760 {
		t.Fatalf("stats: %v", out)
	}

	_, out = do(t, h, http.MethodGet, "/history?banner=character&limit=4", "")
	if n := len(out["history"].([]any)); n != 4 {
		t.Fatalf("history: %d", n)
	}

	_, out = do(t, h, http.MethodGet, "/state?banner=kazuha-3.0", "")
	state := out["state"].(map[string]any)
	if n := len(state["history"].([]any)); n != 10 {
		t.Fatalf("state history: %d", n)
	}

	rec, _ = do(t, h, http.MethodPost, "/reset?banner=kazuha-3.0", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("reset: %d", rec.Code)
	}
	_, out = do(t, h, http.MethodGet, "/state?banner=character", "")
	if out["pity"].(map[string]any)["current"].(float64) != 0 {
		t.Fatalf("pity after reset: %v", out["pity"])
	}

	rec, _ = do(t, h, http.MethodDelete, "/history", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("clear: %d", rec.Code)
	}
	_, out = do(t, h, http.MethodGet, "/stats", "")
	if out["totalWishes"].(float64) != 0 {
		t.Fatalf("stats after clear: %v", out)
	}
}

func TestHandlePredict(t *testing.T) {
	h := setup(t)
	rec, out := do(t, h, http.MethodGet, "/predict?banner=kazuha-3.0&goal=fixed_budget&budget=180&trials=500", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("predict: %d %s", rec.Code, rec.Body)
	}
	if out["trials"].(float64) != 500 || out["mean"].(float64) < 1 {
		t.Fatalf("180 wishes reach the featured character at least once: %v", out)
	}

	_, out = do(t, h, http.MethodGet, "/predict?banner=kazuha-3.0&goal=fixed_budget&primogems=1600&fates=2&trials=50", "")
	if out["budget"].(float64) != 12 {
		t.Fatalf("1600 primogems and 2 fates buy 12 wishes: %v", out)
	}
}

func TestHandleErrors(t *testing.T) {
	h := setup(t)
	cases := []struct {
		method, target string
		want           int
	}{
		{http.MethodPost, "/wish?banner=nope", http.StatusNotFound},
		{http.MethodPost, "/wish", http.StatusBadRequest},
		{http.MethodPost, "/wish?banner=standard&count=x", http.StatusBadRequest},
		{http.MethodPost, "/wish?banner=standard&count=20", http.StatusBadRequest},
		{http.MethodPost, "/reset", http.StatusBadRequest},
		{http.MethodGet, "/predict?banner=standard", http.StatusBadRequest},
		{http.MethodGet, "/history?limit=a", http.StatusBadRequest},
		{http.MethodGet, "/predict?banner=kazuha-3.0&goal=fixed_budget&fates=x", http.StatusBadRequest},
		{http.MethodGet, "/wish", http.StatusMethodNotAllowed},
	}
	for _, c := range cases {
		rec, _ := do(t, h, c.method, c.target, "")
		if rec.Code != c.want {
			t.Errorf("%s %s: got %d, want %d", c.method, c.target, rec.Code, c.want)
		}
	}
}
