package catalog_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/xtding233/wishsim/internal/catalog"
	"github.com/xtding233/wishsim/internal/gacha"
)

func at(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestFallback(t *testing.T) {
	c := catalog.Fallback()
	if c.Len() < 2 {
		t.Fatalf("fallback has %d banners", c.Len())
	}
	kz, err := c.Adapted("kazuha-3.0")
	if err != nil {
		t.Fatal(err)
	}
	if kz.Type != gacha.BannerCharacter1 || kz.Featured5[0].Name != "Kaedehara Kazuha" || len(kz.Featured4) != 3 {
		t.Fatalf("kazuha: %+v", kz)
	}
	std, err := c.Adapted("standard")
	if err != nil || std.Type != gacha.BannerPermanent {
		t.Fatalf("standard: %+v %v", std, err)
	}
	if _, err := c.ByID("nope"); !errors.Is(err, catalog.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestNewRejects(t *testing.T) {
	cases := map[string][]gacha.Descriptor{
		"no id":     {{Name: "x", IsPermanent: true}},
		"duplicate": {{ID: "a", IsPermanent: true}, {ID: "a", IsPermanent: true}},
		"empty":     {{ID: "a"}},
		"reversed": {{
			ID: "a", Character: "Furina",
			StartDate: ptr(at("2025-02-01T00:00:00Z")),
			EndDate:   ptr(at("2025-01-01T00:00:00Z")),
		}},
	}
	for name, in := range cases {
		if _, err := catalog.New(in); err == nil {
			t.Errorf("%s: want error", name)
		}
	}
}

func ptr(t time.Time) *time.Time { return &t }

func TestCurrentAndRemaining(t *testing.T) {
	c, err := catalog.New([]gacha.Descriptor{
		{ID: "standard", IsPermanent: true},
		{ID: "old", Character: "Venti", StartDate: ptr(at("2024-01-01T00:00:00Z")), EndDate: ptr(at("2024-02-01T00:00:00Z"))},
		{ID: "live", Character: "Furina", StartDate: ptr(at("2025-01-01T00:00:00Z")), EndDate: ptr(at("2025-01-22T18:00:00Z"))},
	})
	if err != nil {
		t.Fatal(err)
	}
	now := at("2025-01-10T12:30:00Z")
	cur := c.Current(now)
	if len(cur) != 2 || cur[0].ID != "live" || cur[1].ID != "standard" {
		t.Fatalf("current: %+v", cur)
	}

	live, _ := c.ByID("live")
	r := catalog.TimeRemaining(live, now)
	if r == nil || r.Days != 12 || r.Hours != 5 || r.Minutes != 30 {
		t.Fatalf("remaining: %+v", r)
	}
	old, _ := c.ByID("old")
	if r := catalog.TimeRemaining(old, now); r == nil || *r != (catalog.Remaining{}) {
		t.Fatalf("ended banner: %+v", r)
	}
	std, _ := c.ByID("standard")
	if catalog.TimeRemaining(std, now) != nil {
		t.Fatal("permanent banner has no end")
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	c, err := catalog.LoadFile(filepath.Join(dir, "banners.yaml"))
	if err != nil || c.Len() != catalog.Fallback().Len() {
		t.Fatalf("missing file should give fallback: %v", err)
	}

	path := filepath.Join(dir, "banners.yaml")
	body := `
banners:
  - id: nahida-4.3
    name: The Moongrass' Enlightenment
    character: Nahida
    element: Dendro
    fourStars: [Kirara, Yaoyao, Faruzan]
    startDate: 2025-03-01T00:00:00Z
    endDate: 2025-03-21T00:00:00Z
  - id: standard
    name: Wanderlust Invocation
    isPermanent: true
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	c, err = catalog.LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	d, err := c.ByID("nahida-4.3")
	if err != nil {
		t.Fatal(err)
	}
	if d.StartDate == nil || !d.StartDate.Equal(at("2025-03-01T00:00:00Z")) || len(d.FourStars) != 3 {
		t.Fatalf("nahida: %+v", d)
	}

	if err := os.WriteFile(path, []byte("banners: [{id: bad}]\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := catalog.LoadFile(path); !errors.Is(err, gacha.ErrInvalidBanner) {
		t.Fatalf("want ErrInvalidBanner, got %v", err)
	}
}

func TestParseJSON(t *testing.T) {
	payload := `{"banners":[
		{"id":"furina-4.2","name":"Tide","character":"Furina","element":"Hydro",
		 "fourStars":["Charlotte","Chongyun"],"startDate":"2025-01-01","endDate":"2025-01-21T18:00:00Z","extra":1},
		{"id":"epitome","weapons":["Splendor of Tranquil Waters","Cashflow Supervision"],"fourStars":["The Flute"]},
		{"id":"standard","isPermanent":true,"startDate":null}
	]}`
	got, err := catalog.ParseJSON([]byte(payload))
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d banners", len(got))
	}
	if got[0].StartDate == nil || !got[0].StartDate.Equal(at("2025-01-01T00:00:00Z")) {
		t.Fatalf("start: %v", got[0].StartDate)
	}
	if got[0].EndDate == nil || !got[0].EndDate.Equal(at("2025-01-21T18:00:00Z")) {
		t.Fatalf("end: %v", got[0].EndDate)
	}
	if len(got[1].Weapons) != 2 || !got[2].IsPermanent || got[2].StartDate != nil {
		t.Fatalf("%+v", got)
	}

	bare, err := catalog.FromJSON([]byte(`[{"id":"standard","isPermanent":true}]`))
	if err != nil || bare.Len() != 1 {
		t.Fatalf("bare array: %v", err)
	}

	for _, bad := range []string{`{`, `{"banners":1}`, `[1]`, `[{"id":"a","character":"x","startDate":"yesterday"}]`} {
		if _, err := catalog.ParseJSON([]byte(bad)); !errors.Is(err, catalog.ErrPayload) {
			t.Errorf("%s: want ErrPayload, got %v", bad, err)
		}
	}
}

func TestFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/banners" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(`{"banners":[{"id":"standard","name":"Wanderlust Invocation","isPermanent":true}]}`))
	}))
	defer srv.Close()

	c, err := catalog.Fetch(context.Background(), srv.Client(), srv.URL+"/banners")
	if err != nil {
		t.Fatal(err)
	}
	if c.Len() != 1 {
		t.Fatalf("got %d banners", c.Len())
	}
	if _, err := catalog.Fetch(context.Background(), srv.Client(), srv.URL+"/missing"); err == nil {
		t.Fatal("want error for 404")
	}
}
