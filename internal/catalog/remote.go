package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/tidwall/gjson"

	"github.com/xtding233/wishsim/internal/gacha"
)

var ErrPayload = errors.New("malformed banner payload")

var dateLayouts = []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04:05", "2006-01-02"}

// ParseJSON reads banners from a content-service payload: either
// {"banners": [...]} or a bare array. Unknown fields are ignored.
func ParseJSON(data []byte) ([]gacha.Descriptor, error) {
	if !gjson.ValidBytes(data) {
		return nil, ErrPayload
	}
	root := gjson.ParseBytes(data)
	list := root
	if root.IsObject() {
		list = root.Get("banners")
	}
	if !list.IsArray() {
		return nil, fmt.Errorf("%w: no banner list", ErrPayload)
	}

	var out []gacha.Descriptor
	var perr error
	list.ForEach(func(_, v gjson.Result) bool {
		d, err := parseOne(v)
		if err != nil {
			perr = err
			return false
		}
		out = append(out, d)
		return true
	})
	if perr != nil {
		return nil, perr
	}
	return out, nil
}

// FromJSON parses a payload and builds a catalog from it.
func FromJSON(data []byte) (*Catalog, error) {
	banners, err := ParseJSON(data)
	if err != nil {
		return nil, err
	}
	return New(banners)
}

// Fetch downloads a banner payload and builds a catalog from it. A nil
// client uses http.DefaultClient.
func Fetch(ctx context.Context, client *http.Client, url string) (*Catalog, error) {
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: %s", url, resp.Status)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, err
	}
	return FromJSON(body)
}

func parseOne(v gjson.Result) (gacha.Descriptor, error) {
	if !v.IsObject() {
		return gacha.Descriptor{}, fmt.Errorf("%w: banner entry is %s", ErrPayload, v.Type)
	}
	d := gacha.Descriptor{
		ID:          v.Get("id").String(),
		Name:        v.Get("name").String(),
		Character:   v.Get("character").String(),
		Element:     v.Get("element").String(),
		IsPermanent: v.Get("isPermanent").Bool(),
		Description: v.Get("description").String(),
	}
	d.Weapons = stringList(v.Get("weapons"))
	d.FourStars = stringList(v.Get("fourStars"))

	var err error
	if d.StartDate, err = date(v.Get("startDate")); err != nil {
		return gacha.Descriptor{}, fmt.Errorf("banner %s startDate: %w", d.ID, err)
	}
	if d.EndDate, err = date(v.Get("endDate")); err != nil {
		return gacha.Descriptor{}, fmt.Errorf("banner %s endDate: %w", d.ID, err)
	}
	return d, nil
}

func stringList(v gjson.Result) []string {
	if !v.IsArray() {
		return nil
	}
	var out []string
	for _, s := range v.Array() {
		if s.String() != "" {
			out = append(out, s.String())
		}
	}
	return out
}

func date(v gjson.Result) (*time.Time, error) {
	if !v.Exists() || v.Type == gjson.Null || v.String() == "" {
		return nil, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, v.String()); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("%w: unrecognised date %q", ErrPayload, v.String())
}
