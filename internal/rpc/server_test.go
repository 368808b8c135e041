package rpc_test

import (
	"context"
	"net"
	"testing"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/xtding233/wishsim/internal/catalog"
	"github.com/xtding233/wishsim/internal/gacha"
	"github.com/xtding233/wishsim/internal/rpc"
	"github.com/xtding233/wishsim/internal/service"
)

func dial(t *testing.T) *rpc.Client {
	t.Helper()
	svc := service.New(catalog.Fallback(), nil, gacha.NewSeededRNG(3))
	svc.SetClock(func() time.Time { return time.Date(2025, 1, 20, 0, 0, 0, 0, time.UTC) })

	lis := bufconn.Listen(1 << 20)
	srv := rpc.NewServer(svc)
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return rpc.NewClient(conn)
}

func ctx(t *testing.T) context.Context {
	c, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)
	return c
}

func TestListBanners(t *testing.T) {
	c := dial(t)
	out, err := c.ListBanners(ctx(t), true)
	if err != nil {
		t.Fatal(err)
	}
	list := out.GetFields()["banners"].GetListValue().GetValues()
	if len(list) == 0 {
		t.Fatal("no banners")
	}
	last := list[len(list)-1].GetStructValue().GetFields()
	if last["id"].GetStringValue() != "standard" || last["pool"].GetStringValue() != "permanent" {
		t.Fatalf("last banner: %v", last)
	}
}

func TestWishFlow(t *testing.T) {
	c := dial(t)
	out, err := c.WishTen(ctx(t), "kazuha-3.0")
	if err != nil {
		t.Fatal(err)
	}
	results := out.GetFields()["results"].GetListValue().GetValues()
	if len(results) != 10 {
		t.Fatalf("got %d results", len(results))
	}
	first := results[0].GetStructValue().GetFields()
	if first["id"].GetStringValue() == "" || first["bannerId"].GetStringValue() != "kazuha-3.0" {
		t.Fatalf("record: %v", first)
	}

	out, err = c.Wish(ctx(t), "kazuha-3.0", 3)
	if err != nil {
		t.Fatal(err)
	}
	if n := len(out.GetFields()["results"].GetListValue().GetValues()); n != 3 {
		t.Fatalf("got %d results", n)
	}

	st, err := c.GetState(ctx(t), "character")
	if err != nil {
		t.Fatal(err)
	}
	state := st.GetFields()["state"].GetStructValue().GetFields()
	if n := len(state["history"].GetListValue().GetValues()); n != 13 {
		t.Fatalf("history: %d", n)
	}

	out, err = c.Reset(ctx(t), "kazuha-3.0")
	if err != nil {
		t.Fatal(err)
	}
	pity := out.GetFields()["pity"].GetStructValue().GetFields()
	if pity["current"].GetNumberValue() != 0 || pity["hardPity"].GetNumberValue() != 90 {
		t.Fatalf("after reset: %v", pity)
	}
}

func TestErrorCodes(t *testing.T) {
	c := dial(t)
	cases := []struct {
		name string
		call func() error
		want codes.Code
	}{
		{"unknown banner", func() error { _, err := c.Wish(ctx(t), "missing", 1); return err }, codes.NotFound},
		{"no banner", func() error { _, err := c.WishTen(ctx(t), ""); return err }, codes.InvalidArgument},
		{"bad count", func() error { _, err := c.Wish(ctx(t), "standard", 50); return err }, codes.InvalidArgument},
		{"reset all", func() error { _, err := c.Reset(ctx(t), ""); return err }, codes.InvalidArgument},
	}
	for _, tc := range cases {
		if got := status.Code(tc.call()); got != tc.want {
			t.Errorf("%s: got %s, want %s", tc.name, got, tc.want)
		}
	}
}

func TestSimulatorServerDirect(t *testing.T) {
	svc := service.New(catalog.Fallback(), nil, gacha.NewSeededRNG(5))
	svc.SetClock(func() time.Time { return time.Date(2025, 1, 20, 0, 0, 0, 0, time.UTC) })
	srv := rpc.NewSimulatorServer(svc)

	in, err := structpb.NewStruct(map[string]any{"banner": "epitome-3.0", "count": 3})
	if err != nil {
		t.Fatal(err)
	}
	out, err := srv.Wish(ctx(t), in)
	if err != nil {
		t.Fatal(err)
	}
	if n := len(out.GetFields()["results"].GetListValue().GetValues()); n != 3 {
		t.Fatalf("got %d results", n)
	}

	bad, _ := structpb.NewStruct(map[string]any{"banner": "epitome-3.0", "count": "many"})
	if _, err := srv.Wish(ctx(t), bad); status.Code(err) != codes.InvalidArgument {
		t.Fatalf("non-numeric count: %v", err)
	}
}
