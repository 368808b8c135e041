package rpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// Client calls wishsim.v1.Simulator.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client { return &Client{cc: cc} }

func (c *Client) call(ctx context.Context, name string, in map[string]any, opts ...grpc.CallOption) (*structpb.Struct, error) {
	req, err := structpb.NewStruct(in)
	if err != nil {
		return nil, err
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, "/"+ServiceName+"/"+name, req, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListBanners(ctx context.Context, activeOnly bool, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.call(ctx, "ListBanners", map[string]any{"active": activeOnly}, opts...)
}

func (c *Client) Wish(ctx context.Context, banner string, count int, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.call(ctx, "Wish", map[string]any{"banner": banner, "count": count}, opts...)
}

func (c *Client) WishTen(ctx context.Context, banner string, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.call(ctx, "WishTen", map[string]any{"banner": banner}, opts...)
}

func (c *Client) Reset(ctx context.Context, banner string, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.call(ctx, "Reset", map[string]any{"banner": banner}, opts...)
}

func (c *Client) GetState(ctx context.Context, banner string, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.call(ctx, "GetState", map[string]any{"banner": banner}, opts...)
}
