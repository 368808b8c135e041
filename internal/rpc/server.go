// Package rpc exposes the simulator over gRPC. Messages are
// google.protobuf.Struct values carrying the same JSON shapes as the HTTP
// API, so no generated code is needed on either side.
package rpc

import (
	"context"
	"encoding/json"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cast"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/xtding233/wishsim/internal/service"
)

const ServiceName = "wishsim.v1.Simulator"

// SimulatorServer is the server side of wishsim.v1.Simulator.
type SimulatorServer interface {
	ListBanners(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Wish(context.Context, *structpb.Struct) (*structpb.Struct, error)
	WishTen(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Reset(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetState(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type method func(SimulatorServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unary(name string, call method) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(SimulatorServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + ServiceName + "/" + name}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(SimulatorServer), ctx, req.(*structpb.Struct))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*SimulatorServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("ListBanners", SimulatorServer.ListBanners),
		unary("Wish", SimulatorServer.Wish),
		unary("WishTen", SimulatorServer.WishTen),
		unary("Reset", SimulatorServer.Reset),
		unary("GetState", SimulatorServer.GetState),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "wishsim/v1/simulator.proto",
}

// Register attaches a SimulatorServer to s.
func Register(s grpc.ServiceRegistrar, srv SimulatorServer) {
	s.RegisterService(&serviceDesc, srv)
}

// NewServer returns a grpc.Server with the simulator registered and
// request logging installed.
func NewServer(svc *service.Service, opts ...grpc.ServerOption) *grpc.Server {
	opts = append([]grpc.ServerOption{grpc.ChainUnaryInterceptor(logUnary)}, opts...)
	s := grpc.NewServer(opts...)
	Register(s, NewSimulatorServer(svc))
	return s
}

// Server implements SimulatorServer on top of a service.Service.
type Server struct {
	svc *service.Service
}

// NewSimulatorServer wraps svc for registration on any grpc.ServiceRegistrar.
func NewSimulatorServer(svc *service.Service) *Server { return &Server{svc: svc} }

func (s *Server) ListBanners(_ context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	active := cast.ToBool(field(in, "active"))
	return encode(map[string]any{"banners": s.svc.Banners(active)})
}

func (s *Server) Wish(_ context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	n := 1
	if v := field(in, "count"); v != nil {
		c, err := cast.ToIntE(v)
		if err != nil {
			return nil, status.Errorf(codes.InvalidArgument, "count: %v", err)
		}
		n = c
	}
	res, err := s.svc.Wish(cast.ToString(field(in, "banner")), n)
	if err != nil {
		return nil, toStatus(err)
	}
	return encode(res)
}

func (s *Server) WishTen(_ context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	res, err := s.svc.WishTen(cast.ToString(field(in, "banner")))
	if err != nil {
		return nil, toStatus(err)
	}
	return encode(res)
}

func (s *Server) Reset(_ context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	key := cast.ToString(field(in, "banner"))
	if err := s.svc.Reset(key); err != nil {
		return nil, toStatus(err)
	}
	st, err := s.svc.Status(key)
	if err != nil {
		return nil, toStatus(err)
	}
	return encode(map[string]any{"ok": true, "pity": st[0]})
}

func (s *Server) GetState(_ context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	key := cast.ToString(field(in, "banner"))
	st, err := s.svc.State(key)
	if err != nil {
		return nil, toStatus(err)
	}
	pity, err := s.svc.Status(key)
	if err != nil {
		return nil, toStatus(err)
	}
	return encode(map[string]any{"state": st, "pity": pity[0]})
}

func field(in *structpb.Struct, key string) any {
	if in == nil {
		return nil
	}
	v, ok := in.GetFields()[key]
	if !ok {
		return nil
	}
	return v.AsInterface()
}

// encode turns any JSON-marshalable value into a Struct.
func encode(v any) (*structpb.Struct, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	out := new(structpb.Struct)
	if err := protojson.Unmarshal(b, out); err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	return out, nil
}

func toStatus(err error) error {
	switch service.Classify(err) {
	case service.KindNotFound:
		return status.Error(codes.NotFound, err.Error())
	case service.KindInvalid:
		return status.Error(codes.InvalidArgument, err.Error())
	}
	return status.Error(codes.Internal, err.Error())
}

func logUnary(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	entry := log.WithFields(log.Fields{
		"method":  info.FullMethod,
		"code":    status.Code(err).String(),
		"elapsed": time.Since(start),
	})
	if err != nil && status.Code(err) == codes.Internal {
		entry.Errorf("rpc failed: %v", err)
	} else {
		entry.Debug("rpc")
	}
	return resp, err
}
