package grpcapi

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// ServiceName is the fully qualified gRPC service. Messages are protobuf
// well-known types, so the descriptor is declared by hand.
const ServiceName = "prizewheel.v1.Wheel"

const (
	spinMethod    = "/" + ServiceName + "/Spin"
	statusMethod  = "/" + ServiceName + "/Status"
	setModeMethod = "/" + ServiceName + "/SetMode"
	flushMethod   = "/" + ServiceName + "/Flush"
)

// WheelServer is the server API for prizewheel.v1.Wheel.
type WheelServer interface {
	Spin(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	Status(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	SetMode(context.Context, *wrapperspb.Int32Value) (*emptypb.Empty, error)
	Flush(context.Context, *emptypb.Empty) (*emptypb.Empty, error)
}

func RegisterWheelServer(s grpc.ServiceRegistrar, srv WheelServer) {
	s.RegisterService(&WheelServiceDesc, srv)
}

var WheelServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*WheelServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Spin", Handler: spinHandler},
		{MethodName: "Status", Handler: statusHandler},
		{MethodName: "SetMode", Handler: setModeHandler},
		{MethodName: "Flush", Handler: flushHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "prizewheel/v1/wheel.proto",
}

func spinHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(WheelServer).Spin(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: spinMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(WheelServer).Spin(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func statusHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(WheelServer).Status(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: statusMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(WheelServer).Status(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func setModeHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(wrapperspb.Int32Value)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(WheelServer).SetMode(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: setModeMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(WheelServer).SetMode(ctx, req.(*wrapperspb.Int32Value))
	}
	return interceptor(ctx, in, info, handler)
}

func flushHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(WheelServer).Flush(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: flushMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(WheelServer).Flush(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

// Client calls prizewheel.v1.Wheel over an existing connection.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func (c *Client) Spin(ctx context.Context, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, spinMethod, &emptypb.Empty{}, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Status(ctx context.Context, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, statusMethod, &emptypb.Empty{}, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) SetMode(ctx context.Context, mode int32, opts ...grpc.CallOption) error {
	return c.cc.Invoke(ctx, setModeMethod, wrapperspb.Int32(mode), new(emptypb.Empty), opts...)
}

func (c *Client) Flush(ctx context.Context, opts ...grpc.CallOption) error {
	return c.cc.Invoke(ctx, flushMethod, &emptypb.Empty{}, new(emptypb.Empty), opts...)
}
