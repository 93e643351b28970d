// Code generated by protoc-gen-go-grpc. DO NOT EDIT.
// versions:
// - protoc-gen-go-grpc v1.6.2
// - protoc             (unknown)
// source: maskgen/v1/maskgen.proto

package v1

import (
	context "context"
	grpc "google.golang.org/grpc"
	codes "google.golang.org/grpc/codes"
	status "google.golang.org/grpc/status"
)

// This is a compile-time assertion to ensure that this generated file
// is compatible with the grpc package it is being compiled against.
// Requires gRPC-Go v1.64.0 or later.
const _ = grpc.SupportPackageIsVersion9

const (
	MaskService_ProduceMask_FullMethodName = "/maskgen.v1.MaskService/ProduceMask"
	MaskService_HealthCheck_FullMethodName = "/maskgen.v1.MaskService/HealthCheck"
)

// MaskServiceClient is the client API for MaskService service.
//
// For semantics around ctx use and closing/ending streaming RPCs, please refer to https://pkg.go.dev/google.golang.org/grpc/?tab=doc#ClientConn.NewStream.
type MaskServiceClient interface {
	ProduceMask(ctx context.Context, in *MaskRequest, opts ...grpc.CallOption) (*MaskResponse, error)
	HealthCheck(ctx context.Context, in *HealthRequest, opts ...grpc.CallOption) (*HealthResponse, error)
}

type maskServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewMaskServiceClient(cc grpc.ClientConnInterface) MaskServiceClient {
	return &maskServiceClient{cc}
}

func (c *maskServiceClient) ProduceMask(ctx context.Context, in *MaskRequest, opts ...grpc.CallOption) (*MaskResponse, error) {
	cOpts := append([]grpc.CallOption{grpc.StaticMethod()}, opts...)
	out := new(MaskResponse)
	err := c.cc.Invoke(ctx, MaskService_ProduceMask_FullMethodName, in, out, cOpts...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *maskServiceClient) HealthCheck(ctx context.Context, in *HealthRequest, opts ...grpc.CallOption) (*HealthResponse, error) {
	cOpts := append([]grpc.CallOption{grpc.StaticMethod()}, opts...)
	out := new(HealthResponse)
	err := c.cc.Invoke(ctx, MaskService_HealthCheck_FullMethodName, in, out, cOpts...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// MaskServiceServer is the server API for MaskService service.
// All implementations must embed UnimplementedMaskServiceServer
// for forward compatibility.
type MaskServiceServer interface {
	ProduceMask(context.Context, *MaskRequest) (*MaskResponse, error)
	HealthCheck(context.Context, *HealthRequest) (*HealthResponse, error)
	mustEmbedUnimplementedMaskServiceServer()
}

// UnimplementedMaskServiceServer must be embedded to have
// forward compatible implementations.
//
// NOTE: this should be embedded by value instead of pointer to avoid a nil
// pointer dereference when methods are called.
type UnimplementedMaskServiceServer struct{}

func (UnimplementedMaskServiceServer) ProduceMask(context.Context, *MaskRequest) (*MaskResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ProduceMask not implemented")
}
func (UnimplementedMaskServiceServer) HealthCheck(context.Context, *HealthRequest) (*HealthResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method HealthCheck not implemented")
}
func (UnimplementedMaskServiceServer) mustEmbedUnimplementedMaskServiceServer() {}
func (UnimplementedMaskServiceServer) testEmbeddedByValue()                     {}

// UnsafeMaskServiceServer may be embedded to opt out of forward compatibility for this service.
// Use of this interface is not recommended, as added methods to MaskServiceServer will
// result in compilation errors.
type UnsafeMaskServiceServer interface {
	mustEmbedUnimplementedMaskServiceServer()
}

func RegisterMaskServiceServer(s grpc.ServiceRegistrar, srv MaskServiceServer) {
	// If the following call panics, it indicates UnimplementedMaskServiceServer was
	// embedded by pointer and is nil.  This will cause panics if an
	// unimplemented method is ever invoked, so we test this at initialization
	// time to prevent it from happening at runtime later due to I/O.
	if t, ok := srv.(interface{ testEmbeddedByValue() }); ok {
		t.testEmbeddedByValue()
	}
	s.RegisterService(&MaskService_ServiceDesc, srv)
}

func _MaskService_ProduceMask_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(MaskRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(MaskServiceServer).ProduceMask(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: MaskService_ProduceMask_FullMethodName,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(MaskServiceServer).ProduceMask(ctx, req.(*MaskRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _MaskService_HealthCheck_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(HealthRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(MaskServiceServer).HealthCheck(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: MaskService_HealthCheck_FullMethodName,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(MaskServiceServer).HealthCheck(ctx, req.(*HealthRequest))
	}
	return interceptor(ctx, in, info, handler)
}

// MaskService_ServiceDesc is the grpc.ServiceDesc for MaskService service.
// It's only intended for direct use with grpc.RegisterService,
// and not to be introspected or modified (even as a copy)
var MaskService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "maskgen.v1.MaskService",
	HandlerType: (*MaskServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "ProduceMask",
			Handler:    _MaskService_ProduceMask_Handler,
		},
		{
			MethodName: "HealthCheck",
			Handler:    _MaskService_HealthCheck_Handler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "maskgen/v1/maskgen.proto",
}
