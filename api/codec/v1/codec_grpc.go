// Copyright (c) 2022 NTT Communications Corporation
//
// This software is released under the MIT License.
// see https://github.com/nttcom/pola/blob/main/LICENSE

// Package v1 describes the pcepcodec.v1.CodecService gRPC service. The
// service exchanges well-known protobuf types only, so no generated message
// code is needed.
package v1

import (
	"context"

	"github.com/golang/protobuf/ptypes/empty"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const (
	CodecService_Decode_FullMethodName           = "/pcepcodec.v1.CodecService/Decode"
	CodecService_Encode_FullMethodName           = "/pcepcodec.v1.CodecService/Encode"
	CodecService_ListMessageTypes_FullMethodName = "/pcepcodec.v1.CodecService/ListMessageTypes"
)

// CodecServiceClient is the client API for CodecService.
type CodecServiceClient interface {
	// Decode parses one framed PCEP message.
	Decode(ctx context.Context, in *wrapperspb.BytesValue, opts ...grpc.CallOption) (*structpb.Struct, error)
	// Encode builds a PCEP message from its description.
	Encode(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*wrapperspb.BytesValue, error)
	ListMessageTypes(ctx context.Context, in *empty.Empty, opts ...grpc.CallOption) (*structpb.Struct, error)
}

type codecServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewCodecServiceClient(cc grpc.ClientConnInterface) CodecServiceClient {
	return &codecServiceClient{cc}
}

func (c *codecServiceClient) Decode(ctx context.Context, in *wrapperspb.BytesValue, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, CodecService_Decode_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *codecServiceClient) Encode(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*wrapperspb.BytesValue, error) {
	out := new(wrapperspb.BytesValue)
	if err := c.cc.Invoke(ctx, CodecService_Encode_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *codecServiceClient) ListMessageTypes(ctx context.Context, in *empty.Empty, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, CodecService_ListMessageTypes_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// CodecServiceServer is the server API for CodecService. Implementations
// must embed UnimplementedCodecServiceServer.
type CodecServiceServer interface {
	Decode(context.Context, *wrapperspb.BytesValue) (*structpb.Struct, error)
	Encode(context.Context, *structpb.Struct) (*wrapperspb.BytesValue, error)
	ListMessageTypes(context.Context, *empty.Empty) (*structpb.Struct, error)
	mustEmbedUnimplementedCodecServiceServer()
}

type UnimplementedCodecServiceServer struct{}

func (UnimplementedCodecServiceServer) Decode(context.Context, *wrapperspb.BytesValue) (*structpb.Struct, error) {
	return nil, status.Errorf(codes.Unimplemented, "method Decode not implemented")
}

func (UnimplementedCodecServiceServer) Encode(context.Context, *structpb.Struct) (*wrapperspb.BytesValue, error) {
	return nil, status.Errorf(codes.Unimplemented, "method Encode not implemented")
}

func (UnimplementedCodecServiceServer) ListMessageTypes(context.Context, *empty.Empty) (*structpb.Struct, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ListMessageTypes not implemented")
}

func (UnimplementedCodecServiceServer) mustEmbedUnimplementedCodecServiceServer() {}

func RegisterCodecServiceServer(s grpc.ServiceRegistrar, srv CodecServiceServer) {
	s.RegisterService(&CodecService_ServiceDesc, srv)
}

func _CodecService_Decode_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.BytesValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CodecServiceServer).Decode(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: CodecService_Decode_FullMethodName,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(CodecServiceServer).Decode(ctx, req.(*wrapperspb.BytesValue))
	}
	return interceptor(ctx, in, info, handler)
}

func _CodecService_Encode_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CodecServiceServer).Encode(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: CodecService_Encode_FullMethodName,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(CodecServiceServer).Encode(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func _CodecService_ListMessageTypes_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(empty.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CodecServiceServer).ListMessageTypes(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: CodecService_ListMessageTypes_FullMethodName,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(CodecServiceServer).ListMessageTypes(ctx, req.(*empty.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

var CodecService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "pcepcodec.v1.CodecService",
	HandlerType: (*CodecServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Decode",
			Handler:    _CodecService_Decode_Handler,
		},
		{
			MethodName: "Encode",
			Handler:    _CodecService_Encode_Handler,
		},
		{
			MethodName: "ListMessageTypes",
			Handler:    _CodecService_ListMessageTypes_Handler,
		},
	},
	Streams: []grpc.StreamDesc{},
}
