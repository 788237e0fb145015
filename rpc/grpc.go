//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package rpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// Service and method names.
const (
	NodeServiceName  = "mpcnet.node.v1.Node"
	ChainServiceName = "mpcnet.chain.v1.Chain"
)

// NodeServer is the server API for the node gRPC service. All
// requests are signed envelopes.
type NodeServer interface {
	StoreProgram(context.Context, *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error)
	StoreValues(context.Context, *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error)
	RetrieveValues(context.Context, *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error)
	UpdatePermissions(context.Context, *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error)
	DeleteValues(context.Context, *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error)
	Compute(context.Context, *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error)
	RetrieveResults(context.Context, *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error)
	Info(context.Context, *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error)
}

// UnimplementedNodeServer can be embedded to have forward compatible
// implementations.
type UnimplementedNodeServer struct{}

func (UnimplementedNodeServer) StoreProgram(context.Context, *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
	return nil, status.Error(codes.Unimplemented, "method StoreProgram not implemented")
}
func (UnimplementedNodeServer) StoreValues(context.Context, *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
	return nil, status.Error(codes.Unimplemented, "method StoreValues not implemented")
}
func (UnimplementedNodeServer) RetrieveValues(context.Context, *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
	return nil, status.Error(codes.Unimplemented, "method RetrieveValues not implemented")
}
func (UnimplementedNodeServer) UpdatePermissions(context.Context, *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
	return nil, status.Error(codes.Unimplemented, "method UpdatePermissions not implemented")
}
func (UnimplementedNodeServer) DeleteValues(context.Context, *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
	return nil, status.Error(codes.Unimplemented, "method DeleteValues not implemented")
}
func (UnimplementedNodeServer) Compute(context.Context, *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
	return nil, status.Error(codes.Unimplemented, "method Compute not implemented")
}
func (UnimplementedNodeServer) RetrieveResults(context.Context, *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
	return nil, status.Error(codes.Unimplemented, "method RetrieveResults not implemented")
}
func (UnimplementedNodeServer) Info(context.Context, *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
	return nil, status.Error(codes.Unimplemented, "method Info not implemented")
}

// RegisterNodeServer registers the node service on a gRPC server.
func RegisterNodeServer(s grpc.ServiceRegistrar, srv NodeServer) {
	s.RegisterService(&Node_ServiceDesc, srv)
}

// ChainServer is the server API for the chain gRPC service.
type ChainServer interface {
	Balance(context.Context, *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error)
	AddFunds(context.Context, *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error)
	Quote(context.Context, *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error)
	Pay(context.Context, *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error)
}

// UnimplementedChainServer can be embedded to have forward compatible
// implementations.
type UnimplementedChainServer struct{}

func (UnimplementedChainServer) Balance(context.Context, *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
	return nil, status.Error(codes.Unimplemented, "method Balance not implemented")
}
func (UnimplementedChainServer) AddFunds(context.Context, *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
	return nil, status.Error(codes.Unimplemented, "method AddFunds not implemented")
}
func (UnimplementedChainServer) Quote(context.Context, *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
	return nil, status.Error(codes.Unimplemented, "method Quote not implemented")
}
func (UnimplementedChainServer) Pay(context.Context, *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
	return nil, status.Error(codes.Unimplemented, "method Pay not implemented")
}

// RegisterChainServer registers the chain service on a gRPC server.
func RegisterChainServer(s grpc.ServiceRegistrar, srv ChainServer) {
	s.RegisterService(&Chain_ServiceDesc, srv)
}

type unaryMethod func(srv interface{}, ctx context.Context,
	in *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error)

// handler creates a gRPC method handler for the unary method. Both
// services take and return bytes values.
func handler(fullMethod string, method unaryMethod) func(
	srv interface{}, ctx context.Context, dec func(interface{}) error,
	interceptor grpc.UnaryServerInterceptor) (interface{}, error) {

	return func(srv interface{}, ctx context.Context,
		dec func(interface{}) error,
		interceptor grpc.UnaryServerInterceptor) (interface{}, error) {

		in := new(wrapperspb.BytesValue)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return method(srv, ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		h := func(ctx context.Context, req interface{}) (interface{}, error) {
			return method(srv, ctx, req.(*wrapperspb.BytesValue))
		}
		return interceptor(ctx, in, info, h)
	}
}

func nodeMethod(name string, method unaryMethod) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler:    handler("/"+NodeServiceName+"/"+name, method),
	}
}

func chainMethod(name string, method unaryMethod) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler:    handler("/"+ChainServiceName+"/"+name, method),
	}
}

// Node_ServiceDesc is the grpc.ServiceDesc for the node service.
var Node_ServiceDesc = grpc.ServiceDesc{
	ServiceName: NodeServiceName,
	HandlerType: (*NodeServer)(nil),
	Methods: []grpc.MethodDesc{
		nodeMethod("StoreProgram", func(srv interface{}, ctx context.Context, in *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
			return srv.(NodeServer).StoreProgram(ctx, in)
		}),
		nodeMethod("StoreValues", func(srv interface{}, ctx context.Context, in *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
			return srv.(NodeServer).StoreValues(ctx, in)
		}),
		nodeMethod("RetrieveValues", func(srv interface{}, ctx context.Context, in *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
			return srv.(NodeServer).RetrieveValues(ctx, in)
		}),
		nodeMethod("UpdatePermissions", func(srv interface{}, ctx context.Context, in *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
			return srv.(NodeServer).UpdatePermissions(ctx, in)
		}),
		nodeMethod("DeleteValues", func(srv interface{}, ctx context.Context, in *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
			return srv.(NodeServer).DeleteValues(ctx, in)
		}),
		nodeMethod("Compute", func(srv interface{}, ctx context.Context, in *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
			return srv.(NodeServer).Compute(ctx, in)
		}),
		nodeMethod("RetrieveResults", func(srv interface{}, ctx context.Context, in *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
			return srv.(NodeServer).RetrieveResults(ctx, in)
		}),
		nodeMethod("Info", func(srv interface{}, ctx context.Context, in *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
			return srv.(NodeServer).Info(ctx, in)
		}),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "node.proto",
}

// Chain_ServiceDesc is the grpc.ServiceDesc for the chain service.
var Chain_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ChainServiceName,
	HandlerType: (*ChainServer)(nil),
	Methods: []grpc.MethodDesc{
		chainMethod("Balance", func(srv interface{}, ctx context.Context, in *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
			return srv.(ChainServer).Balance(ctx, in)
		}),
		chainMethod("AddFunds", func(srv interface{}, ctx context.Context, in *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
			return srv.(ChainServer).AddFunds(ctx, in)
		}),
		chainMethod("Quote", func(srv interface{}, ctx context.Context, in *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
			return srv.(ChainServer).Quote(ctx, in)
		}),
		chainMethod("Pay", func(srv interface{}, ctx context.Context, in *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
			return srv.(ChainServer).Pay(ctx, in)
		}),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "chain.proto",
}
