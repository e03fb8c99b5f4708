package grpc

import (
	"context"

	gogrpc "google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const CatalogServiceName = "catalog.v1.Catalog"

// CatalogServer is the read-only storefront exposed over gRPC. Messages are
// protobuf well-known types so no generated code is needed.
type CatalogServer interface {
	ListCategories(context.Context, *emptypb.Empty) (*structpb.ListValue, error)
	// ListProducts takes a category slug, or an empty value for every
	// active product.
	ListProducts(context.Context, *wrapperspb.StringValue) (*structpb.ListValue, error)
	GetProductBySlug(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
}

func RegisterCatalogServer(s gogrpc.ServiceRegistrar, srv CatalogServer) {
	s.RegisterService(&catalogServiceDesc, srv)
}

var catalogServiceDesc = gogrpc.ServiceDesc{
	ServiceName: CatalogServiceName,
	HandlerType: (*CatalogServer)(nil),
	Methods: []gogrpc.MethodDesc{
		{MethodName: "ListCategories", Handler: listCategoriesHandler},
		{MethodName: "ListProducts", Handler: listProductsHandler},
		{MethodName: "GetProductBySlug", Handler: getProductBySlugHandler},
	},
	Streams: []gogrpc.StreamDesc{},
}

func fullMethod(name string) string {
	return "/" + CatalogServiceName + "/" + name
}

func listCategoriesHandler(srv any, ctx context.Context, dec func(any) error, interceptor gogrpc.UnaryServerInterceptor) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CatalogServer).ListCategories(ctx, in)
	}
	info := &gogrpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod("ListCategories")}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(CatalogServer).ListCategories(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func listProductsHandler(srv any, ctx context.Context, dec func(any) error, interceptor gogrpc.UnaryServerInterceptor) (any, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CatalogServer).ListProducts(ctx, in)
	}
	info := &gogrpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod("ListProducts")}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(CatalogServer).ListProducts(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

func getProductBySlugHandler(srv any, ctx context.Context, dec func(any) error, interceptor gogrpc.UnaryServerInterceptor) (any, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CatalogServer).GetProductBySlug(ctx, in)
	}
	info := &gogrpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod("GetProductBySlug")}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(CatalogServer).GetProductBySlug(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}
