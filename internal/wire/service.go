package wire

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Fully qualified names of the ZoneService methods.
const (
	ServiceName                = "terrorzones.v1.ZoneService"
	GetCurrentZoneFullMethod   = "/" + ServiceName + "/GetCurrentZone"
	GetForecastFullMethod      = "/" + ServiceName + "/GetForecast"
	FindZoneFullMethod         = "/" + ServiceName + "/FindZone"
	ListZonesFullMethod        = "/" + ServiceName + "/ListZones"
	getCurrentZoneMethodName   = "GetCurrentZone"
	getForecastMethodName      = "GetForecast"
	findZoneMethodName         = "FindZone"
	listZonesMethodName        = "ListZones"
	serviceDescriptionMetadata = "terrorzones/v1/zone_service"
)

// ZoneServiceServer is the server API for ZoneService.
type ZoneServiceServer interface {
	GetCurrentZone(ctx context.Context, req *CurrentZoneRequest) (*CurrentZoneResponse, error)
	GetForecast(ctx context.Context, req *ForecastRequest) (*ForecastResponse, error)
	FindZone(ctx context.Context, req *FindZoneRequest) (*FindZoneResponse, error)
	ListZones(ctx context.Context, req *ListZonesRequest) (*ListZonesResponse, error)
}

// UnimplementedZoneServiceServer answers every method with codes.Unimplemented.
// Embed it to stay source compatible when methods are added.
type UnimplementedZoneServiceServer struct{}

// GetCurrentZone is not implemented.
func (UnimplementedZoneServiceServer) GetCurrentZone(context.Context, *CurrentZoneRequest) (*CurrentZoneResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetCurrentZone not implemented")
}

// GetForecast is not implemented.
func (UnimplementedZoneServiceServer) GetForecast(context.Context, *ForecastRequest) (*ForecastResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetForecast not implemented")
}

// FindZone is not implemented.
func (UnimplementedZoneServiceServer) FindZone(context.Context, *FindZoneRequest) (*FindZoneResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method FindZone not implemented")
}

// ListZones is not implemented.
func (UnimplementedZoneServiceServer) ListZones(context.Context, *ListZonesRequest) (*ListZonesResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListZones not implemented")
}

// RegisterZoneServiceServer registers srv on s.
func RegisterZoneServiceServer(s grpc.ServiceRegistrar, srv ZoneServiceServer) {
	s.RegisterService(&ZoneServiceDesc, srv)
}

// ZoneServiceDesc is the grpc.ServiceDesc for ZoneService.
//
//nolint:gochecknoglobals // grpc expects a descriptor value.
var ZoneServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ZoneServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: getCurrentZoneMethodName,
			Handler:    unaryHandler(GetCurrentZoneFullMethod, ZoneServiceServer.GetCurrentZone),
		},
		{
			MethodName: getForecastMethodName,
			Handler:    unaryHandler(GetForecastFullMethod, ZoneServiceServer.GetForecast),
		},
		{
			MethodName: findZoneMethodName,
			Handler:    unaryHandler(FindZoneFullMethod, ZoneServiceServer.FindZone),
		},
		{
			MethodName: listZonesMethodName,
			Handler:    unaryHandler(ListZonesFullMethod, ZoneServiceServer.ListZones),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: serviceDescriptionMetadata,
}

// unaryHandler adapts a typed ZoneServiceServer method to grpc.MethodHandler.
func unaryHandler[Req, Resp any](
	fullMethod string,
	call func(ZoneServiceServer, context.Context, *Req) (*Resp, error),
) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}

		if interceptor == nil {
			return call(srv.(ZoneServiceServer), ctx, in)
		}

		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}

		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(ZoneServiceServer), ctx, req.(*Req))
		}

		return interceptor(ctx, in, info, handler)
	}
}

// ZoneServiceClient is the client API for ZoneService.
type ZoneServiceClient interface {
	GetCurrentZone(ctx context.Context, in *CurrentZoneRequest, opts ...grpc.CallOption) (*CurrentZoneResponse, error)
	GetForecast(ctx context.Context, in *ForecastRequest, opts ...grpc.CallOption) (*ForecastResponse, error)
	FindZone(ctx context.Context, in *FindZoneRequest, opts ...grpc.CallOption) (*FindZoneResponse, error)
	ListZones(ctx context.Context, in *ListZonesRequest, opts ...grpc.CallOption) (*ListZonesResponse, error)
}

// zoneServiceClient invokes ZoneService methods over a connection using the CBOR codec.
type zoneServiceClient struct {
	// cc is the underlying client connection.
	cc grpc.ClientConnInterface
}

// NewZoneServiceClient creates a ZoneService client over cc.
//
//nolint:ireturn // Mirrors generated grpc clients.
func NewZoneServiceClient(cc grpc.ClientConnInterface) ZoneServiceClient {
	return &zoneServiceClient{
		cc: cc,
	}
}

// GetCurrentZone calls ZoneService.GetCurrentZone.
func (c *zoneServiceClient) GetCurrentZone(
	ctx context.Context,
	in *CurrentZoneRequest,
	opts ...grpc.CallOption,
) (*CurrentZoneResponse, error) {
	return invoke[CurrentZoneResponse](ctx, c.cc, GetCurrentZoneFullMethod, in, opts)
}

// GetForecast calls ZoneService.GetForecast.
func (c *zoneServiceClient) GetForecast(
	ctx context.Context,
	in *ForecastRequest,
	opts ...grpc.CallOption,
) (*ForecastResponse, error) {
	return invoke[ForecastResponse](ctx, c.cc, GetForecastFullMethod, in, opts)
}

// FindZone calls ZoneService.FindZone.
func (c *zoneServiceClient) FindZone(
	ctx context.Context,
	in *FindZoneRequest,
	opts ...grpc.CallOption,
) (*FindZoneResponse, error) {
	return invoke[FindZoneResponse](ctx, c.cc, FindZoneFullMethod, in, opts)
}

// ListZones calls ZoneService.ListZones.
func (c *zoneServiceClient) ListZones(
	ctx context.Context,
	in *ListZonesRequest,
	opts ...grpc.CallOption,
) (*ListZonesResponse, error) {
	return invoke[ListZonesResponse](ctx, c.cc, ListZonesFullMethod, in, opts)
}

// invoke performs one unary call with the CBOR content subtype.
func invoke[Resp any](
	ctx context.Context,
	cc grpc.ClientConnInterface,
	method string,
	in any,
	opts []grpc.CallOption,
) (*Resp, error) {
	out := new(Resp)

	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}

	return out, nil
}
