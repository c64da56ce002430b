package grpc

import (
	"context"

	"github.com/dmitrijs2005/budgetkeeper/internal/common"
	"google.golang.org/grpc"
)

const (
	ServiceName    = "budgetkeeper.access.v1.AccessService"
	ResolveMethod  = "/" + ServiceName + "/Resolve"
	ProbeMethod    = "/" + ServiceName + "/Probe"
	accessTokenKey = common.AccessTokenHeaderName
)

// ResolveRequest carries no fields: the session token travels in the
// access_token metadata entry.
type ResolveRequest struct{}

type ResolveResponse struct {
	Masked        bool   `json:"masked"`
	DataScope     string `json:"data_scope"`
	Authenticated bool   `json:"authenticated"`
	Subject       string `json:"subject,omitempty"`
}

type ProbeRequest struct{}

type ProbeResponse struct {
	Masked bool `json:"masked"`
}

// AccessServer is the server API of the access service.
type AccessServer interface {
	Resolve(context.Context, *ResolveRequest) (*ResolveResponse, error)
	Probe(context.Context, *ProbeRequest) (*ProbeResponse, error)
}

func RegisterAccessServer(s grpc.ServiceRegistrar, srv AccessServer) {
	s.RegisterService(&AccessServiceDesc, srv)
}

var AccessServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*AccessServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Resolve", Handler: resolveHandler},
		{MethodName: "Probe", Handler: probeHandler},
	},
	Streams: []grpc.StreamDesc{},
}

func resolveHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(ResolveRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(AccessServer).Resolve(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: ResolveMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(AccessServer).Resolve(ctx, req.(*ResolveRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func probeHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(ProbeRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(AccessServer).Probe(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: ProbeMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(AccessServer).Probe(ctx, req.(*ProbeRequest))
	}
	return interceptor(ctx, in, info, handler)
}

// AccessClient calls the access service. Every call uses the JSON codec.
type AccessClient struct {
	cc grpc.ClientConnInterface
}

func NewAccessClient(cc grpc.ClientConnInterface) *AccessClient {
	return &AccessClient{cc: cc}
}

func (c *AccessClient) Resolve(ctx context.Context, in *ResolveRequest, opts ...grpc.CallOption) (*ResolveResponse, error) {
	out := new(ResolveResponse)
	if err := c.cc.Invoke(ctx, ResolveMethod, in, out, withCodec(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *AccessClient) Probe(ctx context.Context, in *ProbeRequest, opts ...grpc.CallOption) (*ProbeResponse, error) {
	out := new(ProbeResponse)
	if err := c.cc.Invoke(ctx, ProbeMethod, in, out, withCodec(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func withCodec(opts []grpc.CallOption) []grpc.CallOption {
	return append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
}
