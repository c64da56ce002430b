package grpc

import (
	"context"
)

// Resolve evaluates the caller's session. The subject is only disclosed for
// an authenticated, unmasked decision.
func (s *GRPCServer) Resolve(ctx context.Context, req *ResolveRequest) (*ResolveResponse, error) {
	d := s.access.Check(ctx, accessTokenFromContext(ctx))

	resp := &ResolveResponse{
		Masked:    d.Verdict.Masked,
		DataScope: string(d.Verdict.DataScope),
	}
	if d.Authenticated() && !d.Verdict.Masked {
		resp.Authenticated = true
		resp.Subject = d.Session.Subject
	}
	return resp, nil
}

func (s *GRPCServer) Probe(ctx context.Context, req *ProbeRequest) (*ProbeResponse, error) {
	return &ProbeResponse{Masked: s.access.Probe(ctx).Masked}, nil
}
