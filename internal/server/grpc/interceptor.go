package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
)

type ctxKey string

const accessTokenCtxKey ctxKey = "accessToken"

// accessTokenInterceptor copies the access_token metadata entry into the
// context for Resolve. A missing token is not an error: Resolve answers for
// "no session" too.
func (s *GRPCServer) accessTokenInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	if info.FullMethod == ResolveMethod {
		var accessToken string
		if md, ok := metadata.FromIncomingContext(ctx); ok {
			values := md.Get(accessTokenKey)
			if len(values) > 0 {
				accessToken = values[0]
			}
		}
		ctx = context.WithValue(ctx, accessTokenCtxKey, accessToken)
	}

	return handler(ctx, req)
}

func accessTokenFromContext(ctx context.Context) string {
	tok, _ := ctx.Value(accessTokenCtxKey).(string)
	return tok
}
