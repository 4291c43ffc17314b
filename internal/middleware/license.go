package middleware

import (
	"context"

	"connectrpc.com/connect"

	"github.com/mmynk/flexledger/internal/license"
)

// Gate reports whether the install currently refuses work.
type Gate interface {
	Locked() bool
}

// RequireLicense returns an interceptor that rejects every call with
// FailedPrecondition while the gate is locked. The gate is evaluated per
// call, so an activation takes effect on the next request.
func RequireLicense(gate Gate) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			if gate.Locked() {
				return nil, connect.NewError(connect.CodeFailedPrecondition, license.ErrLocked)
			}
			return next(ctx, req)
		}
	}
}
