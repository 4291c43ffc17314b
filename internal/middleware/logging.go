package middleware

import (
	"context"
	"log/slog"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/flexledger/internal/metrics"
)

// LoggingInterceptor logs every RPC with its procedure, result code and
// duration, and counts it in metrics.RPCs.
//
// Client-side failures (invalid input, locked gate, unknown IDs) log at Warn;
// anything else that fails logs at Error.
func LoggingInterceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			start := time.Now()
			procedure := req.Spec().Procedure

			resp, err := next(ctx, req)

			duration := time.Since(start)
			code := "ok"
			if err != nil {
				code = connect.CodeOf(err).String()
			}
			metrics.RPCs.WithLabelValues(procedure, code).Inc()

			attrs := []any{
				"procedure", procedure,
				"code", code,
				"duration_ms", duration.Milliseconds(),
			}
			switch {
			case err == nil:
				slog.Info("RPC ok", attrs...)
			case clientFault(connect.CodeOf(err)):
				slog.Warn("RPC rejected", append(attrs, "error", err)...)
			default:
				slog.Error("RPC failed", append(attrs, "error", err)...)
			}
			return resp, err
		}
	}
}

func clientFault(code connect.Code) bool {
	switch code {
	case connect.CodeInvalidArgument,
		connect.CodeNotFound,
		connect.CodeFailedPrecondition,
		connect.CodePermissionDenied,
		connect.CodeCanceled:
		return true
	}
	return false
}
