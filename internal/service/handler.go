package service

import (
	"context"
	"errors"
	"net/http"

	"connectrpc.com/connect"

	"github.com/mmynk/flexledger/internal/ledger"
	"github.com/mmynk/flexledger/internal/license"
)

// unary registers fn as the unary procedure on mux.
func unary[Req, Res any](mux *http.ServeMux, procedure string, fn func(context.Context, *Req) (*Res, error), opts []connect.HandlerOption) {
	mux.Handle(procedure, connect.NewUnaryHandler(procedure,
		func(ctx context.Context, req *connect.Request[Req]) (*connect.Response[Res], error) {
			res, err := fn(ctx, req.Msg)
			if err != nil {
				return nil, err
			}
			return connect.NewResponse(res), nil
		},
		append([]connect.HandlerOption{connect.WithCodec(Codec())}, opts...)...,
	))
}

// toConnectError maps domain errors onto Connect codes.
func toConnectError(err error) error {
	var connectErr *connect.Error
	var licenseErr *license.LicenseError
	switch {
	case errors.As(err, &connectErr):
		return err
	case errors.Is(err, ledger.ErrValidation):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.As(err, &licenseErr):
		return connect.NewError(connect.CodePermissionDenied, err)
	case errors.Is(err, license.ErrLocked):
		return connect.NewError(connect.CodeFailedPrecondition, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}
