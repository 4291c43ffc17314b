package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"connectrpc.com/connect"

	"github.com/mmynk/flexledger/internal/license"
)

type fakeGate struct{ locked bool }

func (g *fakeGate) Locked() bool { return g.locked }

type ping struct{}

func TestRequireLicense(t *testing.T) {
	gate := &fakeGate{locked: true}
	called := 0
	next := func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
		called++
		return connect.NewResponse(&ping{}), nil
	}
	handler := RequireLicense(gate)(next)

	_, err := handler(context.Background(), connect.NewRequest(&ping{}))
	if connect.CodeOf(err) != connect.CodeFailedPrecondition {
		t.Fatalf("locked gate: code = %v, want FailedPrecondition", connect.CodeOf(err))
	}
	if !errors.Is(err, license.ErrLocked) {
		t.Errorf("error should wrap ErrLocked: %v", err)
	}
	if called != 0 {
		t.Error("handler ran while locked")
	}

	gate.locked = false
	if _, err := handler(context.Background(), connect.NewRequest(&ping{})); err != nil {
		t.Fatalf("open gate: %v", err)
	}
	if called != 1 {
		t.Errorf("handler calls = %d, want 1", called)
	}
}

func TestLoggingInterceptor_PassesThrough(t *testing.T) {
	want := connect.NewError(connect.CodeNotFound, errors.New("no such bill"))
	next := func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
		return nil, want
	}
	_, err := LoggingInterceptor()(next)(context.Background(), connect.NewRequest(&ping{}))
	if err != want {
		t.Errorf("interceptor changed the error: %v", err)
	}
}

func TestCORS(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	h := CORS(inner)

	tests := []struct {
		method string
		want   int
	}{
		{http.MethodOptions, http.StatusNoContent},
		{http.MethodPost, http.StatusTeapot},
	}
	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(tt.method, "/flexledger.v1.LedgerService/ListBills", nil))
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
			if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
				t.Error("missing CORS header")
			}
		})
	}
}
