package service

import (
	"context"
	"net/http"

	"connectrpc.com/connect"

	"github.com/mmynk/flexledger/internal/license"
)

const LicenseServiceName = "flexledger.v1.LicenseService"

// LicenseService exposes the activation gate. It stays reachable while the
// gate is locked.
type LicenseService struct {
	gate           *license.Gate
	countryCode    string
	developerPhone string
}

// NewLicenseService creates a LicenseService. Renewal request links go to
// developerPhone.
func NewLicenseService(gate *license.Gate, countryCode, developerPhone string) *LicenseService {
	return &LicenseService{gate: gate, countryCode: countryCode, developerPhone: developerPhone}
}

// NewLicenseServiceHandler builds the HTTP handler for every LicenseService
// procedure and returns the path prefix to mount it on.
func NewLicenseServiceHandler(svc *LicenseService, opts ...connect.HandlerOption) (string, http.Handler) {
	mux := http.NewServeMux()
	p := func(method string) string { return "/" + LicenseServiceName + "/" + method }

	unary(mux, p("Status"), svc.Status, opts)
	unary(mux, p("Activate"), svc.Activate, opts)
	unary(mux, p("RequestLink"), svc.RequestLink, opts)

	return "/" + LicenseServiceName + "/", mux
}

func (s *LicenseService) Status(ctx context.Context, req *LicenseStatusRequest) (*LicenseStatusResponse, error) {
	return toStatusResponse(s.gate.Status()), nil
}

// Activate checks the key. A wrong key returns PermissionDenied and leaves
// the gate as it was.
func (s *LicenseService) Activate(ctx context.Context, req *ActivateRequest) (*LicenseStatusResponse, error) {
	st, err := s.gate.Activate(req.Key)
	if err != nil {
		return nil, toConnectError(err)
	}
	return toStatusResponse(st), nil
}

func (s *LicenseService) RequestLink(ctx context.Context, req *RequestLinkRequest) (*RequestLinkResponse, error) {
	systemID := s.gate.Status().SystemID
	return &RequestLinkResponse{
		Link: license.RequestLink(systemID, s.countryCode, s.developerPhone),
	}, nil
}

func toStatusResponse(st license.Status) *LicenseStatusResponse {
	return &LicenseStatusResponse{
		State:    string(st.State),
		DaysLeft: st.DaysLeft,
		Progress: st.Progress,
		SystemID: st.SystemID,
		Locked:   !st.Open(),
	}
}
