package service

import (
	"net/http"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mmynk/flexledger/internal/app"
	"github.com/mmynk/flexledger/internal/middleware"
)

// NewMux mounts both services and /metrics for the given install.
// LedgerService calls are refused while the license gate is locked;
// LicenseService is always reachable so the install can be activated.
func NewMux(a *app.App) *http.ServeMux {
	logged := connect.WithInterceptors(middleware.LoggingInterceptor())
	gated := connect.WithInterceptors(
		middleware.LoggingInterceptor(),
		middleware.RequireLicense(a.Gate),
	)

	ledgerSvc := NewLedgerService(a.Ledger, a.Syncer, a.Reminders, LedgerSettings{
		BusinessName: a.Config.BusinessName,
		CountryCode:  a.Config.CountryCode,
	})
	licenseSvc := NewLicenseService(a.Gate, a.Config.CountryCode, a.Config.DeveloperPhone)

	mux := http.NewServeMux()
	ledgerPath, ledgerHandler := NewLedgerServiceHandler(ledgerSvc, gated)
	mux.Handle(ledgerPath, ledgerHandler)
	licensePath, licenseHandler := NewLicenseServiceHandler(licenseSvc, logged)
	mux.Handle(licensePath, licenseHandler)
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}
