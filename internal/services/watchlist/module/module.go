// Package module implements the watchlist service module
package module

import (
	"breachwatch/internal/modkit"
	"breachwatch/internal/modkit/httpkit"
	"breachwatch/internal/modkit/repokit"
	"breachwatch/internal/services/watchlist/domain"
	wlhttp "breachwatch/internal/services/watchlist/http"
	"breachwatch/internal/services/watchlist/repo"
	"breachwatch/internal/services/watchlist/service"
)

// Ports exposed by the watchlist module
type Ports struct {
	Reader domain.ReaderPort
	Writer domain.WriterPort
}

// Module implements the watchlist service module
type Module struct {
	deps  modkit.Deps
	svc   *service.Service
	ports Ports
}

// New constructs a new watchlist module
func New(deps modkit.Deps) *Module {
	svc := service.New(repokit.TxRunner(deps.PG), repo.NewPG())

	m := &Module{deps: deps, svc: svc}
	m.ports = Ports{
		Reader: svc,
		Writer: svc,
	}
	return m
}

// SetInvalidator forwards the matcher's refresh hook to the service
func (m *Module) SetInvalidator(inv domain.Invalidator) { m.svc.SetInvalidator(inv) }

// Name satisfies modkit.Module
func (m *Module) Name() string { return "watchlist" }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }

// MountRoutes satisfies modkit.Module
func (m *Module) MountRoutes(r httpkit.Router) {
	wlhttp.Handlers{Reader: m.ports.Reader, Writer: m.ports.Writer}.Mount(r)
}
