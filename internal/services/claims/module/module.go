// Package module implements the claims service module
package module

import (
	"breachwatch/internal/modkit"
	"breachwatch/internal/modkit/httpkit"
	"breachwatch/internal/modkit/repokit"
	"breachwatch/internal/services/claims/domain"
	clhttp "breachwatch/internal/services/claims/http"
	"breachwatch/internal/services/claims/repo"
	"breachwatch/internal/services/claims/service"
)

// Ports exposed by the claims module
type Ports struct {
	Admitter domain.AdmitterPort
	Query    domain.QueryPort
}

// Module implements the claims service module
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs a new claims module
func New(deps modkit.Deps) *Module {
	svc := service.New(repokit.TxRunner(deps.PG), repo.NewPG(), deps.Met)

	m := &Module{deps: deps}
	m.ports = Ports{
		Admitter: svc,
		Query:    svc,
	}
	return m
}

// Name satisfies modkit.Module
func (m *Module) Name() string { return "claims" }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }

// MountRoutes satisfies modkit.Module
func (m *Module) MountRoutes(r httpkit.Router) {
	clhttp.Handlers{Admitter: m.ports.Admitter, Query: m.ports.Query}.Mount(r)
}
