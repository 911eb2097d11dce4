// Package module implements the alerts service module
package module

import (
	"breachwatch/internal/modkit"
	"breachwatch/internal/modkit/httpkit"
	"breachwatch/internal/modkit/repokit"
	"breachwatch/internal/services/alerts/domain"
	alhttp "breachwatch/internal/services/alerts/http"
	"breachwatch/internal/services/alerts/repo"
	"breachwatch/internal/services/alerts/service"
)

// Ports exposed by the alerts module
type Ports struct {
	Emitter domain.EmitterPort
	Query   domain.QueryPort
}

// Module implements the alerts service module
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs a new alerts module
func New(deps modkit.Deps) *Module {
	svc := service.New(repokit.TxRunner(deps.PG), repo.NewPG(), deps.Met)

	m := &Module{deps: deps}
	m.ports = Ports{
		Emitter: svc,
		Query:   svc,
	}
	return m
}

// Name satisfies modkit.Module
func (m *Module) Name() string { return "alerts" }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }

// MountRoutes satisfies modkit.Module
func (m *Module) MountRoutes(r httpkit.Router) {
	alhttp.Handlers{Query: m.ports.Query}.Mount(r)
}
