// Package module implements the matcher service module
package module

import (
	"breachwatch/internal/modkit"
	"breachwatch/internal/modkit/httpkit"
	aldomain "breachwatch/internal/services/alerts/domain"
	"breachwatch/internal/services/matcher/domain"
	"breachwatch/internal/services/matcher/service"
	wldomain "breachwatch/internal/services/watchlist/domain"
)

// Ports exposed by the matcher module
type Ports struct {
	Matcher domain.MatcherPort
}

// Module implements the matcher service module
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs a new matcher module over the watchlist reader and
// the alert emitter of sibling modules
func New(deps modkit.Deps, watch wldomain.ReaderPort, emit aldomain.EmitterPort) *Module {
	cfg := service.Config{
		StrictIP: deps.Cfg.Prefix("MATCHER_").MayBool("STRICT_IP", false),
	}

	m := &Module{deps: deps}
	m.ports = Ports{Matcher: service.New(watch, emit, cfg, deps.Met)}
	return m
}

// Name satisfies modkit.Module
func (m *Module) Name() string { return "matcher" }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }

// MountRoutes satisfies modkit.Module
func (m *Module) MountRoutes(r httpkit.Router) {}
