// Package module implements the collector service module
package module

import (
	"breachwatch/internal/adapters/ingest/feeds"
	"breachwatch/internal/modkit"
	"breachwatch/internal/modkit/httpkit"
	cldomain "breachwatch/internal/services/claims/domain"
	"breachwatch/internal/services/collector/service"
	mdomain "breachwatch/internal/services/matcher/domain"
	ndomain "breachwatch/internal/services/notify/domain"
)

// Ports exposed by the collector module
type Ports struct {
	Loop *service.Loop
}

// Module implements the collector service module
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs a new collector module from the COLLECTOR_ and FEEDS_
// config namespaces and the sibling module ports
func New(
	deps modkit.Deps,
	admit cldomain.AdmitterPort,
	match mdomain.MatcherPort,
	notify ndomain.Notifier,
) *Module {
	cfg := service.Config{
		Interval: deps.Cfg.Prefix("COLLECTOR_").MayDuration("INTERVAL", 0),
	}
	fs := feeds.FromConfig(deps.Cfg.Prefix("FEEDS_"))

	m := &Module{deps: deps}
	m.ports = Ports{Loop: service.New(fs, admit, match, notify, cfg, deps.Met)}
	return m
}

// Name satisfies modkit.Module
func (m *Module) Name() string { return "collector" }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }

// MountRoutes satisfies modkit.Module
func (m *Module) MountRoutes(r httpkit.Router) {}
