// Package module implements the notify service module
package module

import (
	"breachwatch/internal/modkit"
	"breachwatch/internal/modkit/httpkit"
	"breachwatch/internal/services/notify/domain"
	"breachwatch/internal/services/notify/service"
)

// Ports exposed by the notify module
type Ports struct {
	Notifier domain.Notifier
}

// Module implements the notify service module
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs a new notify module from the NOTIFY_ config namespace
func New(deps modkit.Deps) *Module {
	cfg := deps.Cfg.Prefix("NOTIFY_")

	var ns []domain.Notifier
	if cfg.MayBool("CONSOLE", true) {
		ns = append(ns, service.NewConsole())
	}
	if url := cfg.MayString("WEBHOOK_URL", ""); url != "" {
		ns = append(ns, service.NewWebhook(url))
	}

	m := &Module{deps: deps}
	m.ports = Ports{Notifier: service.NewFanout(ns...)}
	return m
}

// Name satisfies modkit.Module
func (m *Module) Name() string { return "notify" }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }

// MountRoutes satisfies modkit.Module
func (m *Module) MountRoutes(r httpkit.Router) {}
