// Package modkit provides module wiring and core deps
package modkit

import (
	"breachwatch/internal/modkit/repokit"
	"breachwatch/internal/platform/config"
	"breachwatch/internal/platform/logger"
	"breachwatch/internal/platform/metrics"
)

// Deps holds the core dependencies passed to every module.
// This is wiring only and introduces no new abstractions
type Deps struct {
	Log logger.Logger
	Cfg config.Conf
	PG  repokit.TxRunner
	Met *metrics.Engine
}
