package service

import (
	"context"

	"breachwatch/internal/platform/logger"
	aldomain "breachwatch/internal/services/alerts/domain"
	"breachwatch/internal/services/notify/domain"
)

// Fanout sends each alert to every configured notifier. A failing
// notifier is logged and the rest still run
type Fanout struct {
	notifiers []domain.Notifier
	log       *logger.Logger
}

// NewFanout constructs the fan-out over the given notifiers
func NewFanout(ns ...domain.Notifier) *Fanout {
	return &Fanout{notifiers: ns, log: logger.Named("notify")}
}

// Name implements domain.Notifier
func (f *Fanout) Name() string { return "fanout" }

// Send implements domain.Notifier
func (f *Fanout) Send(ctx context.Context, a aldomain.Alert) error {
	for _, n := range f.notifiers {
		if err := n.Send(ctx, a); err != nil {
			f.log.Error().Err(err).
				Str("notifier", n.Name()).
				Int64("alert_id", a.ID).
				Msg("alert delivery failed")
		}
	}
	return nil
}
