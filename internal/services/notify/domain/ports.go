// Package domain holds the notification port
package domain

import (
	"context"

	aldomain "breachwatch/internal/services/alerts/domain"
)

// Notifier delivers one persisted alert to an output channel.
// Failures are logged by the fan-out and never abort the cycle
type Notifier interface {
	Name() string
	Send(ctx context.Context, a aldomain.Alert) error
}
