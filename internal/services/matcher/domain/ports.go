// Package domain holds the matcher ports
package domain

import (
	"context"

	aldomain "breachwatch/internal/services/alerts/domain"
	cldomain "breachwatch/internal/services/claims/domain"
	wldomain "breachwatch/internal/services/watchlist/domain"
)

// MatcherPort matches claims against the watchlist snapshot
type MatcherPort interface {
	// Refresh rebuilds the snapshot and domain index as a unit and
	// swaps them atomically. Failure keeps the previous snapshot
	Refresh(ctx context.Context) error

	// CheckMatch returns every identifier the claim matches
	CheckMatch(ctx context.Context, c cldomain.Claim) ([]wldomain.Identifier, error)

	// ProcessClaim matches and persists one alert per match. A failed
	// alert write is logged and skipped, never aborting the siblings
	ProcessClaim(ctx context.Context, c cldomain.Claim) ([]aldomain.Alert, error)
}
