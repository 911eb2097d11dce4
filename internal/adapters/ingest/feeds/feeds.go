// Package feeds holds the leak-site aggregator clients the collector
// loop polls
package feeds

import (
	"context"

	cldomain "breachwatch/internal/services/claims/domain"
)

// Feed fetches one aggregator's current claims
type Feed interface {
	Name() string
	Fetch(ctx context.Context) ([]cldomain.Claim, error)
}
