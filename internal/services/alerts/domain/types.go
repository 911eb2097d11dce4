// Package domain holds the alert types and ports
package domain

import (
	"context"
	"time"
)

// Alert records a confirmed watchlist match
type Alert struct {
	ID           int64     `json:"id"`
	IdentifierID int64     `json:"identifier_id"`
	Message      string    `json:"message"`
	CreatedAt    time.Time `json:"created_at"`
}

// EmitterPort persists alerts
type EmitterPort interface {
	Add(ctx context.Context, identifierID int64, message string) (Alert, error)
}

// QueryPort reads stored alerts
type QueryPort interface {
	Recent(ctx context.Context, limit int) ([]Alert, error)
	ByIdentifier(ctx context.Context, identifierID int64) ([]Alert, error)
}
