// Package service implements alert persistence and queries
package service

import (
	"context"
	"strings"

	"breachwatch/internal/modkit/repokit"
	perr "breachwatch/internal/platform/errors"
	"breachwatch/internal/platform/metrics"
	"breachwatch/internal/services/alerts/domain"
	"breachwatch/internal/services/alerts/repo"
)

// Service implements domain.EmitterPort and domain.QueryPort
type Service struct {
	db     repokit.TxRunner
	binder repokit.Binder[repo.Storage]
	met    *metrics.Engine
}

// New constructs the alerts service; met may be nil in tests
func New(db repokit.TxRunner, binder repokit.Binder[repo.Storage], met *metrics.Engine) *Service {
	return &Service{db: db, binder: binder, met: met}
}

// Add implements domain.EmitterPort
func (s *Service) Add(ctx context.Context, identifierID int64, message string) (domain.Alert, error) {
	if identifierID <= 0 {
		return domain.Alert{}, perr.InvalidArgf("identifier id must be positive")
	}
	if strings.TrimSpace(message) == "" {
		return domain.Alert{}, perr.InvalidArgf("alert message must be non-empty")
	}

	a, err := repokit.MustBind(s.binder, s.db).Insert(ctx, identifierID, message)
	if err != nil {
		if s.met != nil {
			s.met.AlertWriteFailures.Inc()
		}
		return domain.Alert{}, err
	}
	if s.met != nil {
		s.met.AlertsEmitted.Inc()
	}
	return a, nil
}

// Recent implements domain.QueryPort
func (s *Service) Recent(ctx context.Context, limit int) ([]domain.Alert, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	return repokit.MustBind(s.binder, s.db).Recent(ctx, limit)
}

// ByIdentifier implements domain.QueryPort
func (s *Service) ByIdentifier(ctx context.Context, identifierID int64) ([]domain.Alert, error) {
	return repokit.MustBind(s.binder, s.db).ByIdentifier(ctx, identifierID)
}
