// Package service implements the watchlist use cases
package service

import (
	"context"
	"strings"

	"breachwatch/internal/modkit/repokit"
	perr "breachwatch/internal/platform/errors"
	"breachwatch/internal/platform/logger"
	"breachwatch/internal/services/watchlist/domain"
	"breachwatch/internal/services/watchlist/repo"
)

// Service implements domain.ReaderPort and domain.WriterPort
type Service struct {
	db     repokit.TxRunner
	binder repokit.Binder[repo.Storage]
	inval  domain.Invalidator
	log    *logger.Logger
}

// New constructs the watchlist service
func New(db repokit.TxRunner, binder repokit.Binder[repo.Storage]) *Service {
	return &Service{
		db:     db,
		binder: binder,
		log:    logger.Named("watchlist"),
	}
}

// SetInvalidator installs the hook called after identifier mutations.
// Wired late because the matcher is constructed after the watchlist
func (s *Service) SetInvalidator(inv domain.Invalidator) { s.inval = inv }

func (s *Service) invalidate(ctx context.Context) {
	if s.inval == nil {
		return
	}
	if err := s.inval.Refresh(ctx); err != nil {
		s.log.Error().Err(err).Msg("matcher refresh after watchlist mutation failed")
	}
}

// CreateClient implements domain.WriterPort
func (s *Service) CreateClient(ctx context.Context, name string) (domain.Client, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Client{}, perr.Validationf("client name must be non-empty")
	}
	return repokit.MustBind(s.binder, s.db).InsertClient(ctx, name)
}

// DeleteClient implements domain.WriterPort. Identifiers cascade, so
// the matcher snapshot is invalidated too
func (s *Service) DeleteClient(ctx context.Context, id int64) error {
	if err := repokit.MustBind(s.binder, s.db).DeleteClient(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// AddIdentifier implements domain.WriterPort
func (s *Service) AddIdentifier(
	ctx context.Context,
	clientID int64,
	typ domain.IdentifierType,
	value string,
) (domain.Identifier, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return domain.Identifier{}, perr.Validationf("identifier value must be non-empty")
	}
	if !typ.Valid() {
		return domain.Identifier{}, perr.Validationf("unknown identifier type %q", typ)
	}

	ident, err := repokit.MustBind(s.binder, s.db).InsertIdentifier(ctx, clientID, typ, value)
	if err != nil {
		return domain.Identifier{}, err
	}
	s.invalidate(ctx)
	return ident, nil
}

// RemoveIdentifier implements domain.WriterPort
func (s *Service) RemoveIdentifier(ctx context.Context, id int64) error {
	if err := repokit.MustBind(s.binder, s.db).DeleteIdentifier(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// ListClients implements domain.ReaderPort
func (s *Service) ListClients(ctx context.Context) ([]domain.Client, error) {
	return repokit.MustBind(s.binder, s.db).ListClients(ctx)
}

// ListIdentifiers implements domain.ReaderPort
func (s *Service) ListIdentifiers(ctx context.Context, clientID int64) ([]domain.Identifier, error) {
	return repokit.MustBind(s.binder, s.db).ListIdentifiers(ctx, clientID)
}

// AllIdentifiers implements domain.ReaderPort
func (s *Service) AllIdentifiers(ctx context.Context) ([]domain.Identifier, error) {
	return repokit.MustBind(s.binder, s.db).AllIdentifiers(ctx)
}
