// Package service implements the watchlist matcher.
// The snapshot pairs the full identifier set with a domain index built
// from the domain-typed subset; both are rebuilt off to the side and
// swapped in atomically so concurrent readers never observe a partial
// rebuild
package service

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"

	"breachwatch/internal/core/domains"
	"breachwatch/internal/platform/logger"
	"breachwatch/internal/platform/metrics"
	aldomain "breachwatch/internal/services/alerts/domain"
	cldomain "breachwatch/internal/services/claims/domain"
	wldomain "breachwatch/internal/services/watchlist/domain"
)

// snapshot is an immutable view of the watchlist
type snapshot struct {
	identifiers []wldomain.Identifier
	index       *domains.Index
}

// Config tunes matcher behavior
type Config struct {
	// StrictIP switches IP identifiers from substring containment to
	// exact equality
	StrictIP bool
}

// Service implements domain.MatcherPort
type Service struct {
	watch wldomain.ReaderPort
	emit  aldomain.EmitterPort
	cfg   Config
	met   *metrics.Engine
	log   *logger.Logger
	snap  atomic.Pointer[snapshot]
}

// New constructs the matcher; met may be nil in tests
func New(watch wldomain.ReaderPort, emit aldomain.EmitterPort, cfg Config, met *metrics.Engine) *Service {
	return &Service{
		watch: watch,
		emit:  emit,
		cfg:   cfg,
		met:   met,
		log:   logger.Named("matcher"),
	}
}

// Refresh implements domain.MatcherPort
func (s *Service) Refresh(ctx context.Context) error {
	ids, err := s.watch.AllIdentifiers(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("watchlist pull failed, keeping previous snapshot")
		return err
	}

	next := &snapshot{identifiers: ids, index: domains.NewIndex()}
	for i := range ids {
		if ids[i].Type == wldomain.TypeDomain {
			next.index.Add(ids[i].Value, ids[i].ID)
		}
	}

	s.snap.Store(next)
	if s.met != nil {
		s.met.WatchlistRefreshes.Inc()
		s.met.WatchlistSize.Set(float64(len(ids)))
	}
	s.log.Debug().Int("identifiers", len(ids)).Msg("watchlist snapshot refreshed")
	return nil
}

// current returns the live snapshot, refreshing lazily on first use
func (s *Service) current(ctx context.Context) (*snapshot, error) {
	if snap := s.snap.Load(); snap != nil {
		return snap, nil
	}
	if err := s.Refresh(ctx); err != nil {
		return nil, err
	}
	return s.snap.Load(), nil
}

// CheckMatch implements domain.MatcherPort. The result preserves
// watchlist order and holds each identifier at most once
func (s *Service) CheckMatch(ctx context.Context, c cldomain.Claim) ([]wldomain.Identifier, error) {
	snap, err := s.current(ctx)
	if err != nil {
		return nil, err
	}

	fields := wldomain.ClaimFields{
		Name:   strings.ToLower(strings.TrimSpace(c.Name)),
		IP:     strings.ToLower(strings.TrimSpace(c.IP)),
		Domain: strings.ToLower(strings.TrimSpace(c.Domain)),
	}

	hit := make(map[int64]bool)

	if fields.Domain != "" {
		for _, e := range snap.index.Find(fields.Domain) {
			hit[e.Meta.(int64)] = true
		}
	}

	for _, id := range snap.identifiers {
		if id.Type == wldomain.TypeDomain {
			continue
		}
		if id.Matches(fields, s.cfg.StrictIP) {
			hit[id.ID] = true
		}
	}

	var out []wldomain.Identifier
	for _, id := range snap.identifiers {
		if hit[id.ID] {
			out = append(out, id)
		}
	}
	return out, nil
}

// ProcessClaim implements domain.MatcherPort
func (s *Service) ProcessClaim(ctx context.Context, c cldomain.Claim) ([]aldomain.Alert, error) {
	for _, f := range []struct {
		name  string
		field *string
	}{
		{"collector", &c.Collector},
		{"threat_actor", &c.ThreatActor},
		{"name_identifier", &c.Name},
	} {
		if strings.TrimSpace(*f.field) == "" {
			s.log.Warn().Str("field", f.name).Msg("claim missing required field, defaulting to empty")
			*f.field = ""
		}
	}

	matches, err := s.CheckMatch(ctx, c)
	if err != nil {
		return nil, err
	}

	var out []aldomain.Alert
	for _, id := range matches {
		msg := fmt.Sprintf(
			"%s reported %s from threat actor %s matches watchlist identifier %s:%s",
			c.Collector, c.Name, c.ThreatActor, id.Type, id.Value,
		)
		a, err := s.emit.Add(ctx, id.ID, msg)
		if err != nil {
			s.log.Error().Err(err).
				Int64("identifier_id", id.ID).
				Msg("alert persistence failed, skipping match")
			continue
		}
		out = append(out, a)
	}
	return out, nil
}
