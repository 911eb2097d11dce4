// Package service implements the sequential collection loop.
// One cycle at a time: fetch each feed, admit the batch, run matching
// over the newly admitted claims, fan alerts out to the notifiers
package service

import (
	"context"
	"time"

	"breachwatch/internal/adapters/ingest/feeds"
	"breachwatch/internal/platform/logger"
	"breachwatch/internal/platform/metrics"
	cldomain "breachwatch/internal/services/claims/domain"
	mdomain "breachwatch/internal/services/matcher/domain"
	ndomain "breachwatch/internal/services/notify/domain"

	"github.com/google/uuid"
)

// Config tunes the loop
type Config struct {
	Interval time.Duration
}

// Loop drives collection cycles
type Loop struct {
	feeds  []feeds.Feed
	admit  cldomain.AdmitterPort
	match  mdomain.MatcherPort
	notify ndomain.Notifier
	cfg    Config
	met    *metrics.Engine
	log    *logger.Logger
}

// New constructs the collection loop; met may be nil in tests
func New(
	fs []feeds.Feed,
	admit cldomain.AdmitterPort,
	match mdomain.MatcherPort,
	notify ndomain.Notifier,
	cfg Config,
	met *metrics.Engine,
) *Loop {
	if cfg.Interval <= 0 {
		cfg.Interval = 15 * time.Minute
	}
	return &Loop{
		feeds:  fs,
		admit:  admit,
		match:  match,
		notify: notify,
		cfg:    cfg,
		met:    met,
		log:    logger.Named("collector"),
	}
}

// Run cycles immediately and then on every interval until ctx is done
func (l *Loop) Run(ctx context.Context) error {
	l.Cycle(ctx)

	ticker := time.NewTicker(l.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			l.Cycle(ctx)
		}
	}
}

// Cycle polls every feed once. A failing feed is skipped for the cycle
func (l *Loop) Cycle(ctx context.Context) {
	start := time.Now()
	for _, f := range l.feeds {
		l.collect(ctx, f)
	}
	if l.met != nil {
		l.met.CollectorCycles.Inc()
	}
	l.log.Info().Dur("elapsed", time.Since(start)).Int("feeds", len(l.feeds)).Msg("cycle complete")
}

func (l *Loop) collect(ctx context.Context, f feeds.Feed) {
	runID := uuid.NewString()
	ctx = logger.WithRun(ctx, runID, f.Name())
	log := logger.C(ctx)

	claims, err := f.Fetch(ctx)
	if err != nil {
		if l.met != nil {
			l.met.CollectorFeedErrors.WithLabelValues(f.Name()).Inc()
		}
		log.Error().Err(err).Msg("feed fetch failed, skipping for this cycle")
		return
	}

	results := l.admit.BulkAdmit(ctx, claims)

	var admitted, duplicates, invalid, failed int
	for i, res := range results {
		switch res.Status {
		case cldomain.StatusDuplicate:
			duplicates++
		case cldomain.StatusInvalid:
			invalid++
			log.Warn().Str("reason", res.Reason).Str("name", claims[i].Name).Msg("claim rejected")
		case cldomain.StatusFailed:
			failed++
			log.Error().Err(res.Err).Str("name", claims[i].Name).Msg("claim admission failed")
		case cldomain.StatusAdmitted:
			admitted++
			l.process(ctx, claims[i], res.ID)
		}
	}

	log.Info().
		Int("fetched", len(claims)).
		Int("admitted", admitted).
		Int("duplicates", duplicates).
		Int("invalid", invalid).
		Int("failed", failed).
		Msg("feed processed")
}

func (l *Loop) process(ctx context.Context, c cldomain.Claim, id int64) {
	c.ID = id
	alerts, err := l.match.ProcessClaim(ctx, c)
	if err != nil {
		logger.C(ctx).Error().Err(err).Int64("claim_id", id).Msg("matching failed")
		return
	}
	for _, a := range alerts {
		if err := l.notify.Send(ctx, a); err != nil {
			logger.C(ctx).Error().Err(err).Int64("alert_id", a.ID).Msg("notification failed")
		}
	}
}
