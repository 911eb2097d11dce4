// Package service implements claim admission.
// Validation precedes deduplication; the duplicate check runs in tiers
// of increasing time tolerance and short-circuits on first hit
// 1 Exact same collector actor name and identical timestamp
// 2 Same collector actor name within one hour
// 3 Same collector actor normalized domain within one day
package service

import (
	"context"
	"strings"
	"time"

	"breachwatch/internal/core/domains"
	"breachwatch/internal/modkit/repokit"
	perr "breachwatch/internal/platform/errors"
	"breachwatch/internal/platform/logger"
	"breachwatch/internal/platform/metrics"
	"breachwatch/internal/services/claims/domain"
	"breachwatch/internal/services/claims/repo"
)

const (
	nameWindow   = time.Hour
	domainWindow = 24 * time.Hour
)

// Service implements domain.AdmitterPort and domain.QueryPort
type Service struct {
	db     repokit.TxRunner
	binder repokit.Binder[repo.Storage]
	met    *metrics.Engine
	log    *logger.Logger
}

// New constructs the claims service; met may be nil in tests
func New(db repokit.TxRunner, binder repokit.Binder[repo.Storage], met *metrics.Engine) *Service {
	return &Service{
		db:     db,
		binder: binder,
		met:    met,
		log:    logger.Named("claims"),
	}
}

// Admit runs validate, duplicate check, insert as one scoped unit of
// work. Duplicate is a status outcome, not an error
func (s *Service) Admit(ctx context.Context, c domain.Claim) domain.AdmitResult {
	if err := c.Validate(); err != nil {
		s.count(c.Collector, domain.StatusInvalid)
		return domain.AdmitResult{Status: domain.StatusInvalid, Err: err, Reason: err.Error()}
	}

	var res domain.AdmitResult
	err := s.db.Tx(ctx, func(q repokit.Queryer) error {
		st := repokit.MustBind(s.binder, q)

		dup, reason, err := s.isDuplicate(ctx, st, c)
		if err != nil {
			return err
		}
		if dup {
			res = domain.AdmitResult{Status: domain.StatusDuplicate, Reason: reason}
			return nil
		}

		id, err := st.Insert(ctx, c, domains.Normalize(c.Domain))
		if err != nil {
			return err
		}
		res = domain.AdmitResult{Status: domain.StatusAdmitted, ID: id}
		return nil
	})
	if err != nil {
		s.count(c.Collector, domain.StatusFailed)
		return domain.AdmitResult{
			Status: domain.StatusFailed,
			Err:    perr.Wrap(err, perr.ErrorCodeDB, "claim admission"),
			Reason: "storage failure",
		}
	}

	s.count(c.Collector, res.Status)
	return res
}

// BulkAdmit processes claims in order, preserving index correspondence.
// Each claim commits in its own transaction, so later claims in the
// batch are checked against earlier admitted siblings
func (s *Service) BulkAdmit(ctx context.Context, cs []domain.Claim) []domain.AdmitResult {
	out := make([]domain.AdmitResult, len(cs))
	for i, c := range cs {
		out[i] = s.Admit(ctx, c)
	}
	return out
}

// isDuplicate evaluates the tiers in order against persisted history
func (s *Service) isDuplicate(
	ctx context.Context,
	st repo.Storage,
	c domain.Claim,
) (bool, string, error) {
	collector := strings.ToLower(c.Collector)
	actor := strings.ToLower(c.ThreatActor)
	name := strings.ToLower(c.Name)

	found, err := st.ExistsExact(ctx, collector, actor, name, c.Timestamp)
	if err != nil {
		return false, "", err
	}
	if found {
		return true, "exact timestamp", nil
	}

	found, err = st.ExistsNameWindow(ctx, collector, actor, name,
		c.Timestamp.Add(-nameWindow), c.Timestamp.Add(nameWindow))
	if err != nil {
		return false, "", err
	}
	if found {
		return true, "same name within 1h", nil
	}

	if norm := domains.Normalize(c.Domain); norm != "" {
		found, err = st.ExistsDomainWindow(ctx, collector, actor, norm,
			c.Timestamp.Add(-domainWindow), c.Timestamp.Add(domainWindow))
		if err != nil {
			return false, "", err
		}
		if found {
			return true, "same domain within 1d", nil
		}
	}

	return false, "", nil
}

// Recent implements domain.QueryPort
func (s *Service) Recent(ctx context.Context, limit int) ([]domain.Claim, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	return repokit.MustBind(s.binder, s.db).Recent(ctx, limit)
}

// ByID implements domain.QueryPort
func (s *Service) ByID(ctx context.Context, id int64) (domain.Claim, error) {
	return repokit.MustBind(s.binder, s.db).ByID(ctx, id)
}

func (s *Service) count(collector string, st domain.AdmitStatus) {
	if s.met == nil {
		return
	}
	if collector == "" {
		collector = "unknown"
	}
	switch st {
	case domain.StatusAdmitted:
		s.met.ClaimsIngested.WithLabelValues(collector).Inc()
	case domain.StatusDuplicate:
		s.met.ClaimsDuplicate.WithLabelValues(collector).Inc()
	case domain.StatusInvalid:
		s.met.ClaimsInvalid.WithLabelValues(collector).Inc()
	case domain.StatusFailed:
		s.met.ClaimsFailed.WithLabelValues(collector).Inc()
	}
}
