// Package repo provides the claims repository implementation
package repo

import (
	"context"
	"errors"
	"time"

	"breachwatch/internal/modkit/repokit"
	perr "breachwatch/internal/platform/errors"
	pstrings "breachwatch/internal/platform/strings"
	"breachwatch/internal/services/claims/domain"

	"github.com/jackc/pgx/v5"
)

type (
	pg     struct{ q repokit.Queryer }
	binder struct{}
)

// NewPG constructs a new repo binder for Postgres
func NewPG() repokit.Binder[Storage] { return binder{} }

// Bind implements repokit.Binder
func (binder) Bind(q repokit.Queryer) Storage { return &pg{q: q} }

// Storage defines the claims repository. The existence queries take
// already-lowercased collector, actor, name and the normalized domain
type Storage interface {
	ExistsExact(ctx context.Context, collector, actor, name string, ts time.Time) (bool, error)
	ExistsNameWindow(ctx context.Context, collector, actor, name string, from, to time.Time) (bool, error)
	ExistsDomainWindow(ctx context.Context, collector, actor, domainNorm string, from, to time.Time) (bool, error)
	Insert(ctx context.Context, c domain.Claim, domainNorm string) (int64, error)
	Recent(ctx context.Context, limit int) ([]domain.Claim, error)
	ByID(ctx context.Context, id int64) (domain.Claim, error)
}

func (s *pg) ExistsExact(ctx context.Context, collector, actor, name string, ts time.Time) (bool, error) {
	var found bool
	err := s.q.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM claims
			WHERE lower(collector) = $1
			  AND lower(threat_actor) = $2
			  AND lower(name_identifier) = $3
			  AND timestamp = $4
		)`, collector, actor, name, ts,
	).Scan(&found)
	if err != nil {
		return false, perr.FromPostgres(err, "exact duplicate check")
	}
	return found, nil
}

func (s *pg) ExistsNameWindow(
	ctx context.Context,
	collector, actor, name string,
	from, to time.Time,
) (bool, error) {
	var found bool
	err := s.q.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM claims
			WHERE lower(collector) = $1
			  AND lower(threat_actor) = $2
			  AND lower(name_identifier) = $3
			  AND timestamp BETWEEN $4 AND $5
		)`, collector, actor, name, from, to,
	).Scan(&found)
	if err != nil {
		return false, perr.FromPostgres(err, "name window duplicate check")
	}
	return found, nil
}

func (s *pg) ExistsDomainWindow(
	ctx context.Context,
	collector, actor, domainNorm string,
	from, to time.Time,
) (bool, error) {
	var found bool
	err := s.q.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM claims
			WHERE lower(collector) = $1
			  AND lower(threat_actor) = $2
			  AND domain_norm = $3
			  AND timestamp BETWEEN $4 AND $5
		)`, collector, actor, domainNorm, from, to,
	).Scan(&found)
	if err != nil {
		return false, perr.FromPostgres(err, "domain window duplicate check")
	}
	return found, nil
}

func (s *pg) Insert(ctx context.Context, c domain.Claim, domainNorm string) (int64, error) {
	var id int64
	err := s.q.QueryRow(ctx, `
		INSERT INTO claims
			(collector, threat_actor, name_identifier, ip_identifier, domain_identifier,
			 domain_norm, sector, comment, raw_payload, timestamp, url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id`,
		c.Collector, c.ThreatActor, c.Name,
		pstrings.SQLNull(c.IP), pstrings.SQLNull(c.Domain),
		pstrings.SQLNull(domainNorm), pstrings.SQLNull(c.Sector),
		pstrings.SQLNull(c.Comment), c.RawPayload, c.Timestamp,
		pstrings.SQLNull(c.URL),
	).Scan(&id)
	if err != nil {
		return 0, perr.FromPostgres(err, "insert claim")
	}
	return id, nil
}

func (s *pg) Recent(ctx context.Context, limit int) ([]domain.Claim, error) {
	rows, err := s.q.Query(ctx, `
		SELECT id, collector, threat_actor, name_identifier,
		       COALESCE(ip_identifier, ''), COALESCE(domain_identifier, ''),
		       COALESCE(sector, ''), COALESCE(comment, ''),
		       raw_payload, timestamp, COALESCE(url, '')
		FROM claims
		ORDER BY timestamp DESC, id DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, perr.FromPostgres(err, "recent claims")
	}
	defer rows.Close()

	var out []domain.Claim
	for rows.Next() {
		var c domain.Claim
		if err := rows.Scan(
			&c.ID, &c.Collector, &c.ThreatActor, &c.Name,
			&c.IP, &c.Domain, &c.Sector, &c.Comment,
			&c.RawPayload, &c.Timestamp, &c.URL,
		); err != nil {
			return nil, perr.FromPostgres(err, "scan claim")
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *pg) ByID(ctx context.Context, id int64) (domain.Claim, error) {
	var c domain.Claim
	err := s.q.QueryRow(ctx, `
		SELECT id, collector, threat_actor, name_identifier,
		       COALESCE(ip_identifier, ''), COALESCE(domain_identifier, ''),
		       COALESCE(sector, ''), COALESCE(comment, ''),
		       raw_payload, timestamp, COALESCE(url, '')
		FROM claims
		WHERE id = $1`, id,
	).Scan(
		&c.ID, &c.Collector, &c.ThreatActor, &c.Name,
		&c.IP, &c.Domain, &c.Sector, &c.Comment,
		&c.RawPayload, &c.Timestamp, &c.URL,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Claim{}, perr.NotFoundf("claim %d", id)
		}
		return domain.Claim{}, perr.FromPostgresf(err, "claim %d", id)
	}
	return c, nil
}
