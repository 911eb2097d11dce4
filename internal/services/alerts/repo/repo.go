// Package repo provides the alerts repository implementation
package repo

import (
	"context"

	"breachwatch/internal/modkit/repokit"
	perr "breachwatch/internal/platform/errors"
	"breachwatch/internal/services/alerts/domain"
)

type (
	pg     struct{ q repokit.Queryer }
	binder struct{}
)

// NewPG constructs a new repo binder for Postgres
func NewPG() repokit.Binder[Storage] { return binder{} }

// Bind implements repokit.Binder
func (binder) Bind(q repokit.Queryer) Storage { return &pg{q: q} }

// Storage defines the alerts repository
type Storage interface {
	Insert(ctx context.Context, identifierID int64, message string) (domain.Alert, error)
	Recent(ctx context.Context, limit int) ([]domain.Alert, error)
	ByIdentifier(ctx context.Context, identifierID int64) ([]domain.Alert, error)
}

func (s *pg) Insert(ctx context.Context, identifierID int64, message string) (domain.Alert, error) {
	var a domain.Alert
	err := s.q.QueryRow(ctx, `
		INSERT INTO alerts (identifier_id, message)
		VALUES ($1, $2)
		RETURNING id, identifier_id, message, created_at`,
		identifierID, message,
	).Scan(&a.ID, &a.IdentifierID, &a.Message, &a.CreatedAt)
	if err != nil {
		return domain.Alert{}, perr.FromPostgresf(err, "insert alert for identifier %d", identifierID)
	}
	return a, nil
}

func (s *pg) Recent(ctx context.Context, limit int) ([]domain.Alert, error) {
	rows, err := s.q.Query(ctx, `
		SELECT id, identifier_id, message, created_at
		FROM alerts
		ORDER BY created_at DESC, id DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, perr.FromPostgres(err, "recent alerts")
	}
	defer rows.Close()
	return scan(rows)
}

func (s *pg) ByIdentifier(ctx context.Context, identifierID int64) ([]domain.Alert, error) {
	rows, err := s.q.Query(ctx, `
		SELECT id, identifier_id, message, created_at
		FROM alerts
		WHERE identifier_id = $1
		ORDER BY created_at DESC, id DESC`, identifierID)
	if err != nil {
		return nil, perr.FromPostgresf(err, "alerts for identifier %d", identifierID)
	}
	defer rows.Close()
	return scan(rows)
}

func scan(rows interface {
	Next() bool
	Scan(...any) error
	Err() error
}) ([]domain.Alert, error) {
	var out []domain.Alert
	for rows.Next() {
		var a domain.Alert
		if err := rows.Scan(&a.ID, &a.IdentifierID, &a.Message, &a.CreatedAt); err != nil {
			return nil, perr.FromPostgres(err, "scan alert")
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
