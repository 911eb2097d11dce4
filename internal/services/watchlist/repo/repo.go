// Package repo provides the watchlist repository implementation
package repo

import (
	"context"

	"breachwatch/internal/modkit/repokit"
	perr "breachwatch/internal/platform/errors"
	"breachwatch/internal/services/watchlist/domain"
)

type (
	pg     struct{ q repokit.Queryer }
	binder struct{}
)

// NewPG constructs a new repo binder for Postgres
func NewPG() repokit.Binder[Storage] { return binder{} }

// Bind implements repokit.Binder
func (binder) Bind(q repokit.Queryer) Storage { return &pg{q: q} }

// Storage defines the watchlist repository
type Storage interface {
	InsertClient(ctx context.Context, name string) (domain.Client, error)
	DeleteClient(ctx context.Context, id int64) error
	ListClients(ctx context.Context) ([]domain.Client, error)
	InsertIdentifier(ctx context.Context, clientID int64, typ domain.IdentifierType, value string) (domain.Identifier, error)
	DeleteIdentifier(ctx context.Context, id int64) error
	ListIdentifiers(ctx context.Context, clientID int64) ([]domain.Identifier, error)
	AllIdentifiers(ctx context.Context) ([]domain.Identifier, error)
}

func (s *pg) InsertClient(ctx context.Context, name string) (domain.Client, error) {
	var c domain.Client
	err := s.q.QueryRow(ctx, `
		INSERT INTO clients (name)
		VALUES ($1)
		RETURNING id, name, created_at`, name,
	).Scan(&c.ID, &c.Name, &c.CreatedAt)
	if err != nil {
		return domain.Client{}, perr.FromPostgresf(err, "insert client %q", name)
	}
	return c, nil
}

func (s *pg) DeleteClient(ctx context.Context, id int64) error {
	tag, err := s.q.Exec(ctx, `DELETE FROM clients WHERE id = $1`, id)
	if err != nil {
		return perr.FromPostgresf(err, "delete client %d", id)
	}
	if tag.RowsAffected() == 0 {
		return perr.NotFoundf("client %d", id)
	}
	return nil
}

func (s *pg) ListClients(ctx context.Context) ([]domain.Client, error) {
	rows, err := s.q.Query(ctx, `
		SELECT id, name, created_at
		FROM clients
		ORDER BY id`)
	if err != nil {
		return nil, perr.FromPostgres(err, "list clients")
	}
	defer rows.Close()

	var out []domain.Client
	for rows.Next() {
		var c domain.Client
		if err := rows.Scan(&c.ID, &c.Name, &c.CreatedAt); err != nil {
			return nil, perr.FromPostgres(err, "scan client")
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *pg) InsertIdentifier(
	ctx context.Context,
	clientID int64,
	typ domain.IdentifierType,
	value string,
) (domain.Identifier, error) {
	var ident domain.Identifier
	err := s.q.QueryRow(ctx, `
		INSERT INTO identifiers (client_id, type, value)
		VALUES ($1, $2, $3)
		RETURNING id, client_id, type, value, created_at`,
		clientID, string(typ), value,
	).Scan(&ident.ID, &ident.ClientID, &ident.Type, &ident.Value, &ident.CreatedAt)
	if err != nil {
		return domain.Identifier{}, perr.FromPostgresf(err, "insert identifier %s:%s", typ, value)
	}
	return ident, nil
}

func (s *pg) DeleteIdentifier(ctx context.Context, id int64) error {
	tag, err := s.q.Exec(ctx, `DELETE FROM identifiers WHERE id = $1`, id)
	if err != nil {
		return perr.FromPostgresf(err, "delete identifier %d", id)
	}
	if tag.RowsAffected() == 0 {
		return perr.NotFoundf("identifier %d", id)
	}
	return nil
}

func (s *pg) ListIdentifiers(ctx context.Context, clientID int64) ([]domain.Identifier, error) {
	rows, err := s.q.Query(ctx, `
		SELECT id, client_id, type, value, created_at
		FROM identifiers
		WHERE client_id = $1
		ORDER BY id`, clientID)
	if err != nil {
		return nil, perr.FromPostgresf(err, "list identifiers for client %d", clientID)
	}
	defer rows.Close()
	return scanIdentifiers(rows)
}

func (s *pg) AllIdentifiers(ctx context.Context) ([]domain.Identifier, error) {
	rows, err := s.q.Query(ctx, `
		SELECT id, client_id, type, value, created_at
		FROM identifiers
		ORDER BY id`)
	if err != nil {
		return nil, perr.FromPostgres(err, "list all identifiers")
	}
	defer rows.Close()
	return scanIdentifiers(rows)
}

func scanIdentifiers(rows interface {
	Next() bool
	Scan(...any) error
	Err() error
}) ([]domain.Identifier, error) {
	var out []domain.Identifier
	for rows.Next() {
		var ident domain.Identifier
		if err := rows.Scan(&ident.ID, &ident.ClientID, &ident.Type, &ident.Value, &ident.CreatedAt); err != nil {
			return nil, perr.FromPostgres(err, "scan identifier")
		}
		out = append(out, ident)
	}
	return out, rows.Err()
}
