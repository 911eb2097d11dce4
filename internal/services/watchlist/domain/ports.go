package domain

import "context"

// ReaderPort reads clients and identifiers
type ReaderPort interface {
	ListClients(ctx context.Context) ([]Client, error)
	ListIdentifiers(ctx context.Context, clientID int64) ([]Identifier, error)
	AllIdentifiers(ctx context.Context) ([]Identifier, error)
}

// WriterPort mutates the watchlist. Every successful mutation of the
// identifier set invalidates the matcher snapshot before returning
type WriterPort interface {
	CreateClient(ctx context.Context, name string) (Client, error)
	DeleteClient(ctx context.Context, id int64) error
	AddIdentifier(ctx context.Context, clientID int64, typ IdentifierType, value string) (Identifier, error)
	RemoveIdentifier(ctx context.Context, id int64) error
}

// Invalidator is notified after identifier mutations so dependent
// caches rebuild. The matcher implements it
type Invalidator interface {
	Refresh(ctx context.Context) error
}
