package domain

import "context"

// AdmitterPort runs the validate, dedup, insert pipeline
type AdmitterPort interface {
	Admit(ctx context.Context, c Claim) AdmitResult
	BulkAdmit(ctx context.Context, cs []Claim) []AdmitResult
}

// QueryPort reads stored claims
type QueryPort interface {
	Recent(ctx context.Context, limit int) ([]Claim, error)
	ByID(ctx context.Context, id int64) (Claim, error)
}
