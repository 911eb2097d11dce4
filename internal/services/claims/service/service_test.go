package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"breachwatch/internal/core/domains"
	"breachwatch/internal/modkit/repokit"
	perr "breachwatch/internal/platform/errors"
	"breachwatch/internal/platform/store"
	"breachwatch/internal/services/claims/domain"
	"breachwatch/internal/services/claims/repo"
)

// fakeDB satisfies repokit.TxRunner; only Tx is exercised
type fakeDB struct{}

func (fakeDB) Exec(context.Context, string, ...any) (store.CommandTag, error) {
	panic("unused")
}
func (fakeDB) Query(context.Context, string, ...any) (store.Rows, error) { panic("unused") }
func (fakeDB) QueryRow(context.Context, string, ...any) store.Row        { panic("unused") }
func (fakeDB) Tx(ctx context.Context, fn func(q store.RowQuerier) error) error {
	return fn(fakeDB{})
}

type storedClaim struct {
	collector, actor, name, domainNorm string
	ts                                 time.Time
}

// memStore is an in-memory repo.Storage mirroring the sql predicates
type memStore struct {
	rows   []storedClaim
	nextID int64
}

func (m *memStore) ExistsExact(_ context.Context, collector, actor, name string, ts time.Time) (bool, error) {
	for _, r := range m.rows {
		if r.collector == collector && r.actor == actor && r.name == name && r.ts.Equal(ts) {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) ExistsNameWindow(_ context.Context, collector, actor, name string, from, to time.Time) (bool, error) {
	for _, r := range m.rows {
		if r.collector == collector && r.actor == actor && r.name == name &&
			!r.ts.Before(from) && !r.ts.After(to) {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) ExistsDomainWindow(_ context.Context, collector, actor, domainNorm string, from, to time.Time) (bool, error) {
	for _, r := range m.rows {
		if r.collector == collector && r.actor == actor && r.domainNorm == domainNorm &&
			r.domainNorm != "" && !r.ts.Before(from) && !r.ts.After(to) {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) Insert(_ context.Context, c domain.Claim, domainNorm string) (int64, error) {
	m.nextID++
	m.rows = append(m.rows, storedClaim{
		collector:  strings.ToLower(c.Collector),
		actor:      strings.ToLower(c.ThreatActor),
		name:       strings.ToLower(c.Name),
		domainNorm: domainNorm,
		ts:         c.Timestamp,
	})
	return m.nextID, nil
}

func (m *memStore) Recent(context.Context, int) ([]domain.Claim, error) { return nil, nil }
func (m *memStore) ByID(context.Context, int64) (domain.Claim, error) {
	return domain.Claim{}, nil
}

func newService(ms *memStore) *Service {
	binder := repokit.BindFunc[repo.Storage](func(repokit.Queryer) repo.Storage { return ms })
	return New(fakeDB{}, binder, nil)
}

func baseClaim(ts time.Time) domain.Claim {
	return domain.Claim{
		Collector:   "ransomwatch",
		ThreatActor: "lockbit",
		Name:        "Acme Corp",
		Timestamp:   ts,
	}
}

func TestAdmit_Validation(t *testing.T) {
	svc := newService(&memStore{})
	ts := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		mutate func(*domain.Claim)
	}{
		{name: "missing collector", mutate: func(c *domain.Claim) { c.Collector = "  " }},
		{name: "missing actor", mutate: func(c *domain.Claim) { c.ThreatActor = "" }},
		{name: "missing name", mutate: func(c *domain.Claim) { c.Name = "" }},
		{name: "missing timestamp", mutate: func(c *domain.Claim) { c.Timestamp = time.Time{} }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := baseClaim(ts)
			tc.mutate(&c)
			res := svc.Admit(context.Background(), c)
			if res.Status != domain.StatusInvalid {
				t.Fatalf("status = %s, want invalid", res.Status)
			}
			if res.Err == nil {
				t.Fatal("invalid result must carry an error")
			}
		})
	}
}

func TestAdmit_DuplicateTiers(t *testing.T) {
	ts := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	t.Run("exact timestamp", func(t *testing.T) {
		svc := newService(&memStore{})
		first := svc.Admit(context.Background(), baseClaim(ts))
		if first.Status != domain.StatusAdmitted || first.ID == 0 {
			t.Fatalf("first admit = %+v", first)
		}

		second := svc.Admit(context.Background(), baseClaim(ts))
		if second.Status != domain.StatusDuplicate {
			t.Fatalf("status = %s, want duplicate", second.Status)
		}
	})

	t.Run("case differences still collide", func(t *testing.T) {
		svc := newService(&memStore{})
		svc.Admit(context.Background(), baseClaim(ts))

		c := baseClaim(ts)
		c.Collector = "RansomWatch"
		c.ThreatActor = "LOCKBIT"
		c.Name = "ACME CORP"
		if res := svc.Admit(context.Background(), c); res.Status != domain.StatusDuplicate {
			t.Fatalf("status = %s, want duplicate", res.Status)
		}
	})

	t.Run("name within one hour", func(t *testing.T) {
		svc := newService(&memStore{})
		svc.Admit(context.Background(), baseClaim(ts))

		if res := svc.Admit(context.Background(), baseClaim(ts.Add(10*time.Minute))); res.Status != domain.StatusDuplicate {
			t.Fatalf("status = %s, want duplicate", res.Status)
		}
	})

	t.Run("two hours apart no shared domain", func(t *testing.T) {
		svc := newService(&memStore{})
		svc.Admit(context.Background(), baseClaim(ts))

		if res := svc.Admit(context.Background(), baseClaim(ts.Add(2*time.Hour))); res.Status != domain.StatusAdmitted {
			t.Fatalf("status = %s, want admitted", res.Status)
		}
	})

	t.Run("two hours apart shared domain", func(t *testing.T) {
		svc := newService(&memStore{})
		first := baseClaim(ts)
		first.Domain = "acme.com"
		svc.Admit(context.Background(), first)

		second := baseClaim(ts.Add(2 * time.Hour))
		second.Domain = "HTTPS://ACME.COM/"
		if res := svc.Admit(context.Background(), second); res.Status != domain.StatusDuplicate {
			t.Fatalf("status = %s, want duplicate", res.Status)
		}
		if got := domains.Normalize(second.Domain); got != "acme.com" {
			t.Fatalf("Normalize = %q", got)
		}
	})

	t.Run("beyond one day no duplicate", func(t *testing.T) {
		svc := newService(&memStore{})
		first := baseClaim(ts)
		first.Domain = "acme.com"
		svc.Admit(context.Background(), first)

		second := baseClaim(ts.Add(25 * time.Hour))
		second.Domain = "acme.com"
		if res := svc.Admit(context.Background(), second); res.Status != domain.StatusAdmitted {
			t.Fatalf("status = %s, want admitted", res.Status)
		}
	})
}

// failingStore errors on insert so admission cannot reach an outcome
type failingStore struct{ memStore }

func (f *failingStore) Insert(context.Context, domain.Claim, string) (int64, error) {
	return 0, errors.New("connection reset")
}

func TestAdmit_StorageFailure(t *testing.T) {
	fs := &failingStore{}
	binder := repokit.BindFunc[repo.Storage](func(repokit.Queryer) repo.Storage { return fs })
	svc := New(fakeDB{}, binder, nil)

	res := svc.Admit(context.Background(), baseClaim(time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)))
	if res.Status != domain.StatusFailed {
		t.Fatalf("status = %s, want failed, not invalid", res.Status)
	}
	if !perr.IsCode(res.Err, perr.ErrorCodeDB) {
		t.Fatalf("err = %v, want db code", res.Err)
	}
}

func TestBulkAdmit_IndexAligned(t *testing.T) {
	ts := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	ms := &memStore{}
	svc := newService(ms)

	// pre-existing history
	svc.Admit(context.Background(), baseClaim(ts))

	other := baseClaim(ts)
	other.Name = "Globex"
	invalid := baseClaim(ts)
	invalid.Collector = ""

	batch := []domain.Claim{
		baseClaim(ts), // duplicate of history
		other,         // fresh
		invalid,       // validation reject
	}

	res := svc.BulkAdmit(context.Background(), batch)
	if len(res) != len(batch) {
		t.Fatalf("len(res) = %d, want %d", len(res), len(batch))
	}
	if res[0].Status != domain.StatusDuplicate {
		t.Fatalf("res[0] = %+v, want duplicate", res[0])
	}
	if res[1].Status != domain.StatusAdmitted || res[1].ID == 0 {
		t.Fatalf("res[1] = %+v, want admitted", res[1])
	}
	if res[2].Status != domain.StatusInvalid {
		t.Fatalf("res[2] = %+v, want invalid", res[2])
	}
}

func TestBulkAdmit_IntraBatchSuppression(t *testing.T) {
	ts := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	svc := newService(&memStore{})

	batch := []domain.Claim{baseClaim(ts), baseClaim(ts.Add(5 * time.Minute))}
	res := svc.BulkAdmit(context.Background(), batch)

	if res[0].Status != domain.StatusAdmitted {
		t.Fatalf("res[0] = %+v, want admitted", res[0])
	}
	if res[1].Status != domain.StatusDuplicate {
		t.Fatalf("res[1] = %+v, want duplicate of batch sibling", res[1])
	}
}
