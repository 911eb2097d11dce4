package service

import (
	"context"
	"testing"
	"time"

	"breachwatch/internal/modkit/repokit"
	perr "breachwatch/internal/platform/errors"
	"breachwatch/internal/platform/store"
	"breachwatch/internal/services/alerts/domain"
	"breachwatch/internal/services/alerts/repo"
)

type fakeDB struct{}

func (fakeDB) Exec(context.Context, string, ...any) (store.CommandTag, error) {
	panic("unused")
}
func (fakeDB) Query(context.Context, string, ...any) (store.Rows, error) { panic("unused") }
func (fakeDB) QueryRow(context.Context, string, ...any) store.Row        { panic("unused") }
func (fakeDB) Tx(ctx context.Context, fn func(q store.RowQuerier) error) error {
	return fn(fakeDB{})
}

type memStore struct {
	alerts []domain.Alert
	nextID int64
}

func (m *memStore) Insert(_ context.Context, identifierID int64, message string) (domain.Alert, error) {
	m.nextID++
	a := domain.Alert{ID: m.nextID, IdentifierID: identifierID, Message: message, CreatedAt: time.Now()}
	m.alerts = append(m.alerts, a)
	return a, nil
}

func (m *memStore) Recent(_ context.Context, limit int) ([]domain.Alert, error) {
	out := make([]domain.Alert, 0, limit)
	for i := len(m.alerts) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.alerts[i])
	}
	return out, nil
}

func (m *memStore) ByIdentifier(_ context.Context, identifierID int64) ([]domain.Alert, error) {
	var out []domain.Alert
	for _, a := range m.alerts {
		if a.IdentifierID == identifierID {
			out = append(out, a)
		}
	}
	return out, nil
}

func newService(ms *memStore) *Service {
	binder := repokit.BindFunc[repo.Storage](func(repokit.Queryer) repo.Storage { return ms })
	return New(fakeDB{}, binder, nil)
}

func TestAdd(t *testing.T) {
	ctx := context.Background()
	ms := &memStore{}
	svc := newService(ms)

	a, err := svc.Add(ctx, 7, "ransomwatch reported Acme Corp")
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if a.ID == 0 || a.IdentifierID != 7 {
		t.Fatalf("Add = %+v", a)
	}

	if _, err := svc.Add(ctx, 0, "msg"); !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
		t.Fatalf("err = %v, want invalid argument", err)
	}
	if _, err := svc.Add(ctx, 7, "   "); !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
		t.Fatalf("err = %v, want invalid argument", err)
	}
}

func TestQueries(t *testing.T) {
	ctx := context.Background()
	ms := &memStore{}
	svc := newService(ms)

	for i := 0; i < 3; i++ {
		if _, err := svc.Add(ctx, int64(i%2+1), "match"); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}

	recent, err := svc.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(recent) != 2 || recent[0].ID != 3 {
		t.Fatalf("Recent = %+v", recent)
	}

	byID, err := svc.ByIdentifier(ctx, 1)
	if err != nil {
		t.Fatalf("ByIdentifier: %v", err)
	}
	if len(byID) != 2 {
		t.Fatalf("ByIdentifier = %+v", byID)
	}
}
