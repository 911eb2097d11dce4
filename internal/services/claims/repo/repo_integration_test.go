//go:build integration_pg
// +build integration_pg

package repo

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"breachwatch/internal/modkit/repokit"
	"breachwatch/internal/platform/store"
	"breachwatch/internal/services/claims/domain"

	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func startPostgres(t *testing.T) (dsn string, stop func()) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)

	req := tc.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "postgres",
			"POSTGRES_PASSWORD": "postgres",
			"POSTGRES_DB":       "postgres",
		},
		WaitingFor: wait.ForAll(
			wait.ForListeningPort("5432/tcp"),
			wait.ForLog("database system is ready to accept connections"),
		).WithDeadline(2 * time.Minute),
	}
	c, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		cancel()
		t.Fatalf("failed to start postgres container: %v", err)
	}

	host, err := c.Host(ctx)
	if err != nil {
		_ = c.Terminate(context.Background())
		cancel()
		t.Fatalf("failed to get container host: %v", err)
	}
	mapped, err := c.MappedPort(ctx, "5432/tcp")
	if err != nil {
		_ = c.Terminate(context.Background())
		cancel()
		t.Fatalf("failed to get mapped port: %v", err)
	}

	dsn = fmt.Sprintf("postgres://postgres:postgres@%s:%s/postgres?sslmode=disable", host, mapped.Port())
	stop = func() {
		_ = c.Terminate(context.Background())
		cancel()
	}
	return dsn, stop
}

func openStore(t *testing.T, ctx context.Context, dsn string) *store.Store {
	t.Helper()

	st, err := store.Open(ctx, store.Config{
		PG: store.PGConfig{Enabled: true, URL: dsn, MaxConns: 2},
	})
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}

	schema, err := os.ReadFile(filepath.Join("..", "..", "..", "..", "migrations", "0001_init.sql"))
	if err != nil {
		t.Fatalf("read schema: %v", err)
	}
	// pgx extended protocol takes one statement per Exec
	for _, stmt := range strings.Split(string(schema), ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := st.PG.Exec(ctx, stmt); err != nil {
			t.Fatalf("apply schema: %v\n%s", err, stmt)
		}
	}
	return st
}

func TestClaimsRepo_Integration(t *testing.T) {
	dsn, stop := startPostgres(t)
	defer stop()

	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	st := openStore(t, ctx, dsn)
	defer st.Close(ctx)

	storage := repokit.MustBind(NewPG(), st.PG)
	ts := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	c := domain.Claim{
		Collector:   "ransomwatch",
		ThreatActor: "LockBit",
		Name:        "Acme Corp",
		Domain:      "https://Acme.com/",
		RawPayload:  `{"post_title": "Acme Corp"}`,
		Timestamp:   ts,
	}

	id, err := storage.Insert(ctx, c, "acme.com")
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if id == 0 {
		t.Fatal("Insert returned zero id")
	}

	t.Run("exact tier", func(t *testing.T) {
		found, err := storage.ExistsExact(ctx, "ransomwatch", "lockbit", "acme corp", ts)
		if err != nil {
			t.Fatalf("ExistsExact: %v", err)
		}
		if !found {
			t.Fatal("exact tier should hit lowercased fields")
		}

		found, err = storage.ExistsExact(ctx, "ransomwatch", "lockbit", "acme corp", ts.Add(time.Second))
		if err != nil {
			t.Fatalf("ExistsExact: %v", err)
		}
		if found {
			t.Fatal("exact tier requires identical timestamp")
		}
	})

	t.Run("name window tier", func(t *testing.T) {
		found, err := storage.ExistsNameWindow(ctx, "ransomwatch", "lockbit", "acme corp",
			ts.Add(-time.Hour), ts.Add(time.Hour))
		if err != nil {
			t.Fatalf("ExistsNameWindow: %v", err)
		}
		if !found {
			t.Fatal("name window should hit")
		}

		found, err = storage.ExistsNameWindow(ctx, "ransomwatch", "lockbit", "acme corp",
			ts.Add(time.Hour), ts.Add(2*time.Hour))
		if err != nil {
			t.Fatalf("ExistsNameWindow: %v", err)
		}
		if found {
			t.Fatal("name window outside range should miss")
		}
	})

	t.Run("domain window tier", func(t *testing.T) {
		found, err := storage.ExistsDomainWindow(ctx, "ransomwatch", "lockbit", "acme.com",
			ts.Add(-24*time.Hour), ts.Add(24*time.Hour))
		if err != nil {
			t.Fatalf("ExistsDomainWindow: %v", err)
		}
		if !found {
			t.Fatal("domain window should hit the normalized domain")
		}
	})

	t.Run("reads", func(t *testing.T) {
		got, err := storage.ByID(ctx, id)
		if err != nil {
			t.Fatalf("ByID: %v", err)
		}
		if got.Name != "Acme Corp" || !got.Timestamp.Equal(ts) {
			t.Fatalf("ByID = %+v", got)
		}

		if _, err := storage.ByID(ctx, id+999); err == nil {
			t.Fatal("ByID on missing row should fail")
		}

		recent, err := storage.Recent(ctx, 10)
		if err != nil {
			t.Fatalf("Recent: %v", err)
		}
		if len(recent) != 1 || recent[0].ID != id {
			t.Fatalf("Recent = %+v", recent)
		}
	})
}
