package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	aldomain "breachwatch/internal/services/alerts/domain"
	cldomain "breachwatch/internal/services/claims/domain"
	wldomain "breachwatch/internal/services/watchlist/domain"
)

// fakeWatch serves a fixed identifier set and can be told to fail
type fakeWatch struct {
	ids  []wldomain.Identifier
	fail bool
}

func (f *fakeWatch) AllIdentifiers(context.Context) ([]wldomain.Identifier, error) {
	if f.fail {
		return nil, errors.New("watchlist store unreachable")
	}
	return f.ids, nil
}

func (f *fakeWatch) ListClients(context.Context) ([]wldomain.Client, error) { return nil, nil }
func (f *fakeWatch) ListIdentifiers(context.Context, int64) ([]wldomain.Identifier, error) {
	return nil, nil
}

// fakeEmitter records alert writes and can fail on chosen identifiers
type fakeEmitter struct {
	alerts []aldomain.Alert
	failOn map[int64]bool
	nextID int64
}

func (f *fakeEmitter) Add(_ context.Context, identifierID int64, message string) (aldomain.Alert, error) {
	if f.failOn[identifierID] {
		return aldomain.Alert{}, errors.New("alert store down")
	}
	f.nextID++
	a := aldomain.Alert{ID: f.nextID, IdentifierID: identifierID, Message: message, CreatedAt: time.Now()}
	f.alerts = append(f.alerts, a)
	return a, nil
}

func ident(id int64, typ wldomain.IdentifierType, value string) wldomain.Identifier {
	return wldomain.Identifier{ID: id, ClientID: 1, Type: typ, Value: value}
}

func claim(name, ip, dom string) cldomain.Claim {
	return cldomain.Claim{
		Collector:   "ransomwatch",
		ThreatActor: "lockbit",
		Name:        name,
		IP:          ip,
		Domain:      dom,
		Timestamp:   time.Now(),
	}
}

func TestCheckMatch(t *testing.T) {
	watch := &fakeWatch{ids: []wldomain.Identifier{
		ident(1, wldomain.TypeDomain, "example.com"),
		ident(2, wldomain.TypeName, "Acme Corp"),
		ident(3, wldomain.TypeIP, "10.0.0"),
		ident(4, wldomain.TypeDomain, "www.target.org"),
	}}
	svc := New(watch, &fakeEmitter{}, Config{}, nil)

	tests := []struct {
		name string
		c    cldomain.Claim
		want []int64
	}{
		{name: "no match", c: claim("Globex", "", "other.net"), want: nil},
		{name: "exact domain", c: claim("", "", "example.com"), want: []int64{1}},
		{name: "www and scheme noise", c: claim("", "", "HTTPS://WWW.EXAMPLE.COM/"), want: []int64{1}},
		{name: "subdomain", c: claim("", "", "mail.example.com"), want: []int64{1}},
		{name: "bare of www entry", c: claim("", "", "target.org"), want: []int64{4}},
		{name: "name substring", c: claim("Acme Corp (USA)", "", ""), want: []int64{2}},
		{name: "ip substring", c: claim("", "10.0.0.5", ""), want: []int64{3}},
		{name: "two identifiers", c: claim("ACME CORP", "", "example.com"), want: []int64{1, 2}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := svc.CheckMatch(context.Background(), tc.c)
			if err != nil {
				t.Fatalf("CheckMatch: %v", err)
			}
			var ids []int64
			for _, m := range got {
				ids = append(ids, m.ID)
			}
			if len(ids) != len(tc.want) {
				t.Fatalf("matched %v, want %v", ids, tc.want)
			}
			for i := range ids {
				if ids[i] != tc.want[i] {
					t.Fatalf("matched %v, want %v", ids, tc.want)
				}
			}
		})
	}
}

func TestCheckMatch_StrictIP(t *testing.T) {
	watch := &fakeWatch{ids: []wldomain.Identifier{ident(1, wldomain.TypeIP, "10.0.0")}}
	svc := New(watch, &fakeEmitter{}, Config{StrictIP: true}, nil)

	got, err := svc.CheckMatch(context.Background(), claim("", "10.0.0.5", ""))
	if err != nil {
		t.Fatalf("CheckMatch: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("strict mode matched %v, want none", got)
	}

	got, err = svc.CheckMatch(context.Background(), claim("", "10.0.0", ""))
	if err != nil {
		t.Fatalf("CheckMatch: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("strict exact matched %v, want one", got)
	}
}

func TestRefresh_FailureKeepsSnapshot(t *testing.T) {
	watch := &fakeWatch{ids: []wldomain.Identifier{ident(1, wldomain.TypeDomain, "example.com")}}
	svc := New(watch, &fakeEmitter{}, Config{}, nil)

	if err := svc.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	watch.fail = true
	if err := svc.Refresh(context.Background()); err == nil {
		t.Fatal("Refresh should report the pull failure")
	}

	// previous snapshot still answers
	got, err := svc.CheckMatch(context.Background(), claim("", "", "example.com"))
	if err != nil {
		t.Fatalf("CheckMatch after failed refresh: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("matched %v, want previous snapshot hit", got)
	}
}

func TestRefresh_LazyFirstUse(t *testing.T) {
	watch := &fakeWatch{ids: []wldomain.Identifier{ident(1, wldomain.TypeName, "acme")}}
	svc := New(watch, &fakeEmitter{}, Config{}, nil)

	got, err := svc.CheckMatch(context.Background(), claim("acme inc", "", ""))
	if err != nil {
		t.Fatalf("CheckMatch: %v", err)
	}
	if len(got) != 1 {
		t.Fatal("lazy refresh did not populate the snapshot")
	}
}

func TestProcessClaim(t *testing.T) {
	t.Run("zero matches writes nothing", func(t *testing.T) {
		emit := &fakeEmitter{}
		watch := &fakeWatch{ids: []wldomain.Identifier{ident(1, wldomain.TypeDomain, "example.com")}}
		svc := New(watch, emit, Config{}, nil)

		out, err := svc.ProcessClaim(context.Background(), claim("Globex", "", "other.net"))
		if err != nil {
			t.Fatalf("ProcessClaim: %v", err)
		}
		if len(out) != 0 || len(emit.alerts) != 0 {
			t.Fatalf("alerts = %v, want none", emit.alerts)
		}
	})

	t.Run("two matches two alerts", func(t *testing.T) {
		emit := &fakeEmitter{}
		watch := &fakeWatch{ids: []wldomain.Identifier{
			ident(1, wldomain.TypeDomain, "example.com"),
			ident(2, wldomain.TypeName, "Acme"),
		}}
		svc := New(watch, emit, Config{}, nil)

		out, err := svc.ProcessClaim(context.Background(), claim("Acme Corp", "", "example.com"))
		if err != nil {
			t.Fatalf("ProcessClaim: %v", err)
		}
		if len(out) != 2 {
			t.Fatalf("alerts = %d, want 2", len(out))
		}
		if !strings.Contains(out[0].Message, "domain:example.com") {
			t.Fatalf("message %q missing type:value", out[0].Message)
		}
		if !strings.Contains(out[1].Message, "name:Acme") {
			t.Fatalf("message %q missing type:value", out[1].Message)
		}
		for _, a := range out {
			if !strings.Contains(a.Message, "ransomwatch reported Acme Corp from threat actor lockbit") {
				t.Fatalf("message %q missing attribution", a.Message)
			}
		}
	})

	t.Run("failed write skips match only", func(t *testing.T) {
		emit := &fakeEmitter{failOn: map[int64]bool{1: true}}
		watch := &fakeWatch{ids: []wldomain.Identifier{
			ident(1, wldomain.TypeDomain, "example.com"),
			ident(2, wldomain.TypeName, "Acme"),
		}}
		svc := New(watch, emit, Config{}, nil)

		out, err := svc.ProcessClaim(context.Background(), claim("Acme Corp", "", "example.com"))
		if err != nil {
			t.Fatalf("ProcessClaim: %v", err)
		}
		if len(out) != 1 || out[0].IdentifierID != 2 {
			t.Fatalf("alerts = %+v, want only identifier 2", out)
		}
	})

	t.Run("missing fields default to empty", func(t *testing.T) {
		emit := &fakeEmitter{}
		watch := &fakeWatch{ids: []wldomain.Identifier{ident(1, wldomain.TypeDomain, "example.com")}}
		svc := New(watch, emit, Config{}, nil)

		c := cldomain.Claim{Domain: "example.com", Timestamp: time.Now()}
		out, err := svc.ProcessClaim(context.Background(), c)
		if err != nil {
			t.Fatalf("ProcessClaim: %v", err)
		}
		if len(out) != 1 {
			t.Fatalf("alerts = %d, want 1", len(out))
		}
	})
}

// index-backed matching must agree with the per-identifier predicate
func TestCheckMatch_IndexAgreesWithPredicate(t *testing.T) {
	values := []string{
		"example.com", "www.example.com", "sub.example.com",
		"target.org", "a.b.deep.io", "www.corp.net",
	}
	var ids []wldomain.Identifier
	for i, v := range values {
		ids = append(ids, ident(int64(i+1), wldomain.TypeDomain, v))
	}
	watch := &fakeWatch{ids: ids}
	svc := New(watch, &fakeEmitter{}, Config{}, nil)

	probes := []string{
		"example.com", "www.example.com", "mail.example.com",
		"x.sub.example.com", "target.org", "www.target.org",
		"deep.io", "b.deep.io", "corp.net", "badexample.com",
		"other.dev", "HTTPS://WWW.EXAMPLE.COM/",
	}

	for _, p := range probes {
		got, err := svc.CheckMatch(context.Background(), claim("", "", p))
		if err != nil {
			t.Fatalf("CheckMatch(%q): %v", p, err)
		}
		gotSet := map[int64]bool{}
		for _, m := range got {
			gotSet[m.ID] = true
		}

		fields := wldomain.ClaimFields{Domain: strings.ToLower(p)}
		for _, id := range ids {
			want := id.Matches(fields, false)
			if gotSet[id.ID] != want {
				t.Fatalf("probe %q identifier %s: index says %v, predicate says %v",
					p, id.Value, gotSet[id.ID], want)
			}
		}
	}
}
