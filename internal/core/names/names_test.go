package names

import "testing"

func TestFold_Table(t *testing.T) {
	tests := []struct {
		name string
		in   string
		out  string
	}{
		{name: "identity", in: "acme corp", out: "acme corp"},
		{name: "case fold", in: "Acme Corp", out: "acme corp"},
		{name: "whitespace collapse", in: "  Acme \t Corp \n", out: "acme corp"},
		{name: "fullwidth", in: "ＡＣＭＥ", out: "acme"},
		{name: "combining marks", in: "Société", out: "societe"},
		{name: "zero width", in: "Ac​me", out: "acme"},
		{name: "invalid utf8 dropped", in: string([]byte{0xff, 'a', 'c', 'm', 'e'}), out: "acme"},
		{name: "empty", in: "", out: ""},
		{name: "idempotent", in: Fold("Ａcme​  Corp"), out: "acme corp"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Fold(tc.in); got != tc.out {
				t.Fatalf("Fold(%q) = %q, want %q", tc.in, got, tc.out)
			}
		})
	}
}

func TestEqual(t *testing.T) {
	if !Equal("Acme  Corp", "acme corp") {
		t.Fatal("Equal should fold both sides")
	}
	if Equal("acme", "acme corp") {
		t.Fatal("Equal must be exact after folding")
	}
}

func TestContains(t *testing.T) {
	tests := []struct {
		name     string
		haystack string
		needle   string
		want     bool
	}{
		{name: "exact", haystack: "Acme Corp", needle: "acme corp", want: true},
		{name: "suffix noise", haystack: "Acme Corp (USA)", needle: "acme corp", want: true},
		{name: "needle longer", haystack: "acme", needle: "acme corp", want: false},
		{name: "empty needle", haystack: "acme", needle: "", want: false},
		{name: "empty haystack", haystack: "", needle: "acme", want: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Contains(tc.haystack, tc.needle); got != tc.want {
				t.Fatalf("Contains(%q, %q) = %v, want %v", tc.haystack, tc.needle, got, tc.want)
			}
		})
	}
}
