package domains

import (
	"math/rand"
	"sort"
	"testing"
)

func ids(entries []Entry) []int {
	seen := map[int]bool{}
	var out []int
	for _, e := range entries {
		id := e.Meta.(int)
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	sort.Ints(out)
	return out
}

func equalIDs(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestIndex_Find(t *testing.T) {
	ix := NewIndex()
	watch := []string{
		"example.com",      // 0
		"www.target.org",   // 1
		"sub.example.com",  // 2
		"https://Corp.NET", // 3
		"a.b.deep.io",      // 4
	}
	for i, d := range watch {
		ix.Add(d, i)
	}

	tests := []struct {
		name string
		test string
		want []int
	}{
		{name: "exact", test: "example.com", want: []int{0}},
		{name: "www of bare", test: "www.example.com", want: []int{0}},
		{name: "bare of www", test: "target.org", want: []int{1}},
		{name: "subdomain hits parent and exact", test: "sub.example.com", want: []int{0, 2}},
		{name: "deep subdomain", test: "x.y.example.com", want: []int{0}},
		{name: "parent hits child", test: "example.com/", want: []int{0, 2}},
		{name: "normalized watch entry", test: "corp.net", want: []int{3}},
		{name: "ancestor at depth two", test: "deep.io", want: []int{4}},
		{name: "substring is no match", test: "badexample.com", want: nil},
		{name: "miss", test: "nothing.dev", want: nil},
		{name: "empty", test: "", want: nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := ids(ix.Find(tc.test))
			if !equalIDs(got, tc.want) {
				t.Fatalf("Find(%q) ids = %v, want %v", tc.test, got, tc.want)
			}
		})
	}

	if ix.Len() == 0 {
		t.Fatal("Len() = 0 after adds")
	}
}

// TestIndex_MatchesBruteForce feeds randomized domains through both the
// index and the pairwise rule and requires identical identifier sets
func TestIndex_MatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	labels := []string{"www", "mail", "app", "sub", "a", "b", "example", "target", "corp"}
	tlds := []string{"com", "org", "net", "io"}

	randomDomain := func() string {
		n := 1 + rng.Intn(3)
		d := ""
		for i := 0; i < n; i++ {
			d += labels[rng.Intn(len(labels))] + "."
		}
		return d + tlds[rng.Intn(len(tlds))]
	}

	for round := 0; round < 50; round++ {
		watch := make([]string, 8)
		ix := NewIndex()
		for i := range watch {
			watch[i] = randomDomain()
			ix.Add(watch[i], i)
		}

		for probe := 0; probe < 40; probe++ {
			test := randomDomain()

			var brute []int
			for i, w := range watch {
				if Match(test, w) {
					brute = append(brute, i)
				}
			}
			sort.Ints(brute)

			got := ids(ix.Find(test))
			if !equalIDs(got, brute) {
				t.Fatalf("round %d: Find(%q) over %v = %v, brute force = %v",
					round, test, watch, got, brute)
			}
		}
	}
}

func TestIndex_DuplicateWatchEntries(t *testing.T) {
	ix := NewIndex()
	ix.Add("example.com", 1)
	ix.Add("EXAMPLE.COM/", 2)

	got := ids(ix.Find("www.example.com"))
	want := []int{1, 2}
	if !equalIDs(got, want) {
		t.Fatalf("Find ids = %v, want %v", got, want)
	}
}
