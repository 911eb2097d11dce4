package domains

import "strings"

// Entry pairs a watchlist domain as entered with caller metadata
type Entry struct {
	Original string
	Meta     any
}

// Index is a prebuilt lookup over watchlist domains so per-claim matching
// avoids a linear scan. Build fresh and swap whole on watchlist changes;
// never mutate a published Index
type Index struct {
	// exact keys normalized domains
	exact map[string][]Entry
	// wwwVariant keys the no-www form for both the www and bare spellings
	wwwVariant map[string][]Entry
	// parent keys every proper ancestor suffix of a domain with more than
	// two labels, enabling reverse subdomain lookups at any depth
	parent map[string][]Entry
}

// NewIndex returns an empty Index
func NewIndex() *Index {
	return &Index{
		exact:      make(map[string][]Entry),
		wwwVariant: make(map[string][]Entry),
		parent:     make(map[string][]Entry),
	}
}

// Len returns the number of exact keys, used for sizing diagnostics
func (ix *Index) Len() int { return len(ix.exact) }

// Add inserts a watchlist domain with its metadata into each relevant map
func (ix *Index) Add(original string, meta any) {
	normalized := Normalize(original)
	if normalized == "" {
		return
	}
	e := Entry{Original: original, Meta: meta}

	ix.exact[normalized] = append(ix.exact[normalized], e)

	if strings.HasPrefix(normalized, "www.") && len(normalized) > 4 {
		noWWW := normalized[4:]
		ix.wwwVariant[noWWW] = append(ix.wwwVariant[noWWW], e)
	} else {
		ix.wwwVariant[normalized] = append(ix.wwwVariant[normalized], e)
	}

	if parts := strings.Split(normalized, "."); len(parts) > 2 {
		for i := 1; i < len(parts)-1; i++ {
			p := strings.Join(parts[i:], ".")
			ix.parent[p] = append(ix.parent[p], e)
		}
	}
}

// Find returns every indexed entry matching test under the package match
// rules. The result may contain the same identifier more than once when it
// matches through several maps; callers needing a set dedupe by identifier id
func (ix *Index) Find(test string) []Entry {
	normalized := Normalize(test)
	if normalized == "" {
		return nil
	}

	var matches []Entry

	matches = append(matches, ix.exact[normalized]...)

	if strings.HasPrefix(normalized, "www.") && len(normalized) > 4 {
		matches = append(matches, ix.exact[normalized[4:]]...)
	} else {
		matches = append(matches, ix.wwwVariant[normalized]...)
	}

	// test may be a subdomain of a watchlist domain: walk every suffix
	parts := strings.Split(normalized, ".")
	for i := 1; i < len(parts); i++ {
		matches = append(matches, ix.exact[strings.Join(parts[i:], ".")]...)
	}

	// or a watchlist domain may sit below test
	matches = append(matches, ix.parent[normalized]...)

	return matches
}
