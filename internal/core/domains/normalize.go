// Package domains provides domain canonicalization and the match rules
// used to compare claim domains against watchlist domains
// Matching rules in order
// 1 Exact match after normalization
// 2 WWW equivalence in either direction
// 3 Dot-bounded subdomain relationship at any depth
package domains

import "strings"

// Normalize reduces a domain to its canonical comparison form:
// whitespace trimmed, lowercased, scheme stripped, trailing slashes
// stripped. Lowercasing runs before the scheme strip so an uppercase
// scheme cannot survive into the result.
// Idempotent; empty or absent input normalizes to ""
func Normalize(domain string) string {
	domain = strings.ToLower(strings.TrimSpace(domain))
	domain = strings.TrimPrefix(domain, "http://")
	domain = strings.TrimPrefix(domain, "https://")
	return strings.TrimRight(domain, "/")
}

// Match reports whether two domains refer to the same watch target.
// Symmetric; an empty normalized side never matches
func Match(a, b string) bool {
	an := Normalize(a)
	bn := Normalize(b)
	if an == "" || bn == "" {
		return false
	}
	if an == bn {
		return true
	}
	if strings.HasPrefix(an, "www.") && an[4:] == bn {
		return true
	}
	if strings.HasPrefix(bn, "www.") && bn[4:] == an {
		return true
	}
	// dot-bounded suffix so badexample.com never matches example.com
	return strings.HasSuffix(an, "."+bn) || strings.HasSuffix(bn, "."+an)
}

// IsSubdomainOf reports whether sub sits strictly below parent
func IsSubdomainOf(sub, parent string) bool {
	sn := Normalize(sub)
	pn := Normalize(parent)
	if sn == "" || pn == "" {
		return false
	}
	if len(pn) >= len(sn) || !strings.HasSuffix(sn, pn) {
		return false
	}
	return sn[len(sn)-len(pn)-1] == '.'
}
