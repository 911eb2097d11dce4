// Package domain holds the watchlist types and ports
package domain

import (
	"strings"
	"time"

	"breachwatch/internal/core/domains"
	"breachwatch/internal/core/names"
	perr "breachwatch/internal/platform/errors"
)

// IdentifierType is the closed set of watchable identifier kinds
type IdentifierType string

const (
	// TypeName watches an organization or victim name
	TypeName IdentifierType = "name"
	// TypeIP watches an IP address or prefix
	TypeIP IdentifierType = "ip"
	// TypeDomain watches a domain and its subdomains
	TypeDomain IdentifierType = "domain"
)

// ParseIdentifierType validates a wire value against the closed set
func ParseIdentifierType(s string) (IdentifierType, error) {
	switch t := IdentifierType(strings.ToLower(strings.TrimSpace(s))); t {
	case TypeName, TypeIP, TypeDomain:
		return t, nil
	default:
		return "", perr.Validationf("unknown identifier type %q", s)
	}
}

// Valid reports whether t is one of the closed variants
func (t IdentifierType) Valid() bool {
	switch t {
	case TypeName, TypeIP, TypeDomain:
		return true
	}
	return false
}

// Client groups identifiers under one monitored organization
type Client struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Identifier is one watched value owned by a client
type Identifier struct {
	ID        int64          `json:"id"`
	ClientID  int64          `json:"client_id"`
	Type      IdentifierType `json:"type"`
	Value     string         `json:"value"`
	CreatedAt time.Time      `json:"created_at"`
}

// ClaimFields carries the already-lowercased claim fields an identifier
// is matched against, one field per identifier variant
type ClaimFields struct {
	Name   string
	IP     string
	Domain string
}

// Matches dispatches to the predicate for the identifier's variant.
// Name and IP match by folded substring containment of the identifier
// value inside the corresponding claim field; strictIP switches the IP
// variant to exact equality. Domain matches by the domain rules
func (id Identifier) Matches(f ClaimFields, strictIP bool) bool {
	switch id.Type {
	case TypeName:
		return names.Contains(f.Name, id.Value)
	case TypeIP:
		v := strings.ToLower(strings.TrimSpace(id.Value))
		if v == "" || f.IP == "" {
			return false
		}
		if strictIP {
			return f.IP == v
		}
		return strings.Contains(f.IP, v)
	case TypeDomain:
		return domains.Match(f.Domain, id.Value)
	}
	return false
}
