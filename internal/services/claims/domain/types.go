// Package domain holds the claim types and admission ports
package domain

import (
	"strings"
	"time"

	perr "breachwatch/internal/platform/errors"
)

// Claim is an externally sourced report of a ransomware incident
type Claim struct {
	ID          int64     `json:"id"`
	Collector   string    `json:"collector"`
	ThreatActor string    `json:"threat_actor"`
	Name        string    `json:"name_identifier"`
	IP          string    `json:"ip_identifier,omitempty"`
	Domain      string    `json:"domain_identifier,omitempty"`
	Sector      string    `json:"sector,omitempty"`
	Comment     string    `json:"comment,omitempty"`
	RawPayload  string    `json:"raw_payload,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
	URL         string    `json:"url,omitempty"`
}

// Trim strips surrounding whitespace from every string field
func (c *Claim) Trim() {
	c.Collector = strings.TrimSpace(c.Collector)
	c.ThreatActor = strings.TrimSpace(c.ThreatActor)
	c.Name = strings.TrimSpace(c.Name)
	c.IP = strings.TrimSpace(c.IP)
	c.Domain = strings.TrimSpace(c.Domain)
	c.Sector = strings.TrimSpace(c.Sector)
	c.Comment = strings.TrimSpace(c.Comment)
	c.URL = strings.TrimSpace(c.URL)
}

// Validate enforces the required fields. Failing validation is a
// rejection distinct from duplicate status
func (c *Claim) Validate() error {
	c.Trim()
	switch {
	case c.Collector == "":
		return perr.Validationf("collector is required")
	case c.ThreatActor == "":
		return perr.Validationf("threat_actor is required")
	case c.Name == "":
		return perr.Validationf("name_identifier is required")
	case c.Timestamp.IsZero():
		return perr.Validationf("timestamp is required")
	}
	return nil
}

// AdmitStatus is the per-claim admission outcome
type AdmitStatus string

const (
	// StatusAdmitted means the claim was inserted
	StatusAdmitted AdmitStatus = "admitted"
	// StatusDuplicate means a tier of the duplicate check fired
	StatusDuplicate AdmitStatus = "duplicate"
	// StatusInvalid means a required field was missing
	StatusInvalid AdmitStatus = "invalid"
	// StatusFailed means storage failed before an outcome was reached
	StatusFailed AdmitStatus = "failed"
)

// AdmitResult reports one claim's admission outcome. Duplicate is a
// normal status, never an error; Err is set only for invalid claims
// and storage failures
type AdmitResult struct {
	Status AdmitStatus `json:"status"`
	ID     int64       `json:"id,omitempty"`
	Err    error       `json:"-"`
	Reason string      `json:"reason,omitempty"`
}
