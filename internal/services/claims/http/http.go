// Package http mounts the claim admission and query endpoints
package http

import (
	nethttp "net/http"
	"strconv"
	"time"

	"breachwatch/internal/modkit/httpkit"
	perr "breachwatch/internal/platform/errors"
	"breachwatch/internal/services/claims/domain"
)

// Handlers mounts claims routes onto a router
type Handlers struct {
	Admitter domain.AdmitterPort
	Query    domain.QueryPort
}

type claimReq struct {
	Collector   string    `json:"collector" validate:"required"`
	ThreatActor string    `json:"threat_actor" validate:"required"`
	Name        string    `json:"name_identifier" validate:"required"`
	IP          string    `json:"ip_identifier"`
	Domain      string    `json:"domain_identifier"`
	Sector      string    `json:"sector"`
	Comment     string    `json:"comment"`
	RawPayload  string    `json:"raw_payload"`
	Timestamp   time.Time `json:"timestamp" validate:"required"`
	URL         string    `json:"url"`
}

type bulkReq struct {
	Claims []claimReq `json:"claims" validate:"required,min=1,max=500"`
}

func (in claimReq) toDomain() domain.Claim {
	return domain.Claim{
		Collector:   in.Collector,
		ThreatActor: in.ThreatActor,
		Name:        in.Name,
		IP:          in.IP,
		Domain:      in.Domain,
		Sector:      in.Sector,
		Comment:     in.Comment,
		RawPayload:  in.RawPayload,
		Timestamp:   in.Timestamp,
		URL:         in.URL,
	}
}

// Mount wires the routes under /claims
func (h Handlers) Mount(r httpkit.Router) {
	r.Route("/claims", func(r httpkit.Router) {
		httpkit.PostJSON(r, "/", h.admit)
		httpkit.PostJSON(r, "/bulk", h.bulkAdmit)
		httpkit.Get(r, "/recent", h.recent)
		httpkit.Get(r, "/{id}", h.byID)
	})
}

func (h Handlers) admit(r *nethttp.Request, in claimReq) (any, error) {
	res := h.Admitter.Admit(r.Context(), in.toDomain())
	switch res.Status {
	case domain.StatusInvalid:
		if res.Err != nil {
			return nil, res.Err
		}
		return nil, perr.Validationf("%s", res.Reason)
	case domain.StatusDuplicate:
		return nil, perr.Duplicatef("claim already recorded: %s", res.Reason)
	case domain.StatusFailed:
		return nil, res.Err
	}
	return res, nil
}

func (h Handlers) bulkAdmit(r *nethttp.Request, in bulkReq) (any, error) {
	cs := make([]domain.Claim, len(in.Claims))
	for i, c := range in.Claims {
		cs[i] = c.toDomain()
	}
	return h.Admitter.BulkAdmit(r.Context(), cs), nil
}

func (h Handlers) recent(r *nethttp.Request) (any, error) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, perr.Validationf("limit must be an integer")
		}
		limit = n
	}
	return h.Query.Recent(r.Context(), limit)
}

func (h Handlers) byID(r *nethttp.Request) (any, error) {
	id, err := strconv.ParseInt(httpkit.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return nil, perr.Validationf("id must be a positive integer")
	}
	return h.Query.ByID(r.Context(), id)
}
