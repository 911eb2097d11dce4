// Package http mounts the alert query endpoints
package http

import (
	nethttp "net/http"
	"strconv"

	"breachwatch/internal/modkit/httpkit"
	perr "breachwatch/internal/platform/errors"
	"breachwatch/internal/services/alerts/domain"
)

// Handlers mounts alerts routes onto a router
type Handlers struct {
	Query domain.QueryPort
}

// Mount wires the routes under /alerts
func (h Handlers) Mount(r httpkit.Router) {
	r.Route("/alerts", func(r httpkit.Router) {
		httpkit.Get(r, "/recent", h.recent)
		httpkit.Get(r, "/identifier/{id}", h.byIdentifier)
	})
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

func (h Handlers) byIdentifier(r *nethttp.Request) (any, error) {
	id, err := strconv.ParseInt(httpkit.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return nil, perr.Validationf("id must be a positive integer")
	}
	return h.Query.ByIdentifier(r.Context(), id)
}
