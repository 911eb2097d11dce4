// Package http mounts the watchlist management endpoints
package http

import (
	nethttp "net/http"
	"strconv"

	"breachwatch/internal/modkit/httpkit"
	perr "breachwatch/internal/platform/errors"
	"breachwatch/internal/services/watchlist/domain"
)

// Handlers mounts watchlist routes onto a router
type Handlers struct {
	Reader domain.ReaderPort
	Writer domain.WriterPort
}

type createClientReq struct {
	Name string `json:"name" validate:"required"`
}

type addIdentifierReq struct {
	ClientID int64  `json:"client_id" validate:"required,gt=0"`
	Type     string `json:"type" validate:"required"`
	Value    string `json:"value" validate:"required"`
}

// Mount wires the routes under /watchlist
func (h Handlers) Mount(r httpkit.Router) {
	r.Route("/watchlist", func(r httpkit.Router) {
		httpkit.Get(r, "/clients", h.listClients)
		httpkit.PostJSON(r, "/clients", h.createClient)
		httpkit.Delete(r, "/clients/{id}", h.deleteClient)

		httpkit.Get(r, "/identifiers", h.listIdentifiers)
		httpkit.PostJSON(r, "/identifiers", h.addIdentifier)
		httpkit.Delete(r, "/identifiers/{id}", h.removeIdentifier)
	})
}

func (h Handlers) listClients(r *nethttp.Request) (any, error) {
	return h.Reader.ListClients(r.Context())
}

func (h Handlers) createClient(r *nethttp.Request, in createClientReq) (any, error) {
	return h.Writer.CreateClient(r.Context(), in.Name)
}

func (h Handlers) deleteClient(r *nethttp.Request) (any, error) {
	id, err := pathID(r)
	if err != nil {
		return nil, err
	}
	return nil, h.Writer.DeleteClient(r.Context(), id)
}

func (h Handlers) listIdentifiers(r *nethttp.Request) (any, error) {
	if raw := r.URL.Query().Get("client_id"); raw != "" {
		cid, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, perr.Validationf("client_id must be an integer")
		}
		return h.Reader.ListIdentifiers(r.Context(), cid)
	}
	return h.Reader.AllIdentifiers(r.Context())
}

func (h Handlers) addIdentifier(r *nethttp.Request, in addIdentifierReq) (any, error) {
	typ, err := domain.ParseIdentifierType(in.Type)
	if err != nil {
		return nil, err
	}
	return h.Writer.AddIdentifier(r.Context(), in.ClientID, typ, in.Value)
}

func (h Handlers) removeIdentifier(r *nethttp.Request) (any, error) {
	id, err := pathID(r)
	if err != nil {
		return nil, err
	}
	return nil, h.Writer.RemoveIdentifier(r.Context(), id)
}

func pathID(r *nethttp.Request) (int64, error) {
	id, err := strconv.ParseInt(httpkit.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, perr.Validationf("id must be a positive integer")
	}
	return id, nil
}
