package httpkit

import (
	"encoding/json"
	"net/http"

	perr "breachwatch/internal/platform/errors"
)

// Envelope is the standard response body for all endpoints
type Envelope struct {
	StatusCode int            `json:"status_code"`
	Status     string         `json:"status"`
	Code       perr.ErrorCode `json:"code,omitempty"`
	Error      string         `json:"error,omitempty"`
	RequestID  string         `json:"request_id,omitempty"`
	Data       any            `json:"data,omitempty"`
}

// JSON writes v as application/json with the given status
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// RespondOK writes a 200 envelope with data
func RespondOK(w http.ResponseWriter, r *http.Request, data any) {
	respond(w, r, http.StatusOK, data)
}

// RespondCreated writes a 201 envelope with data
func RespondCreated(w http.ResponseWriter, r *http.Request, data any) {
	respond(w, r, http.StatusCreated, data)
}

// RespondNoContent writes a 204 with no body
func RespondNoContent(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

func respond(w http.ResponseWriter, r *http.Request, status int, data any) {
	JSON(w, status, Envelope{
		StatusCode: status,
		Status:     http.StatusText(status),
		RequestID:  RequestIDFrom(r.Context()),
		Data:       data,
	})
}

// RespondError maps a project error into an envelope and writes it
func RespondError(w http.ResponseWriter, r *http.Request, err error) {
	status := perr.HTTPStatus(err)
	wr := perr.WireFrom(err)
	JSON(w, status, Envelope{
		StatusCode: status,
		Status:     http.StatusText(status),
		Code:       wr.Code,
		Error:      wr.Message,
		RequestID:  RequestIDFrom(r.Context()),
	})
}

// Get mounts a body-less handler under GET with envelope semantics
func Get(r Router, path string, h func(*http.Request) (any, error)) {
	r.Get(path, call(h))
}

// Post mounts a body-less handler under POST with envelope semantics
func Post(r Router, path string, h func(*http.Request) (any, error)) {
	r.Post(path, call(h))
}

// Delete mounts a body-less handler under DELETE with envelope semantics
func Delete(r Router, path string, h func(*http.Request) (any, error)) {
	r.Delete(path, call(h))
}

// PostJSON mounts a bound-and-validated JSON handler under POST
func PostJSON[T any](r Router, path string, h func(*http.Request, T) (any, error)) {
	r.Post(path, func(w http.ResponseWriter, req *http.Request) {
		in, err := ParseJSON[T](req)
		if err != nil {
			RespondError(w, req, err)
			return
		}
		out, err := h(req, in)
		if err != nil {
			RespondError(w, req, err)
			return
		}
		RespondOK(w, req, out)
	})
}

func call(h func(*http.Request) (any, error)) Handler {
	return func(w http.ResponseWriter, req *http.Request) {
		out, err := h(req)
		if err != nil {
			RespondError(w, req, err)
			return
		}
		RespondOK(w, req, out)
	}
}
