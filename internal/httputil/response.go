// Package httputil carries the JSON response envelope shared by every
// handler, plus the mapping from resolver error kinds to HTTP statuses.
package httputil

import (
	"encoding/json"
	"net/http"

	"github.com/mediashelf/mediashelf/internal/catalog"
)

type Response struct {
	Status string      `json:"status"`
	Data   interface{} `json:"data,omitempty"`
	Error  *ErrorBody  `json:"error,omitempty"`
}

type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(Response{
		Status: "ok",
		Data:   data,
	})
}

func WriteError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(Response{
		Status: "error",
		Error: &ErrorBody{
			Code:    code,
			Message: message,
		},
	})
}

// WriteCatalogError maps a typed resolver failure onto the wire. The kind
// string doubles as the machine-readable error code.
func WriteCatalogError(w http.ResponseWriter, err error) {
	kind := catalog.KindOf(err)
	WriteError(w, StatusForKind(kind), string(kind), err.Error())
}

// StatusForKind picks the HTTP status that matches a resolver error kind.
func StatusForKind(kind catalog.ErrorKind) int {
	switch kind {
	case catalog.KindAPIKeyNotConfigured:
		return http.StatusPreconditionFailed
	case catalog.KindInvalidAPIKey:
		return http.StatusUnauthorized
	case catalog.KindNotFoundRemote:
		return http.StatusNotFound
	case catalog.KindRateLimited:
		return http.StatusTooManyRequests
	case catalog.KindParsing:
		return http.StatusUnprocessableEntity
	case catalog.KindNetwork, catalog.KindRemoteAPI:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func ReadJSON(r *http.Request, dst interface{}) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(dst)
}
