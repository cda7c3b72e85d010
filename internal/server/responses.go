package server

import (
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/simonvc/tradebook/internal/api"
	"github.com/simonvc/tradebook/internal/ledger"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string, kind ledger.ErrorKind) {
	writeJSON(w, status, api.ErrorResponse{Error: msg, Kind: kind})
}

// fail writes err with the status its kind maps to. Unexpected errors are
// logged and their text is not echoed to the caller.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	kind := ledger.Kind(err)
	status := mapError(kind)
	msg := err.Error()
	if kind == ledger.KindInternal {
		s.logger.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		msg = "internal error"
	}
	writeError(w, status, msg, kind)
}

func mapError(kind ledger.ErrorKind) int {
	switch kind {
	case ledger.KindValidation:
		return http.StatusBadRequest
	case ledger.KindNotFound:
		return http.StatusNotFound
	case ledger.KindDuplicateKey, ledger.KindAlreadyExists:
		return http.StatusConflict
	case ledger.KindTransient:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// decode reads a JSON body into dst and checks its struct tags.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error(), ledger.KindValidation)
		return false
	}
	if err := s.validate.Struct(dst); err != nil {
		s.fail(w, r, err)
		return false
	}
	return true
}

func pathID(r *http.Request) string {
	id, _ := url.PathUnescape(chi.URLParam(r, "id"))
	return id
}

// orEmpty keeps list responses as JSON arrays rather than null.
func orEmpty[T any](v []T) []T {
	if v == nil {
		return []T{}
	}
	return v
}
