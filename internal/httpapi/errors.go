package httpapi

import (
	"net/http"

	json "github.com/goccy/go-json"

	"github.com/lila-explorer/openingexplorer/internal/apperr"
)

// statusFor maps one of internal/apperr's sentinel kinds to the HTTP
// status spec §7 assigns it. A Decode Malformed/Truncated or StoreIO
// error both surface as 500; they differ only in whether the caller
// keeps going (store decode errors are scoped to one record, the rest
// of the database stays queryable).
func statusFor(err error) int {
	switch {
	case apperr.Is(err, apperr.ErrValidation):
		return http.StatusBadRequest
	case apperr.Is(err, apperr.ErrNotFound):
		return http.StatusNotFound
	case apperr.Is(err, apperr.ErrMalformed), apperr.Is(err, apperr.ErrTruncated):
		return http.StatusInternalServerError
	case apperr.Is(err, apperr.ErrStoreIO):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

func kindFor(err error) string {
	switch {
	case apperr.Is(err, apperr.ErrValidation):
		return "validation"
	case apperr.Is(err, apperr.ErrNotFound):
		return "notFound"
	case apperr.Is(err, apperr.ErrMalformed):
		return "malformed"
	case apperr.Is(err, apperr.ErrTruncated):
		return "truncated"
	case apperr.Is(err, apperr.ErrImportReject):
		return "importReject"
	case apperr.Is(err, apperr.ErrStoreIO):
		return "storeIO"
	default:
		return "internal"
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorResponse{Kind: kindFor(err), Message: err.Error()})
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_ = json.NewEncoder(w).Encode(v)
}
