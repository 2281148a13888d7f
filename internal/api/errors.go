package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rgehrsitz/taxsavvy/internal/domain"
)

// Error kinds returned in ErrorResponse.Kind
const (
	KindBadRequest      = "bad_request"
	KindInvalidProfile  = "invalid_profile"
	KindNotFound        = "not_found"
	KindConfigMalformed = "config_malformed"
	KindUnavailable     = "unavailable"
	KindRateLimited     = "rate_limited"
	KindInternal        = "internal"
)

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, kind, message string) {
	writeJSON(w, status, ErrorResponse{Kind: kind, Message: message})
}

// classify maps an engine error to an HTTP status and error kind
func classify(err error) (int, string) {
	var (
		invalid   *domain.InvalidProfileError
		malformed *domain.ConfigMalformedError
		notFound  *domain.ConfigNotFoundError
	)
	switch {
	case errors.As(err, &invalid):
		return http.StatusBadRequest, KindInvalidProfile
	case errors.As(err, &notFound):
		return http.StatusServiceUnavailable, KindUnavailable
	case errors.As(err, &malformed):
		return http.StatusInternalServerError, KindConfigMalformed
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable, KindUnavailable
	default:
		return http.StatusInternalServerError, KindInternal
	}
}

func writeEngineError(w http.ResponseWriter, err error) {
	status, kind := classify(err)
	message := err.Error()
	if kind == KindInternal {
		message = "internal server error"
	}
	writeError(w, status, kind, message)
}
