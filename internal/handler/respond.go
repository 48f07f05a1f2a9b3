// Package handler provides the HTTP handlers of the reporting service.
package handler

import (
	"encoding/json"
	"net/http"

	"txreport/pkg/errors"
)

// Logger is the subset of pkg/logger the handlers use.
type Logger interface {
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, errorResponse{Error: message, Code: code})
}

// respondErr maps err onto the status code of its taxonomy kind. Unexpected
// errors are logged and answered with a generic message.
func respondErr(w http.ResponseWriter, log Logger, r *http.Request, err error) {
	status := statusFor(err)
	code := errors.Code(err)
	if status == http.StatusInternalServerError {
		log.Error("Request failed", map[string]interface{}{
			"path":  r.URL.Path,
			"error": err.Error(),
		})
		respondError(w, status, code, "Internal server error")
		return
	}
	if status >= 500 {
		log.Warn("Upstream dependency failed", map[string]interface{}{
			"path":  r.URL.Path,
			"code":  code,
			"error": err.Error(),
		})
	}
	respondError(w, status, code, err.Error())
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, errors.ErrOutOfBoundsParameter):
		return http.StatusUnprocessableEntity
	case errors.IsValidation(err):
		return http.StatusBadRequest
	case errors.Is(err, errors.ErrLookupUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, errors.ErrLookupMalformed):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
