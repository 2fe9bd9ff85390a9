package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/apex/log"

	"crimesafenet/models"
	"crimesafenet/service"
)

// respondWithJSON sends a JSON response
func respondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

// respondWithError sends an error response
func respondWithError(w http.ResponseWriter, statusCode int, errorType, message string) {
	respondWithJSON(w, statusCode, models.ErrorResponse{
		Error:   errorType,
		Message: message,
		Code:    statusCode,
	})
}

// respondServiceError maps the service error taxonomy onto HTTP statuses.
// Unrecognized errors become opaque 500s; the detail goes to the log only.
func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrValidation),
		errors.Is(err, service.ErrDuplicateEmail),
		errors.Is(err, service.ErrUnsupportedMediaType),
		errors.Is(err, service.ErrPayloadTooLarge):
		respondWithError(w, http.StatusBadRequest, "Validation error", err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		respondWithError(w, http.StatusUnauthorized, "Unauthorized", err.Error())
	case errors.Is(err, service.ErrForbidden):
		respondWithError(w, http.StatusForbidden, "Forbidden", err.Error())
	case errors.Is(err, service.ErrNotFound):
		respondWithError(w, http.StatusNotFound, "Not found", err.Error())
	default:
		log.Errorf("internal error: %v", err)
		respondWithError(w, http.StatusInternalServerError, "Internal error", "Something went wrong")
	}
}
