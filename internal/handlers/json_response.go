package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"fitness/internal/interfaces"
	"fitness/internal/services"
	"github.com/go-chi/chi/v5/middleware"
)

const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeJSONMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"message": message})
}

func writeJSONError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, map[string]any{
		"error":   code,
		"message": message,
	})
}

// decodeJSON reads a single JSON object from the request body.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return false
	}
	return true
}

// writeServiceError maps service errors to HTTP responses. Unknown errors are
// logged and reported as 500 without details.
func writeServiceError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	var (
		validationErr *services.ValidationError
		conflictErr   *services.ConflictError
		notFoundErr   *services.NotFoundError
		authErr       *services.AuthenticationError
		notifyErr     *services.NotificationError
		blockedErr    *interfaces.DeletionBlockedError
	)

	switch {
	case errors.As(err, &validationErr):
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error":   "validation_error",
			"field":   validationErr.Field,
			"message": validationErr.Error(),
		})
	case errors.As(err, &conflictErr):
		writeJSON(w, http.StatusConflict, map[string]any{
			"error":   "conflict",
			"field":   conflictErr.Field,
			"message": conflictErr.Message,
		})
	case errors.As(err, &notFoundErr):
		writeJSONError(w, http.StatusNotFound, "not_found", notFoundErr.Error())
	case errors.As(err, &authErr):
		writeJSONError(w, http.StatusUnauthorized, "invalid_credentials", "Invalid username or password")
	case errors.As(err, &notifyErr):
		logger.Error("email delivery failed", "error", err, "request_id", middleware.GetReqID(r.Context()))
		writeJSONError(w, http.StatusBadGateway, "notification_failed", "Could not send email")
	case errors.As(err, &blockedErr):
		writeJSON(w, http.StatusConflict, map[string]any{
			"error":      "deletion_blocked",
			"message":    "Resource is still referenced",
			"references": blockedErr.References,
		})
	case errors.Is(err, services.ErrImagesDisabled):
		writeJSONError(w, http.StatusServiceUnavailable, "images_disabled", err.Error())
	default:
		logger.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
			"request_id", middleware.GetReqID(r.Context()),
		)
		writeJSONError(w, http.StatusInternalServerError, "server_error", "Internal server error")
	}
}

// pageParams reads ?limit= and ?offset=. Missing or malformed values become zero and
// the services apply their defaults.
func pageParams(r *http.Request) (int, int) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	return limit, offset
}
