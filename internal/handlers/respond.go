package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/willora/willora-backend/internal/middleware"
	"github.com/willora/willora-backend/internal/services"
)

// maxBodyBytes bounds every JSON request body.
const maxBodyBytes = 1 << 20

// Failure bodies use one of two keys. Account, journal, stats, dashboard and AI
// routes answer {"message": ...}; community and chat routes answer {"error": ...}.
const (
	messageKey = "message"
	errorKey   = "error"
)

// failureText holds the client-facing messages of one route for each error kind.
type failureText struct {
	NotFound  string
	Conflict  string
	Forbidden string
	Server    string
}

func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

func writeFailure(w http.ResponseWriter, key string, status int, message string) {
	writeJSON(w, status, map[string]string{key: message})
}

// decodeJSON reads the request body into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(dst)
}

// writeServiceError maps a service error to its status. Store and upstream
// causes are logged and never sent to the client.
func writeServiceError(w http.ResponseWriter, key, op string, err error, text failureText) {
	var detail *services.Error
	hasDetail := errors.As(err, &detail)

	switch {
	case errors.Is(err, services.ErrValidation):
		msg := "Invalid request"
		if hasDetail {
			msg = detail.Message
		}
		writeFailure(w, key, http.StatusBadRequest, msg)
	case errors.Is(err, services.ErrNotFound):
		writeFailure(w, key, http.StatusNotFound, orDefault(text.NotFound, "Not found"))
	case errors.Is(err, services.ErrConflict):
		writeFailure(w, key, http.StatusBadRequest, orDefault(text.Conflict, "Already exists"))
	case errors.Is(err, services.ErrInvalidCredentials):
		writeFailure(w, key, http.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, services.ErrForbidden):
		writeFailure(w, key, http.StatusForbidden, orDefault(text.Forbidden, "Forbidden"))
	default:
		log.Printf("[%s] %v", op, err)
		writeFailure(w, key, http.StatusInternalServerError, orDefault(text.Server, "Server error"))
	}
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

// requireIdentity returns the caller's user id. Routes behind RequireAuth always have one.
func requireIdentity(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		writeFailure(w, messageKey, http.StatusUnauthorized, "No token, authorization denied")
		return "", false
	}
	return userID, true
}
