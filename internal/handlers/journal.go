package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/willora/willora-backend/internal/services"
)

// JournalHandler serves the private journal routes and the profile statistics.
type JournalHandler struct {
	journals *services.JournalService
	stats    *services.StatsService
}

func NewJournalHandler(journals *services.JournalService, stats *services.StatsService) *JournalHandler {
	return &JournalHandler{journals: journals, stats: stats}
}

type CreateJournalRequest struct {
	Text     string `json:"text"`
	Mood     string `json:"mood"`
	DateOnly string `json:"dateOnly"`
}

// Create stores a journal entry for the caller.
func (h *JournalHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	var req CreateJournalRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeFailure(w, messageKey, http.StatusBadRequest, "Invalid request body")
		return
	}

	entry, err := h.journals.Create(r.Context(), userID, req.Text, req.Mood, req.DateOnly)
	if err != nil {
		writeServiceError(w, messageKey, "CreateJournal", err, failureText{})
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

// List returns the caller's entries, newest first.
func (h *JournalHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	entries, err := h.journals.List(r.Context(), userID)
	if err != nil {
		writeServiceError(w, messageKey, "ListJournals", err, failureText{})
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// Delete removes one of the caller's entries.
func (h *JournalHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	if err := h.journals.Delete(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, messageKey, "DeleteJournal", err, failureText{NotFound: "Entry not found"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Deleted"})
}

// Stats returns the caller's profile statistics.
func (h *JournalHandler) Stats(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	stats, err := h.stats.UserStats(r.Context(), userID)
	if err != nil {
		writeServiceError(w, messageKey, "Stats", err, failureText{NotFound: "User not found"})
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
