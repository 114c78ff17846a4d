package handlers

import (
	"net/http"

	"github.com/willora/willora-backend/internal/services"
)

// DashboardHandler serves the dashboard widgets and the insight quote.
type DashboardHandler struct {
	dashboard *services.DashboardService
}

func NewDashboardHandler(dashboard *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

func (h *DashboardHandler) RecentJournals(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	entries, err := h.dashboard.RecentJournals(r.Context(), userID)
	if err != nil {
		writeServiceError(w, messageKey, "RecentJournals", err, failureText{Server: "Error fetching recent journals"})
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (h *DashboardHandler) MoodTrend(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	points, err := h.dashboard.MoodTrend(r.Context(), userID)
	if err != nil {
		writeServiceError(w, messageKey, "MoodTrend", err, failureText{Server: "Error fetching mood trend"})
		return
	}
	writeJSON(w, http.StatusOK, points)
}

func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	totals, err := h.dashboard.Stats(r.Context(), userID)
	if err != nil {
		writeServiceError(w, messageKey, "DashboardStats", err, failureText{Server: "Error fetching stats"})
		return
	}
	writeJSON(w, http.StatusOK, totals)
}

func (h *DashboardHandler) CommunityHighlights(w http.ResponseWriter, r *http.Request) {
	posts, err := h.dashboard.CommunityHighlights(r.Context())
	if err != nil {
		writeServiceError(w, messageKey, "CommunityHighlights", err, failureText{Server: "Error fetching community posts"})
		return
	}
	writeJSON(w, http.StatusOK, posts)
}

func (h *DashboardHandler) Tip(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"tip": h.dashboard.Tip()})
}

func (h *DashboardHandler) Quote(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"quote": h.dashboard.Quote()})
}
