package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/willora/willora-backend/internal/services"
)

// AIHandler relays journal analysis and chat messages to the language model.
type AIHandler struct {
	ai *services.AIService
}

func NewAIHandler(ai *services.AIService) *AIHandler {
	return &AIHandler{ai: ai}
}

type AnalyzeRequest struct {
	JournalText string `json:"journalText"`
}

type ChatRequest struct {
	Message string `json:"message"`
}

// Analyze answers {aiMessage}. Upstream failures are logged and answered with
// the fallback message.
func (h *AIHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeFailure(w, messageKey, http.StatusBadRequest, "Invalid request body")
		return
	}

	reply, err := h.ai.Analyze(r.Context(), req.JournalText)
	if errors.Is(err, services.ErrValidation) {
		writeFailure(w, messageKey, http.StatusBadRequest, "No text provided")
		return
	}
	if err != nil {
		log.Printf("[Analyze] AI error: %v", err)
	}
	writeJSON(w, http.StatusOK, map[string]string{"aiMessage": reply})
}

// Chat answers {reply} for a single message, with the same fallback policy as Analyze.
func (h *AIHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeFailure(w, errorKey, http.StatusBadRequest, "Invalid request body")
		return
	}

	reply, err := h.ai.Chat(r.Context(), req.Message)
	if errors.Is(err, services.ErrValidation) {
		writeFailure(w, errorKey, http.StatusBadRequest, "Message is required")
		return
	}
	if err != nil {
		log.Printf("[Chat] AI error: %v", err)
	}
	writeJSON(w, http.StatusOK, map[string]string{"reply": reply})
}
