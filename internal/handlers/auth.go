package handlers

import (
	"net/http"

	"github.com/willora/willora-backend/internal/models"
	"github.com/willora/willora-backend/internal/services"
)

// AuthHandler serves account registration, login and profile routes.
type AuthHandler struct {
	auth *services.AuthService
}

func NewAuthHandler(auth *services.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UserResponse struct {
	User models.User `json:"user"`
}

// Register creates an account and returns {user, token}.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeFailure(w, messageKey, http.StatusBadRequest, "Invalid request body")
		return
	}

	res, err := h.auth.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		writeServiceError(w, messageKey, "Register", err, failureText{
			Conflict: "User already exists",
			Server:   "Server error during registration",
		})
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

// Login verifies credentials and returns {user, token}.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeFailure(w, messageKey, http.StatusBadRequest, "Invalid request body")
		return
	}

	res, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, messageKey, "Login", err, failureText{
			NotFound: "User not found",
			Server:   "Server error during login",
		})
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// UpdateProfile changes the caller's name and/or email.
func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	var req services.UpdateProfileInput
	if err := decodeJSON(w, r, &req); err != nil {
		writeFailure(w, messageKey, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.auth.UpdateProfile(r.Context(), userID, req)
	if err != nil {
		writeServiceError(w, messageKey, "UpdateProfile", err, failureText{
			NotFound: "User not found",
			Conflict: "Email already in use",
			Server:   "Server error while updating profile",
		})
		return
	}
	writeJSON(w, http.StatusOK, UserResponse{User: user})
}

// Me returns the caller's account.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	user, err := h.auth.GetUser(r.Context(), userID)
	if err != nil {
		writeServiceError(w, messageKey, "Me", err, failureText{NotFound: "User not found"})
		return
	}
	writeJSON(w, http.StatusOK, UserResponse{User: user})
}
