package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/willora/willora-backend/internal/middleware"
	"github.com/willora/willora-backend/internal/services"
)

// CommunityHandler serves the public community board. Identity is optional on
// every route.
type CommunityHandler struct {
	community *services.CommunityService
}

func NewCommunityHandler(community *services.CommunityService) *CommunityHandler {
	return &CommunityHandler{community: community}
}

type CreatePostRequest struct {
	Content  string `json:"content"`
	PostedBy string `json:"postedBy"`
}

type UpvoteRequest struct {
	UserID string `json:"userId"`
}

var postNotFound = failureText{NotFound: "Post not found"}

// ListPosts returns every post, newest first.
func (h *CommunityHandler) ListPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.community.ListPosts(r.Context())
	if err != nil {
		writeServiceError(w, errorKey, "ListPosts", err, failureText{})
		return
	}
	writeJSON(w, http.StatusOK, posts)
}

// CreatePost publishes a post; a signed-in caller is recorded as its author.
func (h *CommunityHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	var req CreatePostRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeFailure(w, errorKey, http.StatusBadRequest, "Invalid request body")
		return
	}

	authorID, _ := middleware.IdentityFrom(r.Context())
	post, err := h.community.CreatePost(r.Context(), req.Content, req.PostedBy, authorID)
	if err != nil {
		writeServiceError(w, errorKey, "CreatePost", err, failureText{})
		return
	}
	writeJSON(w, http.StatusCreated, post)
}

// AddComment appends a comment to a post.
func (h *CommunityHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	var req CreatePostRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeFailure(w, errorKey, http.StatusBadRequest, "Invalid request body")
		return
	}

	comment, err := h.community.AddComment(r.Context(), chi.URLParam(r, "postId"), req.Content, req.PostedBy)
	if err != nil {
		writeServiceError(w, errorKey, "AddComment", err, postNotFound)
		return
	}
	writeJSON(w, http.StatusCreated, comment)
}

// ListComments returns the comments of a post.
func (h *CommunityHandler) ListComments(w http.ResponseWriter, r *http.Request) {
	comments, err := h.community.ListComments(r.Context(), chi.URLParam(r, "postId"))
	if err != nil {
		writeServiceError(w, errorKey, "ListComments", err, postNotFound)
		return
	}
	writeJSON(w, http.StatusOK, comments)
}

// Upvote toggles the caller's like. Anonymous callers name themselves with
// userId in the body; a signed-in caller always votes as themselves.
func (h *CommunityHandler) Upvote(w http.ResponseWriter, r *http.Request) {
	var req UpvoteRequest
	if err := decodeJSON(w, r, &req); err != nil && !errors.Is(err, io.EOF) {
		writeFailure(w, errorKey, http.StatusBadRequest, "Invalid request body")
		return
	}
	voterID, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		voterID = req.UserID
	}

	post, err := h.community.ToggleUpvote(r.Context(), chi.URLParam(r, "postId"), voterID)
	if err != nil {
		writeServiceError(w, errorKey, "Upvote", err, postNotFound)
		return
	}
	writeJSON(w, http.StatusOK, post)
}

// DeletePost removes a post and its comments.
func (h *CommunityHandler) DeletePost(w http.ResponseWriter, r *http.Request) {
	requesterID, _ := middleware.IdentityFrom(r.Context())

	if err := h.community.DeletePost(r.Context(), chi.URLParam(r, "postId"), requesterID); err != nil {
		writeServiceError(w, errorKey, "DeletePost", err, failureText{
			NotFound:  "Post not found",
			Forbidden: "You can only delete your own posts",
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Post deleted successfully"})
}
