package services

import (
	"context"
	"errors"
	"strings"

	"github.com/willora/willora-backend/internal/models"
	"github.com/willora/willora-backend/internal/store"
)

// CommunityService runs the public community board.
type CommunityService struct {
	posts store.PostRepository
	clock Clock
}

func NewCommunityService(posts store.PostRepository, clock Clock) *CommunityService {
	return &CommunityService{posts: posts, clock: clock}
}

func displayName(postedBy string) string {
	if name := strings.TrimSpace(postedBy); name != "" {
		return name
	}
	return models.AnonymousAuthor
}

func (s *CommunityService) timestamp() string {
	return s.clock.Now().In(s.clock.Location).Format(models.TimestampLayout)
}

func notFoundOr(op string, err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return ErrNotFound
	}
	return serviceError(op, err)
}

// ListPosts returns every post, newest first.
func (s *CommunityService) ListPosts(ctx context.Context) ([]models.Post, error) {
	posts, err := s.posts.List(ctx, 0)
	if err != nil {
		return nil, serviceError("list posts", err)
	}
	return posts, nil
}

// CreatePost publishes a post. authorID is empty for anonymous callers.
func (s *CommunityService) CreatePost(ctx context.Context, content, postedBy, authorID string) (models.Post, error) {
	if strings.TrimSpace(content) == "" {
		return models.Post{}, validationError("Content is required")
	}

	now := s.clock.Now()
	post, err := s.posts.Create(ctx, models.Post{
		Content:   content,
		PostedBy:  displayName(postedBy),
		AuthorID:  authorID,
		Timestamp: now.In(s.clock.Location).Format(models.TimestampLayout),
		CreatedAt: now.UTC(),
	})
	if err != nil {
		return models.Post{}, serviceError("create post", err)
	}
	return post, nil
}

// AddComment appends a comment to a post.
func (s *CommunityService) AddComment(ctx context.Context, postID, content, postedBy string) (models.Comment, error) {
	if strings.TrimSpace(content) == "" {
		return models.Comment{}, validationError("Comment content is required")
	}

	comment, err := s.posts.AddComment(ctx, postID, models.Comment{
		Content:   content,
		PostedBy:  displayName(postedBy),
		Timestamp: s.timestamp(),
	})
	if err != nil {
		return models.Comment{}, notFoundOr("add comment", err)
	}
	return comment, nil
}

// ListComments returns the comments of a post in insertion order.
func (s *CommunityService) ListComments(ctx context.Context, postID string) ([]models.Comment, error) {
	post, err := s.posts.Get(ctx, postID)
	if err != nil {
		return nil, notFoundOr("load post", err)
	}
	return post.Comments, nil
}

// ToggleUpvote likes the post for voterID, or removes an existing like.
func (s *CommunityService) ToggleUpvote(ctx context.Context, postID, voterID string) (models.Post, error) {
	voterID = strings.TrimSpace(voterID)
	if voterID == "" {
		return models.Post{}, validationError("userId is required")
	}

	post, err := s.posts.ToggleUpvote(ctx, postID, voterID)
	if err != nil {
		return models.Post{}, notFoundOr("toggle upvote", err)
	}
	return post, nil
}

// DeletePost removes a post and its comments. A post with a recorded author can
// only be removed by that author.
func (s *CommunityService) DeletePost(ctx context.Context, postID, requesterID string) error {
	post, err := s.posts.Get(ctx, postID)
	if err != nil {
		return notFoundOr("load post", err)
	}
	if post.AuthorID != "" && post.AuthorID != requesterID {
		return ErrForbidden
	}

	if err := s.posts.Delete(ctx, postID); err != nil {
		return notFoundOr("delete post", err)
	}
	return nil
}
