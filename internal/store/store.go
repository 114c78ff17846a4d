package store

import (
	"context"
	"errors"

	"github.com/willora/willora-backend/internal/models"
)

// ErrNotFound is returned when a record does not exist or is not visible to the caller.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned when a unique constraint (user email) is violated.
var ErrDuplicate = errors.New("duplicate key")

// UserRepository persists accounts. Emails are stored already case-folded.
type UserRepository interface {
	Create(ctx context.Context, user models.User) (models.User, error)
	GetByID(ctx context.Context, id string) (models.User, error)
	GetByEmail(ctx context.Context, email string) (models.User, error)
	Update(ctx context.Context, user models.User) (models.User, error)
	SetPassword(ctx context.Context, id, hash string) error
}

// JournalRepository persists journal entries. Every read and delete is scoped by owner.
type JournalRepository interface {
	Create(ctx context.Context, entry models.JournalEntry) (models.JournalEntry, error)
	// ListByUser returns entries newest first; limit <= 0 means all.
	ListByUser(ctx context.Context, userID string, limit int) ([]models.JournalEntry, error)
	CountByUser(ctx context.Context, userID string) (int64, error)
	// DeleteForUser removes the entry only when it belongs to userID.
	DeleteForUser(ctx context.Context, userID, entryID string) error
}

// PostRepository persists community posts with their embedded comments.
type PostRepository interface {
	Create(ctx context.Context, post models.Post) (models.Post, error)
	// List returns posts newest first; limit <= 0 means all.
	List(ctx context.Context, limit int) ([]models.Post, error)
	Get(ctx context.Context, id string) (models.Post, error)
	AddComment(ctx context.Context, postID string, comment models.Comment) (models.Comment, error)
	// ToggleUpvote adds voterID to the liker set if absent, removes it if present,
	// adjusting likes (floored at zero) in one atomic operation.
	ToggleUpvote(ctx context.Context, postID, voterID string) (models.Post, error)
	Delete(ctx context.Context, id string) error
	// CountByAuthor counts posts referencing authorID, plus posts without an author
	// reference whose display name equals name.
	CountByAuthor(ctx context.Context, authorID, name string) (int64, error)
}

// Store bundles the repositories of one backend.
type Store struct {
	Users    UserRepository
	Journals JournalRepository
	Posts    PostRepository
}
