// Package memstore keeps every repository in process memory. It backs the
// "memory" store driver and the handler and service tests.
package memstore

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/willora/willora-backend/internal/models"
	"github.com/willora/willora-backend/internal/store"
)

// New returns a Store whose repositories share nothing with any database.
func New() *store.Store {
	return &store.Store{
		Users:    &Users{byID: map[string]models.User{}},
		Journals: &Journals{},
		Posts:    &Posts{},
	}
}

// Users is an in-memory UserRepository.
type Users struct {
	mu   sync.RWMutex
	byID map[string]models.User
}

func (r *Users) Create(_ context.Context, user models.User) (models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.byID {
		if existing.Email == user.Email {
			return models.User{}, store.ErrDuplicate
		}
	}
	now := time.Now().UTC()
	user.ID = uuid.NewString()
	user.CreatedAt = now
	user.UpdatedAt = now
	r.byID[user.ID] = user
	return user, nil
}

func (r *Users) GetByID(_ context.Context, id string) (models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.byID[id]
	if !ok {
		return models.User{}, store.ErrNotFound
	}
	return user, nil
}

func (r *Users) GetByEmail(_ context.Context, email string) (models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, user := range r.byID {
		if user.Email == email {
			return user, nil
		}
	}
	return models.User{}, store.ErrNotFound
}

func (r *Users) Update(_ context.Context, user models.User) (models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.byID[user.ID]
	if !ok {
		return models.User{}, store.ErrNotFound
	}
	for id, existing := range r.byID {
		if id != user.ID && existing.Email == user.Email {
			return models.User{}, store.ErrDuplicate
		}
	}
	current.Name = user.Name
	current.Email = user.Email
	current.UpdatedAt = time.Now().UTC()
	r.byID[user.ID] = current
	return current, nil
}

func (r *Users) SetPassword(_ context.Context, id, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.byID[id]
	if !ok {
		return store.ErrNotFound
	}
	user.Password = hash
	user.UpdatedAt = time.Now().UTC()
	r.byID[id] = user
	return nil
}

// Journals is an in-memory JournalRepository. Entries are kept in insertion order.
type Journals struct {
	mu      sync.RWMutex
	entries []models.JournalEntry
}

func (r *Journals) Create(_ context.Context, entry models.JournalEntry) (models.JournalEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	entry.ID = uuid.NewString()
	entry.CreatedAt = now
	entry.UpdatedAt = now
	r.entries = append(r.entries, entry)
	return entry, nil
}

func (r *Journals) ListByUser(_ context.Context, userID string, limit int) ([]models.JournalEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []models.JournalEntry{}
	for i := len(r.entries) - 1; i >= 0; i-- {
		if r.entries[i].UserID != userID {
			continue
		}
		out = append(out, r.entries[i])
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *Journals) CountByUser(_ context.Context, userID string) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var total int64
	for _, e := range r.entries {
		if e.UserID == userID {
			total++
		}
	}
	return total, nil
}

func (r *Journals) DeleteForUser(_ context.Context, userID, entryID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, e := range r.entries {
		if e.ID == entryID && e.UserID == userID {
			r.entries = append(r.entries[:i], r.entries[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

// Posts is an in-memory PostRepository. Posts are kept in insertion order.
type Posts struct {
	mu    sync.Mutex
	posts []models.Post
}

func (r *Posts) indexOf(id string) int {
	for i, p := range r.posts {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func (r *Posts) Create(_ context.Context, post models.Post) (models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	post.ID = uuid.NewString()
	post.Likes = 0
	post.UpvotedBy = []string{}
	post.Comments = []models.Comment{}
	if post.CreatedAt.IsZero() {
		post.CreatedAt = time.Now().UTC()
	}
	r.posts = append(r.posts, post)
	return clonePost(post), nil
}

func (r *Posts) List(_ context.Context, limit int) ([]models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := []models.Post{}
	for i := len(r.posts) - 1; i >= 0; i-- {
		out = append(out, clonePost(r.posts[i]))
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *Posts) Get(_ context.Context, id string) (models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return models.Post{}, store.ErrNotFound
	}
	return clonePost(r.posts[i]), nil
}

func (r *Posts) AddComment(_ context.Context, postID string, comment models.Comment) (models.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(postID)
	if i < 0 {
		return models.Comment{}, store.ErrNotFound
	}
	comment.ID = uuid.NewString()
	r.posts[i].Comments = append(r.posts[i].Comments, comment)
	return comment, nil
}

func (r *Posts) ToggleUpvote(_ context.Context, postID, voterID string) (models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(postID)
	if i < 0 {
		return models.Post{}, store.ErrNotFound
	}
	post := &r.posts[i]

	at := -1
	for j, v := range post.UpvotedBy {
		if v == voterID {
			at = j
			break
		}
	}
	if at >= 0 {
		post.UpvotedBy = append(post.UpvotedBy[:at:at], post.UpvotedBy[at+1:]...)
		post.Likes = max(post.Likes-1, 0)
	} else {
		post.UpvotedBy = append(post.UpvotedBy, voterID)
		post.Likes++
	}
	return clonePost(*post), nil
}

func (r *Posts) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return store.ErrNotFound
	}
	r.posts = append(r.posts[:i], r.posts[i+1:]...)
	return nil
}

func (r *Posts) CountByAuthor(_ context.Context, authorID, name string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var total int64
	for _, p := range r.posts {
		switch {
		case authorID != "" && p.AuthorID == authorID:
			total++
		case p.AuthorID == "" && name != "" && p.PostedBy == name:
			total++
		}
	}
	return total, nil
}

// clonePost copies the slices so callers never alias repository state.
func clonePost(p models.Post) models.Post {
	p.UpvotedBy = append([]string{}, p.UpvotedBy...)
	p.Comments = append([]models.Comment{}, p.Comments...)
	return p
}
