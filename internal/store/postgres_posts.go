package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/willora/willora-backend/internal/models"
)

const postColumns = `id, content, posted_by, author_id, likes, upvoted_by, display_timestamp, created_at`

// PostgresPostRepository handles persistence for community posts and their comments.
type PostgresPostRepository struct {
	db *sql.DB
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPost(row rowScanner) (models.Post, error) {
	var (
		post     models.Post
		authorID sql.NullString
		voters   pq.StringArray
	)
	if err := row.Scan(
		&post.ID,
		&post.Content,
		&post.PostedBy,
		&authorID,
		&post.Likes,
		&voters,
		&post.Timestamp,
		&post.CreatedAt,
	); err != nil {
		return models.Post{}, err
	}
	post.AuthorID = authorID.String
	post.UpvotedBy = []string(voters)
	if post.UpvotedBy == nil {
		post.UpvotedBy = []string{}
	}
	post.Comments = []models.Comment{}
	return post, nil
}

func (r *PostgresPostRepository) Create(ctx context.Context, post models.Post) (models.Post, error) {
	post.ID = uuid.NewString()
	post.Likes = 0
	post.UpvotedBy = []string{}
	post.Comments = []models.Comment{}
	if post.CreatedAt.IsZero() {
		post.CreatedAt = time.Now().UTC()
	}

	const query = `
		INSERT INTO community_posts (id, content, posted_by, author_id, likes, upvoted_by, display_timestamp, created_at)
		VALUES ($1, $2, $3, $4, 0, '{}', $5, $6)`
	if _, err := r.db.ExecContext(ctx, query,
		post.ID,
		post.Content,
		post.PostedBy,
		nullUUID(post.AuthorID),
		post.Timestamp,
		post.CreatedAt,
	); err != nil {
		return models.Post{}, translatePostgresError(err)
	}
	return post, nil
}

func (r *PostgresPostRepository) List(ctx context.Context, limit int) ([]models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM community_posts ORDER BY created_at DESC`
	var args []any
	if limit > 0 {
		query += ` LIMIT $1`
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts := []models.Post{}
	index := map[string]int{}
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		index[post.ID] = len(posts)
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(posts) == 0 {
		return posts, nil
	}

	ids := make([]string, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.ID)
	}
	comments, err := r.loadComments(ctx, ids)
	if err != nil {
		return nil, err
	}
	for postID, list := range comments {
		posts[index[postID]].Comments = list
	}
	return posts, nil
}

func (r *PostgresPostRepository) Get(ctx context.Context, id string) (models.Post, error) {
	parsed, err := parseUUID(id)
	if err != nil {
		return models.Post{}, err
	}

	row := r.db.QueryRowContext(ctx, `SELECT `+postColumns+` FROM community_posts WHERE id = $1`, parsed)
	post, err := scanPost(row)
	if err != nil {
		return models.Post{}, translatePostgresError(err)
	}
	return r.withComments(ctx, post)
}

func (r *PostgresPostRepository) AddComment(ctx context.Context, postID string, comment models.Comment) (models.Comment, error) {
	parsed, err := parseUUID(postID)
	if err != nil {
		return models.Comment{}, err
	}
	comment.ID = uuid.NewString()

	// INSERT ... SELECT inserts nothing when the post is gone.
	const query = `
		INSERT INTO community_comments (id, post_id, content, posted_by, display_timestamp, created_at)
		SELECT $1, p.id, $3, $4, $5, NOW()
		FROM community_posts p
		WHERE p.id = $2`
	result, err := r.db.ExecContext(ctx, query, comment.ID, parsed, comment.Content, comment.PostedBy, comment.Timestamp)
	if err != nil {
		return models.Comment{}, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return models.Comment{}, err
	}
	if affected == 0 {
		return models.Comment{}, ErrNotFound
	}
	return comment, nil
}

// ToggleUpvote flips the voter's like in one UPDATE; the row lock serializes concurrent voters.
func (r *PostgresPostRepository) ToggleUpvote(ctx context.Context, postID, voterID string) (models.Post, error) {
	parsed, err := parseUUID(postID)
	if err != nil {
		return models.Post{}, err
	}

	query := `
		UPDATE community_posts
		SET likes = CASE WHEN $2::text = ANY(upvoted_by) THEN GREATEST(likes - 1, 0) ELSE likes + 1 END,
			upvoted_by = CASE WHEN $2::text = ANY(upvoted_by) THEN array_remove(upvoted_by, $2::text) ELSE array_append(upvoted_by, $2::text) END
		WHERE id = $1
		RETURNING ` + postColumns
	post, err := scanPost(r.db.QueryRowContext(ctx, query, parsed, voterID))
	if err != nil {
		return models.Post{}, translatePostgresError(err)
	}
	return r.withComments(ctx, post)
}

func (r *PostgresPostRepository) Delete(ctx context.Context, id string) error {
	parsed, err := parseUUID(id)
	if err != nil {
		return err
	}
	result, err := r.db.ExecContext(ctx, `DELETE FROM community_posts WHERE id = $1`, parsed)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresPostRepository) CountByAuthor(ctx context.Context, authorID, name string) (int64, error) {
	const query = `
		SELECT COUNT(*) FROM community_posts
		WHERE author_id = $1
		   OR (author_id IS NULL AND $2 <> '' AND posted_by = $2)`
	var total int64
	err := r.db.QueryRowContext(ctx, query, nullUUID(authorID), name).Scan(&total)
	return total, err
}

func (r *PostgresPostRepository) withComments(ctx context.Context, post models.Post) (models.Post, error) {
	comments, err := r.loadComments(ctx, []string{post.ID})
	if err != nil {
		return models.Post{}, err
	}
	if list, ok := comments[post.ID]; ok {
		post.Comments = list
	}
	return post, nil
}

// loadComments returns the comments of each post, oldest first.
func (r *PostgresPostRepository) loadComments(ctx context.Context, postIDs []string) (map[string][]models.Comment, error) {
	const query = `
		SELECT post_id, id, content, posted_by, display_timestamp
		FROM community_comments
		WHERE post_id = ANY($1::uuid[])
		ORDER BY created_at ASC`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(postIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string][]models.Comment, len(postIDs))
	for rows.Next() {
		var postID string
		var c models.Comment
		if err := rows.Scan(&postID, &c.ID, &c.Content, &c.PostedBy, &c.Timestamp); err != nil {
			return nil, err
		}
		out[postID] = append(out[postID], c)
	}
	return out, rows.Err()
}
