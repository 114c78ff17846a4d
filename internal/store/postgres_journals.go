package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/willora/willora-backend/internal/models"
)

// PostgresJournalRepository handles persistence for journal entries.
type PostgresJournalRepository struct {
	db *sql.DB
}

func (r *PostgresJournalRepository) Create(ctx context.Context, entry models.JournalEntry) (models.JournalEntry, error) {
	owner, err := parseUUID(entry.UserID)
	if err != nil {
		return models.JournalEntry{}, err
	}

	now := time.Now().UTC()
	entry.ID = uuid.NewString()
	entry.CreatedAt = now
	entry.UpdatedAt = now

	const query = `
		INSERT INTO journal_entries (id, user_id, text, mood, date_only, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	if _, err := r.db.ExecContext(ctx, query,
		entry.ID,
		owner,
		entry.Text,
		entry.Mood,
		entry.DateOnly,
		entry.CreatedAt,
		entry.UpdatedAt,
	); err != nil {
		return models.JournalEntry{}, translatePostgresError(err)
	}
	return entry, nil
}

func (r *PostgresJournalRepository) ListByUser(ctx context.Context, userID string, limit int) ([]models.JournalEntry, error) {
	entries := []models.JournalEntry{}
	owner, err := parseUUID(userID)
	if err != nil {
		return entries, nil
	}

	query := `
		SELECT id, user_id, text, mood, date_only, created_at, updated_at
		FROM journal_entries
		WHERE user_id = $1
		ORDER BY created_at DESC`
	args := []any{owner}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var entry models.JournalEntry
		if err := rows.Scan(
			&entry.ID,
			&entry.UserID,
			&entry.Text,
			&entry.Mood,
			&entry.DateOnly,
			&entry.CreatedAt,
			&entry.UpdatedAt,
		); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *PostgresJournalRepository) CountByUser(ctx context.Context, userID string) (int64, error) {
	owner, err := parseUUID(userID)
	if err != nil {
		return 0, nil
	}
	var total int64
	err = r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM journal_entries WHERE user_id = $1`, owner).Scan(&total)
	return total, err
}

func (r *PostgresJournalRepository) DeleteForUser(ctx context.Context, userID, entryID string) error {
	owner, err := parseUUID(userID)
	if err != nil {
		return err
	}
	id, err := parseUUID(entryID)
	if err != nil {
		return err
	}

	result, err := r.db.ExecContext(ctx, `DELETE FROM journal_entries WHERE id = $1 AND user_id = $2`, id, owner)
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
