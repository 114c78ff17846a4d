package store

import (
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// uniqueViolation is the PostgreSQL SQLSTATE for a unique constraint failure.
const uniqueViolation = "23505"

// NewPostgresStore wires the PostgreSQL repositories onto db.
// Tables are created by database.InitPostgresTables.
func NewPostgresStore(db *sql.DB) *Store {
	return &Store{
		Users:    &PostgresUserRepository{db: db},
		Journals: &PostgresJournalRepository{db: db},
		Posts:    &PostgresPostRepository{db: db},
	}
}

// parseUUID validates an id; malformed ids can never match a row.
func parseUUID(id string) (uuid.UUID, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, ErrNotFound
	}
	return parsed, nil
}

func nullUUID(id string) uuid.NullUUID {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: parsed, Valid: true}
}

func translatePostgresError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
		return ErrDuplicate
	}
	return err
}
