package services

import (
	"context"
	"testing"
	"time"

	"github.com/willora/willora-backend/internal/models"
	"github.com/willora/willora-backend/internal/store"
	"github.com/willora/willora-backend/internal/store/memstore"
)

var fixedNow = time.Date(2026, time.March, 15, 10, 30, 0, 0, time.UTC)

func fixedClock() Clock {
	return Clock{Now: func() time.Time { return fixedNow }, Location: time.UTC}
}

func newTestStore() *store.Store {
	return memstore.New()
}

func mustRegister(t *testing.T, auth *AuthService, name, email string) AuthResult {
	t.Helper()
	res, err := auth.Register(context.Background(), name, email, "secret-pass")
	if err != nil {
		t.Fatalf("register %s: %v", email, err)
	}
	return res
}

func mustEntry(t *testing.T, s *store.Store, userID, mood, date string) models.JournalEntry {
	t.Helper()
	entry, err := s.Journals.Create(context.Background(), models.JournalEntry{
		UserID:   userID,
		Text:     "entry",
		Mood:     mood,
		DateOnly: date,
	})
	if err != nil {
		t.Fatalf("create entry: %v", err)
	}
	return entry
}
