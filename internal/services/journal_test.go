package services

import (
	"context"
	"errors"
	"testing"
)

func TestJournalCreate(t *testing.T) {
	s := newTestStore()
	journal := NewJournalService(s.Journals, fixedClock())
	ctx := context.Background()

	entry, err := journal.Create(ctx, "u1", "A good day", "Happy", "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if entry.DateOnly != "2026-03-15" {
		t.Errorf("dateOnly = %q, want today", entry.DateOnly)
	}
	if entry.UserID != "u1" || entry.ID == "" || entry.CreatedAt.IsZero() {
		t.Errorf("unexpected entry: %+v", entry)
	}

	entry, err = journal.Create(ctx, "u1", "Back-dated", "😊", "2026-03-01")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if entry.DateOnly != "2026-03-01" {
		t.Errorf("dateOnly = %q, want the supplied date", entry.DateOnly)
	}
}

func TestJournalCreateValidation(t *testing.T) {
	journal := NewJournalService(newTestStore().Journals, fixedClock())
	tests := []struct {
		name, text, mood, date string
	}{
		{"missing text", "  ", "Happy", ""},
		{"missing mood", "text", "", ""},
		{"bad date", "text", "Happy", "15/03/2026"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := journal.Create(context.Background(), "u1", tt.text, tt.mood, tt.date)
			if !errors.Is(err, ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestJournalListIsScopedAndNewestFirst(t *testing.T) {
	s := newTestStore()
	journal := NewJournalService(s.Journals, fixedClock())
	ctx := context.Background()

	first, _ := journal.Create(ctx, "u1", "first", "Sad", "")
	second, _ := journal.Create(ctx, "u1", "second", "Happy", "")
	_, _ = journal.Create(ctx, "u2", "other", "Happy", "")

	entries, err := journal.List(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].ID != second.ID || entries[1].ID != first.ID {
		t.Fatalf("entries not newest first")
	}
}

func TestJournalDeleteRequiresOwner(t *testing.T) {
	s := newTestStore()
	journal := NewJournalService(s.Journals, fixedClock())
	ctx := context.Background()

	entry, _ := journal.Create(ctx, "owner", "mine", "Happy", "")

	if err := journal.Delete(ctx, "intruder", entry.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for another user, got %v", err)
	}
	if err := journal.Delete(ctx, "owner", entry.ID); err != nil {
		t.Fatalf("owner delete: %v", err)
	}
	if err := journal.Delete(ctx, "owner", entry.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}
