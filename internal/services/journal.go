package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/willora/willora-backend/internal/models"
	"github.com/willora/willora-backend/internal/store"
)

// Clock bundles the time source and the timezone that decides calendar days.
type Clock struct {
	Now      func() time.Time
	Location *time.Location
}

// SystemClock reads the wall clock in loc.
func SystemClock(loc *time.Location) Clock {
	if loc == nil {
		loc = time.Local
	}
	return Clock{Now: time.Now, Location: loc}
}

// Today returns the current calendar date in the clock's timezone.
func (c Clock) Today() string {
	return c.Now().In(c.Location).Format(models.DateLayout)
}

// DateOf returns the calendar date of t in the clock's timezone.
func (c Clock) DateOf(t time.Time) string {
	return t.In(c.Location).Format(models.DateLayout)
}

// JournalService manages private journal entries.
type JournalService struct {
	journals store.JournalRepository
	clock    Clock
}

func NewJournalService(journals store.JournalRepository, clock Clock) *JournalService {
	return &JournalService{journals: journals, clock: clock}
}

// Create stores an entry for userID. A blank dateOnly means today.
func (s *JournalService) Create(ctx context.Context, userID, text, mood, dateOnly string) (models.JournalEntry, error) {
	if strings.TrimSpace(text) == "" || strings.TrimSpace(mood) == "" {
		return models.JournalEntry{}, validationError("Text and mood are required")
	}

	dateOnly = strings.TrimSpace(dateOnly)
	if dateOnly == "" {
		dateOnly = s.clock.Today()
	} else if _, err := time.Parse(models.DateLayout, dateOnly); err != nil {
		return models.JournalEntry{}, validationError("dateOnly must be formatted as YYYY-MM-DD")
	}

	entry, err := s.journals.Create(ctx, models.JournalEntry{
		UserID:   userID,
		Text:     text,
		Mood:     strings.TrimSpace(mood),
		DateOnly: dateOnly,
	})
	if err != nil {
		return models.JournalEntry{}, serviceError("create entry", err)
	}
	return entry, nil
}

// List returns every entry of userID, newest first.
func (s *JournalService) List(ctx context.Context, userID string) ([]models.JournalEntry, error) {
	entries, err := s.journals.ListByUser(ctx, userID, 0)
	if err != nil {
		return nil, serviceError("list entries", err)
	}
	return entries, nil
}

// Delete removes an entry owned by userID. Entries of other users are reported as missing.
func (s *JournalService) Delete(ctx context.Context, userID, entryID string) error {
	if err := s.journals.DeleteForUser(ctx, userID, entryID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		return serviceError("delete entry", err)
	}
	return nil
}
