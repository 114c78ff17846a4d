package models

import "time"

// DateLayout is the calendar-date format of JournalEntry.DateOnly.
const DateLayout = "2006-01-02"

// JournalEntry is a private journal entry, readable only by its owner.
type JournalEntry struct {
	ID        string    `json:"_id"`
	UserID    string    `json:"user"`
	Text      string    `json:"text"`
	Mood      string    `json:"mood"`
	DateOnly  string    `json:"dateOnly"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// MoodPoint is one sample of the dashboard mood trend.
type MoodPoint struct {
	Date string `json:"date"`
	Mood string `json:"mood"`
}
