package services

import (
	"context"
	"errors"
	"time"

	"github.com/willora/willora-backend/internal/models"
	"github.com/willora/willora-backend/internal/store"
)

// StatsService derives profile statistics from a user's entries and posts.
type StatsService struct {
	users    store.UserRepository
	journals store.JournalRepository
	posts    store.PostRepository
	clock    Clock
}

func NewStatsService(s *store.Store, clock Clock) *StatsService {
	return &StatsService{users: s.Users, journals: s.Journals, posts: s.Posts, clock: clock}
}

// UserStats returns the statistics view for userID. Any store failure fails the whole view.
func (s *StatsService) UserStats(ctx context.Context, userID string) (models.UserStats, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return models.UserStats{}, ErrNotFound
		}
		return models.UserStats{}, serviceError("load user", err)
	}

	total, err := s.journals.CountByUser(ctx, userID)
	if err != nil {
		return models.UserStats{}, serviceError("count entries", err)
	}
	entries, err := s.journals.ListByUser(ctx, userID, 0)
	if err != nil {
		return models.UserStats{}, serviceError("list entries", err)
	}

	posts, err := s.posts.CountByAuthor(ctx, user.ID, user.Name)
	if err != nil {
		return models.UserStats{}, serviceError("count posts", err)
	}

	return models.UserStats{
		Name:           user.Name,
		Email:          user.Email,
		TotalEntries:   total,
		AverageMood:    AverageMood(entries),
		Streak:         Streak(entries, s.clock),
		CommunityPosts: posts,
	}, nil
}

// AverageMood is the mean mood score of entries; zero when there are none.
func AverageMood(entries []models.JournalEntry) models.MoodAverage {
	if len(entries) == 0 {
		return 0
	}
	total := 0
	for _, e := range entries {
		total += models.MoodScore(e.Mood)
	}
	return models.NewMoodAverage(float64(total) / float64(len(entries)))
}

// Streak counts consecutive calendar days with at least one entry, ending today.
// It is zero when there is no entry for today.
func Streak(entries []models.JournalEntry, clock Clock) int {
	days := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		day := e.DateOnly
		if day == "" {
			day = clock.DateOf(e.CreatedAt)
		}
		days[day] = struct{}{}
	}

	now := clock.Now().In(clock.Location)
	// Calendar arithmetic on the date, so DST transitions never skip or repeat a day.
	expected := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, clock.Location)

	streak := 0
	for {
		if _, ok := days[expected.Format(models.DateLayout)]; !ok {
			return streak
		}
		streak++
		expected = expected.AddDate(0, 0, -1)
	}
}
