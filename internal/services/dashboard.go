package services

import (
	"context"
	"math/rand/v2"

	"github.com/willora/willora-backend/internal/models"
	"github.com/willora/willora-backend/internal/store"
)

const (
	recentJournalLimit   = 3
	moodTrendLimit       = 7
	communityHighlightsN = 3
)

// DashboardService assembles the read-only dashboard views.
type DashboardService struct {
	journals store.JournalRepository
	posts    store.PostRepository
	clock    Clock
	tips     []string
	quotes   []string
	// pick returns an index in [0, n).
	pick func(n int) int
}

func NewDashboardService(s *store.Store, clock Clock, tips, quotes []string) *DashboardService {
	return &DashboardService{
		journals: s.Journals,
		posts:    s.Posts,
		clock:    clock,
		tips:     tips,
		quotes:   quotes,
		pick:     rand.IntN,
	}
}

// RecentJournals returns the three newest entries of userID.
func (s *DashboardService) RecentJournals(ctx context.Context, userID string) ([]models.JournalEntry, error) {
	entries, err := s.journals.ListByUser(ctx, userID, recentJournalLimit)
	if err != nil {
		return nil, serviceError("recent journals", err)
	}
	return entries, nil
}

// MoodTrend returns the seven newest entries as (date, mood) samples, oldest first.
func (s *DashboardService) MoodTrend(ctx context.Context, userID string) ([]models.MoodPoint, error) {
	entries, err := s.journals.ListByUser(ctx, userID, moodTrendLimit)
	if err != nil {
		return nil, serviceError("mood trend", err)
	}

	points := make([]models.MoodPoint, len(entries))
	for i, e := range entries {
		points[len(entries)-1-i] = models.MoodPoint{
			Date: s.clock.DateOf(e.CreatedAt),
			Mood: e.Mood,
		}
	}
	return points, nil
}

// Stats returns the entry total and the current streak of userID.
func (s *DashboardService) Stats(ctx context.Context, userID string) (models.JournalTotals, error) {
	total, err := s.journals.CountByUser(ctx, userID)
	if err != nil {
		return models.JournalTotals{}, serviceError("count entries", err)
	}
	entries, err := s.journals.ListByUser(ctx, userID, 0)
	if err != nil {
		return models.JournalTotals{}, serviceError("journal stats", err)
	}
	return models.JournalTotals{
		Total:  total,
		Streak: Streak(entries, s.clock),
	}, nil
}

// CommunityHighlights returns the three newest posts.
func (s *DashboardService) CommunityHighlights(ctx context.Context) ([]models.Post, error) {
	posts, err := s.posts.List(ctx, communityHighlightsN)
	if err != nil {
		return nil, serviceError("community highlights", err)
	}
	return posts, nil
}

// Tip returns one motivational tip chosen uniformly at random.
func (s *DashboardService) Tip() string {
	return s.choose(s.tips)
}

// Quote returns one insight quote chosen uniformly at random.
func (s *DashboardService) Quote() string {
	return s.choose(s.quotes)
}

func (s *DashboardService) choose(from []string) string {
	if len(from) == 0 {
		return ""
	}
	return from[s.pick(len(from))]
}
