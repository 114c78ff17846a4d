package services

import (
	"context"
	"fmt"
	"testing"
)

func TestDashboardViews(t *testing.T) {
	s := newTestStore()
	dash := NewDashboardService(s, fixedClock(), []string{"a", "b", "c"}, []string{"q"})
	ctx := context.Background()

	for i := 0; i < 9; i++ {
		mustEntry(t, s, "u1", fmt.Sprintf("mood-%d", i), "2026-03-15")
	}
	mustEntry(t, s, "u2", "other", "2026-03-15")

	recent, err := dash.RecentJournals(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if len(recent) != 3 || recent[0].Mood != "mood-8" {
		t.Fatalf("unexpected recent journals: %+v", recent)
	}

	trend, err := dash.MoodTrend(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if len(trend) != 7 {
		t.Fatalf("trend has %d points, want 7", len(trend))
	}
	// The seven newest entries, oldest of them first.
	if trend[0].Mood != "mood-2" || trend[6].Mood != "mood-8" {
		t.Fatalf("unexpected trend order: %+v", trend)
	}
	if trend[0].Date == "" {
		t.Fatal("trend point has no date")
	}

	totals, err := dash.Stats(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if totals.Total != 9 || totals.Streak != 1 {
		t.Fatalf("unexpected totals: %+v", totals)
	}
}

func TestDashboardEmptyUser(t *testing.T) {
	dash := NewDashboardService(newTestStore(), fixedClock(), nil, nil)
	ctx := context.Background()

	trend, err := dash.MoodTrend(ctx, "nobody")
	if err != nil || len(trend) != 0 {
		t.Fatalf("trend = %v, %v", trend, err)
	}
	totals, err := dash.Stats(ctx, "nobody")
	if err != nil || totals.Total != 0 || totals.Streak != 0 {
		t.Fatalf("totals = %+v, %v", totals, err)
	}
	if tip := dash.Tip(); tip != "" {
		t.Fatalf("tip from empty table = %q", tip)
	}
}

func TestCommunityHighlights(t *testing.T) {
	s := newTestStore()
	dash := NewDashboardService(s, fixedClock(), nil, nil)
	community := NewCommunityService(s.Posts, fixedClock())
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, _ = community.CreatePost(ctx, fmt.Sprintf("post-%d", i), "", "")
	}
	posts, err := dash.CommunityHighlights(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(posts) != 3 || posts[0].Content != "post-4" || posts[2].Content != "post-2" {
		t.Fatalf("unexpected highlights: %+v", posts)
	}
}

func TestTipAndQuoteComeFromTables(t *testing.T) {
	tips := []string{"one", "two", "three"}
	dash := NewDashboardService(newTestStore(), fixedClock(), tips, []string{"only quote"})

	for i := range tips {
		dash.pick = func(n int) int {
			if n != len(tips) {
				t.Fatalf("pick called with n=%d", n)
			}
			return i
		}
		if got := dash.Tip(); got != tips[i] {
			t.Errorf("Tip() = %q, want %q", got, tips[i])
		}
	}

	dash.pick = func(int) int { return 0 }
	if got := dash.Quote(); got != "only quote" {
		t.Errorf("Quote() = %q", got)
	}
}
