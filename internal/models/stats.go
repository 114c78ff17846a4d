package models

// UserStats is the profile statistics view for one user.
type UserStats struct {
	Name           string      `json:"name"`
	Email          string      `json:"email"`
	TotalEntries   int64       `json:"totalEntries"`
	AverageMood    MoodAverage `json:"averageMood"`
	Streak         int         `json:"streak"`
	CommunityPosts int64       `json:"communityPosts"`
}

// JournalTotals is the dashboard summary of a user's journaling.
type JournalTotals struct {
	Total  int64 `json:"total"`
	Streak int   `json:"streak"`
}
