package models

import "time"

// AnonymousAuthor is the display name used when a post or comment has none.
const AnonymousAuthor = "Anonymous"

// TimestampLayout formats the display timestamps on posts and comments.
const TimestampLayout = "1/2/2006, 3:04:05 PM"

// Post is a community board post. Comments are embedded and share its lifecycle.
type Post struct {
	ID       string `json:"_id"`
	Content  string `json:"content"`
	PostedBy string `json:"postedBy"`
	// AuthorID references the user who created the post, when known.
	AuthorID  string    `json:"authorId,omitempty"`
	Likes     int       `json:"likes"`
	UpvotedBy []string  `json:"upvotedBy"`
	Comments  []Comment `json:"comments"`
	Timestamp string    `json:"timestamp"`
	CreatedAt time.Time `json:"createdAt"`
}

type Comment struct {
	ID        string `json:"_id"`
	Content   string `json:"content"`
	PostedBy  string `json:"postedBy"`
	Timestamp string `json:"timestamp"`
}
