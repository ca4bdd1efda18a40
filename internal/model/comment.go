package model

import "time"

// Comment represents a reader comment under a post. Comments are never
// edited or deleted individually; deleting a post removes its comments.
type Comment struct {
	ID        int64     `json:"id"`
	Body      string    `json:"body"`
	AuthorID  int64     `json:"author_id"`
	PostID    int64     `json:"post_id"`
	CreatedAt time.Time `json:"created_at"`
}
