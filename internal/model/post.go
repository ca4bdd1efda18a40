package model

import "time"

// Post represents a blog entry. The body is stored as Markdown and
// rendered to sanitized HTML at display time.
type Post struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Subtitle  string    `json:"subtitle"`
	Slug      string    `json:"slug"`
	Body      string    `json:"body"`
	ImageURL  string    `json:"image_url"`
	AuthorID  int64     `json:"author_id"`
	CreatedAt time.Time `json:"created_at"`
}
