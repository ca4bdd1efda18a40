package store

import (
	"context"
	"time"

	"goblog/internal/model"
)

// CommentWithAuthor is a comment joined with its author's display data
// for rendering under a post.
type CommentWithAuthor struct {
	model.Comment
	AuthorName  string
	AuthorEmail string
}

// CreateCommentParams holds the fields for creating a comment.
type CreateCommentParams struct {
	Body      string
	AuthorID  int64
	PostID    int64
	CreatedAt time.Time
}

const createComment = `
INSERT INTO comments (body, author_id, post_id, created_at)
VALUES (?, ?, ?, ?)
RETURNING id, body, author_id, post_id, created_at
`

// CreateComment inserts a new comment under a post.
func (q *Queries) CreateComment(ctx context.Context, arg CreateCommentParams) (model.Comment, error) {
	row := q.db.QueryRowContext(ctx, createComment, arg.Body, arg.AuthorID, arg.PostID, arg.CreatedAt)
	var c model.Comment
	err := row.Scan(&c.ID, &c.Body, &c.AuthorID, &c.PostID, &c.CreatedAt)
	return c, err
}

const listCommentsForPost = `
SELECT c.id, c.body, c.author_id, c.post_id, c.created_at, u.name, u.email
FROM comments c
JOIN users u ON u.id = c.author_id
WHERE c.post_id = ?
ORDER BY c.id
`

// ListCommentsForPost returns a post's comments in insertion order with
// author details attached.
func (q *Queries) ListCommentsForPost(ctx context.Context, postID int64) ([]CommentWithAuthor, error) {
	rows, err := q.db.QueryContext(ctx, listCommentsForPost, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []CommentWithAuthor
	for rows.Next() {
		var c CommentWithAuthor
		if err := rows.Scan(&c.ID, &c.Body, &c.AuthorID, &c.PostID, &c.CreatedAt,
			&c.AuthorName, &c.AuthorEmail); err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

const countCommentsForPost = `
SELECT COUNT(*) FROM comments WHERE post_id = ?
`

// CountCommentsForPost returns the number of comments under a post.
func (q *Queries) CountCommentsForPost(ctx context.Context, postID int64) (int64, error) {
	row := q.db.QueryRowContext(ctx, countCommentsForPost, postID)
	var n int64
	err := row.Scan(&n)
	return n, err
}
