package store

import (
	"context"
	"time"

	"goblog/internal/model"
)

// PostWithMeta is a post joined with its author name and comment count
// for list and detail rendering.
type PostWithMeta struct {
	model.Post
	AuthorName   string
	CommentCount int64
}

// CreatePostParams holds the fields for creating a post.
type CreatePostParams struct {
	Title     string
	Subtitle  string
	Slug      string
	Body      string
	ImageURL  string
	AuthorID  int64
	CreatedAt time.Time
}

const createPost = `
INSERT INTO posts (title, subtitle, slug, body, image_url, author_id, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
RETURNING id, title, subtitle, slug, body, image_url, author_id, created_at
`

// CreatePost inserts a new post. A duplicate title yields
// ErrDuplicateTitle and no row is created.
func (q *Queries) CreatePost(ctx context.Context, arg CreatePostParams) (model.Post, error) {
	row := q.db.QueryRowContext(ctx, createPost,
		arg.Title, arg.Subtitle, arg.Slug, arg.Body, arg.ImageURL, arg.AuthorID, arg.CreatedAt)
	var p model.Post
	err := row.Scan(&p.ID, &p.Title, &p.Subtitle, &p.Slug, &p.Body, &p.ImageURL, &p.AuthorID, &p.CreatedAt)
	return p, constraintError(err, "posts.title", ErrDuplicateTitle)
}

const listPosts = `
SELECT p.id, p.title, p.subtitle, p.slug, p.body, p.image_url, p.author_id, p.created_at,
       u.name,
       (SELECT COUNT(*) FROM comments c WHERE c.post_id = p.id)
FROM posts p
JOIN users u ON u.id = p.author_id
ORDER BY p.id
`

// ListPosts returns all posts in insertion order with author name and
// comment count attached.
func (q *Queries) ListPosts(ctx context.Context) ([]PostWithMeta, error) {
	rows, err := q.db.QueryContext(ctx, listPosts)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []PostWithMeta
	for rows.Next() {
		var p PostWithMeta
		if err := rows.Scan(&p.ID, &p.Title, &p.Subtitle, &p.Slug, &p.Body, &p.ImageURL,
			&p.AuthorID, &p.CreatedAt, &p.AuthorName, &p.CommentCount); err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

const getPostByID = `
SELECT p.id, p.title, p.subtitle, p.slug, p.body, p.image_url, p.author_id, p.created_at,
       u.name,
       (SELECT COUNT(*) FROM comments c WHERE c.post_id = p.id)
FROM posts p
JOIN users u ON u.id = p.author_id
WHERE p.id = ?
`

// GetPostByID fetches a post with metadata by primary key.
func (q *Queries) GetPostByID(ctx context.Context, id int64) (PostWithMeta, error) {
	row := q.db.QueryRowContext(ctx, getPostByID, id)
	var p PostWithMeta
	err := row.Scan(&p.ID, &p.Title, &p.Subtitle, &p.Slug, &p.Body, &p.ImageURL,
		&p.AuthorID, &p.CreatedAt, &p.AuthorName, &p.CommentCount)
	return p, err
}

const getPostBySlug = `
SELECT p.id, p.title, p.subtitle, p.slug, p.body, p.image_url, p.author_id, p.created_at,
       u.name,
       (SELECT COUNT(*) FROM comments c WHERE c.post_id = p.id)
FROM posts p
JOIN users u ON u.id = p.author_id
WHERE p.slug = ?
`

// GetPostBySlug fetches a post with metadata by its URL slug.
func (q *Queries) GetPostBySlug(ctx context.Context, slug string) (PostWithMeta, error) {
	row := q.db.QueryRowContext(ctx, getPostBySlug, slug)
	var p PostWithMeta
	err := row.Scan(&p.ID, &p.Title, &p.Subtitle, &p.Slug, &p.Body, &p.ImageURL,
		&p.AuthorID, &p.CreatedAt, &p.AuthorName, &p.CommentCount)
	return p, err
}

// UpdatePostParams holds the fields for updating a post. The creation
// date and author are fixed at creation time.
type UpdatePostParams struct {
	ID       int64
	Title    string
	Subtitle string
	Slug     string
	Body     string
	ImageURL string
}

const updatePost = `
UPDATE posts SET title = ?, subtitle = ?, slug = ?, body = ?, image_url = ?
WHERE id = ?
`

// UpdatePost updates an existing post's editable fields. A duplicate
// title yields ErrDuplicateTitle and leaves the row unchanged.
func (q *Queries) UpdatePost(ctx context.Context, arg UpdatePostParams) error {
	_, err := q.db.ExecContext(ctx, updatePost,
		arg.Title, arg.Subtitle, arg.Slug, arg.Body, arg.ImageURL, arg.ID)
	return constraintError(err, "posts.title", ErrDuplicateTitle)
}

const deletePost = `
DELETE FROM posts WHERE id = ?
`

// DeletePost removes a post. Its comments go with it via the
// ON DELETE CASCADE foreign key.
func (q *Queries) DeletePost(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, deletePost, id)
	return err
}
