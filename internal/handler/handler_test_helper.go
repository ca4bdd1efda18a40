package handler

import (
	"context"
	"database/sql"
	"net/http"
	"testing"
	"testing/fstest"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	_ "modernc.org/sqlite"

	"goblog/internal/auth"
	"goblog/internal/middleware"
	"goblog/internal/model"
	"goblog/internal/render"
	"goblog/internal/util"
)

// testDB creates an in-memory SQLite database with the required schema.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	// A second pool connection would see its own empty in-memory database.
	db.SetMaxOpenConns(1)

	schema := `
		PRAGMA foreign_keys = ON;

		CREATE TABLE users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			email TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL,
			password_hash TEXT NOT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE posts (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			title TEXT NOT NULL UNIQUE,
			subtitle TEXT NOT NULL DEFAULT '',
			slug TEXT NOT NULL,
			body TEXT NOT NULL,
			image_url TEXT NOT NULL DEFAULT '',
			author_id INTEGER NOT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (author_id) REFERENCES users(id)
		);
		CREATE INDEX idx_posts_slug ON posts(slug);

		CREATE TABLE comments (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			body TEXT NOT NULL,
			author_id INTEGER NOT NULL,
			post_id INTEGER NOT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (author_id) REFERENCES users(id),
			FOREIGN KEY (post_id) REFERENCES posts(id) ON DELETE CASCADE
		);

		CREATE TABLE sessions (
			token TEXT PRIMARY KEY,
			data BLOB NOT NULL,
			expiry REAL NOT NULL
		);

		CREATE TABLE events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			level TEXT NOT NULL DEFAULT 'info',
			category TEXT NOT NULL DEFAULT 'system',
			message TEXT NOT NULL,
			user_id INTEGER,
			ip_address TEXT NOT NULL DEFAULT '',
			metadata TEXT NOT NULL DEFAULT '{}',
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE SET NULL
		);
	`

	if _, err := db.Exec(schema); err != nil {
		t.Fatalf("failed to create test schema: %v", err)
	}

	t.Cleanup(func() {
		_ = db.Close()
	})

	return db
}

// testSessionManager creates a session manager for testing.
func testSessionManager(t *testing.T) *scs.SessionManager {
	t.Helper()
	sm := scs.New()
	sm.Lifetime = 24 * time.Hour
	return sm
}

// testRenderer creates a renderer with minimal in-memory templates.
func testRenderer(t *testing.T, sm *scs.SessionManager) *render.Renderer {
	t.Helper()

	templates := fstest.MapFS{
		"layouts/base.html": &fstest.MapFile{
			Data: []byte(`{{define "base"}}<title>{{.Title}}</title>{{block "content" .}}{{end}}{{end}}`),
		},
		"partials/flash.html": &fstest.MapFile{
			Data: []byte(`{{define "flash"}}{{.Flash}}{{end}}`),
		},
		"pages/index.html": &fstest.MapFile{
			Data: []byte(`{{define "content"}}{{range .Data}}<h2>{{.Title}}</h2>{{end}}{{end}}`),
		},
		"pages/post.html": &fstest.MapFile{
			Data: []byte(`{{define "content"}}<h1>{{.Data.Post.Title}}</h1>{{range .Data.Comments}}<p>{{.Body}}</p>{{end}}{{end}}`),
		},
		"pages/make-post.html": &fstest.MapFile{
			Data: []byte(`{{define "content"}}<form><input name="title" value="{{.Data.Post.Title}}"></form>{{end}}`),
		},
		"pages/register.html": &fstest.MapFile{
			Data: []byte(`{{define "content"}}<form method="post"></form>{{end}}`),
		},
		"pages/login.html": &fstest.MapFile{
			Data: []byte(`{{define "content"}}<form method="post"></form>{{end}}`),
		},
		"pages/about.html": &fstest.MapFile{
			Data: []byte(`{{define "content"}}about{{end}}`),
		},
		"pages/contact.html": &fstest.MapFile{
			Data: []byte(`{{define "content"}}contact{{end}}`),
		},
	}

	renderer, err := render.New(render.Config{
		TemplatesFS:    templates,
		SessionManager: sm,
		IsDev:          true,
	})
	if err != nil {
		t.Fatalf("failed to create test renderer: %v", err)
	}
	return renderer
}

// createTestUser creates a user with a real password hash.
func createTestUser(t *testing.T, db *sql.DB, email, name, password string) model.User {
	t.Helper()

	hash, err := auth.HashPassword(password)
	if err != nil {
		t.Fatalf("failed to hash test password: %v", err)
	}

	now := time.Now()
	result, err := db.Exec(
		`INSERT INTO users (email, name, password_hash, created_at) VALUES (?, ?, ?, ?)`,
		email, name, hash, now,
	)
	if err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}

	id, _ := result.LastInsertId()
	return model.User{ID: id, Email: email, Name: name, PasswordHash: hash, CreatedAt: now}
}

// createTestPost creates a post authored by the given user.
func createTestPost(t *testing.T, db *sql.DB, authorID int64, title, body string) model.Post {
	t.Helper()

	now := time.Now()
	result, err := db.Exec(
		`INSERT INTO posts (title, subtitle, slug, body, image_url, author_id, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		title, "", util.Slugify(title), body, "", authorID, now,
	)
	if err != nil {
		t.Fatalf("failed to create test post: %v", err)
	}

	id, _ := result.LastInsertId()
	return model.Post{ID: id, Title: title, Slug: util.Slugify(title), Body: body, AuthorID: authorID, CreatedAt: now}
}

// requestWithURLParams adds chi URL parameters to a request.
func requestWithURLParams(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for key, value := range params {
		rctx.URLParams.Add(key, value)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// requestWithSession wraps a request with loaded session context.
func requestWithSession(sm *scs.SessionManager, r *http.Request) *http.Request {
	ctx, err := sm.Load(r.Context(), "")
	if err != nil {
		return r
	}
	return r.WithContext(ctx)
}

// requestWithUser places a user in the request context the way the
// auth middleware does.
func requestWithUser(r *http.Request, user model.User) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), middleware.ContextKeyUser, user))
}

// assertStatus checks the response status code.
func assertStatus(t *testing.T, got, want int) {
	t.Helper()
	if got != want {
		t.Errorf("status = %d; want %d", got, want)
	}
}
