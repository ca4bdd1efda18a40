package handler

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"goblog/internal/session"
)

func postForm(t *testing.T, handler http.HandlerFunc, target string, form url.Values, wrap func(*http.Request) *http.Request) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if wrap != nil {
		req = wrap(req)
	}

	rr := httptest.NewRecorder()
	handler(rr, req)
	return rr
}

func TestRegister(t *testing.T) {
	db := testDB(t)
	sm := testSessionManager(t)
	h := NewAuthHandler(db, testRenderer(t, sm), sm)

	withSession := func(r *http.Request) *http.Request { return requestWithSession(sm, r) }

	t.Run("success logs user in and redirects home", func(t *testing.T) {
		rr := postForm(t, h.Register, "/register", url.Values{
			"name":     {"Alice"},
			"email":    {"alice@example.com"},
			"password": {"correct horse"},
		}, withSession)

		assertStatus(t, rr.Code, http.StatusSeeOther)
		if loc := rr.Header().Get("Location"); loc != "/" {
			t.Errorf("Location = %q; want /", loc)
		}

		var count int
		if err := db.QueryRow(`SELECT COUNT(*) FROM users WHERE email = 'alice@example.com'`).Scan(&count); err != nil {
			t.Fatal(err)
		}
		if count != 1 {
			t.Errorf("user count = %d; want 1", count)
		}
	})

	t.Run("duplicate email redisplays the form", func(t *testing.T) {
		createTestUser(t, db, "bob@example.com", "Bob", "password123")

		rr := postForm(t, h.Register, "/register", url.Values{
			"name":     {"Bob Again"},
			"email":    {"bob@example.com"},
			"password": {"password123"},
		}, withSession)

		assertStatus(t, rr.Code, http.StatusSeeOther)
		if loc := rr.Header().Get("Location"); loc != "/register" {
			t.Errorf("Location = %q; want /register", loc)
		}

		var count int
		if err := db.QueryRow(`SELECT COUNT(*) FROM users WHERE email = 'bob@example.com'`).Scan(&count); err != nil {
			t.Fatal(err)
		}
		if count != 1 {
			t.Errorf("user count = %d; want 1 (no duplicate account)", count)
		}
	})

	t.Run("any non-empty password is accepted", func(t *testing.T) {
		var sessionUserID int64
		next := func(w http.ResponseWriter, r *http.Request) {
			h.Register(w, r)
			sessionUserID = session.UserID(r.Context(), sm)
		}

		rr := postForm(t, next, "/register", url.Values{
			"name":     {"Carol"},
			"email":    {"carol@x.com"},
			"password": {"pw1"},
		}, withSession)

		assertStatus(t, rr.Code, http.StatusSeeOther)
		if loc := rr.Header().Get("Location"); loc != "/" {
			t.Errorf("Location = %q; want /", loc)
		}

		var count int
		if err := db.QueryRow(`SELECT COUNT(*) FROM users WHERE email = 'carol@x.com'`).Scan(&count); err != nil {
			t.Fatal(err)
		}
		if count != 1 {
			t.Errorf("user count = %d; want 1", count)
		}
		if sessionUserID == 0 {
			t.Error("session not logged in after registration")
		}
	})

	t.Run("empty password rejected", func(t *testing.T) {
		rr := postForm(t, h.Register, "/register", url.Values{
			"name":  {"Eve"},
			"email": {"eve@example.com"},
		}, withSession)

		assertStatus(t, rr.Code, http.StatusSeeOther)
		if loc := rr.Header().Get("Location"); loc != "/register" {
			t.Errorf("Location = %q; want /register", loc)
		}

		var count int
		if err := db.QueryRow(`SELECT COUNT(*) FROM users WHERE email = 'eve@example.com'`).Scan(&count); err != nil {
			t.Fatal(err)
		}
		if count != 0 {
			t.Errorf("user count = %d; want 0", count)
		}
	})

	t.Run("email is normalized to lowercase", func(t *testing.T) {
		rr := postForm(t, h.Register, "/register", url.Values{
			"name":     {"Dave"},
			"email":    {"Dave@Example.com"},
			"password": {"password123"},
		}, withSession)

		assertStatus(t, rr.Code, http.StatusSeeOther)

		var count int
		if err := db.QueryRow(`SELECT COUNT(*) FROM users WHERE email = 'dave@example.com'`).Scan(&count); err != nil {
			t.Fatal(err)
		}
		if count != 1 {
			t.Errorf("user count = %d; want 1", count)
		}
	})
}

func TestLogin(t *testing.T) {
	db := testDB(t)
	sm := testSessionManager(t)
	h := NewAuthHandler(db, testRenderer(t, sm), sm)

	user := createTestUser(t, db, "alice@example.com", "Alice", "password123")
	withSession := func(r *http.Request) *http.Request { return requestWithSession(sm, r) }

	t.Run("valid credentials redirect home", func(t *testing.T) {
		var sessionUserID int64
		next := func(w http.ResponseWriter, r *http.Request) {
			h.Login(w, r)
			sessionUserID = session.UserID(r.Context(), sm)
		}

		rr := postForm(t, next, "/login", url.Values{
			"email":    {"alice@example.com"},
			"password": {"password123"},
		}, withSession)

		assertStatus(t, rr.Code, http.StatusSeeOther)
		if loc := rr.Header().Get("Location"); loc != "/" {
			t.Errorf("Location = %q; want /", loc)
		}
		if sessionUserID != user.ID {
			t.Errorf("session user id = %d; want %d", sessionUserID, user.ID)
		}
	})

	t.Run("wrong password redirects back to login", func(t *testing.T) {
		rr := postForm(t, h.Login, "/login", url.Values{
			"email":    {"alice@example.com"},
			"password": {"wrong-password"},
		}, withSession)

		assertStatus(t, rr.Code, http.StatusSeeOther)
		if loc := rr.Header().Get("Location"); loc != "/login" {
			t.Errorf("Location = %q; want /login", loc)
		}
	})

	t.Run("unknown email redirects back to login", func(t *testing.T) {
		rr := postForm(t, h.Login, "/login", url.Values{
			"email":    {"nobody@example.com"},
			"password": {"password123"},
		}, withSession)

		assertStatus(t, rr.Code, http.StatusSeeOther)
		if loc := rr.Header().Get("Location"); loc != "/login" {
			t.Errorf("Location = %q; want /login", loc)
		}
	})

	t.Run("missing fields redirect back to login", func(t *testing.T) {
		rr := postForm(t, h.Login, "/login", url.Values{}, withSession)

		assertStatus(t, rr.Code, http.StatusSeeOther)
		if loc := rr.Header().Get("Location"); loc != "/login" {
			t.Errorf("Location = %q; want /login", loc)
		}
	})
}

func TestLoginDatabaseError(t *testing.T) {
	db := testDB(t)
	sm := testSessionManager(t)
	h := NewAuthHandler(db, testRenderer(t, sm), sm)

	// A failing store is an internal error, not a login rejection.
	if err := db.Close(); err != nil {
		t.Fatal(err)
	}

	rr := postForm(t, h.Login, "/login", url.Values{
		"email":    {"alice@example.com"},
		"password": {"password123"},
	}, func(r *http.Request) *http.Request { return requestWithSession(sm, r) })

	assertStatus(t, rr.Code, http.StatusInternalServerError)
}

func TestLoginFormRedirectsAuthenticated(t *testing.T) {
	db := testDB(t)
	sm := testSessionManager(t)
	h := NewAuthHandler(db, testRenderer(t, sm), sm)

	user := createTestUser(t, db, "alice@example.com", "Alice", "password123")

	req := httptest.NewRequest(http.MethodGet, "/login", nil)
	req = requestWithSession(sm, req)
	sm.Put(req.Context(), session.KeyUserID, user.ID)

	rr := httptest.NewRecorder()
	h.LoginForm(rr, req)

	assertStatus(t, rr.Code, http.StatusSeeOther)
	if loc := rr.Header().Get("Location"); loc != "/" {
		t.Errorf("Location = %q; want /", loc)
	}
}

func TestLogout(t *testing.T) {
	db := testDB(t)
	sm := testSessionManager(t)
	h := NewAuthHandler(db, testRenderer(t, sm), sm)

	user := createTestUser(t, db, "alice@example.com", "Alice", "password123")

	req := httptest.NewRequest(http.MethodGet, "/logout", nil)
	req = requestWithSession(sm, req)
	sm.Put(req.Context(), session.KeyUserID, user.ID)

	var sessionUserID int64 = -1
	rr := httptest.NewRecorder()
	http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.Logout(w, r)
		sessionUserID = session.UserID(r.Context(), sm)
	}).ServeHTTP(rr, req)

	assertStatus(t, rr.Code, http.StatusSeeOther)
	if loc := rr.Header().Get("Location"); loc != "/login" {
		t.Errorf("Location = %q; want /login", loc)
	}
	if sessionUserID != 0 {
		t.Errorf("session user id after logout = %d; want 0", sessionUserID)
	}
}
