package handler

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/alexedwards/scs/v2"

	"goblog/internal/auth"
	"goblog/internal/middleware"
	"goblog/internal/model"
	"goblog/internal/render"
	"goblog/internal/service"
	"goblog/internal/session"
	"goblog/internal/store"
)

// AuthHandler handles registration, login, and logout.
type AuthHandler struct {
	queries        *store.Queries
	renderer       *render.Renderer
	sessionManager *scs.SessionManager
	eventService   *service.EventService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(db *sql.DB, renderer *render.Renderer, sm *scs.SessionManager) *AuthHandler {
	return &AuthHandler{
		queries:        store.New(db),
		renderer:       renderer,
		sessionManager: sm,
		eventService:   service.NewEventService(db),
	}
}

// RegisterForm renders the registration page. Authenticated users are
// sent back to the homepage.
func (h *AuthHandler) RegisterForm(w http.ResponseWriter, r *http.Request) {
	if session.UserID(r.Context(), h.sessionManager) > 0 {
		http.Redirect(w, r, redirectHome, http.StatusSeeOther)
		return
	}

	if err := h.renderer.Render(w, r, "register", render.TemplateData{Title: "Register"}); err != nil {
		logAndInternalError(w, "render error", "error", err, "template", "register")
	}
}

// Register handles the registration form submission. A new account is
// logged in immediately.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectRegister) {
		return
	}

	name := strings.TrimSpace(r.FormValue("name"))
	email := strings.ToLower(strings.TrimSpace(r.FormValue("email")))
	password := r.FormValue("password")

	if msg := validateRegistration(name, email, password); msg != "" {
		flashError(w, r, h.renderer, redirectRegister, msg)
		return
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		logAndInternalError(w, "password hash error", "error", err)
		return
	}

	user, err := h.queries.CreateUser(r.Context(), store.CreateUserParams{
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		CreatedAt:    time.Now(),
	})
	if err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			flashError(w, r, h.renderer, redirectRegister, "You've already signed up with that email, log in instead!")
			return
		}
		logAndInternalError(w, "failed to create user", "error", err)
		return
	}

	if err := session.Login(r.Context(), h.sessionManager, user.ID); err != nil {
		logAndInternalError(w, "session renewal error", "error", err)
		return
	}

	slog.Info("user registered", "user_id", user.ID, "email", user.Email)
	_ = h.eventService.LogUserEvent(r.Context(), model.EventLevelInfo, "User registered", &user.ID, r,
		map[string]any{"email": user.Email})

	flashSuccess(w, r, h.renderer, redirectHome, "Welcome, "+user.Name+"!")
}

// LoginForm renders the login page. Authenticated users are sent back
// to the homepage.
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	if session.UserID(r.Context(), h.sessionManager) > 0 {
		http.Redirect(w, r, redirectHome, http.StatusSeeOther)
		return
	}

	if err := h.renderer.Render(w, r, "login", render.TemplateData{Title: "Log In"}); err != nil {
		logAndInternalError(w, "render error", "error", err, "template", "login")
	}
}

// Login handles the login form submission.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectLogin) {
		return
	}

	email := strings.ToLower(strings.TrimSpace(r.FormValue("email")))
	password := r.FormValue("password")

	if email == "" || password == "" {
		flashError(w, r, h.renderer, redirectLogin, "Email and password are required")
		return
	}

	user, err := h.queries.GetUserByEmail(r.Context(), email)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			logAndInternalError(w, "database error during login", "error", err)
			return
		}
		slog.Debug("login attempt for non-existent user", "email", email)
		_ = h.eventService.LogAuthEvent(r.Context(), model.EventLevelWarning,
			"Login failed: user not found", nil, r, map[string]any{"email": email})
		flashError(w, r, h.renderer, redirectLogin, "That email does not exist, please try again.")
		return
	}

	valid, err := auth.CheckPassword(password, user.PasswordHash)
	if err != nil {
		slog.Error("password check error", "error", err)
		flashError(w, r, h.renderer, redirectLogin, "Password incorrect, please try again.")
		return
	}
	if !valid {
		slog.Debug("invalid password attempt", "email", email)
		_ = h.eventService.LogAuthEvent(r.Context(), model.EventLevelWarning,
			"Login failed: invalid password", &user.ID, r, map[string]any{"email": email})
		flashError(w, r, h.renderer, redirectLogin, "Password incorrect, please try again.")
		return
	}

	// Upgrade hashes minted with older parameters on successful login.
	if auth.NeedsRehash(user.PasswordHash) {
		if newHash, err := auth.HashPassword(password); err == nil {
			if err := h.queries.UpdateUserPassword(r.Context(), user.ID, newHash); err != nil {
				slog.Error("failed to re-hash password", "error", err, "user_id", user.ID)
			} else {
				slog.Info("password re-hashed with updated parameters", "user_id", user.ID)
			}
		}
	}

	if err := session.Login(r.Context(), h.sessionManager, user.ID); err != nil {
		logAndInternalError(w, "session renewal error", "error", err)
		return
	}

	slog.Info("user logged in", "user_id", user.ID, "email", user.Email)
	_ = h.eventService.LogAuthEvent(r.Context(), model.EventLevelInfo, "User logged in", &user.ID, r,
		map[string]any{"email": user.Email})

	flashSuccess(w, r, h.renderer, redirectHome, "Welcome back, "+user.Name+"!")
}

// Logout destroys the session and returns to the homepage.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	userID := session.UserID(r.Context(), h.sessionManager)
	if userID > 0 {
		_ = h.eventService.LogAuthEvent(r.Context(), model.EventLevelInfo, "User logged out", &userID, r, nil)
	}

	if err := session.Logout(r.Context(), h.sessionManager); err != nil {
		slog.Error("session destroy error", "error", err)
	}

	slog.Info("user logged out", "user_id", userID)
	flashAndRedirect(w, r, h.renderer, redirectLogin, "You have been logged out.", "info")
}

// currentUser returns the context user loaded by the middleware.
func currentUser(r *http.Request) *model.User {
	return middleware.GetUser(r)
}
