package handler

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"

	"goblog/internal/model"
	"goblog/internal/render"
	"goblog/internal/service"
	"goblog/internal/store"
	"goblog/internal/util"
)

// PostHandler handles the public post pages and admin post management.
type PostHandler struct {
	queries        *store.Queries
	renderer       *render.Renderer
	sessionManager *scs.SessionManager
	eventService   *service.EventService
}

// NewPostHandler creates a new PostHandler.
func NewPostHandler(db *sql.DB, renderer *render.Renderer, sm *scs.SessionManager) *PostHandler {
	return &PostHandler{
		queries:        store.New(db),
		renderer:       renderer,
		sessionManager: sm,
		eventService:   service.NewEventService(db),
	}
}

// postPageData is the payload for the post detail template.
type postPageData struct {
	Post     store.PostWithMeta
	Comments []store.CommentWithAuthor
}

// postFormData is the payload for the post create/edit template.
type postFormData struct {
	Post   store.PostWithMeta
	IsEdit bool
}

// Home renders the homepage with all posts.
func (h *PostHandler) Home(w http.ResponseWriter, r *http.Request) {
	posts, err := h.queries.ListPosts(r.Context())
	if err != nil {
		logAndInternalError(w, "failed to list posts", "error", err)
		return
	}

	data := render.TemplateData{
		Title: "Home",
		Data:  posts,
	}
	h.fillUser(r, &data)

	if err := h.renderer.Render(w, r, "index", data); err != nil {
		logAndInternalError(w, "render error", "error", err, "template", "index")
	}
}

// Show renders a single post with its comments. The path segment may be
// a numeric id or a slug.
func (h *PostHandler) Show(w http.ResponseWriter, r *http.Request) {
	post, ok := h.lookupPost(w, r)
	if !ok {
		return
	}

	comments, err := h.queries.ListCommentsForPost(r.Context(), post.ID)
	if err != nil {
		logAndInternalError(w, "failed to list comments", "error", err, "post_id", post.ID)
		return
	}

	data := render.TemplateData{
		Title: post.Title,
		Data:  postPageData{Post: post, Comments: comments},
	}
	h.fillUser(r, &data)

	if err := h.renderer.Render(w, r, "post", data); err != nil {
		logAndInternalError(w, "render error", "error", err, "template", "post")
	}
}

// Comment handles a comment submission on a post. Anonymous visitors
// are sent to the login page.
func (h *PostHandler) Comment(w http.ResponseWriter, r *http.Request) {
	post, ok := h.lookupPost(w, r)
	if !ok {
		return
	}
	postURL := fmt.Sprintf(redirectPostID, post.ID)

	user := currentUser(r)
	if user == nil {
		flashError(w, r, h.renderer, redirectLogin, "You need to login or register to comment.")
		return
	}

	if !parseFormOrRedirect(w, r, h.renderer, postURL) {
		return
	}

	body := strings.TrimSpace(r.FormValue("comment"))
	if body == "" {
		flashError(w, r, h.renderer, postURL, "Comment cannot be empty")
		return
	}

	comment, err := h.queries.CreateComment(r.Context(), store.CreateCommentParams{
		Body:      body,
		AuthorID:  user.ID,
		PostID:    post.ID,
		CreatedAt: time.Now(),
	})
	if err != nil {
		logAndInternalError(w, "failed to create comment", "error", err, "post_id", post.ID)
		return
	}

	slog.Info("comment created", "comment_id", comment.ID, "post_id", post.ID, "user_id", user.ID)
	_ = h.eventService.LogCommentEvent(r.Context(), model.EventLevelInfo, "Comment created", &user.ID, r,
		map[string]any{"comment_id": comment.ID, "post_id": post.ID})

	http.Redirect(w, r, postURL, http.StatusSeeOther)
}

// NewForm renders the post creation page.
func (h *PostHandler) NewForm(w http.ResponseWriter, r *http.Request) {
	data := render.TemplateData{
		Title: "New Post",
		Data:  postFormData{},
	}
	h.fillUser(r, &data)

	if err := h.renderer.Render(w, r, "make-post", data); err != nil {
		logAndInternalError(w, "render error", "error", err, "template", "make-post")
	}
}

// Create handles the post creation form submission.
func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectNewPost) {
		return
	}

	user := currentUser(r)
	title := strings.TrimSpace(r.FormValue("title"))
	subtitle := strings.TrimSpace(r.FormValue("subtitle"))
	imageURL := strings.TrimSpace(r.FormValue("img_url"))
	body := r.FormValue("body")

	if msg := validatePostForm(title, subtitle, imageURL, body); msg != "" {
		flashError(w, r, h.renderer, redirectNewPost, msg)
		return
	}

	post, err := h.queries.CreatePost(r.Context(), store.CreatePostParams{
		Title:     title,
		Subtitle:  subtitle,
		Slug:      util.Slugify(title),
		Body:      body,
		ImageURL:  imageURL,
		AuthorID:  user.ID,
		CreatedAt: time.Now(),
	})
	if err != nil {
		if errors.Is(err, store.ErrDuplicateTitle) {
			flashError(w, r, h.renderer, redirectNewPost, "A post with that title already exists")
			return
		}
		logAndInternalError(w, "failed to create post", "error", err)
		return
	}

	slog.Info("post created", "post_id", post.ID, "title", post.Title)
	_ = h.eventService.LogPostEvent(r.Context(), model.EventLevelInfo, "Post created", &user.ID, r,
		map[string]any{"post_id": post.ID, "title": post.Title})

	http.Redirect(w, r, fmt.Sprintf(redirectPostID, post.ID), http.StatusSeeOther)
}

// EditForm renders the post edit page pre-filled with the current
// values.
func (h *PostHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	post, ok := h.requirePostByID(w, r)
	if !ok {
		return
	}

	data := render.TemplateData{
		Title: "Edit Post",
		Data:  postFormData{Post: post, IsEdit: true},
	}
	h.fillUser(r, &data)

	if err := h.renderer.Render(w, r, "make-post", data); err != nil {
		logAndInternalError(w, "render error", "error", err, "template", "make-post")
	}
}

// Update handles the post edit form submission. The author and creation
// date never change.
func (h *PostHandler) Update(w http.ResponseWriter, r *http.Request) {
	post, ok := h.requirePostByID(w, r)
	if !ok {
		return
	}
	editURL := "/edit-post/" + strconv.FormatInt(post.ID, 10)

	if !parseFormOrRedirect(w, r, h.renderer, editURL) {
		return
	}

	title := strings.TrimSpace(r.FormValue("title"))
	subtitle := strings.TrimSpace(r.FormValue("subtitle"))
	imageURL := strings.TrimSpace(r.FormValue("img_url"))
	body := r.FormValue("body")

	if msg := validatePostForm(title, subtitle, imageURL, body); msg != "" {
		flashError(w, r, h.renderer, editURL, msg)
		return
	}

	err := h.queries.UpdatePost(r.Context(), store.UpdatePostParams{
		ID:       post.ID,
		Title:    title,
		Subtitle: subtitle,
		Slug:     util.Slugify(title),
		Body:     body,
		ImageURL: imageURL,
	})
	if err != nil {
		if errors.Is(err, store.ErrDuplicateTitle) {
			flashError(w, r, h.renderer, editURL, "A post with that title already exists")
			return
		}
		logAndInternalError(w, "failed to update post", "error", err, "post_id", post.ID)
		return
	}

	userID := currentUser(r).ID
	slog.Info("post updated", "post_id", post.ID, "title", title)
	_ = h.eventService.LogPostEvent(r.Context(), model.EventLevelInfo, "Post updated", &userID, r,
		map[string]any{"post_id": post.ID, "title": title})

	flashSuccess(w, r, h.renderer, fmt.Sprintf(redirectPostID, post.ID), "Post updated")
}

// Delete removes a post and its comments.
func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	post, ok := h.requirePostByID(w, r)
	if !ok {
		return
	}

	commentCount, err := h.queries.CountCommentsForPost(r.Context(), post.ID)
	if err != nil {
		slog.Error("failed to count comments", "error", err, "post_id", post.ID)
	}

	if err := h.queries.DeletePost(r.Context(), post.ID); err != nil {
		logAndInternalError(w, "failed to delete post", "error", err, "post_id", post.ID)
		return
	}

	userID := currentUser(r).ID
	slog.Info("post deleted", "post_id", post.ID, "title", post.Title, "comments_removed", commentCount)
	_ = h.eventService.LogPostEvent(r.Context(), model.EventLevelInfo, "Post deleted", &userID, r,
		map[string]any{"post_id": post.ID, "title": post.Title, "comments_removed": commentCount})

	flashSuccess(w, r, h.renderer, redirectHome, "Post deleted")
}

// lookupPost resolves the {id} path parameter as a numeric id, falling
// back to a slug lookup. Writes a 404 or 500 on failure.
func (h *PostHandler) lookupPost(w http.ResponseWriter, r *http.Request) (store.PostWithMeta, bool) {
	param := chi.URLParam(r, "id")

	var post store.PostWithMeta
	var err error
	if id, convErr := strconv.ParseInt(param, 10, 64); convErr == nil {
		post, err = h.queries.GetPostByID(r.Context(), id)
	} else if util.IsValidSlug(param) {
		post, err = h.queries.GetPostBySlug(r.Context(), param)
	} else {
		http.NotFound(w, r)
		return store.PostWithMeta{}, false
	}

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			http.NotFound(w, r)
		} else {
			logAndInternalError(w, "failed to get post", "error", err, "post", param)
		}
		return store.PostWithMeta{}, false
	}
	return post, true
}

// requirePostByID resolves the numeric {id} path parameter for admin
// routes. Writes a 404 or 500 on failure.
func (h *PostHandler) requirePostByID(w http.ResponseWriter, r *http.Request) (store.PostWithMeta, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return store.PostWithMeta{}, false
	}

	post, err := h.queries.GetPostByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			http.NotFound(w, r)
		} else {
			logAndInternalError(w, "failed to get post", "error", err, "post_id", id)
		}
		return store.PostWithMeta{}, false
	}
	return post, true
}

// fillUser copies the context user into the template data.
func (h *PostHandler) fillUser(r *http.Request, data *render.TemplateData) {
	if user := currentUser(r); user != nil {
		data.User = user
		data.IsAdmin = user.IsAdmin()
	}
}
