package handler

import (
	"net/http"

	"goblog/internal/render"
)

// PageHandler serves the static about and contact pages.
type PageHandler struct {
	renderer *render.Renderer
}

// NewPageHandler creates a new PageHandler.
func NewPageHandler(renderer *render.Renderer) *PageHandler {
	return &PageHandler{renderer: renderer}
}

// About renders the about page.
func (h *PageHandler) About(w http.ResponseWriter, r *http.Request) {
	h.renderPage(w, r, "about", "About Me")
}

// Contact renders the contact page.
func (h *PageHandler) Contact(w http.ResponseWriter, r *http.Request) {
	h.renderPage(w, r, "contact", "Contact Me")
}

func (h *PageHandler) renderPage(w http.ResponseWriter, r *http.Request, name, title string) {
	data := render.TemplateData{Title: title}
	if user := currentUser(r); user != nil {
		data.User = user
		data.IsAdmin = user.IsAdmin()
	}
	if err := h.renderer.Render(w, r, name, data); err != nil {
		logAndInternalError(w, "render error", "error", err, "template", name)
	}
}
