package comic

import (
	"github.com/go-chi/chi/v5"
)

// Register adds the comic routes to r, which is mounted at /comics. Static
// segments registered by other packages (character, user-characters,
// news-list) take precedence over /{id}.
func (h *Handler) Register(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/search", h.Search)
	r.Post("/upload", h.UploadCover)
	r.Get("/{id}", h.GetByID)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
}
