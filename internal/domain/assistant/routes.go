package assistant

import (
	"github.com/go-chi/chi/v5"
)

// Register adds the assistant routes to r, which is mounted at /api
func (h *Handler) Register(r chi.Router) {
	r.Post("/makePhoto", h.MakePhoto)
	r.Get("/searchInfo", h.SearchInfo)
	r.Get("/news", h.News)
}
