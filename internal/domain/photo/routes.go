package photo

import (
	"github.com/go-chi/chi/v5"
)

// Routes returns photo router
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Upload)
	r.Get("/{character_id}", h.List)
	r.Delete("/{character_id}", h.Delete)
	r.Delete("/{character_id}/{sequence_number}", h.Delete)

	return r
}
