package booksearch

import (
	"github.com/go-chi/chi/v5"
)

// Routes returns the router mounted at /naver
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/search/book.json", h.Search)

	return r
}
