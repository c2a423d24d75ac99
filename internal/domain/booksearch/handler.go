package booksearch

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/comiclib/comiclib-api/internal/pkg/errorhandler"
	"github.com/comiclib/comiclib-api/internal/pkg/naver"
	"github.com/comiclib/comiclib-api/internal/pkg/response"
)

// ErrQueryRequired is returned when the query parameter is blank
var ErrQueryRequired = errors.New("Query parameter is required")

// Searcher is the book search backend
type Searcher interface {
	SearchBooks(ctx context.Context, q naver.BookQuery) (*naver.BookSearchResult, error)
}

// Handler proxies book searches
type Handler struct {
	searcher Searcher
}

// NewHandler creates book search handler
func NewHandler(searcher Searcher) *Handler {
	return &Handler{searcher: searcher}
}

// Search handles GET /naver/search/book.json?query=&display=&start=
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := strings.TrimSpace(q.Get("query"))
	if query == "" {
		response.BadRequest(w, ErrQueryRequired.Error())
		return
	}

	result, err := h.searcher.SearchBooks(r.Context(), naver.BookQuery{
		Query:   query,
		Display: intParam(q.Get("display"), 10),
		Start:   intParam(q.Get("start"), 1),
	})
	if err != nil {
		if errors.Is(err, naver.ErrMissingCredentials) {
			errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, err.Error(), err)
			return
		}
		errorhandler.LogExternalServiceError(r.Context(), "naver", "search/book.json", 0, err, "")
		response.BadGateway(w, "Naver API error: "+err.Error())
		return
	}

	response.OK(w, result)
}

func intParam(s string, def int) int {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return def
	}
	return v
}
