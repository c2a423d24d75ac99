package comic

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/comiclib/comiclib-api/internal/pkg/errorhandler"
	"github.com/comiclib/comiclib-api/internal/pkg/response"
	"github.com/comiclib/comiclib-api/internal/pkg/storage"
	"github.com/comiclib/comiclib-api/internal/pkg/validator"
)

// Handler handles comic HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates comic handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// List handles GET /comics
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	comics, err := h.service.List(r.Context(), r.URL.Query().Get("user_id"))
	if err != nil {
		h.writeError(w, r, "list comics", err)
		return
	}
	response.OK(w, toResponses(comics))
}

// GetByID handles GET /comics/{id}
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	c, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		h.writeError(w, r, "get comic", err)
		return
	}
	response.OK(w, ComicResponseFromEntity(c))
}

// Create handles POST /comics
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		errorhandler.LogValidationError(r.Context(), errs)
		response.ValidationError(w, errs)
		return
	}

	c, err := h.service.Create(r.Context(), &req)
	if err != nil {
		h.writeError(w, r, "create comic", err)
		return
	}
	response.Created(w, ComicResponseFromEntity(c))
}

// Update handles PUT /comics/{id}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var req UpdateRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		errorhandler.LogValidationError(r.Context(), errs)
		response.ValidationError(w, errs)
		return
	}

	c, err := h.service.Update(r.Context(), id, &req)
	if err != nil {
		h.writeError(w, r, "update comic", err)
		return
	}
	response.OK(w, ComicResponseFromEntity(c))
}

// Delete handles DELETE /comics/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		h.writeError(w, r, "delete comic", err)
		return
	}
	response.NoContent(w)
}

// Search handles GET /comics/search?q= (or ?query=)
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		q = r.URL.Query().Get("query")
	}

	comics, err := h.service.Search(r.Context(), q)
	if err != nil {
		h.writeError(w, r, "search comics", err)
		return
	}
	response.OK(w, toResponses(comics))
}

// UploadCover handles POST /comics/upload
// Multipart form: file
func (h *Handler) UploadCover(w http.ResponseWriter, r *http.Request) {
	maxSize := storage.MaxFileSizes[storage.CategoryCover] + 1<<20
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)

	if err := r.ParseMultipartForm(maxSize); err != nil {
		response.BadRequest(w, "File too large or invalid form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		response.BadRequest(w, ErrNoFile.Error())
		return
	}
	defer file.Close()

	if header.Filename == "" {
		response.BadRequest(w, "no selected file")
		return
	}

	url, err := h.service.UploadCover(r.Context(), header.Filename, file)
	if err != nil {
		if IsClientError(err) {
			response.BadRequest(w, err.Error())
			return
		}
		errorhandler.HandleError(r.Context(), w, http.StatusBadGateway, err.Error(), err)
		return
	}

	response.OK(w, UploadResponse{URL: url})
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, operation string, err error) {
	switch {
	case errors.Is(err, ErrComicNotFound):
		response.NotFound(w, err.Error())
	case IsClientError(err):
		response.BadRequest(w, err.Error())
	default:
		errorhandler.HandleUpstreamError(r.Context(), w, operation, err)
	}
}

func parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(w, "Invalid comic ID")
		return 0, false
	}
	return id, true
}
