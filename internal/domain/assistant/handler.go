package assistant

import (
	"errors"
	"io"
	"net/http"

	"github.com/comiclib/comiclib-api/internal/pkg/errorhandler"
	"github.com/comiclib/comiclib-api/internal/pkg/gemini"
	"github.com/comiclib/comiclib-api/internal/pkg/response"
)

// MaxImageSize bounds each image of a makePhoto request
const MaxImageSize = 10 << 20

// Handler handles assistant HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates assistant handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// MakePhoto handles POST /makePhoto
// Multipart form: image1 + image2
func (h *Handler) MakePhoto(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 2*MaxImageSize+1<<20)
	if err := r.ParseMultipartForm(2*MaxImageSize + 1<<20); err != nil {
		response.BadRequest(w, ErrImagesRequired.Error())
		return
	}

	image1, err1 := readFormImage(r, "image1")
	image2, err2 := readFormImage(r, "image2")
	if err1 != nil || err2 != nil {
		response.BadRequest(w, ErrImagesRequired.Error())
		return
	}

	photo, err := h.service.MakePhoto(r.Context(), image1, image2)
	if err != nil {
		h.writeError(w, r, "make photo", err)
		return
	}

	response.OK(w, photo)
}

// SearchInfo handles GET /searchInfo?query=
func (h *Handler) SearchInfo(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.SearchInfo(r.Context(), r.URL.Query().Get("query"))
	if err != nil {
		h.writeError(w, r, "search info", err)
		return
	}

	response.OK(w, result)
}

// News handles GET /news
func (h *Handler) News(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.News(r.Context())
	if err != nil {
		h.writeError(w, r, "news", err)
		return
	}

	response.OK(w, items)
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, operation string, err error) {
	switch {
	case errors.Is(err, ErrImagesRequired), errors.Is(err, ErrQueryRequired):
		response.BadRequest(w, err.Error())
	case errors.Is(err, gemini.ErrNotConfigured):
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, err.Error(), err)
	default:
		errorhandler.LogExternalServiceError(r.Context(), "gemini", operation, 0, err, "")
		response.Error(w, http.StatusInternalServerError, "Gemini API error: "+err.Error())
	}
}

func readFormImage(r *http.Request, field string) ([]byte, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	if header.Filename == "" {
		return nil, ErrImagesRequired
	}
	return io.ReadAll(io.LimitReader(file, MaxImageSize))
}
