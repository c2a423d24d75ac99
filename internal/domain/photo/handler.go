package photo

import (
	"encoding/base64"
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/comiclib/comiclib-api/internal/pkg/errorhandler"
	"github.com/comiclib/comiclib-api/internal/pkg/response"
	"github.com/comiclib/comiclib-api/internal/pkg/storage"
	"github.com/comiclib/comiclib-api/internal/pkg/validator"
)

// multipart overhead allowed on top of the photo size limit
const formOverhead = 1 << 20

// Handler handles photo HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates photo handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// List handles GET /photos/{character_id}
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	characterID, err := parsePositiveInt64(chi.URLParam(r, "character_id"))
	if err != nil {
		response.BadRequest(w, ErrInvalidCharacterID.Error())
		return
	}

	photos := h.service.ListPhotos(r.Context(), characterID)

	items := make([]*PhotoResponse, len(photos))
	for i, p := range photos {
		items[i] = PhotoResponseFromListed(p)
	}

	response.OK(w, items)
}

// Upload handles POST /photos
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	var (
		in  *UploadInput
		err error
	)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		in, err = h.uploadFromJSON(w, r)
	} else {
		in, err = h.uploadFromForm(w, r)
	}
	if err != nil {
		// response already written
		return
	}

	photo, err := h.service.UploadPhoto(r.Context(), in)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidCharacterID), errors.Is(err, ErrInvalidImage):
			response.BadRequest(w, err.Error())
		case errors.Is(err, storage.ErrEmptyFile):
			response.BadRequest(w, "file is empty")
		case errors.Is(err, storage.ErrFileTooLarge):
			response.BadRequest(w, "file exceeds the 10MB photo limit")
		case errors.Is(err, ErrStorageUpload):
			errorhandler.HandleError(r.Context(), w, http.StatusBadGateway, err.Error(), err)
		default:
			errorhandler.HandleUpstreamError(r.Context(), w, "upload photo", err)
		}
		return
	}

	response.Created(w, PhotoResponseFromEntity(photo))
}

func (h *Handler) uploadFromForm(w http.ResponseWriter, r *http.Request) (*UploadInput, error) {
	maxSize := storage.MaxFileSizes[storage.CategoryPhoto]
	r.Body = http.MaxBytesReader(w, r.Body, maxSize+formOverhead)

	if err := r.ParseMultipartForm(maxSize + formOverhead); err != nil {
		response.BadRequest(w, "invalid multipart form")
		return nil, err
	}

	fields := map[string]string{}

	characterID, err := parsePositiveInt64(r.FormValue("character_id"))
	if err != nil {
		fields["character_id"] = "character_id is required and must be a positive integer"
	}

	file, _, fileErr := r.FormFile("file")
	if fileErr != nil {
		fields["file"] = "file is required"
	}

	if len(fields) > 0 {
		errorhandler.LogValidationError(r.Context(), fields)
		response.ValidationError(w, fields)
		if file != nil {
			file.Close()
		}
		return nil, errors.New("validation failed")
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		response.BadRequest(w, "failed to read file")
		return nil, err
	}

	return &UploadInput{
		CharacterID: characterID,
		Data:        data,
		Keyword1:    strings.TrimSpace(r.FormValue("keyword1")),
		Keyword2:    strings.TrimSpace(r.FormValue("keyword2")),
	}, nil
}

func (h *Handler) uploadFromJSON(w http.ResponseWriter, r *http.Request) (*UploadInput, error) {
	var req UploadRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return nil, err
	}

	if fields := validator.Validate(&req); fields != nil {
		errorhandler.LogValidationError(r.Context(), fields)
		response.ValidationError(w, fields)
		return nil, errors.New("validation failed")
	}

	encoded := req.PhotoBase64
	// data URLs: "data:image/png;base64,...."
	if i := strings.Index(encoded, ","); i >= 0 && strings.HasPrefix(encoded, "data:") {
		encoded = encoded[i+1:]
	}

	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		response.BadRequest(w, "photo_base64 is not valid base64")
		return nil, err
	}

	return &UploadInput{
		CharacterID: req.CharacterID,
		Data:        data,
		Keyword1:    strings.TrimSpace(req.Keyword1),
		Keyword2:    strings.TrimSpace(req.Keyword2),
	}, nil
}

// Delete handles DELETE /photos/{character_id} and
// DELETE /photos/{character_id}/{sequence_number}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	characterID, err := parsePositiveInt64(chi.URLParam(r, "character_id"))
	if err != nil {
		response.BadRequest(w, ErrInvalidCharacterID.Error())
		return
	}

	var seq *int
	if raw := chi.URLParam(r, "sequence_number"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			response.BadRequest(w, ErrInvalidSequence.Error())
			return
		}
		seq = &n
	}

	deleted, err := h.service.DeletePhoto(r.Context(), characterID, seq)
	if err != nil {
		errorhandler.HandleUpstreamError(r.Context(), w, "delete photo", err)
		return
	}

	items := make([]*PhotoResponse, 0, len(deleted))
	for _, p := range deleted {
		items = append(items, PhotoResponseFromEntity(p))
	}
	response.OK(w, items)
}

func parsePositiveInt64(s string) (int64, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, err
	}
	if n <= 0 {
		return 0, ErrInvalidCharacterID
	}
	return n, nil
}
