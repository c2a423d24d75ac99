package character

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/comiclib/comiclib-api/internal/pkg/errorhandler"
	"github.com/comiclib/comiclib-api/internal/pkg/response"
	"github.com/comiclib/comiclib-api/internal/pkg/validator"
)

// Handler handles character HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates character handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Create handles POST /comics/character
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
		h.writeError(w, r, "create character", err)
		return
	}

	response.Created(w, CharacterResponseFromEntity(c))
}

// GetByID handles GET /comics/character/{id}
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	c, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		h.writeError(w, r, "get character", err)
		return
	}

	response.OK(w, CharacterResponseFromEntity(c))
}

// Update handles PUT /comics/character/{id}
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
		h.writeError(w, r, "update character", err)
		return
	}

	response.OK(w, CharacterResponseFromEntity(c))
}

// Delete handles DELETE /comics/character/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		h.writeError(w, r, "delete character", err)
		return
	}

	response.NoContent(w)
}

// ListUserCharacters handles GET /comics/user-characters?user_id=&comics_id=
func (h *Handler) ListUserCharacters(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")

	var comicID *int64
	if raw := r.URL.Query().Get("comics_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			response.BadRequest(w, "comics_id must be a positive integer")
			return
		}
		comicID = &id
	}

	characters, err := h.service.ListUserCharacters(r.Context(), userID, comicID)
	if err != nil {
		h.writeError(w, r, "list user characters", err)
		return
	}

	items := make([]*UserCharacterResponse, len(characters))
	for i, c := range characters {
		items[i] = UserCharacterResponseFromEntity(c)
	}

	response.OK(w, items)
}

// NewsList handles GET /comics/news-list?user_id=
func (h *Handler) NewsList(w http.ResponseWriter, r *http.Request) {
	targets, err := h.service.ListNewsTargets(r.Context(), r.URL.Query().Get("user_id"))
	if err != nil {
		h.writeError(w, r, "list news targets", err)
		return
	}

	items := make([]*NewsTargetResponse, len(targets))
	for i, t := range targets {
		items[i] = NewsTargetResponseFromEntity(t)
	}

	response.OK(w, items)
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, operation string, err error) {
	switch {
	case errors.Is(err, ErrCharacterNotFound):
		response.NotFound(w, err.Error())
	case errors.Is(err, ErrUserIDRequired), errors.Is(err, ErrInvalidNewsListFlag):
		response.BadRequest(w, err.Error())
	default:
		errorhandler.HandleUpstreamError(r.Context(), w, operation, err)
	}
}

func parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(w, "Invalid character ID")
		return 0, false
	}
	return id, true
}
