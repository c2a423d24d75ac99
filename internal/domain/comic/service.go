package comic

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/comiclib/comiclib-api/internal/pkg/logger"
	"github.com/comiclib/comiclib-api/internal/pkg/storage"
)

// CharacterCleaner removes the characters of a comic together with their photos
type CharacterCleaner interface {
	DeleteByComic(ctx context.Context, comicID int64) error
}

// Service handles comic business logic
type Service struct {
	repo        Repository
	characters  CharacterCleaner
	store       storage.ObjectStore
	coverPrefix string
}

// NewService creates comic service
func NewService(repo Repository, characters CharacterCleaner, store storage.ObjectStore, coverPrefix string) *Service {
	return &Service{
		repo:        repo,
		characters:  characters,
		store:       store,
		coverPrefix: strings.Trim(coverPrefix, "/"),
	}
}

var allowedCoverExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".webp": true,
}

// List returns all comics, or only the user's when userID is set
func (s *Service) List(ctx context.Context, userID string) ([]*Comic, error) {
	return s.repo.List(ctx, strings.TrimSpace(userID))
}

// GetByID returns a comic
func (s *Service) GetByID(ctx context.Context, id int64) (*Comic, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrComicNotFound
	}
	return c, nil
}

// Create adds a comic
func (s *Service) Create(ctx context.Context, req *CreateRequest) (*Comic, error) {
	c := &Comic{
		UserID:     strings.TrimSpace(req.UserID),
		Title:      strings.TrimSpace(req.Title),
		Author:     strings.TrimSpace(req.Author),
		Review:     req.Review,
		Rating:     req.Rating,
		CoverImage: strings.TrimSpace(req.CoverImage),
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Update applies the set fields of req
func (s *Service) Update(ctx context.Context, id int64, req *UpdateRequest) (*Comic, error) {
	c, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		c.Title = strings.TrimSpace(*req.Title)
	}
	if req.Author != nil {
		c.Author = strings.TrimSpace(*req.Author)
	}
	if req.Review != nil {
		c.Review = *req.Review
	}
	if req.Rating != nil {
		c.Rating = *req.Rating
	}
	if req.CoverImage != nil {
		c.CoverImage = strings.TrimSpace(*req.CoverImage)
	}

	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Delete removes the comic after its characters and their photos
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.characters.DeleteByComic(ctx, id); err != nil {
		return fmt.Errorf("delete characters of comic %d: %w", id, err)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	logger.LogInfo(ctx, "comic deleted", "comic_id", id)
	return nil
}

// Search matches the query against title and author, case-insensitively
func (s *Service) Search(ctx context.Context, query string) ([]*Comic, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrQueryRequired
	}
	return s.repo.Search(ctx, query)
}

// UploadCover stores a cover image under "<prefix>/<uuid>_<name>" and
// returns its public URL. The extension of name is replaced by the one
// matching the detected image type.
func (s *Service) UploadCover(ctx context.Context, filename string, reader io.Reader) (string, error) {
	name := sanitizeFileName(filename)
	if !allowedCoverExtensions[strings.ToLower(path.Ext(name))] {
		return "", ErrFileTypeNotAllowed
	}

	buffer, mimeType, err := storage.ValidateAndBuffer(reader, storage.CategoryCover)
	if err != nil {
		return "", err
	}

	if ext := storage.GetExtensionForMime(mimeType); ext != "" {
		name = strings.TrimSuffix(name, path.Ext(name)) + ext
	}

	key := uuid.New().String() + "_" + name
	if s.coverPrefix != "" {
		key = s.coverPrefix + "/" + key
	}

	if err := s.store.Put(ctx, key, buffer, mimeType); err != nil {
		return "", fmt.Errorf("store cover: %w", err)
	}

	logger.LogInfo(ctx, "cover uploaded", "key", key, "mime_type", mimeType)
	return s.store.GetURL(key), nil
}

func sanitizeFileName(name string) string {
	name = strings.TrimSpace(name)
	name = strings.ReplaceAll(name, "\\", "/")
	name = path.Base(name)
	name = strings.ReplaceAll(name, "..", "")
	name = strings.ReplaceAll(name, " ", "_")
	if name == "" || name == "." || name == "/" {
		return "file"
	}
	return name
}

// IsClientError reports whether err is caused by the request
func IsClientError(err error) bool {
	return errors.Is(err, ErrQueryRequired) ||
		errors.Is(err, ErrFileTypeNotAllowed) ||
		errors.Is(err, ErrInvalidRating) ||
		errors.Is(err, storage.ErrEmptyFile) ||
		errors.Is(err, storage.ErrFileTooLarge) ||
		errors.Is(err, storage.ErrInvalidMimeType)
}
