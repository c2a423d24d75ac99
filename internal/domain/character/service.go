package character

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/comiclib/comiclib-api/internal/pkg/logger"
)

// PhotoCleaner removes every photo attached to a character
type PhotoCleaner interface {
	DeleteAllForCharacter(ctx context.Context, characterID int64) error
}

// Service handles character business logic
type Service struct {
	repo   Repository
	photos PhotoCleaner
}

// NewService creates character service
func NewService(repo Repository, photos PhotoCleaner) *Service {
	return &Service{repo: repo, photos: photos}
}

// Create adds a character
func (s *Service) Create(ctx context.Context, req *CreateRequest) (*Character, error) {
	c := &Character{
		UserID:        strings.TrimSpace(req.UserID),
		CharacterName: strings.TrimSpace(req.CharacterName),
		Note:          req.Note,
		Affinity:      req.Affinity,
		NewsList:      req.NewsList,
		PhotoURL:      strings.TrimSpace(req.PhotoURL),
	}
	if c.NewsList == "" {
		c.NewsList = NewsListNo
	}
	if req.ComicsID != nil {
		c.ComicsID = sql.NullInt64{Int64: *req.ComicsID, Valid: true}
	}

	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// GetByID returns a character
func (s *Service) GetByID(ctx context.Context, id int64) (*Character, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrCharacterNotFound
	}
	return c, nil
}

// Update applies the set fields of req
func (s *Service) Update(ctx context.Context, id int64, req *UpdateRequest) (*Character, error) {
	c, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.ComicsID != nil {
		c.ComicsID = sql.NullInt64{Int64: *req.ComicsID, Valid: true}
	}
	if req.CharacterName != nil {
		c.CharacterName = strings.TrimSpace(*req.CharacterName)
	}
	if req.Note != nil {
		c.Note = *req.Note
	}
	if req.Affinity != nil {
		c.Affinity = *req.Affinity
	}
	if req.NewsList != nil && *req.NewsList != "" {
		c.NewsList = *req.NewsList
	}
	if req.PhotoURL != nil {
		c.PhotoURL = strings.TrimSpace(*req.PhotoURL)
	}

	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Delete wipes the character's photos, then the character row. Deleting a
// missing character is not an error.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.photos.DeleteAllForCharacter(ctx, id); err != nil {
		return fmt.Errorf("delete photos of character %d: %w", id, err)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	logger.LogInfo(ctx, "character deleted", "character_id", id)
	return nil
}

// DeleteByComic removes every character of a comic along with their photos
func (s *Service) DeleteByComic(ctx context.Context, comicID int64) error {
	characters, err := s.repo.ListByComic(ctx, comicID)
	if err != nil {
		return fmt.Errorf("list characters of comic %d: %w", comicID, err)
	}

	for _, c := range characters {
		if err := s.Delete(ctx, c.ID); err != nil {
			return err
		}
	}
	return nil
}

// ListUserCharacters returns the user's characters, highest affinity first,
// with their comic. comicID narrows to one comic.
func (s *Service) ListUserCharacters(ctx context.Context, userID string, comicID *int64) ([]*CharacterWithComic, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrUserIDRequired
	}
	return s.repo.ListByUserWithComic(ctx, userID, comicID)
}

// ListNewsTargets returns the user's characters flagged for news, with the
// comic title.
func (s *Service) ListNewsTargets(ctx context.Context, userID string) ([]*NewsTarget, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrUserIDRequired
	}
	return s.repo.ListNewsTargets(ctx, userID)
}
