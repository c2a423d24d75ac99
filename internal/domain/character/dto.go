package character

import (
	"database/sql"
	"time"
)

// CreateRequest represents add character request
type CreateRequest struct {
	UserID        string `json:"user_id" validate:"max=128"`
	ComicsID      *int64 `json:"comics_id" validate:"omitempty,gt=0"`
	CharacterName string `json:"character_name" validate:"required,max=200"`
	Note          string `json:"note" validate:"max=5000"`
	Affinity      int    `json:"affinity" validate:"gte=0"`
	NewsList      string `json:"news_list" validate:"yn"`
	PhotoURL      string `json:"photo_url" validate:"max=2048"`
}

// UpdateRequest represents a partial character update
type UpdateRequest struct {
	ComicsID      *int64  `json:"comics_id" validate:"omitempty,gt=0"`
	CharacterName *string `json:"character_name" validate:"omitempty,min=1,max=200"`
	Note          *string `json:"note" validate:"omitempty,max=5000"`
	Affinity      *int    `json:"affinity" validate:"omitempty,gte=0"`
	NewsList      *string `json:"news_list" validate:"omitempty,yn"`
	PhotoURL      *string `json:"photo_url" validate:"omitempty,max=2048"`
}

// CharacterResponse represents a character in API responses
type CharacterResponse struct {
	ID            int64     `json:"id"`
	UserID        string    `json:"user_id"`
	ComicsID      *int64    `json:"comics_id"`
	CharacterName string    `json:"character_name"`
	Note          string    `json:"note"`
	Affinity      int       `json:"affinity"`
	NewsList      string    `json:"news_list"`
	PhotoURL      string    `json:"photo_url"`
	CreatedAt     time.Time `json:"created_at"`
}

// ComicSummaryResponse is the nested comic of a user character
type ComicSummaryResponse struct {
	ID         int64   `json:"id"`
	Title      string  `json:"title"`
	Rating     float64 `json:"rating"`
	CoverImage string  `json:"coverImage"`
}

// UserCharacterResponse is an item of the user-characters listing. Comics is
// an empty object when the character has no comic.
type UserCharacterResponse struct {
	CharacterResponse
	CharacterID int64       `json:"character_id"`
	Comics      interface{} `json:"comics"`
}

// NewsTargetResponse is an item of the news-list listing
type NewsTargetResponse struct {
	CharacterName string `json:"character_name"`
	Comics        struct {
		Title string `json:"title"`
	} `json:"comics"`
}

func nullableID(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	id := v.Int64
	return &id
}

// CharacterResponseFromEntity converts entity to response
func CharacterResponseFromEntity(c *Character) *CharacterResponse {
	return &CharacterResponse{
		ID:            c.ID,
		UserID:        c.UserID,
		ComicsID:      nullableID(c.ComicsID),
		CharacterName: c.CharacterName,
		Note:          c.Note,
		Affinity:      c.Affinity,
		NewsList:      c.NewsList,
		PhotoURL:      c.PhotoURL,
		CreatedAt:     c.CreatedAt,
	}
}

// UserCharacterResponseFromEntity converts a joined row to response
func UserCharacterResponseFromEntity(c *CharacterWithComic) *UserCharacterResponse {
	resp := &UserCharacterResponse{
		CharacterResponse: *CharacterResponseFromEntity(&c.Character),
		CharacterID:       c.ID,
		Comics:            struct{}{},
	}
	if c.Comic != nil {
		resp.Comics = &ComicSummaryResponse{
			ID:         c.Comic.ID,
			Title:      c.Comic.Title,
			Rating:     c.Comic.Rating,
			CoverImage: c.Comic.CoverImage,
		}
	}
	return resp
}

// NewsTargetResponseFromEntity converts a news target to response
func NewsTargetResponseFromEntity(n *NewsTarget) *NewsTargetResponse {
	resp := &NewsTargetResponse{CharacterName: n.CharacterName}
	resp.Comics.Title = n.ComicTitle
	return resp
}
