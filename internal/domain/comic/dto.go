package comic

import "time"

// CreateRequest represents add comic request
type CreateRequest struct {
	UserID     string  `json:"user_id" validate:"max=128"`
	Title      string  `json:"title" validate:"required,max=500"`
	Author     string  `json:"author" validate:"max=500"`
	Review     string  `json:"review" validate:"max=10000"`
	Rating     float64 `json:"rating" validate:"gte=0,lte=5"`
	CoverImage string  `json:"coverImage" validate:"max=2048"`
}

// UpdateRequest represents a partial comic update
type UpdateRequest struct {
	Title      *string  `json:"title" validate:"omitempty,min=1,max=500"`
	Author     *string  `json:"author" validate:"omitempty,max=500"`
	Review     *string  `json:"review" validate:"omitempty,max=10000"`
	Rating     *float64 `json:"rating" validate:"omitempty,gte=0,lte=5"`
	CoverImage *string  `json:"coverImage" validate:"omitempty,max=2048"`
}

// ComicResponse represents a comic in API responses
type ComicResponse struct {
	ID         int64     `json:"id"`
	UserID     string    `json:"user_id"`
	Title      string    `json:"title"`
	Author     string    `json:"author"`
	Review     string    `json:"review"`
	Rating     float64   `json:"rating"`
	CoverImage string    `json:"coverImage"`
	CreatedAt  time.Time `json:"created_at"`
}

// UploadResponse is returned by the cover upload
type UploadResponse struct {
	URL string `json:"url"`
}

// ComicResponseFromEntity converts entity to response
func ComicResponseFromEntity(c *Comic) *ComicResponse {
	return &ComicResponse{
		ID:         c.ID,
		UserID:     c.UserID,
		Title:      c.Title,
		Author:     c.Author,
		Review:     c.Review,
		Rating:     c.Rating,
		CoverImage: c.CoverImage,
		CreatedAt:  c.CreatedAt,
	}
}

func toResponses(comics []*Comic) []*ComicResponse {
	items := make([]*ComicResponse, len(comics))
	for i, c := range comics {
		items[i] = ComicResponseFromEntity(c)
	}
	return items
}
