package comic

import "errors"

var (
	ErrComicNotFound      = errors.New("comic not found")
	ErrInvalidRating      = errors.New("rating must be between 0 and 5")
	ErrQueryRequired      = errors.New("query parameter required")
	ErrNoFile             = errors.New("no file part")
	ErrFileTypeNotAllowed = errors.New("file type not allowed")
)
