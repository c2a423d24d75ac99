package character

import "errors"

var (
	// ErrCharacterNotFound is returned when character is not found
	ErrCharacterNotFound = errors.New("character not found")

	// ErrInvalidNewsListFlag is returned when news_list is not Y or N
	ErrInvalidNewsListFlag = errors.New("news_list must be Y or N")

	// ErrUserIDRequired is returned when a user-scoped listing has no user_id
	ErrUserIDRequired = errors.New("user_id is required")
)
