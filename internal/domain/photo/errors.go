package photo

import "errors"

var (
	ErrInvalidCharacterID = errors.New("character_id must be a positive integer")
	ErrInvalidSequence    = errors.New("sequence_number must be a positive integer")
	ErrInvalidImage       = errors.New("file is not a supported image")
	ErrStorageUpload      = errors.New("photo could not be written to object storage")
)
