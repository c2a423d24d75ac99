package assistant

import "errors"

var (
	ErrImagesRequired = errors.New("Two image files (image1, image2) are required")
	ErrQueryRequired  = errors.New("Query parameter is required")
)
