package photo

// UploadRequest is the JSON form of an upload; multipart is the primary form
type UploadRequest struct {
	CharacterID int64  `json:"character_id" validate:"required,gt=0"`
	PhotoBase64 string `json:"photo_base64" validate:"required"`
	Keyword1    string `json:"keyword1" validate:"max=255"`
	Keyword2    string `json:"keyword2" validate:"max=255"`
}

// PhotoResponse represents a photo in API responses
type PhotoResponse struct {
	CharacterID    int64  `json:"character_id"`
	SequenceNumber int    `json:"sequence_number"`
	StoragePath    string `json:"storage_path"`
	Keyword1       string `json:"keyword1"`
	Keyword2       string `json:"keyword2"`
	Signed         bool   `json:"signed"`
}

// PhotoResponseFromEntity converts a stored photo
func PhotoResponseFromEntity(p *Photo) *PhotoResponse {
	return &PhotoResponse{
		CharacterID:    p.CharacterID,
		SequenceNumber: p.SequenceNumber,
		StoragePath:    p.StoragePath,
		Keyword1:       p.Keyword1,
		Keyword2:       p.Keyword2,
	}
}

// PhotoResponseFromListed converts a listed photo
func PhotoResponseFromListed(p *PhotoWithURL) *PhotoResponse {
	resp := PhotoResponseFromEntity(&p.Photo)
	resp.Signed = p.Signed
	return resp
}
