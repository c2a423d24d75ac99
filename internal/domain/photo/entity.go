package photo

import "time"

// Photo is a row of photo_info: one image attached to a character.
type Photo struct {
	ID             int64     `db:"id" json:"-"`
	CharacterID    int64     `db:"character_id" json:"character_id"`
	SequenceNumber int       `db:"sequence_number" json:"sequence_number"`
	StoragePath    string    `db:"storage_path" json:"storage_path"` // object key, or a legacy public URL
	Keyword1       string    `db:"keyword1" json:"keyword1"`
	Keyword2       string    `db:"keyword2" json:"keyword2"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// PhotoWithURL is a listed photo. When the blob resolved and signing
// succeeded, StoragePath holds the signed URL and Signed is true; otherwise
// StoragePath is the stored value, unchanged.
type PhotoWithURL struct {
	Photo
	Signed bool
}
