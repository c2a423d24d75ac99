package character

import (
	"database/sql"
	"time"
)

// News list flags
const (
	NewsListYes = "Y"
	NewsListNo  = "N"
)

// Character is a row of comic_character
type Character struct {
	ID            int64         `db:"id"`
	UserID        string        `db:"user_id"`
	ComicsID      sql.NullInt64 `db:"comics_id"`
	CharacterName string        `db:"character_name"`
	Note          string        `db:"note"`
	Affinity      int           `db:"affinity"`
	NewsList      string        `db:"news_list"`
	PhotoURL      string        `db:"photo_url"`
	CreatedAt     time.Time     `db:"created_at"`
}

// ComicSummary is the part of a comic shown next to its characters
type ComicSummary struct {
	ID         int64   `db:"comic_id"`
	Title      string  `db:"comic_title"`
	Rating     float64 `db:"comic_rating"`
	CoverImage string  `db:"comic_cover_image"`
}

// CharacterWithComic is a character joined with its comic. Comic is nil when
// the character has no comic or the comic row is gone.
type CharacterWithComic struct {
	Character
	Comic *ComicSummary
}

// NewsTarget is a character the user follows news for
type NewsTarget struct {
	CharacterName string `db:"character_name"`
	ComicTitle    string `db:"title"`
}
