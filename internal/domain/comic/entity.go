package comic

import "time"

// Comic is a row of comics: a book on a user's shelf
type Comic struct {
	ID         int64     `db:"id"`
	UserID     string    `db:"user_id"`
	Title      string    `db:"title"`
	Author     string    `db:"author"`
	Review     string    `db:"review"`
	Rating     float64   `db:"rating"`
	CoverImage string    `db:"cover_image"`
	CreatedAt  time.Time `db:"created_at"`
}
