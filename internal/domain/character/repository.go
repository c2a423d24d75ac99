package character

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/comiclib/comiclib-api/internal/pkg/database"
)

// Repository defines character data access interface
type Repository interface {
	Create(ctx context.Context, c *Character) error
	GetByID(ctx context.Context, id int64) (*Character, error)
	Update(ctx context.Context, c *Character) error
	Delete(ctx context.Context, id int64) error
	ListByComic(ctx context.Context, comicID int64) ([]*Character, error)
	ListByUserWithComic(ctx context.Context, userID string, comicID *int64) ([]*CharacterWithComic, error)
	ListNewsTargets(ctx context.Context, userID string) ([]*NewsTarget, error)
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates new character repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

const characterSelectColumns = `
	c.id, c.user_id, c.comics_id, c.character_name, c.note,
	c.affinity, c.news_list, c.photo_url, c.created_at
`

func (r *repository) Create(ctx context.Context, c *Character) error {
	query := `
		INSERT INTO comic_character (user_id, comics_id, character_name, note, affinity, news_list, photo_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`
	err := r.db.QueryRowxContext(ctx, query,
		c.UserID, c.ComicsID, c.CharacterName, c.Note, c.Affinity, c.NewsList, c.PhotoURL,
	).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		database.LogQueryError(ctx, "comic_character.create", err)
		return mapDBError(err)
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Character, error) {
	query := `SELECT ` + characterSelectColumns + ` FROM comic_character c WHERE c.id = $1`

	var c Character
	if err := r.db.GetContext(ctx, &c, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *repository) Update(ctx context.Context, c *Character) error {
	query := `
		UPDATE comic_character SET
			comics_id = $2, character_name = $3, note = $4,
			affinity = $5, news_list = $6, photo_url = $7
		WHERE id = $1
	`
	_, err := r.db.ExecContext(ctx, query,
		c.ID, c.ComicsID, c.CharacterName, c.Note, c.Affinity, c.NewsList, c.PhotoURL,
	)
	if err != nil {
		database.LogQueryError(ctx, "comic_character.update", err)
		return mapDBError(err)
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM comic_character WHERE id = $1`, id)
	return err
}

func (r *repository) ListByComic(ctx context.Context, comicID int64) ([]*Character, error) {
	query := `SELECT ` + characterSelectColumns + ` FROM comic_character c WHERE c.comics_id = $1 ORDER BY c.id`

	characters := []*Character{}
	if err := r.db.SelectContext(ctx, &characters, query, comicID); err != nil {
		return nil, err
	}
	return characters, nil
}

type characterWithComicRow struct {
	Character
	ComicID         sql.NullInt64   `db:"comic_id"`
	ComicTitle      sql.NullString  `db:"comic_title"`
	ComicRating     sql.NullFloat64 `db:"comic_rating"`
	ComicCoverImage sql.NullString  `db:"comic_cover_image"`
}

func (r *repository) ListByUserWithComic(ctx context.Context, userID string, comicID *int64) ([]*CharacterWithComic, error) {
	query := `
		SELECT ` + characterSelectColumns + `,
			m.id AS comic_id, m.title AS comic_title,
			m.rating AS comic_rating, m.cover_image AS comic_cover_image
		FROM comic_character c
		LEFT JOIN comics m ON m.id = c.comics_id
		WHERE c.user_id = $1
	`
	args := []interface{}{userID}
	if comicID != nil {
		query += ` AND c.comics_id = $2`
		args = append(args, *comicID)
	}
	query += ` ORDER BY c.affinity DESC, c.id ASC`

	rows := []characterWithComicRow{}
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list user characters: %w", err)
	}

	result := make([]*CharacterWithComic, len(rows))
	for i, row := range rows {
		item := &CharacterWithComic{Character: row.Character}
		if row.ComicID.Valid {
			item.Comic = &ComicSummary{
				ID:         row.ComicID.Int64,
				Title:      row.ComicTitle.String,
				Rating:     row.ComicRating.Float64,
				CoverImage: row.ComicCoverImage.String,
			}
		}
		result[i] = item
	}
	return result, nil
}

func (r *repository) ListNewsTargets(ctx context.Context, userID string) ([]*NewsTarget, error) {
	query := `
		SELECT c.character_name, m.title
		FROM comic_character c
		INNER JOIN comics m ON m.id = c.comics_id
		WHERE c.user_id = $1 AND c.news_list = 'Y'
		ORDER BY c.affinity DESC, c.id ASC
	`
	targets := []*NewsTarget{}
	if err := r.db.SelectContext(ctx, &targets, query, userID); err != nil {
		return nil, err
	}
	return targets, nil
}

func mapDBError(err error) error {
	if _, ok := database.Constraint(err, database.CodeCheckViolation); ok {
		return fmt.Errorf("%w: %w", ErrInvalidNewsListFlag, err)
	}
	return err
}
