package comic

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/comiclib/comiclib-api/internal/pkg/database"
)

// Repository defines comic data access interface
type Repository interface {
	Create(ctx context.Context, c *Comic) error
	GetByID(ctx context.Context, id int64) (*Comic, error)
	Update(ctx context.Context, c *Comic) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, userID string) ([]*Comic, error)
	Search(ctx context.Context, query string) ([]*Comic, error)
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates new comic repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

const comicSelectColumns = `id, user_id, title, author, review, rating, cover_image, created_at`

func (r *repository) Create(ctx context.Context, c *Comic) error {
	query := `
		INSERT INTO comics (user_id, title, author, review, rating, cover_image)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`
	err := r.db.QueryRowxContext(ctx, query,
		c.UserID, c.Title, c.Author, c.Review, c.Rating, c.CoverImage,
	).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		database.LogQueryError(ctx, "comics.create", err)
		return mapDBError(err)
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Comic, error) {
	query := `SELECT ` + comicSelectColumns + ` FROM comics WHERE id = $1`

	var c Comic
	if err := r.db.GetContext(ctx, &c, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *repository) Update(ctx context.Context, c *Comic) error {
	query := `
		UPDATE comics SET
			title = $2, author = $3, review = $4, rating = $5, cover_image = $6
		WHERE id = $1
	`
	_, err := r.db.ExecContext(ctx, query, c.ID, c.Title, c.Author, c.Review, c.Rating, c.CoverImage)
	if err != nil {
		database.LogQueryError(ctx, "comics.update", err)
		return mapDBError(err)
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM comics WHERE id = $1`, id)
	return err
}

func (r *repository) List(ctx context.Context, userID string) ([]*Comic, error) {
	query := `SELECT ` + comicSelectColumns + ` FROM comics`
	args := []interface{}{}
	if userID != "" {
		query += ` WHERE user_id = $1`
		args = append(args, userID)
	}
	query += ` ORDER BY created_at DESC, id DESC`

	comics := []*Comic{}
	if err := r.db.SelectContext(ctx, &comics, query, args...); err != nil {
		return nil, err
	}
	return comics, nil
}

func (r *repository) Search(ctx context.Context, q string) ([]*Comic, error) {
	query := `
		SELECT ` + comicSelectColumns + ` FROM comics
		WHERE title ILIKE $1 ESCAPE '\' OR author ILIKE $1 ESCAPE '\'
		ORDER BY title ASC, id ASC
	`

	comics := []*Comic{}
	if err := r.db.SelectContext(ctx, &comics, query, likePattern(q)); err != nil {
		return nil, err
	}
	return comics, nil
}

// likePattern wraps q in % after escaping LIKE metacharacters
func likePattern(q string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(q) + "%"
}

func mapDBError(err error) error {
	if name, ok := database.Constraint(err, database.CodeCheckViolation); ok && strings.Contains(name, "rating") {
		return fmt.Errorf("%w: %w", ErrInvalidRating, err)
	}
	return err
}
