package photo

import (
	"context"

	"github.com/jmoiron/sqlx"
)

// Repository defines photo_info data access
type Repository interface {
	// ListByCharacter returns a character's photos ordered by sequence_number ascending.
	ListByCharacter(ctx context.Context, characterID int64) ([]*Photo, error)

	// ListBySequence returns the rows with the given sequence number (normally zero or one).
	ListBySequence(ctx context.Context, characterID int64, sequenceNumber int) ([]*Photo, error)

	// LastSequence returns the highest sequence_number ever assigned to a
	// character, counting deleted photos; 0 if none.
	LastSequence(ctx context.Context, characterID int64) (int, error)

	// Create inserts the row, raises the character's high-water mark and
	// fills ID and CreatedAt.
	Create(ctx context.Context, photo *Photo) error

	// Delete removes a single row by its primary key.
	Delete(ctx context.Context, id int64) error
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates new photo repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

const selectCols = `id, character_id, sequence_number, storage_path, keyword1, keyword2, created_at`

func (r *repository) ListByCharacter(ctx context.Context, characterID int64) ([]*Photo, error) {
	query := `SELECT ` + selectCols + ` FROM photo_info WHERE character_id = $1 ORDER BY sequence_number ASC, id ASC`
	photos := []*Photo{}
	if err := r.db.SelectContext(ctx, &photos, query, characterID); err != nil {
		return nil, err
	}
	return photos, nil
}

func (r *repository) ListBySequence(ctx context.Context, characterID int64, sequenceNumber int) ([]*Photo, error) {
	query := `SELECT ` + selectCols + ` FROM photo_info WHERE character_id = $1 AND sequence_number = $2 ORDER BY id ASC`
	photos := []*Photo{}
	if err := r.db.SelectContext(ctx, &photos, query, characterID, sequenceNumber); err != nil {
		return nil, err
	}
	return photos, nil
}

func (r *repository) LastSequence(ctx context.Context, characterID int64) (int, error) {
	query := `
		SELECT GREATEST(
			COALESCE((SELECT MAX(sequence_number) FROM photo_info WHERE character_id = $1), 0),
			COALESCE((SELECT last_sequence FROM photo_sequence WHERE character_id = $1), 0)
		)
	`
	var last int
	err := r.db.GetContext(ctx, &last, query, characterID)
	return last, err
}

func (r *repository) Create(ctx context.Context, photo *Photo) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	insert := `
		INSERT INTO photo_info (character_id, sequence_number, storage_path, keyword1, keyword2)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`
	if err := tx.QueryRowxContext(ctx, insert,
		photo.CharacterID,
		photo.SequenceNumber,
		photo.StoragePath,
		photo.Keyword1,
		photo.Keyword2,
	).Scan(&photo.ID, &photo.CreatedAt); err != nil {
		return err
	}

	mark := `
		INSERT INTO photo_sequence (character_id, last_sequence)
		VALUES ($1, $2)
		ON CONFLICT (character_id) DO UPDATE
			SET last_sequence = GREATEST(photo_sequence.last_sequence, EXCLUDED.last_sequence)
	`
	if _, err := tx.ExecContext(ctx, mark, photo.CharacterID, photo.SequenceNumber); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM photo_info WHERE id = $1`, id)
	return err
}
