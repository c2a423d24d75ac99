package photo

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/comiclib/comiclib-api/internal/pkg/imaging"
	"github.com/comiclib/comiclib-api/internal/pkg/logger"
	"github.com/comiclib/comiclib-api/internal/pkg/storage"
)

const contentTypeJPEG = "image/jpeg"

// Service manages the photos attached to characters: blob in the object
// store, metadata row in photo_info.
type Service struct {
	repo      Repository
	store     storage.ObjectStore
	processor *imaging.Processor
	paths     *PathResolver
	urlTTL    time.Duration
}

// NewService creates photo service. processor may be nil, in which case
// uploads are stored byte-for-byte.
func NewService(repo Repository, store storage.ObjectStore, processor *imaging.Processor, paths *PathResolver, urlTTL time.Duration) *Service {
	if urlTTL <= 0 {
		urlTTL = time.Hour
	}
	return &Service{
		repo:      repo,
		store:     store,
		processor: processor,
		paths:     paths,
		urlTTL:    urlTTL,
	}
}

// UploadInput is a validated upload request
type UploadInput struct {
	CharacterID int64
	Data        []byte
	Keyword1    string
	Keyword2    string
}

// ListPhotos returns the character's photos ordered by sequence number, with
// each resolvable path swapped for a signed URL. It never fails: a record
// store error yields an empty list and a signing error leaves that photo's
// path as stored.
func (s *Service) ListPhotos(ctx context.Context, characterID int64) []*PhotoWithURL {
	photos, err := s.repo.ListByCharacter(ctx, characterID)
	if err != nil {
		logger.LogError(ctx, err, "failed to list photos", "character_id", characterID)
		return []*PhotoWithURL{}
	}

	slices.SortStableFunc(photos, func(a, b *Photo) int {
		return a.SequenceNumber - b.SequenceNumber
	})

	items := make([]*PhotoWithURL, 0, len(photos))
	for _, p := range photos {
		item := &PhotoWithURL{Photo: *p}

		key, ok := s.paths.Resolve(p.StoragePath)
		if !ok {
			logger.LogDebug(ctx, "photo path not resolvable, returning as stored",
				"character_id", characterID, "storage_path", p.StoragePath)
			items = append(items, item)
			continue
		}

		url, err := s.store.PresignGet(ctx, key, s.urlTTL)
		if err != nil {
			logger.LogWarn(ctx, "failed to sign photo url",
				"character_id", characterID, "key", key, "error", err.Error())
			items = append(items, item)
			continue
		}

		item.StoragePath = url
		item.Signed = true
		items = append(items, item)
	}

	return items
}

// UploadPhoto stores the image under the next sequence number and records it.
// The upload is atomic: a blob failure writes no row, and a row failure
// removes the blob.
func (s *Service) UploadPhoto(ctx context.Context, in *UploadInput) (*Photo, error) {
	if in.CharacterID <= 0 {
		return nil, ErrInvalidCharacterID
	}

	data, err := s.prepare(in.Data)
	if err != nil {
		return nil, err
	}

	last, err := s.repo.LastSequence(ctx, in.CharacterID)
	if err != nil {
		return nil, fmt.Errorf("read sequence for character %d: %w", in.CharacterID, err)
	}

	// Read then write with no lock: two concurrent uploads can read the same
	// value and collide on the key; the later blob overwrites the earlier one.
	seq := last + 1
	key := s.paths.BuildKey(in.CharacterID, seq)

	if err := s.store.Put(ctx, key, bytes.NewReader(data), contentTypeJPEG); err != nil {
		logger.LogError(ctx, err, "failed to upload photo", "character_id", in.CharacterID, "key", key)
		return nil, fmt.Errorf("%w: %v", ErrStorageUpload, err)
	}

	photo := &Photo{
		CharacterID:    in.CharacterID,
		SequenceNumber: seq,
		StoragePath:    key,
		Keyword1:       in.Keyword1,
		Keyword2:       in.Keyword2,
	}

	if err := s.repo.Create(ctx, photo); err != nil {
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			logger.LogError(ctx, delErr, "failed to remove orphaned photo blob", "key", key)
		}
		return nil, fmt.Errorf("save photo record: %w", err)
	}

	logger.LogInfo(ctx, "photo uploaded", "character_id", in.CharacterID, "sequence_number", seq, "size", len(data))
	return photo, nil
}

// prepare validates the upload and normalizes non-JPEG images to JPEG
func (s *Service) prepare(raw []byte) ([]byte, error) {
	data, mimeType, err := storage.ValidateFile(bytes.NewReader(raw), storage.CategoryPhoto, storage.MaxFileSizes[storage.CategoryPhoto])
	if err != nil {
		if errors.Is(err, storage.ErrInvalidMimeType) {
			return nil, ErrInvalidImage
		}
		return nil, err
	}

	if mimeType == contentTypeJPEG || s.processor == nil {
		return data, nil
	}

	result, err := s.processor.ToJPEG(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	return result.Data, nil
}

// DeletePhoto removes one photo (sequenceNumber set) or all of a character's
// photos (nil) and returns the removed records, empty when nothing matched.
// Blob deletion is best-effort and never blocks the row deletion; record
// store failures are returned.
func (s *Service) DeletePhoto(ctx context.Context, characterID int64, sequenceNumber *int) ([]*Photo, error) {
	var (
		photos []*Photo
		err    error
	)
	if sequenceNumber != nil {
		photos, err = s.repo.ListBySequence(ctx, characterID, *sequenceNumber)
	} else {
		photos, err = s.repo.ListByCharacter(ctx, characterID)
	}
	if err != nil {
		return nil, fmt.Errorf("find photos for character %d: %w", characterID, err)
	}

	deleted := make([]*Photo, 0, len(photos))
	for _, p := range photos {
		if key, ok := s.paths.Resolve(p.StoragePath); ok {
			if err := s.store.Delete(ctx, key); err != nil {
				logger.LogWarn(ctx, "failed to delete photo blob",
					"character_id", characterID, "key", key, "error", err.Error())
			}
		}

		if err := s.repo.Delete(ctx, p.ID); err != nil {
			return nil, fmt.Errorf("delete photo %d: %w", p.ID, err)
		}
		deleted = append(deleted, p)
	}

	if len(deleted) > 0 {
		logger.LogInfo(ctx, "photos deleted", "character_id", characterID, "count", len(deleted))
	}
	return deleted, nil
}

// DeleteAllForCharacter removes every photo of a character. Used by the
// character and comic cascades.
func (s *Service) DeleteAllForCharacter(ctx context.Context, characterID int64) error {
	_, err := s.DeletePhoto(ctx, characterID, nil)
	return err
}
