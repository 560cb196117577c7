package store

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/dgraph-io/badger/v4"
)

// Media metadata records. The binary payloads live on the filesystem under
// the media storage root; these records carry everything needed to list,
// serve, and clean up the payloads.

// ImageRecord is the metadata for one stored image.
type ImageRecord struct {
	ID        string `json:"id"`
	Owner     string `json:"owner"` // e.g. "hizb_12"
	Name      string `json:"name"`
	MimeType  string `json:"mimeType"`
	Size      int64  `json:"size"` // bytes after recompression
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	BlurHash  string `json:"blurHash,omitempty"`
	Timestamp int64  `json:"timestamp"` // unix milliseconds
}

// AudioRecord is the metadata for one stored voice note. Audio is kept
// verbatim as uploaded, so the extension and MIME type come from the upload.
type AudioRecord struct {
	ID        string `json:"id"`
	Owner     string `json:"owner"`
	Title     string `json:"title"`
	MimeType  string `json:"mimeType"`
	Ext       string `json:"ext"`
	Size      int64  `json:"size"`
	Timestamp int64  `json:"timestamp"`
}

const (
	prefixImage = "image:"
	prefixAudio = "audio:"
)

func mediaKey(prefix, id string) []byte {
	return []byte(prefix + id)
}

// ownerIndexKey builds the secondary index key that maps an owner to one of
// its media IDs, e.g. "image:idx:owner:hizb_12:img-abc".
func ownerIndexKey(prefix, owner, id string) []byte {
	return []byte(prefix + "idx:owner:" + owner + ":" + id)
}

// SaveImage stores an image metadata record and its owner index entry.
func (s *Store) SaveImage(ctx context.Context, rec *ImageRecord) error {
	return s.saveMediaRecord(ctx, prefixImage, rec.ID, rec.Owner, rec)
}

// SaveAudio stores an audio metadata record and its owner index entry.
func (s *Store) SaveAudio(ctx context.Context, rec *AudioRecord) error {
	return s.saveMediaRecord(ctx, prefixAudio, rec.ID, rec.Owner, rec)
}

func (s *Store) saveMediaRecord(ctx context.Context, prefix, id, owner string, rec any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if id == "" || owner == "" {
		return ErrInvalidInput.WithMessage("media record needs an id and an owner")
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal media record: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(mediaKey(prefix, id), data); err != nil {
			return err
		}
		return txn.Set(ownerIndexKey(prefix, owner, id), []byte(id))
	})
}

// GetImage retrieves an image record by ID.
func (s *Store) GetImage(ctx context.Context, id string) (*ImageRecord, error) {
	var rec ImageRecord
	if err := s.getMediaRecord(ctx, prefixImage, id, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// GetAudio retrieves an audio record by ID.
func (s *Store) GetAudio(ctx context.Context, id string) (*AudioRecord, error) {
	var rec AudioRecord
	if err := s.getMediaRecord(ctx, prefixAudio, id, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *Store) getMediaRecord(ctx context.Context, prefix, id string, dest any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := s.get(mediaKey(prefix, id), dest)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return ErrNotFound.WithMessage("media not found")
	}
	if err != nil {
		return fmt.Errorf("get media record: %w", err)
	}
	return nil
}

// DeleteImage removes an image record and its index entry, returning the
// deleted record so the caller can remove the payload. Deleting an unknown ID
// is a no-op and returns nil.
func (s *Store) DeleteImage(ctx context.Context, id string) (*ImageRecord, error) {
	rec, err := s.GetImage(ctx, id)
	if err != nil {
		var storeErr *Error
		if errors.As(err, &storeErr) && storeErr.Code == ErrNotFound.Code {
			return nil, nil
		}
		return nil, err
	}

	if err := s.deleteMediaRecord(prefixImage, id, rec.Owner); err != nil {
		return nil, err
	}
	return rec, nil
}

// DeleteAudio removes an audio record and its index entry, returning the
// deleted record. Deleting an unknown ID is a no-op and returns nil.
func (s *Store) DeleteAudio(ctx context.Context, id string) (*AudioRecord, error) {
	rec, err := s.GetAudio(ctx, id)
	if err != nil {
		var storeErr *Error
		if errors.As(err, &storeErr) && storeErr.Code == ErrNotFound.Code {
			return nil, nil
		}
		return nil, err
	}

	if err := s.deleteMediaRecord(prefixAudio, id, rec.Owner); err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *Store) deleteMediaRecord(prefix, id, owner string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Delete(mediaKey(prefix, id)); err != nil {
			return err
		}
		return txn.Delete(ownerIndexKey(prefix, owner, id))
	})
}

// ListImagesByOwner returns all image records for an owner, oldest first.
func (s *Store) ListImagesByOwner(ctx context.Context, owner string) ([]ImageRecord, error) {
	ids, err := s.ownerMediaIDs(ctx, prefixImage, owner)
	if err != nil {
		return nil, err
	}

	records := make([]ImageRecord, 0, len(ids))
	for _, id := range ids {
		rec, err := s.GetImage(ctx, id)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	sortByTimestamp(records, func(r ImageRecord) int64 { return r.Timestamp })
	return records, nil
}

// ListAudioByOwner returns all audio records for an owner, oldest first.
func (s *Store) ListAudioByOwner(ctx context.Context, owner string) ([]AudioRecord, error) {
	ids, err := s.ownerMediaIDs(ctx, prefixAudio, owner)
	if err != nil {
		return nil, err
	}

	records := make([]AudioRecord, 0, len(ids))
	for _, id := range ids {
		rec, err := s.GetAudio(ctx, id)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	sortByTimestamp(records, func(r AudioRecord) int64 { return r.Timestamp })
	return records, nil
}

func sortByTimestamp[T any](records []T, ts func(T) int64) {
	slices.SortStableFunc(records, func(a, b T) int {
		return int(ts(a) - ts(b))
	})
}

// ownerMediaIDs scans the owner index for all media IDs under one owner.
func (s *Store) ownerMediaIDs(ctx context.Context, prefix, owner string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	indexPrefix := []byte(prefix + "idx:owner:" + owner + ":")

	var ids []string
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = indexPrefix
		opts.PrefetchValues = true

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(indexPrefix); it.ValidForPrefix(indexPrefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			err := it.Item().Value(func(val []byte) error {
				ids = append(ids, string(val))
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan owner index: %w", err)
	}
	return ids, nil
}

// DeleteMediaByOwner removes all media records for an owner, returning the
// deleted records so the caller can remove their payloads.
func (s *Store) DeleteMediaByOwner(ctx context.Context, owner string) ([]ImageRecord, []AudioRecord, error) {
	images, err := s.ListImagesByOwner(ctx, owner)
	if err != nil {
		return nil, nil, err
	}
	audio, err := s.ListAudioByOwner(ctx, owner)
	if err != nil {
		return nil, nil, err
	}

	for _, rec := range images {
		if err := s.deleteMediaRecord(prefixImage, rec.ID, rec.Owner); err != nil {
			return nil, nil, err
		}
	}
	for _, rec := range audio {
		if err := s.deleteMediaRecord(prefixAudio, rec.ID, rec.Owner); err != nil {
			return nil, nil, err
		}
	}
	return images, audio, nil
}

// ClearAllMedia drops every media record and index entry. Returns the number
// of image and audio records removed.
func (s *Store) ClearAllMedia(ctx context.Context) (int, int, error) {
	images, err := s.dropPrefix(ctx, prefixImage)
	if err != nil {
		return 0, 0, err
	}
	audio, err := s.dropPrefix(ctx, prefixAudio)
	if err != nil {
		return images, 0, err
	}
	return images, audio, nil
}

// dropPrefix deletes every key under prefix, counting only primary records.
func (s *Store) dropPrefix(ctx context.Context, prefix string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	var keys [][]byte
	count := 0
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(prefix)
		opts.PrefetchValues = false

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek([]byte(prefix)); it.ValidForPrefix([]byte(prefix)); it.Next() {
			key := it.Item().KeyCopy(nil)
			if !strings.HasPrefix(string(key[len(prefix):]), "idx:") {
				count++
			}
			keys = append(keys, key)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		for _, key := range keys {
			if err := txn.Delete(key); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("drop prefix %s: %w", prefix, err)
	}
	return count, nil
}

// MediaUsage sums the stored payload sizes of all images and audio notes.
func (s *Store) MediaUsage(ctx context.Context) (imageBytes, audioBytes int64, err error) {
	err = s.db.View(func(txn *badger.Txn) error {
		imageBytes, err = sumSizes(ctx, txn, prefixImage, func(r *ImageRecord) int64 { return r.Size })
		if err != nil {
			return err
		}
		audioBytes, err = sumSizes(ctx, txn, prefixAudio, func(r *AudioRecord) int64 { return r.Size })
		return err
	})
	if err != nil {
		return 0, 0, fmt.Errorf("media usage: %w", err)
	}
	return imageBytes, audioBytes, nil
}

func sumSizes[T any](ctx context.Context, txn *badger.Txn, prefix string, size func(*T) int64) (int64, error) {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = []byte(prefix)
	opts.PrefetchValues = true

	it := txn.NewIterator(opts)
	defer it.Close()

	var total int64
	for it.Seek([]byte(prefix)); it.ValidForPrefix([]byte(prefix)); it.Next() {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		key := string(it.Item().Key())
		if strings.HasPrefix(key[len(prefix):], "idx:") {
			continue
		}
		var rec T
		err := it.Item().Value(func(val []byte) error {
			return json.Unmarshal(val, &rec)
		})
		if err != nil {
			return 0, err
		}
		total += size(&rec)
	}
	return total, nil
}
