// Package media stores image and audio payloads on the filesystem and
// recompresses uploaded images into a bounded JPEG envelope.
package media

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Storage manages media filesystem operations for one payload kind.
// Thread-safe for concurrent operations.
type Storage struct {
	basePath string
	mu       sync.RWMutex // Protects file operations
}

// NewStorage creates a Storage rooted at {basePath}/media/{subdir}.
// Example: NewStorage("/data", "images") -> /data/media/images/.
func NewStorage(basePath, subdir string) (*Storage, error) {
	if basePath == "" {
		return nil, fmt.Errorf("base path cannot be empty")
	}
	if subdir == "" {
		return nil, fmt.Errorf("subdirectory cannot be empty")
	}

	storagePath := filepath.Join(basePath, "media", subdir)

	// Create directory if it doesn't exist.
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create %s directory: %w", subdir, err)
	}

	return &Storage{
		basePath: storagePath,
	}, nil
}

// Save stores a payload under the given filename.
func (s *Storage) Save(name string, data []byte) error {
	if name == "" {
		return fmt.Errorf("name cannot be empty")
	}
	if len(data) == 0 {
		return fmt.Errorf("payload cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.WriteFile(s.Path(name), data, 0644); err != nil {
		return fmt.Errorf("failed to write media file: %w", err)
	}
	return nil
}

// Get retrieves a payload by filename.
func (s *Storage) Get(name string) ([]byte, error) {
	if name == "" {
		return nil, fmt.Errorf("name cannot be empty")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.Path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("media not found for %s: %w", name, err)
		}
		return nil, fmt.Errorf("failed to read media file: %w", err)
	}
	return data, nil
}

// Exists checks whether a payload file is present.
func (s *Storage) Exists(name string) bool {
	if name == "" {
		return false
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	_, err := os.Stat(s.Path(name))
	return err == nil
}

// Delete removes a payload. Deleting a missing file is not an error.
func (s *Storage) Delete(name string) error {
	if name == "" {
		return fmt.Errorf("name cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.Path(name)); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to delete media file: %w", err)
	}
	return nil
}

// RemoveAll deletes every payload and recreates the empty directory.
func (s *Storage) RemoveAll() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.RemoveAll(s.basePath); err != nil {
		return fmt.Errorf("failed to clear media directory: %w", err)
	}
	if err := os.MkdirAll(s.basePath, 0755); err != nil {
		return fmt.Errorf("failed to recreate media directory: %w", err)
	}
	return nil
}

// Hash computes the SHA256 hash of a payload.
// Returns a hex-encoded string for ETag/cache validation.
func (s *Storage) Hash(name string) (string, error) {
	data, err := s.Get(name)
	if err != nil {
		return "", err
	}

	hash := sha256.Sum256(data)
	return fmt.Sprintf("%x", hash), nil
}

// Path returns the full filesystem path for a payload filename.
func (s *Storage) Path(name string) string {
	return filepath.Join(s.basePath, name)
}
