package store

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/jwtradera/scrt-strongbox/interfaces"
)

// FileStore implements a state store backend using the local file system.
// Each state key maps to one file named by the hex encoding of the key, so
// keys with namespace separators stay flat and filesystem-safe.
type FileStore struct {
	baseDir     string
	log         *slog.Logger
	locationURI string
}

// NewFileStore creates a new file state store using the specified base
// directory, creating it if it doesn't exist.
func NewFileStore(baseDir string, log *slog.Logger) (*FileStore, error) {
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create base directory: %w", err)
	}

	return &FileStore{
		baseDir:     baseDir,
		log:         log,
		locationURI: fmt.Sprintf("file://%s", baseDir),
	}, nil
}

// Get retrieves the value for a key from the file system.
// Returns ErrKeyNotFound if the file doesn't exist.
func (s *FileStore) Get(ctx context.Context, key interfaces.StateKey) ([]byte, error) {
	filePath := s.filePath(key)

	data, err := os.ReadFile(filePath)
	if os.IsNotExist(err) {
		return nil, interfaces.ErrKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read state file: %w", err)
	}

	s.log.Debug("Fetched state entry from file",
		slog.String("key", key),
		slog.Int("size", len(data)))

	return data, nil
}

// Set writes the value for a key to the file system. Values hold secret
// material, so files are not group or world readable.
func (s *FileStore) Set(ctx context.Context, key interfaces.StateKey, value []byte) error {
	filePath := s.filePath(key)

	if err := os.WriteFile(filePath, value, 0600); err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}

	s.log.Debug("Stored state entry in file",
		slog.String("key", key),
		slog.Int("size", len(value)))

	return nil
}

// Delete removes a key's file. Deleting an absent key is a no-op.
func (s *FileStore) Delete(ctx context.Context, key interfaces.StateKey) error {
	err := os.Remove(s.filePath(key))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove state file: %w", err)
	}
	return nil
}

// Available checks if the backend is accessible by verifying the base
// directory exists.
func (s *FileStore) Available(ctx context.Context) bool {
	_, err := os.Stat(s.baseDir)
	if err != nil {
		s.log.Debug("File store unavailable", "err", err)
		return false
	}
	return true
}

// Name returns a unique identifier for this backend.
func (s *FileStore) Name() string {
	return fmt.Sprintf("file-%s", filepath.Base(s.baseDir))
}

// LocationURI returns the URI that identifies this backend.
func (s *FileStore) LocationURI() string {
	return s.locationURI
}

// filePath generates a file path for a state key.
func (s *FileStore) filePath(key interfaces.StateKey) string {
	return filepath.Join(s.baseDir, fmt.Sprintf("%x", key))
}
