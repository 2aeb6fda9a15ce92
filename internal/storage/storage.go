// Package storage persists uploaded media files and hands back opaque
// references. Rows in the entity store keep the reference, never the
// bytes, so the backing filesystem can be swapped (OS disk in the
// binary, an in-memory filesystem in tests).
package storage

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/afero"
)

// Store saves uploaded files and removes them again by reference. A
// reference is a relative slash-separated path suitable for appending
// to a media base URL.
type Store interface {
	Save(dir, filename string, r io.Reader) (string, error)
	Remove(ref string) error
}

// FileStore is an afero-backed Store rooted at a media directory.
type FileStore struct {
	fs   afero.Fs
	root string
}

// NewFileStore creates a FileStore writing beneath root on fs.
func NewFileStore(fs afero.Fs, root string) *FileStore {
	return &FileStore{
		fs:   fs,
		root: root,
	}
}

// Save streams r into a freshly named file under dir, keeping the
// original extension, and returns the reference.
func (s *FileStore) Save(dir, filename string, r io.Reader) (string, error) {
	ref := path.Join(dir, uuid.New().String()+strings.ToLower(path.Ext(filename)))
	full := filepath.Join(s.root, filepath.FromSlash(ref))

	if err := s.fs.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("failed to create media directory: %w", err)
	}
	f, err := s.fs.Create(full)
	if err != nil {
		return "", fmt.Errorf("failed to create media file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		s.fs.Remove(full)
		return "", fmt.Errorf("failed to write media file: %w", err)
	}
	return ref, nil
}

// Remove deletes the file behind ref. Removing a reference that no
// longer exists is not an error.
func (s *FileStore) Remove(ref string) error {
	full := filepath.Join(s.root, filepath.FromSlash(ref))
	if err := s.fs.Remove(full); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove media file %s: %w", ref, err)
	}
	return nil
}
