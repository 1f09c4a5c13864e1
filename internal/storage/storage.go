package storage

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// Subdirectories under the media root, one per file kind.
const (
	DirItems     = "items"
	DirAddresses = "addresses"
	DirReceipts  = "receipts"
)

// Store persists uploaded files and generated documents under a media root.
// Paths returned by Save are relative to the root so they remain valid when
// the root moves between environments.
type Store struct {
	root string
}

// NewStore creates the media root and its subdirectories if missing
func NewStore(root string) (*Store, error) {
	for _, dir := range []string{"", DirItems, DirAddresses, DirReceipts} {
		if err := os.MkdirAll(filepath.Join(root, dir), 0o755); err != nil {
			return nil, errors.Wrap(err, "failed to create media directory")
		}
	}
	return &Store{root: root}, nil
}

// Root returns the media root directory
func (s *Store) Root() string {
	return s.root
}

// Save writes the reader's contents to <root>/<dir>/<name> and returns the
// relative path.
func (s *Store) Save(dir, name string, r io.Reader) (string, error) {
	rel := filepath.Join(dir, filepath.Base(name))
	f, err := os.Create(filepath.Join(s.root, rel))
	if err != nil {
		return "", errors.Wrap(err, "failed to create media file")
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return "", errors.Wrap(err, "failed to write media file")
	}
	return filepath.ToSlash(rel), nil
}

// Remove deletes a stored file by its relative path. A missing file is not
// an error.
func (s *Store) Remove(rel string) error {
	if rel == "" {
		return nil
	}
	err := os.Remove(filepath.Join(s.root, filepath.FromSlash(rel)))
	if err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "failed to remove media file")
	}
	return nil
}

// Purge deletes every regular file in a subdirectory and returns how many
// were removed.
func (s *Store) Purge(dir string) (int, error) {
	entries, err := os.ReadDir(filepath.Join(s.root, dir))
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, errors.Wrap(err, "failed to read media directory")
	}

	removed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if err := os.Remove(filepath.Join(s.root, dir, entry.Name())); err != nil {
			return removed, errors.Wrap(err, "failed to purge media file")
		}
		removed++
	}
	return removed, nil
}

// SafeName strips path separators from a client-provided filename
func SafeName(name string) string {
	name = filepath.Base(name)
	return strings.ReplaceAll(name, string(os.PathSeparator), "_")
}
