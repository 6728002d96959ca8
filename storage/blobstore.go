package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// BlobStore abstracts where uploaded document bytes live. Save returns the
// server-controlled location the bytes ended up at; Open and Remove take
// that location back.
type BlobStore interface {
	Save(name string, content io.Reader) (string, error)
	Open(path string) (io.ReadCloser, error)
	Remove(path string) error
}

// ValidFilename reports whether a client-supplied name is safe to use as a
// blob key. Names must be non-empty and free of path separators; this is
// the sole defense against traversal out of the store directory.
func ValidFilename(name string) bool {
	return name != "" && !strings.ContainsAny(name, `/\`)
}

// DiskStore keeps blobs as plain files in a single directory, named exactly
// as uploaded. Filenames are not namespaced per project, so concurrent
// uploads of the same name race last-writer-wins.
type DiskStore struct {
	dir    string
	logger zerolog.Logger
}

func NewDiskStore(dir string) (*DiskStore, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, err
	}

	return &DiskStore{
		dir:    abs,
		logger: log.With().Str("component", "diskStore").Logger(),
	}, nil
}

// Dir returns the absolute directory blobs are stored under.
func (s *DiskStore) Dir() string {
	return s.dir
}

func (s *DiskStore) Save(name string, content io.Reader) (string, error) {
	if !ValidFilename(name) {
		return "", fmt.Errorf("unsafe blob name %q", name)
	}

	path := filepath.Join(s.dir, name)
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}

	if _, err := io.Copy(f, content); err != nil {
		f.Close()
		// A half-written blob is worse than none.
		if rmErr := os.Remove(path); rmErr != nil {
			s.logger.Error().Err(rmErr).Str("path", path).Msg("Failed to remove partially written blob")
		}
		return "", err
	}

	if err := f.Close(); err != nil {
		return "", err
	}
	return path, nil
}

func (s *DiskStore) Open(path string) (io.ReadCloser, error) {
	return os.Open(path)
}

func (s *DiskStore) Remove(path string) error {
	return os.Remove(path)
}
