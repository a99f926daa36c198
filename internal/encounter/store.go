package encounter

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Store reads and writes encoded encounter documents by id.
type Store interface {
	// Exists reports whether id is stored.
	Exists(ctx context.Context, id string) (bool, error)
	// Read returns the document for id or an error wrapping ErrFileNotFound.
	Read(ctx context.Context, id string) ([]byte, error)
	// Write stores data under id, replacing any previous document.
	Write(ctx context.Context, id string, data []byte) error
	// List returns every stored id in sorted order.
	List(ctx context.Context) ([]string, error)
}

const fileExt = ".json"

// FileStore keeps each encounter as <dir>/<id>.json.
type FileStore struct {
	dir string
}

// NewFileStore returns a FileStore rooted at dir. The directory is created on first write.
func NewFileStore(dir string) *FileStore { return &FileStore{dir: dir} }

// Dir returns the root directory.
func (s *FileStore) Dir() string { return s.dir }

// ValidateID rejects identifiers that are empty or that would escape the store.
func ValidateID(id string) error {
	if id == "" || id == "." || id == ".." || strings.ContainsAny(id, `/\`) {
		return fmt.Errorf("%q: %w", id, ErrInvalidID)
	}
	return nil
}

func (s *FileStore) path(id string) (string, error) {
	if err := ValidateID(id); err != nil {
		return "", err
	}
	return filepath.Join(s.dir, id+fileExt), nil
}

// Exists implements Store.
func (s *FileStore) Exists(_ context.Context, id string) (bool, error) {
	p, err := s.path(id)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(p)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking %s: %w", p, err)
	}
	return true, nil
}

// Read implements Store.
func (s *FileStore) Read(_ context.Context, id string) ([]byte, error) {
	p, err := s.path(id)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", p, ErrFileNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", p, err)
	}
	return data, nil
}

// Write implements Store.
func (s *FileStore) Write(_ context.Context, id string, data []byte) error {
	p, err := s.path(id)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", s.dir, err)
	}
	if err := os.WriteFile(p, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", p, err)
	}
	return nil
}

// List implements Store. A missing directory lists as empty.
func (s *FileStore) List(_ context.Context) ([]string, error) {
	items, err := os.ReadDir(s.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", s.dir, err)
	}
	var ids []string
	for _, it := range items {
		if it.IsDir() || !strings.HasSuffix(it.Name(), fileExt) {
			continue
		}
		ids = append(ids, strings.TrimSuffix(it.Name(), fileExt))
	}
	sort.Strings(ids)
	return ids, nil
}
