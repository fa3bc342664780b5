// Package storage persists uploaded and exported files on local disk.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

type FileStore struct {
	baseDir string
}

func NewFileStore(baseDir string) (*FileStore, error) {
	for _, sub := range []string{"uploads", "exports", "templates"} {
		if err := os.MkdirAll(filepath.Join(baseDir, sub), 0o755); err != nil {
			return nil, fmt.Errorf("create storage dir: %w", err)
		}
	}
	return &FileStore{baseDir: baseDir}, nil
}

// Save writes data under the given subdirectory and returns the relative
// path used as the stored-file reference.
func (fs *FileStore) Save(subdir, name string, data []byte) (string, error) {
	rel := filepath.Join(subdir, sanitize(name))
	if err := os.WriteFile(filepath.Join(fs.baseDir, rel), data, 0o644); err != nil {
		return "", fmt.Errorf("save %s: %w", rel, err)
	}
	return rel, nil
}

func (fs *FileStore) Read(rel string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(fs.baseDir, rel))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rel, err)
	}
	return data, nil
}

func (fs *FileStore) Remove(rel string) error {
	return os.Remove(filepath.Join(fs.baseDir, rel))
}

// sanitize strips path separators so a client-supplied name can't escape
// the storage directory.
func sanitize(name string) string {
	name = filepath.Base(name)
	return strings.ReplaceAll(name, string(os.PathSeparator), "_")
}
