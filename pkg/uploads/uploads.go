// Package uploads manages the upload area: the directory where image files
// are written and from which they are served statically. Stored posts
// reference files by the relative web path returned from Save.
package uploads

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

// Store defines the interface for persisting uploaded files.
type Store interface {
	// Save writes the uploaded file under a generated name and returns the
	// relative web path (e.g. "/uploads/1700000000000-cat.png") to store on
	// the post record.
	Save(file *multipart.FileHeader) (string, error)

	// Remove deletes the file behind a previously returned web path. A file
	// that is already gone is not an error.
	Remove(webPath string) error
}

// DiskStore is a filesystem implementation of Store. Generated names are
// prefixed with the current unix-millisecond timestamp; concurrent saves of
// the same filename in the same millisecond would collide, which is accepted.
type DiskStore struct {
	dir    string
	prefix string
}

// NewDiskStore creates the upload directory if needed and returns a DiskStore
// serving web paths under prefix.
func NewDiskStore(dir, prefix string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory %s: %w", dir, err)
	}
	return &DiskStore{dir: dir, prefix: strings.TrimSuffix(prefix, "/")}, nil
}

// Save writes the uploaded file to disk under a timestamp-prefixed name.
func (s *DiskStore) Save(file *multipart.FileHeader) (string, error) {
	// Base strips any client-supplied directory components.
	name := fmt.Sprintf("%d-%s", time.Now().UnixMilli(), filepath.Base(file.Filename))

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("failed to create upload file %s: %w", name, err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("failed to write upload file %s: %w", name, err)
	}
	return s.prefix + "/" + name, nil
}

// Remove deletes the backing file for webPath, tolerating its absence.
func (s *DiskStore) Remove(webPath string) error {
	name := path.Base(webPath)
	if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove upload file %s: %w", name, err)
	}
	return nil
}

// Dir returns the directory files are written to, for static serving.
func (s *DiskStore) Dir() string {
	return s.dir
}
