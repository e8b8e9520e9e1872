package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/staffbook/internal/common"
	"github.com/dmitrijs2005/staffbook/internal/filex"
)

// DiskStore writes pictures into a local directory that the HTTP server
// exposes under /uploads.
type DiskStore struct {
	dir string
}

func NewDiskStore(dir string) (*DiskStore, error) {
	abs, err := filex.EnsureDir(dir)
	if err != nil {
		return nil, fmt.Errorf("upload dir: %w", err)
	}
	return &DiskStore{dir: abs}, nil
}

// Dir is the absolute directory holding the pictures.
func (s *DiskStore) Dir() string {
	return s.dir
}

func (s *DiskStore) Save(ctx context.Context, p *Picture) (string, error) {
	key := newKey(p.Filename)
	path := filepath.Join(s.dir, key)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o640)
	if err != nil {
		return "", fmt.Errorf("create picture: %w", err)
	}

	if _, err := io.Copy(f, p.Body); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", fmt.Errorf("write picture: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("close picture: %w", err)
	}

	return common.UploadsPrefix + key, nil
}

func (s *DiskStore) Delete(ctx context.Context, ref string) error {
	key := keyFromRef(ref)
	if key == "" {
		return nil
	}
	return filex.RemoveIfExists(filepath.Join(s.dir, key))
}
