package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// DiskStorage writes files under a base directory and serves them from
// a static route on the API itself.
type DiskStorage struct {
	baseDir string
	baseURL string
}

func NewDiskStorage(baseDir, baseURL string) *DiskStorage {
	return &DiskStorage{
		baseDir: baseDir,
		baseURL: baseURL,
	}
}

func (s *DiskStorage) Save(ctx context.Context, key string, r io.Reader) (*StoredObject, error) {
	dstPath := filepath.Join(s.baseDir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(dstPath), 0755); err != nil {
		return nil, err
	}

	dst, err := os.Create(dstPath)
	if err != nil {
		return nil, err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, r); err != nil {
		// Leave no partial file behind
		os.Remove(dstPath)
		return nil, err
	}

	return &StoredObject{
		Path:      dstPath,
		PublicURL: fmt.Sprintf("%s/uploads/%s", s.baseURL, key),
	}, nil
}

func (s *DiskStorage) Delete(ctx context.Context, key string) error {
	return os.Remove(filepath.Join(s.baseDir, filepath.FromSlash(key)))
}
