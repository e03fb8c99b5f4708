package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"catalog_service/internal/domain"

	"github.com/sirupsen/logrus"
)

// FSBlobStore keeps blobs as files in a single directory.
type FSBlobStore struct {
	dir string
	log *logrus.Logger
}

var _ domain.BlobStore = (*FSBlobStore)(nil)

func NewFSBlobStore(dir string, logger *logrus.Logger) (*FSBlobStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("could not create upload dir %s: %w", dir, err)
	}
	return &FSBlobStore{dir: dir, log: logger}, nil
}

func (s *FSBlobStore) Put(ctx context.Context, data []byte, suggestedName string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	name := uniqueName(suggestedName)
	target := filepath.Join(s.dir, name)

	// O_EXCL so a name collision fails instead of overwriting.
	f, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		s.log.Errorf("Storage: Failed to create blob %s: %v", name, err)
		return "", fmt.Errorf("could not store image: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = os.Remove(target)
		s.log.Errorf("Storage: Failed to write blob %s: %v", name, err)
		return "", fmt.Errorf("could not store image: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(target)
		return "", fmt.Errorf("could not store image: %w", err)
	}

	s.log.Infof("Storage: Stored blob %s (%d bytes)", name, len(data))
	return URLPrefix + name, nil
}

func (s *FSBlobStore) Get(ctx context.Context, url string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	name, err := nameFromURL(url)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("blob '%s' %w", name, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("could not read image: %w", err)
	}
	return data, nil
}

func (s *FSBlobStore) Delete(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	name, err := nameFromURL(url)
	if err != nil {
		return err
	}
	if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		s.log.Errorf("Storage: Failed to delete blob %s: %v", name, err)
		return fmt.Errorf("could not delete image: %w", err)
	}
	s.log.Infof("Storage: Deleted blob %s", name)
	return nil
}
