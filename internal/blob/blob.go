// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package blob stores uploaded objects (avatars) on the local filesystem and
// maps their keys to public URLs.
package blob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/MKhiriev/go-org-site/internal/config"
	"github.com/MKhiriev/go-org-site/internal/logger"
	"github.com/MKhiriev/go-org-site/models"
)

var (
	ErrInvalidKey     = errors.New("invalid blob key")
	ErrObjectTooLarge = errors.New("blob object too large")
)

//go:generate mockgen -source=blob.go -destination=../mock/blob_mock.go -package=mock

// Store is an object store addressed by slash-separated keys.
type Store interface {
	// Put writes body under key, replacing any previous object.
	Put(ctx context.Context, key string, body io.Reader) (models.BlobObject, error)
	// Delete removes key. A missing object is not an error.
	Delete(ctx context.Context, key string) error
	URL(key string) string
}

// FileStore keeps objects as files below a root directory.
type FileStore struct {
	root    string
	baseURL string
	maxSize int64
	logger  *logger.Logger
}

// DefaultMaxObjectSize caps a single stored object.
const DefaultMaxObjectSize = 5 << 20

func NewFileStore(cfg config.Files, log *logger.Logger) (*FileStore, error) {
	if err := os.MkdirAll(cfg.BlobDir, 0o750); err != nil {
		log.Err(err).Str("func", "NewFileStore").Str("dir", cfg.BlobDir).Msg("error creating blob directory")
		return nil, fmt.Errorf("error creating blob directory: %w", err)
	}

	return &FileStore{
		root:    cfg.BlobDir,
		baseURL: strings.TrimSuffix(cfg.PublicBaseURL, "/"),
		maxSize: DefaultMaxObjectSize,
		logger:  log,
	}, nil
}

// Root is the directory objects are written to.
func (s *FileStore) Root() string {
	return s.root
}

func (s *FileStore) Put(ctx context.Context, key string, body io.Reader) (models.BlobObject, error) {
	log := logger.FromContext(ctx)

	target, err := s.resolve(key)
	if err != nil {
		return models.BlobObject{}, err
	}

	if err = os.MkdirAll(filepath.Dir(target), 0o750); err != nil {
		return models.BlobObject{}, fmt.Errorf("error creating blob directory: %w", err)
	}

	// objects become visible only after the rename
	tmp, err := os.CreateTemp(filepath.Dir(target), ".upload-*")
	if err != nil {
		return models.BlobObject{}, fmt.Errorf("error creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	n, err := io.Copy(tmp, io.LimitReader(body, s.maxSize+1))
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		log.Err(err).Str("func", "FileStore.Put").Str("key", key).Msg("error writing blob")
		return models.BlobObject{}, fmt.Errorf("error writing blob: %w", err)
	}
	if n > s.maxSize {
		return models.BlobObject{}, ErrObjectTooLarge
	}

	if err = os.Rename(tmp.Name(), target); err != nil {
		return models.BlobObject{}, fmt.Errorf("error storing blob: %w", err)
	}

	log.Debug().Str("func", "FileStore.Put").Str("key", key).Int64("size", n).Msg("blob stored")
	return models.BlobObject{Key: key, URL: s.URL(key)}, nil
}

func (s *FileStore) Delete(ctx context.Context, key string) error {
	target, err := s.resolve(key)
	if err != nil {
		return err
	}

	if err = os.Remove(target); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.FromContext(ctx).Err(err).Str("func", "FileStore.Delete").Str("key", key).Msg("error deleting blob")
		return fmt.Errorf("error deleting blob: %w", err)
	}

	return nil
}

func (s *FileStore) URL(key string) string {
	parts := strings.Split(key, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return s.baseURL + "/" + strings.Join(parts, "/")
}

// resolve maps key to a path inside root, rejecting keys that would escape it.
func (s *FileStore) resolve(key string) (string, error) {
	if key == "" || strings.HasPrefix(key, "/") || strings.Contains(key, "\\") {
		return "", ErrInvalidKey
	}
	clean := path.Clean(key)
	if clean != key || clean == "." || strings.HasPrefix(clean, "../") || clean == ".." {
		return "", ErrInvalidKey
	}
	return filepath.Join(s.root, filepath.FromSlash(clean)), nil
}
