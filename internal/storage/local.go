package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"mockreview/internal/domain"
)

// LocalStore keeps objects under a directory and serves them from
// {publicBaseURL}/files/. Used for development without Supabase.
type LocalStore struct {
	root          string
	publicBaseURL string
}

// NewLocalStore creates the root directory if needed
func NewLocalStore(root, publicBaseURL string) (*LocalStore, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("create storage directory: %w", err)
	}
	return &LocalStore{
		root:          root,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
	}, nil
}

func (s *LocalStore) path(key string) string {
	return filepath.Join(s.root, filepath.FromSlash(key))
}

// Put writes to a temporary file and renames it over key, so readers see
// either the old object or the new one.
func (s *LocalStore) Put(_ context.Context, key, _ string, body io.Reader) error {
	if err := ValidateKey(key); err != nil {
		return err
	}

	dest := s.path(key)
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return fmt.Errorf("create object directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dest), ".upload-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, body); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", key, err)
	}
	if err := os.Rename(tmp.Name(), dest); err != nil {
		return fmt.Errorf("store %s: %w", key, err)
	}
	return nil
}

// Delete removes objects; missing ones are ignored
func (s *LocalStore) Delete(_ context.Context, keys ...string) error {
	var errs []error
	for _, key := range keys {
		if err := ValidateKey(key); err != nil {
			errs = append(errs, err)
			continue
		}
		if err := os.Remove(s.path(key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (s *LocalStore) Open(_ context.Context, key string) (io.ReadCloser, error) {
	if err := ValidateKey(key); err != nil {
		return nil, err
	}
	f, err := os.Open(s.path(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &domain.NotFoundError{Message: fmt.Sprintf("object %s not found", key)}
		}
		return nil, err
	}
	return f, nil
}

func (s *LocalStore) PublicURL(key string) string {
	return s.publicBaseURL + "/files/" + escapeKey(key)
}

func (s *LocalStore) KeyFromURL(raw string) (string, bool) {
	return keyFromPrefix(s.publicBaseURL+"/files/", raw)
}

// Handler serves stored objects; mount it under /files/
func (s *LocalStore) Handler() http.Handler {
	return http.StripPrefix("/files/", http.FileServer(http.Dir(s.root)))
}
