package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"mockreview/internal/domain"
)

// SupabaseStore keeps mockup images in a Supabase Storage bucket.
// Requires the service role key (SUPABASE_KEY) for writes.
type SupabaseStore struct {
	supabaseURL string
	bucket      string
	serviceKey  string
	httpClient  *http.Client
}

// NewSupabaseStore creates a new Supabase Storage client for one bucket
func NewSupabaseStore(supabaseURL, bucket, serviceKey string) *SupabaseStore {
	return &SupabaseStore{
		supabaseURL: strings.TrimRight(supabaseURL, "/"),
		bucket:      bucket,
		serviceKey:  serviceKey,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// deleteRequest is the payload for removing objects
type deleteRequest struct {
	Prefixes []string `json:"prefixes"`
}

func (s *SupabaseStore) objectURL(key string) string {
	return fmt.Sprintf("%s/storage/v1/object/%s/%s", s.supabaseURL, s.bucket, escapeKey(key))
}

func (s *SupabaseStore) publicPrefix() string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/", s.supabaseURL, s.bucket)
}

func (s *SupabaseStore) authorize(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+s.serviceKey)
	req.Header.Set("apikey", s.serviceKey)
}

// Put uploads body to key, replacing any existing object
func (s *SupabaseStore) Put(ctx context.Context, key, contentType string, body io.Reader) error {
	if err := ValidateKey(key); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.objectURL(key), body)
	if err != nil {
		return fmt.Errorf("failed to create upload request: %w", err)
	}
	s.authorize(req)
	req.Header.Set("x-upsert", "true")
	req.Header.Set("Cache-Control", "no-cache")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", key, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		msg, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("upload %s failed with status %d: %s", key, resp.StatusCode, string(msg))
	}

	return nil
}

// Delete removes the given objects. Missing objects are not an error.
func (s *SupabaseStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	jsonData, err := json.Marshal(deleteRequest{Prefixes: keys})
	if err != nil {
		return fmt.Errorf("failed to marshal delete request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/storage/v1/object/%s", s.supabaseURL, s.bucket)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, endpoint, bytes.NewReader(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create delete request: %w", err)
	}
	s.authorize(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to delete objects: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		msg, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("delete objects failed with status %d: %s", resp.StatusCode, string(msg))
	}

	return nil
}

// Open downloads an object. The caller closes the returned body.
func (s *SupabaseStore) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	if err := ValidateKey(key); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.objectURL(key), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create download request: %w", err)
	}
	s.authorize(req)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download %s: %w", key, err)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		return resp.Body, nil
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusBadRequest:
		// Storage answers 400 with "Object not found" for missing keys
		resp.Body.Close()
		return nil, &domain.NotFoundError{Message: fmt.Sprintf("object %s not found", key)}
	default:
		msg, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, fmt.Errorf("download %s failed with status %d: %s", key, resp.StatusCode, string(msg))
	}
}

// PublicURL returns the unauthenticated URL of an object in a public bucket
func (s *SupabaseStore) PublicURL(key string) string {
	return s.publicPrefix() + escapeKey(key)
}

// KeyFromURL reverses PublicURL. URLs from other buckets or hosts are rejected.
func (s *SupabaseStore) KeyFromURL(raw string) (string, bool) {
	return keyFromPrefix(s.publicPrefix(), raw)
}

// escapeKey escapes each path segment of a key
func escapeKey(key string) string {
	segments := strings.Split(key, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return strings.Join(segments, "/")
}

func keyFromPrefix(prefix, raw string) (string, bool) {
	// Cache-busting query strings are not part of the key
	if i := strings.IndexByte(raw, '?'); i >= 0 {
		raw = raw[:i]
	}
	rest, ok := strings.CutPrefix(raw, prefix)
	if !ok || rest == "" {
		return "", false
	}
	key, err := url.PathUnescape(rest)
	if err != nil || ValidateKey(key) != nil {
		return "", false
	}
	return key, true
}
