package storage

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// ErrURLExpired is returned when a signed local URL is past its expiry.
var ErrURLExpired = errors.New("storage: signed url expired")

// ErrBadSignature is returned when a signed local URL fails verification.
var ErrBadSignature = errors.New("storage: invalid url signature")

// FileStore persists assets onto the local filesystem and mimics presigned
// URLs with an HMAC-signed expiry query. It is intended for development and
// test environments where an object storage service is not available.
type FileStore struct {
	basePath string
	baseURL  string
	secret   []byte
}

// NewFileStore initializes a FileStore rooted at basePath. Signed URLs are
// built on baseURL and verified with signingSecret.
func NewFileStore(basePath, baseURL, signingSecret string) (*FileStore, error) {
	basePath = strings.TrimSpace(basePath)
	if basePath == "" {
		return nil, errors.New("storage: base path is required")
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("storage: ensure base path: %w", err)
	}
	if signingSecret == "" {
		return nil, errors.New("storage: signing secret is required")
	}
	return &FileStore{
		basePath: basePath,
		baseURL:  strings.TrimRight(baseURL, "/"),
		secret:   []byte(signingSecret),
	}, nil
}

func (s *FileStore) Bucket() string {
	return s.basePath
}

// Put persists the bytes under the given key. Keys are cleaned to prevent
// directory traversal; the content type is implied by the key's extension.
func (s *FileStore) Put(ctx context.Context, key string, data []byte, contentType string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	cleanKey, err := sanitizeKey(key)
	if err != nil {
		return err
	}
	fullPath := filepath.Join(s.basePath, filepath.FromSlash(cleanKey))
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return fmt.Errorf("storage: ensure directory: %w", err)
	}
	if err := os.WriteFile(fullPath, data, 0o644); err != nil {
		return fmt.Errorf("storage: write file: %w", err)
	}
	return nil
}

// SignedURL returns a local URL carrying an expiry timestamp and an HMAC
// signature over the key and expiry.
func (s *FileStore) SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	cleanKey, err := sanitizeKey(key)
	if err != nil {
		return "", err
	}
	expires := time.Now().Add(ttl).Unix()
	sig := s.sign(cleanKey, expires)
	q := url.Values{}
	q.Set("expires", strconv.FormatInt(expires, 10))
	q.Set("sig", sig)
	return fmt.Sprintf("%s/%s?%s", s.baseURL, cleanKey, q.Encode()), nil
}

// Verify checks the signature and expiry produced by SignedURL. A TTL of
// zero yields a URL that is already expired by the time it is checked.
func (s *FileStore) Verify(key, expiresParam, sig string, now time.Time) error {
	cleanKey, err := sanitizeKey(key)
	if err != nil {
		return err
	}
	expires, err := strconv.ParseInt(expiresParam, 10, 64)
	if err != nil {
		return ErrBadSignature
	}
	expected := s.sign(cleanKey, expires)
	if !hmac.Equal([]byte(expected), []byte(sig)) {
		return ErrBadSignature
	}
	if !now.Before(time.Unix(expires, 0)) {
		return ErrURLExpired
	}
	return nil
}

// Open returns the absolute path for a sanitized key.
func (s *FileStore) Open(key string) (string, error) {
	cleanKey, err := sanitizeKey(key)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.basePath, filepath.FromSlash(cleanKey)), nil
}

func (s *FileStore) sign(key string, expires int64) string {
	mac := hmac.New(sha256.New, s.secret)
	fmt.Fprintf(mac, "%s\n%d", key, expires)
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

// sanitizeKey normalizes a key and prevents escaping the storage root.
func sanitizeKey(key string) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", errors.New("storage: key is required")
	}
	key = strings.ReplaceAll(key, "\\", "/")
	key = strings.TrimPrefix(key, "./")
	key = strings.TrimLeft(key, "/")
	cleaned := filepath.Clean(key)
	cleaned = strings.ReplaceAll(cleaned, "\\", "/")
	if cleaned == "." || strings.HasPrefix(cleaned, "../") {
		return "", errors.New("storage: invalid key")
	}
	return cleaned, nil
}

var _ BlobStore = (*FileStore)(nil)
