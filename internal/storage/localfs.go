package storage

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/magvolt/sitecms/pkg/interfaces"
)

// LocalStorage keeps uploaded objects on the local filesystem and mints
// HMAC-signed URLs for them. It stands in for a managed bucket: the URL a
// caller persists is pre-authenticated and needs no credentials to read.
type LocalStorage struct {
	root      string
	publicURL string
	key       []byte
	maxTTL    time.Duration
	now       func() time.Time
}

var (
	ErrRootRequired       = errors.New("storage: root directory is required")
	ErrSigningKeyRequired = errors.New("storage: signing key is required")
)

// Option configures the store.
type Option func(*LocalStorage)

// WithMaxTTL caps the expiry granted when callers ask for the longest
// supported one.
func WithMaxTTL(ttl time.Duration) Option {
	return func(s *LocalStorage) {
		if ttl > 0 {
			s.maxTTL = ttl
		}
	}
}

// WithClock overrides the clock used for expiries.
func WithClock(clock func() time.Time) Option {
	return func(s *LocalStorage) {
		if clock != nil {
			s.now = clock
		}
	}
}

// NewLocalStorage creates a store rooted at the given directory. publicURL
// is the externally reachable base under which objects are served, for
// example "http://localhost:8080/objects".
func NewLocalStorage(root, publicURL, signingKey string, opts ...Option) (*LocalStorage, error) {
	if strings.TrimSpace(root) == "" {
		return nil, ErrRootRequired
	}
	if signingKey == "" {
		return nil, ErrSigningKeyRequired
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("storage: create root: %w", err)
	}
	s := &LocalStorage{
		root:      root,
		publicURL: strings.TrimRight(publicURL, "/"),
		key:       []byte(signingKey),
		maxTTL:    10 * 365 * 24 * time.Hour,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *LocalStorage) Write(_ context.Context, path string, _ string, payload io.Reader) error {
	full, err := s.fullPath(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("storage: mkdir: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(full), ".upload-*")
	if err != nil {
		return fmt.Errorf("storage: temp file: %w", err)
	}
	if _, err := io.Copy(tmp, payload); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("storage: write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("storage: close: %w", err)
	}
	if err := os.Rename(tmp.Name(), full); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("storage: rename: %w", err)
	}
	return nil
}

func (s *LocalStorage) Delete(_ context.Context, path string) error {
	full, err := s.fullPath(path)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("storage: delete: %w", err)
	}
	return nil
}

func (s *LocalStorage) SignedURL(path string, ttl time.Duration) (*interfaces.SignedURL, error) {
	clean, err := cleanPath(path)
	if err != nil {
		return nil, err
	}
	if ttl <= 0 || ttl > s.maxTTL {
		ttl = s.maxTTL
	}
	expires := s.now().Add(ttl)
	exp := strconv.FormatInt(expires.Unix(), 10)
	sig := s.sign(clean, exp)

	u := fmt.Sprintf("%s/%s?exp=%s&sig=%s", s.publicURL, clean, exp, sig)
	return &interfaces.SignedURL{
		URL:       u,
		Method:    "GET",
		ExpiresAt: expires,
	}, nil
}

// ObjectPath maps a signed URL back to its storage path. URLs minted for a
// different base return false.
func (s *LocalStorage) ObjectPath(raw string) (string, bool) {
	if !strings.HasPrefix(raw, s.publicURL+"/") {
		return "", false
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return "", false
	}
	base, err := url.Parse(s.publicURL)
	if err != nil {
		return "", false
	}
	rel := strings.TrimPrefix(parsed.Path, base.Path)
	rel = strings.TrimPrefix(rel, "/")
	if rel == "" {
		return "", false
	}
	clean, err := cleanPath(rel)
	if err != nil {
		return "", false
	}
	return clean, true
}

// Verify checks a signed request against the store's key. It returns false
// for tampered paths and expired links.
func (s *LocalStorage) Verify(path, exp, sig string) bool {
	clean, err := cleanPath(path)
	if err != nil {
		return false
	}
	expires, err := strconv.ParseInt(exp, 10, 64)
	if err != nil {
		return false
	}
	if s.now().Unix() > expires {
		return false
	}
	expected := s.sign(clean, exp)
	return hmac.Equal([]byte(expected), []byte(sig))
}

// Open returns the stored object for serving.
func (s *LocalStorage) Open(path string) (*os.File, error) {
	full, err := s.fullPath(path)
	if err != nil {
		return nil, err
	}
	return os.Open(full)
}

func (s *LocalStorage) List(_ context.Context, prefix string) ([]string, error) {
	var out []string
	err := filepath.WalkDir(s.root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(s.root, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if strings.HasPrefix(filepath.Base(rel), ".upload-") {
			return nil
		}
		if prefix == "" || strings.HasPrefix(rel, strings.Trim(prefix, "/")+"/") || rel == strings.Trim(prefix, "/") {
			out = append(out, rel)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("storage: list: %w", err)
	}
	return out, nil
}

func (s *LocalStorage) sign(path, exp string) string {
	mac := hmac.New(sha256.New, s.key)
	mac.Write([]byte(path))
	mac.Write([]byte{'\n'})
	mac.Write([]byte(exp))
	return hex.EncodeToString(mac.Sum(nil))
}

func (s *LocalStorage) fullPath(path string) (string, error) {
	clean, err := cleanPath(path)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.root, filepath.FromSlash(clean)), nil
}

func cleanPath(path string) (string, error) {
	clean := strings.TrimPrefix(strings.TrimSpace(path), "/")
	if clean == "" || strings.Contains(clean, "..") {
		return "", fmt.Errorf("storage: invalid object path %q", path)
	}
	return clean, nil
}

var _ interfaces.ObjectStorage = (*LocalStorage)(nil)
