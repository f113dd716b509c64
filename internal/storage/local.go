// Package storage implements the blob store behind video uploads: the admin
// asks for a signed upload URL, PUTs the file to it, and the returned public
// URL becomes an episode's video URL.
package storage

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"anime-catalog-service/internal/config"
	"anime-catalog-service/internal/models"
)

var (
	ErrInvalidKey       = errors.New("invalid object key")
	ErrInvalidSignature = errors.New("invalid upload signature")
	ErrExpired          = errors.New("upload URL expired")
	ErrTooLarge         = errors.New("upload exceeds size limit")
	ErrNoSecret         = errors.New("upload signing secret is not configured")
)

// mediaExts are the extensions an object key may carry. Anything else is
// stored without an extension so it is never served as markup or script.
var mediaExts = map[string]bool{
	"mp4": true, "m4v": true, "webm": true, "mkv": true, "mov": true, "ogv": true,
	"jpg": true, "jpeg": true, "png": true, "webp": true, "gif": true,
	"vtt": true, "srt": true,
}

var keyPattern = regexp.MustCompile(`^[0-9a-f-]{36}(\.[a-z0-9]{1,8})?$`)

// LocalStore keeps uploaded objects in a directory on disk.
type LocalStore struct {
	dir     string
	secret  []byte
	ttl     time.Duration
	baseURL string
	maxSize int64
	now     func() time.Time
}

// NewLocalStore creates the upload directory if needed. It refuses to run
// without a signing secret.
func NewLocalStore(cfg config.UploadConfig) (*LocalStore, error) {
	if cfg.Secret == "" {
		return nil, ErrNoSecret
	}
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStore{
		dir:     cfg.Dir,
		secret:  []byte(cfg.Secret),
		ttl:     cfg.URLTTL,
		baseURL: cfg.PublicBaseURL,
		maxSize: int64(cfg.MaxBytes),
		now:     time.Now,
	}, nil
}

// Dir is the directory served under /media.
func (s *LocalStore) Dir() string { return s.dir }

// MaxBytes is the largest object Put accepts; zero means unlimited.
func (s *LocalStore) MaxBytes() int64 { return s.maxSize }

// RequestUpload reserves a new key and returns where to PUT it and where it will be served.
func (s *LocalStore) RequestUpload(filename string) models.UploadURLResponse {
	key := uuid.NewString() + sanitizeExt(filename)
	expires := strconv.FormatInt(s.now().Add(s.ttl).Unix(), 10)

	q := url.Values{}
	q.Set("expires", expires)
	q.Set("sig", s.sign(key, expires))

	return models.UploadURLResponse{
		UploadURL: fmt.Sprintf("%s/api/uploads/%s?%s", s.baseURL, key, q.Encode()),
		PublicURL: s.PublicURL(key),
	}
}

// PublicURL is the URL an uploaded object is served from.
func (s *LocalStore) PublicURL(key string) string {
	return fmt.Sprintf("%s/media/%s", s.baseURL, key)
}

// Verify checks the signature and expiry of an upload URL.
func (s *LocalStore) Verify(key, expires, sig string) error {
	if !validKey(key) {
		return ErrInvalidKey
	}
	exp, err := strconv.ParseInt(expires, 10, 64)
	if err != nil {
		return ErrInvalidSignature
	}
	want := s.sign(key, expires)
	if !hmac.Equal([]byte(want), []byte(sig)) {
		return ErrInvalidSignature
	}
	if s.now().Unix() > exp {
		return ErrExpired
	}
	return nil
}

// Put writes the object atomically under key and returns its size.
// Objects larger than MaxBytes are discarded with ErrTooLarge.
func (s *LocalStore) Put(key string, r io.Reader) (int64, error) {
	if !validKey(key) {
		return 0, ErrInvalidKey
	}

	tmp, err := os.CreateTemp(s.dir, ".upload-*")
	if err != nil {
		return 0, fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if s.maxSize > 0 {
		r = io.LimitReader(r, s.maxSize+1)
	}
	n, err := io.Copy(tmp, r)
	if err != nil {
		tmp.Close()
		return 0, fmt.Errorf("write upload: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return 0, fmt.Errorf("close upload: %w", err)
	}
	if s.maxSize > 0 && n > s.maxSize {
		return 0, ErrTooLarge
	}
	if err := os.Rename(tmp.Name(), filepath.Join(s.dir, key)); err != nil {
		return 0, fmt.Errorf("store upload: %w", err)
	}
	return n, nil
}

func (s *LocalStore) sign(key, expires string) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(key))
	mac.Write([]byte{'\n'})
	mac.Write([]byte(expires))
	return hex.EncodeToString(mac.Sum(nil))
}

func validKey(key string) bool {
	if !keyPattern.MatchString(key) {
		return false
	}
	ext := strings.TrimPrefix(filepath.Ext(key), ".")
	return ext == "" || mediaExts[ext]
}

// sanitizeExt keeps a known media extension, lowercased, or nothing.
func sanitizeExt(filename string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	if !mediaExts[ext] {
		return ""
	}
	return "." + ext
}
