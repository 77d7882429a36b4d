// Package storage persists uploaded artifacts (ELF binaries and JSON proofs).
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/celestiaorg/verse/internal/config"
)

// Content types of the stored artifacts
const (
	ContentTypeELF  = "application/x-elf"
	ContentTypeJSON = "application/json"
)

// Key prefixes per artifact kind
const (
	PrefixELF    = "elf"
	PrefixProofs = "proofs"
)

// ErrInvalidKey is returned for empty keys and keys escaping the storage root
var ErrInvalidKey = errors.New("invalid storage key")

// Object describes a stored artifact
type Object struct {
	Key  string
	URL  string
	Size int64
}

// Storage stores and removes artifacts
type Storage interface {
	// Put writes the content of r under key. size may be -1 when unknown.
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (Object, error)
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// NewKey returns a unique date partitioned key such as elf/2024/05/01/<uuid>.elf
func NewKey(prefix, ext string, now time.Time) string {
	now = now.UTC()
	return fmt.Sprintf("%s/%04d/%02d/%02d/%s%s", prefix, now.Year(), int(now.Month()), now.Day(), uuid.New(), ext)
}

func validateKey(key string) error {
	if key == "" || strings.HasPrefix(key, "/") {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	for _, part := range strings.Split(key, "/") {
		if part == ".." || part == "." || part == "" {
			return fmt.Errorf("%w: %q", ErrInvalidKey, key)
		}
	}
	return nil
}

func joinURL(base, key string) string {
	if base == "" {
		return key
	}
	return strings.TrimSuffix(base, "/") + "/" + key
}

// New creates the store selected by cfg
func New(ctx context.Context, cfg config.StorageConfig) (Storage, error) {
	switch strings.ToLower(cfg.Backend) {
	case config.StorageBackendLocal:
		return NewLocal(cfg.Dir, cfg.PublicBaseURL)
	case config.StorageBackendS3:
		return NewS3(ctx, S3Options{
			Bucket:        cfg.S3.Bucket,
			Region:        cfg.S3.Region,
			Endpoint:      cfg.S3.Endpoint,
			AccessKey:     cfg.S3.AccessKey,
			SecretKey:     cfg.S3.SecretKey,
			PublicBaseURL: cfg.PublicBaseURL,
		})
	default:
		return nil, fmt.Errorf("unknown storage backend: %q", cfg.Backend)
	}
}
