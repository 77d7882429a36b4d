package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/celestiaorg/verse/internal/logger"
)

// FilesRoute is the path prefix under which the API serves a Local store
const FilesRoute = "/files"

// Subdirectories of a Local store. Only objectsDir is served.
const (
	objectsDir = "objects"
	stagingDir = "tmp"
)

// Local stores artifacts on the local filesystem
type Local struct {
	root    string
	staging string
	baseURL string
}

// NewLocal creates a Local store under dir. Objects live in dir/objects and are addressed
// as <publicBaseURL>/files/<key>; uploads are staged in dir/tmp until complete.
func NewLocal(dir, publicBaseURL string) (*Local, error) {
	if dir == "" {
		return nil, errors.New("storage dir is required")
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve storage dir: %w", err)
	}
	root := filepath.Join(abs, objectsDir)
	staging := filepath.Join(abs, stagingDir)
	for _, d := range []string{root, staging} {
		if err := os.MkdirAll(d, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create storage dir: %w", err)
		}
	}
	return &Local{
		root:    root,
		staging: staging,
		baseURL: joinURL(publicBaseURL, FilesRoute[1:]),
	}, nil
}

// Root returns the directory holding the stored objects, the one to serve
func (l *Local) Root() string {
	return l.root
}

// Put writes r to a temporary file and renames it into place once complete
func (l *Local) Put(ctx context.Context, key string, r io.Reader, _ int64, _ string) (Object, error) {
	if err := validateKey(key); err != nil {
		return Object{}, err
	}
	if err := ctx.Err(); err != nil {
		return Object{}, err
	}

	dst := filepath.Join(l.root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(dst), 0o750); err != nil {
		return Object{}, fmt.Errorf("failed to create directory for %s: %w", key, err)
	}

	tmp, err := os.CreateTemp(l.staging, "upload-*")
	if err != nil {
		return Object{}, fmt.Errorf("failed to create temp file for %s: %w", key, err)
	}
	tmpName := tmp.Name()

	written, err := io.Copy(tmp, &ctxReader{ctx: ctx, r: r})
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err == nil {
		err = os.Rename(tmpName, dst)
	}
	if err != nil {
		if rmErr := os.Remove(tmpName); rmErr != nil && !os.IsNotExist(rmErr) {
			logger.Warnf("failed to remove partial upload %s: %v", tmpName, rmErr)
		}
		return Object{}, fmt.Errorf("failed to store %s: %w", key, err)
	}

	return Object{
		Key:  key,
		URL:  joinURL(l.baseURL, key),
		Size: written,
	}, nil
}

// Delete removes the file stored under key
func (l *Local) Delete(_ context.Context, key string) error {
	if err := validateKey(key); err != nil {
		return err
	}
	err := os.Remove(filepath.Join(l.root, filepath.FromSlash(key)))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

// ctxReader stops a copy once its context is done
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
