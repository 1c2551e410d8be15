// Package storage persists rendered report artifacts.
package storage

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"
)

// Sentinel errors for report sinks.
var (
	ErrInvalidKey = errors.New("invalid storage key")
	ErrNotFound   = errors.New("artifact not found")
)

// Sink stores and retrieves report artifacts by key.
type Sink interface {
	// Put writes r under key and returns the number of bytes stored.
	Put(ctx context.Context, key, contentType string, r io.Reader) (int64, error)
	// Open returns the artifact stored under key.
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	// Name identifies the sink in logs.
	Name() string
}

// CleanKey rejects absolute keys and keys escaping the sink root.
func CleanKey(key string) (string, error) {
	k := path.Clean(strings.TrimSpace(strings.ReplaceAll(key, "\\", "/")))
	if k == "." || k == "" || strings.HasPrefix(k, "/") || k == ".." || strings.HasPrefix(k, "../") {
		return "", ErrInvalidKey
	}
	return k, nil
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
