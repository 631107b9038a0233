// Package cache stores rendered flow diagrams so that re-rendering an
// unchanged flow skips Graphviz.
//
// Entries are keyed by the DOT source and output format (see [ArtifactKey]),
// so any change to the flow, its labels or the render options produces a new
// key. Two backends are provided: [FileCache] for the CLI, rooted at
// $XDG_CACHE_HOME/flowgraph, and [NullCache] when caching is disabled.
//
//	c, _ := cache.NewFileCache(dir)
//	svg, hit, err := cache.Memo(ctx, c, cache.ArtifactKey("svg", dot), cache.DefaultTTL,
//	    func() ([]byte, error) { return nodelink.RenderSVG(dot) })
package cache

import (
	"context"
	"os"
	"path/filepath"
	"time"
)

// DefaultTTL is how long rendered artifacts are kept.
const DefaultTTL = 7 * 24 * time.Hour

// Cache is a byte-oriented key/value store with expiry.
type Cache interface {
	// Get returns the stored bytes and whether the key was present and fresh.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// ArtifactKey returns the key for the rendering of dot in format.
func ArtifactKey(format, dot string) string {
	return hashKey("artifact", format, dot)
}

// Dir returns the default cache directory: $XDG_CACHE_HOME/flowgraph, or
// the platform user cache directory.
func Dir() (string, error) {
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, "flowgraph"), nil
	}
	base, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "flowgraph"), nil
}

// Memo returns the cached value for key, or computes it with fn and stores
// it. The bool reports a cache hit. A failing Set is not an error; the
// computed value is still returned.
func Memo(ctx context.Context, c Cache, key string, ttl time.Duration, fn func() ([]byte, error)) ([]byte, bool, error) {
	if data, ok, err := c.Get(ctx, key); err == nil && ok {
		return data, true, nil
	}
	data, err := fn()
	if err != nil {
		return nil, false, err
	}
	_ = c.Set(ctx, key, data, ttl)
	return data, false, nil
}
