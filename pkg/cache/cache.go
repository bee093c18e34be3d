// Package cache stores solved results and rendered artifacts so repeated
// requests for the same instance skip the search.
//
// # Backends
//
//   - [FileCache]: JSON entry files under a directory (CLI default)
//   - [RedisCache]: a shared Redis server (API server, multiple CLIs)
//   - [NullCache]: caching disabled
//
// # Keys
//
// A [Keyer] derives keys from content hashes, never from file names, so two
// copies of the same instance share an entry and an edited instance never
// hits a stale one. [ScopedKeyer] prefixes every key for namespace
// isolation.
//
// Only results proven optimal are stored. An interrupted search depends on
// its budget and is never cached.
package cache

import (
	"context"
	"time"
)

// Default time-to-live values for each entry kind.
const (
	SolutionTTL = 30 * 24 * time.Hour
	ArtifactTTL = 7 * 24 * time.Hour
)

// Cache is a byte-oriented key/value store with per-entry expiry.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get returns the stored bytes and true, or nil and false on a miss.
	// Expired entries are misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl ≤ 0 means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// SolutionKeyOpts holds the inputs, besides the instance, that can change a
// solved result.
type SolutionKeyOpts struct {
	SolverVersion string `json:"solver_version"`
}

// ArtifactKeyOpts holds the rendering inputs of an artifact.
type ArtifactKeyOpts struct {
	Format   string `json:"format"`
	Detailed bool   `json:"detailed,omitempty"`
}

// Keyer derives cache keys.
type Keyer interface {
	// SolutionKey keys a solved result by the hash of its instance.
	SolutionKey(instanceHash string, opts SolutionKeyOpts) string

	// ArtifactKey keys a rendered artifact by the hash of its solution.
	ArtifactKey(solutionHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer produces "solution:<sha256>" and "artifact:<sha256>" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// SolutionKey implements Keyer.
func (DefaultKeyer) SolutionKey(instanceHash string, opts SolutionKeyOpts) string {
	return hashKey("solution", instanceHash, opts)
}

// ArtifactKey implements Keyer.
func (DefaultKeyer) ArtifactKey(solutionHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", solutionHash, opts)
}

// NullCache never stores anything. It backs --no-cache and the "none"
// backend.
type NullCache struct{}

// NewNullCache creates a null cache.
func NewNullCache() Cache { return NullCache{} }

func (NullCache) Get(context.Context, string) ([]byte, bool, error)         { return nil, false, nil }
func (NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (NullCache) Delete(context.Context, string) error                     { return nil }
func (NullCache) Close() error                                             { return nil }
