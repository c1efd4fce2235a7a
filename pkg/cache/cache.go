// Package cache stores derived artifacts of graph snapshots: rendered
// DOT and SVG output and algorithm reports.
//
// Keys are built by a [Keyer] from the hash of a snapshot document, so an
// entry stays valid for as long as the graph it was computed from is
// unchanged. Three backends are provided: [FileCache] for the CLI,
// [RedisCache] for shared deployments and [NullCache] to disable caching.
package cache

import (
	"context"
	"strings"
	"time"
)

// Default TTLs per entry type.
const (
	TTLArtifact = 7 * 24 * time.Hour
	TTLReport   = 24 * time.Hour
)

// Cache is a byte-oriented key/value store with per-entry expiry.
// A zero ttl means the entry never expires.
type Cache interface {
	// Get returns the entry for key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Keyer builds cache keys. Implementations must be deterministic.
type Keyer interface {
	// ArtifactKey names a rendered artifact of the snapshot with the given hash.
	ArtifactKey(snapshotHash string, opts ArtifactKeyOpts) string

	// ReportKey names the result of running algorithm on the snapshot.
	ReportKey(snapshotHash string, opts ReportKeyOpts) string
}

// ArtifactKeyOpts are the render options that change the artifact bytes.
type ArtifactKeyOpts struct {
	Format    string   `json:"format"`
	Detailed  bool     `json:"detailed,omitempty"`
	Highlight []string `json:"highlight,omitempty"`
}

// ReportKeyOpts identify an algorithm run.
type ReportKeyOpts struct {
	Algorithm string   `json:"algorithm"`
	Args      []string `json:"args,omitempty"`
}

// DefaultKeyer is the standard Keyer.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard Keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// ArtifactKey returns "artifact:<hash>".
func (DefaultKeyer) ArtifactKey(snapshotHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", snapshotHash, opts)
}

// ReportKey returns "report:<hash>".
func (DefaultKeyer) ReportKey(snapshotHash string, opts ReportKeyOpts) string {
	return hashKey("report", snapshotHash, opts)
}

// KeyType returns the entry type of a key built by DefaultKeyer, with any
// scope prefix removed. It is the label passed to cache hooks.
func KeyType(key string) string {
	parts := strings.Split(key, ":")
	if len(parts) < 2 {
		return "unknown"
	}
	return parts[len(parts)-2]
}
