package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/graphcore/pkg/cache"
	"github.com/matzehuels/graphcore/pkg/collection"
	"github.com/matzehuels/graphcore/pkg/config"
	gio "github.com/matzehuels/graphcore/pkg/io"
	"github.com/matzehuels/graphcore/pkg/snapshotdb"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config config.Config

	configPath string
	verbose    bool
}

// New creates a new CLI instance with a default logger and configuration.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// =============================================================================
// Backends
// =============================================================================

// newCache opens the configured artifact cache. noCache forces NullCache.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch c.Config.Cache.Backend {
	case config.BackendNone:
		return cache.NewNullCache(), nil
	case config.BackendRedis:
		r := c.Config.Redis
		return cache.NewRedisCache(ctx, cache.RedisOptions{
			Addr:     r.Addr,
			Password: r.Password,
			DB:       r.DB,
			Prefix:   r.Prefix,
		})
	}
	dir, err := c.Config.CacheDir()
	if err != nil {
		c.Logger.Warn("no cache directory, caching disabled", "error", err)
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// openSnapshots connects to the configured snapshot database.
func (c *CLI) openSnapshots(ctx context.Context) (*snapshotdb.Store, error) {
	m := c.Config.Mongo
	return snapshotdb.Connect(ctx, snapshotdb.Options{URI: m.URI, Database: m.Database, Collection: m.Collection})
}

// =============================================================================
// Graph Loading
// =============================================================================

// loadGraph reads a node-link JSON file and restores it as a governed graph.
func (c *CLI) loadGraph(path string) (*collection.Graph, error) {
	doc, err := gio.ImportJSON(path)
	if err != nil {
		return nil, err
	}
	g, err := collection.Restore(doc, collection.Options{Logger: c.Logger})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	c.Logger.Debug("loaded graph", "path", path, "nodes", g.Len(), "rules", len(g.Rules()))
	return g, nil
}

// snapshotHash identifies the committed state of g for cache keys.
func snapshotHash(g *collection.Graph) (string, error) {
	data, err := gio.Marshal(g.Snapshot())
	if err != nil {
		return "", err
	}
	return cache.Hash(data), nil
}

// splitList parses a comma-separated flag value, dropping empty items.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
