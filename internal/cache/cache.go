// Package cache keeps recent query responses in memory with a TTL and a
// bounded entry count, backed by a pluggable snapshot store so the cache
// survives restarts.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/samarth-project/samarth/internal/model"
)

// Entry is one cached response with its write time.
type Entry struct {
	Key      string          `json:"key"`
	Response *model.Response `json:"response"`
	StoredAt time.Time       `json:"stored_at"`
}

// Snapshot persists cache entries across restarts. Implementations must be
// safe for concurrent use.
type Snapshot interface {
	Load(ctx context.Context) (map[string]Entry, error)
	Store(ctx context.Context, e Entry) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
	Close() error
}

// Cache is a TTL-bounded response cache. Expiry is lazy: entries are checked
// on read. When the entry limit is reached, the oldest entries are evicted
// at write time. Snapshot failures are logged and never fail the request.
type Cache struct {
	mu      sync.Mutex
	entries map[string]Entry

	ttl        time.Duration
	maxEntries int
	snap       Snapshot
	now        func() time.Time
}

// New creates a Cache over a snapshot store. Non-positive ttl or maxEntries
// fall back to one hour and one hundred entries.
func New(snap Snapshot, ttl time.Duration, maxEntries int) *Cache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	if maxEntries <= 0 {
		maxEntries = 100
	}
	return &Cache{
		entries:    map[string]Entry{},
		ttl:        ttl,
		maxEntries: maxEntries,
		snap:       snap,
		now:        time.Now,
	}
}

// Warm loads persisted entries. A failed or corrupt snapshot leaves the
// cache empty rather than failing startup.
func (c *Cache) Warm(ctx context.Context) {
	loaded, err := c.snap.Load(ctx)
	if err != nil {
		zap.L().Warn("cache: snapshot load failed, starting empty", zap.Error(err))
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for key, e := range loaded {
		if c.now().Sub(e.StoredAt) < c.ttl {
			c.entries[key] = e
		}
	}
	zap.L().Info("cache: warmed from snapshot", zap.Int("entries", len(c.entries)))
}

// Get returns the cached response for a key, or false when absent or
// expired. Expired entries are removed on the spot.
func (c *Cache) Get(ctx context.Context, key string) (*model.Response, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().Sub(e.StoredAt) >= c.ttl {
		delete(c.entries, key)
		if err := c.snap.Delete(ctx, key); err != nil {
			zap.L().Warn("cache: snapshot delete failed", zap.Error(err))
		}
		return nil, false
	}
	return e.Response, true
}

// Put stores a response, evicting the oldest entries once the cache is full.
func (c *Cache) Put(ctx context.Context, key string, resp *model.Response) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := Entry{Key: key, Response: resp, StoredAt: c.now()}
	c.entries[key] = e
	if err := c.snap.Store(ctx, e); err != nil {
		zap.L().Warn("cache: snapshot store failed", zap.Error(err))
	}

	// Overwriting an existing key never grows the map, so nothing is evicted.
	for len(c.entries) > c.maxEntries {
		oldest := ""
		var oldestAt time.Time
		for k, e := range c.entries {
			if oldest == "" || e.StoredAt.Before(oldestAt) {
				oldest = k
				oldestAt = e.StoredAt
			}
		}
		delete(c.entries, oldest)
		if err := c.snap.Delete(ctx, oldest); err != nil {
			zap.L().Warn("cache: snapshot delete failed", zap.Error(err))
		}
	}
}

// Clear drops every entry in memory and in the snapshot.
func (c *Cache) Clear(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = map[string]Entry{}
	if err := c.snap.Clear(ctx); err != nil {
		zap.L().Warn("cache: snapshot clear failed", zap.Error(err))
	}
}

// Len reports the number of live entries, counting expired ones out.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for _, e := range c.entries {
		if c.now().Sub(e.StoredAt) < c.ttl {
			n++
		}
	}
	return n
}

// Close releases the snapshot store.
func (c *Cache) Close() error {
	return c.snap.Close()
}

// cacheKeyInput is the canonical form hashed into a cache key. Only the
// parts of the analysis that affect execution participate.
type cacheKeyInput struct {
	Query    string              `json:"query"`
	Intent   string              `json:"intent"`
	Entities []keyEntity         `json:"entities"`
	Spec     model.OperationSpec `json:"spec"`
}

type keyEntity struct {
	Type  model.EntityType `json:"type"`
	Value string           `json:"value"`
}

// Key derives a deterministic cache key from the normalized query, its
// analysis, and the operation plan.
func Key(query string, analysis model.QueryAnalysis, spec model.OperationSpec) string {
	in := cacheKeyInput{
		Query:  query,
		Intent: analysis.Intent,
		Spec:   spec,
	}
	for _, e := range analysis.Entities {
		in.Entities = append(in.Entities, keyEntity{Type: e.Type, Value: e.Value})
	}

	raw, err := json.Marshal(in)
	if err != nil {
		// Marshal of plain structs and maps cannot fail; fall back to the
		// query text if it somehow does.
		raw = []byte(query)
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}
