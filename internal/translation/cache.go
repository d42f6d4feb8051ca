// Package translation provides the TTL translation cache, the remote
// translation providers and the cache-through service combining them.
package translation

import (
	"context"
	"encoding/base64"
	"fmt"
	"sync"
	"time"

	"childcare-assistant/internal/common/logger"
	"childcare-assistant/internal/common/metrics"
)

// DefaultTTL applies when a cache is built with a non-positive ttl.
const DefaultTTL = 24 * time.Hour

// AutoSource is the source language used when none is given.
const AutoSource = "auto"

// Entry is one cached translation. Times are epoch milliseconds.
type Entry struct {
	TranslatedText string `json:"translatedText"`
	CreatedAt      int64  `json:"createdAt"`
	TTL            int64  `json:"ttl"`
}

// Expired reports whether the entry is stale at now (epoch ms). An entry
// is live for [CreatedAt, CreatedAt+TTL).
func (e Entry) Expired(now int64) bool {
	return now-e.CreatedAt >= e.TTL
}

// Key derives the cache key for a (text, target, source) triple.
func Key(text, target, source string) string {
	if source == "" {
		source = AutoSource
	}
	return fmt.Sprintf("%s-%s-%s", source, target, base64.StdEncoding.EncodeToString([]byte(text)))
}

// Cache is a TTL map persisted as a whole snapshot to a Store on every
// write. It has no capacity bound.
type Cache struct {
	// persistMu is held from a write through its Save so snapshots reach
	// the store in the order the writes were made. Lock order: persistMu, mu.
	persistMu sync.Mutex
	mu        sync.Mutex
	entries   map[string]Entry
	ttl       time.Duration
	store     Store
	logger    logger.Logger
	now       func() time.Time
}

// NewCache returns an empty cache. Use Open to restore a persisted snapshot.
func NewCache(ttl time.Duration, store Store, log logger.Logger) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if store == nil {
		store = NewMemoryStore()
	}
	return &Cache{
		entries: make(map[string]Entry),
		ttl:     ttl,
		store:   store,
		logger:  log.With(map[string]interface{}{"component": "translation-cache"}),
		now:     time.Now,
	}
}

// Open loads the snapshot from store and immediately drops entries that
// expired while the process was down.
func Open(ctx context.Context, ttl time.Duration, store Store, log logger.Logger) (*Cache, error) {
	c := NewCache(ttl, store, log)

	snapshot, err := c.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load translation cache: %w", err)
	}
	c.mu.Lock()
	for k, e := range snapshot {
		c.entries[k] = e
	}
	c.mu.Unlock()

	removed, err := c.ClearExpired(ctx)
	if err != nil {
		return nil, err
	}
	c.logger.Info("translation cache restored", map[string]interface{}{
		"entries": c.Len(),
		"expired": removed,
	})
	return c, nil
}

// Get returns the live translation for the triple. An expired entry is
// deleted as a side effect and reported as a miss.
func (c *Cache) Get(text, target, source string) (string, bool) {
	key := Key(text, target, source)
	now := c.now().UnixMilli()

	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		metrics.TranslationCacheLookups.WithLabelValues("miss").Inc()
		return "", false
	}
	if entry.Expired(now) {
		delete(c.entries, key)
		metrics.TranslationCacheLookups.WithLabelValues("expired").Inc()
		metrics.TranslationCacheEntries.Set(float64(len(c.entries)))
		return "", false
	}
	metrics.TranslationCacheLookups.WithLabelValues("hit").Inc()
	return entry.TranslatedText, true
}

// Set stores translated under the triple, replacing any previous value,
// and persists the snapshot.
func (c *Cache) Set(ctx context.Context, text, translated, target, source string) error {
	c.persistMu.Lock()
	defer c.persistMu.Unlock()

	c.mu.Lock()
	c.entries[Key(text, target, source)] = Entry{
		TranslatedText: translated,
		CreatedAt:      c.now().UnixMilli(),
		TTL:            c.ttl.Milliseconds(),
	}
	snapshot := c.snapshotLocked()
	c.mu.Unlock()

	return c.persist(ctx, snapshot)
}

// ClearExpired removes every stale entry and returns how many were dropped.
func (c *Cache) ClearExpired(ctx context.Context) (int, error) {
	c.persistMu.Lock()
	defer c.persistMu.Unlock()

	now := c.now().UnixMilli()
	c.mu.Lock()
	removed := 0
	for k, e := range c.entries {
		if e.Expired(now) {
			delete(c.entries, k)
			removed++
		}
	}
	snapshot := c.snapshotLocked()
	c.mu.Unlock()

	if removed == 0 {
		return 0, nil
	}
	return removed, c.persist(ctx, snapshot)
}

// Clear drops everything.
func (c *Cache) Clear(ctx context.Context) error {
	c.persistMu.Lock()
	defer c.persistMu.Unlock()

	c.mu.Lock()
	c.entries = make(map[string]Entry)
	snapshot := c.snapshotLocked()
	c.mu.Unlock()

	return c.persist(ctx, snapshot)
}

func (c *Cache) TTL() time.Duration { return c.ttl }

func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *Cache) snapshotLocked() map[string]Entry {
	out := make(map[string]Entry, len(c.entries))
	for k, e := range c.entries {
		out[k] = e
	}
	metrics.TranslationCacheEntries.Set(float64(len(out)))
	return out
}

func (c *Cache) persist(ctx context.Context, snapshot map[string]Entry) error {
	if err := c.store.Save(ctx, snapshot); err != nil {
		c.logger.Warn("failed to persist translation cache", map[string]interface{}{"error": err})
		return fmt.Errorf("save translation cache: %w", err)
	}
	return nil
}
