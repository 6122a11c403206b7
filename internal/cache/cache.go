// Package cache provides a two-tier audio cache: a byte-capacity LRU in
// memory in front of a zstd-compressed disk tier. Disk hits are promoted
// back into memory.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
)

// Config controls the cache tiers. A zero DiskCapacity or empty DiskPath
// disables the disk tier.
type Config struct {
	MemoryCapacity int64
	DiskCapacity   int64
	DiskPath       string
	ZstdLevel      int // 0 disables compression
	MaxAge         time.Duration
}

// DefaultConfig returns sensible cache limits for synthesized audio.
func DefaultConfig() Config {
	return Config{
		MemoryCapacity: 64 << 20,
		DiskCapacity:   512 << 20,
		ZstdLevel:      3,
		MaxAge:         7 * 24 * time.Hour,
	}
}

// Stats counts hits and misses across both tiers.
type Stats struct {
	MemoryHits int64
	DiskHits   int64
	Misses     int64
	Promotions int64
}

// Cache is the two-tier cache facade.
type Cache struct {
	memory *memoryCache
	disk   *diskCache // nil when the disk tier is disabled

	mu    sync.Mutex
	stats Stats
}

// New builds a cache from cfg. Zero or negative MemoryCapacity falls back
// to the default.
func New(cfg Config) (*Cache, error) {
	if cfg.MemoryCapacity <= 0 {
		cfg.MemoryCapacity = DefaultConfig().MemoryCapacity
	}

	c := &Cache{memory: newMemoryCache(cfg.MemoryCapacity)}

	if cfg.DiskCapacity > 0 && cfg.DiskPath != "" {
		disk, err := newDiskCache(cfg.DiskPath, cfg.DiskCapacity, cfg.ZstdLevel, cfg.MaxAge)
		if err != nil {
			return nil, err
		}
		c.disk = disk
		log.Debug("disk cache enabled",
			"path", cfg.DiskPath,
			"capacity", humanize.Bytes(uint64(cfg.DiskCapacity)))
	}

	return c, nil
}

// Key derives a stable cache key from the request parts. Parts are joined
// with a zero byte so "ab","c" and "a","bc" never collide.
func Key(parts ...string) string {
	h := sha256.New()
	for i, p := range parts {
		if i > 0 {
			h.Write([]byte{0})
		}
		h.Write([]byte(p))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Get checks memory first, then disk. Disk hits are promoted to memory.
func (c *Cache) Get(key string) ([]byte, bool) {
	if data, ok := c.memory.Get(key); ok {
		c.count(func(s *Stats) { s.MemoryHits++ })
		return data, true
	}

	if c.disk != nil {
		if data, ok := c.disk.Get(key); ok {
			c.count(func(s *Stats) { s.DiskHits++; s.Promotions++ })
			// Promotion is best effort; an oversized item just stays on disk.
			_ = c.memory.Put(key, data)
			return data, true
		}
	}

	c.count(func(s *Stats) { s.Misses++ })
	return nil, false
}

// Put stores data in both tiers. An item too large for one tier is still
// admitted to the other.
func (c *Cache) Put(key string, data []byte) error {
	memErr := c.memory.Put(key, data)
	if memErr != nil && memErr != ErrItemTooLarge {
		return memErr
	}

	if c.disk != nil {
		if err := c.disk.Put(key, data); err != nil && err != ErrItemTooLarge {
			return err
		}
	}

	if memErr == ErrItemTooLarge && c.disk == nil {
		return ErrItemTooLarge
	}
	return nil
}

// Stats returns a snapshot of hit counters.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

// Cleanup drops disk entries older than the configured max age.
func (c *Cache) Cleanup() {
	if c.disk != nil {
		c.disk.Cleanup()
	}
}

// Close flushes the disk index and releases the zstd codecs.
func (c *Cache) Close() error {
	if c.disk != nil {
		return c.disk.Close()
	}
	return nil
}

func (c *Cache) count(update func(*Stats)) {
	c.mu.Lock()
	update(&c.stats)
	c.mu.Unlock()
}
