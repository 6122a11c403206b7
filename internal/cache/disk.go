package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/klauspost/compress/zstd"
)

const indexFileName = "index.json"

// diskCache persists entries as zstd-compressed files with a JSON index.
type diskCache struct {
	basePath string
	capacity int64
	maxAge   time.Duration

	encoder *zstd.Encoder // nil when compression is disabled
	decoder *zstd.Decoder

	mu    sync.Mutex
	index map[string]*diskEntry
	size  int64
}

type diskEntry struct {
	Key       string    `json:"key"`
	Size      int64     `json:"size"`      // Size on disk
	RawSize   int64     `json:"raw_size"`  // Uncompressed size
	Timestamp time.Time `json:"timestamp"` // When the entry was written
}

func newDiskCache(basePath string, capacity int64, zstdLevel int, maxAge time.Duration) (*diskCache, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("cache: create directory: %w", err)
	}

	d := &diskCache{
		basePath: basePath,
		capacity: capacity,
		maxAge:   maxAge,
		index:    make(map[string]*diskEntry),
	}

	if zstdLevel > 0 {
		enc, err := zstd.NewWriter(nil,
			zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(zstdLevel)))
		if err != nil {
			return nil, fmt.Errorf("cache: init zstd encoder: %w", err)
		}
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return nil, fmt.Errorf("cache: init zstd decoder: %w", err)
		}
		d.encoder = enc
		d.decoder = dec
	}

	if err := d.loadIndex(); err != nil {
		// A corrupt index is rebuilt empty rather than failing startup.
		log.Warn("disk cache index unreadable, starting fresh", "path", basePath, "error", err)
		d.index = make(map[string]*diskEntry)
		d.size = 0
	}

	return d, nil
}

func (d *diskCache) Get(key string) ([]byte, bool) {
	d.mu.Lock()
	_, ok := d.index[key]
	d.mu.Unlock()
	if !ok {
		return nil, false
	}

	raw, err := os.ReadFile(d.entryPath(key))
	if err != nil {
		d.remove(key)
		return nil, false
	}

	if d.decoder != nil {
		data, err := d.decoder.DecodeAll(raw, nil)
		if err != nil {
			log.Warn("disk cache entry corrupt, removing", "key", key, "error", err)
			d.remove(key)
			return nil, false
		}
		return data, true
	}

	return raw, true
}

func (d *diskCache) Put(key string, data []byte) error {
	stored := data
	if d.encoder != nil {
		stored = d.encoder.EncodeAll(data, nil)
	}

	if int64(len(stored)) > d.capacity {
		return ErrItemTooLarge
	}

	if err := os.WriteFile(d.entryPath(key), stored, 0o644); err != nil {
		return err
	}

	d.mu.Lock()
	if old, ok := d.index[key]; ok {
		d.size -= old.Size
	}
	d.index[key] = &diskEntry{
		Key:       key,
		Size:      int64(len(stored)),
		RawSize:   int64(len(data)),
		Timestamp: time.Now(),
	}
	d.size += int64(len(stored))
	d.evictLocked()
	d.mu.Unlock()

	return d.saveIndex()
}

// evictLocked removes oldest entries until the tier fits its capacity.
func (d *diskCache) evictLocked() {
	if d.size <= d.capacity {
		return
	}

	entries := make([]*diskEntry, 0, len(d.index))
	for _, e := range d.index {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Timestamp.Before(entries[j].Timestamp)
	})

	for _, e := range entries {
		if d.size <= d.capacity {
			break
		}
		d.removeLocked(e.Key)
	}
}

// Cleanup drops entries older than the configured max age.
func (d *diskCache) Cleanup() {
	if d.maxAge <= 0 {
		return
	}
	cutoff := time.Now().Add(-d.maxAge)

	d.mu.Lock()
	var stale []string
	for key, e := range d.index {
		if e.Timestamp.Before(cutoff) {
			stale = append(stale, key)
		}
	}
	for _, key := range stale {
		d.removeLocked(key)
	}
	d.mu.Unlock()

	if len(stale) > 0 {
		log.Debug("disk cache cleanup", "removed", len(stale))
		_ = d.saveIndex()
	}
}

func (d *diskCache) Close() error {
	if d.encoder != nil {
		d.encoder.Close()
	}
	if d.decoder != nil {
		d.decoder.Close()
	}
	return d.saveIndex()
}

func (d *diskCache) remove(key string) {
	d.mu.Lock()
	d.removeLocked(key)
	d.mu.Unlock()
	_ = d.saveIndex()
}

func (d *diskCache) removeLocked(key string) {
	if e, ok := d.index[key]; ok {
		d.size -= e.Size
		delete(d.index, key)
	}
	_ = os.Remove(d.entryPath(key))
}

func (d *diskCache) entryPath(key string) string {
	return filepath.Join(d.basePath, key+".zst")
}

func (d *diskCache) loadIndex() error {
	raw, err := os.ReadFile(filepath.Join(d.basePath, indexFileName))
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}

	var entries []*diskEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return err
	}
	for _, e := range entries {
		d.index[e.Key] = e
		d.size += e.Size
	}
	return nil
}

func (d *diskCache) saveIndex() error {
	d.mu.Lock()
	entries := make([]*diskEntry, 0, len(d.index))
	for _, e := range d.index {
		entries = append(entries, e)
	}
	d.mu.Unlock()

	sort.Slice(entries, func(i, j int) bool { return entries[i].Key < entries[j].Key })
	raw, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(d.basePath, indexFileName), raw, 0o644)
}
