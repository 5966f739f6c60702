package cache

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go-kenyajobs/internal/source"
)

// FileCache persists entries to a per-day JSON file so cached results
// survive process restarts. An unreadable or corrupt file degrades to an
// empty cache rather than failing the run.
type FileCache struct {
	mu          sync.Mutex
	filePath    string
	fingerprint string
	day         string
	entries     map[string]Entry
}

// NewFileCache loads (or starts) the cache file for the given day.
func NewFileCache(dir, fingerprint string, today time.Time) *FileCache {
	if err := os.MkdirAll(dir, 0755); err != nil {
		log.Printf("⚠️ Failed to create cache directory: %v", err)
	}

	day := today.Format("2006-01-02")
	fc := &FileCache{
		filePath:    filepath.Join(dir, fmt.Sprintf("cache_%s.json", day)),
		fingerprint: fingerprint,
		day:         day,
		entries:     make(map[string]Entry),
	}
	fc.load()
	return fc
}

func (fc *FileCache) load() {
	data, err := os.ReadFile(fc.filePath)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("⚠️ Failed to read cache file: %v", err)
		}
		return
	}

	var entries map[string]Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		log.Printf("⚠️ Corrupt cache file, starting with empty cache: %v", err)
		return
	}

	fc.entries = entries
	log.Printf("📋 Loaded cache with %d entries", len(entries))
}

// Check reports whether the source's cached entry is valid for this run.
func (fc *FileCache) Check(sourceKey string) Status {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	entry, found := fc.entries[sourceKey]
	return check(entry, found, fc.fingerprint, fc.day)
}

// Get returns the source's entry regardless of validity.
func (fc *FileCache) Get(sourceKey string) (Entry, bool) {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	entry, found := fc.entries[sourceKey]
	return entry, found
}

// Put replaces the source's entry with a freshly computed result set and
// writes the cache file.
func (fc *FileCache) Put(sourceKey string, jobs []source.Posting) error {
	fc.mu.Lock()
	defer fc.mu.Unlock()

	fc.entries[sourceKey] = Entry{
		Jobs:        jobs,
		Fingerprint: fc.fingerprint,
		Day:         fc.day,
		ComputedAt:  time.Now(),
	}
	return fc.save()
}

func (fc *FileCache) save() error {
	data, err := json.MarshalIndent(fc.entries, "", "  ")
	if err != nil {
		return fmt.Errorf("cache: marshal entries: %w", err)
	}
	if err := os.WriteFile(fc.filePath, data, 0644); err != nil {
		return fmt.Errorf("cache: write %s: %w", fc.filePath, err)
	}
	return nil
}

func (fc *FileCache) Close() error {
	return nil
}
