// Package cache remembers which files have already been parsed so batch and
// watch runs can skip them.
package cache

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/gerunddev/parsercache/internal/file"
)

// Entry is what the cache knows about one parsed file
type Entry struct {
	MTime    int64    `json:"mtime"`
	Hash     string   `json:"hash"`
	Ext      string   `json:"ext"`
	DataKeys []string `json:"data_keys,omitempty"`
}

// Cache maps file paths to their last parse. It is not safe for concurrent
// use.
type Cache struct {
	Files map[string]*Entry `json:"files"`
}

// New creates an empty cache
func New() *Cache {
	return &Cache{
		Files: make(map[string]*Entry),
	}
}

// Load reads the cache file. A missing file gives an empty cache.
func Load(path string) (*Cache, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return New(), nil
		}
		return nil, err
	}

	var c Cache
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse cache: %w", err)
	}

	if c.Files == nil {
		c.Files = make(map[string]*Entry)
	}

	return &c, nil
}

// Save writes the cache file
func (c *Cache) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal cache: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}

	return nil
}

// ComputeHash computes SHA256 hash of a file
func ComputeHash(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}

	return fmt.Sprintf("sha256:%x", h.Sum(nil)), nil
}

// HasChanged checks if a file has changed since it was last parsed
// Uses hybrid mtime + hash approach
func (c *Cache) HasChanged(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return false, err
	}

	entry, exists := c.Files[path]
	if !exists {
		return true, nil
	}

	// Fast path: check mtime first
	if info.ModTime().UnixNano() == entry.MTime {
		return false, nil
	}

	hash, err := ComputeHash(path)
	if err != nil {
		return false, err
	}

	return hash != entry.Hash, nil
}

// Update records a successful parse of the file at path
func (c *Cache) Update(path string, f *file.File) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	hash, err := ComputeHash(path)
	if err != nil {
		return err
	}

	entry := &Entry{
		MTime: info.ModTime().UnixNano(),
		Hash:  hash,
	}
	if f != nil {
		entry.Ext = f.Ext
		entry.DataKeys = slices.Sorted(maps.Keys(f.Data))
	}
	c.Files[path] = entry

	return nil
}

// Forget drops the entry for path
func (c *Cache) Forget(path string) {
	delete(c.Files, path)
}

// ParsedAt returns the modification time recorded for a file
func (c *Cache) ParsedAt(path string) time.Time {
	if entry, exists := c.Files[path]; exists {
		return time.Unix(0, entry.MTime)
	}
	return time.Time{}
}
