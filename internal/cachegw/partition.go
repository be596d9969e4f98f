// Package cachegw is the request-interception layer: it serves cached
// responses first, fills the cache from the network, and degrades to a
// synthesized "not connected" response when the network is gone. Cached
// entries live in named, versioned on-disk partitions so a new release can
// evict its predecessors wholesale.
package cachegw

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Entry is one cached response: status, headers, and body keyed by request
// identity.
type Entry struct {
	URL      string      `json:"url"`
	Status   int         `json:"status"`
	Header   http.Header `json:"header"`
	Body     []byte      `json:"body"`
	StoredAt time.Time   `json:"stored_at"`
}

// Partition is a named cache bucket backed by a directory. Keys are hashed
// to filenames; lookups are exact-match on the original key.
type Partition struct {
	name string
	dir  string
	mu   sync.RWMutex
}

// OpenPartition opens (creating if needed) the named partition under root.
func OpenPartition(root, name string) (*Partition, error) {
	dir := filepath.Join(root, name)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache partition %s: %w", name, err)
	}
	return &Partition{name: name, dir: dir}, nil
}

// Name returns the partition's versioned name.
func (p *Partition) Name() string {
	return p.name
}

// Get returns the cached entry for key, if present.
func (p *Partition) Get(key string) (*Entry, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	data, err := os.ReadFile(p.entryPath(key))
	if err != nil {
		return nil, false
	}
	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, false
	}
	return &entry, true
}

// Put stores an entry under key, replacing any previous entry.
func (p *Partition) Put(key string, entry *Entry) error {
	entry.StoredAt = time.Now().UTC()
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to encode cache entry: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	path := p.entryPath(key)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write cache entry: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to commit cache entry: %w", err)
	}
	return nil
}

// Len counts the entries in the partition.
func (p *Partition) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()

	files, err := os.ReadDir(p.dir)
	if err != nil {
		return 0
	}
	count := 0
	for _, f := range files {
		if !f.IsDir() && filepath.Ext(f.Name()) == ".json" {
			count++
		}
	}
	return count
}

func (p *Partition) entryPath(key string) string {
	sum := sha256.Sum256([]byte(key))
	return filepath.Join(p.dir, hex.EncodeToString(sum[:])+".json")
}

// ListPartitions returns the partition names present under root.
func ListPartitions(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list cache partitions: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	return names, nil
}

// RemovePartition deletes a partition and all its entries.
func RemovePartition(root, name string) error {
	if err := os.RemoveAll(filepath.Join(root, name)); err != nil {
		return fmt.Errorf("failed to remove cache partition %s: %w", name, err)
	}
	return nil
}
