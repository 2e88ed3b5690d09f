package client

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	"portfolio-feedback/internal/feedback"
	"portfolio-feedback/internal/storage"
)

// CacheKey is the key the submitted records live under.
const CacheKey = "siteFeedbacks"

// Cache is a small key/value JSON file mirroring what the browser keeps in
// localStorage. Only CacheKey is interpreted; other keys are preserved.
type Cache struct {
	path string
	mu   sync.Mutex
}

func NewCache(path string) (*Cache, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to ensure cache dir: %w", err)
	}
	return &Cache{path: path}, nil
}

func (c *Cache) Records() ([]feedback.Record, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, records, err := c.loadUnlocked()
	if err != nil {
		log.Printf("⚠️ %v", err)
	}
	return records, nil
}

// Prepend stores rec as the newest cached record.
func (c *Cache) Prepend(rec feedback.Record) error {
	return c.update(func(records []feedback.Record) []feedback.Record {
		return append([]feedback.Record{rec}, records...)
	})
}

// SetStatus changes the cached status of id. Unknown ids are ignored.
func (c *Cache) SetStatus(id int64, status feedback.Status) error {
	return c.update(func(records []feedback.Record) []feedback.Record {
		for i := range records {
			if records[i].ID == id {
				records[i].Status = status
			}
		}
		return records
	})
}

// Rekey replaces a locally generated id with the one the server assigned.
func (c *Cache) Rekey(oldID, newID int64) error {
	return c.update(func(records []feedback.Record) []feedback.Record {
		for i := range records {
			if records[i].ID == oldID {
				records[i].ID = newID
			}
		}
		return records
	})
}

// update refuses to rewrite a cache it could not fully read.
func (c *Cache) update(fn func([]feedback.Record) []feedback.Record) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	doc, records, err := c.loadUnlocked()
	if err != nil {
		return err
	}
	data, err := json.Marshal(fn(records))
	if err != nil {
		return fmt.Errorf("encode cached feedback: %w", err)
	}
	doc[CacheKey] = data
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode cache: %w", err)
	}
	return storage.WriteFileAtomic(c.path, out, 0o644)
}

// loadUnlocked starts fresh on a missing or invalid file. Valid JSON that
// does not hold a list of records under CacheKey is an error.
func (c *Cache) loadUnlocked() (map[string]json.RawMessage, []feedback.Record, error) {
	doc := map[string]json.RawMessage{}
	data, err := os.ReadFile(c.path)
	if err != nil {
		return doc, []feedback.Record{}, nil
	}
	if !json.Valid(data) {
		log.Printf("⚠️ Cache file %s is not valid JSON, starting fresh", c.path)
		return doc, []feedback.Record{}, nil
	}
	if err := json.Unmarshal(data, &doc); err != nil || doc == nil {
		return map[string]json.RawMessage{}, []feedback.Record{}, fmt.Errorf("cache file %s is not a JSON object", c.path)
	}
	raw, ok := doc[CacheKey]
	if !ok {
		return doc, []feedback.Record{}, nil
	}
	records, err := feedback.DecodeRecords(raw)
	if err != nil {
		return doc, records, fmt.Errorf("cached %s: %w", CacheKey, err)
	}
	return doc, records, nil
}
