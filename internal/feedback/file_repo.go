package feedback

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/gofrs/flock"

	"portfolio-feedback/internal/storage"
)

// FileRepository keeps the collection in a single JSON array file. Writers in
// other processes are excluded by an advisory lock on a sibling .lock file.
type FileRepository struct {
	path string
	mu   sync.Mutex
	lock *flock.Flock
}

func NewFileRepository(path string) (*FileRepository, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure dir: %w", err)
	}
	r := &FileRepository{path: path, lock: flock.New(path + ".lock")}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := r.Save([]Record{}); err != nil {
			return nil, fmt.Errorf("init feedback file: %w", err)
		}
	}
	return r, nil
}

func (r *FileRepository) Path() string { return r.path }

func (r *FileRepository) Load() ([]Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	records, err := r.loadUnlocked()
	if err != nil {
		log.Printf("⚠️ %v", err)
	}
	return records, nil
}

func (r *FileRepository) Save(records []Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.lock.Lock(); err != nil {
		return fmt.Errorf("lock feedback file: %w", err)
	}
	defer func() { _ = r.lock.Unlock() }()
	return r.saveUnlocked(records)
}

// Mutate refuses to write over a document it could not fully read.
func (r *FileRepository) Mutate(fn func(records []Record) ([]Record, error)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.lock.Lock(); err != nil {
		return fmt.Errorf("lock feedback file: %w", err)
	}
	defer func() { _ = r.lock.Unlock() }()

	current, err := r.loadUnlocked()
	if err != nil {
		return err
	}
	records, err := fn(current)
	if err != nil {
		return err
	}
	return r.saveUnlocked(records)
}

// loadUnlocked returns an empty collection for a missing, empty or invalid
// file. The error is only set when the file is valid JSON that is not a list
// of records.
func (r *FileRepository) loadUnlocked() ([]Record, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("⚠️ Feedback file %s unreadable, starting empty: %v", r.path, err)
		}
		return []Record{}, nil
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return []Record{}, nil
	}
	records, err := DecodeRecords(data)
	if errors.Is(err, ErrUnreadableDocument) {
		return records, fmt.Errorf("feedback file %s: %w", r.path, err)
	}
	if err != nil {
		// malformed -> start fresh
		log.Printf("⚠️ Feedback file %s is not valid JSON, starting empty: %v", r.path, err)
		return []Record{}, nil
	}
	return records, nil
}

func (r *FileRepository) saveUnlocked(records []Record) error {
	if records == nil {
		records = []Record{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode feedback: %w", err)
	}
	if err := storage.WriteFileAtomic(r.path, data, 0o644); err != nil {
		return fmt.Errorf("save feedback: %w", err)
	}
	return nil
}
