package feedback

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"sync"
	"time"
)

// Notifier delivers a short human-readable alert. Delivery is best-effort.
type Notifier interface {
	Notify(ctx context.Context, title, message string) error
}

const notifyTimeout = 10 * time.Second

// Service implements the feedback operations shared by the HTTP API and the
// MCP tool server. Every operation is a full read-modify-write of the repository.
type Service struct {
	repo     Repository
	notifier Notifier
	now      func() time.Time
	wg       sync.WaitGroup
}

func NewService(repo Repository, notifier Notifier) *Service {
	return &Service{repo: repo, notifier: notifier, now: time.Now}
}

// Create stores a new record built from caller fields and returns it.
func (s *Service) Create(fields map[string]json.RawMessage) (Record, error) {
	rec, err := FromFields(fields)
	if err != nil {
		return Record{}, err
	}
	now := s.now()
	err = s.repo.Mutate(func(records []Record) ([]Record, error) {
		id := now.UnixMilli()
		for _, r := range records {
			if r.ID >= id {
				id = r.ID + 1
			}
		}
		rec.ID = id
		rec.Timestamp = ISOTime(now)
		rec.CreatedAt = LocaleTime(now)
		rec.Status = StatusPending
		rec.Implemented = false
		rec.LastUpdated = ""
		rec.ImplementationLog = nil
		rec.forget("id", "timestamp", "createdAt", "status", "implemented", "lastUpdated", "implementation_log")
		return append([]Record{rec}, records...), nil
	})
	if err != nil {
		return Record{}, err
	}

	log.Printf("🎯 New feedback #%d: %s / %s priority", rec.ID, strings.ToUpper(string(rec.Type)), strings.ToUpper(string(rec.Priority)))
	log.Printf("📍 Section: %s", rec.PageSection)
	log.Printf("💬 Request: %s", rec.Text)
	log.Printf("💡 Next: check and implement feedback #%d", rec.ID)

	s.notifyCreated(rec)
	return rec, nil
}

func (s *Service) notifyCreated(rec Record) {
	if s.notifier == nil {
		return
	}
	title, message := NotificationFor(rec)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()
		if err := s.notifier.Notify(ctx, title, message); err != nil {
			log.Printf("📱 Notification failed (%s - %s): %v", title, message, err)
		}
	}()
}

// Wait blocks until in-flight notifications have finished.
func (s *Service) Wait() {
	s.wg.Wait()
}

func (s *Service) List() ([]Record, error) {
	return s.repo.Load()
}

func (s *Service) Filter(f Filter) ([]Record, error) {
	records, err := s.repo.Load()
	if err != nil {
		return nil, err
	}
	return f.Apply(records), nil
}

func (s *Service) Get(id int64) (Record, error) {
	records, err := s.repo.Load()
	if err != nil {
		return Record{}, err
	}
	for _, r := range records {
		if r.ID == id {
			return r, nil
		}
	}
	return Record{}, ErrNotFound
}

// Update shallow-merges patch onto the record with the given id.
func (s *Service) Update(id int64, patch map[string]json.RawMessage) (Record, error) {
	return s.modify(id, func(r Record) (Record, error) {
		return Merge(r, patch)
	})
}

func (s *Service) UpdateStatus(id int64, status Status, notes string) (Record, error) {
	return s.modify(id, func(r Record) (Record, error) {
		r.Status = status
		if notes != "" {
			r.ImplementationNotes = notes
		}
		return r, nil
	})
}

// AddNotes appends an entry to the record's implementation log.
func (s *Service) AddNotes(id int64, notes string, filesChanged []string) (Record, error) {
	if filesChanged == nil {
		filesChanged = []string{}
	}
	return s.modify(id, func(r Record) (Record, error) {
		entries := make([]LogEntry, 0, len(r.ImplementationLog)+1)
		entries = append(entries, r.ImplementationLog...)
		entries = append(entries, LogEntry{
			Timestamp:    ISOTime(s.now()),
			Notes:        notes,
			FilesChanged: filesChanged,
		})
		r.ImplementationLog = entries
		return r, nil
	})
}

func (s *Service) PendingSummary() (string, error) {
	records, err := s.repo.Load()
	if err != nil {
		return "", err
	}
	return PendingSummary(records), nil
}

func (s *Service) Stats() (Stats, error) {
	records, err := s.repo.Load()
	if err != nil {
		return Stats{}, err
	}
	return ComputeStats(records), nil
}

func (s *Service) modify(id int64, fn func(Record) (Record, error)) (Record, error) {
	var out Record
	err := s.repo.Mutate(func(records []Record) ([]Record, error) {
		for i, r := range records {
			if r.ID != id {
				continue
			}
			updated, err := fn(r)
			if err != nil {
				return nil, err
			}
			updated.LastUpdated = ISOTime(s.now())
			records[i] = updated
			out = updated
			return records, nil
		}
		return nil, ErrNotFound
	})
	if err != nil {
		return Record{}, err
	}
	return out, nil
}
