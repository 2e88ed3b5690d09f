// Package client is the submitting side of the feedback hub: it validates a
// submission, keeps a local copy, posts it to the feedback server and falls
// back to email when the server cannot be reached.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"portfolio-feedback/internal/feedback"
	"portfolio-feedback/internal/storage"
)

type Client struct {
	baseURL  string
	http     *http.Client
	cache    *Cache
	fallback feedback.Notifier
	journal  storage.Recorder
	now      func() time.Time
}

type Option func(*Client)

// WithEmailFallback sets the channel used when the server is offline.
func WithEmailFallback(n feedback.Notifier) Option {
	return func(c *Client) { c.fallback = n }
}

// WithJournal records every delivery outcome.
func WithJournal(r storage.Recorder) Option {
	return func(c *Client) { c.journal = r }
}

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

func New(baseURL string, cache *Cache, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
		cache:   cache,
		now:     time.Now,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

type createResponse struct {
	Success bool   `json:"success"`
	ID      int64  `json:"id"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

// Submit validates and delivers a submission. The returned record carries
// the final client-side status; err is only set when nothing was stored.
func (c *Client) Submit(ctx context.Context, sub Submission) (feedback.Record, error) {
	if err := sub.Validate(); err != nil {
		return feedback.Record{}, err
	}

	now := c.now()
	rec := feedback.Record{
		ID:             now.UnixMilli(),
		Type:           sub.Type,
		Priority:       sub.Priority,
		PageSection:    sub.PageSection,
		Text:           sub.Text,
		ExpectedResult: sub.ExpectedResult,
		Status:         feedback.StatusSubmitted,
		Timestamp:      feedback.LocaleTime(now),
	}
	if err := c.cache.Prepend(rec); err != nil {
		return feedback.Record{}, fmt.Errorf("cache submission: %w", err)
	}
	c.record(rec.ID, rec.Status, "")

	log.Printf("📤 Submitting feedback to %s", c.baseURL)
	serverID, err := c.post(ctx, sub)
	switch {
	case err == nil:
		if serverID != 0 && serverID != rec.ID {
			if err := c.cache.Rekey(rec.ID, serverID); err != nil {
				log.Printf("⚠️ Could not rekey cached feedback: %v", err)
			} else {
				rec.ID = serverID
			}
		}
		log.Printf("✅ Feedback #%d sent to developer", rec.ID)
		return c.setStatus(rec, feedback.StatusSentToDeveloper, ""), nil

	case isOffline(err):
		log.Printf("📡 Feedback server not reachable: %v", err)
		rec = c.setStatus(rec, feedback.StatusServerOffline, err.Error())
		if c.fallback == nil {
			return rec, nil
		}
		subject, body := EmailFor(rec)
		if ferr := c.fallback.Notify(ctx, subject, body); ferr != nil {
			log.Printf("❌ Email fallback also failed: %v", ferr)
			c.record(rec.ID, rec.Status, ferr.Error())
			return rec, nil
		}
		log.Printf("📧 Feedback #%d sent via email fallback", rec.ID)
		return c.setStatus(rec, feedback.StatusSentViaEmail, ""), nil

	default:
		log.Printf("❌ Failed to submit feedback: %v", err)
		return c.setStatus(rec, feedback.StatusSubmissionError, err.Error()), nil
	}
}

// List prefers the server and falls back to the local cache.
func (c *Client) List(ctx context.Context) ([]feedback.Record, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/feedback", nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err == nil {
		defer resp.Body.Close()
		if resp.StatusCode == http.StatusOK {
			var records []feedback.Record
			if err = json.NewDecoder(resp.Body).Decode(&records); err == nil {
				return records, nil
			}
		} else {
			err = fmt.Errorf("server responded with %d", resp.StatusCode)
		}
	}
	log.Printf("📡 Server not available, loading from cache: %v", err)
	return c.cache.Records()
}

// UpdateStatus changes the cached copy first, then tries to sync the server.
func (c *Client) UpdateStatus(ctx context.Context, id int64, status feedback.Status) error {
	if err := c.cache.SetStatus(id, status); err != nil {
		return fmt.Errorf("update cached status: %w", err)
	}
	c.record(id, status, "")

	body, _ := json.Marshal(map[string]feedback.Status{"status": status})
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch,
		c.baseURL+"/api/feedback/"+strconv.FormatInt(id, 10), bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		log.Printf("Could not sync status to server: %v", err)
		return nil
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		log.Printf("Could not sync status to server: status %d", resp.StatusCode)
	}
	return nil
}

// Summary builds the pending digest from whatever List returns.
func (c *Client) Summary(ctx context.Context) (string, error) {
	records, err := c.List(ctx)
	if err != nil {
		return "", err
	}
	return feedback.PendingSummary(records), nil
}

func (c *Client) post(ctx context.Context, sub Submission) (int64, error) {
	body, err := json.Marshal(sub)
	if err != nil {
		return 0, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/feedback", bytes.NewReader(body))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, &offlineError{err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("server responded with %d", resp.StatusCode)
	}
	var out createResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return 0, fmt.Errorf("decode response: %w", err)
	}
	if !out.Success {
		return 0, fmt.Errorf("server rejected feedback: %s", out.Error)
	}
	return out.ID, nil
}

func (c *Client) setStatus(rec feedback.Record, status feedback.Status, detail string) feedback.Record {
	if err := c.cache.SetStatus(rec.ID, status); err != nil {
		log.Printf("⚠️ Could not update cached status: %v", err)
	}
	rec.Status = status
	c.record(rec.ID, status, detail)
	return rec
}

func (c *Client) record(id int64, status feedback.Status, detail string) {
	if c.journal == nil {
		return
	}
	ev := storage.Event{Timestamp: c.now().UTC(), FeedbackID: id, Status: string(status), Detail: detail}
	if err := c.journal.Append(ev); err != nil {
		log.Printf("⚠️ Could not write delivery journal: %v", err)
	}
}

// offlineError marks a request that never got an HTTP response.
type offlineError struct{ err error }

func (e *offlineError) Error() string { return e.err.Error() }
func (e *offlineError) Unwrap() error { return e.err }

func isOffline(err error) bool {
	var oe *offlineError
	return errors.As(err, &oe)
}
