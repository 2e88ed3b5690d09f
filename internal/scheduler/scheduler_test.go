package scheduler

import (
	"context"
	"errors"
	"strings"
	"testing"

	"portfolio-feedback/internal/feedback"
	"portfolio-feedback/internal/llm"
)

type fakeSource struct {
	summary string
	stats   feedback.Stats
}

func (f fakeSource) PendingSummary() (string, error) { return f.summary, nil }
func (f fakeSource) Stats() (feedback.Stats, error)   { return f.stats, nil }

type fakeLLM struct {
	reply    string
	err      error
	messages []llm.Message
}

func (f *fakeLLM) Generate(_ context.Context, messages []llm.Message) (llm.Response, error) {
	f.messages = messages
	if f.err != nil {
		return llm.Response{}, f.err
	}
	return llm.Response{Content: f.reply, Model: "fake"}, nil
}

type recordingNotifier struct {
	titles   []string
	messages []string
}

func (r *recordingNotifier) Notify(_ context.Context, title, message string) error {
	r.titles = append(r.titles, title)
	r.messages = append(r.messages, message)
	return nil
}

const pending = "📋 Pending Feedback Summary (1 total):\n\n🚨 HIGH Priority (1):\n  🔧 #1: Hero - Typo...\n\n"

func TestDigest_SkipsWhenNothingPending(t *testing.T) {
	n := &recordingNotifier{}
	d := NewDigest(fakeSource{summary: feedback.NoPendingMessage}, nil, n)
	if err := d.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(n.messages) != 0 {
		t.Fatalf("expected no notification, got %v", n.messages)
	}
}

func TestDigest_SendsPlainSummaryWithoutLLM(t *testing.T) {
	n := &recordingNotifier{}
	d := NewDigest(fakeSource{summary: pending}, nil, n)
	if err := d.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(n.messages) != 1 || n.messages[0] != pending || n.titles[0] != digestTitle {
		t.Fatalf("unexpected notification: %v %v", n.titles, n.messages)
	}
}

func TestDigest_UsesLLMAndFallsBack(t *testing.T) {
	src := fakeSource{summary: pending, stats: feedback.ComputeStats(nil)}
	n := &recordingNotifier{}
	model := &fakeLLM{reply: "#1 Hero typo, fix first"}
	if err := NewDigest(src, model, n).Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if n.messages[0] != "#1 Hero typo, fix first" {
		t.Fatalf("expected condensed digest, got %q", n.messages[0])
	}
	if len(model.messages) != 2 || model.messages[0].Role != llm.RoleSystem || !strings.Contains(model.messages[1].Content, pending) {
		t.Fatalf("unexpected prompt: %+v", model.messages)
	}

	n = &recordingNotifier{}
	if err := NewDigest(src, &fakeLLM{err: errors.New("quota")}, n).Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if n.messages[0] != pending {
		t.Fatalf("expected plain fallback, got %q", n.messages[0])
	}
}

func TestScheduler_StartStop(t *testing.T) {
	s := New("0 9 * * *")
	if err := s.Start(); err != nil {
		t.Fatalf("start without job: %v", err)
	}
	if s.IsRunning() {
		t.Fatalf("scheduler without job must not have entries")
	}

	s = New("0 9 * * *")
	s.SetJob(func(context.Context) error { return nil })
	if err := s.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	if !s.IsRunning() {
		t.Fatalf("expected scheduled entry")
	}
	s.Stop()

	bad := New("not a cron spec")
	bad.SetJob(func(context.Context) error { return nil })
	if err := bad.Start(); err == nil {
		t.Fatalf("expected error for invalid spec")
	}
}
