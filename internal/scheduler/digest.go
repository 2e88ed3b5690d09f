package scheduler

import (
	"context"
	"fmt"
	"log"

	"portfolio-feedback/internal/feedback"
	"portfolio-feedback/internal/llm"
)

const digestTitle = "📋 Feedback digest"

const digestSystemPrompt = `You summarize pending website feedback for the site's developer.
Reply with at most five short lines in plain text, most urgent first.
Keep the feedback ids (#123) so the developer can look items up.`

// Source is the slice of feedback.Service the digest needs.
type Source interface {
	PendingSummary() (string, error)
	Stats() (feedback.Stats, error)
}

// Digest pushes the pending-feedback summary to a notifier, optionally
// condensed by an LLM first.
type Digest struct {
	src      Source
	llm      llm.Client
	notifier feedback.Notifier
}

// NewDigest accepts a nil client, in which case the plain summary is sent.
func NewDigest(src Source, client llm.Client, notifier feedback.Notifier) *Digest {
	return &Digest{src: src, llm: client, notifier: notifier}
}

func (d *Digest) Run(ctx context.Context) error {
	summary, err := d.src.PendingSummary()
	if err != nil {
		return fmt.Errorf("build pending summary: %w", err)
	}
	if summary == feedback.NoPendingMessage {
		log.Println(summary)
		return nil
	}

	text := summary
	if d.llm != nil {
		condensed, err := d.condense(ctx, summary)
		if err != nil {
			log.Printf("⚠️ LLM digest failed, sending plain summary: %v", err)
		} else {
			text = condensed
		}
	}

	if err := d.notifier.Notify(ctx, digestTitle, text); err != nil {
		return fmt.Errorf("send digest: %w", err)
	}
	log.Printf("📨 Digest sent (%d chars)", len(text))
	return nil
}

func (d *Digest) condense(ctx context.Context, summary string) (string, error) {
	stats, err := d.src.Stats()
	if err != nil {
		return "", err
	}
	statsJSON, err := stats.ToJSON()
	if err != nil {
		return "", err
	}

	resp, err := d.llm.Generate(ctx, []llm.Message{
		{Role: llm.RoleSystem, Content: digestSystemPrompt},
		{Role: llm.RoleUser, Content: "Counts:\n" + statsJSON + "\n\n" + summary},
	})
	if err != nil {
		return "", err
	}
	if resp.Content == "" {
		return "", fmt.Errorf("empty completion from %s", resp.Model)
	}
	log.Printf("🤖 Digest condensed by %s (%d tokens)", resp.Model, resp.TotalTokens)
	return resp.Content, nil
}
