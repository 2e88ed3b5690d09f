package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strings"

	"portfolio-feedback/internal/feedback"
)

// EmailFor renders the offline email for a record.
func EmailFor(rec feedback.Record) (subject, body string) {
	subject = fmt.Sprintf("🎯 OFFLINE FEEDBACK: %s - %s", strings.ToUpper(string(rec.Priority)), rec.PageSection)

	expected := rec.ExpectedResult
	if expected == "" {
		expected = "Not specified"
	}
	raw, _ := json.MarshalIndent(rec, "", "  ")

	var b strings.Builder
	fmt.Fprintf(&b, "Type: %s\n", rec.Type)
	fmt.Fprintf(&b, "Priority: %s\n", rec.Priority)
	fmt.Fprintf(&b, "Page/Section: %s\n", rec.PageSection)
	fmt.Fprintf(&b, "Feedback: %s\n", rec.Text)
	fmt.Fprintf(&b, "Expected result: %s\n", expected)
	fmt.Fprintf(&b, "Submitted: %s\n", rec.Timestamp)
	fmt.Fprintf(&b, "Feedback ID: %d\n\n", rec.ID)
	b.Write(raw)
	return subject, b.String()
}

// MailtoFallback prints a mailto: link the user can open to send the
// feedback from their own mail client.
type MailtoFallback struct {
	To  string
	Out io.Writer
}

func (m MailtoFallback) Notify(_ context.Context, subject, body string) error {
	if m.To == "" {
		return fmt.Errorf("no fallback email address configured")
	}
	_, err := fmt.Fprintf(m.Out, "📧 Server offline. Open this link to email the feedback:\n%s\n", MailtoURL(m.To, subject, body))
	return err
}

func MailtoURL(to, subject, body string) string {
	q := url.Values{}
	q.Set("subject", subject)
	q.Set("body", body)
	// mail clients expect %20, not +
	return "mailto:" + to + "?" + strings.ReplaceAll(q.Encode(), "+", "%20")
}
