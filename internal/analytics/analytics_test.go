package analytics

import (
	"strings"
	"testing"
	"time"

	"portfolio-feedback/internal/storage"
)

func TestAnalyzeDeliveries(t *testing.T) {
	testDate := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	events := []storage.Event{
		{Timestamp: testDate.Add(1 * time.Hour), FeedbackID: 1, Status: "submitted"},
		{Timestamp: testDate.Add(1 * time.Hour), FeedbackID: 1, Status: "sent-to-developer"},

		{Timestamp: testDate.Add(2 * time.Hour), FeedbackID: 2, Status: "submitted"},
		{Timestamp: testDate.Add(2 * time.Hour), FeedbackID: 2, Status: "server-offline"},
		{Timestamp: testDate.Add(2 * time.Hour), FeedbackID: 2, Status: "sent-via-email"},

		{Timestamp: testDate.Add(3 * time.Hour), FeedbackID: 3, Status: "submitted"},
		{Timestamp: testDate.Add(3 * time.Hour), FeedbackID: 3, Status: "server-offline", Detail: "connection refused"},

		// статус, выставленный вручную, не является исходом доставки
		{Timestamp: testDate.Add(4 * time.Hour), FeedbackID: 1, Status: "completed"},

		// другой день
		{Timestamp: testDate.AddDate(0, 0, 1), FeedbackID: 4, Status: "submitted"},
		{Timestamp: testDate.AddDate(0, 0, 1), FeedbackID: 4, Status: "submission-error"},
	}

	stats := AnalyzeDeliveries(events, testDate.Add(15*time.Hour))

	if stats.Date != "2025-03-01" {
		t.Errorf("Expected date '2025-03-01', got '%s'", stats.Date)
	}
	if stats.Submissions != 3 {
		t.Errorf("Expected 3 submissions, got %d", stats.Submissions)
	}
	if stats.Delivered != 1 || stats.ViaEmail != 1 || stats.Undelivered != 1 {
		t.Errorf("Unexpected outcomes: %+v", stats)
	}
	if stats.ByStatus["server-offline"] != 1 || stats.ByStatus["submission-error"] != 0 {
		t.Errorf("Unexpected by-status counts: %v", stats.ByStatus)
	}

	summary := stats.GenerateReportSummary()
	for _, want := range []string{"Feedback deliveries for 2025-03-01", "- Sent via email: 1", "  - server-offline: 1"} {
		if !strings.Contains(summary, want) {
			t.Errorf("summary misses %q:\n%s", want, summary)
		}
	}

	if _, err := stats.ToJSON(); err != nil {
		t.Errorf("ToJSON: %v", err)
	}
}
