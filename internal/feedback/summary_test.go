package feedback

import (
	"strings"
	"testing"
)

func TestPendingSummary_Empty(t *testing.T) {
	got := PendingSummary([]Record{{ID: 1, Status: StatusCompleted, Priority: PriorityHigh}})
	if got != NoPendingMessage {
		t.Fatalf("want %q, got %q", NoPendingMessage, got)
	}
	if strings.Contains(got, "Priority (") {
		t.Fatalf("empty summary must not contain groups: %q", got)
	}
}

func TestPendingSummary_GroupsByPriority(t *testing.T) {
	records := []Record{
		{ID: 3, Type: TypeDesign, Priority: PriorityLow, Status: StatusPending, PageSection: "Footer", Text: "Darker"},
		{ID: 2, Type: TypeFix, Priority: PriorityHigh, Status: StatusPending, PageSection: "Hero", Text: strings.Repeat("a", 80)},
		{ID: 1, Type: TypeFix, Priority: PriorityHigh, Status: StatusInProgress, PageSection: "Nav", Text: "ignored"},
	}
	got := PendingSummary(records)

	if !strings.HasPrefix(got, "📋 Pending Feedback Summary (2 total):") {
		t.Fatalf("unexpected header: %q", got)
	}
	high := strings.Index(got, "HIGH Priority (1)")
	low := strings.Index(got, "LOW Priority (1)")
	if high < 0 || low < 0 || high > low {
		t.Fatalf("groups missing or out of order: %q", got)
	}
	if strings.Contains(got, "MEDIUM") || strings.Contains(got, "#1") {
		t.Fatalf("unexpected content: %q", got)
	}
	if !strings.Contains(got, "#2: Hero - "+strings.Repeat("a", 60)+"...") {
		t.Fatalf("text not truncated: %q", got)
	}
}

func TestListItems_TruncatesText(t *testing.T) {
	items := ListItems([]Record{{ID: 1, Text: strings.Repeat("é", 120)}, {ID: 2, Text: "short"}})
	if len([]rune(items[0].Text)) != 103 || !strings.HasSuffix(items[0].Text, "...") {
		t.Fatalf("long text not truncated: %q", items[0].Text)
	}
	if items[1].Text != "short" {
		t.Fatalf("short text changed: %q", items[1].Text)
	}
}

func TestNotificationFor(t *testing.T) {
	title, msg := NotificationFor(Record{Type: TypeFix, Priority: PriorityHigh, PageSection: "Hero", Text: "Typo"})
	if title != "🚨 New Feedback" || msg != "🔧 Hero: Typo" {
		t.Fatalf("unexpected notification: %q / %q", title, msg)
	}
}

func TestStats_StatusCountsOrder(t *testing.T) {
	stats := ComputeStats([]Record{{Status: "server-offline"}, {Status: StatusPending}, {Status: "archived"}})
	counts := stats.StatusCounts()
	if len(counts) != 6 {
		t.Fatalf("want 6 rows, got %+v", counts)
	}
	if counts[0].Status != StatusPending || counts[0].Count != 1 || counts[3].Status != StatusRejected {
		t.Fatalf("server statuses must lead: %+v", counts)
	}
	if counts[4].Status != "archived" || counts[5].Status != "server-offline" {
		t.Fatalf("other statuses must be sorted: %+v", counts)
	}
}

func TestPendingSummary_ShortTextIsNotMarkedAsCut(t *testing.T) {
	got := PendingSummary([]Record{{ID: 4, Type: TypeFix, Priority: PriorityMedium, Status: StatusPending, PageSection: "Nav", Text: "Fix link"}})
	if !strings.Contains(got, "#4: Nav - Fix link\n") {
		t.Fatalf("short text must be shown as is: %q", got)
	}
}
