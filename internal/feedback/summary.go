package feedback

import (
	"fmt"
	"strings"
)

var priorityEmoji = map[Priority]string{
	PriorityHigh:   "🚨",
	PriorityMedium: "⚡",
	PriorityLow:    "📝",
}

var typeEmoji = map[Type]string{
	TypeUpdate: "🔄",
	TypeCreate: "➕",
	TypeDelete: "🗑️",
	TypeFix:    "🔧",
	TypeDesign: "🎨",
}

// NoPendingMessage is the digest text when nothing is waiting.
const NoPendingMessage = "✅ No pending feedback! All caught up."

// Filter narrows a listing. Zero values match everything.
type Filter struct {
	Status   Status
	Priority Priority
	Limit    int
}

func (f Filter) Apply(records []Record) []Record {
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if f.Status != "" && r.Status != f.Status {
			continue
		}
		if f.Priority != "" && r.Priority != f.Priority {
			continue
		}
		out = append(out, r)
	}
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out
}

// ListItem is the condensed view of a record used in listings.
type ListItem struct {
	ID          int64    `json:"id"`
	Type        Type     `json:"type"`
	Priority    Priority `json:"priority"`
	Status      Status   `json:"status"`
	PageSection string   `json:"pageSection"`
	Text        string   `json:"text"`
	CreatedAt   string   `json:"createdAt"`
}

func ListItems(records []Record) []ListItem {
	items := make([]ListItem, 0, len(records))
	for _, r := range records {
		items = append(items, ListItem{
			ID:          r.ID,
			Type:        r.Type,
			Priority:    r.Priority,
			Status:      r.Status,
			PageSection: r.PageSection,
			Text:        Truncate(r.Text, 100),
			CreatedAt:   r.CreatedAt,
		})
	}
	return items
}

// PendingSummary groups pending records by priority into a plain-text digest.
func PendingSummary(records []Record) string {
	byPriority := make(map[Priority][]Record)
	total := 0
	for _, r := range records {
		if r.Status != StatusPending {
			continue
		}
		byPriority[r.Priority] = append(byPriority[r.Priority], r)
		total++
	}
	if total == 0 {
		return NoPendingMessage
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📋 Pending Feedback Summary (%d total):\n\n", total)
	for _, p := range Priorities {
		group := byPriority[p]
		if len(group) == 0 {
			continue
		}
		fmt.Fprintf(&b, "%s %s Priority (%d):\n", priorityEmoji[p], strings.ToUpper(string(p)), len(group))
		for _, r := range group {
			fmt.Fprintf(&b, "  %s #%d: %s - %s\n", typeEmoji[r.Type], r.ID, r.PageSection, Truncate(r.Text, 60))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// NotificationFor builds the alert title and body for a new record.
func NotificationFor(r Record) (title, message string) {
	title = strings.TrimSpace(fmt.Sprintf("%s New Feedback", priorityEmoji[r.Priority]))
	message = strings.TrimSpace(fmt.Sprintf("%s %s: %s", typeEmoji[r.Type], r.PageSection, Truncate(r.Text, 50)))
	return title, message
}

// Truncate shortens s to n runes, marking the cut with an ellipsis.
func Truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
