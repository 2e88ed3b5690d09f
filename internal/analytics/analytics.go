package analytics

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"portfolio-feedback/internal/storage"
)

// DailyStats содержит статистику доставки отзывов за день
type DailyStats struct {
	Date        string         `json:"date"`
	Submissions int            `json:"submissions"`
	Delivered   int            `json:"delivered"`
	ViaEmail    int            `json:"via_email"`
	Undelivered int            `json:"undelivered"`
	ByStatus    map[string]int `json:"by_status"`
}

// terminal delivery outcomes, in the order they are reported
var outcomes = []string{"sent-to-developer", "sent-via-email", "server-offline", "submission-error"}

// AnalyzeDeliveries анализирует журнал доставки за указанную дату.
// Для каждого отзыва учитывается только последний исход за день.
func AnalyzeDeliveries(events []storage.Event, targetDate time.Time) *DailyStats {
	startOfDay := time.Date(targetDate.Year(), targetDate.Month(), targetDate.Day(), 0, 0, 0, 0, targetDate.Location())
	endOfDay := startOfDay.Add(24 * time.Hour)

	stats := &DailyStats{
		Date:     startOfDay.Format("2006-01-02"),
		ByStatus: make(map[string]int),
	}

	last := make(map[int64]string)
	var order []int64
	for _, event := range events {
		if event.Timestamp.Before(startOfDay) || !event.Timestamp.Before(endOfDay) {
			continue
		}
		if event.Status == "submitted" {
			stats.Submissions++
			continue
		}
		if !isOutcome(event.Status) {
			continue
		}
		if _, seen := last[event.FeedbackID]; !seen {
			order = append(order, event.FeedbackID)
		}
		last[event.FeedbackID] = event.Status
	}

	for _, id := range order {
		status := last[id]
		stats.ByStatus[status]++
		switch status {
		case "sent-to-developer":
			stats.Delivered++
		case "sent-via-email":
			stats.ViaEmail++
		default:
			stats.Undelivered++
		}
	}
	return stats
}

func isOutcome(status string) bool {
	for _, o := range outcomes {
		if o == status {
			return true
		}
	}
	return false
}

// GenerateReportSummary создает текстовое резюме за день
func (ds *DailyStats) GenerateReportSummary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Feedback deliveries for %s:\n", ds.Date)
	fmt.Fprintf(&b, "- Submitted: %d\n", ds.Submissions)
	fmt.Fprintf(&b, "- Sent to developer: %d\n", ds.Delivered)
	fmt.Fprintf(&b, "- Sent via email: %d\n", ds.ViaEmail)
	fmt.Fprintf(&b, "- Not delivered: %d\n", ds.Undelivered)

	var rest []string
	for status := range ds.ByStatus {
		if status == "server-offline" || status == "submission-error" {
			rest = append(rest, status)
		}
	}
	sort.Strings(rest)
	for _, status := range rest {
		fmt.Fprintf(&b, "  - %s: %d\n", status, ds.ByStatus[status])
	}
	return b.String()
}

// ToJSON сериализует статистику в JSON
func (ds *DailyStats) ToJSON() (string, error) {
	data, err := json.MarshalIndent(ds, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
