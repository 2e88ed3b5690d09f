package feedback

import (
	"encoding/json"
	"sort"
)

// Stats holds the counts shown on the admin dashboard.
type Stats struct {
	Total      int              `json:"total"`
	ByStatus   map[Status]int   `json:"by_status"`
	ByPriority map[Priority]int `json:"by_priority"`
}

// StatusCount is one row of the per-status breakdown.
type StatusCount struct {
	Status Status
	Count  int
}

func ComputeStats(records []Record) Stats {
	stats := Stats{
		Total:      len(records),
		ByStatus:   make(map[Status]int),
		ByPriority: make(map[Priority]int),
	}
	for _, r := range records {
		stats.ByStatus[r.Status]++
		stats.ByPriority[r.Priority]++
	}
	return stats
}

// StatusCounts lists server statuses first (always present, possibly zero),
// then any other status seen in the data, alphabetically.
func (s Stats) StatusCounts() []StatusCount {
	out := make([]StatusCount, 0, len(ServerStatuses)+len(s.ByStatus))
	seen := make(map[Status]bool)
	for _, st := range ServerStatuses {
		out = append(out, StatusCount{Status: st, Count: s.ByStatus[st]})
		seen[st] = true
	}
	var rest []Status
	for st := range s.ByStatus {
		if !seen[st] {
			rest = append(rest, st)
		}
	}
	sort.Slice(rest, func(i, j int) bool { return rest[i] < rest[j] })
	for _, st := range rest {
		out = append(out, StatusCount{Status: st, Count: s.ByStatus[st]})
	}
	return out
}

func (s Stats) ToJSON() (string, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
