package telemetry

import (
	"encoding/json"
	"time"
)

type Stats struct {
	Since       time.Time         `json:"since"`
	EventCounts map[EventType]int `json:"event_counts"`
	Created     int               `json:"created"`
	Completed   int               `json:"completed"`
	Reopened    int               `json:"reopened"`
	Edited      int               `json:"edited"`
	Deleted     int               `json:"deleted"`
	Rejected    int               `json:"rejected"`
	// RejectedBySource splits validation failures by where they came from
	// ("add" or "edit").
	RejectedBySource map[string]int `json:"rejected_by_source"`
	// NetCompleted is completions minus reopenings over the window.
	NetCompleted int `json:"net_completed"`
}

// CalculateStats summarizes events recorded at or after since.
func CalculateStats(events []Event, since time.Time) Stats {
	stats := Stats{
		Since:            since,
		EventCounts:      make(map[EventType]int),
		RejectedBySource: make(map[string]int),
	}

	for _, event := range events {
		if event.Timestamp.Before(since) {
			continue
		}
		stats.EventCounts[event.Type]++

		switch event.Type {
		case EventTaskCreated:
			stats.Created++
		case EventTaskCompleted:
			stats.Completed++
		case EventTaskReopened:
			stats.Reopened++
		case EventTaskEdited:
			stats.Edited++
		case EventTaskDeleted:
			stats.Deleted++
		case EventTaskRejected:
			stats.Rejected++
			var metadata EventMetadata
			if err := json.Unmarshal([]byte(event.Metadata), &metadata); err != nil {
				continue
			}
			if source, ok := metadata["source"].(string); ok {
				stats.RejectedBySource[source]++
			}
		}
	}
	stats.NetCompleted = stats.Completed - stats.Reopened
	return stats
}
