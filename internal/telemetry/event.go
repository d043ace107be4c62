// Package telemetry keeps an in-process activity log of task actions and
// summarizes it for the stats endpoint.
package telemetry

import "time"

type EventType string

const (
	EventTaskCreated   EventType = "task_created"
	EventTaskCompleted EventType = "task_completed"
	EventTaskReopened  EventType = "task_reopened"
	EventTaskEdited    EventType = "task_edited"
	EventTaskDeleted   EventType = "task_deleted"
	// EventTaskRejected is an add or save refused by validation.
	EventTaskRejected EventType = "task_rejected"
)

type Event struct {
	ID        int       `json:"id"`
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Metadata  string    `json:"metadata"`
}

type EventMetadata map[string]interface{}

// Recorder is the write side controllers depend on.
type Recorder interface {
	RecordEvent(eventType EventType, metadata EventMetadata) error
}
