package events

import "time"

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "QUERY_PROCESSED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent helps embed common logic if needed,
// strictly creating valid implementations is preferred though.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// NewQueryProcessed is emitted after a query leaves the pipeline,
// whatever the outcome.
func NewQueryProcessed(queryID, workspaceID, errorKind string) Event {
	return BaseEvent{
		Type: "QUERY_PROCESSED",
		Data: map[string]interface{}{
			"query_id":     queryID,
			"workspace_id": workspaceID,
			"error_kind":   errorKind,
		},
		OccurredAt: time.Now(),
	}
}

// NewUrgentMessageDetected is emitted when a classifier flags a message.
func NewUrgentMessageDetected(workspaceID, message string, matchedRules []string) Event {
	return BaseEvent{
		Type: "URGENT_MESSAGE_DETECTED",
		Data: map[string]interface{}{
			"workspace_id":  workspaceID,
			"message":       message,
			"matched_rules": matchedRules,
		},
		OccurredAt: time.Now(),
	}
}
