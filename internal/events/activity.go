// Package events defines the activity event payloads published through the outbox.
package events

import "time"

// Topic carries every activity event; the event type travels in the message headers.
const Topic = "activity_events"

// Event type names.
const (
	TypeActivitySaved     = "activity.saved"
	TypeActivityDeleted   = "activity.deleted"
	TypeActivitiesCleared = "activities.cleared"
)

// ActivitySaved is emitted when an activity is inserted or updated.
type ActivitySaved struct {
	ActivityID string    `json:"activity_id"`
	TenantID   string    `json:"tenant_id"`
	UserID     string    `json:"user_id"`
	Category   int       `json:"category"`
	Name       string    `json:"name"`
	Calories   float64   `json:"calories"`
	OccurredAt time.Time `json:"occurred_at"`
}

// ActivityDeleted is emitted when a single activity is removed.
type ActivityDeleted struct {
	ActivityID string    `json:"activity_id"`
	TenantID   string    `json:"tenant_id"`
	UserID     string    `json:"user_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// ActivitiesCleared is emitted when a user restarts their tracker.
type ActivitiesCleared struct {
	TenantID   string    `json:"tenant_id"`
	UserID     string    `json:"user_id"`
	OccurredAt time.Time `json:"occurred_at"`
}
