package models

import "time"

// ActionKind classifies an activity log entry.
type ActionKind string

const (
	ActionCreated       ActionKind = "created"
	ActionUpdated       ActionKind = "updated"
	ActionStatusChanged ActionKind = "status_changed"
	ActionFollowUpAdded ActionKind = "follow_up_added"
	ActionAssigned      ActionKind = "assigned"
)

// ActivityEntry is one append-only audit record attached to a visit.
// Entries are never mutated or deleted.
type ActivityEntry struct {
	ID           string     `json:"id" db:"id"`
	VisitID      string     `json:"visitId" db:"visit_id"`
	Action       ActionKind `json:"action" db:"action"`
	ChangedField string     `json:"changedField,omitempty" db:"changed_field"`
	OldValue     string     `json:"oldValue,omitempty" db:"old_value"`
	NewValue     string     `json:"newValue,omitempty" db:"new_value"`
	Note         string     `json:"note,omitempty" db:"note"`
	ActorName    string     `json:"actorName" db:"actor_name"`
	CreatedAt    time.Time  `json:"createdAt" db:"created_at"`
}
