package store

import (
	"context"
	"fmt"

	"fieldtrack/internal/common/logger"
	"fieldtrack/internal/common/metrics"
	"fieldtrack/internal/models"
)

// Recorder performs the two-step visit write: the visit upsert followed by
// an activity-entry append describing the change.
//
// The two steps are NOT transactional. If the visit write succeeds and the
// activity append fails, the visit update is committed regardless: the
// failure is logged and counted, never rolled back.
type Recorder struct {
	visits     *VisitStore
	activities *ActivityStore
	logger     logger.Logger
}

// NewRecorder creates a recorder over the two stores.
func NewRecorder(visits *VisitStore, activities *ActivityStore, log logger.Logger) *Recorder {
	return &Recorder{
		visits:     visits,
		activities: activities,
		logger:     log.WithFields(map[string]interface{}{"component": "recorder"}),
	}
}

// CreateVisit inserts the record and appends a "created" activity entry with
// the worker as actor and a note summarizing the resulting status.
func (r *Recorder) CreateVisit(ctx context.Context, v *models.VisitRecord) error {
	if err := r.visits.Create(ctx, v); err != nil {
		return err
	}

	entry := &models.ActivityEntry{
		VisitID:   v.ID,
		Action:    models.ActionCreated,
		NewValue:  string(v.Status),
		Note:      fmt.Sprintf("Visit created with status %s", v.Status),
		ActorName: v.WorkerName,
	}
	r.appendActivity(ctx, entry)

	r.logger.Info("visit created", map[string]interface{}{
		"visitId": v.ID,
		"status":  string(v.Status),
		"worker":  v.WorkerName,
	})
	return nil
}

// UpdateVisit replaces the record and appends one activity entry describing
// the change. A status change yields an "updated" entry carrying the old and
// new status; a newly added follow-up time (with unchanged status) yields
// "follow_up_added"; a reassigned worker yields "assigned"; anything else is
// a plain "updated".
func (r *Recorder) UpdateVisit(ctx context.Context, v *models.VisitRecord) error {
	prev, err := r.visits.Get(ctx, v.ID)
	if err != nil {
		return err
	}
	v.CreatedAt = prev.CreatedAt

	if err := r.visits.Update(ctx, v); err != nil {
		return err
	}

	entry := describeUpdate(prev, v)
	r.appendActivity(ctx, entry)

	r.logger.Info("visit updated", map[string]interface{}{
		"visitId": v.ID,
		"status":  string(v.Status),
		"action":  string(entry.Action),
	})
	return nil
}

// appendActivity is the non-critical half of the two-step write: failures
// are logged and counted but the visit write stays committed.
func (r *Recorder) appendActivity(ctx context.Context, entry *models.ActivityEntry) {
	if err := r.activities.Append(ctx, entry); err != nil {
		metrics.ActivityAppendFailures.Inc()
		r.logger.Warn("activity log append failed", map[string]interface{}{
			"visitId": entry.VisitID,
			"action":  string(entry.Action),
			"error":   err,
		})
	}
}

func describeUpdate(prev, next *models.VisitRecord) *models.ActivityEntry {
	entry := &models.ActivityEntry{
		VisitID:   next.ID,
		Action:    models.ActionUpdated,
		Note:      fmt.Sprintf("Visit updated; status %s", next.Status),
		ActorName: next.WorkerName,
	}

	switch {
	case prev.Status != next.Status:
		entry.ChangedField = "status"
		entry.OldValue = string(prev.Status)
		entry.NewValue = string(next.Status)
	case prev.FollowUpAt == nil && next.FollowUpAt != nil:
		entry.Action = models.ActionFollowUpAdded
		entry.ChangedField = "follow_up_at"
		entry.NewValue = next.FollowUpAt.UTC().Format("2006-01-02 15:04")
		entry.Note = "Follow-up scheduled"
	case prev.WorkerName != next.WorkerName:
		entry.Action = models.ActionAssigned
		entry.ChangedField = "worker_name"
		entry.OldValue = prev.WorkerName
		entry.NewValue = next.WorkerName
		entry.Note = fmt.Sprintf("Visit reassigned to %s", next.WorkerName)
	}

	return entry
}
