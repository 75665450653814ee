package store

import (
	"context"
	"database/sql"
	"time"

	stderrors "fieldtrack/internal/common/errors"
	"fieldtrack/internal/common/metrics"
	"fieldtrack/internal/models"

	"github.com/google/uuid"
)

// ActivityStore provides append and read access to the visit activity log.
// Entries are append-only; there is no update or delete.
type ActivityStore struct {
	db *sql.DB
}

// NewActivityStore creates an activity store.
func NewActivityStore(db *sql.DB) *ActivityStore {
	return &ActivityStore{db: db}
}

// ListByVisit returns the activity entries for one visit, newest first.
func (s *ActivityStore) ListByVisit(ctx context.Context, visitID string) ([]models.ActivityEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, visit_id, action, changed_field, old_value, new_value, note, actor_name, created_at
		FROM visit_activities
		WHERE visit_id = $1
		ORDER BY created_at DESC`, visitID)
	if err != nil {
		metrics.StoreOperationsTotal.WithLabelValues("activities_list", "error").Inc()
		return nil, stderrors.NewQueryFailedError("activities_list", err)
	}
	defer rows.Close()

	entries := make([]models.ActivityEntry, 0)
	for rows.Next() {
		var e models.ActivityEntry
		if err := rows.Scan(&e.ID, &e.VisitID, &e.Action, &e.ChangedField,
			&e.OldValue, &e.NewValue, &e.Note, &e.ActorName, &e.CreatedAt); err != nil {
			return nil, stderrors.NewQueryFailedError("activities_scan", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, stderrors.NewQueryFailedError("activities_list", err)
	}

	metrics.StoreOperationsTotal.WithLabelValues("activities_list", "ok").Inc()
	return entries, nil
}

// Append inserts one activity entry. The id and timestamp are assigned here.
func (s *ActivityStore) Append(ctx context.Context, e *models.ActivityEntry) error {
	e.ID = uuid.New().String()
	e.CreatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO visit_activities (id, visit_id, action, changed_field, old_value, new_value, note, actor_name, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		e.ID, e.VisitID, e.Action, e.ChangedField, e.OldValue, e.NewValue, e.Note, e.ActorName, e.CreatedAt,
	)
	if err != nil {
		metrics.StoreOperationsTotal.WithLabelValues("activities_append", "error").Inc()
		return stderrors.NewActivityAppendFailedError(e.VisitID, err)
	}

	metrics.StoreOperationsTotal.WithLabelValues("activities_append", "ok").Inc()
	return nil
}
