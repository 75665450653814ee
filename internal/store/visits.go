// Package store translates record operations into queries against the
// relational store. It owns visits, their append-only activity log, and
// user accounts.
package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	stderrors "fieldtrack/internal/common/errors"
	"fieldtrack/internal/common/metrics"
	"fieldtrack/internal/models"

	"github.com/google/uuid"
)

const visitColumns = `id, worker_name, worker_phone, client_name, client_type,
	client_phone, client_email, address, landmark, requirements, budget,
	status, follow_up_at, rejection_reason, latitude, longitude, photo_url,
	created_at, updated_at`

// VisitStore provides read/write access to visit records.
type VisitStore struct {
	db *sql.DB
}

// NewVisitStore creates a visit store.
func NewVisitStore(db *sql.DB) *VisitStore {
	return &VisitStore{db: db}
}

// List returns all visit records, newest first by creation time.
func (s *VisitStore) List(ctx context.Context) ([]models.VisitRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+visitColumns+` FROM visits ORDER BY created_at DESC`)
	if err != nil {
		metrics.StoreOperationsTotal.WithLabelValues("visits_list", "error").Inc()
		return nil, stderrors.NewQueryFailedError("visits_list", err)
	}
	defer rows.Close()

	visits := make([]models.VisitRecord, 0)
	for rows.Next() {
		v, err := scanVisit(rows)
		if err != nil {
			return nil, stderrors.NewQueryFailedError("visits_scan", err)
		}
		visits = append(visits, v)
	}
	if err := rows.Err(); err != nil {
		return nil, stderrors.NewQueryFailedError("visits_list", err)
	}

	metrics.StoreOperationsTotal.WithLabelValues("visits_list", "ok").Inc()
	return visits, nil
}

// Get returns one visit record by id.
func (s *VisitStore) Get(ctx context.Context, id string) (*models.VisitRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+visitColumns+` FROM visits WHERE id = $1`, id)

	v, err := scanVisit(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, stderrors.NewVisitNotFoundError(id)
	}
	if err != nil {
		return nil, stderrors.NewQueryFailedError("visits_get", err)
	}
	return &v, nil
}

// Create inserts a new visit record. The status-conditional field rules are
// applied before the write; id and timestamps are assigned here.
func (s *VisitStore) Create(ctx context.Context, v *models.VisitRecord) error {
	v.ApplyStatusRules()
	v.ID = uuid.New().String()
	now := time.Now().UTC()
	v.CreatedAt = now
	v.UpdatedAt = now

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO visits (
			id, worker_name, worker_phone, client_name, client_type,
			client_phone, client_email, address, landmark, requirements, budget,
			status, follow_up_at, rejection_reason, latitude, longitude, photo_url,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $18)`,
		v.ID, v.WorkerName, v.WorkerPhone, v.ClientName, v.ClientType,
		v.ClientPhone, v.ClientEmail, v.Address, v.Landmark, v.Requirements, v.Budget,
		v.Status, v.FollowUpAt, v.RejectionReason, v.Latitude, v.Longitude, v.PhotoURL,
		now,
	)
	if err != nil {
		metrics.StoreOperationsTotal.WithLabelValues("visits_create", "error").Inc()
		return stderrors.NewVisitWriteFailedError(err)
	}

	metrics.StoreOperationsTotal.WithLabelValues("visits_create", "ok").Inc()
	return nil
}

// Update replaces the full record for the given visit id. CreatedAt is never
// touched; UpdatedAt is set here.
func (s *VisitStore) Update(ctx context.Context, v *models.VisitRecord) error {
	v.ApplyStatusRules()
	v.UpdatedAt = time.Now().UTC()

	res, err := s.db.ExecContext(ctx, `
		UPDATE visits SET
			worker_name = $2, worker_phone = $3, client_name = $4, client_type = $5,
			client_phone = $6, client_email = $7, address = $8, landmark = $9,
			requirements = $10, budget = $11, status = $12, follow_up_at = $13,
			rejection_reason = $14, latitude = $15, longitude = $16, photo_url = $17,
			updated_at = $18
		WHERE id = $1`,
		v.ID, v.WorkerName, v.WorkerPhone, v.ClientName, v.ClientType,
		v.ClientPhone, v.ClientEmail, v.Address, v.Landmark,
		v.Requirements, v.Budget, v.Status, v.FollowUpAt,
		v.RejectionReason, v.Latitude, v.Longitude, v.PhotoURL,
		v.UpdatedAt,
	)
	if err != nil {
		metrics.StoreOperationsTotal.WithLabelValues("visits_update", "error").Inc()
		return stderrors.NewVisitWriteFailedError(err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return stderrors.NewVisitNotFoundError(v.ID)
	}

	metrics.StoreOperationsTotal.WithLabelValues("visits_update", "ok").Inc()
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanVisit(row rowScanner) (models.VisitRecord, error) {
	var v models.VisitRecord
	err := row.Scan(
		&v.ID, &v.WorkerName, &v.WorkerPhone, &v.ClientName, &v.ClientType,
		&v.ClientPhone, &v.ClientEmail, &v.Address, &v.Landmark, &v.Requirements, &v.Budget,
		&v.Status, &v.FollowUpAt, &v.RejectionReason, &v.Latitude, &v.Longitude, &v.PhotoURL,
		&v.CreatedAt, &v.UpdatedAt,
	)
	return v, err
}
