package store

import (
	"context"
	"database/sql/driver"
	"testing"
	"time"

	"fieldtrack/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var visitRowColumns = []string{
	"id", "worker_name", "worker_phone", "client_name", "client_type",
	"client_phone", "client_email", "address", "landmark", "requirements", "budget",
	"status", "follow_up_at", "rejection_reason", "latitude", "longitude", "photo_url",
	"created_at", "updated_at",
}

func visitRow(id, worker, client string, status models.VisitStatus, budget float64, createdAt time.Time) []driver.Value {
	return []driver.Value{
		id, worker, "", client, "shop",
		"9876543210", "", "12 Main Rd", "", "", budget,
		string(status), nil, "", nil, nil, "",
		createdAt, createdAt,
	}
}

func TestVisitStore_List_NewestFirst(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	newer := time.Date(2024, 6, 2, 10, 0, 0, 0, time.UTC)
	older := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows(visitRowColumns).
		AddRow(visitRow("v2", "Jane", "Acme", models.StatusConverted, 500, newer)...).
		AddRow(visitRow("v1", "Ravi", "Blue", models.StatusFollowUp, 0, older)...)

	mock.ExpectQuery(`SELECT (.+) FROM visits ORDER BY created_at DESC`).
		WillReturnRows(rows)

	store := NewVisitStore(db)
	visits, err := store.List(context.Background())

	assert.NoError(t, err)
	require.Len(t, visits, 2)
	assert.Equal(t, "v2", visits[0].ID)
	assert.Equal(t, "v1", visits[1].ID)
	assert.True(t, visits[0].CreatedAt.After(visits[1].CreatedAt))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVisitStore_List_ConnectionError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT (.+) FROM visits`).
		WillReturnError(assert.AnError)

	store := NewVisitStore(db)
	_, err = store.List(context.Background())

	assert.Error(t, err)
}

func TestVisitStore_Create_AssignsIDAndAppliesStatusRules(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`INSERT INTO visits`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	followUp := time.Now().Add(48 * time.Hour)
	v := &models.VisitRecord{
		WorkerName: "Jane",
		ClientName: "Acme",
		Status:     models.StatusConverted,
		Budget:     1500,
		FollowUpAt: &followUp, // inapplicable to converted, must be cleared
	}

	store := NewVisitStore(db)
	err = store.Create(context.Background(), v)

	assert.NoError(t, err)
	assert.NotEmpty(t, v.ID)
	assert.Nil(t, v.FollowUpAt)
	assert.Equal(t, 1500.0, v.Budget)
	assert.False(t, v.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVisitStore_Create_ClearsBudgetWhenNotConverted(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`INSERT INTO visits`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	v := &models.VisitRecord{
		WorkerName:      "Jane",
		ClientName:      "Acme",
		Status:          models.StatusRejected,
		Budget:          1500,
		RejectionReason: "price too high",
	}

	store := NewVisitStore(db)
	require.NoError(t, store.Create(context.Background(), v))

	assert.Equal(t, 0.0, v.Budget)
	assert.Equal(t, "price too high", v.RejectionReason)
}

func TestVisitStore_Update_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`UPDATE visits SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	v := &models.VisitRecord{ID: "missing", Status: models.StatusFollowUp}

	store := NewVisitStore(db)
	err = store.Update(context.Background(), v)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "VISIT_NOT_FOUND")
}

func TestVisitStore_Get_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT (.+) FROM visits WHERE id`).
		WithArgs("nope").
		WillReturnRows(sqlmock.NewRows(visitRowColumns))

	store := NewVisitStore(db)
	_, err = store.Get(context.Background(), "nope")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "VISIT_NOT_FOUND")
}
