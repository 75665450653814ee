package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	stderrors "fieldtrack/internal/common/errors"
	"fieldtrack/internal/common/logger"
	"fieldtrack/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAuth struct {
	user *models.UserAccount
	err  error
}

func (s *stubAuth) Login(ctx context.Context, portal models.Role, identifier, password string) (*models.UserAccount, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.user, nil
}

func (s *stubAuth) HashPassword(password string) (string, error) {
	return "hashed:" + password, nil
}

type stubSessions struct {
	sessions  map[string]*models.Session
	destroyed []string
}

func newStubSessions() *stubSessions {
	return &stubSessions{sessions: map[string]*models.Session{}}
}

func (s *stubSessions) Create(ctx context.Context, user *models.UserAccount) (*models.Session, error) {
	sess := &models.Session{
		Token:     "tok-" + user.ID,
		UserID:    user.ID,
		Name:      user.Name,
		Role:      user.Role,
		CreatedAt: time.Now().UTC(),
		ExpiresAt: time.Now().UTC().Add(time.Hour),
	}
	s.sessions[sess.Token] = sess
	return sess, nil
}

func (s *stubSessions) Get(ctx context.Context, token string) (*models.Session, error) {
	sess, ok := s.sessions[token]
	if !ok {
		return nil, stderrors.NewSessionExpiredError()
	}
	return sess, nil
}

func (s *stubSessions) Destroy(ctx context.Context, token string) error {
	s.destroyed = append(s.destroyed, token)
	delete(s.sessions, token)
	return nil
}

type stubVisits struct {
	visits []models.VisitRecord
	err    error
}

func (s *stubVisits) List(ctx context.Context) ([]models.VisitRecord, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.visits, nil
}

func (s *stubVisits) Get(ctx context.Context, id string) (*models.VisitRecord, error) {
	for i := range s.visits {
		if s.visits[i].ID == id {
			v := s.visits[i]
			return &v, nil
		}
	}
	return nil, stderrors.NewVisitNotFoundError(id)
}

type stubRecorder struct {
	created *models.VisitRecord
	updated *models.VisitRecord
	err     error
}

func (s *stubRecorder) CreateVisit(ctx context.Context, v *models.VisitRecord) error {
	if s.err != nil {
		return s.err
	}
	v.ID = "v-new"
	s.created = v
	return nil
}

func (s *stubRecorder) UpdateVisit(ctx context.Context, v *models.VisitRecord) error {
	if s.err != nil {
		return s.err
	}
	s.updated = v
	return nil
}

type stubActivities struct {
	entries []models.ActivityEntry
}

func (s *stubActivities) ListByVisit(ctx context.Context, visitID string) ([]models.ActivityEntry, error) {
	return s.entries, nil
}

type stubUsers struct {
	created *models.UserAccount
	err     error
}

func (s *stubUsers) Create(ctx context.Context, u *models.UserAccount) error {
	if s.err != nil {
		return s.err
	}
	u.ID = "u-new"
	s.created = u
	return nil
}

type stubUploader struct {
	filename string
	err      error
}

func (s *stubUploader) Upload(ctx context.Context, filename string, body io.Reader) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.filename = filename
	return "https://cdn.example.com/visits/1718000000_abcd.jpg", nil
}

type fixture struct {
	server     *Server
	sessions   *stubSessions
	visits     *stubVisits
	recorder   *stubRecorder
	users      *stubUsers
	uploader   *stubUploader
	auth       *stubAuth
	activities *stubActivities
	handler    http.Handler
}

func newFixture(t *testing.T) *fixture {
	f := &fixture{
		sessions:   newStubSessions(),
		visits:     &stubVisits{},
		recorder:   &stubRecorder{},
		users:      &stubUsers{},
		uploader:   &stubUploader{},
		auth:       &stubAuth{},
		activities: &stubActivities{},
	}
	f.server = New(Deps{
		Auth:       f.auth,
		Sessions:   f.sessions,
		Visits:     f.visits,
		Recorder:   f.recorder,
		Activities: f.activities,
		Users:      f.users,
		Uploader:   f.uploader,
		Logger:     logger.NewTestLogger(t),
	})
	f.handler = f.server.Router()
	return f
}

func (f *fixture) workerToken() string {
	sess, _ := f.sessions.Create(context.Background(), &models.UserAccount{
		ID: "w1", Name: "Jane", Role: models.RoleWorker,
	})
	return sess.Token
}

func (f *fixture) adminToken() string {
	sess, _ := f.sessions.Create(context.Background(), &models.UserAccount{
		ID: "a1", Name: "Boss", Role: models.RoleAdmin,
	})
	return sess.Token
}

func (f *fixture) do(method, path, token string, body io.Reader) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func sampleVisits() []models.VisitRecord {
	return []models.VisitRecord{
		{ID: "v1", WorkerName: "Jane", ClientName: "Acme Traders", ClientPhone: "9876543210", Status: models.StatusConverted, Budget: 50000},
		{ID: "v2", WorkerName: "Raj", ClientName: "Bharat Stores", Status: models.StatusRejected, RejectionReason: "price"},
		{ID: "v3", WorkerName: "Jane", ClientName: "Chroma Mart", Status: models.StatusFollowUp},
	}
}

func TestLogin_ReturnsSessionToken(t *testing.T) {
	f := newFixture(t)
	f.auth.user = &models.UserAccount{ID: "w1", Name: "Jane", Role: models.RoleWorker}

	rec := f.do(http.MethodPost, "/auth/worker/login", "",
		strings.NewReader(`{"identifier":"jane@acme.test","password":"secret1"}`))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp loginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "tok-w1", resp.Token)
	assert.Equal(t, models.RoleWorker, resp.User.Role)
}

func TestLogin_UnknownPortal(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodPost, "/auth/superuser/login", "",
		strings.NewReader(`{"identifier":"x","password":"y"}`))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLogin_PortalMismatchIsForbidden(t *testing.T) {
	f := newFixture(t)
	f.auth.err = stderrors.NewAccessDeniedError("admin", "worker")

	rec := f.do(http.MethodPost, "/auth/admin/login", "",
		strings.NewReader(`{"identifier":"jane@acme.test","password":"secret1"}`))

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestLogout_DestroysSession(t *testing.T) {
	f := newFixture(t)
	token := f.workerToken()

	rec := f.do(http.MethodPost, "/auth/logout", token, nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, f.sessions.destroyed, token)
}

func TestVisits_RequireSession(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodGet, "/visits", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = f.do(http.MethodGet, "/visits", "tok-unknown", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestListVisits_FiltersByStatusAndSearch(t *testing.T) {
	f := newFixture(t)
	f.visits.visits = sampleVisits()
	token := f.workerToken()

	rec := f.do(http.MethodGet, "/visits?status=converted", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Visits []models.VisitRecord `json:"visits"`
		Total  int                  `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, 1, resp.Total)
	assert.Equal(t, "v1", resp.Visits[0].ID)

	rec = f.do(http.MethodGet, "/visits?q=jane", token, nil)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Total)

	rec = f.do(http.MethodGet, "/visits", token, nil)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 3, resp.Total)
}

func TestGetVisit_NotFound(t *testing.T) {
	f := newFixture(t)
	token := f.workerToken()

	rec := f.do(http.MethodGet, "/visits/ghost", token, nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateVisit_Succeeds(t *testing.T) {
	f := newFixture(t)
	token := f.workerToken()

	body := `{"clientName":"Acme Traders","workerName":"Jane","status":"converted","budget":50000}`
	rec := f.do(http.MethodPost, "/visits", token, strings.NewReader(body))

	require.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, f.recorder.created)
	assert.Equal(t, "v-new", f.recorder.created.ID)
	assert.Equal(t, 50000.0, f.recorder.created.Budget)
}

func TestCreateVisit_RejectsBadPayloadShape(t *testing.T) {
	f := newFixture(t)
	token := f.workerToken()

	body := `{"clientName":"Acme Traders","workerName":"Jane","status":"converted","budget":"a lot"}`
	rec := f.do(http.MethodPost, "/visits", token, strings.NewReader(body))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Nil(t, f.recorder.created)
}

func TestCreateVisit_RejectsFieldErrors(t *testing.T) {
	f := newFixture(t)
	token := f.workerToken()

	body := `{"clientName":"Acme Traders","workerName":"Jane","status":"rejected"}`
	rec := f.do(http.MethodPost, "/visits", token, strings.NewReader(body))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var resp errorPayload
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.Fields, "rejectionReason")
}

func TestUpdateVisit_PathIDWins(t *testing.T) {
	f := newFixture(t)
	f.visits.visits = sampleVisits()
	token := f.workerToken()

	body := `{"id":"spoofed","clientName":"Acme Traders","workerName":"Jane","status":"converted","budget":60000}`
	rec := f.do(http.MethodPut, "/visits/v1", token, strings.NewReader(body))

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, f.recorder.updated)
	assert.Equal(t, "v1", f.recorder.updated.ID)
}

func TestUpdateVisit_NotFound(t *testing.T) {
	f := newFixture(t)
	token := f.workerToken()

	body := `{"clientName":"Acme Traders","workerName":"Jane","status":"converted"}`
	rec := f.do(http.MethodPut, "/visits/ghost", token, strings.NewReader(body))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Nil(t, f.recorder.updated)
}

func TestListActivities(t *testing.T) {
	f := newFixture(t)
	f.visits.visits = sampleVisits()
	f.activities.entries = []models.ActivityEntry{
		{ID: "a1", VisitID: "v1", Action: models.ActionCreated},
	}
	token := f.workerToken()

	rec := f.do(http.MethodGet, "/visits/v1/activities", token, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Total int `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Total)
}

func TestDashboard_AdminOnly(t *testing.T) {
	f := newFixture(t)
	f.visits.visits = sampleVisits()

	rec := f.do(http.MethodGet, "/dashboard/summary", f.workerToken(), nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = f.do(http.MethodGet, "/dashboard/summary", f.adminToken(), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var tally struct {
		Total     int     `json:"total"`
		Converted int     `json:"converted"`
		Revenue   float64 `json:"revenue"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tally))
	assert.Equal(t, 3, tally.Total)
	assert.Equal(t, 1, tally.Converted)
	assert.Equal(t, 50000.0, tally.Revenue)
}

func TestDashboardWorkers_Rollups(t *testing.T) {
	f := newFixture(t)
	f.visits.visits = sampleVisits()

	rec := f.do(http.MethodGet, "/dashboard/workers", f.adminToken(), nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Workers []models.WorkerRollup `json:"workers"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Workers, 2)
	assert.Equal(t, "Jane", resp.Workers[0].Name)
	assert.Equal(t, 2, resp.Workers[0].Total)
}

func TestCreateUser_AdminOnly(t *testing.T) {
	f := newFixture(t)
	body := `{"name":"Jane","role":"worker","mobile":"9876543210","email":"jane@acme.test","password":"secret1","confirmPassword":"secret1"}`

	rec := f.do(http.MethodPost, "/users", f.workerToken(), strings.NewReader(body))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = f.do(http.MethodPost, "/users", f.adminToken(), strings.NewReader(body))
	require.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, f.users.created)
	assert.Equal(t, "hashed:secret1", f.users.created.PasswordHash)
	assert.NotContains(t, rec.Body.String(), "hashed:secret1")
}

func TestUploadPhoto(t *testing.T) {
	f := newFixture(t)
	token := f.workerToken()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("photo", "shopfront.jpg")
	require.NoError(t, err)
	_, err = part.Write([]byte("img"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/uploads/photos", &buf)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "shopfront.jpg", f.uploader.filename)
	assert.Contains(t, rec.Body.String(), "photoUrl")
}

func TestCORS_Preflight(t *testing.T) {
	f := newFixture(t)

	req := httptest.NewRequest(http.MethodOptions, "/visits", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestHealthAndReady(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(http.MethodGet, "/ready", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
