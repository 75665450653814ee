package server

import (
	"context"
	"io"

	"fieldtrack/internal/common/logger"
	"fieldtrack/internal/common/observability"
	"fieldtrack/internal/models"
)

// The server depends on narrow interfaces so handlers can be tested
// against stubs instead of live Postgres, Redis and AWS clients.

type Authenticator interface {
	Login(ctx context.Context, portal models.Role, identifier, password string) (*models.UserAccount, error)
	HashPassword(password string) (string, error)
}

type SessionStore interface {
	Create(ctx context.Context, user *models.UserAccount) (*models.Session, error)
	Get(ctx context.Context, token string) (*models.Session, error)
	Destroy(ctx context.Context, token string) error
}

type VisitReader interface {
	List(ctx context.Context) ([]models.VisitRecord, error)
	Get(ctx context.Context, id string) (*models.VisitRecord, error)
}

type VisitRecorder interface {
	CreateVisit(ctx context.Context, v *models.VisitRecord) error
	UpdateVisit(ctx context.Context, v *models.VisitRecord) error
}

type ActivityReader interface {
	ListByVisit(ctx context.Context, visitID string) ([]models.ActivityEntry, error)
}

type UserWriter interface {
	Create(ctx context.Context, u *models.UserAccount) error
}

type PhotoUploader interface {
	Upload(ctx context.Context, filename string, body io.Reader) (string, error)
}

type ReminderNotifier interface {
	FollowUpScheduled(ctx context.Context, visit *models.VisitRecord)
}

// Server holds the handler dependencies and builds the HTTP router.
type Server struct {
	auth       Authenticator
	sessions   SessionStore
	visits     VisitReader
	recorder   VisitRecorder
	activities ActivityReader
	users      UserWriter
	uploader   PhotoUploader
	notifier   ReminderNotifier
	obs        *observability.Observability
	logger     logger.Logger
	ready      func(ctx context.Context) error

	allowedOrigins []string
}

type Deps struct {
	Auth       Authenticator
	Sessions   SessionStore
	Visits     VisitReader
	Recorder   VisitRecorder
	Activities ActivityReader
	Users      UserWriter
	Uploader   PhotoUploader
	Notifier   ReminderNotifier
	Obs        *observability.Observability
	Logger     logger.Logger
	Ready      func(ctx context.Context) error

	AllowedOrigins []string
}

func New(deps Deps) *Server {
	return &Server{
		auth:       deps.Auth,
		sessions:   deps.Sessions,
		visits:     deps.Visits,
		recorder:   deps.Recorder,
		activities: deps.Activities,
		users:      deps.Users,
		uploader:   deps.Uploader,
		notifier:   deps.Notifier,
		obs:        deps.Obs,
		logger:     deps.Logger,
		ready:      deps.Ready,

		allowedOrigins: deps.AllowedOrigins,
	}
}
