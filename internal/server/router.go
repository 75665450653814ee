package server

import (
	"net/http"
)

// Router builds the API mux. Visit and upload routes require a session of
// either role; dashboards and account management are admin only.
func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.withLogging("/health", s.handleHealth))
	mux.HandleFunc("GET /ready", s.withLogging("/ready", s.handleReady))

	mux.HandleFunc("POST /auth/{portal}/login", s.withLogging("/auth/{portal}/login", s.handleLogin))
	mux.HandleFunc("POST /auth/logout", s.withLogging("/auth/logout", s.handleLogout))

	mux.HandleFunc("GET /visits", s.withLogging("/visits", s.withSession(s.handleListVisits)))
	mux.HandleFunc("POST /visits", s.withLogging("/visits", s.withSession(s.handleCreateVisit)))
	mux.HandleFunc("GET /visits/{id}", s.withLogging("/visits/{id}", s.withSession(s.handleGetVisit)))
	mux.HandleFunc("PUT /visits/{id}", s.withLogging("/visits/{id}", s.withSession(s.handleUpdateVisit)))
	mux.HandleFunc("GET /visits/{id}/activities", s.withLogging("/visits/{id}/activities", s.withSession(s.handleListActivities)))

	mux.HandleFunc("POST /uploads/photos", s.withLogging("/uploads/photos", s.withSession(s.handleUploadPhoto)))

	mux.HandleFunc("GET /dashboard/summary", s.withLogging("/dashboard/summary", s.withAdmin(s.handleDashboardSummary)))
	mux.HandleFunc("GET /dashboard/workers", s.withLogging("/dashboard/workers", s.withAdmin(s.handleDashboardWorkers)))
	mux.HandleFunc("POST /users", s.withLogging("/users", s.withAdmin(s.handleCreateUser)))

	return CORS(s.allowedOrigins, mux)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	JSONResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleReady reports whether the backing stores answer.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.ready != nil {
		if err := s.ready(r.Context()); err != nil {
			ErrorResponse(w, http.StatusServiceUnavailable, err.Error())
			return
		}
	}
	JSONResponse(w, http.StatusOK, map[string]string{"status": "ready"})
}
