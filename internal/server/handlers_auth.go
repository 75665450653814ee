package server

import (
	"net/http"
	"time"

	"fieldtrack/internal/models"
)

type loginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

type loginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      userView  `json:"user"`
}

type userView struct {
	ID   string      `json:"id"`
	Name string      `json:"name"`
	Role models.Role `json:"role"`
}

// handleLogin handles POST /auth/{portal}/login. The portal path segment is
// the role the caller claims; accounts of any other role are refused here
// even with a correct password.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	portal := models.Role(r.PathValue("portal"))
	if !portal.IsValid() {
		ErrorResponse(w, http.StatusNotFound, "unknown portal")
		return
	}

	var req loginRequest
	if err := ParseJSONBody(r, &req); err != nil {
		ErrorResponse(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.Identifier == "" || req.Password == "" {
		ErrorResponse(w, http.StatusBadRequest, "identifier and password are required")
		return
	}

	user, err := s.auth.Login(r.Context(), portal, req.Identifier, req.Password)
	if err != nil {
		WriteError(w, err)
		return
	}

	sess, err := s.sessions.Create(r.Context(), user)
	if err != nil {
		WriteError(w, err)
		return
	}

	JSONResponse(w, http.StatusOK, loginResponse{
		Token:     sess.Token,
		ExpiresAt: sess.ExpiresAt,
		User: userView{
			ID:   user.ID,
			Name: user.Name,
			Role: user.Role,
		},
	})
}

// handleLogout handles POST /auth/logout. Logging out an unknown token
// succeeds; the end state is the same.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r)
	if token == "" {
		ErrorResponse(w, http.StatusUnauthorized, "missing session token")
		return
	}

	if err := s.sessions.Destroy(r.Context(), token); err != nil {
		WriteError(w, err)
		return
	}

	JSONResponse(w, http.StatusOK, map[string]string{"status": "logged_out"})
}
