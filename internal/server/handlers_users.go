package server

import (
	"net/http"

	"fieldtrack/internal/common/validation"
	"fieldtrack/internal/models"
)

type createUserRequest struct {
	Name            string      `json:"name"`
	Role            models.Role `json:"role"`
	Mobile          string      `json:"mobile"`
	Email           string      `json:"email"`
	Password        string      `json:"password"`
	ConfirmPassword string      `json:"confirmPassword"`
}

// handleCreateUser handles POST /users. Admin only; the password is hashed
// before the account is stored and never echoed back.
func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := ParseJSONBody(r, &req); err != nil {
		ErrorResponse(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	user := &models.UserAccount{
		Name:   req.Name,
		Role:   req.Role,
		Mobile: req.Mobile,
		Email:  req.Email,
		Active: true,
	}

	if result := validation.ValidateNewAccount(user, req.Password, req.ConfirmPassword); !result.Valid {
		JSONResponse(w, http.StatusBadRequest, errorPayload{
			Error:   http.StatusText(http.StatusBadRequest),
			Message: result.Error(),
			Fields:  result.Errors,
		})
		return
	}

	hash, err := s.auth.HashPassword(req.Password)
	if err != nil {
		ErrorResponse(w, http.StatusInternalServerError, "failed to create account")
		return
	}
	user.PasswordHash = hash

	if err := s.users.Create(r.Context(), user); err != nil {
		WriteError(w, err)
		return
	}

	JSONResponse(w, http.StatusCreated, userView{
		ID:   user.ID,
		Name: user.Name,
		Role: user.Role,
	})
}
