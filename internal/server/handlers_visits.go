package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	stderrors "fieldtrack/internal/common/errors"
	"fieldtrack/internal/common/validation"
	"fieldtrack/internal/models"
	"fieldtrack/internal/report"
)

// handleListVisits handles GET /visits?status=&q=. Filtering runs in memory
// over the full list; derived views are never cached.
func (s *Server) handleListVisits(w http.ResponseWriter, r *http.Request) {
	visits, err := s.visits.List(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	status := r.URL.Query().Get("status")
	if status == "" {
		status = report.StatusAll
	}
	search := r.URL.Query().Get("q")

	filtered := report.FilterVisits(visits, status, search)
	JSONResponse(w, http.StatusOK, map[string]interface{}{
		"visits": filtered,
		"total":  len(filtered),
	})
}

// handleGetVisit handles GET /visits/{id}.
func (s *Server) handleGetVisit(w http.ResponseWriter, r *http.Request) {
	visit, err := s.visits.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		WriteError(w, err)
		return
	}
	JSONResponse(w, http.StatusOK, visit)
}

// handleCreateVisit handles POST /visits.
func (s *Server) handleCreateVisit(w http.ResponseWriter, r *http.Request) {
	visit, ok := s.decodeVisit(w, r)
	if !ok {
		return
	}

	if err := s.recorder.CreateVisit(r.Context(), visit); err != nil {
		WriteError(w, err)
		return
	}

	s.scheduleReminder(visit)
	JSONResponse(w, http.StatusCreated, visit)
}

// handleUpdateVisit handles PUT /visits/{id}. The body carries the full
// record; the path ID wins over any ID in the payload.
func (s *Server) handleUpdateVisit(w http.ResponseWriter, r *http.Request) {
	visit, ok := s.decodeVisit(w, r)
	if !ok {
		return
	}
	visit.ID = r.PathValue("id")

	prev, err := s.visits.Get(r.Context(), visit.ID)
	if err != nil {
		WriteError(w, err)
		return
	}

	if err := s.recorder.UpdateVisit(r.Context(), visit); err != nil {
		WriteError(w, err)
		return
	}

	if prev.FollowUpAt == nil {
		s.scheduleReminder(visit)
	}
	JSONResponse(w, http.StatusOK, visit)
}

// handleListActivities handles GET /visits/{id}/activities.
func (s *Server) handleListActivities(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, err := s.visits.Get(r.Context(), id); err != nil {
		WriteError(w, err)
		return
	}

	entries, err := s.activities.ListByVisit(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}
	JSONResponse(w, http.StatusOK, map[string]interface{}{
		"activities": entries,
		"total":      len(entries),
	})
}

// decodeVisit parses and validates a visit payload. The raw body is checked
// against the JSON schema first so type mismatches surface as 400s instead
// of decode errors.
func (s *Server) decodeVisit(w http.ResponseWriter, r *http.Request) (*models.VisitRecord, bool) {
	defer r.Body.Close()

	var raw map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		WriteError(w, stderrors.NewInvalidPayloadError(err))
		return nil, false
	}
	if err := validation.ValidatePayloadShape(raw); err != nil {
		ErrorResponse(w, http.StatusBadRequest, err.Error())
		return nil, false
	}

	payload, err := json.Marshal(raw)
	if err != nil {
		ErrorResponse(w, http.StatusBadRequest, "invalid JSON")
		return nil, false
	}
	var visit models.VisitRecord
	if err := json.Unmarshal(payload, &visit); err != nil {
		ErrorResponse(w, http.StatusBadRequest, "invalid JSON")
		return nil, false
	}

	if result := validation.ValidateVisit(&visit); !result.Valid {
		JSONResponse(w, http.StatusBadRequest, errorPayload{
			Error:   http.StatusText(http.StatusBadRequest),
			Message: result.Error(),
			Fields:  result.Errors,
		})
		return nil, false
	}

	return &visit, true
}

// scheduleReminder fires the follow-up reminder off the request path so a
// slow or failing provider never delays the visit write response.
func (s *Server) scheduleReminder(visit *models.VisitRecord) {
	if s.notifier == nil || visit.Status != models.StatusFollowUp || visit.FollowUpAt == nil {
		return
	}
	copied := *visit
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		s.notifier.FollowUpScheduled(ctx, &copied)
	}()
}
