package server

import (
	"net/http"

	"fieldtrack/internal/report"
)

// handleDashboardSummary handles GET /dashboard/summary. The tally is
// recomputed from the full visit list on every call.
func (s *Server) handleDashboardSummary(w http.ResponseWriter, r *http.Request) {
	visits, err := s.visits.List(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}
	JSONResponse(w, http.StatusOK, report.TallyVisits(visits))
}

// handleDashboardWorkers handles GET /dashboard/workers.
func (s *Server) handleDashboardWorkers(w http.ResponseWriter, r *http.Request) {
	visits, err := s.visits.List(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}
	rollups := report.WorkerRollups(visits)
	JSONResponse(w, http.StatusOK, map[string]interface{}{
		"workers": rollups,
		"total":   len(rollups),
	})
}
