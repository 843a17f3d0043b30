package server

import (
	"log"
	"net/http"
)

func (s *Server) handleDashboardSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := s.dashboardSvc.GetSummary(r.Context())
	if err != nil {
		log.Printf("Failed to build dashboard summary: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to build summary")
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
