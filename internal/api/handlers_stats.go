package api

import (
	"net/http"
)

func (s *Server) handleOpStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"window":   s.cfg.StatsWindow.String(),
		"sessions": s.sessions.Count(),
		"ops":      s.stats.Snapshot(),
	})
}
