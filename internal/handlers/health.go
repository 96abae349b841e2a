package handlers

import (
	"net/http"
	"time"

	"github.com/qazimabbas/LostnFound/internal/api"
)

// HandleHealth reports process liveness, request counters and, when a
// database is attached, per-collection document counts.
func (s *Server) HandleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requests, errors := s.Metrics.Counts()
		payload := map[string]any{
			"status":   "ok",
			"uptime":   s.Metrics.Uptime().Round(time.Second).String(),
			"requests": requests,
			"errors":   errors,
			"latency":  s.Metrics.Snapshot(),
		}

		if s.MongoDB != nil {
			counts, err := s.MongoDB.CollectionCounts(r.Context())
			if err != nil {
				s.Log.Warnw("failed to count collections", "error", err)
				payload["database"] = "unreachable"
			} else {
				payload["database"] = counts
			}
		}

		api.WriteJSON(w, http.StatusOK, payload)
	}
}
