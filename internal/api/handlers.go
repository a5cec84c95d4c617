package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"
)

// handleHealthz handles GET /healthz (no auth).
func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, HealthzResponse{
		Status:        "ok",
		UptimeSeconds: int64(time.Since(s.startedAt).Seconds()),
	})
}

// handleReset handles POST /v1/reset. The orchestrator call cannot fail; any
// step failures ride inside the result body, so the status is always 200.
func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	res := s.resetter.Run(r.Context())
	s.writeJSON(w, http.StatusOK, res)
}

// handleLogsSweep handles POST /v1/logs/sweep?days=N. Without a days
// parameter the configured retention applies.
func (s *Server) handleLogsSweep(w http.ResponseWriter, r *http.Request) {
	days := s.config.RetentionDays
	if raw := r.URL.Query().Get("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			s.writeError(w, http.StatusBadRequest, "days must be a non-negative integer")
			return
		}
		days = n
	}

	deleted, err := s.logs.ClearOld(days)
	if err != nil {
		s.logger.Error("log sweep failed", "error", err, "deleted", deleted)
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, SweepResponse{Deleted: deleted, RetentionDays: days})
}

// handleLogsDir handles GET /v1/logs/dir.
func (s *Server) handleLogsDir(w http.ResponseWriter, r *http.Request) {
	dir, err := s.logs.Dir()
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, LogDirResponse{Dir: dir})
}

// handleLogsOpen handles POST /v1/logs/open.
func (s *Server) handleLogsOpen(w http.ResponseWriter, r *http.Request) {
	if err := s.logs.OpenFolder(); err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, OpenedResponse{Opened: true})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, ErrorResponse{Error: msg})
}
