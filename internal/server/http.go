package server

import (
	"encoding/json"
	"net/http"

	"github.com/zeusync/ultrapong/internal/core/observability/log"
)

type healthResponse struct {
	Status  string     `json:"status"`
	MatchID string     `json:"match_id"`
	Tick    uint64     `json:"tick"`
	Over    bool       `json:"over"`
	Hub     HubMetrics `json:"hub"`
}

// Handler returns the HTTP routes of the spectator server.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /ws", s.handleWebSocket)
	mux.HandleFunc("GET /snapshot", s.handleSnapshot)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	return mux
}

func (s *Server) handleSnapshot(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if frame := s.hub.Latest(); frame != nil {
		_, _ = w.Write(frame)
		return
	}
	s.writeJSON(w, http.StatusOK, s.source.Latest())
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	snap := s.source.Latest()
	s.writeJSON(w, http.StatusOK, healthResponse{
		Status:  "ok",
		MatchID: snap.MatchID,
		Tick:    snap.Tick,
		Over:    snap.Over,
		Hub:     s.hub.Metrics(),
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Debug("Failed to write response", log.Error(err))
	}
}
