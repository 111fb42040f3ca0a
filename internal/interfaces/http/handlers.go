package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"
)

type healthResponse struct {
	Status     string    `json:"status"`
	UptimeSecs float64   `json:"uptime_seconds"`
	LastCycle  *string   `json:"last_cycle"`
	WSClients  int       `json:"ws_clients"`
	Timestamp  time.Time `json:"timestamp"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{
		Status:     "ok",
		UptimeSecs: time.Since(s.started).Seconds(),
		WSClients:  s.hub.ClientCount(),
		Timestamp:  time.Now().UTC(),
	}
	if snap := s.source.Latest(); snap != nil {
		ts := snap.Timestamp.Format(time.RFC3339)
		resp.LastCycle = &ts
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleData(w http.ResponseWriter, r *http.Request) {
	snap := s.source.Latest()
	if snap == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"error": "no snapshot yet, first refresh still running",
		})
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.repo == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{
			"error": "history persistence is not configured",
		})
		return
	}

	limit := 30
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 500 {
			writeJSON(w, http.StatusBadRequest, map[string]string{
				"error": "limit must be an integer between 1 and 500",
			})
			return
		}
		limit = n
	}

	recs, err := s.repo.Recent(r.Context(), limit)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error": "history query failed",
		})
		return
	}

	type item struct {
		Timestamp      time.Time `json:"timestamp"`
		CompositeScore *float64  `json:"composite_score"`
		AlertTier      string    `json:"alert_tier"`
	}
	items := make([]item, len(recs))
	for i, rec := range recs {
		items[i] = item{Timestamp: rec.Timestamp, CompositeScore: rec.CompositeScore, AlertTier: rec.AlertTier}
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
