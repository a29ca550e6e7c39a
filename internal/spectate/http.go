package spectate

import (
	"encoding/json"
	"net/http"
)

// Handler returns the spectator HTTP API:
//
//	GET /matches   live matches
//	GET /ws        websocket feed of one match
//	GET /metrics   host counters
//	GET /healthz   liveness
func (h *Hub) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/matches", h.handleMatches)
	mux.HandleFunc("/ws", h.ServeWS)
	mux.HandleFunc("/metrics", h.handleMetrics)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	return mux
}

func (h *Hub) handleMatches(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, h.List())
}

func (h *Hub) handleMetrics(w http.ResponseWriter, r *http.Request) {
	payload := h.metrics.Snapshot()
	h.mu.RLock()
	payload["matches_live"] = len(h.matches)
	h.mu.RUnlock()
	writeJSON(w, payload)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	_ = json.NewEncoder(w).Encode(v)
}
