package api

import (
	"fmt"
	"net/http"
)

// StatsProvider reports a snapshot of service state.
type StatsProvider interface {
	GetStats() map[string]interface{}
}

// StatsHandler serves the service snapshot.
type StatsHandler struct {
	provider StatsProvider
}

// NewStatsHandler creates a new stats handler.
func NewStatsHandler(provider StatsProvider) *StatsHandler {
	return &StatsHandler{provider: provider}
}

// HandleStats handles GET /stats. A field query parameter narrows the
// snapshot to one entry, e.g. /stats?field=queueLength.
func (h *StatsHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	stats := h.provider.GetStats()
	if field := r.URL.Query().Get("field"); field != "" {
		v, ok := stats[field]
		if !ok {
			writeError(w, http.StatusNotFound, "not_found", fmt.Errorf("no stat named %q", field))
			return
		}
		stats = map[string]interface{}{field: v}
	}

	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, http.StatusOK, stats)
}
