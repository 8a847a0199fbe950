// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/sethseligman/statstack-v1-archive/internal/domain/calculator"
	"github.com/sethseligman/statstack-v1-archive/internal/domain/player"
	"github.com/sethseligman/statstack-v1-archive/internal/domain/sequence"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Submit queues a calculation and waits for its result.
	Submit(ctx context.Context, challenge string, teams any) (calculator.Result, error)

	// Sequence draws a team sequence; zero rounds means the default length.
	Sequence(ctx context.Context, challenge string, rounds int, mode sequence.Mode) ([]string, error)

	// Challenges lists the challenge registry.
	Challenges() []player.Challenge
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler     *HealthHandler
	statsHandler      *StatsHandler
	scoreHandler      *ScoreHandler
	sequenceHandler   *SequenceHandler
	challengesHandler *ChallengesHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:     NewHealthHandler(),
		statsHandler:      NewStatsHandler(statsProvider),
		scoreHandler:      NewScoreHandler(deps),
		sequenceHandler:   NewSequenceHandler(deps),
		challengesHandler: NewChallengesHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/metrics", MetricsMiddleware(s.healthHandler.HandleHealth, "metrics"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/optimal-score", MetricsMiddleware(s.scoreHandler.HandlePostOptimalScore, "optimal-score"))
	mux.HandleFunc("/sequence", MetricsMiddleware(s.sequenceHandler.HandleGetSequence, "sequence"))
	mux.HandleFunc("/challenges", MetricsMiddleware(s.challengesHandler.HandleGetChallenges, "challenges"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
