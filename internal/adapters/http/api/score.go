package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	jobqueue "github.com/sethseligman/statstack-v1-archive/internal/adapters/mq/queue"
	service "github.com/sethseligman/statstack-v1-archive/internal/app"
	"github.com/sethseligman/statstack-v1-archive/internal/domain/calculator"
)

const maxRequestBytes = 1 << 20

// optimalScoreRequest mirrors the OpenAPI schema for POST /optimal-score.
// Teams stays untyped: a list that is not all strings is answered with the
// fallback result rather than rejected.
type optimalScoreRequest struct {
	Challenge string `json:"challenge"`
	Teams     any    `json:"teams"`
}

// ScoreDependencies defines what the score handler needs.
type ScoreDependencies interface {
	Submit(ctx context.Context, challenge string, teams any) (calculator.Result, error)
}

// ScoreHandler handles optimal score requests.
type ScoreHandler struct {
	deps ScoreDependencies
}

// NewScoreHandler creates a new score handler.
func NewScoreHandler(deps ScoreDependencies) *ScoreHandler {
	return &ScoreHandler{deps: deps}
}

// HandlePostOptimalScore handles POST /optimal-score requests.
func (h *ScoreHandler) HandlePostOptimalScore(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_optimal_score"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	var req optimalScoreRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	res, err := h.deps.Submit(r.Context(), req.Challenge, req.Teams)
	if err != nil {
		status, code, kind := classify(err)
		writeError(w, status, code, WrapKind(op, kind, err))
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// classify maps service errors to an HTTP status, an error code and a kind.
func classify(err error) (int, string, error) {
	switch {
	case errors.Is(err, service.ErrUnknownChallenge):
		return http.StatusBadRequest, "bad_request", ErrBadRequest
	case errors.Is(err, jobqueue.ErrQueueFull):
		return http.StatusTooManyRequests, "backpressure", ErrBackpressure
	case errors.Is(err, service.ErrServiceStopped), errors.Is(err, jobqueue.ErrQueueClosed):
		return http.StatusServiceUnavailable, "unavailable", ErrUnavailable
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return http.StatusGatewayTimeout, "timeout", ErrTimeout
	default:
		return http.StatusInternalServerError, "internal_error", ErrInternal
	}
}
