package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	service "github.com/sethseligman/statstack-v1-archive/internal/app"
	"github.com/sethseligman/statstack-v1-archive/internal/domain/sequence"
)

// SequenceDependencies defines the interface for sequence generation.
type SequenceDependencies interface {
	Sequence(ctx context.Context, challenge string, rounds int, mode sequence.Mode) ([]string, error)
}

type sequenceResponse struct {
	Challenge string        `json:"challenge"`
	Mode      sequence.Mode `json:"mode"`
	Teams     []string      `json:"teams"`
}

// SequenceHandler handles sequence requests.
type SequenceHandler struct {
	deps SequenceDependencies
}

// NewSequenceHandler creates a new sequence handler.
func NewSequenceHandler(deps SequenceDependencies) *SequenceHandler {
	return &SequenceHandler{deps: deps}
}

// HandleGetSequence handles GET /sequence?challenge=&rounds=&mode= requests.
func (h *SequenceHandler) HandleGetSequence(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_sequence"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	q := r.URL.Query()
	rounds := 0
	if raw := q.Get("rounds"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
			return
		}
		rounds = n
	}

	mode, err := sequence.ParseMode(q.Get("mode"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	challenge := q.Get("challenge")
	teams, err := h.deps.Sequence(r.Context(), challenge, rounds, mode)
	switch {
	case err == nil:
	case errors.Is(err, sequence.ErrInvalidRounds), errors.Is(err, sequence.ErrUnknownMode),
		errors.Is(err, service.ErrUnknownChallenge):
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	case errors.Is(err, service.ErrServiceStopped):
		writeError(w, http.StatusServiceUnavailable, "unavailable", WrapKind(op, ErrUnavailable, err))
		return
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", WrapKind(op, ErrInternal, err))
		return
	}
	if d, ok := h.deps.(interface{ DefaultChallenge() string }); ok && challenge == "" {
		challenge = d.DefaultChallenge()
	}
	writeJSON(w, http.StatusOK, sequenceResponse{Challenge: challenge, Mode: mode, Teams: teams})
}
