package api

import (
	"net/http"

	"github.com/sethseligman/statstack-v1-archive/internal/domain/player"
)

// ChallengesDependencies defines the interface for the challenge registry.
type ChallengesDependencies interface {
	Challenges() []player.Challenge
}

// ChallengesHandler handles challenge registry requests.
type ChallengesHandler struct {
	deps ChallengesDependencies
}

// NewChallengesHandler creates a new challenges handler.
func NewChallengesHandler(deps ChallengesDependencies) *ChallengesHandler {
	return &ChallengesHandler{deps: deps}
}

// HandleGetChallenges handles GET /challenges requests.
func (h *ChallengesHandler) HandleGetChallenges(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, h.deps.Challenges())
}
