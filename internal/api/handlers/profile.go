package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/wonny/equityrank/internal/contracts"
	"github.com/wonny/equityrank/internal/profile"
	"github.com/wonny/equityrank/pkg/logger"
)

// ProfileHandler exposes the weight tables
type ProfileHandler struct {
	builder *profile.Builder
	logger  *logger.Logger
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(builder *profile.Builder, log *logger.Logger) *ProfileHandler {
	return &ProfileHandler{
		builder: builder,
		logger:  log,
	}
}

// ProfileResponse is a renormalized weight table
type ProfileResponse struct {
	Goal    contracts.Goal          `json:"goal"`
	Risk    contracts.Risk          `json:"risk"`
	Weights []contracts.WeightEntry `json:"weights"`
}

// GetProfile returns the weight table for a goal
// GET /api/profiles/{goal}?risk=conservative
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	risk, err := contracts.ParseRisk(r.URL.Query().Get("risk"))
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	goal, _ := contracts.ParseGoal(mux.Vars(r)["goal"])

	p, err := h.builder.Build(goal, risk)
	if err != nil {
		h.logger.WithError(err).Error("Failed to build profile")
		respondError(w, http.StatusInternalServerError, "Invalid profile configuration")
		return
	}

	respondJSON(w, http.StatusOK, ProfileResponse{
		Goal:    p.Goal(),
		Risk:    p.Risk(),
		Weights: p.Entries(),
	})
}
