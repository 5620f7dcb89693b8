package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/wonny/equityrank/internal/contracts"
	"github.com/wonny/equityrank/internal/s0_data"
	"github.com/wonny/equityrank/internal/selection"
	"github.com/wonny/equityrank/pkg/logger"
)

// maxRankBody bounds POST /api/rankings payloads
const maxRankBody = 8 << 20

// RankingHandler handles ranking-related API endpoints
// ⭐ SSOT: 랭킹 API 핸들러는 이 구조체에서만
type RankingHandler struct {
	repo   contracts.MetricsRepository
	ranker contracts.Ranker
	logger *logger.Logger
}

// NewRankingHandler creates a new ranking handler
func NewRankingHandler(repo contracts.MetricsRepository, ranker contracts.Ranker, log *logger.Logger) *RankingHandler {
	return &RankingHandler{
		repo:   repo,
		ranker: ranker,
		logger: log,
	}
}

// RankingResponse is the body of both ranking endpoints
type RankingResponse struct {
	Goal     contracts.Goal            `json:"goal"`
	Risk     contracts.Risk            `json:"risk"`
	Sector   string                    `json:"sector"`
	Count    int                       `json:"count"`
	Rankings []contracts.RankedCompany `json:"rankings"`
	Issues   []s0_data.Issue           `json:"issues,omitempty"`
}

// RankRequest is the body of POST /api/rankings
type RankRequest struct {
	Goal      string          `json:"goal"`
	Risk      string          `json:"risk"`
	Sector    string          `json:"sector"`
	Limit     int             `json:"limit"`
	Companies json.RawMessage `json:"companies"`
}

// GetRankings ranks the stored universe
// GET /api/rankings?goal=growth&risk=aggressive&sector=Technology&limit=20
func (h *RankingHandler) GetRankings(w http.ResponseWriter, r *http.Request) {
	if h.repo == nil {
		respondError(w, http.StatusServiceUnavailable, "Metrics database is not configured")
		return
	}

	q := r.URL.Query()
	goal, risk, ok := h.parseProfile(w, q.Get("goal"), q.Get("risk"))
	if !ok {
		return
	}
	limit, ok := parseLimit(q.Get("limit"))
	if !ok {
		respondError(w, http.StatusBadRequest, "limit must be a non-negative integer")
		return
	}
	sector := q.Get("sector")

	companies, err := h.repo.ListMetricSets(r.Context(), sector)
	if err != nil {
		h.logger.WithError(err).Error("Failed to load company metrics")
		respondError(w, http.StatusInternalServerError, "Failed to load company metrics")
		return
	}

	h.rank(w, r, goal, risk, companies, sector, limit, nil)
}

// PostRankings ranks the companies supplied in the body
// POST /api/rankings {"goal":"income","risk":"conservative","sector":"all","companies":[...]}
func (h *RankingHandler) PostRankings(w http.ResponseWriter, r *http.Request) {
	var req RankRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRankBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(w, http.StatusRequestEntityTooLarge, "Request body too large")
			return
		}
		respondError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.Limit < 0 {
		respondError(w, http.StatusBadRequest, "limit must be a non-negative integer")
		return
	}

	goal, risk, ok := h.parseProfile(w, req.Goal, req.Risk)
	if !ok {
		return
	}

	companies := []contracts.MetricSet{}
	var issues []s0_data.Issue
	if len(req.Companies) > 0 {
		var err error
		companies, issues, err = s0_data.LoadMetricSetsBytes(req.Companies)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid companies: "+err.Error())
			return
		}
	}
	if len(issues) > 0 {
		h.logger.WithFields(map[string]interface{}{
			"issues": len(issues),
			"first":  issues[0].String(),
		}).Warn("Company metrics had unusable values")
	}

	h.rank(w, r, goal, risk, companies, req.Sector, req.Limit, issues)
}

func (h *RankingHandler) parseProfile(w http.ResponseWriter, rawGoal, rawRisk string) (contracts.Goal, contracts.Risk, bool) {
	risk, err := contracts.ParseRisk(rawRisk)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return "", "", false
	}

	goal, known := contracts.ParseGoal(rawGoal)
	if !known && rawGoal != "" {
		h.logger.WithField("goal", rawGoal).Warn("Unknown goal, using balanced")
	}
	return goal, risk, true
}

func (h *RankingHandler) rank(w http.ResponseWriter, r *http.Request, goal contracts.Goal, risk contracts.Risk, companies []contracts.MetricSet, sector string, limit int, issues []s0_data.Issue) {
	ranked, err := h.ranker.Rank(r.Context(), goal, risk, companies, sector)
	if err != nil {
		h.logger.WithError(err).Error("Ranking failed")
		respondError(w, http.StatusInternalServerError, "Ranking failed")
		return
	}

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}

	respondJSON(w, http.StatusOK, RankingResponse{
		Goal:     goal,
		Risk:     risk,
		Sector:   selection.NormalizeSector(sector),
		Count:    len(ranked),
		Rankings: ranked,
		Issues:   issues,
	})
}
