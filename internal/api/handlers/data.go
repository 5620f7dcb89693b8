package handlers

import (
	"net/http"

	"github.com/wonny/equityrank/internal/contracts"
	"github.com/wonny/equityrank/internal/s0_data/quality"
	"github.com/wonny/equityrank/pkg/logger"
)

// DataHandler handles data-related API endpoints
// ⭐ SSOT: 데이터 API 핸들러는 이 구조체에서만
type DataHandler struct {
	repo        contracts.MetricsRepository
	qualityGate *quality.QualityGate
	logger      *logger.Logger
}

// NewDataHandler creates a new data handler
func NewDataHandler(repo contracts.MetricsRepository, qualityGate *quality.QualityGate, log *logger.Logger) *DataHandler {
	return &DataHandler{
		repo:        repo,
		qualityGate: qualityGate,
		logger:      log,
	}
}

// GetQuality measures metric coverage of the stored universe
// GET /api/data/quality?sector=Energy
func (h *DataHandler) GetQuality(w http.ResponseWriter, r *http.Request) {
	if h.repo == nil {
		respondError(w, http.StatusServiceUnavailable, "Metrics database is not configured")
		return
	}

	companies, err := h.repo.ListMetricSets(r.Context(), r.URL.Query().Get("sector"))
	if err != nil {
		h.logger.WithError(err).Error("Failed to load company metrics")
		respondError(w, http.StatusInternalServerError, "Failed to load company metrics")
		return
	}

	respondJSON(w, http.StatusOK, h.qualityGate.Check(companies, nil))
}
