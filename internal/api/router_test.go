package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/equityrank/internal/api/handlers"
	"github.com/wonny/equityrank/internal/contracts"
	"github.com/wonny/equityrank/internal/profile"
	"github.com/wonny/equityrank/internal/s0_data/quality"
	"github.com/wonny/equityrank/internal/selection"
	"github.com/wonny/equityrank/pkg/config"
	"github.com/wonny/equityrank/pkg/logger"
)

type stubRepo struct {
	companies []contracts.MetricSet
	err       error
	sectors   []string
}

func (s *stubRepo) ListMetricSets(_ context.Context, sector string) ([]contracts.MetricSet, error) {
	s.sectors = append(s.sectors, sector)
	return s.companies, s.err
}

type panicRanker struct{}

func (panicRanker) Rank(context.Context, contracts.Goal, contracts.Risk, []contracts.MetricSet, string) ([]contracts.RankedCompany, error) {
	panic("boom")
}

func universe() []contracts.MetricSet {
	return []contracts.MetricSet{
		{
			Ticker: "AAA", Name: "Alpha", Sector: "Technology",
			PERatio: contracts.Float(10), DebtToEquity: contracts.Float(0.5),
			ReturnOnEquity: contracts.Float(0.25), DividendYield: contracts.Float(0.04),
		},
		{
			Ticker: "BBB", Name: "Beta", Sector: "technology",
			PERatio: contracts.Float(20), DebtToEquity: contracts.Float(1.0),
			ReturnOnEquity: contracts.Float(0.15), DividendYield: contracts.Float(0.02),
		},
		{
			Ticker: "CCC", Name: "Gamma", Sector: "Energy",
			PERatio: contracts.Float(30), DebtToEquity: contracts.Float(2.0),
			ReturnOnEquity: contracts.Float(0.05), DividendYield: contracts.Float(0),
		},
	}
}

func newTestRouter(repo contracts.MetricsRepository, ranker contracts.Ranker, limit *RateLimit) http.Handler {
	log := logger.Nop()
	if ranker == nil {
		ranker = selection.NewRanker(nil, log)
	}
	return NewRouter(Handlers{
		Ranking: handlers.NewRankingHandler(repo, ranker, log),
		Profile: handlers.NewProfileHandler(profile.DefaultBuilder(), log),
		Data:    handlers.NewDataHandler(repo, quality.NewQualityGate(quality.DefaultConfig()), log),
	}, limit, log)
}

func do(t *testing.T, h http.Handler, method, target string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, bytes.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeRankings(t *testing.T, w *httptest.ResponseRecorder) handlers.RankingResponse {
	t.Helper()
	var resp handlers.RankingResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	return resp
}

func TestHealth(t *testing.T) {
	w := do(t, newTestRouter(&stubRepo{}, nil, nil), "GET", "/health", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"equityrank-api"`)
	assert.Len(t, w.Header().Get("X-Request-ID"), 36)
}

func TestHealth_Degraded(t *testing.T) {
	log := logger.Nop()
	h := NewRouter(Handlers{
		Ranking: handlers.NewRankingHandler(nil, selection.NewRanker(nil, log), log),
		Profile: handlers.NewProfileHandler(profile.DefaultBuilder(), log),
		Health: map[string]HealthCheck{
			"database": func(context.Context) error { return nil },
			"redis":    func(context.Context) error { return errors.New("connection refused") },
		},
	}, nil, log)

	w := do(t, h, "GET", "/health", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	var body struct {
		Status     string            `json:"status"`
		Components map[string]string `json:"components"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, "degraded", body.Status)
	assert.Equal(t, "ok", body.Components["database"])
	assert.Equal(t, "connection refused", body.Components["redis"])

	// data endpoints are not mounted without a DataHandler
	assert.Equal(t, http.StatusNotFound, do(t, h, "GET", "/api/data/quality", nil).Code)
}

func TestRequestIDPropagates(t *testing.T) {
	req := httptest.NewRequest("GET", "/health", nil)
	req.Header.Set("X-Request-ID", "trace-123")
	w := httptest.NewRecorder()
	newTestRouter(&stubRepo{}, nil, nil).ServeHTTP(w, req)

	assert.Equal(t, "trace-123", w.Header().Get("X-Request-ID"))
}

func TestGetRankings(t *testing.T) {
	repo := &stubRepo{companies: universe()}
	h := newTestRouter(repo, nil, nil)

	w := do(t, h, "GET", "/api/rankings?goal=value&risk=moderate", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	resp := decodeRankings(t, w)
	assert.Equal(t, contracts.GoalValue, resp.Goal)
	assert.Equal(t, contracts.RiskModerate, resp.Risk)
	assert.Equal(t, "all", resp.Sector)
	require.Equal(t, 3, resp.Count)
	assert.Equal(t, "AAA", resp.Rankings[0].Ticker)
	assert.Equal(t, "CCC", resp.Rankings[2].Ticker)
	assert.InDelta(t, 100, resp.Rankings[0].Score, 1e-9)
	assert.InDelta(t, 0, resp.Rankings[2].Score, 1e-9)
	assert.Equal(t, 1, resp.Rankings[0].Rank)
	assert.NotEmpty(t, resp.Rankings[0].Strengths)
	assert.NotEmpty(t, resp.Rankings[2].Cautions)
}

func TestGetRankings_SectorAndLimit(t *testing.T) {
	repo := &stubRepo{companies: universe()}
	h := newTestRouter(repo, nil, nil)

	w := do(t, h, "GET", "/api/rankings?goal=value&sector=TECHNOLOGY&limit=1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeRankings(t, w)
	require.Equal(t, 1, resp.Count)
	assert.Equal(t, "AAA", resp.Rankings[0].Ticker)
	assert.Equal(t, []string{"TECHNOLOGY"}, repo.sectors)
}

func TestGetRankings_UnknownGoalFallsBack(t *testing.T) {
	w := do(t, newTestRouter(&stubRepo{companies: universe()}, nil, nil), "GET", "/api/rankings?goal=momentum", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, contracts.GoalBalanced, decodeRankings(t, w).Goal)
}

func TestGetRankings_Errors(t *testing.T) {
	tests := []struct {
		name   string
		repo   contracts.MetricsRepository
		target string
		want   int
	}{
		{"unknown risk", &stubRepo{}, "/api/rankings?risk=yolo", http.StatusBadRequest},
		{"bad limit", &stubRepo{}, "/api/rankings?limit=abc", http.StatusBadRequest},
		{"negative limit", &stubRepo{}, "/api/rankings?limit=-2", http.StatusBadRequest},
		{"repository failure", &stubRepo{err: errors.New("connection refused")}, "/api/rankings", http.StatusInternalServerError},
		{"no database", nil, "/api/rankings", http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, newTestRouter(tt.repo, nil, nil), "GET", tt.target, nil)
			assert.Equal(t, tt.want, w.Code)
			assert.Contains(t, w.Body.String(), `"error"`)
		})
	}
}

func TestPostRankings(t *testing.T) {
	body := []byte(`{
		"goal": "income",
		"risk": "conservative",
		"sector": "all",
		"companies": [
			{"ticker": "KO", "sector": "Consumer", "dividend_yield": "3.1%", "debt_to_equity": 1.6, "pe_ratio": 24},
			{"ticker": "T", "sector": "Telecom", "dividend_yield": 0.065, "debt_to_equity": "N/A", "pe_ratio": 8}
		]
	}`)

	w := do(t, newTestRouter(nil, nil, nil), "POST", "/api/rankings", body)
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeRankings(t, w)
	assert.Equal(t, contracts.GoalIncome, resp.Goal)
	assert.Equal(t, contracts.RiskConservative, resp.Risk)
	require.Equal(t, 2, resp.Count)
	require.Len(t, resp.Issues, 1)
	assert.Equal(t, "T", resp.Issues[0].Ticker)
	assert.Equal(t, "debt_to_equity", resp.Issues[0].Field)
}

func TestPostRankings_EmptyCompanies(t *testing.T) {
	w := do(t, newTestRouter(nil, nil, nil), "POST", "/api/rankings", []byte(`{"goal":"growth"}`))
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeRankings(t, w)
	assert.Equal(t, 0, resp.Count)
	assert.NotNil(t, resp.Rankings)
	assert.Contains(t, w.Body.String(), `"rankings":[]`)
}

func TestPostRankings_BadRequests(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"goal":`},
		{"unknown field", `{"goal":"growth","horizon":"long"}`},
		{"companies not an array", `{"companies":{"ticker":"X"}}`},
		{"unknown risk", `{"risk":"reckless"}`},
		{"negative limit", `{"limit":-1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, newTestRouter(nil, nil, nil), "POST", "/api/rankings", []byte(tt.body))
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestGetProfile(t *testing.T) {
	w := do(t, newTestRouter(nil, nil, nil), "GET", "/api/profiles/growth?risk=aggressive", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp handlers.ProfileResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, contracts.GoalGrowth, resp.Goal)
	assert.Equal(t, contracts.RiskAggressive, resp.Risk)
	require.Len(t, resp.Weights, 5)

	sum := 0.0
	for _, e := range resp.Weights {
		sum += e.Weight
	}
	assert.InDelta(t, 1.0, sum, 1e-9)

	w = do(t, newTestRouter(nil, nil, nil), "GET", "/api/profiles/growth?risk=yolo", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetQuality(t *testing.T) {
	w := do(t, newTestRouter(&stubRepo{companies: universe()}, nil, nil), "GET", "/api/data/quality", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var report quality.Report
	require.NoError(t, json.NewDecoder(w.Body).Decode(&report))
	require.NotNil(t, report.Snapshot)
	assert.Equal(t, 3, report.Snapshot.TotalCompanies)
	assert.Equal(t, 1.0, report.Snapshot.Coverage[contracts.MetricPERatio])
	assert.Contains(t, report.LowCoverage, contracts.MetricFairValue)
}

func TestRecoveryMiddleware(t *testing.T) {
	w := do(t, newTestRouter(&stubRepo{}, panicRanker{}, nil), "GET", "/api/rankings", nil)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "Internal server error"))
}

func TestRateLimit(t *testing.T) {
	limit := NewRateLimit(config.APIConfig{RateLimit: 0.001, RateBurst: 1}, nil)
	require.NotNil(t, limit)
	h := newTestRouter(&stubRepo{companies: universe()}, nil, limit)

	first := do(t, h, "GET", "/api/rankings", nil)
	assert.Equal(t, http.StatusOK, first.Code)

	second := do(t, h, "GET", "/api/rankings", nil)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.NotEmpty(t, second.Header().Get("Retry-After"))

	// health is outside /api
	assert.Equal(t, http.StatusOK, do(t, h, "GET", "/health", nil).Code)
}

func TestNewRateLimit_Disabled(t *testing.T) {
	assert.Nil(t, NewRateLimit(config.APIConfig{RateLimit: 0}, nil))
}
