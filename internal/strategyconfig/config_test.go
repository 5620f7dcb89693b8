package strategyconfig

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/equityrank/internal/contracts"
)

const sampleYAML = `
meta:
  strategy_id: income_tilt
  version: "2.1.0"
profiles:
  growth:
    - {metric: revenue_growth, weight: 0.5, higher_better: true}
    - {metric: pe_ratio, weight: 0.5, higher_better: false}
  value:
    - {metric: pe_ratio, weight: 1.0, higher_better: false}
  income:
    - {metric: dividend_yield, weight: 0.6, higher_better: true}
    - {metric: free_cash_flow_yield, weight: 0.2, higher_better: true}
    - {metric: price_to_intrinsic, weight: 0.2, higher_better: false}
  balanced:
    - {metric: return_on_equity, weight: 0.5, higher_better: true}
    - {metric: market_cap, weight: 0.5, higher_better: true}
risk:
  conservative: {leverage: 2.0, growth: 0.25}
  aggressive: {leverage: 0.5, growth: 2.0}
insights:
  strength_min: 0.75
  caution_max: 0.25
  max_strengths: 2
  max_cautions: 1
  intrinsic_strength_below: 0.9
  intrinsic_caution_above: 1.1
`

func writeTemp(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "profiles.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, Validate(cfg))
	assert.Empty(t, Warn(cfg))

	for _, goal := range contracts.Goals() {
		sum := 0.0
		for _, s := range cfg.Profiles.Table(goal) {
			sum += s.Weight
		}
		assert.InDelta(t, 1.0, sum, 1e-9, "goal %s", goal)
	}
}

func TestProfiles_TableFallsBackToBalanced(t *testing.T) {
	cfg := Default()
	assert.Equal(t, cfg.Profiles.Balanced, cfg.Profiles.Table(contracts.Goal("momentum")))
	assert.Equal(t, cfg.Profiles.Growth, cfg.Profiles.Table(contracts.GoalGrowth))
}

func TestRisk_Adjustment(t *testing.T) {
	r := Default().Risk
	assert.Equal(t, RiskAdjustment{Leverage: 1.5, Growth: 0.5}, r.Adjustment(contracts.RiskConservative))
	assert.Equal(t, RiskAdjustment{Leverage: 0.5, Growth: 1.5}, r.Adjustment(contracts.RiskAggressive))
	assert.Equal(t, NoAdjustment, r.Adjustment(contracts.RiskModerate))
	assert.Equal(t, NoAdjustment, r.Adjustment(contracts.Risk("reckless")))
}

func TestLoad(t *testing.T) {
	path := writeTemp(t, sampleYAML)

	cfg, yamlData, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "income_tilt", cfg.Meta.StrategyID)
	assert.Len(t, cfg.Profiles.Income, 3)
	assert.Equal(t, "price_to_intrinsic", cfg.Profiles.Income[2].Metric)
	assert.False(t, cfg.Profiles.Income[2].HigherBetter)
	assert.Equal(t, 2.0, cfg.Risk.Conservative.Leverage)
	assert.Equal(t, 1, cfg.Insights.MaxCautions)
	assert.NotEmpty(t, yamlData)

	hash, err := Hash(cfg)
	require.NoError(t, err)
	assert.Len(t, hash, 64)

	hash2, _ := Hash(cfg)
	assert.Equal(t, hash, hash2, "hash not deterministic")

	defaultHash, _ := Hash(Default())
	assert.NotEqual(t, hash, defaultHash)
}

func TestLoad_RejectsUnknownFields(t *testing.T) {
	path := writeTemp(t, sampleYAML+"\nextra_section: true\n")

	_, _, err := Load(path)
	require.Error(t, err)
}

func TestLoad_MissingFile(t *testing.T) {
	_, _, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestLoadOrDefault(t *testing.T) {
	cfg, err := LoadOrDefault("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	cfg, err = LoadOrDefault(writeTemp(t, sampleYAML))
	require.NoError(t, err)
	assert.Equal(t, "income_tilt", cfg.Meta.StrategyID)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(cfg *Config)
		wantField string
	}{
		{
			name:      "missing strategy id",
			mutate:    func(cfg *Config) { cfg.Meta.StrategyID = "" },
			wantField: "meta.strategy_id",
		},
		{
			name:      "empty table",
			mutate:    func(cfg *Config) { cfg.Profiles.Value = nil },
			wantField: "profiles.value",
		},
		{
			name: "zero-sum table",
			mutate: func(cfg *Config) {
				cfg.Profiles.Income = []WeightSpec{{Metric: "dividend_yield", Weight: 0}, {Metric: "pe_ratio", Weight: 0}}
			},
			wantField: "profiles.income",
		},
		{
			name:      "unknown metric",
			mutate:    func(cfg *Config) { cfg.Profiles.Growth[0].Metric = "dividend_yeild" },
			wantField: "profiles.growth[0].metric",
		},
		{
			name:      "non-canonical metric spelling",
			mutate:    func(cfg *Config) { cfg.Profiles.Growth[0].Metric = "Revenue_Growth" },
			wantField: "profiles.growth[0].metric",
		},
		{
			name:      "duplicate metric",
			mutate:    func(cfg *Config) { cfg.Profiles.Balanced[1].Metric = "return_on_equity" },
			wantField: "profiles.balanced[1].metric",
		},
		{
			name:      "negative weight",
			mutate:    func(cfg *Config) { cfg.Profiles.Value[2].Weight = -0.2 },
			wantField: "profiles.value[2].weight",
		},
		{
			name:      "NaN weight",
			mutate:    func(cfg *Config) { cfg.Profiles.Value[2].Weight = math.NaN() },
			wantField: "profiles.value[2].weight",
		},
		{
			name:      "zero multiplier",
			mutate:    func(cfg *Config) { cfg.Risk.Aggressive.Leverage = 0 },
			wantField: "risk.aggressive.leverage",
		},
		{
			name:      "negative growth multiplier",
			mutate:    func(cfg *Config) { cfg.Risk.Conservative.Growth = -1 },
			wantField: "risk.conservative.growth",
		},
		{
			name:      "inverted thresholds",
			mutate:    func(cfg *Config) { cfg.Insights.CautionMax = 0.8 },
			wantField: "insights",
		},
		{
			name:      "negative limit",
			mutate:    func(cfg *Config) { cfg.Insights.MaxCautions = -1 },
			wantField: "insights.max_cautions",
		},
		{
			name:      "inverted intrinsic band",
			mutate:    func(cfg *Config) { cfg.Insights.IntrinsicStrengthBelow = 1.5 },
			wantField: "insights",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := Validate(cfg)
			require.Error(t, err)

			var verr ValidationError
			require.True(t, errors.As(err, &verr), "expected ValidationError, got %T", err)
			assert.Equal(t, tt.wantField, verr.Field)
		})
	}
}

func TestWarn(t *testing.T) {
	cfg := Default()
	cfg.Profiles.Value = []WeightSpec{
		{Metric: "dividend_yield", Weight: 2, HigherBetter: true},
		{Metric: "return_on_equity", Weight: 1, HigherBetter: true},
	}
	cfg.Insights.MaxStrengths = 0
	cfg.Insights.MaxCautions = 0

	warnings := Warn(cfg)
	codes := make([]string, 0, len(warnings))
	for _, w := range warnings {
		codes = append(codes, w.Code)
	}

	assert.Contains(t, codes, "TABLE_NOT_UNIT")
	assert.Contains(t, codes, "NO_LOWER_BETTER")
	assert.Contains(t, codes, "NO_INSIGHTS")
}

func TestValidatePositiveSum(t *testing.T) {
	tests := []struct {
		weights []float64
		valid   bool
	}{
		{[]float64{0.4, 0.35, 0.25}, true},
		{[]float64{3, 1}, true},
		{[]float64{0, 0}, false},
		{[]float64{}, false},
	}

	for _, tc := range tests {
		err := validatePositiveSum(tc.weights)
		if tc.valid && err != nil {
			t.Errorf("validatePositiveSum(%v) expected valid, got error: %v", tc.weights, err)
		}
		if !tc.valid && err == nil {
			t.Errorf("validatePositiveSum(%v) expected error, got nil", tc.weights)
		}
	}
}
