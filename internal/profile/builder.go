package profile

import (
	"fmt"

	"github.com/wonny/equityrank/internal/contracts"
	"github.com/wonny/equityrank/internal/strategyconfig"
)

// Builder turns (goal, risk) into a renormalized weight table
// ⭐ SSOT: 가중치 테이블 생성은 여기서만
type Builder struct {
	cfg *strategyconfig.Config
}

// NewBuilder creates a builder over cfg. A nil cfg uses strategyconfig.Default().
func NewBuilder(cfg *strategyconfig.Config) *Builder {
	if cfg == nil {
		cfg = strategyconfig.Default()
	}
	return &Builder{cfg: cfg}
}

// DefaultBuilder creates a builder over the built-in tables
func DefaultBuilder() *Builder {
	return NewBuilder(nil)
}

// Build returns a fresh ProfileConfig for (goal, risk).
// Unknown goals use the balanced table. A table that cannot be
// normalized (empty, negative or zero-sum) returns a ValidationError.
func (b *Builder) Build(goal contracts.Goal, risk contracts.Risk) (*contracts.ProfileConfig, error) {
	resolved, _ := contracts.ParseGoal(string(goal))
	field := "profiles." + string(resolved)

	specs := b.cfg.Profiles.Table(resolved)
	if err := strategyconfig.ValidateTable(field, specs); err != nil {
		return nil, fmt.Errorf("build profile %s/%s: %w", resolved, risk, err)
	}

	// 1. Risk adjustment (multiplicative)
	adj := b.cfg.Risk.Adjustment(risk)
	entries := make([]contracts.WeightEntry, 0, len(specs))
	sum := 0.0
	for _, s := range specs {
		m, _ := contracts.ParseMetric(s.Metric)
		w := s.Weight * multiplier(m, adj)
		entries = append(entries, contracts.WeightEntry{
			Metric:       m,
			Weight:       w,
			HigherBetter: s.HigherBetter,
		})
		sum += w
	}

	if !(sum > 0) {
		return nil, fmt.Errorf("build profile %s/%s: %w", resolved, risk, strategyconfig.ValidationError{
			Field:   field,
			Message: fmt.Sprintf("risk-adjusted weights sum to %.4f", sum),
		})
	}

	// 2. Renormalize (항상, 조정 이후)
	for i := range entries {
		entries[i].Weight /= sum
	}

	return contracts.NewProfileConfig(resolved, risk, entries), nil
}

// multiplier returns the risk multiplier applied to metric m
func multiplier(m contracts.Metric, adj strategyconfig.RiskAdjustment) float64 {
	switch m {
	case contracts.MetricDebtToEquity:
		return adj.Leverage
	case contracts.MetricRevenueGrowth, contracts.MetricEarningsGrowth:
		return adj.Growth
	default:
		return 1
	}
}
