package selection

import (
	"context"
	"fmt"
	"sort"

	"github.com/rs/zerolog"

	"github.com/wonny/equityrank/internal/contracts"
	"github.com/wonny/equityrank/internal/profile"
	"github.com/wonny/equityrank/internal/scoring"
	"github.com/wonny/equityrank/internal/strategyconfig"
	"github.com/wonny/equityrank/pkg/logger"
)

// Ranker scores a company list under one profile and sorts it
// ⭐ SSOT: 랭킹 로직은 여기서만
type Ranker struct {
	builder  *profile.Builder
	screener *Screener
	insights *scoring.InsightGenerator
	logger   *logger.Logger
}

var _ contracts.Ranker = (*Ranker)(nil)

// NewRanker creates a new ranker. A nil cfg uses strategyconfig.Default().
func NewRanker(cfg *strategyconfig.Config, logger *logger.Logger) *Ranker {
	if cfg == nil {
		cfg = strategyconfig.Default()
	}
	return &Ranker{
		builder:  profile.NewBuilder(cfg),
		screener: NewScreener(logger),
		insights: scoring.NewInsightGenerator(cfg.Insights),
		logger:   logger,
	}
}

// Rank filters companies by sector, scores them against their filtered peers
// and returns them by score (descending, ties keep input order).
// The only error is a profile that cannot be built.
func (r *Ranker) Rank(ctx context.Context, goal contracts.Goal, risk contracts.Risk, companies []contracts.MetricSet, sector string) ([]contracts.RankedCompany, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// 1. Profile
	p, err := r.builder.Build(goal, risk)
	if err != nil {
		return nil, fmt.Errorf("rank: %w", err)
	}

	// 2. Sector filter
	group := r.screener.Screen(companies, sector)
	if len(group) == 0 {
		r.logger.WithFields(map[string]interface{}{
			"goal":   p.Goal(),
			"risk":   risk,
			"sector": NormalizeSector(sector),
		}).Info("No companies to rank")
		return []contracts.RankedCompany{}, nil
	}

	// 3. Peer ranges over the filtered group
	peers := scoring.CollectPeers(group, p)

	// 4. Score + insights
	ranked := make([]contracts.RankedCompany, 0, len(group))
	for i := range group {
		c := &group[i]
		res := scoring.Aggregate(c, p, peers)
		strengths, cautions := r.insights.Generate(res.Contributions)

		if r.logger.Enabled(zerolog.DebugLevel) {
			r.logger.WithFields(map[string]interface{}{
				"ticker":         c.Ticker,
				"score":          res.Score,
				"applied_weight": res.AppliedWeight,
			}).Debug("Company scored")
		}

		ranked = append(ranked, newRankedCompany(c.Clone(), res.Score, strengths, cautions))
	}

	// 5. Sort by score (descending, stable)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	// Assign ranks
	for i := range ranked {
		ranked[i].Rank = i + 1
	}

	r.logger.WithFields(map[string]interface{}{
		"goal":         p.Goal(),
		"risk":         risk,
		"sector":       NormalizeSector(sector),
		"total_input":  len(companies),
		"total_ranked": len(ranked),
		"top_score":    ranked[0].Score,
		"top_ticker":   ranked[0].Ticker,
	}).Info("Ranking completed")

	return ranked, nil
}

func newRankedCompany(m contracts.MetricSet, score float64, strengths, cautions []contracts.Insight) contracts.RankedCompany {
	return contracts.RankedCompany{
		Ticker:        m.Ticker,
		Name:          m.Name,
		Score:         score,
		Sector:        m.Sector,
		MarketCap:     m.MarketCap,
		CurrentPrice:  m.CurrentPrice,
		PERatio:       m.PERatio,
		DividendYield: m.DividendYield,
		Strengths:     strengths,
		Cautions:      cautions,
		Metrics:       m,
	}
}

var defaultRanker = NewRanker(strategyconfig.Default(), logger.Nop())

// Rank ranks companies with the built-in tables and no logging
func Rank(goal contracts.Goal, risk contracts.Risk, companies []contracts.MetricSet, sector string) ([]contracts.RankedCompany, error) {
	return defaultRanker.Rank(context.Background(), goal, risk, companies, sector)
}
