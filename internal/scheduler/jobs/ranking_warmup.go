package jobs

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/wonny/equityrank/internal/contracts"
	"github.com/wonny/equityrank/pkg/logger"
)

// RankingWarmupJob pre-computes every goal×risk ranking so API requests hit the cache
type RankingWarmupJob struct {
	repo     contracts.MetricsRepository
	ranker   contracts.Ranker
	schedule string
	sectors  []string
	parallel int
	logger   *logger.Logger
}

// NewRankingWarmupJob creates a new warm-up job.
// sectors lists extra sector filters to warm besides "all".
func NewRankingWarmupJob(repo contracts.MetricsRepository, ranker contracts.Ranker, schedule string, sectors []string, parallel int, log *logger.Logger) *RankingWarmupJob {
	if parallel < 1 {
		parallel = 1
	}
	return &RankingWarmupJob{
		repo:     repo,
		ranker:   ranker,
		schedule: schedule,
		sectors:  append([]string{"all"}, sectors...),
		parallel: parallel,
		logger:   log,
	}
}

// Name returns the job name
func (j *RankingWarmupJob) Name() string {
	return "ranking_warmup"
}

// Schedule returns the cron schedule
func (j *RankingWarmupJob) Schedule() string {
	return j.schedule
}

// Run loads each sector the way the rankings endpoint does and ranks every combination concurrently.
// The cache keys on the input companies, so a sector must be warmed with its own subset.
func (j *RankingWarmupJob) Run(ctx context.Context) error {
	universes := make(map[string][]contracts.MetricSet, len(j.sectors))
	companies := 0
	for _, sector := range j.sectors {
		sets, err := j.repo.ListMetricSets(ctx, sector)
		if err != nil {
			return fmt.Errorf("load companies (%s): %w", sector, err)
		}
		universes[sector] = sets
		companies += len(sets)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(j.parallel)

	for _, sector := range j.sectors {
		sets := universes[sector]
		for _, goal := range contracts.Goals() {
			for _, risk := range contracts.Risks() {
				sector, goal, risk := sector, goal, risk
				g.Go(func() error {
					if _, err := j.ranker.Rank(gctx, goal, risk, sets, sector); err != nil {
						return fmt.Errorf("warm %s/%s/%s: %w", goal, risk, sector, err)
					}
					return nil
				})
			}
		}
	}

	if err := g.Wait(); err != nil {
		return err
	}

	j.logger.WithFields(map[string]interface{}{
		"sectors":      len(j.sectors),
		"companies":    companies,
		"combinations": len(j.sectors) * len(contracts.Goals()) * len(contracts.Risks()),
	}).Info("Ranking cache warmed")

	return nil
}
